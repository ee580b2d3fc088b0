package ratio

import (
	"fmt"
	"strings"
)

// Category groups related ratios. The set of categories is closed.
type Category int

const (
	Profitability Category = iota
	Liquidity
	Leverage
	Efficiency
	Valuation

	categoryCount = int(Valuation) + 1
)

var categoryNames = [categoryCount]string{
	"profitability",
	"liquidity",
	"leverage",
	"efficiency",
	"valuation",
}

// Categories returns all categories in report order.
func Categories() []Category {
	return []Category{Profitability, Liquidity, Leverage, Efficiency, Valuation}
}

// ParseCategory maps a lowercase category name onto a Category.
func ParseCategory(name string) (Category, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == normalized {
			return Category(i), true
		}
	}
	return 0, false
}

func (c Category) valid() bool {
	return c >= 0 && int(c) < categoryCount
}

func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Title returns the capitalized category name for reports.
func (c Category) Title() string {
	s := c.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// MarshalText encodes the category by name so it can key JSON objects.
func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, ok := ParseCategory(string(text))
	if !ok {
		return fmt.Errorf("unknown ratio category %q", string(text))
	}
	*c = parsed
	return nil
}

// Name identifies a single ratio.
type Name string

const (
	GrossMargin     Name = "gross_margin"
	OperatingMargin Name = "operating_margin"
	NetMargin       Name = "net_margin"
	ROA             Name = "roa"
	ROE             Name = "roe"

	CurrentRatio Name = "current_ratio"
	QuickRatio   Name = "quick_ratio"
	CashRatio    Name = "cash_ratio"

	DebtToEquity     Name = "debt_to_equity"
	DebtRatio        Name = "debt_ratio"
	InterestCoverage Name = "interest_coverage"

	AssetTurnover       Name = "asset_turnover"
	InventoryTurnover   Name = "inventory_turnover"
	ReceivablesTurnover Name = "receivables_turnover"

	EPS     Name = "eps"
	PERatio Name = "pe_ratio"
	PBRatio Name = "pb_ratio"
	PSRatio Name = "ps_ratio"

	// Extended ratios.
	EBITDAMargin            Name = "ebitda_margin"
	OperatingCashFlowMargin Name = "operating_cash_flow_margin"
	WorkingCapital          Name = "working_capital"
	EquityRatio             Name = "equity_ratio"
	FinancialLeverage       Name = "financial_leverage"
	DaysInventory           Name = "days_inventory"
	DaysReceivables         Name = "days_receivables"
	FixedAssetTurnover      Name = "fixed_asset_turnover"
	EVToEBITDA              Name = "ev_to_ebitda"
	DividendYield           Name = "dividend_yield"
)

var coreRatios = [categoryCount][]Name{
	Profitability: {GrossMargin, OperatingMargin, NetMargin, ROA, ROE},
	Liquidity:     {CurrentRatio, QuickRatio, CashRatio},
	Leverage:      {DebtToEquity, DebtRatio, InterestCoverage},
	Efficiency:    {AssetTurnover, InventoryTurnover, ReceivablesTurnover},
	Valuation:     {EPS, PERatio, PBRatio, PSRatio},
}

var extendedRatios = [categoryCount][]Name{
	Profitability: {EBITDAMargin, OperatingCashFlowMargin},
	Liquidity:     {WorkingCapital},
	Leverage:      {EquityRatio, FinancialLeverage},
	Efficiency:    {DaysInventory, DaysReceivables, FixedAssetTurnover},
	Valuation:     {EVToEBITDA, DividendYield},
}

// Ratios returns the category's core ratio names in order.
func (c Category) Ratios() []Name {
	if !c.valid() {
		return nil
	}
	return append([]Name(nil), coreRatios[c]...)
}

// ExtendedRatios returns the supplementary ratio names computed when the
// engine runs with Options.Extended.
func (c Category) ExtendedRatios() []Name {
	if !c.valid() {
		return nil
	}
	return append([]Name(nil), extendedRatios[c]...)
}

// CategoryOf returns the category owning a ratio name.
func CategoryOf(n Name) (Category, bool) {
	for _, c := range Categories() {
		for _, name := range coreRatios[c] {
			if name == n {
				return c, true
			}
		}
		for _, name := range extendedRatios[c] {
			if name == n {
				return c, true
			}
		}
	}
	return 0, false
}

var labelOverrides = map[Name]string{
	ROA:          "ROA",
	ROE:          "ROE",
	EPS:          "EPS",
	PERatio:      "P/E Ratio",
	PBRatio:      "P/B Ratio",
	PSRatio:      "P/S Ratio",
	EVToEBITDA:   "EV/EBITDA",
	EBITDAMargin: "EBITDA Margin",
}

// Label returns a human-readable name, e.g. "Net Margin".
func (n Name) Label() string {
	if label, ok := labelOverrides[n]; ok {
		return label
	}
	words := strings.Split(string(n), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
