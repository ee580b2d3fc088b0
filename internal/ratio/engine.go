// Package ratio computes financial ratios for a company-period record,
// compares them to industry benchmarks and scores overall financial health.
package ratio

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-ratios/pkg/constants"
	"go.uber.org/zap"
)

// PeriodScale tells the engine what span of time flow figures cover.
type PeriodScale int

const (
	// PeriodAnnual leaves asset turnover unscaled.
	PeriodAnnual PeriodScale = iota
	// PeriodQuarterly annualizes asset turnover by four.
	PeriodQuarterly
)

func (s PeriodScale) String() string {
	if s == PeriodQuarterly {
		return "quarterly"
	}
	return "annual"
}

// ParsePeriodScale maps "annual" or "quarterly" onto a PeriodScale. The
// empty string means annual.
func ParsePeriodScale(name string) (PeriodScale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "annual":
		return PeriodAnnual, nil
	case "quarterly":
		return PeriodQuarterly, nil
	}
	return PeriodAnnual, fmt.Errorf("unknown period scale %q: expected annual or quarterly", name)
}

// Options tune ratio computation.
type Options struct {
	Scale    PeriodScale
	Extended bool
}

// Engine computes ratio sets, benchmark comparisons and health
// assessments. It holds no per-company state.
type Engine struct {
	logger  *zap.Logger
	options Options
}

// NewEngine creates a new engine with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, options Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, options: options}
}

// Options returns the engine's configuration.
func (e *Engine) Options() Options {
	return e.options
}

// Compute derives every ratio for the record. Individual ratios with a
// missing input or zero denominator come back Undefined; only a record
// missing a required field fails as a whole.
func (e *Engine) Compute(p CompanyPeriod) (RatioSet, error) {
	if err := p.Validate(); err != nil {
		return RatioSet{}, err
	}

	var set RatioSet
	record := func(c Category, n Name, v Value) {
		if !v.IsDefined() {
			e.logger.Debug("ratio undefined",
				zap.String("op", "ratio.Compute"),
				zap.String("company", p.CompanyID),
				zap.String("category", c.String()),
				zap.String("ratio", string(n)),
			)
		}
		set.put(c, n, v)
	}

	e.profitability(p, record)
	e.liquidity(p, record)
	e.leverage(p, record)
	e.efficiency(p, record)
	e.valuation(p, record)

	return set, nil
}

type recorder func(Category, Name, Value)

func (e *Engine) profitability(p CompanyPeriod, record recorder) {
	revenue := p.get(Revenue)
	netIncome := p.get(NetIncome)

	record(Profitability, GrossMargin, divide(p.get(GrossProfit), revenue))
	record(Profitability, OperatingMargin, divide(p.get(OperatingIncome), revenue))
	record(Profitability, NetMargin, divide(netIncome, revenue))
	record(Profitability, ROA, divide(netIncome, p.get(TotalAssets)))
	record(Profitability, ROE, divide(netIncome, p.get(ShareholdersEquity)))

	if !e.options.Extended {
		return
	}
	ebitda := add(p.get(OperatingIncome), p.getOr(Depreciation, Finite(0)))
	record(Profitability, EBITDAMargin, divide(ebitda, revenue))
	record(Profitability, OperatingCashFlowMargin, divide(p.getOr(OperatingCashFlow, netIncome), revenue))
}

func (e *Engine) liquidity(p CompanyPeriod, record recorder) {
	currentAssets := p.get(CurrentAssets)
	currentLiabilities := p.get(CurrentLiabilities)

	record(Liquidity, CurrentRatio, divide(currentAssets, currentLiabilities))
	record(Liquidity, QuickRatio, divide(subtract(currentAssets, p.get(Inventory)), currentLiabilities))
	record(Liquidity, CashRatio, divide(p.get(Cash), currentLiabilities))

	if !e.options.Extended {
		return
	}
	record(Liquidity, WorkingCapital, subtract(currentAssets, currentLiabilities))
}

func (e *Engine) leverage(p CompanyPeriod, record recorder) {
	equity := p.get(ShareholdersEquity)
	totalAssets := p.get(TotalAssets)

	record(Leverage, DebtToEquity, divide(p.get(TotalLiabilities), equity))
	record(Leverage, DebtRatio, divide(p.get(TotalLiabilities), totalAssets))
	record(Leverage, InterestCoverage, interestCoverage(p))

	if !e.options.Extended {
		return
	}
	record(Leverage, EquityRatio, divide(equity, totalAssets))
	record(Leverage, FinancialLeverage, divide(totalAssets, equity))
}

// interestCoverage divides operating income by interest expense, imputing
// interest at 5% of long-term debt when none is reported. No interest
// burden is reported as Unbounded.
func interestCoverage(p CompanyPeriod) Value {
	ebit := p.get(OperatingIncome)
	if !ebit.IsFinite() {
		return Undefined()
	}
	interest := p.get(InterestExpense)
	if !interest.IsDefined() {
		interest = scale(p.get(LongTermDebt), constants.ImputedInterestRate)
	}
	if !interest.IsFinite() {
		return Undefined()
	}
	if interest.number <= 0 {
		return Unbounded()
	}
	return divide(ebit, interest)
}

func (e *Engine) efficiency(p CompanyPeriod, record recorder) {
	revenue := p.get(Revenue)
	totalAssets := p.get(TotalAssets)

	assetScale := 1.0
	if e.options.Scale == PeriodQuarterly {
		assetScale = constants.QuartersPerYear
	}
	inventoryTurnover := divide(scale(p.get(COGS), constants.QuartersPerYear), p.get(Inventory))
	receivablesTurnover := divide(scale(revenue, constants.QuartersPerYear), p.get(AccountsReceivable))

	record(Efficiency, AssetTurnover, divide(scale(revenue, assetScale), totalAssets))
	record(Efficiency, InventoryTurnover, inventoryTurnover)
	record(Efficiency, ReceivablesTurnover, receivablesTurnover)

	if !e.options.Extended {
		return
	}
	record(Efficiency, DaysInventory, daysFromTurnover(inventoryTurnover))
	record(Efficiency, DaysReceivables, daysFromTurnover(receivablesTurnover))

	fixedAssets := subtract(totalAssets, p.get(CurrentAssets))
	switch {
	case !fixedAssets.IsFinite():
		record(Efficiency, FixedAssetTurnover, Undefined())
	case fixedAssets.number <= 0:
		record(Efficiency, FixedAssetTurnover, Unbounded())
	default:
		record(Efficiency, FixedAssetTurnover, divide(revenue, fixedAssets))
	}
}

func daysFromTurnover(turnover Value) Value {
	if !turnover.IsFinite() {
		return Undefined()
	}
	if turnover.number <= 0 {
		return Unbounded()
	}
	return Finite(constants.DaysPerYear / turnover.number)
}

func (e *Engine) valuation(p CompanyPeriod, record recorder) {
	shares := p.get(SharesOutstanding)
	price := p.get(StockPrice)

	eps := divide(p.get(NetIncome), shares)
	record(Valuation, EPS, eps)

	switch {
	case !eps.IsFinite() || !price.IsFinite():
		record(Valuation, PERatio, Undefined())
	case eps.number <= 0:
		record(Valuation, PERatio, Unbounded())
	default:
		record(Valuation, PERatio, divide(price, eps))
	}

	record(Valuation, PBRatio, divide(price, divide(p.get(ShareholdersEquity), shares)))
	record(Valuation, PSRatio, divide(price, divide(p.get(Revenue), shares)))

	if !e.options.Extended {
		return
	}
	record(Valuation, EVToEBITDA, evToEBITDA(p))

	switch {
	case !price.IsFinite():
		record(Valuation, DividendYield, Undefined())
	case price.number <= 0:
		record(Valuation, DividendYield, Finite(0))
	default:
		record(Valuation, DividendYield, divide(p.getOr(Dividends, Finite(0)), price))
	}
}

// evToEBITDA values the firm at market cap plus long-term debt less cash.
// Depreciation defaults to 10% of operating income when not reported.
func evToEBITDA(p CompanyPeriod) Value {
	ebit := p.get(OperatingIncome)
	marketCap := Undefined()
	if shares, price := p.get(SharesOutstanding), p.get(StockPrice); shares.IsFinite() && price.IsFinite() {
		marketCap = Finite(shares.number * price.number)
	}
	enterpriseValue := subtract(add(marketCap, p.get(LongTermDebt)), p.get(Cash))
	ebitda := add(ebit, p.getOr(Depreciation, scale(ebit, constants.ImputedDepreciationRate)))

	if !enterpriseValue.IsFinite() || !ebitda.IsFinite() {
		return Undefined()
	}
	if ebitda.number <= 0 {
		return Unbounded()
	}
	return divide(enterpriseValue, ebitda)
}
