package ratio

import "fmt"

// Warnings flags ratio values that usually signal trouble. Only defined
// values are checked.
func Warnings(set RatioSet) []string {
	var warnings []string

	if v, ok := finite(set, Profitability, NetMargin); ok && v < 0 {
		warnings = append(warnings, "Negative net profit margin detected")
	}
	if v, ok := finite(set, Profitability, ROE); ok && v > 1 {
		warnings = append(warnings, "Extremely high ROE (possible financial engineering)")
	}
	if v, ok := finite(set, Liquidity, CurrentRatio); ok && v < 1 {
		warnings = append(warnings, "Current ratio below 1 - potential liquidity issues")
	}
	if v, ok := finite(set, Liquidity, QuickRatio); ok && v < 0.5 {
		warnings = append(warnings, "Quick ratio very low - limited liquid assets")
	}
	if v, ok := finite(set, Leverage, DebtToEquity); ok && v > 2 {
		warnings = append(warnings, "High debt-to-equity ratio - elevated financial risk")
	}
	if v, ok := finite(set, Leverage, InterestCoverage); ok && v < 1.5 {
		warnings = append(warnings, "Low interest coverage - difficulty servicing debt")
	}

	return warnings
}

func finite(set RatioSet, c Category, n Name) (float64, bool) {
	v, ok := set.Get(c, n)
	if !ok || !v.IsFinite() {
		return 0, false
	}
	return v.number, true
}

// Optimal states which direction of a ratio is desirable.
type Optimal string

const (
	OptimalHigher Optimal = "higher"
	OptimalLower  Optimal = "lower"
	OptimalRange  Optimal = "range"
)

// Range is the expected band for a ratio.
type Range struct {
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Optimal Optimal `json:"optimal" yaml:"optimal"`
}

// Ranges maps category name to ratio name to its expected band.
type Ranges map[string]map[string]Range

// DefaultRanges returns the reference bands used when none are configured.
func DefaultRanges() Ranges {
	return Ranges{
		Profitability.String(): {
			string(GrossMargin):     {Min: 0, Max: 1, Optimal: OptimalHigher},
			string(OperatingMargin): {Min: 0, Max: 1, Optimal: OptimalHigher},
			string(NetMargin):       {Min: 0, Max: 1, Optimal: OptimalHigher},
			string(ROA):             {Min: 0, Max: 0.5, Optimal: OptimalHigher},
			string(ROE):             {Min: 0, Max: 1, Optimal: OptimalHigher},
		},
		Liquidity.String(): {
			string(CurrentRatio): {Min: 1, Max: 3, Optimal: OptimalRange},
			string(QuickRatio):   {Min: 0.8, Max: 2, Optimal: OptimalRange},
			string(CashRatio):    {Min: 0.1, Max: 0.8, Optimal: OptimalRange},
		},
		Leverage.String(): {
			string(DebtToEquity):     {Min: 0, Max: 2, Optimal: OptimalLower},
			string(DebtRatio):        {Min: 0, Max: 0.8, Optimal: OptimalLower},
			string(InterestCoverage): {Min: 1.5, Max: 20, Optimal: OptimalHigher},
		},
		Efficiency.String(): {
			string(AssetTurnover):       {Min: 0.5, Max: 2, Optimal: OptimalHigher},
			string(InventoryTurnover):   {Min: 4, Max: 12, Optimal: OptimalHigher},
			string(ReceivablesTurnover): {Min: 6, Max: 15, Optimal: OptimalHigher},
		},
	}
}

// RangeFinding reports a ratio outside its expected band.
type RangeFinding struct {
	Category Category `json:"category"`
	Ratio    Name     `json:"ratio"`
	Value    Value    `json:"value"`
	Range    Range    `json:"range"`
	Message  string   `json:"message"`
}

// CheckRanges returns a finding for every defined ratio on the wrong side
// of its band. Higher-is-better ratios are only flagged below Min,
// lower-is-better ratios only above Max, and range ratios on either side.
func CheckRanges(set RatioSet, ranges Ranges) []RangeFinding {
	var findings []RangeFinding
	for _, c := range Categories() {
		bands, ok := ranges[c.String()]
		if !ok {
			continue
		}
		for _, entry := range set.Category(c) {
			band, ok := bands[string(entry.Name)]
			if !ok || !entry.Value.IsDefined() {
				continue
			}
			value, _ := entry.Value.Float()
			low := value < band.Min && band.Optimal != OptimalLower
			high := value > band.Max && band.Optimal != OptimalHigher
			if !low && !high {
				continue
			}
			direction := "below"
			bound := band.Min
			if high {
				direction = "above"
				bound = band.Max
			}
			findings = append(findings, RangeFinding{
				Category: c,
				Ratio:    entry.Name,
				Value:    entry.Value,
				Range:    band,
				Message:  fmt.Sprintf("%s of %s is %s the expected %s of %g", entry.Name.Label(), display(entry.Value), direction, boundName(direction), bound),
			})
		}
	}
	return findings
}

func boundName(direction string) string {
	if direction == "above" {
		return "maximum"
	}
	return "minimum"
}

func display(v Value) string {
	if v.IsFinite() {
		return fmt.Sprintf("%.3f", v.number)
	}
	return v.String()
}
