package ratio

import (
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"go.uber.org/zap"
)

// Status tells whether a company ratio sits above or below its benchmark.
type Status string

const (
	StatusAbove Status = "Above"
	StatusBelow Status = "Below"
)

// statusFor applies the strict comparison: only a positive difference is
// Above, so a value equal to its benchmark is Below.
func statusFor(difference float64) Status {
	if difference > 0 {
		return StatusAbove
	}
	return StatusBelow
}

// Comparison relates one company ratio to its industry benchmark.
type Comparison struct {
	Category       Category `json:"category"`
	Ratio          Name     `json:"ratio"`
	CompanyValue   Value    `json:"company_value"`
	BenchmarkValue float64  `json:"benchmark_value"`
	Difference     Value    `json:"difference"`
	PercentageDiff Value    `json:"percentage_diff"`
	Status         Status   `json:"status"`
}

// ComparisonSet is an ordered list of comparisons, grouped by category in
// report order.
type ComparisonSet []Comparison

// ByCategory returns the comparisons belonging to one category.
func (cs ComparisonSet) ByCategory(c Category) []Comparison {
	var out []Comparison
	for _, cmp := range cs {
		if cmp.Category == c {
			out = append(out, cmp)
		}
	}
	return out
}

// Find returns the comparison for one ratio.
func (cs ComparisonSet) Find(c Category, n Name) (Comparison, bool) {
	for _, cmp := range cs {
		if cmp.Category == c && cmp.Ratio == n {
			return cmp, true
		}
	}
	return Comparison{}, false
}

// Compare relates every ratio in the set to the industry's benchmarks.
// Ratios without a benchmark, with a zero benchmark, or with an undefined
// company value are left out.
func (e *Engine) Compare(set RatioSet, benchmarks IndustryBenchmarks) ComparisonSet {
	var out ComparisonSet
	for _, c := range Categories() {
		for _, entry := range set.Category(c) {
			benchmark, ok := benchmarks.Lookup(c, entry.Name)
			if !ok {
				continue
			}
			if benchmark == 0 {
				e.logger.Debug("skipping zero benchmark",
					zap.String("op", "ratio.Compare"),
					zap.String("category", c.String()),
					zap.String("ratio", string(entry.Name)),
				)
				continue
			}
			cmp, ok := compareValue(entry.Value, benchmark)
			if !ok {
				continue
			}
			cmp.Category = c
			cmp.Ratio = entry.Name
			out = append(out, cmp)
		}
	}
	return out
}

func compareValue(company Value, benchmark float64) (Comparison, bool) {
	switch company.Kind() {
	case KindFinite:
		difference := company.number - benchmark
		return Comparison{
			CompanyValue:   company,
			BenchmarkValue: benchmark,
			Difference:     Finite(difference),
			PercentageDiff: Finite(difference / benchmark * constants.PercentageMultiplier),
			Status:         statusFor(difference),
		}, true
	case KindUnbounded:
		percentage := Unbounded()
		if benchmark < 0 {
			percentage = Undefined()
		}
		return Comparison{
			CompanyValue:   company,
			BenchmarkValue: benchmark,
			Difference:     Unbounded(),
			PercentageDiff: percentage,
			Status:         StatusAbove,
		}, true
	}
	return Comparison{}, false
}
