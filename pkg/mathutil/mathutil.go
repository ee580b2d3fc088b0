// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"
	"sort"

	"github.com/iwvelando/finance-ratios/pkg/constants"
)

// Round rounds a value to the given number of decimal places.
func Round(val float64, places int) float64 {
	if places < 0 {
		places = 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(val*scale) / scale
}

// IsZero checks if a value is effectively zero (within ratio tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.RatioTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// Median returns the median of values, or false if values is empty.
// The input slice is not modified.
func Median(values []float64) (float64, bool) {
	return Quantile(values, 0.5)
}

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks, matching the default used by most dataframe
// libraries. The input slice is not modified.
func Quantile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 || q < 0 || q > 1 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower], true
	}
	frac := pos - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac, true
}
