// Package format renders numbers for reports.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/finance-ratios/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := printer.Sprintf("%.2f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// Number returns x with thousands separators and the given number of
// decimals (e.g., "12,345.679").
func Number(x float64, places int) string {
	if places < 0 {
		places = 0
	}
	return printer.Sprintf("%.*f", places, x)
}

// Percent renders a fraction as a percentage (0.125 -> "12.5%").
func Percent(fraction float64, places int) string {
	return Number(fraction*constants.PercentageMultiplier, places) + "%"
}

// SignedPercent renders a value already in percent with an explicit sign
// (e.g., "+12.5%", "-3.0%").
func SignedPercent(pct float64, places int) string {
	s := Number(pct, places) + "%"
	if pct > 0 {
		return "+" + s
	}
	return s
}

// Plain renders x without grouping, for machine-readable outputs.
func Plain(x float64, places int) string {
	if places < 0 {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', places, 64)
}
