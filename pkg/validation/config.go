// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/robfig/cron/v3"
)

// ValidateBenchmarkCoverage returns a warning for each industry in the
// dataset that has no benchmarks, and for each industry that lacks every
// benchmark used by the health assessment.
func ValidateBenchmarkCoverage(industries []string, table ratio.BenchmarkTable) []string {
	var warnings []string
	seen := make(map[string]bool)
	for _, industry := range industries {
		key := strings.ToLower(strings.TrimSpace(industry))
		if seen[key] {
			continue
		}
		seen[key] = true

		benchmarks, ok := table.Industry(industry)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("Industry '%s' has no benchmarks - comparisons and health scores will be empty", industry))
			continue
		}
		if !hasHealthBenchmark(benchmarks) {
			warnings = append(warnings, fmt.Sprintf("Industry '%s' has no profitability or liquidity benchmarks - health score will be 0", industry))
		}
	}
	return warnings
}

func hasHealthBenchmark(b ratio.IndustryBenchmarks) bool {
	for _, n := range []ratio.Name{ratio.NetMargin, ratio.ROE, ratio.ROA} {
		if _, ok := b.Lookup(ratio.Profitability, n); ok {
			return true
		}
	}
	for _, n := range []ratio.Name{ratio.CurrentRatio, ratio.QuickRatio} {
		if _, ok := b.Lookup(ratio.Liquidity, n); ok {
			return true
		}
	}
	return false
}

// ValidateCronSpec checks a standard five-field cron expression or a
// descriptor such as "@daily".
func ValidateCronSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return nil
}

// ConfigValidator checks option combinations that are valid individually
// but unlikely to do what the user intended.
type ConfigValidator struct {
	OutputFormat    string
	OutputFormats   []string
	OutputDirectory string
	Charts          bool
	EmailEnabled    bool
	EmailTo         []string
	Schedule        string
	StorePath       string
}

// binaryFormats cannot be written to a terminal.
var binaryFormats = map[string]bool{"pdf": true, "xlsx": true}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.OutputDirectory == "" {
		if binaryFormats[cv.OutputFormat] {
			warnings = append(warnings, fmt.Sprintf("Output format '%s' is binary but no output directory is set - output will be written to stdout", cv.OutputFormat))
		}
		if len(cv.OutputFormats) > 0 {
			warnings = append(warnings, "Additional output formats are ignored without an output directory")
		}
		if cv.Charts {
			warnings = append(warnings, "Charts are enabled but no output directory is set - charts will not be written")
		}
	}

	for _, format := range cv.OutputFormats {
		if err := ValidateOutputFormat(format); err != nil {
			warnings = append(warnings, fmt.Sprintf("Ignoring unsupported output format '%s'", format))
		}
	}

	if cv.EmailEnabled && len(cv.EmailTo) == 0 {
		warnings = append(warnings, "Email is enabled but has no recipients - no email will be sent")
	}

	if cv.Schedule != "" {
		if err := ValidateCronSpec(cv.Schedule); err != nil {
			warnings = append(warnings, err.Error())
		} else if cv.StorePath == "" {
			warnings = append(warnings, "Scheduled runs keep results only in memory - set store.path to persist them")
		}
	}

	return warnings
}
