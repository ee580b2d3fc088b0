package output

import (
	"io"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/format"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Pretty writes a human-readable table per company.
func Pretty(w io.Writer, report analysis.Report, opts Options) error {
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "%s\n\n", opts.title()); err != nil {
		return err
	}

	for i, company := range report.Companies {
		if i > 0 {
			if _, err := p.Fprintf(w, "\n"); err != nil {
				return err
			}
		}
		_, _ = p.Fprintf(w, "=== Financial Analysis: %s (%s) ===\n", company.CompanyName, company.Industry)
		_, _ = p.Fprintf(w, "Period: %s | Financial Health: %s (%.1f%%, %d of %d metrics at or above benchmark)\n",
			company.Period, company.Health.Rating, company.Health.Score, company.Health.Passed, company.Health.Evaluated)
		if company.BenchmarkMissing {
			_, _ = p.Fprintf(w, "No benchmarks for industry %s\n", company.Industry)
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Category", "Ratio", "Value", "Benchmark", "Difference", "Status"})
		table.SetAutoWrapText(false)
		for _, c := range ratio.Categories() {
			for _, entry := range company.Ratios.Category(c) {
				row := []string{c.Title(), entry.Name.Label(), displayValue(entry.Value, opts.DecimalPlaces), "-", "-", "-"}
				if cmp, ok := company.Comparison.Find(c, entry.Name); ok {
					row[3] = format.Number(cmp.BenchmarkValue, opts.DecimalPlaces)
					row[4] = percentDisplay(cmp.PercentageDiff)
					row[5] = string(cmp.Status)
				}
				table.Append(row)
			}
		}
		table.Render()

		if opts.IncludeWarnings && len(company.Warnings) > 0 {
			_, _ = p.Fprintf(w, "Warnings:\n")
			for _, warning := range company.Warnings {
				_, _ = p.Fprintf(w, "  - %s\n", warning)
			}
		}
	}

	if len(report.Failures) > 0 {
		_, _ = p.Fprintf(w, "\nFailed companies:\n")
		for _, failure := range report.Failures {
			_, _ = p.Fprintf(w, "  - %s: %s\n", failure.CompanyID, failure.Error)
		}
	}
	return nil
}

func percentDisplay(v ratio.Value) string {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return format.SignedPercent(x, 1)
	case ratio.KindUnbounded:
		return "+∞"
	}
	return "n/a"
}
