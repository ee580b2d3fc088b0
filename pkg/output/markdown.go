package output

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"sort"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/format"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const reportTimeLayout = "2006-01-02 15:04"

// Markdown renders the report: per company the health rating, every
// benchmark comparison grouped by category, the health insights and,
// when enabled, the warnings.
func Markdown(report analysis.Report, opts Options) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", opts.title())
	fmt.Fprintf(&b, "*Generated on: %s*\n\n", report.GeneratedAt.Format(reportTimeLayout))

	for _, company := range report.Companies {
		writeCompanyMarkdown(&b, company, opts)
	}

	if len(report.Failures) > 0 {
		b.WriteString("## Companies Not Analyzed\n\n")
		for _, failure := range report.Failures {
			fmt.Fprintf(&b, "- **%s**: %s\n", failure.CompanyID, failure.Error)
		}
		b.WriteString("\n")
	}

	if q := report.Quality; q != nil {
		b.WriteString("## Data Quality\n\n")
		fmt.Fprintf(&b, "**Rows:** %d  \n", q.TotalRows)
		fmt.Fprintf(&b, "**Quality Score:** %.0f/100\n\n", q.Score)
		for _, field := range nonZeroFields(q.MissingValues) {
			fmt.Fprintf(&b, "- %d missing values in %s\n", q.MissingValues[field], field)
		}
		for _, field := range nonZeroFields(q.Outliers) {
			fmt.Fprintf(&b, "- %d outliers in %s\n", q.Outliers[field], field)
		}
		for _, action := range q.Actions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
		b.WriteString("\n")
	}
	return b.Bytes()
}

func writeCompanyMarkdown(b *bytes.Buffer, company analysis.CompanyAnalysis, opts Options) {
	fmt.Fprintf(b, "## %s (%s)\n\n", company.CompanyName, company.Industry)
	fmt.Fprintf(b, "**Period:** %s  \n", company.Period)
	fmt.Fprintf(b, "**Financial Health:** %s (%.1f%%)\n\n", company.Health.Rating, company.Health.Score)

	b.WriteString("### Key Ratios vs Industry Benchmarks\n\n")
	if company.BenchmarkMissing {
		fmt.Fprintf(b, "No benchmarks are available for %s.\n\n", company.Industry)
	}
	for _, c := range ratio.Categories() {
		comparisons := company.Comparison.ByCategory(c)
		if len(comparisons) == 0 {
			continue
		}
		fmt.Fprintf(b, "#### %s\n\n", c.Title())
		for _, cmp := range comparisons {
			icon := "⚠️"
			if cmp.Status == ratio.StatusAbove {
				icon = "✅"
			}
			fmt.Fprintf(b, "- %s **%s**: %s (Industry: %s) **%s benchmark by %s**\n",
				icon, cmp.Ratio.Label(),
				displayValue(cmp.CompanyValue, opts.DecimalPlaces),
				format.Number(cmp.BenchmarkValue, opts.DecimalPlaces),
				cmp.Status, absPercent(cmp.PercentageDiff))
		}
		b.WriteString("\n")
	}

	b.WriteString("### Financial Health Insights\n\n")
	if len(company.Health.Insights) == 0 {
		b.WriteString("- No health metrics could be evaluated\n")
	}
	for _, insight := range company.Health.Insights {
		icon := "⚠️"
		if insight.Passed {
			icon = "✅"
		}
		fmt.Fprintf(b, "- %s %s\n", icon, insight.Text)
	}
	b.WriteString("\n")

	if g := company.Growth; g != nil {
		b.WriteString("### Growth\n\n")
		fmt.Fprintf(b, "- Revenue growth %s to %s: %s\n", g.PreviousPeriod, g.LatestPeriod, growthDisplay(g.RevenueGrowth))
		fmt.Fprintf(b, "- Net income growth %s to %s: %s\n\n", g.PreviousPeriod, g.LatestPeriod, growthDisplay(g.NetIncomeGrowth))
	}

	if opts.IncludeWarnings && (len(company.Warnings) > 0 || len(company.Findings) > 0) {
		b.WriteString("### Warnings\n\n")
		for _, warning := range company.Warnings {
			fmt.Fprintf(b, "- %s\n", warning)
		}
		for _, finding := range company.Findings {
			fmt.Fprintf(b, "- %s\n", finding.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
}

func absPercent(v ratio.Value) string {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return format.Number(math.Abs(x), 1) + "%"
	case ratio.KindUnbounded:
		return "∞%"
	}
	return "n/a"
}

func growthDisplay(v ratio.Value) string {
	if x, ok := v.Float(); ok && v.IsFinite() {
		return format.SignedPercent(x*100, 1)
	}
	return "n/a"
}

// HTML renders the Markdown report to a standalone HTML page.
func HTML(report analysis.Report, opts Options) ([]byte, error) {
	body, err := MarkdownToHTML(Markdown(report, opts))
	if err != nil {
		return nil, err
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(opts.title()))
	page.WriteString("</head>\n<body>\n")
	page.Write(body)
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// MarkdownToHTML converts a Markdown document to an HTML fragment.
func MarkdownToHTML(source []byte) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// CompanyReport wraps one analysis in a report so it can be rendered on
// its own.
func CompanyReport(company analysis.CompanyAnalysis, generated analysis.Report) analysis.Report {
	return analysis.Report{
		RunID:       generated.RunID,
		GeneratedAt: generated.GeneratedAt,
		Companies:   []analysis.CompanyAnalysis{company},
	}
}

func nonZeroFields(counts map[ratio.Field]int) []ratio.Field {
	var fields []ratio.Field
	for field, n := range counts {
		if n > 0 {
			fields = append(fields, field)
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}
