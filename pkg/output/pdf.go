package output

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/format"
)

var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Category", 30},
	{"Ratio", 50},
	{"Value", 30},
	{"Benchmark", 30},
	{"Diff %", 25},
	{"Status", 25},
}

// PDF writes a simple tabular report, one section per company. The core
// PDF fonts cannot draw symbols, so unbounded values print as "inf".
func PDF(w io.Writer, report analysis.Report, opts Options) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.SetTitle(opts.title(), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, opts.title(), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Generated on: "+report.GeneratedAt.Format(reportTimeLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, company := range report.Companies {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("%s (%s)", company.CompanyName, company.Industry), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s    Financial Health: %s (%.1f%%)",
			company.Period, company.Health.Rating, company.Health.Score), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, col.header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, c := range ratio.Categories() {
			for _, entry := range company.Ratios.Category(c) {
				cells := []string{c.Title(), entry.Name.Label(), pdfValue(entry.Value, opts.DecimalPlaces), "", "", ""}
				if cmp, ok := company.Comparison.Find(c, entry.Name); ok {
					cells[3] = format.Number(cmp.BenchmarkValue, opts.DecimalPlaces)
					cells[4] = pdfPercent(cmp.PercentageDiff)
					cells[5] = string(cmp.Status)
				}
				for i, col := range pdfColumns {
					pdf.CellFormat(col.width, 5, cells[i], "1", 0, "L", false, 0, "")
				}
				pdf.Ln(-1)
			}
		}

		if opts.IncludeWarnings && len(company.Warnings) > 0 {
			pdf.Ln(2)
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(0, 5, "Warnings", "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			for _, warning := range company.Warnings {
				pdf.MultiCell(0, 5, "- "+warning, "", "L", false)
			}
		}
		pdf.Ln(6)
	}

	if pdf.Err() {
		return fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}
	return pdf.Output(w)
}

func pdfValue(v ratio.Value, places int) string {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return format.Number(x, places)
	case ratio.KindUnbounded:
		return "inf"
	}
	return "n/a"
}

func pdfPercent(v ratio.Value) string {
	if v.IsUnbounded() {
		return "+inf"
	}
	return percentDisplay(v)
}
