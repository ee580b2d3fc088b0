package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/xuri/excelize/v2"
)

const (
	sheetRatios      = "Ratios"
	sheetComparisons = "Comparisons"
	sheetHealth      = "Health"
)

// XLSX writes a workbook with one sheet of ratios, one of benchmark
// comparisons and one of health scores.
func XLSX(w io.Writer, report analysis.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetRatios); err != nil {
		return err
	}
	for _, name := range []string{sheetComparisons, sheetHealth} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	ratios := [][]interface{}{{"Company ID", "Company", "Industry", "Period", "Category", "Ratio", "Value"}}
	comparisons := [][]interface{}{{"Company ID", "Company", "Category", "Ratio", "Company Value", "Benchmark", "Difference", "Difference %", "Status"}}
	health := [][]interface{}{{"Company ID", "Company", "Industry", "Period", "Score", "Rating", "Passed", "Evaluated", "Warnings"}}

	for _, company := range report.Companies {
		for _, c := range ratio.Categories() {
			for _, entry := range company.Ratios.Category(c) {
				ratios = append(ratios, []interface{}{
					company.CompanyID, company.CompanyName, company.Industry, company.Period,
					c.Title(), entry.Name.Label(), cellValue(entry.Value),
				})
			}
		}
		for _, cmp := range company.Comparison {
			comparisons = append(comparisons, []interface{}{
				company.CompanyID, company.CompanyName, cmp.Category.Title(), cmp.Ratio.Label(),
				cellValue(cmp.CompanyValue), cmp.BenchmarkValue, cellValue(cmp.Difference),
				cellValue(cmp.PercentageDiff), string(cmp.Status),
			})
		}
		health = append(health, []interface{}{
			company.CompanyID, company.CompanyName, company.Industry, company.Period,
			company.Health.Score, string(company.Health.Rating),
			company.Health.Passed, company.Health.Evaluated, len(company.Warnings),
		})
	}

	for sheet, rows := range map[string][][]interface{}{
		sheetRatios:      ratios,
		sheetComparisons: comparisons,
		sheetHealth:      health,
	} {
		if err := writeSheet(f, sheet, rows, headerStyle); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}

// cellValue keeps finite ratios numeric so the sheet can be charted.
func cellValue(v ratio.Value) interface{} {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return x
	case ratio.KindUnbounded:
		return "inf"
	}
	return ""
}
