package output

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/format"
)

var csvHeader = []string{
	"company_id", "company_name", "industry", "period", "category", "ratio",
	"company_value", "benchmark_value", "difference", "percentage_diff", "status",
}

// CSV writes one row per computed ratio. Benchmark columns are empty for
// ratios without a comparison.
func CSV(w io.Writer, report analysis.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, company := range report.Companies {
		for _, c := range ratio.Categories() {
			for _, entry := range company.Ratios.Category(c) {
				row := []string{
					company.CompanyID, company.CompanyName, company.Industry, company.Period,
					c.String(), string(entry.Name), plainValue(entry.Value), "", "", "", "",
				}
				if cmp, ok := company.Comparison.Find(c, entry.Name); ok {
					row[7] = format.Plain(cmp.BenchmarkValue, -1)
					row[8] = plainValue(cmp.Difference)
					row[9] = plainValue(cmp.PercentageDiff)
					row[10] = string(cmp.Status)
				}
				if err := writer.Write(row); err != nil {
					return err
				}
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, report analysis.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
