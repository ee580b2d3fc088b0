// Package output writes analysis reports in the supported formats.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"github.com/iwvelando/finance-ratios/pkg/format"
	"github.com/iwvelando/finance-ratios/pkg/validation"
)

// Options control report rendering.
type Options struct {
	Title           string
	DecimalPlaces   int
	IncludeWarnings bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Title:           constants.DefaultReportTitle,
		DecimalPlaces:   constants.DefaultDecimalPlaces,
		IncludeWarnings: true,
	}
}

func (o Options) title() string {
	if o.Title == "" {
		return constants.DefaultReportTitle
	}
	return o.Title
}

var fileNames = map[string]string{
	constants.OutputFormatPretty:   "ratio_analysis.txt",
	constants.OutputFormatCSV:      "ratio_analysis.csv",
	constants.OutputFormatJSON:     "ratio_analysis.json",
	constants.OutputFormatMarkdown: "ratio_analysis_report.md",
	constants.OutputFormatHTML:     "ratio_analysis_report.html",
	constants.OutputFormatPDF:      "ratio_analysis_report.pdf",
	constants.OutputFormatXLSX:     "ratio_analysis.xlsx",
}

// FileName returns the file name used when a format is written to a
// directory.
func FileName(outputFormat string) string {
	return fileNames[outputFormat]
}

// Write renders the report to w in the given format.
func Write(w io.Writer, outputFormat string, report analysis.Report, opts Options) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		return Pretty(w, report, opts)
	case constants.OutputFormatCSV:
		return CSV(w, report)
	case constants.OutputFormatJSON:
		return JSON(w, report)
	case constants.OutputFormatMarkdown:
		_, err := w.Write(Markdown(report, opts))
		return err
	case constants.OutputFormatHTML:
		page, err := HTML(report, opts)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	case constants.OutputFormatPDF:
		return PDF(w, report, opts)
	case constants.OutputFormatXLSX:
		return XLSX(w, report)
	}
	return fmt.Errorf("unsupported output format: %s", outputFormat)
}

// WriteFile renders the report into dir under FileName(outputFormat) and
// returns the written path.
func WriteFile(dir, outputFormat string, report analysis.Report, opts Options) (string, error) {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(outputFormat))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(file, outputFormat, report, opts); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// displayValue renders a ratio for people: "n/a" when undefined and "∞"
// when unbounded.
func displayValue(v ratio.Value, places int) string {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return format.Number(x, places)
	case ratio.KindUnbounded:
		return "∞"
	}
	return "n/a"
}

// plainValue renders a ratio for machines: empty when undefined and "inf"
// when unbounded.
func plainValue(v ratio.Value) string {
	switch v.Kind() {
	case ratio.KindFinite:
		x, _ := v.Float()
		return format.Plain(x, -1)
	case ratio.KindUnbounded:
		return "inf"
	}
	return ""
}
