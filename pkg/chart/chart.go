// Package chart draws PNG bar charts of analysis results.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart would have no bars.
var ErrNoData = errors.New("no chartable values")

// HealthFileName is the file WriteAll saves the health chart to.
const HealthFileName = "health_scores.png"

var (
	companyColor   = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	benchmarkColor = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	width          = 8 * vg.Inch
	height         = 5 * vg.Inch
)

// CategoryChart draws company versus benchmark bars for every comparison
// in one category whose company value is finite.
func CategoryChart(company analysis.CompanyAnalysis, category ratio.Category) (*plot.Plot, error) {
	var companyValues, benchmarkValues plotter.Values
	var labels []string
	for _, cmp := range company.Comparison.ByCategory(category) {
		if !cmp.CompanyValue.IsFinite() {
			continue
		}
		v, _ := cmp.CompanyValue.Float()
		companyValues = append(companyValues, v)
		benchmarkValues = append(benchmarkValues, cmp.BenchmarkValue)
		labels = append(labels, cmp.Ratio.Label())
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoData, company.CompanyID, category)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s - %s Ratios vs Industry Benchmarks", company.CompanyName, category.Title())
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Ratio Value"

	barWidth := vg.Points(20)
	companyBars, err := plotter.NewBarChart(companyValues, barWidth)
	if err != nil {
		return nil, err
	}
	companyBars.Color = companyColor
	companyBars.LineStyle.Width = vg.Length(0)
	companyBars.Offset = -barWidth / 2

	benchmarkBars, err := plotter.NewBarChart(benchmarkValues, barWidth)
	if err != nil {
		return nil, err
	}
	benchmarkBars.Color = benchmarkColor
	benchmarkBars.LineStyle.Width = vg.Length(0)
	benchmarkBars.Offset = barWidth / 2

	p.Add(plotter.NewGrid(), companyBars, benchmarkBars)
	p.Legend.Add("Company", companyBars)
	p.Legend.Add("Industry Benchmark", benchmarkBars)
	p.Legend.Top = true
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.XAlign = draw.XRight
	return p, nil
}

// HealthChart draws the health score of every company on a 0-100 axis.
func HealthChart(report analysis.Report) (*plot.Plot, error) {
	if len(report.Companies) == 0 {
		return nil, fmt.Errorf("%w: empty report", ErrNoData)
	}

	values := make(plotter.Values, len(report.Companies))
	labels := make([]string, len(report.Companies))
	for i, company := range report.Companies {
		values[i] = company.Health.Score
		labels[i] = company.CompanyName
	}

	p := plot.New()
	p.Title.Text = "Financial Health Scores"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Health Score (%)"
	p.Y.Min = 0
	p.Y.Max = constants.PercentageMultiplier

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	bars.Color = companyColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), bars)
	p.NominalX(labels...)
	return p, nil
}

// WritePNG renders a plot as PNG.
func WritePNG(w io.Writer, p *plot.Plot) error {
	writer, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = writer.WriteTo(w)
	return err
}

// FileName returns the chart file name for one company and category.
func FileName(companyID string, category ratio.Category) string {
	return fmt.Sprintf("%s_%s.png", sanitize(companyID), category)
}

// WriteAll saves every category chart that has data plus the health chart
// into dir and returns the written paths.
func WriteAll(dir string, report analysis.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory %s: %w", dir, err)
	}

	var paths []string
	for _, company := range report.Companies {
		for _, category := range ratio.Categories() {
			p, err := CategoryChart(company, category)
			if errors.Is(err, ErrNoData) {
				continue
			}
			if err != nil {
				return paths, err
			}
			path := filepath.Join(dir, FileName(company.CompanyID, category))
			if err := p.Save(width, height, path); err != nil {
				return paths, fmt.Errorf("failed to save chart %s: %w", path, err)
			}
			paths = append(paths, path)
		}
	}

	p, err := HealthChart(report)
	if errors.Is(err, ErrNoData) {
		return paths, nil
	}
	if err != nil {
		return paths, err
	}
	path := filepath.Join(dir, HealthFileName)
	if err := p.Save(width, height, path); err != nil {
		return paths, fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return append(paths, path), nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
