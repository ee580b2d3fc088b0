package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/benchmark"
	"github.com/iwvelando/finance-ratios/internal/config"
	"github.com/iwvelando/finance-ratios/internal/dataset"
	"github.com/iwvelando/finance-ratios/internal/notify"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/chart"
	"github.com/iwvelando/finance-ratios/pkg/output"
	"github.com/iwvelando/finance-ratios/pkg/validation"
	"go.uber.org/zap"
)

// runner performs one complete analysis run: load, analyze, write, mail.
type runner struct {
	conf         *config.Configuration
	logger       *zap.Logger
	cache        analysis.Cache
	outputFormat string
	outputDir    string
	stdout       io.Writer
	mailer       *notify.Mailer
}

func (r *runner) outputOptions() output.Options {
	return output.Options{
		Title:           r.conf.Report.Title,
		DecimalPlaces:   r.conf.Output.DecimalPlaces,
		IncludeWarnings: r.conf.Report.IncludeWarnings,
	}
}

func (r *runner) run(ctx context.Context) (analysis.Report, error) {
	if err := ctx.Err(); err != nil {
		return analysis.Report{}, err
	}

	benchmarks, err := benchmark.Load(r.conf.Benchmarks.Path)
	if err != nil {
		return analysis.Report{}, err
	}
	for _, warning := range benchmark.Check(benchmarks) {
		r.logger.Warn("Benchmark warning: "+warning, zap.String("op", "main.run"))
	}

	table, err := dataset.Load(r.conf.Data.Path)
	if err != nil {
		return analysis.Report{}, err
	}
	table = r.selectCompanies(table)
	if err := ctx.Err(); err != nil {
		return analysis.Report{}, err
	}

	quality := dataset.Quality(table)
	if r.conf.Data.Clean {
		table, quality.Actions = dataset.Clean(r.logger, table)
	}
	r.logger.Info("dataset loaded",
		zap.String("op", "main.run"),
		zap.Int("rows", table.Len()),
		zap.Int("companies", len(table.Companies())),
		zap.Float64("quality_score", quality.Score),
	)

	var industries []string
	for _, id := range table.Companies() {
		if latest, ok := table.Latest(id); ok {
			industries = append(industries, latest.Industry)
		}
	}
	for _, warning := range validation.ValidateBenchmarkCoverage(industries, benchmarks) {
		r.logger.Warn("Benchmark warning: "+warning, zap.String("op", "main.run"))
	}

	scale, err := ratio.ParsePeriodScale(r.conf.Analysis.PeriodScale)
	if err != nil {
		return analysis.Report{}, err
	}
	engine := ratio.NewEngine(r.logger, ratio.Options{Scale: scale, Extended: r.conf.Analysis.ExtendedRatios})
	analyzer := analysis.NewAnalyzer(r.logger, engine, benchmarks, r.cache)

	report, err := analyzer.AnalyzeAll(table)
	if err != nil {
		return report, err
	}
	report.Quality = &quality
	if err := ctx.Err(); err != nil {
		return report, err
	}

	written, err := r.write(report)
	if err != nil {
		return report, err
	}

	if r.mailer != nil {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := r.mailer.Send(report, r.outputOptions(), written); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (r *runner) selectCompanies(table *dataset.Table) *dataset.Table {
	if len(r.conf.Analysis.Companies) == 0 {
		return table
	}
	var rows []ratio.CompanyPeriod
	for _, row := range table.Rows() {
		if r.conf.Analysis.SelectsCompany(row.CompanyID) {
			rows = append(rows, row)
		}
	}
	return dataset.NewTable(rows)
}

// write prints the report to stdout, or, with an output directory, writes
// the primary and extra formats plus charts there and returns the paths.
func (r *runner) write(report analysis.Report) ([]string, error) {
	opts := r.outputOptions()
	if r.outputDir == "" {
		return nil, output.Write(r.stdout, r.outputFormat, report, opts)
	}

	formats := []string{r.outputFormat}
	for _, extra := range r.conf.Output.Formats {
		if extra == r.outputFormat || validation.ValidateOutputFormat(extra) != nil {
			continue
		}
		formats = append(formats, extra)
	}

	var written []string
	for _, outputFormat := range formats {
		path, err := output.WriteFile(r.outputDir, outputFormat, report, opts)
		if err != nil {
			return written, err
		}
		written = append(written, path)
		r.logger.Info("report written",
			zap.String("op", "main.write"),
			zap.String("format", outputFormat),
			zap.String("path", path),
		)
	}

	if r.conf.Output.Charts {
		charts, err := chart.WriteAll(filepath.Join(r.outputDir, "charts"), report)
		if err != nil {
			return written, fmt.Errorf("failed to write charts: %w", err)
		}
		r.logger.Info("charts written",
			zap.String("op", "main.write"),
			zap.Int("charts", len(charts)),
		)
	}
	return written, nil
}
