// Package analysis runs the ratio engine over a dataset, relating each
// company's latest period to its industry benchmarks.
package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-ratios/internal/dataset"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"go.uber.org/zap"
)

// ErrUnknownCompany is returned when the dataset has no rows for a company.
var ErrUnknownCompany = errors.New("unknown company")

// CompanyAnalysis is the full result for one company's latest period.
type CompanyAnalysis struct {
	ratio.Identity
	Ratios           ratio.RatioSet         `json:"ratios"`
	Comparison       ratio.ComparisonSet    `json:"benchmark_comparison"`
	Health           ratio.HealthAssessment `json:"financial_health"`
	Warnings         []string               `json:"warnings"`
	Findings         []ratio.RangeFinding   `json:"range_findings,omitempty"`
	Growth           *dataset.Growth        `json:"growth,omitempty"`
	BenchmarkMissing bool                   `json:"benchmark_missing,omitempty"`
}

// Summary is the short form of an analysis used in listings.
type Summary struct {
	CompanyID   string       `json:"company_id"`
	CompanyName string       `json:"company_name"`
	Industry    string       `json:"industry"`
	Period      string       `json:"period"`
	HealthScore float64      `json:"health_score"`
	Rating      ratio.Rating `json:"rating"`
	Warnings    int          `json:"warnings"`
}

// Summary condenses the analysis.
func (c CompanyAnalysis) Summary() Summary {
	return Summary{
		CompanyID:   c.CompanyID,
		CompanyName: c.CompanyName,
		Industry:    c.Industry,
		Period:      c.Period,
		HealthScore: c.Health.Score,
		Rating:      c.Health.Rating,
		Warnings:    len(c.Warnings),
	}
}

// Failure records a company that could not be analyzed.
type Failure struct {
	CompanyID string `json:"company_id"`
	Error     string `json:"error"`
}

// Report is the outcome of one batch run.
type Report struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Companies   []CompanyAnalysis      `json:"companies"`
	Failures    []Failure              `json:"failures,omitempty"`
	Quality     *dataset.QualityReport `json:"data_quality,omitempty"`
}

// Company returns the analysis for one company in the report.
func (r Report) Company(id string) (CompanyAnalysis, bool) {
	for _, c := range r.Companies {
		if c.CompanyID == id {
			return c, true
		}
	}
	return CompanyAnalysis{}, false
}

// Analyzer binds an engine, a benchmark table and a result cache.
type Analyzer struct {
	logger     *zap.Logger
	engine     *ratio.Engine
	benchmarks ratio.BenchmarkTable
	ranges     ratio.Ranges
	cache      Cache
	now        func() time.Time
}

// NewAnalyzer creates an analyzer. A nil engine uses default options and a
// nil cache keeps results in memory.
func NewAnalyzer(logger *zap.Logger, engine *ratio.Engine, benchmarks ratio.BenchmarkTable, cache Cache) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = ratio.NewEngine(logger, ratio.Options{})
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Analyzer{
		logger:     logger,
		engine:     engine,
		benchmarks: benchmarks,
		ranges:     ratio.DefaultRanges(),
		cache:      cache,
		now:        time.Now,
	}
}

// Cache returns the cache results are stored in.
func (a *Analyzer) Cache() Cache {
	return a.cache
}

// AnalyzeCompany analyzes the company's latest period and stores the
// result in the cache, replacing any earlier result.
func (a *Analyzer) AnalyzeCompany(t *dataset.Table, companyID string) (CompanyAnalysis, error) {
	result, err := a.analyze(t, companyID)
	if err != nil {
		return CompanyAnalysis{}, err
	}
	if err := a.cache.Put(result); err != nil {
		return CompanyAnalysis{}, fmt.Errorf("failed to cache analysis for company %s: %w", companyID, err)
	}
	return result, nil
}

// AnalyzeAll analyzes every company in first-seen order. A company that
// cannot be analyzed is recorded in Report.Failures and the run continues;
// only cache failures abort it.
func (a *Analyzer) AnalyzeAll(t *dataset.Table) (Report, error) {
	report := Report{
		RunID:       uuid.NewString(),
		GeneratedAt: a.now(),
		Companies:   []CompanyAnalysis{},
	}

	for _, id := range t.Companies() {
		result, err := a.analyze(t, id)
		if err != nil {
			a.logger.Warn("company analysis failed",
				zap.String("op", "analysis.AnalyzeAll"),
				zap.String("company", id),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, Failure{CompanyID: id, Error: err.Error()})
			continue
		}
		if err := a.cache.Put(result); err != nil {
			return report, fmt.Errorf("failed to cache analysis for company %s: %w", id, err)
		}
		report.Companies = append(report.Companies, result)
	}

	a.logger.Info("analysis complete",
		zap.String("op", "analysis.AnalyzeAll"),
		zap.String("run", report.RunID),
		zap.Int("companies", len(report.Companies)),
		zap.Int("failures", len(report.Failures)),
	)
	return report, nil
}

func (a *Analyzer) analyze(t *dataset.Table, companyID string) (CompanyAnalysis, error) {
	latest, ok := t.Latest(companyID)
	if !ok {
		return CompanyAnalysis{}, fmt.Errorf("%w: %s", ErrUnknownCompany, companyID)
	}

	set, err := a.engine.Compute(latest)
	if err != nil {
		return CompanyAnalysis{}, fmt.Errorf("failed to compute ratios for period %s: %w", latest.Period, err)
	}

	result := CompanyAnalysis{
		Identity:   latest.Identity,
		Ratios:     set,
		Comparison: ratio.ComparisonSet{},
		Warnings:   ratio.Warnings(set),
		Findings:   ratio.CheckRanges(set, a.ranges),
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	benchmarks, ok := a.benchmarks.Industry(latest.Industry)
	if !ok {
		a.logger.Warn("no benchmarks for industry",
			zap.String("op", "analysis.analyze"),
			zap.String("company", companyID),
			zap.String("industry", latest.Industry),
		)
		result.BenchmarkMissing = true
	} else if cmp := a.engine.Compare(set, benchmarks); cmp != nil {
		result.Comparison = cmp
	}
	result.Health = a.engine.AssessHealth(set, benchmarks)

	if growth, ok := dataset.CompanyGrowth(t, companyID); ok {
		result.Growth = &growth
	}
	return result, nil
}
