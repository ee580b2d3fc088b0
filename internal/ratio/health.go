package ratio

import (
	"fmt"
	"strings"

	"github.com/iwvelando/finance-ratios/pkg/constants"
	"go.uber.org/zap"
)

// Rating buckets a health score.
type Rating string

const (
	RatingExcellent Rating = "Excellent"
	RatingGood      Rating = "Good"
	RatingFair      Rating = "Fair"
	RatingPoor      Rating = "Poor"
)

// RatingFor buckets a 0-100 score: >=80 Excellent, >=60 Good, >=40 Fair,
// anything lower Poor.
func RatingFor(score float64) Rating {
	switch {
	case score >= constants.ExcellentThreshold:
		return RatingExcellent
	case score >= constants.GoodThreshold:
		return RatingGood
	case score >= constants.FairThreshold:
		return RatingFair
	default:
		return RatingPoor
	}
}

// Insight describes one evaluated health metric.
type Insight struct {
	Category Category `json:"category"`
	Metric   Name     `json:"metric"`
	Passed   bool     `json:"passed"`
	Tag      string   `json:"tag"`
	Text     string   `json:"text"`
}

// HealthAssessment summarizes how many curated metrics meet or beat their
// industry benchmark.
type HealthAssessment struct {
	Score     float64   `json:"score"`
	Rating    Rating    `json:"rating"`
	Evaluated int       `json:"evaluated"`
	Passed    int       `json:"passed"`
	Insights  []Insight `json:"insights"`
}

type healthMetric struct {
	category Category
	name     Name
	passTag  string
	failTag  string
}

// healthMetrics is the curated subset scored by AssessHealth, in insight
// order. Every metric is higher-is-better.
var healthMetrics = []healthMetric{
	{Profitability, NetMargin, "Strong", "Weak"},
	{Profitability, ROE, "Strong", "Weak"},
	{Profitability, ROA, "Strong", "Weak"},
	{Liquidity, CurrentRatio, "Good", "Poor"},
	{Liquidity, QuickRatio, "Good", "Poor"},
}

// AssessHealth scores the curated metrics against the industry's
// benchmarks. A metric without a benchmark, or whose company value is
// undefined, counts toward neither the passed nor the evaluated total.
func (e *Engine) AssessHealth(set RatioSet, benchmarks IndustryBenchmarks) HealthAssessment {
	assessment := HealthAssessment{Insights: []Insight{}}

	for _, m := range healthMetrics {
		benchmark, ok := benchmarks.Lookup(m.category, m.name)
		if !ok {
			e.logger.Debug("health metric has no benchmark",
				zap.String("op", "ratio.AssessHealth"),
				zap.String("metric", string(m.name)),
			)
			continue
		}
		value, ok := set.Get(m.category, m.name)
		if !ok || !value.IsDefined() {
			continue
		}

		passed := value.AtLeast(benchmark)
		tag := m.failTag
		if passed {
			tag = m.passTag
			assessment.Passed++
		}
		assessment.Evaluated++
		assessment.Insights = append(assessment.Insights, Insight{
			Category: m.category,
			Metric:   m.name,
			Passed:   passed,
			Tag:      strings.ToLower(tag),
			Text:     fmt.Sprintf("%s %s", tag, m.name.Label()),
		})
	}

	if assessment.Evaluated > 0 {
		assessment.Score = float64(assessment.Passed) * constants.PercentageMultiplier / float64(assessment.Evaluated)
	}
	assessment.Rating = RatingFor(assessment.Score)
	return assessment
}
