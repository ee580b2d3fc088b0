package dataset

import "github.com/iwvelando/finance-ratios/internal/ratio"

// Growth compares a company's two most recent periods.
type Growth struct {
	CompanyID       string      `json:"company_id"`
	CompanyName     string      `json:"company_name"`
	LatestPeriod    string      `json:"latest_period"`
	PreviousPeriod  string      `json:"previous_period"`
	RevenueGrowth   ratio.Value `json:"revenue_growth_qoq"`
	NetIncomeGrowth ratio.Value `json:"net_income_growth_qoq"`
}

// CompanyGrowth returns period-over-period revenue and net income growth
// between the company's two latest records. It reports false when the
// company has fewer than two records.
func CompanyGrowth(t *Table, companyID string) (Growth, bool) {
	history := t.History(companyID)
	if len(history) < 2 {
		return Growth{}, false
	}
	latest := history[len(history)-1]
	previous := history[len(history)-2]

	return Growth{
		CompanyID:       companyID,
		CompanyName:     history[0].CompanyName,
		LatestPeriod:    latest.Period,
		PreviousPeriod:  previous.Period,
		RevenueGrowth:   change(latest, previous, ratio.Revenue),
		NetIncomeGrowth: change(latest, previous, ratio.NetIncome),
	}, true
}

func change(latest, previous ratio.CompanyPeriod, f ratio.Field) ratio.Value {
	current, okCurrent := latest.Value(f)
	prior, okPrior := previous.Value(f)
	if !okCurrent || !okPrior || prior == 0 {
		return ratio.Undefined()
	}
	return ratio.Finite((current - prior) / prior)
}
