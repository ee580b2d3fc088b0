package dataset

import (
	"fmt"

	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/constants"
	"github.com/iwvelando/finance-ratios/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QualityReport summarizes missing values and outliers in a table.
type QualityReport struct {
	TotalRows     int                 `json:"total_rows"`
	MissingValues map[ratio.Field]int `json:"missing_values"`
	Outliers      map[ratio.Field]int `json:"outliers"`
	Score         float64             `json:"data_quality_score"`
	Actions       []string            `json:"cleaning_actions,omitempty"`
}

// ColumnsWithMissing counts fields that have at least one missing cell.
func (q QualityReport) ColumnsWithMissing() int {
	return len(q.MissingValues)
}

// ColumnsWithOutliers counts fields that have at least one outlier.
func (q QualityReport) ColumnsWithOutliers() int {
	n := 0
	for _, count := range q.Outliers {
		if count > 0 {
			n++
		}
	}
	return n
}

// Quality counts missing cells and Tukey-fence outliers per numeric column
// and derives a 0-100 score from them.
func Quality(t *Table) QualityReport {
	report := QualityReport{
		TotalRows:     t.Len(),
		MissingValues: make(map[ratio.Field]int),
		Outliers:      make(map[ratio.Field]int),
	}

	totalMissing, totalOutliers := 0, 0
	for _, f := range t.columns {
		values := t.column(f)
		if missing := t.Len() - len(values); missing > 0 {
			report.MissingValues[f] = missing
			totalMissing += missing
		}
		outliers := countOutliers(values)
		report.Outliers[f] = outliers
		totalOutliers += outliers
	}

	penalty := min(float64(totalMissing)*constants.MissingValuePenalty, constants.MaxMissingPenalty) +
		min(float64(totalOutliers)*constants.OutlierPenalty, constants.MaxOutlierPenalty)
	report.Score = max(0, 100-penalty)
	return report
}

func countOutliers(values []float64) int {
	q1, ok := mathutil.Quantile(values, 0.25)
	if !ok {
		return 0
	}
	q3, _ := mathutil.Quantile(values, 0.75)
	iqr := q3 - q1
	low := q1 - constants.OutlierIQRMultiplier*iqr
	high := q3 + constants.OutlierIQRMultiplier*iqr

	n := 0
	for _, v := range values {
		if v < low || v > high {
			n++
		}
	}
	return n
}

// column returns the present values of one field in row order.
func (t *Table) column(f ratio.Field) []float64 {
	values := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if v, ok := row.Value(f); ok {
			values = append(values, v)
		}
	}
	return values
}

// cleanedFields are filled with the column median when missing.
var cleanedFields = []ratio.Field{
	ratio.Revenue, ratio.COGS, ratio.GrossProfit, ratio.OperatingIncome, ratio.NetIncome,
	ratio.TotalAssets, ratio.CurrentAssets, ratio.Inventory, ratio.AccountsReceivable,
	ratio.Cash, ratio.TotalLiabilities, ratio.CurrentLiabilities, ratio.LongTermDebt,
	ratio.ShareholdersEquity,
}

// nonNegativeFields have their sign flipped when negative.
var nonNegativeFields = []ratio.Field{ratio.Revenue, ratio.TotalAssets, ratio.ShareholdersEquity}

// Clean returns a new table with missing core values filled by the column
// median and negative revenue, assets or equity made positive. Accounting
// identities that do not hold are reported in the action log but left
// untouched. The input table is not modified.
func Clean(logger *zap.Logger, t *Table) (*Table, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	rows := t.Rows()
	var actions []string

	for _, f := range cleanedFields {
		if !t.hasColumn(f) {
			continue
		}
		values := t.column(f)
		missing := len(rows) - len(values)
		if missing == 0 {
			continue
		}
		median, ok := mathutil.Median(values)
		if !ok {
			actions = append(actions, fmt.Sprintf("No values available to fill %s", f))
			continue
		}
		for i, row := range rows {
			if _, present := row.Value(f); !present {
				rows[i] = row.With(f, median)
			}
		}
		actions = append(actions, fmt.Sprintf("Filled %d missing values in %s with median: %g", missing, f, median))
	}

	for _, f := range nonNegativeFields {
		flipped := 0
		for i, row := range rows {
			if v, ok := row.Value(f); ok && v < 0 {
				rows[i] = row.With(f, -v)
				flipped++
			}
		}
		if flipped > 0 {
			actions = append(actions, fmt.Sprintf("Converted %d negative values to positive in %s", flipped, f))
		}
	}

	cleaned := &Table{rows: rows, columns: t.Columns()}
	actions = append(actions, cleaned.checkRelationships()...)

	for _, action := range actions {
		logger.Info(action, zap.String("op", "dataset.Clean"))
	}
	return cleaned, actions
}

func (t *Table) hasColumn(f ratio.Field) bool {
	for _, c := range t.columns {
		if c == f {
			return true
		}
	}
	return false
}

// checkRelationships verifies gross_profit = revenue - cogs and
// total_assets = total_liabilities + shareholders_equity to within one
// currency unit. Rows lacking any operand are not checked.
func (t *Table) checkRelationships() []string {
	tolerance := decimal.NewFromFloat(constants.CurrencyTolerance)
	grossMismatch, balanceMismatch := 0, 0

	for _, row := range t.rows {
		if gp, rev, cogs, ok := three(row, ratio.GrossProfit, ratio.Revenue, ratio.COGS); ok {
			if gp.Sub(rev.Sub(cogs)).Abs().GreaterThanOrEqual(tolerance) {
				grossMismatch++
			}
		}
		if assets, liabilities, equity, ok := three(row, ratio.TotalAssets, ratio.TotalLiabilities, ratio.ShareholdersEquity); ok {
			if assets.Sub(liabilities.Add(equity)).Abs().GreaterThanOrEqual(tolerance) {
				balanceMismatch++
			}
		}
	}

	var warnings []string
	if grossMismatch > 0 {
		warnings = append(warnings, fmt.Sprintf("Gross profit doesn't match revenue - COGS for %d records", grossMismatch))
	}
	if balanceMismatch > 0 {
		warnings = append(warnings, fmt.Sprintf("Balance sheet equation doesn't balance for %d records", balanceMismatch))
	}
	return warnings
}

func three(row ratio.CompanyPeriod, a, b, c ratio.Field) (decimal.Decimal, decimal.Decimal, decimal.Decimal, bool) {
	va, okA := row.Value(a)
	vb, okB := row.Value(b)
	vc, okC := row.Value(c)
	if !okA || !okB || !okC {
		return decimal.Zero, decimal.Zero, decimal.Zero, false
	}
	return decimal.NewFromFloat(va), decimal.NewFromFloat(vb), decimal.NewFromFloat(vc), true
}
