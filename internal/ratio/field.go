package ratio

import (
	"errors"
	"fmt"
	"strings"
)

// Field names a numeric input of a company-period record.
type Field string

const (
	Revenue            Field = "revenue"
	COGS               Field = "cogs"
	GrossProfit        Field = "gross_profit"
	OperatingIncome    Field = "operating_income"
	NetIncome          Field = "net_income"
	TotalAssets        Field = "total_assets"
	CurrentAssets      Field = "current_assets"
	Inventory          Field = "inventory"
	AccountsReceivable Field = "accounts_receivable"
	Cash               Field = "cash"
	TotalLiabilities   Field = "total_liabilities"
	CurrentLiabilities Field = "current_liabilities"
	LongTermDebt       Field = "long_term_debt"
	ShareholdersEquity Field = "shareholders_equity"
	SharesOutstanding  Field = "shares_outstanding"
	StockPrice         Field = "stock_price"
	Dividends          Field = "dividends"
	Depreciation       Field = "depreciation"
	OperatingCashFlow  Field = "operating_cash_flow"
	InterestExpense    Field = "interest_expense"
)

var allFields = []Field{
	Revenue, COGS, GrossProfit, OperatingIncome, NetIncome,
	TotalAssets, CurrentAssets, Inventory, AccountsReceivable, Cash,
	TotalLiabilities, CurrentLiabilities, LongTermDebt, ShareholdersEquity,
	SharesOutstanding, StockPrice, Dividends, Depreciation, OperatingCashFlow,
	InterestExpense,
}

// requiredFields must be present on every record; without them the record
// is structurally broken rather than merely sparse.
var requiredFields = []Field{Revenue, NetIncome, TotalAssets, ShareholdersEquity}

// Fields returns every known input field in canonical order.
func Fields() []Field {
	return append([]Field(nil), allFields...)
}

// RequiredFields returns the fields every record must carry.
func RequiredFields() []Field {
	return append([]Field(nil), requiredFields...)
}

// ParseField maps a column name onto a Field.
func ParseField(name string) (Field, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, f := range allFields {
		if string(f) == normalized {
			return f, true
		}
	}
	return "", false
}

// ErrInputMalformed is matched by errors describing structurally broken
// input records.
var ErrInputMalformed = errors.New("input record malformed")

// MalformedError identifies the record and the required field it lacks.
type MalformedError struct {
	CompanyID string
	Field     Field
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("company %s: missing required field %s", e.CompanyID, e.Field)
}

// Is lets errors.Is match ErrInputMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrInputMalformed
}

// Identity holds the non-numeric columns of a record.
type Identity struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Period      string `json:"period"`
}

// CompanyPeriod is an immutable snapshot of one company's financials for
// one reporting period.
type CompanyPeriod struct {
	Identity
	values map[Field]float64
}

// NewCompanyPeriod copies values into a new record.
func NewCompanyPeriod(id Identity, values map[Field]float64) CompanyPeriod {
	copied := make(map[Field]float64, len(values))
	for f, v := range values {
		copied[f] = v
	}
	return CompanyPeriod{Identity: id, values: copied}
}

// Value returns the field's value and whether it was present.
func (p CompanyPeriod) Value(f Field) (float64, bool) {
	v, ok := p.values[f]
	return v, ok
}

// Values returns a copy of all present fields.
func (p CompanyPeriod) Values() map[Field]float64 {
	copied := make(map[Field]float64, len(p.values))
	for f, v := range p.values {
		copied[f] = v
	}
	return copied
}

// With returns a copy of the record with f set to v.
func (p CompanyPeriod) With(f Field, v float64) CompanyPeriod {
	values := p.Values()
	values[f] = v
	return CompanyPeriod{Identity: p.Identity, values: values}
}

// Validate checks that every required field is present.
func (p CompanyPeriod) Validate() error {
	for _, f := range requiredFields {
		if _, ok := p.values[f]; !ok {
			return &MalformedError{CompanyID: p.CompanyID, Field: f}
		}
	}
	return nil
}

func (p CompanyPeriod) get(f Field) Value {
	if v, ok := p.values[f]; ok {
		return Finite(v)
	}
	return Undefined()
}

func (p CompanyPeriod) getOr(f Field, fallback Value) Value {
	if v, ok := p.values[f]; ok {
		return Finite(v)
	}
	return fallback
}
