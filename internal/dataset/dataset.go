// Package dataset reads company financial statements from CSV into
// immutable ratio records and offers per-company views over them.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/period"
)

// ErrMissingColumn is returned when the header lacks an identity column.
var ErrMissingColumn = errors.New("missing required column")

const (
	columnCompanyID   = "company_id"
	columnCompanyName = "company_name"
	columnIndustry    = "industry"
	columnPeriod      = "period"
)

var identityColumns = []string{columnCompanyID, columnCompanyName, columnIndustry, columnPeriod}

// Table is an ordered collection of company-period records.
type Table struct {
	rows    []ratio.CompanyPeriod
	columns []ratio.Field
}

// NewTable builds a table from records in the given order. The numeric
// columns are the union of fields present on any record.
func NewTable(rows []ratio.CompanyPeriod) *Table {
	present := make(map[ratio.Field]bool)
	for _, row := range rows {
		for f := range row.Values() {
			present[f] = true
		}
	}
	var columns []ratio.Field
	for _, f := range ratio.Fields() {
		if present[f] {
			columns = append(columns, f)
		}
	}
	return &Table{rows: append([]ratio.CompanyPeriod(nil), rows...), columns: columns}
}

// Load reads a CSV file from disk.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	table, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	return table, nil
}

// Read parses CSV with a header row. Numeric columns are matched to
// ratio fields by name; unknown columns are ignored and empty cells are
// treated as missing values.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	identity := make(map[string]int, len(identityColumns))
	fields := make(map[int]ratio.Field)
	var columns []ratio.Field
	for i, name := range header {
		normalized := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if f, ok := ratio.ParseField(normalized); ok {
			fields[i] = f
			columns = append(columns, f)
			continue
		}
		identity[normalized] = i
	}
	for _, name := range identityColumns {
		if _, ok := identity[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var rows []ratio.CompanyPeriod
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		id := ratio.Identity{
			CompanyID:   strings.TrimSpace(record[identity[columnCompanyID]]),
			CompanyName: strings.TrimSpace(record[identity[columnCompanyName]]),
			Industry:    strings.TrimSpace(record[identity[columnIndustry]]),
			Period:      strings.TrimSpace(record[identity[columnPeriod]]),
		}
		values := make(map[ratio.Field]float64, len(fields))
		for i, f := range fields {
			v, ok, err := parseNumber(record[i])
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line, f, err)
			}
			if ok {
				values[f] = v
			}
		}
		rows = append(rows, ratio.NewCompanyPeriod(id, values))
	}

	sortFields(columns)
	return &Table{rows: rows, columns: columns}, nil
}

// parseNumber returns false for empty or NaN cells.
func parseNumber(cell string) (float64, bool, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", cell)
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	if math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("invalid number %q", cell)
	}
	return v, true, nil
}

func sortFields(fields []ratio.Field) {
	order := make(map[ratio.Field]int)
	for i, f := range ratio.Fields() {
		order[f] = i
	}
	sort.SliceStable(fields, func(i, j int) bool { return order[fields[i]] < order[fields[j]] })
}

// Write encodes the table as CSV with identity columns first.
func Write(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	header := append([]string(nil), identityColumns...)
	for _, f := range t.columns {
		header = append(header, string(f))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range t.rows {
		record := []string{row.CompanyID, row.CompanyName, row.Industry, row.Period}
		for _, f := range t.columns {
			cell := ""
			if v, ok := row.Value(f); ok {
				cell = strconv.FormatFloat(v, 'f', -1, 64)
			}
			record = append(record, cell)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the records in file order.
func (t *Table) Rows() []ratio.CompanyPeriod {
	return append([]ratio.CompanyPeriod(nil), t.rows...)
}

// Columns returns the numeric fields present in the source, in canonical
// field order.
func (t *Table) Columns() []ratio.Field {
	return append([]ratio.Field(nil), t.columns...)
}

// Companies returns company ids in first-seen order.
func (t *Table) Companies() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, row := range t.rows {
		if !seen[row.CompanyID] {
			seen[row.CompanyID] = true
			ids = append(ids, row.CompanyID)
		}
	}
	return ids
}

// History returns a company's records sorted by period. Records whose
// period cannot be parsed come first in file order; dated records follow
// in period order, keeping file order on ties.
func (t *Table) History(companyID string) []ratio.CompanyPeriod {
	type keyed struct {
		row    ratio.CompanyPeriod
		dated  bool
		period period.Period
	}
	var rows []keyed
	for _, row := range t.rows {
		if row.CompanyID != companyID {
			continue
		}
		p, err := period.Parse(row.Period)
		rows = append(rows, keyed{row: row, dated: err == nil, period: p})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].dated != rows[j].dated {
			return !rows[i].dated
		}
		return rows[i].dated && rows[i].period.Before(rows[j].period)
	})

	history := make([]ratio.CompanyPeriod, len(rows))
	for i, k := range rows {
		history[i] = k.row
	}
	return history
}

// Latest returns the company's most recent record: the latest dated period,
// or the last row in file order when no period parses.
func (t *Table) Latest(companyID string) (ratio.CompanyPeriod, bool) {
	history := t.History(companyID)
	if len(history) == 0 {
		return ratio.CompanyPeriod{}, false
	}
	return history[len(history)-1], true
}
