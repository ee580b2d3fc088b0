// Package period parses reporting-period labels such as "2024-Q1" into
// comparable values.
package period

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Granularity describes how much time a period label covers.
type Granularity int

const (
	Year Granularity = iota
	Quarter
	Month
)

func (g Granularity) String() string {
	switch g {
	case Quarter:
		return "quarter"
	case Month:
		return "month"
	default:
		return "year"
	}
}

// Period is a parsed reporting period.
type Period struct {
	Label       string
	Start       time.Time
	Granularity Granularity
}

var (
	yearQuarter = regexp.MustCompile(`^(\d{4})\s*[-_ ]?\s*Q([1-4])$`)
	quarterYear = regexp.MustCompile(`^Q([1-4])\s*[-_ ]?\s*(\d{4})$`)
	yearMonth   = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	yearOnly    = regexp.MustCompile(`^(?:FY\s*)?(\d{4})$`)
)

// Parse converts a period label into a Period. Accepted forms are
// "2024-Q1", "2024Q1", "Q1 2024", "2024-03", "2024" and "FY2024".
func Parse(label string) (Period, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(label))

	if m := yearQuarter.FindStringSubmatch(trimmed); m != nil {
		return quarterPeriod(label, m[1], m[2])
	}
	if m := quarterYear.FindStringSubmatch(trimmed); m != nil {
		return quarterPeriod(label, m[2], m[1])
	}
	if m := yearMonth.FindStringSubmatch(trimmed); m != nil {
		start, err := time.Parse("2006-01", m[1]+"-"+m[2])
		if err != nil {
			return Period{}, fmt.Errorf("invalid month period %q: %w", label, err)
		}
		return Period{Label: label, Start: start, Granularity: Month}, nil
	}
	if m := yearOnly.FindStringSubmatch(trimmed); m != nil {
		year, _ := strconv.Atoi(m[1])
		return Period{Label: label, Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), Granularity: Year}, nil
	}
	return Period{}, fmt.Errorf("unrecognized period %q", label)
}

func quarterPeriod(label, yearStr, quarterStr string) (Period, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("invalid year in period %q: %w", label, err)
	}
	quarter, _ := strconv.Atoi(quarterStr)
	month := time.Month((quarter-1)*3 + 1)
	return Period{Label: label, Start: time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), Granularity: Quarter}, nil
}

// Before reports whether p starts strictly before other.
func (p Period) Before(other Period) bool {
	return p.Start.Before(other.Start)
}

// Less orders two raw labels by their parsed start. Labels that cannot be
// parsed sort before every parsed label and tie with each other, so a
// stable sort keeps them in input order ahead of the dated labels.
func Less(a, b string) bool {
	pa, errA := Parse(a)
	pb, errB := Parse(b)
	switch {
	case errA != nil:
		return errB == nil
	case errB != nil:
		return false
	}
	return pa.Before(pb)
}
