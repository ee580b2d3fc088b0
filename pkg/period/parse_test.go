package period

import (
	"sort"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		label       string
		expected    time.Time
		granularity Granularity
		expectError bool
	}{
		{"Year dash quarter", "2024-Q1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Quarter, false},
		{"Year quarter compact", "2024Q3", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Quarter, false},
		{"Quarter space year", "Q4 2023", time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC), Quarter, false},
		{"Lowercase quarter", "2024-q2", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Quarter, false},
		{"Year month", "2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Month, false},
		{"Year only", "2022", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), Year, false},
		{"Fiscal year", "FY2021", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Year, false},
		{"Invalid month", "2024-13", time.Time{}, Month, true},
		{"Quarter out of range", "2024-Q5", time.Time{}, Quarter, true},
		{"Garbage", "last quarter", time.Time{}, Year, true},
		{"Empty", "", time.Time{}, Year, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.label)
			if tt.expectError {
				if err == nil {
					t.Errorf("Parse(%q) expected error but got none", tt.label)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error = %v", tt.label, err)
			}
			if !p.Start.Equal(tt.expected) {
				t.Errorf("Parse(%q).Start = %v, expected %v", tt.label, p.Start, tt.expected)
			}
			if p.Granularity != tt.granularity {
				t.Errorf("Parse(%q).Granularity = %v, expected %v", tt.label, p.Granularity, tt.granularity)
			}
			if p.Label != tt.label {
				t.Errorf("Parse(%q).Label = %q, expected original label", tt.label, p.Label)
			}
		})
	}
}

func TestLessSortsMixedLabels(t *testing.T) {
	labels := []string{"2024-Q2", "2023-Q4", "2024-Q1", "2023-Q3"}
	sort.SliceStable(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })

	expected := []string{"2023-Q3", "2023-Q4", "2024-Q1", "2024-Q2"}
	for i := range expected {
		if labels[i] != expected[i] {
			t.Fatalf("sorted labels = %v, expected %v", labels, expected)
		}
	}
}

func TestLessKeepsUnparseableOrder(t *testing.T) {
	labels := []string{"b", "a", "c"}
	sort.SliceStable(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })
	if labels[0] != "b" || labels[1] != "a" || labels[2] != "c" {
		t.Errorf("unparseable labels were reordered: %v", labels)
	}
}

func TestLessGroupsUnparseableFirst(t *testing.T) {
	labels := []string{"2024-Q2", "restated", "2024-Q1", "draft", "2023"}
	sort.SliceStable(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })

	expected := []string{"restated", "draft", "2023", "2024-Q1", "2024-Q2"}
	for i := range expected {
		if labels[i] != expected[i] {
			t.Fatalf("sorted labels = %v, expected %v", labels, expected)
		}
	}
}
