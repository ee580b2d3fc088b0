package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/testutil"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func TestCategoryChart(t *testing.T) {
	report := testutil.SampleReport(t)
	tech := testutil.FindCompany(report.Companies, "1")
	if tech == nil {
		t.Fatal("sample report has no company 1")
	}

	tests := []struct {
		name     string
		category ratio.Category
		wantErr  bool
	}{
		{"profitability has benchmarks", ratio.Profitability, false},
		{"liquidity has benchmarks", ratio.Liquidity, false},
		{"efficiency has no Technology benchmarks", ratio.Efficiency, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CategoryChart(*tech, tt.category)
			if tt.wantErr {
				if !errors.Is(err, ErrNoData) {
					t.Errorf("CategoryChart() error = %v, expected ErrNoData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CategoryChart() error = %v", err)
			}
			var buf bytes.Buffer
			if err := WritePNG(&buf, p); err != nil {
				t.Fatalf("WritePNG() error = %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngHeader) {
				t.Error("WritePNG() output is not a PNG")
			}
		})
	}
}

func TestHealthChartEmpty(t *testing.T) {
	if _, err := HealthChart(analysis.Report{}); !errors.Is(err, ErrNoData) {
		t.Errorf("HealthChart() error = %v, expected ErrNoData", err)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		id       string
		category ratio.Category
		expected string
	}{
		{"1", ratio.Profitability, "1_profitability.png"},
		{"ACME/2", ratio.Leverage, "ACME_2_leverage.png"},
		{"a b", ratio.Valuation, "a_b_valuation.png"},
	}
	for _, tt := range tests {
		if got := FileName(tt.id, tt.category); got != tt.expected {
			t.Errorf("FileName(%q, %s) = %s, expected %s", tt.id, tt.category, got, tt.expected)
		}
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteAll(dir, testutil.SampleReport(t))
	if err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	// Technology: profitability, liquidity, leverage, valuation.
	// Retail and Manufacturing add efficiency. Plus one health chart.
	expected := 4 + 5 + 5 + 1
	if len(paths) != expected {
		t.Fatalf("WriteAll() wrote %d charts, expected %d: %v", len(paths), expected, paths)
	}

	for _, name := range []string{"1_profitability.png", "2_efficiency.png", HealthFileName} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing chart %s: %v", name, err)
			continue
		}
		if !bytes.HasPrefix(data, pngHeader) {
			t.Errorf("chart %s is not a PNG", name)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "1_efficiency.png")); !os.IsNotExist(err) {
		t.Error("WriteAll() should skip categories without comparisons")
	}
}
