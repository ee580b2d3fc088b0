package integration

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/dataset"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"github.com/iwvelando/finance-ratios/pkg/testutil"
	"go.uber.org/zap"
)

// TestMain runs the package tests.
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// syntheticCSV repeats the sample rows under new company ids.
func syntheticCSV(companies int) string {
	lines := strings.Split(strings.TrimSpace(testutil.SampleCSV), "\n")
	var b strings.Builder
	b.WriteString(lines[0])
	b.WriteString("\n")
	for i := 0; i < companies; i++ {
		row := lines[1+(i%(len(lines)-1))]
		_, rest, _ := strings.Cut(row, ",")
		fmt.Fprintf(&b, "C%04d,%s\n", i, rest)
	}
	return b.String()
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}
	logger := zap.NewNop()

	start := time.Now()
	table, err := dataset.Read(strings.NewReader(syntheticCSV(2000)))
	if err != nil {
		t.Fatalf("dataset.Read() error = %v", err)
	}
	loadTime := time.Since(start)

	engine := ratio.NewEngine(logger, ratio.Options{Extended: true})
	analyzer := analysis.NewAnalyzer(logger, engine, testutil.SampleBenchmarks(), nil)

	start = time.Now()
	report, err := analyzer.AnalyzeAll(table)
	if err != nil {
		t.Fatalf("AnalyzeAll() error = %v", err)
	}
	analyzeTime := time.Since(start)

	if len(report.Companies) != 2000 {
		t.Errorf("Expected 2000 companies, got %d", len(report.Companies))
	}

	t.Logf("Load time: %v, analysis time: %v", loadTime, analyzeTime)
	if total := loadTime + analyzeTime; total > 10*time.Second {
		t.Errorf("Analysis took too long: %v", total)
	}
}

func BenchmarkAnalyzeAll(b *testing.B) {
	table, err := dataset.Read(strings.NewReader(syntheticCSV(500)))
	if err != nil {
		b.Fatalf("dataset.Read() error = %v", err)
	}
	engine := ratio.NewEngine(zap.NewNop(), ratio.Options{})
	benchmarks := testutil.SampleBenchmarks()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.NewAnalyzer(zap.NewNop(), engine, benchmarks, nil).AnalyzeAll(table); err != nil {
			b.Fatal(err)
		}
	}
}
