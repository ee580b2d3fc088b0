// Package testutil provides common utility functions for testing.
package testutil

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/iwvelando/finance-ratios/internal/dataset"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"go.uber.org/zap"
)

// SampleCSV holds two periods for three companies in three industries.
const SampleCSV = `company_id,company_name,industry,period,revenue,cogs,gross_profit,operating_income,net_income,total_assets,current_assets,inventory,accounts_receivable,cash,total_liabilities,current_liabilities,long_term_debt,shareholders_equity,shares_outstanding,stock_price
1,TechCorp Inc,Technology,2024-Q3,9000000,5500000,3500000,1800000,1200000,48000000,11000000,2900000,3800000,1900000,29000000,7800000,21200000,19000000,1000000,22
1,TechCorp Inc,Technology,2024-Q4,10000000,6000000,4000000,2000000,1500000,50000000,12000000,3000000,4000000,2000000,30000000,8000000,22000000,20000000,1000000,25
2,Global Retail Co,Retail,2024-Q3,20000000,13000000,7000000,1600000,1000000,30000000,9000000,5000000,1500000,1500000,18000000,7000000,11000000,12000000,2000000,15
2,Global Retail Co,Retail,2024-Q4,24000000,15600000,8400000,2000000,1200000,32000000,10000000,5200000,1600000,1800000,19000000,7500000,11500000,13000000,2000000,16
3,ManufacturePro Ltd,Manufacturing,2024-Q3,15000000,10800000,4200000,1800000,1050000,40000000,14000000,6000000,3000000,2500000,22000000,8000000,14000000,18000000,1500000,18
3,ManufacturePro Ltd,Manufacturing,2024-Q4,16000000,11500000,4500000,1900000,1100000,41000000,15000000,6200000,3200000,2600000,22500000,8200000,14300000,18500000,1500000,19
`

// SampleBenchmarksJSON is a benchmark file covering the SampleCSV industries.
const SampleBenchmarksJSON = `{"industry_benchmarks": {
  "Technology": {
    "profitability": {"gross_margin": 0.65, "operating_margin": 0.25, "net_margin": 0.20, "roa": 0.12, "roe": 0.18},
    "liquidity": {"current_ratio": 2.5, "quick_ratio": 2.0, "cash_ratio": 0.8},
    "leverage": {"debt_to_equity": 0.3, "debt_ratio": 0.25, "interest_coverage": 15.0},
    "valuation": {"pe_ratio": 25.0, "pb_ratio": 4.5, "ps_ratio": 6.0}
  },
  "Retail": {
    "profitability": {"gross_margin": 0.35, "operating_margin": 0.08, "net_margin": 0.05, "roa": 0.08, "roe": 0.15},
    "liquidity": {"current_ratio": 1.2, "quick_ratio": 0.6, "cash_ratio": 0.2},
    "leverage": {"debt_to_equity": 0.8, "debt_ratio": 0.45, "interest_coverage": 8.0},
    "efficiency": {"asset_turnover": 2.0, "inventory_turnover": 8.0, "receivables_turnover": 12.0},
    "valuation": {"pe_ratio": 18.0, "pb_ratio": 2.5, "ps_ratio": 0.8}
  },
  "Manufacturing": {
    "profitability": {"gross_margin": 0.28, "operating_margin": 0.12, "net_margin": 0.08, "roa": 0.06, "roe": 0.12},
    "liquidity": {"current_ratio": 1.8, "quick_ratio": 1.2, "cash_ratio": 0.3},
    "leverage": {"debt_to_equity": 0.6, "debt_ratio": 0.35, "interest_coverage": 6.0},
    "efficiency": {"asset_turnover": 1.1, "inventory_turnover": 6.0, "receivables_turnover": 8.0},
    "valuation": {"pe_ratio": 16.0, "pb_ratio": 1.8, "ps_ratio": 1.2}
  }
}}`

// SampleTable parses SampleCSV.
func SampleTable(t testing.TB) *dataset.Table {
	t.Helper()
	table, err := dataset.Read(strings.NewReader(SampleCSV))
	if err != nil {
		t.Fatalf("failed to read sample dataset: %v", err)
	}
	return table
}

// SampleBenchmarks returns the benchmark table from SampleBenchmarksJSON
// without going through a file.
func SampleBenchmarks() ratio.BenchmarkTable {
	return ratio.BenchmarkTable{
		"Technology": {
			"profitability": {"gross_margin": 0.65, "operating_margin": 0.25, "net_margin": 0.20, "roa": 0.12, "roe": 0.18},
			"liquidity":     {"current_ratio": 2.5, "quick_ratio": 2.0, "cash_ratio": 0.8},
			"leverage":      {"debt_to_equity": 0.3, "debt_ratio": 0.25, "interest_coverage": 15.0},
			"valuation":     {"pe_ratio": 25.0, "pb_ratio": 4.5, "ps_ratio": 6.0},
		},
		"Retail": {
			"profitability": {"gross_margin": 0.35, "operating_margin": 0.08, "net_margin": 0.05, "roa": 0.08, "roe": 0.15},
			"liquidity":     {"current_ratio": 1.2, "quick_ratio": 0.6, "cash_ratio": 0.2},
			"leverage":      {"debt_to_equity": 0.8, "debt_ratio": 0.45, "interest_coverage": 8.0},
			"efficiency":    {"asset_turnover": 2.0, "inventory_turnover": 8.0, "receivables_turnover": 12.0},
			"valuation":     {"pe_ratio": 18.0, "pb_ratio": 2.5, "ps_ratio": 0.8},
		},
		"Manufacturing": {
			"profitability": {"gross_margin": 0.28, "operating_margin": 0.12, "net_margin": 0.08, "roa": 0.06, "roe": 0.12},
			"liquidity":     {"current_ratio": 1.8, "quick_ratio": 1.2, "cash_ratio": 0.3},
			"leverage":      {"debt_to_equity": 0.6, "debt_ratio": 0.35, "interest_coverage": 6.0},
			"efficiency":    {"asset_turnover": 1.1, "inventory_turnover": 6.0, "receivables_turnover": 8.0},
			"valuation":     {"pe_ratio": 16.0, "pb_ratio": 1.8, "ps_ratio": 1.2},
		},
	}
}

// SampleReport analyzes the sample dataset against the sample benchmarks
// with a fixed generation time.
func SampleReport(t testing.TB) analysis.Report {
	t.Helper()
	analyzer := analysis.NewAnalyzer(zap.NewNop(), nil, SampleBenchmarks(), nil)
	report, err := analyzer.AnalyzeAll(SampleTable(t))
	if err != nil {
		t.Fatalf("failed to analyze sample dataset: %v", err)
	}
	report.GeneratedAt = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)
	return report
}

// FindCompany finds an analysis by company id in the results slice.
// Returns a pointer to the analysis if found, nil otherwise.
func FindCompany(results []analysis.CompanyAnalysis, companyID string) *analysis.CompanyAnalysis {
	for i := range results {
		if results[i].CompanyID == companyID {
			return &results[i]
		}
	}
	return nil
}
