package dataset

import (
	"math"
	"testing"
)

func TestCompanyGrowth(t *testing.T) {
	table, err := Load(fixture)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	growth, ok := CompanyGrowth(table, "1")
	if !ok {
		t.Fatal("CompanyGrowth(1) found nothing")
	}
	if growth.LatestPeriod != "2024-Q4" || growth.PreviousPeriod != "2024-Q3" {
		t.Errorf("periods = %s, %s, expected 2024-Q4, 2024-Q3", growth.LatestPeriod, growth.PreviousPeriod)
	}
	revenue, _ := growth.RevenueGrowth.Float()
	if math.Abs(revenue-1.0/9.0) > 1e-9 {
		t.Errorf("RevenueGrowth = %v, expected %v", revenue, 1.0/9.0)
	}
	netIncome, _ := growth.NetIncomeGrowth.Float()
	if math.Abs(netIncome-0.25) > 1e-9 {
		t.Errorf("NetIncomeGrowth = %v, expected 0.25", netIncome)
	}
}

func TestCompanyGrowthEdgeCases(t *testing.T) {
	table := mustRead(t, "company_id,company_name,industry,period,revenue,net_income\n"+
		"1,A,Tech,2024-Q1,0,10\n"+
		"1,A,Tech,2024-Q2,50,12\n"+
		"2,B,Tech,2024-Q1,5,5\n")

	growth, ok := CompanyGrowth(table, "1")
	if !ok {
		t.Fatal("CompanyGrowth(1) found nothing")
	}
	if growth.RevenueGrowth.IsDefined() {
		t.Errorf("RevenueGrowth = %v, expected undefined for a zero prior value", growth.RevenueGrowth)
	}
	if !growth.NetIncomeGrowth.IsFinite() {
		t.Errorf("NetIncomeGrowth = %v, expected finite", growth.NetIncomeGrowth)
	}

	if _, ok := CompanyGrowth(table, "2"); ok {
		t.Error("CompanyGrowth(2) expected false with a single period")
	}
}
