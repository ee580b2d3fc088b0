package ratio

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
)

func sampleValues() map[Field]float64 {
	return map[Field]float64{
		Revenue:            10_000_000,
		COGS:               6_000_000,
		GrossProfit:        4_000_000,
		OperatingIncome:    2_000_000,
		NetIncome:          1_500_000,
		TotalAssets:        50_000_000,
		CurrentAssets:      12_000_000,
		Inventory:          3_000_000,
		AccountsReceivable: 4_000_000,
		Cash:               2_000_000,
		TotalLiabilities:   30_000_000,
		CurrentLiabilities: 8_000_000,
		LongTermDebt:       22_000_000,
		ShareholdersEquity: 20_000_000,
		SharesOutstanding:  1_000_000,
		StockPrice:         25.0,
	}
}

func samplePeriod() CompanyPeriod {
	return NewCompanyPeriod(Identity{
		CompanyID:   "1",
		CompanyName: "TechCorp Inc",
		Industry:    "Technology",
		Period:      "2024-Q4",
	}, sampleValues())
}

func assertFinite(t *testing.T, set RatioSet, c Category, n Name, expected float64) {
	t.Helper()
	v, ok := set.Get(c, n)
	if !ok {
		t.Fatalf("%s/%s missing from ratio set", c, n)
	}
	got, ok := v.Float()
	if !ok || !v.IsFinite() {
		t.Fatalf("%s/%s = %v, expected finite %v", c, n, v, expected)
	}
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("%s/%s = %.12f, expected %.12f", c, n, got, expected)
	}
}

func assertKind(t *testing.T, set RatioSet, c Category, n Name, expected Kind) {
	t.Helper()
	v, ok := set.Get(c, n)
	if !ok {
		t.Fatalf("%s/%s missing from ratio set", c, n)
	}
	if v.Kind() != expected {
		t.Errorf("%s/%s kind = %v, expected %v", c, n, v.Kind(), expected)
	}
}

func TestComputeSampleCompany(t *testing.T) {
	engine := NewEngine(zap.NewNop(), Options{})
	set, err := engine.Compute(samplePeriod())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	tests := []struct {
		category Category
		name     Name
		expected float64
	}{
		{Profitability, GrossMargin, 0.4},
		{Profitability, OperatingMargin, 0.2},
		{Profitability, NetMargin, 0.15},
		{Profitability, ROA, 0.03},
		{Profitability, ROE, 0.075},
		{Liquidity, CurrentRatio, 1.5},
		{Liquidity, QuickRatio, 1.125},
		{Liquidity, CashRatio, 0.25},
		{Leverage, DebtToEquity, 1.5},
		{Leverage, DebtRatio, 0.6},
		{Leverage, InterestCoverage, 2_000_000.0 / 1_100_000.0},
		{Efficiency, AssetTurnover, 0.2},
		{Efficiency, InventoryTurnover, 8},
		{Efficiency, ReceivablesTurnover, 10},
		{Valuation, EPS, 1.5},
		{Valuation, PERatio, 25.0 / 1.5},
		{Valuation, PBRatio, 1.25},
		{Valuation, PSRatio, 2.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assertFinite(t, set, tt.category, tt.name, tt.expected)
		})
	}

	if pe, _ := set.Get(Valuation, PERatio); math.Abs(mustFloat(t, pe)-16.667) > 0.001 {
		t.Errorf("pe_ratio = %v, expected approximately 16.667", pe)
	}
}

func mustFloat(t *testing.T, v Value) float64 {
	t.Helper()
	f, ok := v.Float()
	if !ok {
		t.Fatalf("value %v is undefined", v)
	}
	return f
}

func TestComputeProducesFixedCategoryShape(t *testing.T) {
	engine := NewEngine(nil, Options{})
	set, err := engine.Compute(samplePeriod())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for _, c := range Categories() {
		entries := set.Category(c)
		expected := c.Ratios()
		if len(entries) != len(expected) {
			t.Fatalf("%s has %d ratios, expected %d", c, len(entries), len(expected))
		}
		for i, name := range expected {
			if entries[i].Name != name {
				t.Errorf("%s ratio %d = %s, expected %s", c, i, entries[i].Name, name)
			}
		}
	}
	if set.Len() != 18 {
		t.Errorf("Len() = %d, expected 18", set.Len())
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	engine := NewEngine(zap.NewNop(), Options{Extended: true})
	record := samplePeriod()

	first, err := engine.Compute(record)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	second, err := engine.Compute(record)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !first.Equal(second) {
		t.Error("Compute() returned different ratio sets for the same record")
	}
}

func TestComputeZeroCurrentLiabilities(t *testing.T) {
	values := sampleValues()
	values[CurrentLiabilities] = 0
	record := NewCompanyPeriod(Identity{CompanyID: "z"}, values)

	set, err := NewEngine(zap.NewNop(), Options{}).Compute(record)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	for _, n := range []Name{CurrentRatio, QuickRatio, CashRatio} {
		assertKind(t, set, Liquidity, n, KindUndefined)
	}
	// Other categories are still computed.
	assertFinite(t, set, Profitability, GrossMargin, 0.4)
	assertFinite(t, set, Leverage, DebtToEquity, 1.5)
}

func TestComputeInterestCoverage(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[Field]float64)
		kind     Kind
		expected float64
	}{
		{
			name:     "Imputed from long-term debt",
			mutate:   func(map[Field]float64) {},
			kind:     KindFinite,
			expected: 2_000_000.0 / 1_100_000.0,
		},
		{
			name:     "Reported interest expense wins",
			mutate:   func(v map[Field]float64) { v[InterestExpense] = 500_000 },
			kind:     KindFinite,
			expected: 4,
		},
		{
			name:   "No debt is unbounded",
			mutate: func(v map[Field]float64) { v[LongTermDebt] = 0 },
			kind:   KindUnbounded,
		},
		{
			name:   "Negative interest is unbounded",
			mutate: func(v map[Field]float64) { v[InterestExpense] = -10 },
			kind:   KindUnbounded,
		},
		{
			name:   "No interest or debt figures",
			mutate: func(v map[Field]float64) { delete(v, LongTermDebt) },
			kind:   KindUndefined,
		},
		{
			name:   "Missing operating income",
			mutate: func(v map[Field]float64) { delete(v, OperatingIncome) },
			kind:   KindUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := sampleValues()
			tt.mutate(values)
			set, err := NewEngine(zap.NewNop(), Options{}).Compute(NewCompanyPeriod(Identity{CompanyID: "c"}, values))
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			assertKind(t, set, Leverage, InterestCoverage, tt.kind)
			if tt.kind == KindFinite {
				assertFinite(t, set, Leverage, InterestCoverage, tt.expected)
			}
		})
	}
}

func TestComputeValuationSentinels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[Field]float64)
		pe     Kind
		eps    Kind
	}{
		{"Loss makes P/E unbounded", func(v map[Field]float64) { v[NetIncome] = -100 }, KindUnbounded, KindFinite},
		{"Zero earnings make P/E unbounded", func(v map[Field]float64) { v[NetIncome] = 0 }, KindUnbounded, KindFinite},
		{"Zero shares leave EPS undefined", func(v map[Field]float64) { v[SharesOutstanding] = 0 }, KindUndefined, KindUndefined},
		{"Missing price leaves P/E undefined", func(v map[Field]float64) { delete(v, StockPrice) }, KindUndefined, KindFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := sampleValues()
			tt.mutate(values)
			set, err := NewEngine(zap.NewNop(), Options{}).Compute(NewCompanyPeriod(Identity{CompanyID: "v"}, values))
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			assertKind(t, set, Valuation, PERatio, tt.pe)
			assertKind(t, set, Valuation, EPS, tt.eps)
		})
	}
}

func TestComputeMissingOptionalFieldsOnlyAffectTheirRatios(t *testing.T) {
	values := sampleValues()
	delete(values, Inventory)
	delete(values, AccountsReceivable)

	set, err := NewEngine(zap.NewNop(), Options{}).Compute(NewCompanyPeriod(Identity{CompanyID: "m"}, values))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertKind(t, set, Liquidity, QuickRatio, KindUndefined)
	assertKind(t, set, Efficiency, InventoryTurnover, KindUndefined)
	assertKind(t, set, Efficiency, ReceivablesTurnover, KindUndefined)
	assertFinite(t, set, Liquidity, CurrentRatio, 1.5)
}

func TestComputeMalformedRecord(t *testing.T) {
	for _, field := range RequiredFields() {
		t.Run(string(field), func(t *testing.T) {
			values := sampleValues()
			delete(values, field)
			set, err := NewEngine(zap.NewNop(), Options{}).Compute(NewCompanyPeriod(Identity{CompanyID: "broken"}, values))
			if err == nil {
				t.Fatal("Compute() expected error but got none")
			}
			if !errors.Is(err, ErrInputMalformed) {
				t.Errorf("Compute() error = %v, expected ErrInputMalformed", err)
			}
			var malformed *MalformedError
			if !errors.As(err, &malformed) || malformed.Field != field || malformed.CompanyID != "broken" {
				t.Errorf("Compute() error = %#v, expected field %s for company broken", err, field)
			}
			if set.Len() != 0 {
				t.Errorf("Compute() returned %d ratios for a malformed record", set.Len())
			}
		})
	}
}

func TestComputeZeroRevenueIsNotMalformed(t *testing.T) {
	values := sampleValues()
	values[Revenue] = 0
	set, err := NewEngine(zap.NewNop(), Options{}).Compute(NewCompanyPeriod(Identity{CompanyID: "r"}, values))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertKind(t, set, Profitability, GrossMargin, KindUndefined)
	assertKind(t, set, Valuation, PSRatio, KindUndefined)
}

func TestComputeQuarterlyScale(t *testing.T) {
	set, err := NewEngine(zap.NewNop(), Options{Scale: PeriodQuarterly}).Compute(samplePeriod())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertFinite(t, set, Efficiency, AssetTurnover, 0.8)
	assertFinite(t, set, Efficiency, InventoryTurnover, 8)
	assertFinite(t, set, Efficiency, ReceivablesTurnover, 10)
}

func TestComputeExtendedRatios(t *testing.T) {
	values := sampleValues()
	values[Depreciation] = 500_000
	values[Dividends] = 0.5

	set, err := NewEngine(zap.NewNop(), Options{Extended: true}).Compute(NewCompanyPeriod(Identity{CompanyID: "x"}, values))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	assertFinite(t, set, Profitability, EBITDAMargin, 0.25)
	assertFinite(t, set, Profitability, OperatingCashFlowMargin, 0.15)
	assertFinite(t, set, Liquidity, WorkingCapital, 4_000_000)
	assertFinite(t, set, Leverage, EquityRatio, 0.4)
	assertFinite(t, set, Leverage, FinancialLeverage, 2.5)
	assertFinite(t, set, Efficiency, DaysInventory, 365.0/8)
	assertFinite(t, set, Efficiency, DaysReceivables, 36.5)
	assertFinite(t, set, Efficiency, FixedAssetTurnover, 10_000_000.0/38_000_000.0)
	// EV = 25M market cap + 22M debt - 2M cash; EBITDA = 2.5M.
	assertFinite(t, set, Valuation, EVToEBITDA, 18)
	assertFinite(t, set, Valuation, DividendYield, 0.02)

	if set.Len() != 28 {
		t.Errorf("Len() = %d, expected 28 with extended ratios", set.Len())
	}
}

func TestComputeExtendedSentinels(t *testing.T) {
	values := sampleValues()
	values[CurrentAssets] = values[TotalAssets]
	values[OperatingIncome] = -1_000_000
	values[StockPrice] = 0

	set, err := NewEngine(zap.NewNop(), Options{Extended: true}).Compute(NewCompanyPeriod(Identity{CompanyID: "s"}, values))
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	assertKind(t, set, Efficiency, FixedAssetTurnover, KindUnbounded)
	assertKind(t, set, Valuation, EVToEBITDA, KindUnbounded)
	assertFinite(t, set, Valuation, DividendYield, 0)
}

func TestParsePeriodScale(t *testing.T) {
	tests := []struct {
		input     string
		expected  PeriodScale
		expectErr bool
	}{
		{"", PeriodAnnual, false},
		{"annual", PeriodAnnual, false},
		{"Quarterly", PeriodQuarterly, false},
		{"monthly", PeriodAnnual, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePeriodScale(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParsePeriodScale(%q) expected error but got none", tt.input)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("ParsePeriodScale(%q) = %v, %v, expected %v", tt.input, got, err, tt.expected)
			}
		})
	}
}

func TestCompanyPeriodIsImmutable(t *testing.T) {
	values := sampleValues()
	record := NewCompanyPeriod(Identity{CompanyID: "i"}, values)
	values[Revenue] = 1

	if got, _ := record.Value(Revenue); got != 10_000_000 {
		t.Errorf("record changed after source map mutation: revenue = %v", got)
	}

	copied := record.Values()
	copied[Revenue] = 2
	if got, _ := record.Value(Revenue); got != 10_000_000 {
		t.Errorf("record changed after Values() mutation: revenue = %v", got)
	}

	updated := record.With(Revenue, 3)
	if got, _ := record.Value(Revenue); got != 10_000_000 {
		t.Errorf("With() modified the original record: revenue = %v", got)
	}
	if got, _ := updated.Value(Revenue); got != 3 {
		t.Errorf("With() revenue = %v, expected 3", got)
	}
}
