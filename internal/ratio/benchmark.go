package ratio

import (
	"sort"
	"strings"
)

// IndustryBenchmarks maps category name to ratio name to benchmark value
// for one industry.
type IndustryBenchmarks map[string]map[string]float64

// BenchmarkTable maps industry name to its benchmarks. It is loaded once
// and treated as read-only.
type BenchmarkTable map[string]IndustryBenchmarks

// Industry returns the benchmarks for an industry. An exact match wins;
// otherwise names are compared case-insensitively and the first match in
// sorted order wins.
func (t BenchmarkTable) Industry(name string) (IndustryBenchmarks, bool) {
	if b, ok := t[name]; ok {
		return b, true
	}
	for _, industry := range t.Industries() {
		if strings.EqualFold(strings.TrimSpace(industry), strings.TrimSpace(name)) {
			return t[industry], true
		}
	}
	return nil, false
}

// Industries returns the industry names in the table, sorted.
func (t BenchmarkTable) Industries() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the benchmark for a ratio.
func (b IndustryBenchmarks) Lookup(c Category, n Name) (float64, bool) {
	ratios, ok := b[c.String()]
	if !ok {
		return 0, false
	}
	v, ok := ratios[string(n)]
	return v, ok
}
