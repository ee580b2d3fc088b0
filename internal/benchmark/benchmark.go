// Package benchmark loads industry benchmark tables from JSON, YAML or
// HJSON files.
package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hjson/hjson-go/v4"
	"github.com/iwvelando/finance-ratios/internal/ratio"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for files whose extension is not a
// known benchmark format.
var ErrUnsupportedFormat = errors.New("unsupported benchmark format")

// wrapperKey is the top-level key used by benchmark files that nest the
// industry map.
const wrapperKey = "industry_benchmarks"

// Format names a benchmark file encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatHJSON Format = "hjson"
)

// FormatForPath picks the decoder from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hjson":
		return FormatHJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads a benchmark table from disk.
func Load(path string) (ratio.BenchmarkTable, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open benchmarks: %w", err)
	}
	defer file.Close()

	table, err := Read(file, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmarks from %s: %w", path, err)
	}
	return table, nil
}

// Read decodes a benchmark table. Both a bare industry map and one nested
// under "industry_benchmarks" are accepted.
func Read(r io.Reader, format Format) (ratio.BenchmarkTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks: %w", err)
	}

	var raw map[string]interface{}
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatHJSON:
		err = hjson.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s benchmarks: %w", format, err)
	}

	if nested, ok := raw[wrapperKey]; ok {
		inner, ok := nested.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s must be an object", wrapperKey)
		}
		raw = inner
	}
	return toTable(raw)
}

func toTable(raw map[string]interface{}) (ratio.BenchmarkTable, error) {
	table := make(ratio.BenchmarkTable, len(raw))
	for industry, categories := range raw {
		categoryMap, ok := categories.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("industry %q must map categories to ratios", industry)
		}
		benchmarks := make(ratio.IndustryBenchmarks, len(categoryMap))
		for category, ratios := range categoryMap {
			ratioMap, ok := ratios.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("industry %q category %q must map ratio names to numbers", industry, category)
			}
			values := make(map[string]float64, len(ratioMap))
			for name, v := range ratioMap {
				f, err := toFloat(v)
				if err != nil {
					return nil, fmt.Errorf("industry %q %s.%s: %w", industry, category, name, err)
				}
				values[name] = f
			}
			benchmarks[category] = values
		}
		table[industry] = benchmarks
	}
	return table, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("benchmark value %v is not a number", v)
}

// Check returns human-readable warnings for categories or ratio names the
// engine does not know and for zero benchmarks, which are never compared.
func Check(table ratio.BenchmarkTable) []string {
	var warnings []string
	for _, industry := range table.Industries() {
		benchmarks := table[industry]
		for _, category := range sortedKeys(benchmarks) {
			c, ok := ratio.ParseCategory(category)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: unknown category %q", industry, category))
				continue
			}
			ratios := benchmarks[category]
			for _, name := range sortedKeys(ratios) {
				owner, known := ratio.CategoryOf(ratio.Name(name))
				switch {
				case !known:
					warnings = append(warnings, fmt.Sprintf("%s: unknown ratio %s.%s", industry, category, name))
				case owner != c:
					warnings = append(warnings, fmt.Sprintf("%s: ratio %s belongs to %s, not %s", industry, name, owner, category))
				case ratios[name] == 0:
					warnings = append(warnings, fmt.Sprintf("%s: zero benchmark for %s.%s will be skipped", industry, category, name))
				}
			}
		}
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
