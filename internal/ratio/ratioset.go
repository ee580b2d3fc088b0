package ratio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entry is one named ratio value.
type Entry struct {
	Name  Name
	Value Value
}

// RatioSet holds computed ratios grouped by category. It is built once by
// the engine and read-only afterwards.
type RatioSet struct {
	categories [categoryCount][]Entry
}

func (s *RatioSet) put(c Category, n Name, v Value) {
	s.categories[c] = append(s.categories[c], Entry{Name: n, Value: v})
}

// Get returns the value for a ratio and whether the set contains it.
func (s RatioSet) Get(c Category, n Name) (Value, bool) {
	if !c.valid() {
		return Value{}, false
	}
	for _, e := range s.categories[c] {
		if e.Name == n {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Category returns a copy of the category's entries in computation order.
func (s RatioSet) Category(c Category) []Entry {
	if !c.valid() {
		return nil
	}
	return append([]Entry(nil), s.categories[c]...)
}

// Len returns the number of ratios across all categories.
func (s RatioSet) Len() int {
	n := 0
	for _, entries := range s.categories {
		n += len(entries)
	}
	return n
}

// Equal reports whether two sets hold the same ratios with identical values.
func (s RatioSet) Equal(other RatioSet) bool {
	for c := range s.categories {
		if len(s.categories[c]) != len(other.categories[c]) {
			return false
		}
		for i, e := range s.categories[c] {
			if other.categories[c][i] != e {
				return false
			}
		}
	}
	return true
}

// MarshalJSON writes the set as a nested object keyed by category then
// ratio name, preserving computation order.
func (s RatioSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for ci, c := range Categories() {
		if ci > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:{", c.String())
		for i, e := range s.categories[c] {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, err := e.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&buf, "%q:", string(e.Name))
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the nested object form. Known ratios are restored in
// canonical order; unknown names follow in lexical order.
func (s *RatioSet) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var decoded RatioSet
	for key, values := range raw {
		c, ok := ParseCategory(key)
		if !ok {
			return fmt.Errorf("unknown ratio category %q", key)
		}
		seen := make(map[Name]bool, len(values))
		for _, n := range append(c.Ratios(), c.ExtendedRatios()...) {
			if v, ok := values[string(n)]; ok {
				decoded.put(c, n, v)
				seen[n] = true
			}
		}
		var rest []string
		for name := range values {
			if !seen[Name(name)] {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		for _, name := range rest {
			decoded.put(c, Name(name), values[name])
		}
	}
	*s = decoded
	return nil
}
