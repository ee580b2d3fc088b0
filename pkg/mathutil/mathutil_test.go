package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		places   int
		expected float64
	}{
		{"Round up at midpoint", 1.2355, 3, 1.236},
		{"Round down below midpoint", 1.2344, 3, 1.234},
		{"Two places", 12345.678, 2, 12345.68},
		{"Zero places", 16.6667, 0, 17},
		{"Negative places treated as zero", 2.4, -1, 2},
		{"Negative number", -1.2355, 3, -1.236},
		{"Zero", 0.0, 3, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input, tt.places)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Round(%v, %d) = %v, expected %v", tt.input, tt.places, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Below tolerance", 1e-12, true},
		{"Negative below tolerance", -1e-12, true},
		{"Above tolerance", 1e-6, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		val1      float64
		val2      float64
		tolerance float64
		expected  bool
	}{
		{"Equal values", 1.5, 1.5, 0.0, true},
		{"Within tolerance", 100.0, 100.5, 1.0, true},
		{"At tolerance", 100.0, 101.0, 1.0, true},
		{"Outside tolerance", 100.0, 101.5, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WithinTolerance(tt.val1, tt.val2, tt.tolerance)
			if result != tt.expected {
				t.Errorf("WithinTolerance(%v, %v, %v) = %v, expected %v", tt.val1, tt.val2, tt.tolerance, result, tt.expected)
			}
		})
	}
}

func TestCalculatePercentage(t *testing.T) {
	if got := CalculatePercentage(4, 5); got != 80 {
		t.Errorf("CalculatePercentage(4, 5) = %v, expected 80", got)
	}
	if got := CalculatePercentage(4, 0); got != 0 {
		t.Errorf("CalculatePercentage(4, 0) = %v, expected 0", got)
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{7, 1, 3, 5}

	tests := []struct {
		name     string
		q        float64
		expected float64
	}{
		{"Minimum", 0, 1},
		{"First quartile", 0.25, 2.5},
		{"Median", 0.5, 4},
		{"Third quartile", 0.75, 5.5},
		{"Maximum", 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Quantile(values, tt.q)
			if !ok {
				t.Fatalf("Quantile(%v) reported no result", tt.q)
			}
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Quantile(%v) = %v, expected %v", tt.q, result, tt.expected)
			}
		})
	}

	if values[0] != 7 {
		t.Errorf("Quantile() modified its input: %v", values)
	}
}

func TestQuantileEdgeCases(t *testing.T) {
	if _, ok := Quantile(nil, 0.5); ok {
		t.Error("Quantile() on empty input should report no result")
	}
	if _, ok := Quantile([]float64{1}, 1.5); ok {
		t.Error("Quantile() with q > 1 should report no result")
	}
	if got, ok := Median([]float64{42}); !ok || got != 42 {
		t.Errorf("Median([42]) = %v, %v, expected 42, true", got, ok)
	}
}
