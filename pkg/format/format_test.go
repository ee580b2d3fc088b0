package format

import "testing"

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"zero", 0, "$0.00"},
		{"small", 12.5, "$12.50"},
		{"thousands", 1234.56, "$1,234.56"},
		{"millions", 4000000, "$4,000,000.00"},
		{"negative", -1234.56, "-$1,234.56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.amount); got != tt.expected {
				t.Errorf("Currency(%v) = %s, expected %s", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		places   int
		expected string
	}{
		{"three decimals", 1.5, 3, "1.500"},
		{"grouped", 12345.6789, 3, "12,345.679"},
		{"no decimals", 2500, 0, "2,500"},
		{"negative places", 7.4, -1, "7"},
		{"negative value", -0.25, 2, "-0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Number(tt.x, tt.places); got != tt.expected {
				t.Errorf("Number(%v, %d) = %s, expected %s", tt.x, tt.places, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(0.125, 1); got != "12.5%" {
		t.Errorf("Percent(0.125, 1) = %s, expected 12.5%%", got)
	}
	if got := SignedPercent(12.5, 1); got != "+12.5%" {
		t.Errorf("SignedPercent(12.5, 1) = %s, expected +12.5%%", got)
	}
	if got := SignedPercent(-40, 1); got != "-40.0%" {
		t.Errorf("SignedPercent(-40, 1) = %s, expected -40.0%%", got)
	}
	if got := SignedPercent(0, 1); got != "0.0%" {
		t.Errorf("SignedPercent(0, 1) = %s, expected 0.0%%", got)
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(0.075, 3); got != "0.075" {
		t.Errorf("Plain(0.075, 3) = %s, expected 0.075", got)
	}
	if got := Plain(2.5, -1); got != "2.5" {
		t.Errorf("Plain(2.5, -1) = %s, expected 2.5", got)
	}
}
