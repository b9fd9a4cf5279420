package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
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
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRelativeError(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		want     float64
		expected float64
	}{
		{"Identical", 100, 100, 0},
		{"One percent high", 101, 100, 0.01},
		{"One percent low", 99, 100, 0.01},
		{"Negative want", -99, -100, 0.01},
		{"Zero want falls back to absolute", 0.5, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RelativeError(tt.got, tt.want)
			if math.Abs(result-tt.expected) > 1e-12 {
				t.Errorf("RelativeError(%v, %v) = %v, expected %v", tt.got, tt.want, result, tt.expected)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1.5) {
		t.Error("expected 1.5 to be finite")
	}
	if IsFinite(math.NaN()) {
		t.Error("expected NaN to be non-finite")
	}
	if IsFinite(math.Inf(1)) || IsFinite(math.Inf(-1)) {
		t.Error("expected infinities to be non-finite")
	}
}

func TestCompoundGrowth(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		percent  float64
		years    int
		expected float64
	}{
		{"No years", 1000, 5, 0, 1000},
		{"One year at five percent", 1000, 5, 1, 1050},
		{"Two years at ten percent", 1000, 10, 2, 1210},
		{"Zero growth", 1000, 0, 30, 1000},
		{"Negative growth", 1000, -50, 2, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CompoundGrowth(tt.value, tt.percent, tt.years)
			if !WithinTolerance(result, tt.expected, 1e-9) {
				t.Errorf("CompoundGrowth(%v, %v, %d) = %v, expected %v",
					tt.value, tt.percent, tt.years, result, tt.expected)
			}
		})
	}
}

func TestMinInt(t *testing.T) {
	if MinInt(10, 30) != 10 {
		t.Error("MinInt(10, 30) should be 10")
	}
	if MinInt(40, 30) != 30 {
		t.Error("MinInt(40, 30) should be 30")
	}
	if MinInt(30, 30) != 30 {
		t.Error("MinInt(30, 30) should be 30")
	}
}
