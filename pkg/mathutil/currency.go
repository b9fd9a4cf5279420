// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/rent-vs-buy/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// RelativeError returns |got-want|/|want|, or the absolute difference when want is 0.
func RelativeError(got, want float64) float64 {
	diff := math.Abs(got - want)
	if want == 0 {
		return diff
	}
	return diff / math.Abs(want)
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// PercentToRate converts a percentage such as 5 into a rate such as 0.05.
func PercentToRate(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// CompoundGrowth returns value grown annually at percent for the given years.
func CompoundGrowth(value, percent float64, years int) float64 {
	return value * math.Pow(1+PercentToRate(percent), float64(years))
}

// MinInt returns the minimum of two int values
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
