// Package format renders monetary amounts for display.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	d := toCents(amount)
	if d.IsNegative() {
		return "-$" + formatPositiveCurrency(d.Abs())
	}
	return "$" + formatPositiveCurrency(d)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := toCents(amount)
	if d.IsNegative() {
		return "-" + formatPositiveCurrency(d.Abs())
	}
	return formatPositiveCurrency(d)
}

// Plain returns the amount rounded to cents with no separators (e.g., "-1234.56"),
// suitable for CSV cells.
func Plain(amount float64) string {
	return toCents(amount).StringFixed(2)
}

// toCents rounds half away from zero on the shortest decimal representation,
// so 1.005 becomes 1.01 rather than the 1.00 binary rounding would give.
func toCents(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
