package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal parses a numeric string defensively. It returns the parsed
// value and true, or the zero value and false for empty or malformed
// input. Callers treat a failed parse as "value not provided", never as
// an error.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// FormatUSD renders a monetary value with a literal "$" prefix, thousands
// separators, and exactly 2 decimal places, e.g. 75000 → "$75,000.00".
func FormatUSD(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)

	intPart := s[:len(s)-3]
	fracPart := s[len(s)-3:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')

	// Insert a comma before every group of three digits except the first.
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
		if len(intPart) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(intPart); i += 3 {
		b.WriteString(intPart[i : i+3])
		if i+3 < len(intPart) {
			b.WriteByte(',')
		}
	}

	b.WriteString(fracPart)
	return b.String()
}

// FormatPercent renders a percentage with exactly 1 decimal place and a
// literal "%" suffix, e.g. 21 → "21.0%".
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}
