package rental

import (
	"regexp"
	"strings"

	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// leadingNumber matches the longest decimal number at the start of a string.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount reads loosely formatted numeric text as typed into a form field.
// Comma thousands separators and surrounding whitespace are ignored and any
// trailing non-numeric text is dropped. Empty or non-numeric text reads as 0,
// as does a number too large to hold in a float64.
func ParseAmount(text string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return 0
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return 0
	}
	v := d.InexactFloat64()
	if !mathutil.IsFinite(v) {
		return 0
	}
	return v
}

// ParseNonNegative is ParseAmount clamped at zero. Income and expense amounts
// are never negative.
func ParseNonNegative(text string) float64 {
	v := ParseAmount(text)
	if v < 0 {
		return 0
	}
	return v
}
