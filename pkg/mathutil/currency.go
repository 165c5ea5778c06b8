// Package mathutil holds the float helpers shared by the calculation, display
// and test code.
package mathutil

import (
	"math"

	"github.com/iwvelando/rental-tax/pkg/constants"
)

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// Round rounds a value to whole cents. Non-finite values are returned as is.
func Round(val float64) float64 {
	if !IsFinite(val) {
		return val
	}
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero reports whether val is within a cent of zero.
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// IsNegative reports a loss of more than a cent.
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
