// Package format renders monetary amounts for display.
package format

import (
	"math"
	"strconv"

	"github.com/iwvelando/rental-tax/pkg/constants"
	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency returns a US dollar string with thousands separators and two
// decimals (e.g., "$1,234.56", "-$1,234.56"). NaN and infinities are
// rendered without a currency symbol as "NaN", "+Inf" or "-Inf".
func Currency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return nonFinite(amount)
	}
	formatted := NumericCurrency(math.Abs(amount))
	if Fixed(amount) < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with
// separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return nonFinite(amount)
	}
	return printer.Sprintf("%.2f", Fixed(amount))
}

// Plain returns the amount rounded to two decimals without separators, for
// machine-readable output such as CSV.
func Plain(amount float64) string {
	if !mathutil.IsFinite(amount) {
		return nonFinite(amount)
	}
	return decimal.NewFromFloat(amount).StringFixed(constants.DecimalPlaces)
}

// Fixed rounds amount half away from zero to two decimals using its shortest
// decimal representation, so 1.005 becomes 1.01. Non-finite values are
// returned unchanged.
func Fixed(amount float64) float64 {
	if !mathutil.IsFinite(amount) {
		return amount
	}
	return decimal.NewFromFloat(amount).Round(constants.DecimalPlaces).InexactFloat64()
}

// decimal.NewFromFloat panics on NaN and infinities.
func nonFinite(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
