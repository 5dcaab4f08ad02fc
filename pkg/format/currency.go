// Package format renders repayment figures as en-GB currency strings.
package format

import (
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.BritishEnglish)

// Currency returns a pound-sterling string with thousands separators and two
// decimals (e.g., "-£1,234.56").
func Currency(amount float64) string {
	rounded := round(amount)
	formatted := printer.Sprintf("%.2f", math.Abs(rounded))
	if rounded < 0 {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// Number returns an amount with thousands separators and at most two
// decimals, without a currency symbol (e.g., "1,234.5").
func Number(amount float64) string {
	return printer.Sprint(number.Decimal(round(amount), number.MaxFractionDigits(constants.DecimalPlaces)))
}

// Fixed returns an amount with exactly two decimals and no separators, for
// machine-readable output (e.g., "1234.50").
func Fixed(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(constants.DecimalPlaces)
}

// round rounds half away from zero on the decimal representation, so 0.125
// becomes 0.13 rather than following the binary value down.
func round(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(constants.DecimalPlaces).Float64()
	if f == 0 {
		return 0 // drop negative zero
	}
	return f
}
