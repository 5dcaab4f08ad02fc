package mortgage

import (
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// MonthlyRate converts an annual percentage rate (5.25 meaning 5.25%) into the
// fractional rate applied once per monthly payment.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// PaymentCount converts a term in years into the number of monthly payments.
func PaymentCount(years int) int {
	return years * constants.MonthsPerYear
}

// NewInput builds a MortgageInput from the units a borrower uses: an amount,
// a term in years and an annual percentage rate.
func NewInput(amount float64, years int, annualPercent float64) MortgageInput {
	return MortgageInput{
		Principal:   amount,
		MonthlyRate: MonthlyRate(annualPercent),
		NumPayments: PaymentCount(years),
	}
}
