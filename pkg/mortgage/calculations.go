// Package mortgage converts loan parameters into repayment figures.
package mortgage

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
)

// ErrInvalidInput is wrapped by every error returned for a MortgageInput
// outside the domain of the formulas.
var ErrInvalidInput = errors.New("invalid mortgage input")

// MortgageInput holds the parameters of a single calculation. MonthlyRate is
// a fraction per payment period, not an annual percentage; see MonthlyRate.
type MortgageInput struct {
	Principal   float64 `json:"principal" yaml:"principal"`
	MonthlyRate float64 `json:"monthlyRate" yaml:"monthlyRate"`
	NumPayments int     `json:"numPayments" yaml:"numPayments"`
}

// MortgageResult holds the repayment figures for a MortgageInput.
type MortgageResult struct {
	MonthlyRepayment float64 `json:"monthlyRepayment" yaml:"monthlyRepayment"`
	TotalRepayment   float64 `json:"totalRepayment" yaml:"totalRepayment"`
}

// Validate reports whether the input is inside the domain of both formulas.
func (in MortgageInput) Validate() error {
	if !mathutil.IsFinite(in.Principal) || in.Principal <= 0 {
		return fmt.Errorf("%w: principal must be greater than zero, got %v", ErrInvalidInput, in.Principal)
	}
	if in.NumPayments <= 0 {
		return fmt.Errorf("%w: number of payments must be greater than zero, got %d", ErrInvalidInput, in.NumPayments)
	}
	if !mathutil.IsFinite(in.MonthlyRate) {
		return fmt.Errorf("%w: monthly rate must be finite, got %v", ErrInvalidInput, in.MonthlyRate)
	}
	if in.MonthlyRate < 0 {
		return fmt.Errorf("%w: monthly rate cannot be negative, got %v", ErrInvalidInput, in.MonthlyRate)
	}
	return nil
}

// minNormalRate is the smallest normal float64. Interest at rates below it
// cannot register against any principal.
const minNormalRate = 0x1p-1022

// ComputeRepayment calculates the monthly and total repayment for a standard
// amortizing loan:
//
//	q = (1 + i)^n
//	M = p * i * q / (q - 1)
//
// q - 1 is evaluated as expm1(n * log1p(i)) so small rates keep their
// precision. A zero rate is repaid straight-line, M = p / n.
func ComputeRepayment(in MortgageInput) (MortgageResult, error) {
	if err := in.Validate(); err != nil {
		return MortgageResult{}, err
	}

	n := float64(in.NumPayments)

	var monthly float64
	if in.MonthlyRate < minNormalRate {
		monthly = in.Principal / n
	} else {
		qm1 := math.Expm1(n * math.Log1p(in.MonthlyRate))
		if qm1 == 0 {
			monthly = in.Principal / n
		} else {
			monthly = in.Principal * (in.MonthlyRate / qm1) * (qm1 + 1)
		}
	}

	return newResult(monthly, in.NumPayments)
}

// ComputeInterestOnlyRepayment calculates the monthly and total repayment when
// only the interest is paid each period. The principal, due at the end of the
// term, is not part of the totals.
func ComputeInterestOnlyRepayment(in MortgageInput) (MortgageResult, error) {
	if err := in.Validate(); err != nil {
		return MortgageResult{}, err
	}
	return newResult(in.Principal*in.MonthlyRate, in.NumPayments)
}

func newResult(monthly float64, numPayments int) (MortgageResult, error) {
	result := MortgageResult{
		MonthlyRepayment: monthly,
		TotalRepayment:   monthly * float64(numPayments),
	}
	if !mathutil.IsFinite(result.MonthlyRepayment) || !mathutil.IsFinite(result.TotalRepayment) {
		return MortgageResult{}, fmt.Errorf("%w: repayment is not a finite number", ErrInvalidInput)
	}
	return result, nil
}
