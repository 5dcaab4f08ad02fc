package mortgage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// ErrUnknownRepaymentType is returned for a repayment type other than
// RepaymentTypeRepayment or RepaymentTypeInterestOnly.
var ErrUnknownRepaymentType = errors.New("unknown repayment type")

// RepaymentType selects which formula a Calculation uses.
type RepaymentType string

const (
	RepaymentTypeRepayment    RepaymentType = constants.RepaymentTypeRepayment
	RepaymentTypeInterestOnly RepaymentType = constants.RepaymentTypeInterestOnly
)

// ParseRepaymentType accepts the form values "repayment" and "interest only",
// ignoring case and surrounding whitespace.
func ParseRepaymentType(value string) (RepaymentType, error) {
	switch t := RepaymentType(strings.ToLower(strings.TrimSpace(value))); t {
	case RepaymentTypeRepayment, RepaymentTypeInterestOnly:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRepaymentType, value)
	}
}

// Label returns the display name of the repayment type.
func (t RepaymentType) Label() string {
	switch t {
	case RepaymentTypeRepayment:
		return "Repayment"
	case RepaymentTypeInterestOnly:
		return "Interest Only"
	default:
		return string(t)
	}
}

// Calculation pairs an input with the formula applied to it and the result.
type Calculation struct {
	Type   RepaymentType  `json:"type"`
	Input  MortgageInput  `json:"input"`
	Result MortgageResult `json:"result"`
}

// TotalInterest returns the interest paid over the term. For interest-only
// loans every payment is interest.
func (c Calculation) TotalInterest() float64 {
	if c.Type == RepaymentTypeInterestOnly {
		return c.Result.TotalRepayment
	}
	return c.Result.TotalRepayment - c.Input.Principal
}

// Calculate runs the formula selected by t.
func Calculate(t RepaymentType, in MortgageInput) (Calculation, error) {
	var (
		result MortgageResult
		err    error
	)
	switch t {
	case RepaymentTypeRepayment:
		result, err = ComputeRepayment(in)
	case RepaymentTypeInterestOnly:
		result, err = ComputeInterestOnlyRepayment(in)
	default:
		return Calculation{}, fmt.Errorf("%w: %q", ErrUnknownRepaymentType, string(t))
	}
	if err != nil {
		return Calculation{}, err
	}
	return Calculation{Type: t, Input: in, Result: result}, nil
}
