package form

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
)

// Field-level messages shown next to the form inputs.
const (
	MessageRequired        = "This field is required"
	MessageNotANumber      = "Please enter a number"
	MessageNotWholeYears   = "Please enter a whole number of years"
	MessageNotPositive     = "Must be greater than zero"
	MessageNegative        = "Cannot be negative"
	MessageUnknownType     = "Please select a mortgage type"
	MessageInvalid         = "Invalid value"
	messageAboveMaxPattern = "Must be %s or less"
)

// Result is the outcome of validating a Form: either Errors is empty and the
// typed values are set, or Errors maps each invalid field to a message.
type Result struct {
	Type         mortgage.RepaymentType
	Amount       float64
	TermYears    int
	InterestRate float64 // annual percentage
	Input        mortgage.MortgageInput
	Errors       map[string]string
}

// Valid reports whether the form passed validation.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// values holds the coerced form fields. The form tag names the field in
// validation errors.
type values struct {
	MortgageAmount float64 `form:"mortgageAmount" validate:"gt=0,lte=1000000000"`
	MortgageTerm   int     `form:"mortgageTerm" validate:"gt=0,lte=50"`
	InterestRate   float64 `form:"interestRate" validate:"gte=0,lte=100"`
	MortgageType   string  `form:"mortgageType" validate:"repayment_type"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("repayment_type", func(fl validator.FieldLevel) bool {
		_, err := mortgage.ParseRepaymentType(fl.Field().String())
		return err == nil
	})
	return v
}

var numberCleaner = strings.NewReplacer(",", "", "£", "", "%", "", " ", "")

// Validate coerces the form into typed values and checks their constraints.
// On success the Result carries a MortgageInput already converted to a
// monthly rate and a payment count.
func (f Form) Validate() Result {
	result := Result{Errors: make(map[string]string)}
	var v values

	if raw := strings.TrimSpace(f.MortgageAmount); raw == "" {
		result.Errors[FieldMortgageAmount] = MessageRequired
	} else if amount, err := parseNumber(raw); err != nil {
		result.Errors[FieldMortgageAmount] = MessageNotANumber
	} else {
		v.MortgageAmount = amount
	}

	if raw := strings.TrimSpace(f.MortgageTerm); raw == "" {
		result.Errors[FieldMortgageTerm] = MessageRequired
	} else if term, err := strconv.Atoi(numberCleaner.Replace(raw)); err != nil {
		result.Errors[FieldMortgageTerm] = MessageNotWholeYears
	} else {
		v.MortgageTerm = term
	}

	if raw := strings.TrimSpace(f.InterestRate); raw == "" {
		result.Errors[FieldInterestRate] = MessageRequired
	} else if rate, err := parseNumber(raw); err != nil {
		result.Errors[FieldInterestRate] = MessageNotANumber
	} else {
		v.InterestRate = rate
	}

	if raw := strings.TrimSpace(f.MortgageType); raw == "" {
		result.Errors[FieldMortgageType] = MessageRequired
	} else {
		v.MortgageType = raw
	}

	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			result.Errors[FieldMortgageAmount] = err.Error()
			return result
		}
		for _, fe := range fieldErrs {
			// Keep the coercion message for fields that never got a value.
			if _, exists := result.Errors[fe.Field()]; exists {
				continue
			}
			result.Errors[fe.Field()] = message(fe)
		}
	}

	if !result.Valid() {
		return result
	}

	result.Type, _ = mortgage.ParseRepaymentType(v.MortgageType)
	result.Amount = v.MortgageAmount
	result.TermYears = v.MortgageTerm
	result.InterestRate = v.InterestRate
	result.Input = mortgage.NewInput(v.MortgageAmount, v.MortgageTerm, v.InterestRate)
	return result
}

func parseNumber(raw string) (float64, error) {
	n, err := strconv.ParseFloat(numberCleaner.Replace(raw), 64)
	if err != nil {
		return 0, err
	}
	if !mathutil.IsFinite(n) {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func message(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "gt":
		return MessageNotPositive
	case "gte":
		return MessageNegative
	case "lte":
		limit, err := strconv.ParseFloat(fe.Param(), 64)
		if err != nil {
			return MessageInvalid
		}
		return fmt.Sprintf(messageAboveMaxPattern, format.Number(limit))
	case "repayment_type":
		return MessageUnknownType
	default:
		return MessageInvalid
	}
}
