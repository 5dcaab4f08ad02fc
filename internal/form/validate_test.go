package form

import (
	"math"
	"testing"

	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSuccess(t *testing.T) {
	f := Form{
		MortgageAmount: "200,000",
		MortgageTerm:   "25",
		InterestRate:   "5.25",
		MortgageType:   "repayment",
	}

	result := f.Validate()
	require.True(t, result.Valid(), "unexpected errors %v", result.Errors)

	assert.Equal(t, mortgage.RepaymentTypeRepayment, result.Type)
	assert.Equal(t, 200000.0, result.Amount)
	assert.Equal(t, 25, result.TermYears)
	assert.Equal(t, 5.25, result.InterestRate)
	assert.Equal(t, 200000.0, result.Input.Principal)
	assert.Equal(t, 300, result.Input.NumPayments)
	assert.InDelta(t, 0.004375, result.Input.MonthlyRate, 1e-12)
}

func TestValidateAcceptsDecorations(t *testing.T) {
	f := Form{
		MortgageAmount: " £150,000.50 ",
		MortgageTerm:   " 30 ",
		InterestRate:   "4.5%",
		MortgageType:   "Interest Only",
	}

	result := f.Validate()
	require.True(t, result.Valid(), "unexpected errors %v", result.Errors)
	assert.Equal(t, mortgage.RepaymentTypeInterestOnly, result.Type)
	assert.Equal(t, 150000.50, result.Amount)
	assert.Equal(t, 360, result.Input.NumPayments)
}

func TestValidateZeroRate(t *testing.T) {
	f := Form{MortgageAmount: "100000", MortgageTerm: "10", InterestRate: "0", MortgageType: "repayment"}

	result := f.Validate()
	require.True(t, result.Valid(), "unexpected errors %v", result.Errors)
	assert.Zero(t, result.Input.MonthlyRate)
}

func TestValidateEmptyForm(t *testing.T) {
	var f Form

	result := f.Validate()
	assert.False(t, result.Valid())
	assert.Equal(t, map[string]string{
		FieldMortgageAmount: MessageRequired,
		FieldMortgageTerm:   MessageRequired,
		FieldInterestRate:   MessageRequired,
		FieldMortgageType:   MessageRequired,
	}, result.Errors)
	assert.Equal(t, mortgage.MortgageInput{}, result.Input)
}

func TestValidateFieldErrors(t *testing.T) {
	valid := Form{MortgageAmount: "200000", MortgageTerm: "25", InterestRate: "5.25", MortgageType: "repayment"}

	tests := []struct {
		name     string
		field    string
		value    string
		expected string
	}{
		{"Amount not a number", FieldMortgageAmount, "lots", MessageNotANumber},
		{"Amount zero", FieldMortgageAmount, "0", MessageNotPositive},
		{"Amount negative", FieldMortgageAmount, "-5000", MessageNotPositive},
		{"Amount infinite", FieldMortgageAmount, "Inf", MessageNotANumber},
		{"Amount NaN", FieldMortgageAmount, "NaN", MessageNotANumber},
		{"Amount too large", FieldMortgageAmount, "2000000000", "Must be 1,000,000,000 or less"},
		{"Term fractional", FieldMortgageTerm, "25.5", MessageNotWholeYears},
		{"Term zero", FieldMortgageTerm, "0", MessageNotPositive},
		{"Term too long", FieldMortgageTerm, "51", "Must be 50 or less"},
		{"Rate not a number", FieldInterestRate, "five", MessageNotANumber},
		{"Rate negative", FieldInterestRate, "-1", MessageNegative},
		{"Rate too high", FieldInterestRate, "150", "Must be 100 or less"},
		{"Unknown type", FieldMortgageType, "offset", MessageUnknownType},
		{"Blank type", FieldMortgageType, "   ", MessageRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			require.NoError(t, f.Set(tt.field, tt.value))

			result := f.Validate()
			assert.False(t, result.Valid())
			assert.Equal(t, map[string]string{tt.field: tt.expected}, result.Errors)
		})
	}
}

func TestValidateNeverProducesNonFiniteInput(t *testing.T) {
	inputs := []string{"NaN", "Inf", "-Inf", "1e400"}
	for _, raw := range inputs {
		f := Form{MortgageAmount: "1000", MortgageTerm: "1", InterestRate: raw, MortgageType: "repayment"}
		result := f.Validate()
		assert.False(t, result.Valid(), "rate %q should be rejected", raw)
		assert.False(t, math.IsNaN(result.Input.MonthlyRate))
	}
}
