package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	defaults := Defaults()

	assert.Len(t, defaults, len(Fields()))
	for _, name := range Fields() {
		value, ok := defaults[name]
		assert.True(t, ok, "missing default for %s", name)
		assert.Empty(t, value)
	}
}

func TestGetSet(t *testing.T) {
	var f Form

	require.NoError(t, f.Set(FieldMortgageAmount, "200000"))
	require.NoError(t, f.Set(FieldMortgageType, "repayment"))

	value, err := f.Get(FieldMortgageAmount)
	require.NoError(t, err)
	assert.Equal(t, "200000", value)
	assert.Equal(t, "repayment", f.MortgageType)

	assert.Error(t, f.Set("depositAmount", "1"))
	_, err = f.Get("depositAmount")
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	f := Form{
		MortgageAmount: "200000",
		MortgageTerm:   "25",
		InterestRate:   "5.25",
		MortgageType:   "repayment",
	}

	require.NoError(t, f.Reset(nil))
	assert.Equal(t, Form{}, f)
	assert.Equal(t, Defaults(), f.Values())
}

func TestResetWithOverrides(t *testing.T) {
	f := Form{
		MortgageAmount: "200000",
		MortgageTerm:   "25",
		InterestRate:   "5.25",
		MortgageType:   "repayment",
	}

	require.NoError(t, f.Reset(map[string]string{FieldMortgageTerm: "30"}))
	assert.Equal(t, Form{MortgageTerm: "30"}, f)
}

func TestResetRejectsUnknownFields(t *testing.T) {
	f := Form{MortgageAmount: "200000"}

	err := f.Reset(map[string]string{"deposit": "1", FieldMortgageTerm: "30"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deposit")
	assert.Equal(t, Form{MortgageAmount: "200000"}, f, "form must be unchanged on error")
}

func TestFromValues(t *testing.T) {
	f := FromValues(map[string]string{
		FieldMortgageAmount: "1000",
		FieldInterestRate:   "3",
		"ignored":           "x",
	})

	assert.Equal(t, Form{MortgageAmount: "1000", InterestRate: "3"}, f)
}
