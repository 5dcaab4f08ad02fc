// Package form turns the raw fields of the mortgage form into a typed
// calculation request, collecting a message per invalid field.
package form

import (
	"fmt"
	"sort"
)

// Field names, as submitted by the web form.
const (
	FieldMortgageAmount = "mortgageAmount"
	FieldMortgageTerm   = "mortgageTerm"
	FieldInterestRate   = "interestRate"
	FieldMortgageType   = "mortgageType"
)

// Form holds the untyped values of the mortgage form.
type Form struct {
	MortgageAmount string `json:"mortgageAmount"`
	MortgageTerm   string `json:"mortgageTerm"`
	InterestRate   string `json:"interestRate"`
	MortgageType   string `json:"mortgageType"`
}

// Fields returns the known field names in display order.
func Fields() []string {
	return []string{FieldMortgageAmount, FieldMortgageTerm, FieldInterestRate, FieldMortgageType}
}

// Defaults returns the value each field takes after a reset. Every field
// starts empty so the borrower has to choose a value.
func Defaults() map[string]string {
	defaults := make(map[string]string, len(Fields()))
	for _, field := range Fields() {
		defaults[field] = ""
	}
	return defaults
}

func (f *Form) field(name string) (*string, error) {
	switch name {
	case FieldMortgageAmount:
		return &f.MortgageAmount, nil
	case FieldMortgageTerm:
		return &f.MortgageTerm, nil
	case FieldInterestRate:
		return &f.InterestRate, nil
	case FieldMortgageType:
		return &f.MortgageType, nil
	default:
		return nil, fmt.Errorf("unknown form field %q", name)
	}
}

// Get returns the value of the named field.
func (f *Form) Get(name string) (string, error) {
	ptr, err := f.field(name)
	if err != nil {
		return "", err
	}
	return *ptr, nil
}

// Set updates the named field.
func (f *Form) Set(name, value string) error {
	ptr, err := f.field(name)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// Values returns the form as a field name to value map.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(Fields()))
	for _, name := range Fields() {
		values[name], _ = f.Get(name)
	}
	return values
}

// Reset sets every field to its override, or to its default when no
// override is given. Overrides for unknown fields are rejected before any
// field changes.
func (f *Form) Reset(overrides map[string]string) error {
	defaults := Defaults()

	var unknown []string
	for name := range overrides {
		if _, ok := defaults[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown form fields %v", unknown)
	}

	for _, name := range Fields() {
		value := defaults[name]
		if override, ok := overrides[name]; ok {
			value = override
		}
		if err := f.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// FromValues builds a Form from a field name to value map, ignoring
// unknown keys.
func FromValues(values map[string]string) Form {
	var f Form
	for _, name := range Fields() {
		if value, ok := values[name]; ok {
			_ = f.Set(name, value)
		}
	}
	return f
}
