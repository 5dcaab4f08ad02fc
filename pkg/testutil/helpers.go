// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
)

// FindResult finds a scenario result by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindResult(results []calculator.Result, name string) *calculator.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// RelativeDiff returns |got-want| scaled by |want|, or the absolute
// difference when want is zero.
func RelativeDiff(got, want float64) float64 {
	diff := math.Abs(got - want)
	if want == 0 {
		return diff
	}
	return diff / math.Abs(want)
}
