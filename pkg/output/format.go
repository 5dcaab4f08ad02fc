// Package output provides utilities for formatting and displaying calculation results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/format"
)

// Summary is the display form of a calculator.Result, holding both the raw
// figures and their formatted currency strings.
type Summary struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	TypeLabel        string  `json:"typeLabel"`
	Amount           float64 `json:"amount"`
	TermYears        int     `json:"termYears"`
	InterestRate     float64 `json:"interestRate"`
	MonthlyRate      float64 `json:"monthlyRate"`
	NumPayments      int     `json:"numPayments"`
	MonthlyRepayment float64 `json:"monthlyRepayment"`
	TotalRepayment   float64 `json:"totalRepayment"`
	TotalInterest    float64 `json:"totalInterest"`
	Formatted        struct {
		Amount           string `json:"amount"`
		MonthlyRepayment string `json:"monthlyRepayment"`
		TotalRepayment   string `json:"totalRepayment"`
		TotalInterest    string `json:"totalInterest"`
	} `json:"formatted"`
}

// Summarize converts a result into its display form.
func Summarize(result calculator.Result) Summary {
	calc := result.Calculation
	s := Summary{
		Name:             result.Name,
		Type:             string(calc.Type),
		TypeLabel:        calc.Type.Label(),
		Amount:           calc.Input.Principal,
		TermYears:        result.TermYears,
		InterestRate:     result.InterestRate,
		MonthlyRate:      calc.Input.MonthlyRate,
		NumPayments:      calc.Input.NumPayments,
		MonthlyRepayment: calc.Result.MonthlyRepayment,
		TotalRepayment:   calc.Result.TotalRepayment,
		TotalInterest:    calc.TotalInterest(),
	}
	s.Formatted.Amount = format.Currency(s.Amount)
	s.Formatted.MonthlyRepayment = format.Currency(s.MonthlyRepayment)
	s.Formatted.TotalRepayment = format.Currency(s.TotalRepayment)
	s.Formatted.TotalInterest = format.Currency(s.TotalInterest)
	return s
}

// SummarizeAll converts all results into their display form.
func SummarizeAll(results []calculator.Result) []Summary {
	summaries := make([]Summary, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, Summarize(result))
	}
	return summaries
}

// Write renders results to w in the named output format.
func Write(w io.Writer, outputFormat string, results []calculator.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []calculator.Result) error {
	for i, result := range results {
		s := Summarize(result)
		rows := [][2]string{
			{"Mortgage Type", s.TypeLabel},
			{"Mortgage Amount", s.Formatted.Amount},
			{"Mortgage Term", fmt.Sprintf("%d years (%d payments)", s.TermYears, s.NumPayments)},
			{"Interest Rate", format.Number(s.InterestRate) + "%"},
			{"Monthly Repayments", s.Formatted.MonthlyRepayment},
			{"Total Repayment", s.Formatted.TotalRepayment},
			{"Total Interest", s.Formatted.TotalInterest},
		}

		if _, err := fmt.Fprintf(w, "--- Results for scenario %s ---\n", s.Name); err != nil {
			return err
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%-18s | %s\n", row[0], row[1]); err != nil {
				return err
			}
		}
		if i < len(results)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

var csvHeader = []string{
	"scenario",
	"type",
	"amount",
	"term (years)",
	"interest rate (%)",
	"payments",
	"monthly repayment",
	"total repayment",
	"total interest",
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, results []calculator.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		s := Summarize(result)
		record := []string{
			s.Name,
			s.Type,
			format.Fixed(s.Amount),
			fmt.Sprintf("%d", s.TermYears),
			fmt.Sprintf("%g", s.InterestRate),
			fmt.Sprintf("%d", s.NumPayments),
			format.Fixed(s.MonthlyRepayment),
			format.Fixed(s.TotalRepayment),
			format.Fixed(s.TotalInterest),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString returns the CSV rendering of results.
func CsvString(results []calculator.Result) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, results); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs an indented JSON array of summaries.
func JSONFormat(w io.Writer, results []calculator.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(SummarizeAll(results))
}
