// Package calculator runs configured mortgage scenarios through the
// repayment formulas.
package calculator

import (
	"fmt"

	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/pkg/mathutil"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"go.uber.org/zap"
)

// Result holds the calculation for one named scenario, along with the
// borrower-facing values it was converted from.
type Result struct {
	Name         string
	TermYears    int
	InterestRate float64 // annual percentage
	Calculation  mortgage.Calculation
}

// Calculate converts the borrower-facing values and runs the formula for the
// given repayment type.
func Calculate(name string, amount float64, termYears int, annualRate float64, repaymentType mortgage.RepaymentType) (Result, error) {
	calc, err := mortgage.Calculate(repaymentType, mortgage.NewInput(amount, termYears, annualRate))
	if err != nil {
		return Result{}, err
	}
	return Result{
		Name:         name,
		TermYears:    termYears,
		InterestRate: annualRate,
		Calculation:  calc,
	}, nil
}

// GetResults calculates every active Scenario in the configuration, in order.
func GetResults(logger *zap.Logger, conf config.Configuration) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Result
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "calculator.GetResults"),
			)
			continue
		}

		if scenario.Name == "" {
			return results, fmt.Errorf("scenario name cannot be empty")
		}

		repaymentType, err := mortgage.ParseRepaymentType(scenario.Type)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		result, err := Calculate(scenario.Name, scenario.Amount, scenario.Term, scenario.InterestRate, repaymentType)
		if err != nil {
			return results, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}

		if mathutil.IsZero(result.Calculation.Result.MonthlyRepayment) {
			logger.Warn(fmt.Sprintf("scenario %s has a monthly repayment of less than a penny", scenario.Name),
				zap.String("op", "calculator.GetResults"),
				zap.String("type", string(repaymentType)),
				zap.Float64("interest_rate", scenario.InterestRate),
			)
		}

		logger.Debug("scenario calculated",
			zap.String("op", "calculator.GetResults"),
			zap.String("scenario", scenario.Name),
			zap.String("type", string(repaymentType)),
			zap.Float64("monthly_repayment", result.Calculation.Result.MonthlyRepayment),
			zap.Float64("total_repayment", result.Calculation.Result.TotalRepayment),
		)
		results = append(results, result)
	}

	return results, nil
}
