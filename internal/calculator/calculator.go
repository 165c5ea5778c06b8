// Package calculator runs the scenarios of a configuration through the rental
// tax calculation.
package calculator

import (
	"fmt"

	"github.com/iwvelando/rental-tax/internal/config"
	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/iwvelando/rental-tax/pkg/rental"
	"go.uber.org/zap"
)

// Report is the outcome of one scenario.
type Report struct {
	Name   string
	Input  rental.CalculationInput
	Result rental.CalculationResult
}

// Run calculates every active scenario in file order. A scenario that cannot
// be calculated, such as a company without a VAT election, stops the run.
func Run(logger *zap.Logger, conf config.Configuration) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var reports []Report
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "calculator.Run"),
			)
			continue
		}

		report, err := Calculate(logger, scenario)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// Calculate converts and calculates a single scenario.
func Calculate(logger *zap.Logger, scenario config.Scenario) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	input, err := scenario.Input()
	if err != nil {
		return Report{}, err
	}

	result, err := rental.Calculate(input)
	if err != nil {
		return Report{}, fmt.Errorf("scenario %q: %w", scenario.Name, err)
	}

	logger.Debug("scenario calculated",
		zap.String("op", "calculator.Calculate"),
		zap.String("scenario", scenario.Name),
		zap.Stringer("entityType", input.EntityType),
		zap.Stringer("vatElection", input.VATElection),
		zap.Float64("netOperatingIncome", mathutil.Round(result.NetOperatingIncome)),
		zap.Float64("taxOwed", mathutil.Round(result.TaxOwed)),
	)

	return Report{Name: scenario.Name, Input: input, Result: result}, nil
}
