// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/rental-tax/pkg/rental"
	"github.com/iwvelando/rental-tax/pkg/tax"
)

// ConfigValidator checks a set of scenarios for suspicious but legal input.
type ConfigValidator struct {
	Scenarios []ScenarioConfig
}

// ScenarioConfig is the subset of a scenario the validator looks at.
type ScenarioConfig struct {
	Name             string
	Active           bool
	EntityType       string
	RentalIncome     string
	IncludeInsurance bool
	InsuranceAmount  string
	HasVATElection   bool
}

// ValidateScenario returns the warnings for a single scenario.
func ValidateScenario(s ScenarioConfig) []string {
	var warnings []string

	entity, err := tax.ParseEntityType(s.EntityType)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' has unknown entity type %q", s.Name, s.EntityType))
	}

	if trimmed := strings.TrimSpace(s.RentalIncome); trimmed != "" && rental.ParseAmount(trimmed) == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' rental income %q does not parse as a number and counts as 0",
			s.Name, s.RentalIncome))
	}

	if !s.IncludeInsurance && rental.ParseNonNegative(s.InsuranceAmount) > 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' lists insurance of %s but does not include it - it will be ignored",
			s.Name, s.InsuranceAmount))
	}

	if err == nil {
		switch {
		case entity == tax.Company && !s.HasVATElection:
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' is a company without a VAT election - it cannot be calculated", s.Name))
		case entity == tax.Individual && s.HasVATElection:
			warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets a VAT election on an individual - it will be ignored", s.Name))
		}
	}

	return warnings
}

// ValidateAll validates every active scenario and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	active := 0
	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		active++
		warnings = append(warnings, ValidateScenario(scenario)...)
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing will be calculated")
	}

	return warnings
}
