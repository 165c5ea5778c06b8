// Package rental turns rental income and operating expenses into net operating
// income, tax owed and after-tax income. Every function is pure: results depend
// only on the inputs and nothing is retained between calls.
package rental

import (
	"errors"
	"fmt"

	"github.com/iwvelando/rental-tax/pkg/constants"
	"github.com/iwvelando/rental-tax/pkg/format"
	"github.com/iwvelando/rental-tax/pkg/tax"
)

// ErrVATElectionRequired is returned by Calculate for a company input without
// a VAT election.
var ErrVATElectionRequired = tax.ErrVATElectionRequired

// ExpenseSet holds the user-entered operating expenses. The management fee is
// not part of it because it is always derived from income.
type ExpenseSet struct {
	Cleaning    float64 `json:"cleaning" yaml:"cleaning"`
	Maintenance float64 `json:"maintenance" yaml:"maintenance"`
	Insurance   float64 `json:"insurance" yaml:"insurance"`
	Utilities   float64 `json:"utilities" yaml:"utilities"`
	Repairs     float64 `json:"repairs" yaml:"repairs"`
}

// RawExpenses is the text form of an ExpenseSet, as collected from a form or
// a scenario file.
type RawExpenses struct {
	Cleaning    string `json:"cleaning" yaml:"cleaning" mapstructure:"cleaning"`
	Maintenance string `json:"maintenance" yaml:"maintenance" mapstructure:"maintenance"`
	Insurance   string `json:"insurance" yaml:"insurance" mapstructure:"insurance"`
	Utilities   string `json:"utilities" yaml:"utilities" mapstructure:"utilities"`
	Repairs     string `json:"repairs" yaml:"repairs" mapstructure:"repairs"`
}

// Parse converts every field with ParseNonNegative.
func (r RawExpenses) Parse() ExpenseSet {
	return ExpenseSet{
		Cleaning:    ParseNonNegative(r.Cleaning),
		Maintenance: ParseNonNegative(r.Maintenance),
		Insurance:   ParseNonNegative(r.Insurance),
		Utilities:   ParseNonNegative(r.Utilities),
		Repairs:     ParseNonNegative(r.Repairs),
	}
}

// Sum adds the itemized expenses. Insurance only counts when included.
func (e ExpenseSet) Sum(includeInsurance bool) float64 {
	sum := e.Cleaning + e.Maintenance + e.Utilities + e.Repairs
	if includeInsurance {
		sum += e.Insurance
	}
	return sum
}

// CalculationInput is everything needed for one calculation.
type CalculationInput struct {
	AnnualRentalIncome float64
	Expenses           ExpenseSet
	EntityType         tax.EntityType
	// VATElection is only consulted when EntityType is tax.Company.
	VATElection       tax.VATElection
	InsuranceIncluded bool
}

// CalculationResult holds the derived figures of one calculation.
type CalculationResult struct {
	ManagementFee      float64 `json:"managementFee"`
	TotalExpenses      float64 `json:"totalExpenses"`
	NetOperatingIncome float64 `json:"netOperatingIncome"`
	TaxOwed            float64 `json:"taxOwed"`
	AfterTaxIncome     float64 `json:"afterTaxIncome"`
	TaxBasis           string  `json:"taxBasis"`
}

// FormattedResult is CalculationResult rendered as currency strings.
type FormattedResult struct {
	ManagementFee      string `json:"managementFee"`
	TotalExpenses      string `json:"totalExpenses"`
	NetOperatingIncome string `json:"netOperatingIncome"`
	TaxOwed            string `json:"taxOwed"`
	AfterTaxIncome     string `json:"afterTaxIncome"`
}

// Formatted renders every figure with format.Currency.
func (r CalculationResult) Formatted() FormattedResult {
	return FormattedResult{
		ManagementFee:      format.Currency(r.ManagementFee),
		TotalExpenses:      format.Currency(r.TotalExpenses),
		NetOperatingIncome: format.Currency(r.NetOperatingIncome),
		TaxOwed:            format.Currency(r.TaxOwed),
		AfterTaxIncome:     format.Currency(r.AfterTaxIncome),
	}
}

// ManagementFee is the fixed share of gross income charged for management.
func ManagementFee(income float64) float64 {
	return income * constants.ManagementFeeRate
}

// TotalExpenses is the management fee plus the itemized expenses.
func TotalExpenses(income float64, expenses ExpenseSet, includeInsurance bool) float64 {
	return ManagementFee(income) + expenses.Sum(includeInsurance)
}

// Calculate derives every result figure from input. Net operating income is
// not clamped, so a loss carries through to tax and after-tax income.
//
// A company input without a VAT election is rejected with
// ErrVATElectionRequired and no figures are returned.
func Calculate(input CalculationInput) (CalculationResult, error) {
	if input.EntityType == tax.Company && input.VATElection == tax.VATUnset {
		return CalculationResult{}, ErrVATElectionRequired
	}

	fee := ManagementFee(input.AnnualRentalIncome)
	total := fee + input.Expenses.Sum(input.InsuranceIncluded)
	net := input.AnnualRentalIncome - total

	owed, err := tax.Compute(input.AnnualRentalIncome, net, input.EntityType, input.VATElection)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("failed to compute tax: %w", err)
	}

	return CalculationResult{
		ManagementFee:      fee,
		TotalExpenses:      total,
		NetOperatingIncome: net,
		TaxOwed:            owed,
		AfterTaxIncome:     net - owed,
		TaxBasis:           tax.Basis(input.EntityType, input.VATElection),
	}, nil
}

// IsPreconditionError reports whether err means the input was incomplete
// rather than malformed.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrVATElectionRequired)
}
