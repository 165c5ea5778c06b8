package rental

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/rental-tax/pkg/tax"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-6
}

func endToEndInput() CalculationInput {
	return CalculationInput{
		AnnualRentalIncome: 100000,
		Expenses: ExpenseSet{
			Cleaning:    1000,
			Maintenance: 500,
			Insurance:   2000,
			Utilities:   300,
			Repairs:     200,
		},
		EntityType:        tax.Individual,
		InsuranceIncluded: true,
	}
}

func TestCalculateEndToEnd(t *testing.T) {
	result, err := Calculate(endToEndInput())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"ManagementFee", result.ManagementFee, 20000},
		{"TotalExpenses", result.TotalExpenses, 24000},
		{"NetOperatingIncome", result.NetOperatingIncome, 76000},
		{"TaxOwed", result.TaxOwed, 12027.5},
		{"AfterTaxIncome", result.AfterTaxIncome, 63972.5},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.expected) {
			t.Errorf("%s = %v, expected %v", c.name, c.got, c.expected)
		}
	}
	if result.TaxBasis != "Estimated Tax" {
		t.Errorf("TaxBasis = %q", result.TaxBasis)
	}
}

func TestManagementFee(t *testing.T) {
	for _, income := range []float64{0, 1, 999.99, 100000, 1e12} {
		if got := ManagementFee(income); got != income*0.20 {
			t.Errorf("ManagementFee(%v) = %v, expected %v", income, got, income*0.20)
		}
	}
}

func TestCalculateZeroIncome(t *testing.T) {
	result, err := Calculate(CalculationInput{EntityType: tax.Individual})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.TaxOwed != 0 || result.NetOperatingIncome != 0 || result.AfterTaxIncome != 0 {
		t.Errorf("expected all zero figures, got %+v", result)
	}
}

func TestCalculateInsuranceToggle(t *testing.T) {
	base := endToEndInput()
	base.InsuranceIncluded = false

	first, err := Calculate(base)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	base.Expenses.Insurance = 987654
	second, err := Calculate(base)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if first != second {
		t.Errorf("excluded insurance changed the result: %+v vs %+v", first, second)
	}
	if !almostEqual(first.TotalExpenses, 22000) {
		t.Errorf("TotalExpenses = %v, expected 22000 without insurance", first.TotalExpenses)
	}
}

func TestCalculateCompany(t *testing.T) {
	input := endToEndInput()
	input.EntityType = tax.Company

	input.VATElection = tax.VATElected
	vat, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !almostEqual(vat.TaxOwed, 19000) {
		t.Errorf("VAT TaxOwed = %v, expected 19000", vat.TaxOwed)
	}
	if !almostEqual(vat.AfterTaxIncome, 57000) {
		t.Errorf("VAT AfterTaxIncome = %v, expected 57000", vat.AfterTaxIncome)
	}
	if vat.TaxBasis != "VAT (19% on Revenue)" {
		t.Errorf("VAT TaxBasis = %q", vat.TaxBasis)
	}

	// The VAT base is gross revenue, so expenses do not move it.
	input.Expenses.Repairs = 50000
	vatHighExpenses, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if vatHighExpenses.TaxOwed != vat.TaxOwed {
		t.Errorf("VAT tax depends on expenses: %v vs %v", vatHighExpenses.TaxOwed, vat.TaxOwed)
	}

	input.Expenses.Repairs = 200
	input.VATElection = tax.VATDeclined
	profit, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !almostEqual(profit.TaxOwed, profit.NetOperatingIncome*0.16) {
		t.Errorf("profit TaxOwed = %v, expected %v", profit.TaxOwed, profit.NetOperatingIncome*0.16)
	}
}

func TestCalculateCompanyWithoutElection(t *testing.T) {
	input := endToEndInput()
	input.EntityType = tax.Company

	result, err := Calculate(input)
	if !errors.Is(err, ErrVATElectionRequired) {
		t.Fatalf("expected ErrVATElectionRequired, got %v", err)
	}
	if !IsPreconditionError(err) {
		t.Errorf("expected IsPreconditionError to match")
	}
	if result != (CalculationResult{}) {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestCalculateLossProducesNegativeTax(t *testing.T) {
	input := CalculationInput{
		AnnualRentalIncome: 10000,
		Expenses:           ExpenseSet{Repairs: 13000},
		EntityType:         tax.Individual,
	}
	result, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if !almostEqual(result.NetOperatingIncome, -5000) {
		t.Errorf("NetOperatingIncome = %v, expected -5000", result.NetOperatingIncome)
	}
	// Not clamped: a loss yields a negative tax figure at the base rate.
	if !almostEqual(result.TaxOwed, -500) {
		t.Errorf("TaxOwed = %v, expected -500", result.TaxOwed)
	}
	if !almostEqual(result.AfterTaxIncome, -4500) {
		t.Errorf("AfterTaxIncome = %v, expected -4500", result.AfterTaxIncome)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	input := endToEndInput()
	input.AnnualRentalIncome = 123456.78
	first, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Calculate(input)
		if err != nil {
			t.Fatalf("Calculate() error = %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestCalculateUnknownEntity(t *testing.T) {
	input := endToEndInput()
	input.EntityType = tax.EntityType(42)
	if _, err := Calculate(input); !errors.Is(err, tax.ErrUnknownEntityType) {
		t.Fatalf("expected ErrUnknownEntityType, got %v", err)
	}
}

func TestFormatted(t *testing.T) {
	result, err := Calculate(endToEndInput())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	f := result.Formatted()
	if f.ManagementFee != "$20,000.00" {
		t.Errorf("ManagementFee = %q", f.ManagementFee)
	}
	if f.TaxOwed != "$12,027.50" {
		t.Errorf("TaxOwed = %q", f.TaxOwed)
	}
	if f.AfterTaxIncome != "$63,972.50" {
		t.Errorf("AfterTaxIncome = %q", f.AfterTaxIncome)
	}
}

func TestCalculateOverflowingIncome(t *testing.T) {
	input := endToEndInput()
	input.AnnualRentalIncome = ParseNonNegative("1e400")
	result, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	for name, v := range map[string]float64{
		"ManagementFee":      result.ManagementFee,
		"TotalExpenses":      result.TotalExpenses,
		"NetOperatingIncome": result.NetOperatingIncome,
		"TaxOwed":            result.TaxOwed,
		"AfterTaxIncome":     result.AfterTaxIncome,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, expected a finite value", name, v)
		}
	}
	if f := result.Formatted(); f.NetOperatingIncome != "-$4,000.00" {
		t.Errorf("NetOperatingIncome = %q, expected -$4,000.00", f.NetOperatingIncome)
	}
}

func TestFormattedNonFinite(t *testing.T) {
	input := endToEndInput()
	input.Expenses = ExpenseSet{Cleaning: math.MaxFloat64, Maintenance: math.MaxFloat64}
	result, err := Calculate(input)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	f := result.Formatted()
	if f.TotalExpenses != "+Inf" {
		t.Errorf("TotalExpenses = %q, expected +Inf", f.TotalExpenses)
	}
	if f.AfterTaxIncome != "NaN" {
		t.Errorf("AfterTaxIncome = %q, expected NaN", f.AfterTaxIncome)
	}
}

func TestRawExpensesParse(t *testing.T) {
	raw := RawExpenses{
		Cleaning:    "1,000",
		Maintenance: " 500 ",
		Insurance:   "abc",
		Utilities:   "",
		Repairs:     "-200",
	}
	got := raw.Parse()
	expected := ExpenseSet{Cleaning: 1000, Maintenance: 500}
	if got != expected {
		t.Errorf("Parse() = %+v, expected %+v", got, expected)
	}
}
