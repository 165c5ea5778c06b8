package calculator

import (
	"errors"
	"testing"

	"github.com/iwvelando/rental-tax/internal/config"
	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/iwvelando/rental-tax/pkg/rental"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func boolPtr(b bool) *bool {
	return &b
}

func testConfiguration() config.Configuration {
	return config.Configuration{
		Scenarios: []config.Scenario{
			{
				Name:             "individual",
				Active:           true,
				EntityType:       "individual",
				RentalIncome:     "100,000",
				IncludeInsurance: true,
				Expenses: rental.RawExpenses{
					Cleaning:    "1,000",
					Maintenance: "500",
					Insurance:   "2,000",
					Utilities:   "300",
					Repairs:     "200",
				},
			},
			{
				Name:   "inactive",
				Active: false,
			},
			{
				Name:         "vat company",
				Active:       true,
				EntityType:   "company",
				RentalIncome: "100000",
				VATElection:  boolPtr(true),
			},
		},
	}
}

func TestRun(t *testing.T) {
	reports, err := Run(zap.NewNop(), testConfiguration())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Name != "individual" || reports[1].Name != "vat company" {
		t.Errorf("unexpected report order: %s, %s", reports[0].Name, reports[1].Name)
	}
	if !mathutil.WithinTolerance(reports[0].Result.AfterTaxIncome, 63972.5, 1e-6) {
		t.Errorf("individual AfterTaxIncome = %v", reports[0].Result.AfterTaxIncome)
	}
	if !mathutil.WithinTolerance(reports[1].Result.TaxOwed, 19000, 1e-6) {
		t.Errorf("company TaxOwed = %v", reports[1].Result.TaxOwed)
	}
}

func TestRunNilLogger(t *testing.T) {
	if _, err := Run(nil, testConfiguration()); err != nil {
		t.Fatalf("Run() with nil logger error = %v", err)
	}
}

func TestRunStopsOnMissingElection(t *testing.T) {
	conf := testConfiguration()
	conf.Scenarios = append(conf.Scenarios, config.Scenario{
		Name:         "undecided",
		Active:       true,
		EntityType:   "company",
		RentalIncome: "1000",
	})

	reports, err := Run(zap.NewNop(), conf)
	if !errors.Is(err, rental.ErrVATElectionRequired) {
		t.Fatalf("expected ErrVATElectionRequired, got %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected reports calculated before the failure, got %d", len(reports))
	}
}

func TestRunLogsSkippedScenarios(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	if _, err := Run(zap.New(core), testConfiguration()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if logs.FilterMessage("skipping scenario inactive because it is inactive").Len() != 1 {
		t.Errorf("expected a skip log entry, got %v", logs.All())
	}
	if logs.FilterMessage("scenario calculated").Len() != 2 {
		t.Errorf("expected two calculation log entries")
	}
}
