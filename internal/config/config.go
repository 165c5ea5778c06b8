// Package config defines the scenario file structures and the functions for
// loading them and turning them into calculator inputs.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/rental-tax/pkg/rental"
	"github.com/iwvelando/rental-tax/pkg/tax"
	"github.com/iwvelando/rental-tax/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for rental-tax.
type Configuration struct {
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format  string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
	Details bool   `yaml:"details,omitempty" mapstructure:"details"`
}

// Scenario is one calculation as written in the scenario file. Amounts are
// kept as text and parsed leniently, the same way form input is.
type Scenario struct {
	Name             string             `yaml:"name" mapstructure:"name"`
	Active           bool               `yaml:"active" mapstructure:"active"`
	EntityType       string             `yaml:"entityType" mapstructure:"entityType"`
	RentalIncome     string             `yaml:"rentalIncome" mapstructure:"rentalIncome"`
	IncludeInsurance bool               `yaml:"includeInsurance" mapstructure:"includeInsurance"`
	VATElection      *bool              `yaml:"vatElection" mapstructure:"vatElection"`
	Expenses         rental.RawExpenses `yaml:"expenses" mapstructure:"expenses"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables override file values.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// Input converts the scenario into a calculator input. Only the entity type
// can fail to convert; amounts that do not parse read as 0.
func (s Scenario) Input() (rental.CalculationInput, error) {
	entity, err := tax.ParseEntityType(s.EntityType)
	if err != nil {
		return rental.CalculationInput{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}

	return rental.CalculationInput{
		AnnualRentalIncome: rental.ParseNonNegative(s.RentalIncome),
		Expenses:           s.Expenses.Parse(),
		EntityType:         entity,
		VATElection:        tax.ElectionFromBool(s.VATElection),
		InsuranceIncluded:  s.IncludeInsurance,
	}, nil
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Nothing reported here stops a run on its own.
func (c *Configuration) ValidateConfiguration() []string {
	scenarios := make([]validation.ScenarioConfig, 0, len(c.Scenarios))
	for _, s := range c.Scenarios {
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:             s.Name,
			Active:           s.Active,
			EntityType:       s.EntityType,
			RentalIncome:     s.RentalIncome,
			IncludeInsurance: s.IncludeInsurance,
			InsuranceAmount:  s.Expenses.Insurance,
			HasVATElection:   s.VATElection != nil,
		})
	}

	validator := validation.ConfigValidator{Scenarios: scenarios}
	return validator.ValidateAll()
}
