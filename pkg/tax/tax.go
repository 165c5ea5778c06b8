// Package tax computes the tax owed on rental income for the supported entity
// types: progressive marginal brackets for individuals and flat rates for
// companies.
package tax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/rental-tax/pkg/constants"
)

var (
	// ErrVATElectionRequired is returned when a company is taxed before a VAT
	// election was made. Nothing is computed in that case.
	ErrVATElectionRequired = errors.New("company entity requires a VAT election")

	// ErrUnknownEntityType is returned for entity values outside the enum.
	ErrUnknownEntityType = errors.New("unknown entity type")
)

// EntityType identifies who receives the rental income.
type EntityType int

const (
	Individual EntityType = iota
	Company
)

// String returns the canonical lower-case name of the entity type.
func (e EntityType) String() string {
	switch e {
	case Individual:
		return "individual"
	case Company:
		return "company"
	default:
		return fmt.Sprintf("EntityType(%d)", int(e))
	}
}

// ParseEntityType accepts "individual" (or its alias "person") and "company",
// case-insensitively.
func ParseEntityType(value string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "individual", "person":
		return Individual, nil
	case "company":
		return Company, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntityType, value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e EntityType) MarshalText() ([]byte, error) {
	switch e {
	case Individual, Company:
		return []byte(e.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntityType, int(e))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EntityType) UnmarshalText(text []byte) error {
	parsed, err := ParseEntityType(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// VATElection is the tri-state VAT choice of a company. The zero value means
// no choice was made yet.
type VATElection int

const (
	VATUnset VATElection = iota
	VATElected
	VATDeclined
)

// ElectionFromBool maps an optional boolean onto a VATElection; nil is unset.
func ElectionFromBool(b *bool) VATElection {
	switch {
	case b == nil:
		return VATUnset
	case *b:
		return VATElected
	default:
		return VATDeclined
	}
}

// Bool returns the election as an optional boolean, nil when unset.
func (v VATElection) Bool() *bool {
	var b bool
	switch v {
	case VATElected:
		b = true
	case VATDeclined:
		b = false
	default:
		return nil
	}
	return &b
}

func (v VATElection) String() string {
	switch v {
	case VATElected:
		return "elected"
	case VATDeclined:
		return "declined"
	default:
		return "unset"
	}
}

// Bracket is one slice of the progressive table: income above Threshold is
// taxed at Rate until the next higher threshold.
type Bracket struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

// individualBrackets is ordered from the highest threshold down. Income at or
// below the last threshold falls to constants.BaseBracketRate.
var individualBrackets = [...]Bracket{
	{Threshold: 578125, Rate: 0.37},
	{Threshold: 231250, Rate: 0.35},
	{Threshold: 182100, Rate: 0.32},
	{Threshold: 95375, Rate: 0.24},
	{Threshold: 44725, Rate: 0.22},
	{Threshold: 11000, Rate: 0.12},
}

// Brackets returns a copy of the individual bracket table, highest first,
// including the base bracket at threshold 0.
func Brackets() []Bracket {
	out := make([]Bracket, 0, len(individualBrackets)+1)
	out = append(out, individualBrackets[:]...)
	return append(out, Bracket{Threshold: 0, Rate: constants.BaseBracketRate})
}

// IndividualTax applies the marginal bracket table to amount. Each slice of the
// amount is taxed at the rate of its own bracket.
//
// A negative amount never exceeds any threshold, so the whole value lands in
// the base bracket and yields a negative figure. This is left as is.
func IndividualTax(amount float64) float64 {
	var tax float64
	taxable := amount
	for _, b := range individualBrackets {
		if taxable > b.Threshold {
			tax += (taxable - b.Threshold) * b.Rate
			taxable = b.Threshold
		}
	}
	return tax + taxable*constants.BaseBracketRate
}

// CompanyTax applies the flat company rate. With VAT elected the base is gross
// revenue, otherwise it is net operating income.
func CompanyTax(gross, net float64, vat VATElection) (float64, error) {
	switch vat {
	case VATElected:
		return gross * constants.CompanyVATRate, nil
	case VATDeclined:
		return net * constants.CompanyProfitRate, nil
	default:
		return 0, ErrVATElectionRequired
	}
}

// Compute dispatches on entity type. gross is the annual rental income and net
// the net operating income; vat is only consulted for companies.
func Compute(gross, net float64, entity EntityType, vat VATElection) (float64, error) {
	switch entity {
	case Individual:
		return IndividualTax(net), nil
	case Company:
		return CompanyTax(gross, net, vat)
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownEntityType, int(entity))
	}
}

// Basis returns the display label describing which base and rate Compute uses.
func Basis(entity EntityType, vat VATElection) string {
	if entity != Company {
		return constants.TaxBasisIndividual
	}
	if vat == VATElected {
		return constants.TaxBasisCompanyVAT
	}
	return constants.TaxBasisCompanyProfit
}
