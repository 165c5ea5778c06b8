// Package constants provides shared constants for the rental-tax application.
package constants

// Rate constants for the single supported jurisdiction and tax year.
const (
	// ManagementFeeRate is the share of gross rental income always deducted
	// as a management fee.
	ManagementFeeRate = 0.20

	// CompanyVATRate applies to gross rental revenue when a company elects VAT.
	CompanyVATRate = 0.19

	// CompanyProfitRate applies to net operating income when a company does
	// not elect VAT.
	CompanyProfitRate = 0.16

	// BaseBracketRate applies to whatever remains below the lowest threshold.
	BaseBracketRate = 0.10
)

// Tax basis labels shown next to the computed tax.
const (
	TaxBasisIndividual    = "Estimated Tax"
	TaxBasisCompanyVAT    = "VAT (19% on Revenue)"
	TaxBasisCompanyProfit = "Tax (16% on Profit)"
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// DecimalPlaces is the number of fractional digits reported for currency.
	DecimalPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default scenario file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// RequestIDHeader carries the per-request identifier on every response.
	RequestIDHeader = "X-Request-ID"
)
