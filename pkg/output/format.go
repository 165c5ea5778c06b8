// Package output provides utilities for formatting and displaying calculation
// reports.
package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/iwvelando/rental-tax/internal/calculator"
	"github.com/iwvelando/rental-tax/pkg/constants"
	"github.com/iwvelando/rental-tax/pkg/format"
	"github.com/iwvelando/rental-tax/pkg/mathutil"
	"github.com/iwvelando/rental-tax/pkg/tax"
)

// PrettyFormat writes a human-readable summary of each report. With details
// set, the full expense and tax breakdown follows the summary line.
func PrettyFormat(w io.Writer, reports []calculator.Report, details bool) {
	for i, report := range reports {
		result := report.Result
		fmt.Fprintf(w, "--- Results for scenario %s ---\n", report.Name)
		fmt.Fprintf(w, "After-tax income: %s\n", format.Currency(result.AfterTaxIncome))
		if mathutil.IsNegative(result.NetOperatingIncome) {
			fmt.Fprintf(w, "Note: operating loss of %s\n", format.Currency(result.NetOperatingIncome))
		}

		if details {
			input := report.Input
			fmt.Fprintf(w, "Entity:               %s\n", describeEntity(input.EntityType, input.VATElection))
			fmt.Fprintf(w, "Annual rental income: %s\n", format.Currency(input.AnnualRentalIncome))
			fmt.Fprintf(w, "Management fee (20%%): %s\n", format.Currency(result.ManagementFee))
			fmt.Fprintf(w, "Cleaning:             %s\n", format.Currency(input.Expenses.Cleaning))
			fmt.Fprintf(w, "Maintenance:          %s\n", format.Currency(input.Expenses.Maintenance))
			if input.InsuranceIncluded {
				fmt.Fprintf(w, "Insurance:            %s\n", format.Currency(input.Expenses.Insurance))
			} else {
				fmt.Fprintf(w, "Insurance:            excluded\n")
			}
			fmt.Fprintf(w, "Utilities:            %s\n", format.Currency(input.Expenses.Utilities))
			fmt.Fprintf(w, "Repairs:              %s\n", format.Currency(input.Expenses.Repairs))
			fmt.Fprintf(w, "Total expenses:       %s\n", format.Currency(result.TotalExpenses))
			fmt.Fprintf(w, "Net operating income: %s\n", format.Currency(result.NetOperatingIncome))
			fmt.Fprintf(w, "%s: %s (%s)\n", result.TaxBasis, format.Currency(result.TaxOwed), effectiveRate(result.TaxOwed, result.NetOperatingIncome))
		}

		if i < len(reports)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes one row per report in comma-separated value format.
func CsvFormat(w io.Writer, reports []calculator.Report) error {
	writer := csv.NewWriter(w)
	header := []string{
		"scenario", "entity", "vat election", "rental income", "management fee",
		"total expenses", "net operating income", "tax basis", "tax owed", "after-tax income",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, report := range reports {
		input, result := report.Input, report.Result
		row := []string{
			report.Name,
			input.EntityType.String(),
			input.VATElection.String(),
			format.Plain(input.AnnualRentalIncome),
			format.Plain(result.ManagementFee),
			format.Plain(result.TotalExpenses),
			format.Plain(result.NetOperatingIncome),
			result.TaxBasis,
			format.Plain(result.TaxOwed),
			format.Plain(result.AfterTaxIncome),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func describeEntity(entity tax.EntityType, vat tax.VATElection) string {
	if entity != tax.Company {
		return entity.String()
	}
	if vat == tax.VATElected {
		return "company, pays VAT"
	}
	return "company, no VAT"
}

// effectiveRate describes tax as a share of net operating income.
func effectiveRate(taxOwed, net float64) string {
	if mathutil.IsZero(net) {
		return "no net income"
	}
	return fmt.Sprintf("%.2f%% of net", taxOwed/net*constants.PercentageMultiplier)
}
