// Package output provides utilities for formatting and displaying comparison results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/rent-vs-buy/internal/scenario"
	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CSVHeader lists the columns written by CsvFormat.
var CSVHeader = []string{
	"scenario",
	"year",
	"rent",
	"cumulative rent",
	"cumulative buying",
	"property value",
	"investment value",
	"loan balance",
}

// PrettyFormat writes a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, outcomes []scenario.Outcome) error {
	p := message.NewPrinter(language.English)
	for i, outcome := range outcomes {
		result := outcome.Result
		years := outcome.Inputs.Years

		lines := []string{
			fmt.Sprintf("--- Results for scenario %s ---\n", outcome.Name),
			fmt.Sprintf("Total Renting Cost over %d years: %s\n", years, format.Currency(result.TotalRentingCost)),
			fmt.Sprintf("Total Buying Cost over %d years: %s\n", years, format.Currency(result.TotalBuyingCost)),
			fmt.Sprintf("Estimated Property Value after %d years: %s\n", years, format.Currency(result.ProjectedPropertyValue)),
			fmt.Sprintf("Monthly Mortgage Payment: %s\n", format.Currency(result.MonthlyMortgagePayment)),
			fmt.Sprintf("Deposit Invested Instead: %s\n", format.Currency(result.InvestmentValue)),
			verdict(outcome) + "\n",
			"\n",
			"Year | Rent          | Cumulative Rent | Cumulative Buying | Property Value | Loan Balance\n",
			"____ | _____________ | _______________ | _________________ | ______________ | ____________\n",
		}
		for _, line := range lines {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}

		for _, snap := range result.Yearly {
			if _, err := p.Fprintf(w, "%4d | $%.2f | $%.2f | $%.2f | $%.2f | $%.2f\n",
				snap.Year, snap.Rent, snap.CumulativeRent, snap.CumulativeBuying,
				snap.PropertyValue, snap.LoanBalance); err != nil {
				return err
			}
		}

		if len(outcomes) > 1 && i < len(outcomes)-1 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func verdict(outcome scenario.Outcome) string {
	diff := outcome.Result.Difference()
	switch outcome.Result.Cheaper() {
	case constants.OutcomeRenting:
		return fmt.Sprintf("Renting is cheaper by %s", format.Currency(diff))
	case constants.OutcomeBuying:
		return fmt.Sprintf("Buying is cheaper by %s", format.Currency(-diff))
	default:
		return "Renting and buying cost the same"
	}
}

// CsvFormat writes one row per scenario per year in comma-separated value format.
func CsvFormat(w io.Writer, outcomes []scenario.Outcome) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}

	for _, outcome := range outcomes {
		for _, snap := range outcome.Result.Yearly {
			record := []string{
				outcome.Name,
				strconv.Itoa(snap.Year),
				format.Plain(snap.Rent),
				format.Plain(snap.CumulativeRent),
				format.Plain(snap.CumulativeBuying),
				format.Plain(snap.PropertyValue),
				format.Plain(snap.InvestmentValue),
				format.Plain(snap.LoanBalance),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// CsvString returns the CsvFormat output as a string.
func CsvString(outcomes []scenario.Outcome) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, outcomes); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat writes the outcomes as an indented JSON array.
func JSONFormat(w io.Writer, outcomes []scenario.Outcome) error {
	if outcomes == nil {
		outcomes = []scenario.Outcome{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(outcomes)
}

// Write dispatches to the formatter named by outputFormat.
func Write(w io.Writer, outputFormat string, outcomes []scenario.Outcome) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, outcomes)
	case constants.OutputFormatCSV:
		return CsvFormat(w, outcomes)
	case constants.OutputFormatJSON:
		return JSONFormat(w, outcomes)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}
