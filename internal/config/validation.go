package config

import (
	"fmt"

	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/mathutil"
)

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Input errors that make a comparison impossible are left to
// the comparison engine.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if len(conf.ActiveScenarios()) == 0 {
		warnings = append(warnings, "no active scenarios; nothing will be compared")
	}

	seen := make(map[string]bool)
	for i, scenario := range conf.Scenarios {
		name := scenario.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			warnings = append(warnings, fmt.Sprintf("scenario %s has no name", name))
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("duplicate scenario name %q", name))
		}
		seen[name] = true

		if !scenario.Active {
			continue
		}

		in := conf.Inputs(scenario)
		if in.Years > in.LoanTermYears && in.LoanTermYears > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"scenario %s: horizon of %d years exceeds the %d year loan term; mortgage payments stop after year %d",
				name, in.Years, in.LoanTermYears, in.LoanTermYears))
		}
		if in.HomePrice > 0 {
			depositPct := in.Deposit / in.HomePrice * constants.PercentageMultiplier
			if depositPct < constants.LowDepositWarningPct {
				warnings = append(warnings, fmt.Sprintf(
					"scenario %s: deposit is %.1f%% of the home price; lenders may require mortgage insurance below %.0f%%",
					name, mathutil.Round(depositPct), constants.LowDepositWarningPct))
			}
		}
		if in.InterestRatePct == 0 {
			warnings = append(warnings, fmt.Sprintf(
				"scenario %s: zero interest rate; repayments are computed as straight-line principal", name))
		}
	}

	return warnings
}
