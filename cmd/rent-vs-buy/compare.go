package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/iwvelando/rent-vs-buy/internal/comparison"
	"github.com/iwvelando/rent-vs-buy/internal/config"
	"github.com/iwvelando/rent-vs-buy/internal/scenario"
	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/output"
	"github.com/iwvelando/rent-vs-buy/pkg/validation"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var inputUsage = map[string]string{
	"monthlyRent":             "starting monthly rent ($)",
	"rentIncreasePct":         "annual rent increase (%)",
	"homePrice":               "home price ($)",
	"deposit":                 "deposit ($)",
	"interestRatePct":         "mortgage interest rate (%)",
	"loanTermYears":           "loan term (years)",
	"propertyAppreciationPct": "annual property appreciation (%)",
	"stampDuty":               "stamp duty ($)",
	"annualRates":             "annual council rates ($)",
	"annualInsurance":         "annual home insurance ($)",
	"annualMaintenance":       "annual maintenance costs ($)",
	"investmentReturnPct":     "investment return on the deposit (%)",
	"years":                   "years to compare",
}

func compareCmd() *cobra.Command {
	var (
		configLocation string
		outputFormat   string
		logLevel       string
	)
	v := config.NewViper()

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare renting and buying for each active scenario",
		Long: "Compare renting and buying for each active scenario. Inputs come from the\n" +
			"config file's common section, RVB_COMMON_* environment variables and the\n" +
			"flags below, in increasing order of precedence.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, v, configLocation, outputFormat, logLevel)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configLocation, "config", "", "path to configuration file (optional)")
	flags.StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	flags.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	if err := registerInputFlags(flags, v); err != nil {
		panic(fmt.Sprintf("failed to register input flags: %v", err))
	}

	return cmd
}

// registerInputFlags adds one flag per comparison input and binds it to the
// matching common key so a set flag overrides the config file.
func registerInputFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	defaults := comparison.DefaultInputs()
	floatDefaults := map[string]float64{
		"monthlyRent":             defaults.MonthlyRent,
		"rentIncreasePct":         defaults.RentIncreasePct,
		"homePrice":               defaults.HomePrice,
		"deposit":                 defaults.Deposit,
		"interestRatePct":         defaults.InterestRatePct,
		"propertyAppreciationPct": defaults.PropertyAppreciationPct,
		"stampDuty":               defaults.StampDuty,
		"annualRates":             defaults.AnnualRates,
		"annualInsurance":         defaults.AnnualInsurance,
		"annualMaintenance":       defaults.AnnualMaintenance,
		"investmentReturnPct":     defaults.InvestmentReturnPct,
	}
	intDefaults := map[string]int{
		"loanTermYears": defaults.LoanTermYears,
		"years":         defaults.Years,
	}

	for _, key := range config.InputKeys {
		name := flagName(key)
		if value, ok := intDefaults[key]; ok {
			flags.Int(name, value, inputUsage[key])
		} else {
			flags.Float64(name, floatDefaults[key], inputUsage[key])
		}
		if err := v.BindPFlag(config.CommonKey(key), flags.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// flagName converts an input key such as "monthlyRent" to "monthly-rent".
func flagName(key string) string {
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func runCompare(cmd *cobra.Command, v *viper.Viper, configLocation, outputFormatFlag, logLevel string) error {
	conf, err := config.LoadConfigurationWithViper(v, configLocation)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configLocation, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if outputFormatFlag != "" {
		outputFormat = outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main.compare"))
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.compare"),
		)
	}

	outcomes, err := scenario.Run(logger, *conf)
	if err != nil {
		logger.Error("failed to compute comparison",
			zap.String("op", "main.compare"),
			zap.Error(err),
		)
		return err
	}

	return output.Write(cmd.OutOrStdout(), outputFormat, outcomes)
}
