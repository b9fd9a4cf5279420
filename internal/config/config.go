// Package config defines the data structures related to configuration and
// includes functions for loading and resolving the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/rent-vs-buy/internal/comparison"
	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/spf13/viper"
)

// DefaultScenarioName names the scenario synthesized when none are configured.
const DefaultScenarioName = "default"

// Configuration holds all configuration for rent-vs-buy.
type Configuration struct {
	Common    comparison.Inputs `json:"common" yaml:"common"`
	Scenarios []Scenario        `json:"scenarios,omitempty" yaml:"scenarios,omitempty"`
	Logging   LoggingConfig     `json:"logging,omitempty" yaml:"logging,omitempty"`
	Output    OutputConfig      `json:"output,omitempty" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `json:"format,omitempty" yaml:"format,omitempty"`         // json, console
	OutputFile string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // pretty, csv, json
}

// Scenario is a named variation on the common inputs. Only the fields it sets
// replace the common values.
type Scenario struct {
	Name      string `json:"name" yaml:"name"`
	Active    bool   `json:"active" yaml:"active"`
	Overrides `mapstructure:",squash" yaml:",inline"`
}

// Overrides lists the inputs a scenario may replace.
type Overrides struct {
	MonthlyRent             *float64 `json:"monthlyRent,omitempty" yaml:"monthlyRent,omitempty"`
	RentIncreasePct         *float64 `json:"rentIncreasePct,omitempty" yaml:"rentIncreasePct,omitempty"`
	HomePrice               *float64 `json:"homePrice,omitempty" yaml:"homePrice,omitempty"`
	Deposit                 *float64 `json:"deposit,omitempty" yaml:"deposit,omitempty"`
	InterestRatePct         *float64 `json:"interestRatePct,omitempty" yaml:"interestRatePct,omitempty"`
	LoanTermYears           *int     `json:"loanTermYears,omitempty" yaml:"loanTermYears,omitempty"`
	PropertyAppreciationPct *float64 `json:"propertyAppreciationPct,omitempty" yaml:"propertyAppreciationPct,omitempty"`
	StampDuty               *float64 `json:"stampDuty,omitempty" yaml:"stampDuty,omitempty"`
	AnnualRates             *float64 `json:"annualRates,omitempty" yaml:"annualRates,omitempty"`
	AnnualInsurance         *float64 `json:"annualInsurance,omitempty" yaml:"annualInsurance,omitempty"`
	AnnualMaintenance       *float64 `json:"annualMaintenance,omitempty" yaml:"annualMaintenance,omitempty"`
	InvestmentReturnPct     *float64 `json:"investmentReturnPct,omitempty" yaml:"investmentReturnPct,omitempty"`
	Years                   *int     `json:"years,omitempty" yaml:"years,omitempty"`
}

// Apply returns base with every set override replacing the base value.
func (o Overrides) Apply(base comparison.Inputs) comparison.Inputs {
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	setFloat(&base.MonthlyRent, o.MonthlyRent)
	setFloat(&base.RentIncreasePct, o.RentIncreasePct)
	setFloat(&base.HomePrice, o.HomePrice)
	setFloat(&base.Deposit, o.Deposit)
	setFloat(&base.InterestRatePct, o.InterestRatePct)
	setInt(&base.LoanTermYears, o.LoanTermYears)
	setFloat(&base.PropertyAppreciationPct, o.PropertyAppreciationPct)
	setFloat(&base.StampDuty, o.StampDuty)
	setFloat(&base.AnnualRates, o.AnnualRates)
	setFloat(&base.AnnualInsurance, o.AnnualInsurance)
	setFloat(&base.AnnualMaintenance, o.AnnualMaintenance)
	setFloat(&base.InvestmentReturnPct, o.InvestmentReturnPct)
	setInt(&base.Years, o.Years)
	return base
}

// InputKeys maps each comparison input to its key under "common". The CLI
// binds one flag per key.
var InputKeys = []string{
	"monthlyRent",
	"rentIncreasePct",
	"homePrice",
	"deposit",
	"interestRatePct",
	"loanTermYears",
	"propertyAppreciationPct",
	"stampDuty",
	"annualRates",
	"annualInsurance",
	"annualMaintenance",
	"investmentReturnPct",
	"years",
}

// NewViper returns a viper instance with the input defaults registered and
// environment overrides enabled, e.g. RVB_COMMON_MONTHLYRENT=2500.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := comparison.DefaultInputs()
	values := map[string]interface{}{
		"monthlyRent":             defaults.MonthlyRent,
		"rentIncreasePct":         defaults.RentIncreasePct,
		"homePrice":               defaults.HomePrice,
		"deposit":                 defaults.Deposit,
		"interestRatePct":         defaults.InterestRatePct,
		"loanTermYears":           defaults.LoanTermYears,
		"propertyAppreciationPct": defaults.PropertyAppreciationPct,
		"stampDuty":               defaults.StampDuty,
		"annualRates":             defaults.AnnualRates,
		"annualInsurance":         defaults.AnnualInsurance,
		"annualMaintenance":       defaults.AnnualMaintenance,
		"investmentReturnPct":     defaults.InvestmentReturnPct,
		"years":                   defaults.Years,
	}
	for _, key := range InputKeys {
		v.SetDefault(CommonKey(key), values[key])
	}
	return v
}

// CommonKey returns the viper key of a common input.
func CommonKey(input string) string {
	return "common." + input
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	return LoadConfigurationWithViper(NewViper(), configPath)
}

// LoadConfigurationWithViper loads the configuration through a caller-prepared
// viper instance, which may carry bound flags. An empty path loads from
// defaults, environment and flags only.
func LoadConfigurationWithViper(v *viper.Viper, configPath string) (*Configuration, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := NewViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if len(configuration.Scenarios) == 0 {
		configuration.Scenarios = []Scenario{{Name: DefaultScenarioName, Active: true}}
	}

	return &configuration, nil
}

// Inputs resolves the scenario against the common inputs.
func (conf *Configuration) Inputs(scenario Scenario) comparison.Inputs {
	return scenario.Apply(conf.Common)
}

// ActiveScenarios returns the scenarios marked active, in configuration order.
func (conf *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range conf.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}
