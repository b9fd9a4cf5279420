// Package constants provides shared constants for the rent-vs-buy application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MinimumGrowthPct is the lower bound (exclusive) for any annual growth
	// or return rate; at -100% a value is wiped out entirely.
	MinimumGrowthPct = -100.0

	// MaxYears bounds both the comparison horizon and the loan term.
	MaxYears = 100
)

// Comparison outcome labels
const (
	OutcomeRenting = "renting"
	OutcomeBuying  = "buying"
	OutcomeEqual   = "equal"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides (RVB_COMMON_MONTHLYRENT, ...)
	EnvPrefix = "RVB"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)

// Scenario defaults, matching the values the calculator has always
// pre-filled for an Australian purchase.
const (
	DefaultMonthlyRent             = 2000.0
	DefaultRentIncreasePct         = 3.0
	DefaultHomePrice               = 600000.0
	DefaultDeposit                 = 60000.0
	DefaultInterestRatePct         = 5.0
	DefaultLoanTermYears           = 30
	DefaultPropertyAppreciationPct = 3.0
	DefaultStampDuty               = 20000.0
	DefaultAnnualRates             = 2000.0
	DefaultAnnualInsurance         = 1500.0
	DefaultAnnualMaintenance       = 1000.0
	DefaultInvestmentReturnPct     = 5.0
	DefaultYears                   = 10

	// LowDepositWarningPct triggers a configuration warning when the deposit
	// is below this share of the home price.
	LowDepositWarningPct = 20.0
)
