// Package comparison computes the cost of renting versus buying a home over a
// fixed horizon.
package comparison

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/loans"
	"github.com/iwvelando/rent-vs-buy/pkg/mathutil"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput is returned when inputs fail validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDegenerateComputation is returned when valid inputs would still
	// produce a non-finite result.
	ErrDegenerateComputation = errors.New("degenerate computation")
)

// Inputs holds the economic assumptions for one comparison.
type Inputs struct {
	MonthlyRent             float64 `json:"monthlyRent" yaml:"monthlyRent"`
	RentIncreasePct         float64 `json:"rentIncreasePct" yaml:"rentIncreasePct"`
	HomePrice               float64 `json:"homePrice" yaml:"homePrice"`
	Deposit                 float64 `json:"deposit" yaml:"deposit"`
	InterestRatePct         float64 `json:"interestRatePct" yaml:"interestRatePct"`
	LoanTermYears           int     `json:"loanTermYears" yaml:"loanTermYears"`
	PropertyAppreciationPct float64 `json:"propertyAppreciationPct" yaml:"propertyAppreciationPct"`
	StampDuty               float64 `json:"stampDuty" yaml:"stampDuty"`
	AnnualRates             float64 `json:"annualRates" yaml:"annualRates"`
	AnnualInsurance         float64 `json:"annualInsurance" yaml:"annualInsurance"`
	AnnualMaintenance       float64 `json:"annualMaintenance" yaml:"annualMaintenance"`
	InvestmentReturnPct     float64 `json:"investmentReturnPct" yaml:"investmentReturnPct"`
	Years                   int     `json:"years" yaml:"years"`
}

// DefaultInputs returns the assumptions the calculator starts from.
func DefaultInputs() Inputs {
	return Inputs{
		MonthlyRent:             constants.DefaultMonthlyRent,
		RentIncreasePct:         constants.DefaultRentIncreasePct,
		HomePrice:               constants.DefaultHomePrice,
		Deposit:                 constants.DefaultDeposit,
		InterestRatePct:         constants.DefaultInterestRatePct,
		LoanTermYears:           constants.DefaultLoanTermYears,
		PropertyAppreciationPct: constants.DefaultPropertyAppreciationPct,
		StampDuty:               constants.DefaultStampDuty,
		AnnualRates:             constants.DefaultAnnualRates,
		AnnualInsurance:         constants.DefaultAnnualInsurance,
		AnnualMaintenance:       constants.DefaultAnnualMaintenance,
		InvestmentReturnPct:     constants.DefaultInvestmentReturnPct,
		Years:                   constants.DefaultYears,
	}
}

// LoanAmount is the purchase price less the deposit.
func (in Inputs) LoanAmount() float64 {
	return in.HomePrice - in.Deposit
}

// YearSnapshot describes the position at the end of one elapsed year.
type YearSnapshot struct {
	Year             int     `json:"year"`
	Rent             float64 `json:"rent"`
	CumulativeRent   float64 `json:"cumulativeRent"`
	CumulativeBuying float64 `json:"cumulativeBuying"`
	PropertyValue    float64 `json:"propertyValue"`
	InvestmentValue  float64 `json:"investmentValue"`
	LoanBalance      float64 `json:"loanBalance"`
}

// Result holds the totals of a comparison. Values are never rounded.
type Result struct {
	TotalRentingCost       float64   `json:"totalRentingCost"`
	TotalBuyingCost        float64   `json:"totalBuyingCost"`
	ProjectedPropertyValue float64   `json:"projectedPropertyValue"`
	RentCostSeries         []float64 `json:"rentCostSeries"`

	TotalRentPaid          float64        `json:"totalRentPaid"`
	MonthlyMortgagePayment float64        `json:"monthlyMortgagePayment"`
	TotalMortgagePaid      float64        `json:"totalMortgagePaid"`
	TotalMaintenance       float64        `json:"totalMaintenance"`
	TotalInsurance         float64        `json:"totalInsurance"`
	TotalRates             float64        `json:"totalRates"`
	InvestmentValue        float64        `json:"investmentValue"`
	RemainingLoanBalance   float64        `json:"remainingLoanBalance"`
	Yearly                 []YearSnapshot `json:"yearly"`
}

// Difference is the buying cost less the renting cost; positive means renting
// is cheaper.
func (r Result) Difference() float64 {
	return r.TotalBuyingCost - r.TotalRentingCost
}

// Cheaper names the cheaper option, treating differences under a cent as equal.
func (r Result) Cheaper() string {
	diff := r.Difference()
	switch {
	case mathutil.IsZero(diff):
		return constants.OutcomeEqual
	case diff > 0:
		return constants.OutcomeRenting
	default:
		return constants.OutcomeBuying
	}
}

// NetBuyingPosition is the owner's equity at the horizon net of everything
// spent on buying.
func (r Result) NetBuyingPosition() float64 {
	return r.ProjectedPropertyValue - r.RemainingLoanBalance - r.TotalBuyingCost
}

// Engine runs comparisons. The zero value is usable and logs nothing.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine that logs through logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Compute validates the inputs and runs a comparison with a no-op logger.
func Compute(in Inputs) (Result, error) {
	return NewEngine(nil).Compute(in)
}

// Compute validates the inputs and runs the comparison.
func (e *Engine) Compute(in Inputs) (Result, error) {
	logger := e.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := Validate(in); err != nil {
		logger.Debug("rejected comparison inputs",
			zap.String("op", "comparison.Compute"),
			zap.Error(err),
		)
		return Result{}, err
	}

	var result Result

	// Renting: year one uses the starting rent, growth applies afterwards.
	result.RentCostSeries = make([]float64, in.Years)
	yearlyRent := make([]float64, in.Years)
	currentRent := in.MonthlyRent
	for year := 0; year < in.Years; year++ {
		yearlyRent[year] = currentRent * constants.MonthsPerYear
		result.TotalRentPaid += yearlyRent[year]
		result.RentCostSeries[year] = result.TotalRentPaid
		currentRent *= 1 + mathutil.PercentToRate(in.RentIncreasePct)
	}

	// Buying: payments stop once the loan is repaid.
	termMonths := in.LoanTermYears * constants.MonthsPerYear
	result.MonthlyMortgagePayment = loans.CalculateMonthlyPayment(in.HomePrice, in.Deposit, in.InterestRatePct, termMonths)
	paidYears := mathutil.MinInt(in.Years, in.LoanTermYears)
	result.TotalMortgagePaid = result.MonthlyMortgagePayment * constants.MonthsPerYear * float64(paidYears)

	result.ProjectedPropertyValue = mathutil.CompoundGrowth(in.HomePrice, in.PropertyAppreciationPct, in.Years)
	result.TotalMaintenance = in.AnnualMaintenance * float64(in.Years)
	result.TotalInsurance = in.AnnualInsurance * float64(in.Years)
	result.TotalRates = in.AnnualRates * float64(in.Years)

	// The renter keeps the deposit invested instead.
	result.InvestmentValue = mathutil.CompoundGrowth(in.Deposit, in.InvestmentReturnPct, in.Years)

	result.TotalBuyingCost = result.TotalMortgagePaid + in.StampDuty +
		result.TotalMaintenance + result.TotalInsurance + result.TotalRates
	result.TotalRentingCost = result.TotalRentPaid - result.InvestmentValue

	summaries, err := e.annualLoanSummaries(in)
	if err != nil {
		return Result{}, err
	}
	result.Yearly = buildYearly(in, result, yearlyRent, summaries)
	result.RemainingLoanBalance = result.Yearly[in.Years-1].LoanBalance

	if err := checkFinite(result); err != nil {
		logger.Warn("comparison produced a non-finite value",
			zap.String("op", "comparison.Compute"),
			zap.Error(err),
		)
		return Result{}, err
	}

	logger.Debug("computed comparison",
		zap.String("op", "comparison.Compute"),
		zap.Int("years", in.Years),
		zap.Float64("total_renting_cost", result.TotalRentingCost),
		zap.Float64("total_buying_cost", result.TotalBuyingCost),
		zap.String("cheaper", result.Cheaper()),
	)

	return result, nil
}

func (e *Engine) annualLoanSummaries(in Inputs) ([]loans.AnnualSummary, error) {
	generator := loans.NewAmortizationScheduleGenerator(e.logger)
	schedule, err := generator.GenerateSchedule(loans.LoanConfig{
		Name:         "mortgage",
		Principal:    in.HomePrice,
		DownPayment:  in.Deposit,
		InterestRate: in.InterestRatePct,
		Term:         in.LoanTermYears * constants.MonthsPerYear,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return loans.Summarize(schedule, in.Years), nil
}

func buildYearly(in Inputs, result Result, yearlyRent []float64, summaries []loans.AnnualSummary) []YearSnapshot {
	recurring := in.AnnualMaintenance + in.AnnualInsurance + in.AnnualRates
	annualMortgage := result.MonthlyMortgagePayment * constants.MonthsPerYear

	yearly := make([]YearSnapshot, in.Years)
	buying := in.StampDuty
	for i := range yearly {
		year := i + 1
		if year <= in.LoanTermYears {
			buying += annualMortgage
		}
		buying += recurring

		yearly[i] = YearSnapshot{
			Year:             year,
			Rent:             yearlyRent[i],
			CumulativeRent:   result.RentCostSeries[i],
			CumulativeBuying: buying,
			PropertyValue:    mathutil.CompoundGrowth(in.HomePrice, in.PropertyAppreciationPct, year),
			InvestmentValue:  mathutil.CompoundGrowth(in.Deposit, in.InvestmentReturnPct, year),
			LoanBalance:      summaries[i].RemainingPrincipal,
		}
	}
	return yearly
}

func checkFinite(r Result) error {
	named := []struct {
		name  string
		value float64
	}{
		{"totalRentingCost", r.TotalRentingCost},
		{"totalBuyingCost", r.TotalBuyingCost},
		{"projectedPropertyValue", r.ProjectedPropertyValue},
		{"monthlyMortgagePayment", r.MonthlyMortgagePayment},
		{"investmentValue", r.InvestmentValue},
	}
	for _, n := range named {
		if !mathutil.IsFinite(n.value) {
			return fmt.Errorf("%w: %s is %v", ErrDegenerateComputation, n.name, n.value)
		}
	}
	for i, v := range r.RentCostSeries {
		if !mathutil.IsFinite(v) {
			return fmt.Errorf("%w: rent after year %d is %v", ErrDegenerateComputation, i+1, v)
		}
	}
	return nil
}

// Validate checks inputs before any arithmetic runs. Every failure wraps
// ErrInvalidInput.
func Validate(in Inputs) error {
	values := []struct {
		name  string
		value float64
	}{
		{"monthlyRent", in.MonthlyRent},
		{"rentIncreasePct", in.RentIncreasePct},
		{"homePrice", in.HomePrice},
		{"deposit", in.Deposit},
		{"interestRatePct", in.InterestRatePct},
		{"propertyAppreciationPct", in.PropertyAppreciationPct},
		{"stampDuty", in.StampDuty},
		{"annualRates", in.AnnualRates},
		{"annualInsurance", in.AnnualInsurance},
		{"annualMaintenance", in.AnnualMaintenance},
		{"investmentReturnPct", in.InvestmentReturnPct},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, v.name)
		}
	}

	if in.Years <= 0 {
		return fmt.Errorf("%w: years must be positive, got %d", ErrInvalidInput, in.Years)
	}
	if in.LoanTermYears <= 0 {
		return fmt.Errorf("%w: loanTermYears must be positive, got %d", ErrInvalidInput, in.LoanTermYears)
	}
	if in.Years > constants.MaxYears || in.LoanTermYears > constants.MaxYears {
		return fmt.Errorf("%w: years and loanTermYears must not exceed %d", ErrInvalidInput, constants.MaxYears)
	}
	if in.HomePrice <= 0 {
		return fmt.Errorf("%w: homePrice must be positive, got %.2f", ErrInvalidInput, in.HomePrice)
	}
	if in.InterestRatePct < 0 {
		return fmt.Errorf("%w: interestRatePct must not be negative, got %.4f", ErrInvalidInput, in.InterestRatePct)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"monthlyRent", in.MonthlyRent},
		{"deposit", in.Deposit},
		{"stampDuty", in.StampDuty},
		{"annualRates", in.AnnualRates},
		{"annualInsurance", in.AnnualInsurance},
		{"annualMaintenance", in.AnnualMaintenance},
	}
	for _, v := range nonNegative {
		if v.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %.2f", ErrInvalidInput, v.name, v.value)
		}
	}

	if in.Deposit > in.HomePrice {
		return fmt.Errorf("%w: deposit %.2f exceeds homePrice %.2f", ErrInvalidInput, in.Deposit, in.HomePrice)
	}

	growth := []struct {
		name  string
		value float64
	}{
		{"rentIncreasePct", in.RentIncreasePct},
		{"propertyAppreciationPct", in.PropertyAppreciationPct},
		{"investmentReturnPct", in.InvestmentReturnPct},
	}
	for _, g := range growth {
		if g.value <= constants.MinimumGrowthPct {
			return fmt.Errorf("%w: %s must be greater than %.0f, got %.4f",
				ErrInvalidInput, g.name, constants.MinimumGrowthPct, g.value)
		}
	}

	return nil
}
