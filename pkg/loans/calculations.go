// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given monthly payment.
type Payment struct {
	Month              int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// AnnualSummary rolls twelve monthly payments into one year.
type AnnualSummary struct {
	Year               int
	Paid               float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// LoanConfig represents loan configuration parameters
type LoanConfig struct {
	Name         string
	Principal    float64
	DownPayment  float64
	InterestRate float64 // annual, percent
	Term         int     // months
}

// Amount returns the borrowed amount.
func (l LoanConfig) Amount() float64 {
	return l.Principal - l.DownPayment
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	// growth is (1+r)^n - 1, computed without cancellation for tiny r.
	growth := math.Expm1(float64(termMonths) * math.Log1p(periodicInterestRate))
	if growth == 0 {
		return (principal - downPayment) / float64(termMonths)
	}
	return (principal - downPayment) * periodicInterestRate * (growth + 1) / growth
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan, one
// entry per month of the term.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanConfig) ([]Payment, error) {
	if loan.Term <= 0 {
		return nil, fmt.Errorf("loan %s: term must be positive, got %d months", loan.Name, loan.Term)
	}
	if loan.InterestRate < 0 {
		return nil, fmt.Errorf("loan %s: interest rate must not be negative, got %.4f", loan.Name, loan.InterestRate)
	}

	monthlyPayment := CalculateMonthlyPayment(loan.Principal, loan.DownPayment, loan.InterestRate, loan.Term)
	schedule := make([]Payment, 0, loan.Term)
	remaining := loan.Amount()

	for month := 1; month <= loan.Term; month++ {
		var current Payment
		current.Month = month
		current.Payment = monthlyPayment
		current.Interest = CalculateInterestPayment(remaining, loan.InterestRate)
		current.Principal = monthlyPayment - current.Interest

		if month == loan.Term || mathutil.Round(remaining-current.Principal) == 0 {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0.00
		} else {
			current.RemainingPrincipal = remaining - current.Principal
		}
		remaining = current.RemainingPrincipal
		schedule = append(schedule, current)

		if remaining == 0 && month < loan.Term {
			g.logger.Debug(fmt.Sprintf("loan %s paid off early at month %d", loan.Name, month),
				zap.String("op", "loans.GenerateSchedule"),
			)
			break
		}
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("loan", loan.Name),
		zap.Int("months", len(schedule)),
		zap.Float64("monthly_payment", monthlyPayment),
	)

	return schedule, nil
}

// Summarize groups a monthly schedule into calendar years of the loan. Years
// after payoff are reported with zero payments and zero balance so that the
// result always has exactly years entries.
func Summarize(schedule []Payment, years int) []AnnualSummary {
	if years <= 0 {
		return nil
	}

	summaries := make([]AnnualSummary, years)
	for i := range summaries {
		summaries[i].Year = i + 1
	}

	for _, payment := range schedule {
		idx := (payment.Month - 1) / constants.MonthsPerYear
		if idx >= years {
			break
		}
		summaries[idx].Paid += payment.Payment
		summaries[idx].Principal += payment.Principal
		summaries[idx].Interest += payment.Interest
		summaries[idx].RemainingPrincipal = payment.RemainingPrincipal
	}

	return summaries
}

// TotalInterest sums the interest portion of every payment in the schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, payment := range schedule {
		total += payment.Interest
	}
	return total
}
