package loans

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name        string
		principal   float64
		downPayment float64
		rate        float64
		termMonths  int
		expected    float64
		tolerance   float64
	}{
		{
			name:       "Thirty year mortgage at five percent",
			principal:  600000,
			rate:       5.0,
			termMonths: 360,
			expected:   3220.93,
			tolerance:  0.01,
		},
		{
			name:        "Down payment reduces financed amount",
			principal:   600000,
			downPayment: 60000,
			rate:        5.0,
			termMonths:  360,
			expected:    2898.84,
			tolerance:   0.01,
		},
		{
			name:       "Fifteen year mortgage",
			principal:  200000,
			rate:       3.5,
			termMonths: 180,
			expected:   1429.77,
			tolerance:  0.01,
		},
		{
			name:       "Zero interest divides principal evenly",
			principal:  120000,
			rate:       0,
			termMonths: 120,
			expected:   1000,
			tolerance:  1e-9,
		},
		{
			name:        "Zero interest with down payment",
			principal:   120000,
			downPayment: 24000,
			rate:        0,
			termMonths:  96,
			expected:    1000,
			tolerance:   1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.downPayment, tt.rate, tt.termMonths)
			if math.Abs(result-tt.expected) > tt.tolerance {
				t.Errorf("CalculateMonthlyPayment() = %.4f, expected %.4f", result, tt.expected)
			}
		})
	}
}

func TestCalculateMonthlyPaymentTinyRates(t *testing.T) {
	const principal, termMonths = 540000.0, 360
	linear := principal / termMonths

	tests := []struct {
		name string
		rate float64
	}{
		{"Rate of 1e-15 percent", 1e-15},
		{"Rate of 1e-12 percent", 1e-12},
		{"Rate of 1e-9 percent", 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(principal, 0, tt.rate, termMonths)
			if math.IsNaN(result) || math.IsInf(result, 0) {
				t.Fatalf("CalculateMonthlyPayment() = %v, expected a finite payment", result)
			}
			if math.Abs(result-linear)/linear > 1e-6 {
				t.Errorf("CalculateMonthlyPayment() = %.6f, expected %.6f within 1e-6 relative", result, linear)
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	interest := CalculateInterestPayment(540000, 5.0)
	if math.Abs(interest-2250.0) > 1e-9 {
		t.Errorf("CalculateInterestPayment() = %.4f, expected 2250.00", interest)
	}

	if CalculateInterestPayment(540000, 0) != 0 {
		t.Error("expected no interest at a zero rate")
	}
}

func TestGenerateSchedule(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	loan := LoanConfig{
		Name:         "Home Loan",
		Principal:    600000,
		DownPayment:  60000,
		InterestRate: 5.0,
		Term:         360,
	}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	if len(schedule) != 360 {
		t.Fatalf("expected 360 payments, got %d", len(schedule))
	}

	first := schedule[0]
	if math.Abs(first.Interest-2250.0) > 0.01 {
		t.Errorf("first interest = %.2f, expected 2250.00", first.Interest)
	}
	if math.Abs(first.Principal-(first.Payment-first.Interest)) > 1e-9 {
		t.Error("first principal should be payment minus interest")
	}

	last := schedule[len(schedule)-1]
	if last.RemainingPrincipal != 0 {
		t.Errorf("expected final balance 0, got %.2f", last.RemainingPrincipal)
	}

	for i := 1; i < len(schedule); i++ {
		if schedule[i].RemainingPrincipal > schedule[i-1].RemainingPrincipal {
			t.Fatalf("balance increased at month %d", schedule[i].Month)
		}
	}
}

func TestScheduleCoversPrincipalPlusInterest(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(nil)

	tests := []struct {
		name string
		loan LoanConfig
	}{
		{"Reference loan", LoanConfig{Name: "reference", Principal: 540000, InterestRate: 5.0, Term: 360}},
		{"Short loan", LoanConfig{Name: "short", Principal: 50000, InterestRate: 7.25, Term: 60}},
		{"Zero rate loan", LoanConfig{Name: "zero", Principal: 90000, InterestRate: 0, Term: 180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := generator.GenerateSchedule(tt.loan)
			if err != nil {
				t.Fatalf("GenerateSchedule() error = %v", err)
			}

			payment := CalculateMonthlyPayment(tt.loan.Principal, tt.loan.DownPayment, tt.loan.InterestRate, tt.loan.Term)
			totalPaid := payment * float64(tt.loan.Term)
			expected := tt.loan.Amount() + TotalInterest(schedule)

			// Final month absorbs accumulated machine error, so allow a cent per year.
			tolerance := float64(tt.loan.Term) / 12 * 0.01
			if math.Abs(totalPaid-expected) > tolerance {
				t.Errorf("payments %.2f should equal principal plus interest %.2f", totalPaid, expected)
			}
		})
	}
}

func TestGenerateScheduleRejectsInvalidLoans(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())

	if _, err := generator.GenerateSchedule(LoanConfig{Name: "no term", Principal: 1000, InterestRate: 5}); err == nil {
		t.Error("expected error for zero term")
	}
	if _, err := generator.GenerateSchedule(LoanConfig{Name: "negative", Principal: 1000, InterestRate: -1, Term: 12}); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestSummarize(t *testing.T) {
	generator := NewAmortizationScheduleGenerator(zap.NewNop())
	loan := LoanConfig{Name: "short", Principal: 24000, InterestRate: 6.0, Term: 24}

	schedule, err := generator.GenerateSchedule(loan)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	t.Run("Horizon longer than term", func(t *testing.T) {
		summaries := Summarize(schedule, 4)
		if len(summaries) != 4 {
			t.Fatalf("expected 4 summaries, got %d", len(summaries))
		}

		payment := CalculateMonthlyPayment(loan.Principal, 0, loan.InterestRate, loan.Term)
		for i, summary := range summaries[:2] {
			if summary.Year != i+1 {
				t.Errorf("summary %d has year %d", i, summary.Year)
			}
			if math.Abs(summary.Paid-payment*12) > 1e-6 {
				t.Errorf("year %d paid %.2f, expected %.2f", summary.Year, summary.Paid, payment*12)
			}
		}
		if summaries[0].RemainingPrincipal <= 0 {
			t.Error("expected balance outstanding after first year")
		}
		for _, summary := range summaries[1:] {
			if summary.RemainingPrincipal != 0 {
				t.Errorf("year %d should have zero balance, got %.2f", summary.Year, summary.RemainingPrincipal)
			}
		}
		if summaries[3].Paid != 0 {
			t.Errorf("no payments expected after payoff, got %.2f", summaries[3].Paid)
		}
	})

	t.Run("Horizon shorter than term", func(t *testing.T) {
		summaries := Summarize(schedule, 1)
		if len(summaries) != 1 {
			t.Fatalf("expected 1 summary, got %d", len(summaries))
		}
		if math.Abs(summaries[0].Principal+summaries[0].RemainingPrincipal-loan.Amount()) > 0.01 {
			t.Error("principal repaid plus balance should equal amount borrowed")
		}
	})

	t.Run("Non-positive horizon", func(t *testing.T) {
		if summaries := Summarize(schedule, 0); summaries != nil {
			t.Errorf("expected nil summaries, got %v", summaries)
		}
	})
}
