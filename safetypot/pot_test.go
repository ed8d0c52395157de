package safetypot_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/safetypot"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func gbp(v float64) finance.Amount {
	return finance.NewAmount(v, finance.CurrencyGBP)
}

func pot(current, expenses float64) finance.SafetyPot {
	return finance.SafetyPot{
		PartnershipID:   "p-1",
		CurrentAmount:   gbp(current),
		MonthlyExpenses: gbp(expenses),
	}
}

func assess(current, expenses float64) safetypot.Assessment {
	m := safetypot.NewManager()
	p := pot(current, expenses)
	return m.Assess(p, finance.DefaultSafetyPotPolicy(p.MonthlyExpenses))
}

// =============================================================================
// BUCKET CLASSIFICATION
// =============================================================================

func TestAssess_Buckets(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		expenses float64
		want     safetypot.Status
	}{
		{"below minimum is critical", 100, 1000, safetypot.StatusCritical},
		{"under one month is low", 400, 1000, safetypot.StatusLow},
		{"between one and max is adequate", 2000, 1000, safetypot.StatusAdequate},
		{"fully funded is adequate", 3000, 1000, safetypot.StatusAdequate},
		{"above maximum is excess", 12000, 1000, safetypot.StatusExcess},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := assess(tc.current, tc.expenses).Status; got != tc.want {
				t.Errorf("Assess(%v, %v).Status = %s, want %s", tc.current, tc.expenses, got, tc.want)
			}
		})
	}
}

func TestAssess_Idempotent(t *testing.T) {
	// Assessment is a pure function: same pot, same result.
	a1 := assess(1500, 1000)
	a2 := assess(1500, 1000)
	if a1.Status != a2.Status || a1.HealthScore != a2.HealthScore {
		t.Errorf("assessment not deterministic: %+v vs %+v", a1, a2)
	}
}

// =============================================================================
// HEALTH SCORE
// =============================================================================

func TestAssess_HealthScore(t *testing.T) {
	if got := assess(100, 1000).HealthScore; got != 0 {
		t.Errorf("critical score = %d, want 0", got)
	}
	// Low: half a month covered -> 25 points.
	if got := assess(500, 1000).HealthScore; got != 25 {
		t.Errorf("low score = %d, want 25", got)
	}
	// Adequate at exactly target -> 90.
	if got := assess(3000, 1000).HealthScore; got != 90 {
		t.Errorf("full target score = %d, want 90", got)
	}
	// Excess never drops below 90.
	if got := assess(20000, 1000).HealthScore; got < 90 || got > 100 {
		t.Errorf("excess score = %d, want within [90,100]", got)
	}
}

// =============================================================================
// TOP-UP SIZING
// =============================================================================

func TestAssess_OptimalContribution_AffordabilityCap(t *testing.T) {
	// GIVEN: A deficit of 2,900 against 1,000/month expenses
	// WHEN: Sizing the monthly top-up
	// THEN: deficit/12 (241.67) exceeds 20% of expenses, so the cap (200) wins
	a := assess(100, 1000)
	if got := a.OptimalMonthlyContribution.Value.String(); got != "200" {
		t.Errorf("optimal = %s, want 200", got)
	}
}

func TestAssess_OptimalContribution_DeficitPaced(t *testing.T) {
	// Deficit 600 -> 50/month, comfortably under the 200 cap.
	a := assess(2400, 1000)
	if got := a.OptimalMonthlyContribution.Value.String(); got != "50" {
		t.Errorf("optimal = %s, want 50", got)
	}
}

func TestAssess_NoDeficit_ZeroContribution(t *testing.T) {
	a := assess(3000, 1000)
	if !a.OptimalMonthlyContribution.IsZero() {
		t.Errorf("optimal = %s, want 0", a.OptimalMonthlyContribution.Value)
	}
}

// =============================================================================
// EXCESS REALLOCATION
// =============================================================================

func TestAssess_Excess_SuggestsReallocation(t *testing.T) {
	// GIVEN: 12,000 in the pot against a 6,000 policy maximum
	// WHEN: Assessing
	// THEN: 6,000 excess, 70% of it suggested for goals
	a := assess(12000, 1000)
	if a.Reallocation == nil {
		t.Fatal("expected a reallocation suggestion")
	}
	if got := a.Reallocation.Excess.Value.String(); got != "6000" {
		t.Errorf("excess = %s, want 6000", got)
	}
	if got := a.Reallocation.SuggestedAmount.Value.String(); got != "4200" {
		t.Errorf("suggested = %s, want 4200", got)
	}
}

func TestAssess_NonExcess_NoReallocation(t *testing.T) {
	if assess(2000, 1000).Reallocation != nil {
		t.Error("adequate pot should not suggest reallocation")
	}
}

func TestAssess_CriticalSuggestion_IsUrgent(t *testing.T) {
	a := assess(100, 1000)
	if len(a.Suggestions) == 0 || !strings.HasPrefix(a.Suggestions[0], "URGENT:") {
		t.Errorf("critical suggestion should be urgent, got %v", a.Suggestions)
	}
}

// =============================================================================
// WRITE PATH
// =============================================================================

func TestContribute(t *testing.T) {
	m := safetypot.NewManager()

	got, err := m.Contribute(pot(100, 1000), gbp(50))
	if err != nil {
		t.Fatalf("Contribute: %v", err)
	}
	if got.CurrentAmount.Value.String() != "150" {
		t.Errorf("balance = %s, want 150", got.CurrentAmount.Value)
	}

	if _, err := m.Contribute(pot(100, 1000), gbp(0)); !errors.Is(err, finance.ErrInvalidAmount) {
		t.Errorf("zero contribution: got %v, want ErrInvalidAmount", err)
	}
}

func TestWithdraw(t *testing.T) {
	m := safetypot.NewManager()

	got, err := m.Withdraw(pot(100, 1000), gbp(40))
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if got.CurrentAmount.Value.String() != "60" {
		t.Errorf("balance = %s, want 60", got.CurrentAmount.Value)
	}
}

func TestWithdraw_Overdraw_Rejected(t *testing.T) {
	// GIVEN: 100 in the pot
	// WHEN: Withdrawing 150
	// THEN: The pot is untouched and the error carries both amounts
	m := safetypot.NewManager()

	_, err := m.Withdraw(pot(100, 1000), gbp(150))
	if !errors.Is(err, finance.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	var detail *finance.InsufficientFundsError
	if !errors.As(err, &detail) {
		t.Fatal("expected structured InsufficientFundsError")
	}
	if detail.Available.Value.String() != "100" || detail.Requested.Value.String() != "150" {
		t.Errorf("detail = %+v", detail)
	}
}
