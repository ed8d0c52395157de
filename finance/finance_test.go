package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func gbp(v float64) finance.Amount {
	return finance.NewAmount(v, finance.CurrencyGBP)
}

func mustMonth(t *testing.T, s string) finance.MonthKey {
	t.Helper()
	m, err := finance.ParseMonthKey(s)
	if err != nil {
		t.Fatalf("ParseMonthKey(%q): %v", s, err)
	}
	return m
}

// =============================================================================
// AMOUNT ARITHMETIC
// =============================================================================

func TestAmount_DivByZero_ReturnsZero(t *testing.T) {
	// GIVEN: Any amount
	// WHEN: Dividing by zero
	// THEN: The result is a zero amount, not a panic
	got := gbp(100).Div(decimal.Zero)
	if !got.IsZero() {
		t.Errorf("expected zero, got %s", got.Format())
	}
}

func TestAmount_FloorZero_ClampsNegative(t *testing.T) {
	if got := gbp(-5).FloorZero(); !got.IsZero() {
		t.Errorf("expected zero, got %s", got.Format())
	}
	if got := gbp(5).FloorZero(); !got.Value.Equal(decimal.NewFromInt(5)) {
		t.Errorf("positive amount should pass through, got %s", got.Format())
	}
}

func TestAmount_Format(t *testing.T) {
	if got := gbp(450).Format(); got != "£450.00" {
		t.Errorf("Format() = %q, want £450.00", got)
	}
	if got := gbp(-12.5).Format(); got != "-£12.50" {
		t.Errorf("Format() = %q, want -£12.50", got)
	}
}

func TestAmount_RoundDown_Truncates(t *testing.T) {
	a := finance.NewAmountFromDecimal(finance.MustParseDecimal("33.339"), finance.CurrencyGBP)
	if got := a.RoundDown().Value.String(); got != "33.33" {
		t.Errorf("RoundDown() = %s, want 33.33", got)
	}
}

// =============================================================================
// FREQUENCY NORMALIZATION
// =============================================================================

func TestFrequency_MonthlyEquivalent(t *testing.T) {
	tests := []struct {
		freq   finance.Frequency
		amount float64
		want   string
	}{
		{finance.FreqWeekly, 100, "433"},
		{finance.FreqMonthly, 100, "100"},
		{finance.FreqQuarterly, 300, "75"},
		{finance.FreqYearly, 1200, "100"},
	}
	for _, tc := range tests {
		got := tc.freq.MonthlyEquivalent(gbp(tc.amount))
		if got.Value.String() != tc.want {
			t.Errorf("%s of %v: got %s, want %s", tc.freq, tc.amount, got.Value, tc.want)
		}
	}
}

func TestParseFrequency_Invalid(t *testing.T) {
	if _, err := finance.ParseFrequency("fortnightly"); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

// =============================================================================
// MONTH KEYS
// =============================================================================

func TestMonthKey_ParseAndString_RoundTrip(t *testing.T) {
	m := mustMonth(t, "2025-03")
	if m.String() != "2025-03" {
		t.Errorf("String() = %q", m.String())
	}
	if _, err := finance.ParseMonthKey("2025-3"); err == nil {
		t.Error("expected error for unpadded month")
	}
}

func TestMonthKey_Arithmetic(t *testing.T) {
	dec := mustMonth(t, "2024-12")
	if got := dec.Next(); got.String() != "2025-01" {
		t.Errorf("Next() across year boundary = %s", got)
	}
	if got := mustMonth(t, "2025-01").Prev(); got.String() != "2024-12" {
		t.Errorf("Prev() across year boundary = %s", got)
	}
	if got := dec.MonthsUntil(mustMonth(t, "2025-03")); got != 3 {
		t.Errorf("MonthsUntil = %d, want 3", got)
	}
}

func TestMonthKey_Elapsed(t *testing.T) {
	m := mustMonth(t, "2025-03")
	inside := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	after := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if m.Elapsed(inside) {
		t.Error("month should not be elapsed while it is still running")
	}
	if !m.Elapsed(after) {
		t.Error("month should be elapsed from the first instant of the next month")
	}
}

// =============================================================================
// SPLIT RATIO
// =============================================================================

func TestSplitRatio_Proportional(t *testing.T) {
	// GIVEN: Incomes of 3,000 and 5,000
	// WHEN: Computing the split ratio
	// THEN: Partner 1 carries 3/8 of the obligation
	ip := finance.IncomePair{User1Income: gbp(3000), User2Income: gbp(5000)}
	want := decimal.NewFromInt(3).Div(decimal.NewFromInt(8))
	if got := ip.SplitRatio(); !got.Equal(want) {
		t.Errorf("SplitRatio() = %s, want %s", got, want)
	}
}

func TestSplitRatio_BothZero_DefaultsToHalf(t *testing.T) {
	ip := finance.IncomePair{User1Income: gbp(0), User2Income: gbp(0)}
	if got := ip.SplitRatio(); !got.Equal(finance.MustParseDecimal("0.5")) {
		t.Errorf("SplitRatio() = %s, want 0.5", got)
	}
}

func TestSplitRatio_Complementary(t *testing.T) {
	// The two partners' ratios sum to 1.
	ip := finance.IncomePair{User1Income: gbp(3000), User2Income: gbp(5000)}
	flipped := finance.IncomePair{User1Income: ip.User2Income, User2Income: ip.User1Income}
	sum := ip.SplitRatio().Add(flipped.SplitRatio())
	if !sum.Equal(decimal.NewFromInt(1)) {
		t.Errorf("ratios sum to %s, want 1", sum)
	}
}

// =============================================================================
// PRIORITY MAPPING
// =============================================================================

func TestParsePriority_BoundaryMapping(t *testing.T) {
	tests := []struct {
		in   string
		want finance.Priority
	}{
		{"high", finance.PriorityHigh},
		{"medium", finance.PriorityMedium},
		{"low", finance.PriorityLow},
		{"1", finance.PriorityHigh},
		{"2", finance.PriorityMedium},
		{"3", finance.PriorityLow},
		{"urgent", finance.PriorityMedium}, // unknown defaults to medium
		{"", finance.PriorityMedium},
	}
	for _, tc := range tests {
		if got := finance.ParsePriority(tc.in); got != tc.want {
			t.Errorf("ParsePriority(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// =============================================================================
// GOALS
// =============================================================================

func TestGoal_RequiredMonthly_DefaultHorizon(t *testing.T) {
	// GIVEN: Goal of 2,000 with 1,000 saved and no target date
	// WHEN: Computing the required monthly contribution
	// THEN: The remaining 1,000 is spread over 12 months
	g := finance.Goal{TargetAmount: gbp(2000), CurrentAmount: gbp(1000)}
	got := g.RequiredMonthly(time.Now()).Round()
	if got.Value.String() != "83.33" {
		t.Errorf("RequiredMonthly = %s, want 83.33", got.Value)
	}
}

func TestGoal_RequiredMonthly_TighterTargetDate(t *testing.T) {
	// GIVEN: 600 remaining with a target date ~2 months out
	// WHEN: Computing the requirement
	// THEN: The date horizon wins over the flat 12 months
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, 60)
	g := finance.Goal{TargetAmount: gbp(600), CurrentAmount: gbp(0), TargetDate: &target}
	got := g.RequiredMonthly(now).Round()
	if got.Value.String() != "300" {
		t.Errorf("RequiredMonthly = %s, want 300", got.Value)
	}
}

func TestGoal_RequiredMonthly_OverdueFallsBackToFlatHorizon(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	target := now.AddDate(0, 0, -30)
	g := finance.Goal{TargetAmount: gbp(1200), CurrentAmount: gbp(0), TargetDate: &target}
	got := g.RequiredMonthly(now).Round()
	if got.Value.String() != "100" {
		t.Errorf("RequiredMonthly = %s, want 100 (remaining / 12)", got.Value)
	}
}

func TestGoal_RemainingAndExcess(t *testing.T) {
	over := finance.Goal{TargetAmount: gbp(100), CurrentAmount: gbp(150)}
	if !over.Remaining().IsZero() {
		t.Error("over-funded goal should have zero remaining")
	}
	if got := over.Excess().Value.String(); got != "50" {
		t.Errorf("Excess = %s, want 50", got)
	}
	if !over.IsCompleted() {
		t.Error("over-funded goal is completed")
	}
}

// =============================================================================
// SAFETY POT RECORDS
// =============================================================================

func TestSafetyPot_MonthsCovered_ZeroExpenses(t *testing.T) {
	pot := finance.SafetyPot{CurrentAmount: gbp(500), MonthlyExpenses: gbp(0)}
	if !pot.MonthsCovered().IsZero() {
		t.Error("zero expenses should give zero coverage, not a division error")
	}
}

func TestDefaultSafetyPotPolicy_Target(t *testing.T) {
	policy := finance.DefaultSafetyPotPolicy(gbp(1000))
	if got := policy.Target(gbp(1000)).Value.String(); got != "3000" {
		t.Errorf("Target = %s, want 3000", got)
	}
	if got := policy.MaxAmount.Value.String(); got != "6000" {
		t.Errorf("MaxAmount = %s, want 6000", got)
	}
}
