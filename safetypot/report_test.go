package safetypot_test

import (
	"strings"
	"testing"
	"time"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/safetypot"
)

func march() finance.MonthKey {
	return finance.MonthKey{Year: 2025, Month: time.March}
}

func TestMonthlyReport_Growth(t *testing.T) {
	// GIVEN: The pot grew from 1,000 to 1,150 over March
	// WHEN: Building the report
	// THEN: The summary states the growth and coverage
	m := safetypot.NewManager()
	closing := pot(1150, 1000)

	r := m.MonthlyReport(safetypot.ReportInput{
		Month:          march(),
		OpeningBalance: gbp(1000),
		ClosingBalance: closing.CurrentAmount,
		Contributions:  gbp(200),
		Withdrawals:    gbp(50),
		Assessment:     m.Assess(closing, finance.DefaultSafetyPotPolicy(closing.MonthlyExpenses)),
	})

	if got := r.NetChange.Value.String(); got != "150" {
		t.Errorf("NetChange = %s, want 150", got)
	}
	if !strings.Contains(r.Summary, "grew by £150.00") {
		t.Errorf("summary missing growth: %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "2025-03") {
		t.Errorf("summary missing month: %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "1.2 months") {
		t.Errorf("summary missing coverage: %q", r.Summary)
	}
}

func TestMonthlyReport_Shrinkage(t *testing.T) {
	m := safetypot.NewManager()
	closing := pot(800, 1000)

	r := m.MonthlyReport(safetypot.ReportInput{
		Month:          march(),
		OpeningBalance: gbp(1000),
		ClosingBalance: closing.CurrentAmount,
		Contributions:  gbp(0),
		Withdrawals:    gbp(200),
		Assessment:     m.Assess(closing, finance.DefaultSafetyPotPolicy(closing.MonthlyExpenses)),
	})

	if got := r.NetChange.Value.String(); got != "-200" {
		t.Errorf("NetChange = %s, want -200", got)
	}
	if !strings.Contains(r.Summary, "shrank by £200.00") {
		t.Errorf("summary missing shrinkage: %q", r.Summary)
	}
}

func TestMonthlyReport_CriticalIsUrgent(t *testing.T) {
	m := safetypot.NewManager()
	closing := pot(100, 1000)

	r := m.MonthlyReport(safetypot.ReportInput{
		Month:          march(),
		OpeningBalance: gbp(100),
		ClosingBalance: closing.CurrentAmount,
		Contributions:  gbp(0),
		Withdrawals:    gbp(0),
		Assessment:     m.Assess(closing, finance.DefaultSafetyPotPolicy(closing.MonthlyExpenses)),
	})

	if !strings.HasPrefix(r.Summary, "URGENT:") {
		t.Errorf("critical report should be urgent: %q", r.Summary)
	}
	if !strings.Contains(r.Summary, "unchanged") {
		t.Errorf("summary missing unchanged wording: %q", r.Summary)
	}
}
