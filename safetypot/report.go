/*
report.go - Monthly safety-pot report

PURPOSE:
  Turns a month's opening/closing balances and recorded flows into a
  human-readable delta summary plus the active suggestion list. When the pot
  is critical the summary carries an URGENT prefix.
*/
package safetypot

import (
	"fmt"
	"strings"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// MONTHLY REPORT
// =============================================================================

// ReportInput is everything the report is derived from. Balances and flows
// come from storage; the assessment comes from Assess on the closing state.
type ReportInput struct {
	Month          finance.MonthKey
	OpeningBalance finance.Amount
	ClosingBalance finance.Amount
	Contributions  finance.Amount
	Withdrawals    finance.Amount
	Assessment     Assessment
}

// Report is the rendered monthly summary.
type Report struct {
	Month       finance.MonthKey
	NetChange   finance.Amount
	Summary     string
	Suggestions []string
}

// MonthlyReport builds the month's report.
func (m *Manager) MonthlyReport(in ReportInput) Report {
	net := in.ClosingBalance.Sub(in.OpeningBalance)

	var b strings.Builder
	switch {
	case net.IsPositive():
		fmt.Fprintf(&b, "Safety pot grew by %s in %s", net.Format(), in.Month)
	case net.IsNegative():
		fmt.Fprintf(&b, "Safety pot shrank by %s in %s", net.Neg().Format(), in.Month)
	default:
		fmt.Fprintf(&b, "Safety pot was unchanged in %s", in.Month)
	}

	fmt.Fprintf(&b, " (contributions %s, withdrawals %s), now %s covering %s months of expenses.",
		in.Contributions.Format(),
		in.Withdrawals.Format(),
		in.ClosingBalance.Format(),
		in.Assessment.MonthsCovered.StringFixed(1),
	)

	summary := b.String()
	if in.Assessment.Status == StatusCritical {
		summary = "URGENT: " + summary
	}

	return Report{
		Month:       in.Month,
		NetChange:   net.Round(),
		Summary:     summary,
		Suggestions: in.Assessment.Suggestions,
	}
}
