/*
ledger.go - Household monthly contribution ledger row

PURPOSE:
  One row per partnership per month, built from a split breakdown. Each
  partner marks their share paid independently; status is derived from the
  paid flags and the calendar, never stored.

STATUS DERIVATION:
  complete: both partners paid
  overdue:  month elapsed and not both paid
  partial:  one partner paid, month still open
  pending:  otherwise
*/
package split

import (
	"time"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// LEDGER ROW
// =============================================================================

// LedgerRow is the household contribution ledger entry for one month.
type LedgerRow struct {
	ID            string
	PartnershipID finance.PartnershipID
	Month         finance.MonthKey

	User1Amount finance.Amount
	User2Amount finance.Amount

	User1Paid     bool
	User2Paid     bool
	User1PaidDate *time.Time
	User2PaidDate *time.Time

	TotalRequired finance.Amount
}

// Status is the derived payment state of a ledger row.
type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusOverdue  Status = "overdue"
	StatusPending  Status = "pending"
)

// NewLedgerRow builds the month's ledger row from a computed breakdown.
func NewLedgerRow(partnershipID finance.PartnershipID, b Breakdown) LedgerRow {
	return LedgerRow{
		PartnershipID: partnershipID,
		Month:         b.Month,
		User1Amount:   b.User1Share,
		User2Amount:   b.User2Share,
		TotalRequired: b.GrandTotal,
	}
}

// Status derives the row's payment state as of now. Once the month has
// elapsed, an unfinished row is overdue even if one partner paid.
func (r LedgerRow) Status(now time.Time) Status {
	switch {
	case r.User1Paid && r.User2Paid:
		return StatusComplete
	case r.Month.Elapsed(now):
		return StatusOverdue
	case r.User1Paid || r.User2Paid:
		return StatusPartial
	default:
		return StatusPending
	}
}

// MarkPaid records that the given partner paid their share and returns the
// updated row. The row itself is a value; the caller persists the result as
// a single atomic write.
func (r LedgerRow) MarkPaid(p finance.Partnership, userID finance.UserID, at time.Time) (LedgerRow, error) {
	switch userID {
	case p.User1:
		r.User1Paid = true
		r.User1PaidDate = &at
	case p.User2:
		r.User2Paid = true
		r.User2PaidDate = &at
	default:
		return r, finance.ErrUnknownUser
	}
	return r, nil
}

// PaidTotal returns the amount actually paid so far this month.
func (r LedgerRow) PaidTotal() finance.Amount {
	total := r.TotalRequired.Zero()
	if r.User1Paid {
		total = total.Add(r.User1Amount)
	}
	if r.User2Paid {
		total = total.Add(r.User2Amount)
	}
	return total
}
