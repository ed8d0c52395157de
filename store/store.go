/*
Package store defines the persistence interfaces for partnership data.

PURPOSE:
  The engines are pure; all state lives behind these interfaces. Handlers
  load a fresh snapshot, run the engines, and persist the returned values.
  Writes to shared rows (goal balances, the safety pot, ledger rows) must be
  applied as a single atomic read-modify-write per entity.

IMPLEMENTATIONS:
  store/memory: In-memory maps for tests and development
  store/sqlite: SQLite with WAL and auto-migration

ROW LAYOUT (one row per):
  - partnership
  - recurring expense
  - goal
  - contribution per user per month (insert-only)
  - partnership per month in the household ledger
  - partnership safety pot (lazily created with zero balance)
*/
package store

import (
	"context"
	"time"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
)

// PotFlow is one signed safety-pot movement: positive for a contribution,
// negative for a withdrawal. Flows are insert-only and let monthly reports
// reconstruct any month's opening balance from the current one.
type PotFlow struct {
	ID            string
	PartnershipID finance.PartnershipID
	Month         finance.MonthKey
	Amount        finance.Amount
	RecordedAt    time.Time
}

// Store is the full persistence surface used by the API layer.
type Store interface {
	// Partnerships
	Partnership(ctx context.Context, id finance.PartnershipID) (finance.Partnership, error)
	SavePartnership(ctx context.Context, p finance.Partnership) error
	ListPartnerships(ctx context.Context) ([]finance.Partnership, error)

	// Recurring expenses
	Expenses(ctx context.Context, id finance.PartnershipID) ([]finance.Expense, error)
	SaveExpense(ctx context.Context, e finance.Expense) error
	DeleteExpense(ctx context.Context, id finance.PartnershipID, expenseID string) error

	// Goals
	Goals(ctx context.Context, id finance.PartnershipID) ([]finance.Goal, error)
	Goal(ctx context.Context, id finance.PartnershipID, goalID string) (finance.Goal, error)
	SaveGoal(ctx context.Context, g finance.Goal) error

	// Contributions are insert-only; corrections are new inserts.
	Contributions(ctx context.Context, id finance.PartnershipID) ([]finance.Contribution, error)
	ContributionsByUser(ctx context.Context, id finance.PartnershipID, userID finance.UserID) ([]finance.Contribution, error)
	AddContribution(ctx context.Context, c finance.Contribution) error

	// Household monthly ledger
	LedgerRow(ctx context.Context, id finance.PartnershipID, month finance.MonthKey) (split.LedgerRow, error)
	SaveLedgerRow(ctx context.Context, row split.LedgerRow) error
	LedgerRows(ctx context.Context, id finance.PartnershipID) ([]split.LedgerRow, error)

	// Safety pot: one logical instance per partnership, zero balance on
	// first read. Flows are insert-only.
	SafetyPot(ctx context.Context, id finance.PartnershipID) (finance.SafetyPot, error)
	SaveSafetyPot(ctx context.Context, pot finance.SafetyPot) error
	AddPotFlow(ctx context.Context, flow PotFlow) error
	PotFlows(ctx context.Context, id finance.PartnershipID) ([]PotFlow, error)

	// Streak high-water mark per user.
	LongestStreak(ctx context.Context, id finance.PartnershipID, userID finance.UserID) (int, error)
	SaveLongestStreak(ctx context.Context, id finance.PartnershipID, userID finance.UserID, streak int) error

	Close() error
}
