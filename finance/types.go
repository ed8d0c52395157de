/*
types.go - Household records consumed by the calculation engines

PURPOSE:
  Plain records for everything a partnership owns: incomes, recurring
  expenses, savings goals, contribution history, and the safety pot.
  The engines are deterministic functions of these records; they hold no
  state and perform no I/O. Storage and transport layers hand in fresh
  snapshots and persist whatever the engines return.

KEY CONCEPTS:
  - Partnership: The two-user household unit that owns all entities
  - IncomePair: The two incomes a combined obligation is split against
  - Goal: A savings target with priority and optional target date
  - Contribution: An immutable monthly payment record (corrections are
    new inserts, never updates)
  - SafetyPot + SafetyPotPolicy: The emergency buffer and its sizing rules

SEE ALSO:
  - money.go: Amount arithmetic
  - split/: Contribution splitter consuming these records
  - goals/: Goal allocation and risk engine
  - safetypot/: Buffer health classification
  - streaks/: Contribution streak analysis
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type PartnershipID string
type UserID string

// =============================================================================
// PARTNERSHIP AND INCOMES
// =============================================================================

// Partnership is the two-user household that owns all financial entities.
// The engines never reason across partnerships.
type Partnership struct {
	ID       PartnershipID
	User1    UserID
	User2    UserID
	Currency Currency

	User1Income Amount
	User2Income Amount

	CreatedAt time.Time
}

// IncomePair carries the two incomes a combined obligation is split against.
type IncomePair struct {
	User1Income Amount
	User2Income Amount
}

func (p Partnership) Incomes() IncomePair {
	return IncomePair{User1Income: p.User1Income, User2Income: p.User2Income}
}

var half = decimal.RequireFromString("0.5")

// SplitRatio returns the fraction of a combined obligation assigned to
// partner 1, derived from relative income. Always in [0,1]. When both
// incomes are zero the ratio defaults to 0.5 (equal split).
func (ip IncomePair) SplitRatio() decimal.Decimal {
	combined := ip.User1Income.Value.Add(ip.User2Income.Value)
	if combined.IsZero() {
		return half
	}
	return ip.User1Income.Value.Div(combined)
}

// =============================================================================
// RECURRING EXPENSE
// =============================================================================

// Expense is a recurring obligation shared by the partnership.
type Expense struct {
	ID            string
	PartnershipID PartnershipID
	Name          string
	Amount        Amount
	Frequency     Frequency
}

// MonthlyEquivalent returns the expense normalized to a monthly amount.
func (e Expense) MonthlyEquivalent() Amount {
	return e.Frequency.MonthlyEquivalent(e.Amount)
}

// =============================================================================
// PRIORITY - Closed enum, mapped once at the system boundary
// =============================================================================

// Priority ranks goals. Lower value = more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityMedium Priority = 2
	PriorityLow    Priority = 3
)

// ParsePriority maps boundary values onto the closed enum. Legacy string
// priorities ("high"/"medium"/"low") map to {1,2,3}; unknown values default
// to medium.
func ParsePriority(s string) Priority {
	switch s {
	case "high", "1":
		return PriorityHigh
	case "low", "3":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityLow:
		return "low"
	default:
		return "medium"
	}
}

// =============================================================================
// GOAL - Savings target
// =============================================================================

// Goal is a savings target. Completed once CurrentAmount >= TargetAmount;
// contributions cap CurrentAmount at TargetAmount, so any excess comes from
// an explicit redistribution or pot reallocation.
type Goal struct {
	ID            string
	PartnershipID PartnershipID
	Name          string
	TargetAmount  Amount
	CurrentAmount Amount
	TargetDate    *time.Time
	Priority      Priority
	CreatedAt     time.Time
}

// Remaining returns the outstanding amount, floored at zero for over-funded
// goals (a goal never contributes a negative requirement).
func (g Goal) Remaining() Amount {
	return g.TargetAmount.Sub(g.CurrentAmount).FloorZero()
}

// Excess returns how far the goal is over its target, zero if under.
func (g Goal) Excess() Amount {
	return g.CurrentAmount.Sub(g.TargetAmount).FloorZero()
}

func (g Goal) IsCompleted() bool {
	return !g.CurrentAmount.LessThan(g.TargetAmount)
}

// DefaultHorizonMonths is the flat savings horizon assumed for goals without
// a target date.
const DefaultHorizonMonths = 12

var daysPerMonth = decimal.NewFromInt(30)

// RequiredMonthly returns the monthly contribution the goal needs: the
// outstanding amount over a flat 12-month horizon, unless a target date
// yields a tighter requirement. Overdue goals fall back to the flat horizon;
// the risk engine reports them separately.
func (g Goal) RequiredMonthly(now time.Time) Amount {
	remaining := g.Remaining()
	if remaining.IsZero() {
		return remaining
	}
	if g.TargetDate != nil {
		days := DaysUntil(now, *g.TargetDate)
		if days > 0 {
			months := decimal.NewFromInt(int64(days)).Div(daysPerMonth)
			if months.LessThan(twelve) && !months.IsZero() {
				return remaining.Div(months)
			}
		}
	}
	return remaining.Div(twelve)
}

// DaysUntil returns whole days from now until the target date. Negative when
// the date has passed.
func DaysUntil(now, target time.Time) int {
	return int(target.Sub(now).Hours() / 24)
}

// =============================================================================
// CONTRIBUTION - Immutable monthly payment record
// =============================================================================

// Contribution records one user's payment in a month. Records are immutable
// once written; a later correction is a new insert, not an update. Multiple
// records per month are summed when computing monthly totals.
type Contribution struct {
	ID            string
	PartnershipID PartnershipID
	UserID        UserID
	GoalID        string // empty when not goal-directed
	Month         MonthKey
	Amount        Amount
	Expected      Amount
	RecordedAt    time.Time
}

// Variance returns actual minus expected, used for accountability reporting.
func (c Contribution) Variance() Amount {
	return c.Amount.Sub(c.Expected)
}

// IsGoalDirected reports whether the contribution targets a specific goal.
// Detection is by explicit goal ID only; free-text category matching was a
// legacy behavior and is intentionally not supported.
func (c Contribution) IsGoalDirected() bool {
	return c.GoalID != ""
}

// =============================================================================
// SAFETY POT - Emergency buffer
// =============================================================================

// SafetyPot is the partnership's emergency buffer. One logical instance per
// partnership, lazily created with a zero balance on first read.
type SafetyPot struct {
	PartnershipID   PartnershipID
	CurrentAmount   Amount
	MonthlyExpenses Amount
	UpdatedAt       time.Time
}

// MonthsCovered returns how many months of expenses the buffer covers,
// zero when expenses are zero.
func (sp SafetyPot) MonthsCovered() decimal.Decimal {
	if sp.MonthlyExpenses.Value.IsZero() {
		return decimal.Zero
	}
	return sp.CurrentAmount.Value.Div(sp.MonthlyExpenses.Value)
}

// SafetyPotPolicy sizes the buffer and governs reallocation.
type SafetyPotPolicy struct {
	TargetMonths          int
	MinAmount             Amount
	MaxAmount             Amount
	ReallocationThreshold decimal.Decimal
}

// DefaultSafetyPotPolicy returns the standard policy: a three-month target
// and a 0.7 reallocation threshold. The minimum is a quarter-month of
// expenses (below that the pot is critical, not merely low) and the maximum
// is six months.
func DefaultSafetyPotPolicy(monthlyExpenses Amount) SafetyPotPolicy {
	return SafetyPotPolicy{
		TargetMonths:          3,
		MinAmount:             monthlyExpenses.Mul(decimal.RequireFromString("0.25")),
		MaxAmount:             monthlyExpenses.Mul(decimal.NewFromInt(6)),
		ReallocationThreshold: decimal.RequireFromString("0.7"),
	}
}

// Target returns the buffer size the policy aims for.
func (p SafetyPotPolicy) Target(monthlyExpenses Amount) Amount {
	return monthlyExpenses.Mul(decimal.NewFromInt(int64(p.TargetMonths)))
}
