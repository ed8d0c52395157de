/*
Package split implements the contribution splitter: the proportional division
of a household's combined monthly obligation between two incomes.

PURPOSE:
  Given recurring expenses, active savings goals, a safety-pot target, and
  the two partner incomes, compute each partner's share for a month. The
  splitter is a pure function of its input; the caller persists the result
  as the month's household ledger row.

ALGORITHM:
  1. Normalize every expense to its monthly-equivalent and sum
  2. Sum the monthly requirement of every incomplete goal (flat 12-month
     horizon unless a target date is tighter)
  3. Amortize the outstanding safety-pot top-up over 12 months
  4. Split the grand total by the income ratio (0.5 when both incomes are 0)

SEE ALSO:
  - ledger.go: Household ledger row built from a breakdown
  - goals/: Per-goal allocation detail behind step 2
*/
package split

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// SPLITTER - Proportional obligation split
// =============================================================================

// Splitter computes a partnership's monthly split breakdown. Stateless;
// safe for concurrent use.
type Splitter struct{}

func NewSplitter() *Splitter { return &Splitter{} }

// Input is a fresh snapshot of everything the split depends on. Amount
// validation happens before this point; the splitter assumes well-formed
// input.
type Input struct {
	Month    finance.MonthKey
	Currency finance.Currency

	Expenses []finance.Expense
	Goals    []finance.Goal

	// SafetyPotTarget is the policy target for the emergency buffer.
	SafetyPotTarget finance.Amount

	Incomes finance.IncomePair

	// Now anchors target-date arithmetic for goal requirements.
	Now time.Time
}

// Breakdown is the computed split for one month.
type Breakdown struct {
	Month finance.MonthKey

	ExpensesTotal  finance.Amount
	GoalsTotal     finance.Amount
	SafetyPotTotal finance.Amount
	GrandTotal     finance.Amount

	SplitRatio decimal.Decimal
	User1Share finance.Amount
	User2Share finance.Amount
}

var one = decimal.NewFromInt(1)

// Calculate computes the month's split breakdown.
func (s *Splitter) Calculate(in Input) Breakdown {
	zero := finance.NewAmount(0, in.Currency)

	expensesTotal := zero
	for _, e := range in.Expenses {
		expensesTotal = expensesTotal.Add(e.MonthlyEquivalent())
	}

	goalsTotal := zero
	for _, g := range in.Goals {
		if g.IsCompleted() {
			continue
		}
		goalsTotal = goalsTotal.Add(g.RequiredMonthly(in.Now))
	}

	// Outstanding buffer need, assuming three months of expenses already set
	// aside, amortized over the default horizon.
	safetyPotTotal := in.SafetyPotTarget.
		Sub(expensesTotal.Mul(decimal.NewFromInt(3))).
		FloorZero().
		Div(decimal.NewFromInt(finance.DefaultHorizonMonths))

	grandTotal := expensesTotal.Add(goalsTotal).Add(safetyPotTotal)

	ratio := in.Incomes.SplitRatio()

	return Breakdown{
		Month:          in.Month,
		ExpensesTotal:  expensesTotal.Round(),
		GoalsTotal:     goalsTotal.Round(),
		SafetyPotTotal: safetyPotTotal.Round(),
		GrandTotal:     grandTotal.Round(),
		SplitRatio:     ratio,
		User1Share:     grandTotal.Mul(ratio).Round(),
		User2Share:     grandTotal.Mul(one.Sub(ratio)).Round(),
	}
}
