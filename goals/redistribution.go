/*
redistribution.go - Surplus redistribution planning

PURPOSE:
  When completed goals hold more than their target (e.g. after a shared-pot
  reallocation), the excess is moved into incomplete goals proportionally to
  each goal's outstanding remaining amount, capped at that remaining amount.
  The engine only plans; the caller applies the new CurrentAmount values,
  atomically per goal.

INVARIANTS:
  - No goal is ever awarded more than its remaining amount
  - The sum of awards never exceeds the total excess
  - Goals with zero remaining receive nothing
*/
package goals

import (
	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// REDISTRIBUTION PLAN
// =============================================================================

// Source identifies an over-funded goal contributing excess.
type Source struct {
	GoalID string
	Excess finance.Amount
}

// Award is the planned top-up for one under-funded goal.
type Award struct {
	GoalID string
	Amount finance.Amount

	// NewCurrentAmount is the goal's balance after the award is applied.
	NewCurrentAmount finance.Amount
}

// RedistributionPlan moves surplus from over-funded goals into incomplete
// ones. Unallocated is whatever excess could not be placed (all remaining
// needs met, or rounding leftovers).
type RedistributionPlan struct {
	TotalExcess finance.Amount
	Sources     []Source
	Awards      []Award
	Unallocated finance.Amount
}

// PlanRedistribution computes the surplus plan for a set of goals.
// Awards are proportional to remaining need:
//
//	award_i = (remaining_i / sum(remaining)) x totalExcess, capped at remaining_i
//
// Amounts are rounded down so the awards can never sum past the excess.
func (e *Engine) PlanRedistribution(gs []finance.Goal) RedistributionPlan {
	var currency finance.Currency = finance.CurrencyGBP
	if len(gs) > 0 {
		currency = gs[0].TargetAmount.Currency
	}
	zero := finance.NewAmount(0, currency)

	plan := RedistributionPlan{TotalExcess: zero, Unallocated: zero}

	totalRemaining := zero
	for _, g := range gs {
		if g.IsCompleted() {
			if excess := g.Excess(); excess.IsPositive() {
				plan.Sources = append(plan.Sources, Source{GoalID: g.ID, Excess: excess})
				plan.TotalExcess = plan.TotalExcess.Add(excess)
			}
			continue
		}
		totalRemaining = totalRemaining.Add(g.Remaining())
	}

	if !plan.TotalExcess.IsPositive() || !totalRemaining.IsPositive() {
		plan.Unallocated = plan.TotalExcess
		return plan
	}

	allocated := zero
	for _, g := range gs {
		if g.IsCompleted() {
			continue
		}
		remaining := g.Remaining()
		if !remaining.IsPositive() {
			continue
		}

		share := plan.TotalExcess.Mul(remaining.Value.Div(totalRemaining.Value))
		award := share.Min(remaining).RoundDown()
		if !award.IsPositive() {
			continue
		}

		plan.Awards = append(plan.Awards, Award{
			GoalID:           g.ID,
			Amount:           award,
			NewCurrentAmount: g.CurrentAmount.Add(award),
		})
		allocated = allocated.Add(award)
	}

	plan.Unallocated = plan.TotalExcess.Sub(allocated)
	return plan
}
