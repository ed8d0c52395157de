/*
Package safetypot implements the emergency-buffer manager.

PURPOSE:
  Classifies the safety pot's health from one continuous variable - months
  of expenses covered - into four buckets, scores it 0-100, sizes an
  affordable monthly top-up, and suggests reallocating idle cash when the
  buffer exceeds policy limits.

BUCKETS:
  critical: balance below the policy minimum
  excess:   balance above the policy maximum
  low:      less than one month covered
  adequate: everything in between

HEALTH SCORE:
  0 at critical; up to 50 across 0->1 months covered; 50-90 across
  1->targetMonths; 90-100 in excess, decreasing the further above target the
  buffer sits to discourage idle cash.

SEE ALSO:
  - report.go: Human-readable monthly delta report
  - finance/types.go: SafetyPot and SafetyPotPolicy records
*/
package safetypot

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// STATUS BUCKETS
// =============================================================================

type Status string

const (
	StatusCritical Status = "critical"
	StatusLow      Status = "low"
	StatusAdequate Status = "adequate"
	StatusExcess   Status = "excess"
)

// =============================================================================
// ASSESSMENT
// =============================================================================

// Reallocation suggests moving idle buffer cash toward goals.
type Reallocation struct {
	Excess          finance.Amount
	SuggestedAmount finance.Amount
}

// Assessment is the computed state of the safety pot. A pure function of
// (pot, policy): the same input always yields the same bucket and score.
type Assessment struct {
	Status        Status
	MonthsCovered decimal.Decimal
	TargetAmount  finance.Amount
	Deficit       finance.Amount
	HealthScore   int // 0-100

	OptimalMonthlyContribution finance.Amount

	// Reallocation is non-nil only in the excess bucket.
	Reallocation *Reallocation

	Suggestions []string
}

// Manager classifies and sizes the safety pot. Stateless; safe for
// concurrent use.
type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// topUpMonths amortizes the deficit over the same horizon the splitter uses
// for goal requirements.
const topUpMonths = finance.DefaultHorizonMonths

// affordabilityCap limits the suggested monthly top-up to 20% of monthly
// expenses, trading speed-to-target for affordability.
var affordabilityCap = decimal.RequireFromString("0.20")

var (
	oneD     = decimal.NewFromInt(1)
	twoD     = decimal.NewFromInt(2)
	fortyD   = decimal.NewFromInt(40)
	fiftyD   = decimal.NewFromInt(50)
	ninetyD  = decimal.NewFromInt(90)
	hundredD = decimal.NewFromInt(100)
)

// Assess classifies the pot against the policy.
func (m *Manager) Assess(pot finance.SafetyPot, policy finance.SafetyPotPolicy) Assessment {
	covered := pot.MonthsCovered()
	target := policy.Target(pot.MonthlyExpenses)
	deficit := target.Sub(pot.CurrentAmount).FloorZero()

	a := Assessment{
		MonthsCovered: covered.Round(2),
		TargetAmount:  target.Round(),
		Deficit:       deficit.Round(),
	}

	targetMonths := decimal.NewFromInt(int64(policy.TargetMonths))

	switch {
	case pot.CurrentAmount.LessThan(policy.MinAmount):
		a.Status = StatusCritical
	case pot.CurrentAmount.GreaterThan(policy.MaxAmount):
		a.Status = StatusExcess
	case covered.LessThan(oneD):
		a.Status = StatusLow
	default:
		a.Status = StatusAdequate
	}

	a.HealthScore = healthScore(a.Status, covered, targetMonths)

	a.OptimalMonthlyContribution = deficit.
		Div(decimal.NewFromInt(topUpMonths)).
		Min(pot.MonthlyExpenses.Mul(affordabilityCap)).
		Round()

	if a.Status == StatusExcess {
		excess := pot.CurrentAmount.Sub(policy.MaxAmount)
		a.Reallocation = &Reallocation{
			Excess:          excess.Round(),
			SuggestedAmount: excess.Mul(policy.ReallocationThreshold).Round(),
		}
	}

	a.Suggestions = suggestions(a)
	return a
}

// healthScore maps the bucket and coverage onto 0-100.
func healthScore(status Status, covered, targetMonths decimal.Decimal) int {
	var score decimal.Decimal

	switch status {
	case StatusCritical:
		return 0
	case StatusLow:
		// 0 -> 50 points across 0 -> 1 months covered.
		score = covered.Mul(fiftyD)
	case StatusExcess:
		// 90 -> 100, slipping 2 points per month above target.
		over := covered.Sub(targetMonths)
		score = hundredD.Sub(over.Mul(twoD))
		if score.LessThan(ninetyD) {
			score = ninetyD
		}
	default: // adequate
		// 50 + up to 40 points across the 1 -> targetMonths range.
		span := targetMonths.Sub(oneD)
		if !span.IsPositive() {
			score = ninetyD
		} else {
			score = fiftyD.Add(covered.Sub(oneD).Div(span).Mul(fortyD))
			if score.GreaterThan(ninetyD) {
				score = ninetyD
			}
		}
	}

	if score.IsNegative() {
		return 0
	}
	if score.GreaterThan(hundredD) {
		return 100
	}
	return int(score.Round(0).IntPart())
}

func suggestions(a Assessment) []string {
	switch a.Status {
	case StatusCritical:
		return []string{
			fmt.Sprintf("URGENT: your safety pot is below the minimum - top up %s as soon as possible", a.Deficit.Format()),
		}
	case StatusLow:
		return []string{
			fmt.Sprintf("Your safety pot covers less than one month of expenses - aim to add %s per month", a.OptimalMonthlyContribution.Format()),
		}
	case StatusExcess:
		return []string{
			fmt.Sprintf("Your safety pot is above the policy maximum - consider moving %s toward your goals", a.Reallocation.SuggestedAmount.Format()),
		}
	default:
		if a.Deficit.IsPositive() {
			return []string{
				fmt.Sprintf("On track - %s per month reaches your %s target", a.OptimalMonthlyContribution.Format(), a.TargetAmount.Format()),
			}
		}
		return []string{"Your safety pot is fully funded"}
	}
}

// =============================================================================
// WRITE PATH - pure state transitions for the caller to persist
// =============================================================================

// Contribute returns the pot after adding amount. The caller persists the
// result as a single atomic read-modify-write.
func (m *Manager) Contribute(pot finance.SafetyPot, amount finance.Amount) (finance.SafetyPot, error) {
	if !amount.IsPositive() {
		return pot, finance.ErrInvalidAmount
	}
	pot.CurrentAmount = pot.CurrentAmount.Add(amount)
	return pot, nil
}

// Withdraw returns the pot after removing amount. Withdrawing more than is
// available is the one surfaced business error in this package.
func (m *Manager) Withdraw(pot finance.SafetyPot, amount finance.Amount) (finance.SafetyPot, error) {
	if !amount.IsPositive() {
		return pot, finance.ErrInvalidAmount
	}
	if amount.GreaterThan(pot.CurrentAmount) {
		return pot, &finance.InsufficientFundsError{
			Available: pot.CurrentAmount,
			Requested: amount,
		}
	}
	pot.CurrentAmount = pot.CurrentAmount.Sub(amount)
	return pot, nil
}
