/*
Package goals implements the goal allocation and risk engine.

PURPOSE:
  For each savings goal, compute progress, time-boxed contribution needs,
  a feasibility score, a risk tier, and a recommended slice of the monthly
  contribution budget. The engine mutates nothing; it returns
  recommendations for the caller to apply.

FEASIBILITY AND RISK:
  Feasibility compares the goal's required monthly contribution against a
  reference rate: the household's historically sustained contribution when
  known, otherwise the monthly budget. A goal needing no more than the
  reference scores 100. Past-due target dates halve the score. Risk tiers
  follow the score, with overdue goals pinned to critical and high-priority
  goals that are off-track bumped one tier upward.

ALLOCATION:
  Goals are ranked by priority (ascending) then risk severity (descending).
  The budget is handed out greedily in rank order, capped at each goal's own
  required contribution - a goal is never recommended more than it needs.

SEE ALSO:
  - redistribution.go: Surplus redistribution from over-funded goals
  - split/: Uses the same per-goal monthly requirement for the household total
*/
package goals

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// RISK TIER
// =============================================================================

type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// severity orders tiers for ranking; higher = riskier.
func (r RiskTier) severity() int {
	switch r {
	case RiskCritical:
		return 3
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// bumped returns the next tier up, capped at critical.
func (r RiskTier) bumped() RiskTier {
	switch r {
	case RiskLow:
		return RiskMedium
	case RiskMedium:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// =============================================================================
// PER-GOAL ASSESSMENT
// =============================================================================

// TimeBox carries target-date arithmetic for goals that have one.
type TimeBox struct {
	// DaysRemaining is reported as an absolute value; IsOverdue carries the
	// sign.
	DaysRemaining int
	IsOverdue     bool

	MonthsRemaining     int
	WeeklyContribution  finance.Amount
	MonthlyContribution finance.Amount
}

// Assessment is the computed state of a single goal.
type Assessment struct {
	GoalID   string
	Name     string
	Priority finance.Priority

	ProgressPercentage decimal.Decimal // clamped to [0,100]
	IsCompleted        bool
	Remaining          finance.Amount

	TimeBox *TimeBox // nil when the goal has no target date

	RequiredMonthly  finance.Amount
	FeasibilityScore int // 0-100
	RiskTier         RiskTier

	// RecommendedPercent of the monthly budget, and the amount it implies.
	RecommendedPercent decimal.Decimal
	RecommendedMonthly finance.Amount
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes goal assessments and allocation plans. Stateless; safe for
// concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// AllocationInput is a fresh snapshot of the partnership's goals and budget.
type AllocationInput struct {
	Goals    []finance.Goal
	Currency finance.Currency

	// MonthlyBudget is the total monthly contribution budget to distribute.
	MonthlyBudget finance.Amount

	// SustainedMonthly is the household's historically sustained monthly
	// contribution rate. Zero when no history exists.
	SustainedMonthly finance.Amount

	Now time.Time
}

// AllocationPlan is the computed allocation across all goals, ordered by
// rank (highest priority/risk first).
type AllocationPlan struct {
	Assessments      []Assessment
	TotalRequired    finance.Amount
	TotalRecommended finance.Amount
}

var (
	hundred = decimal.NewFromInt(100)
	seven   = decimal.NewFromInt(7)
	thirty  = decimal.NewFromInt(30)
)

// Assess computes the per-goal state without budget distribution.
// referenceRate is the contribution rate feasibility is measured against.
func (e *Engine) Assess(g finance.Goal, referenceRate finance.Amount, now time.Time) Assessment {
	a := Assessment{
		GoalID:             g.ID,
		Name:               g.Name,
		Priority:           g.Priority,
		ProgressPercentage: progressPercentage(g),
		IsCompleted:        g.IsCompleted(),
		Remaining:          g.Remaining(),
		RequiredMonthly:    g.RequiredMonthly(now).Round(),
	}

	if g.TargetDate != nil {
		a.TimeBox = timeBox(g, now)
	}

	a.FeasibilityScore = feasibilityScore(a, referenceRate)
	a.RiskTier = riskTier(a)
	return a
}

// Allocate assesses every goal and distributes the monthly budget.
func (e *Engine) Allocate(in AllocationInput) AllocationPlan {
	zero := finance.NewAmount(0, in.Currency)

	reference := in.SustainedMonthly
	if !reference.IsPositive() {
		reference = in.MonthlyBudget
	}

	plan := AllocationPlan{
		TotalRequired:    zero,
		TotalRecommended: zero,
	}

	for _, g := range in.Goals {
		a := e.Assess(g, reference, in.Now)
		plan.TotalRequired = plan.TotalRequired.Add(a.RequiredMonthly)
		plan.Assessments = append(plan.Assessments, a)
	}

	// Rank: priority ascending, then risk severity descending. Stable so
	// equal goals keep their input order.
	sort.SliceStable(plan.Assessments, func(i, j int) bool {
		ai, aj := plan.Assessments[i], plan.Assessments[j]
		if ai.Priority != aj.Priority {
			return ai.Priority < aj.Priority
		}
		return ai.RiskTier.severity() > aj.RiskTier.severity()
	})

	// Greedy hand-out in rank order, capped at each goal's own need.
	budget := in.MonthlyBudget.FloorZero()
	left := budget
	for i := range plan.Assessments {
		a := &plan.Assessments[i]
		if a.IsCompleted || !left.IsPositive() {
			a.RecommendedMonthly = zero
			a.RecommendedPercent = decimal.Zero
			continue
		}
		grant := a.RequiredMonthly.Min(left).Round()
		a.RecommendedMonthly = grant
		if budget.IsPositive() {
			a.RecommendedPercent = grant.Value.Div(budget.Value).Mul(hundred).Round(1)
		}
		left = left.Sub(grant)
		plan.TotalRecommended = plan.TotalRecommended.Add(grant)
	}

	return plan
}

// =============================================================================
// DERIVATIONS
// =============================================================================

// progressPercentage returns min(current/target, 1) x 100. Monotonic in
// CurrentAmount and clamped to [0,100].
func progressPercentage(g finance.Goal) decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return hundred
	}
	pct := g.CurrentAmount.Value.Div(g.TargetAmount.Value).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	if pct.IsNegative() {
		return decimal.Zero
	}
	return pct.Round(2)
}

func timeBox(g finance.Goal, now time.Time) *TimeBox {
	days := finance.DaysUntil(now, *g.TargetDate)
	tb := &TimeBox{
		DaysRemaining:       abs(days),
		IsOverdue:           days < 0,
		WeeklyContribution:  g.Remaining().Zero(),
		MonthlyContribution: g.Remaining().Zero(),
	}

	if days > 0 {
		d := decimal.NewFromInt(int64(days))
		tb.MonthsRemaining = int(d.Div(thirty).Ceil().IntPart())
		tb.WeeklyContribution = g.Remaining().Div(d.Div(seven)).Round()
		tb.MonthlyContribution = g.Remaining().Div(d.Div(thirty)).Round()
	}
	return tb
}

// feasibilityScore compares required rate against the reference rate.
func feasibilityScore(a Assessment, reference finance.Amount) int {
	if a.IsCompleted {
		return 100
	}
	score := hundred
	if a.RequiredMonthly.IsPositive() {
		if !reference.IsPositive() {
			score = decimal.Zero
		} else {
			score = reference.Value.Div(a.RequiredMonthly.Value).Mul(hundred)
			if score.GreaterThan(hundred) {
				score = hundred
			}
		}
	}
	if a.TimeBox != nil && a.TimeBox.IsOverdue {
		score = score.Div(decimal.NewFromInt(2))
	}
	return int(score.Round(0).IntPart())
}

func riskTier(a Assessment) RiskTier {
	if a.IsCompleted {
		return RiskLow
	}
	if a.TimeBox != nil && a.TimeBox.IsOverdue {
		return RiskCritical
	}

	var tier RiskTier
	switch {
	case a.FeasibilityScore >= 75:
		tier = RiskLow
	case a.FeasibilityScore >= 50:
		tier = RiskMedium
	case a.FeasibilityScore >= 25:
		tier = RiskHigh
	default:
		tier = RiskCritical
	}

	// High-priority goals that are not comfortably on track are tiered
	// upward.
	if a.Priority == finance.PriorityHigh && a.FeasibilityScore < 75 {
		tier = tier.bumped()
	}
	return tier
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
