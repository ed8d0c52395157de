/*
Package streaks implements the progress and streak analyzer.

PURPOSE:
  Derives contribution streaks and an accountability summary from a user's
  full contribution history. Two streaks are tracked:

  Monthly streak:
    Walk distinct contribution months backward from the most recent one; the
    streak is the unbroken run ending there. The first gap resets the count -
    only a currently-active streak is credited. Longest-ever is NOT
    recomputed from history; it is a persisted high-water mark the caller
    supplies and writes back.

  Goal streak:
    The trailing run of goal-directed contributions (explicit goal ID) in
    storage order.

  The overall current streak is the larger of the two.

OUTPUT:
  A flat summary consumed directly by presentation code - no further
  transformation needed by the caller.
*/
package streaks

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
)

// =============================================================================
// ANALYZER
// =============================================================================

// Analyzer computes streak summaries. Stateless; safe for concurrent use.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// streakAtRiskAfter is how long without a contribution before the streak is
// flagged at risk.
const streakAtRiskAfter = 30 * 24 * time.Hour

// Input is a user's full contribution history (arbitrary order) plus the
// persisted longest-streak high-water mark.
type Input struct {
	Contributions []finance.Contribution
	Currency      finance.Currency

	// LongestStreak is the persisted high-water mark. The summary reports
	// max(LongestStreak, current); the caller persists that back.
	LongestStreak int

	Now time.Time
}

// Summary is the flat output consumed by presentation code.
type Summary struct {
	CurrentStreak int
	MonthlyStreak int
	GoalStreak    int
	LongestStreak int

	TotalContributions int
	TotalAmount        finance.Amount
	AverageAmount      finance.Amount
	ActiveMonths       int

	// DaysSinceLastContribution is -1 when there is no history.
	DaysSinceLastContribution int
	IsStreakAtRisk            bool
}

// Analyze computes the streak summary for one user's history.
func (a *Analyzer) Analyze(in Input) Summary {
	zero := finance.NewAmount(0, in.Currency)
	s := Summary{
		TotalAmount:               zero,
		AverageAmount:             zero,
		LongestStreak:             in.LongestStreak,
		DaysSinceLastContribution: -1,
	}

	if len(in.Contributions) == 0 {
		return s
	}

	months := make(map[finance.MonthKey]int)
	var lastRecorded time.Time
	for _, c := range in.Contributions {
		months[c.Month]++
		s.TotalAmount = s.TotalAmount.Add(c.Amount)
		if c.RecordedAt.After(lastRecorded) {
			lastRecorded = c.RecordedAt
		}
	}

	s.TotalContributions = len(in.Contributions)
	s.ActiveMonths = len(months)
	s.AverageAmount = s.TotalAmount.Div(decimal.NewFromInt(int64(s.TotalContributions))).Round()

	s.MonthlyStreak = monthlyStreak(months)
	s.GoalStreak = goalStreak(in.Contributions)
	s.CurrentStreak = s.MonthlyStreak
	if s.GoalStreak > s.CurrentStreak {
		s.CurrentStreak = s.GoalStreak
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	if !lastRecorded.IsZero() {
		since := in.Now.Sub(lastRecorded)
		if since < 0 {
			since = 0
		}
		s.DaysSinceLastContribution = int(since.Hours() / 24)
		s.IsStreakAtRisk = since > streakAtRiskAfter
	}

	return s
}

// monthlyStreak counts consecutive months with at least one contribution,
// scanning backward from the most recent month. The first gap ends the run.
func monthlyStreak(months map[finance.MonthKey]int) int {
	if len(months) == 0 {
		return 0
	}

	keys := make([]finance.MonthKey, 0, len(months))
	for m := range months {
		keys = append(keys, m)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[j].Before(keys[i]) })

	streak := 1
	for i := 1; i < len(keys); i++ {
		if keys[i-1].Prev() != keys[i] {
			break
		}
		streak++
	}
	return streak
}

// goalStreak counts the trailing run of goal-directed contributions in
// storage order.
func goalStreak(contributions []finance.Contribution) int {
	streak := 0
	for i := len(contributions) - 1; i >= 0; i-- {
		if !contributions[i].IsGoalDirected() {
			break
		}
		streak++
	}
	return streak
}
