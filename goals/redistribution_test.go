package goals_test

import (
	"testing"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/goals"
)

// =============================================================================
// REDISTRIBUTION PLANNING
// =============================================================================

func TestPlanRedistribution_ProportionalToRemaining(t *testing.T) {
	// GIVEN: One source with 400 excess; two open goals needing 600 and 200
	// WHEN: Planning redistribution
	// THEN: Awards are proportional (300 and 100)
	e := goals.NewEngine()
	plan := e.PlanRedistribution([]finance.Goal{
		goal("source", 1000, 1400, finance.PriorityMedium),
		goal("big", 600, 0, finance.PriorityMedium),
		goal("small", 200, 0, finance.PriorityMedium),
	})

	if got := plan.TotalExcess.Value.String(); got != "400" {
		t.Fatalf("TotalExcess = %s, want 400", got)
	}

	byID := make(map[string]goals.Award)
	for _, a := range plan.Awards {
		byID[a.GoalID] = a
	}
	if got := byID["big"].Amount.Value.String(); got != "300" {
		t.Errorf("big award = %s, want 300", got)
	}
	if got := byID["small"].Amount.Value.String(); got != "100" {
		t.Errorf("small award = %s, want 100", got)
	}
	if got := byID["big"].NewCurrentAmount.Value.String(); got != "300" {
		t.Errorf("big new balance = %s, want 300", got)
	}
	if !plan.Unallocated.IsZero() {
		t.Errorf("Unallocated = %s, want 0", plan.Unallocated.Value)
	}
}

func TestPlanRedistribution_AwardCappedAtRemaining(t *testing.T) {
	// GIVEN: 500 of excess but only 100 of total remaining need
	// WHEN: Planning
	// THEN: The open goal gets exactly its remaining; the rest is unallocated
	e := goals.NewEngine()
	plan := e.PlanRedistribution([]finance.Goal{
		goal("source", 1000, 1500, finance.PriorityMedium),
		goal("nearly", 1000, 900, finance.PriorityMedium),
	})

	if got := plan.Awards[0].Amount.Value.String(); got != "100" {
		t.Errorf("award = %s, want 100", got)
	}
	if got := plan.Unallocated.Value.String(); got != "400" {
		t.Errorf("Unallocated = %s, want 400", got)
	}
}

func TestPlanRedistribution_AwardsNeverExceedExcess(t *testing.T) {
	// Rounding goes down, so the sum of awards can never pass the excess.
	e := goals.NewEngine()
	plan := e.PlanRedistribution([]finance.Goal{
		goal("source", 100, 200, finance.PriorityMedium),
		goal("a", 100, 3, finance.PriorityMedium),
		goal("b", 100, 7, finance.PriorityMedium),
		goal("c", 100, 11, finance.PriorityMedium),
	})

	total := gbp(0)
	for _, a := range plan.Awards {
		total = total.Add(a.Amount)
	}
	if total.GreaterThan(plan.TotalExcess) {
		t.Errorf("awards sum %s exceeds excess %s", total.Value, plan.TotalExcess.Value)
	}
	if got := total.Add(plan.Unallocated); !got.Value.Equal(plan.TotalExcess.Value) {
		t.Errorf("awards + unallocated = %s, want %s", got.Value, plan.TotalExcess.Value)
	}
}

func TestPlanRedistribution_NoSources(t *testing.T) {
	e := goals.NewEngine()
	plan := e.PlanRedistribution([]finance.Goal{
		goal("open", 1000, 100, finance.PriorityMedium),
	})

	if len(plan.Sources) != 0 || len(plan.Awards) != 0 {
		t.Error("no completed goals means nothing to redistribute")
	}
	if !plan.TotalExcess.IsZero() {
		t.Errorf("TotalExcess = %s, want 0", plan.TotalExcess.Value)
	}
}

func TestPlanRedistribution_NoOpenGoals_AllUnallocated(t *testing.T) {
	e := goals.NewEngine()
	plan := e.PlanRedistribution([]finance.Goal{
		goal("done", 100, 150, finance.PriorityMedium),
	})

	if got := plan.Unallocated.Value.String(); got != "50" {
		t.Errorf("Unallocated = %s, want 50", got)
	}
	if len(plan.Awards) != 0 {
		t.Error("no open goals means no awards")
	}
}
