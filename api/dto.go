/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine outputs from the external API contract. Amounts are serialized
  both as numbers (for arithmetic on the client) and as formatted strings
  (for display).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. The engines assume validated
  input, so the handlers are the validation layer.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/goals"
	"github.com/TheLaughingGod1986/split-save-sub004/safetypot"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
	"github.com/TheLaughingGod1986/split-save-sub004/streaks"
)

// =============================================================================
// COMMON
// =============================================================================

// MoneyDTO carries an amount as both a number and a display string.
type MoneyDTO struct {
	Amount    float64 `json:"amount"`
	Formatted string  `json:"formatted"`
}

func money(a finance.Amount) MoneyDTO {
	return MoneyDTO{Amount: a.Round().Value.InexactFloat64(), Formatted: a.Round().Format()}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// PARTNERSHIPS
// =============================================================================

type PartnershipDTO struct {
	ID          string   `json:"id"`
	User1       string   `json:"user1_id"`
	User2       string   `json:"user2_id"`
	Currency    string   `json:"currency"`
	User1Income MoneyDTO `json:"user1_income"`
	User2Income MoneyDTO `json:"user2_income"`
}

type CreatePartnershipRequest struct {
	ID          string  `json:"id"`
	User1       string  `json:"user1_id"`
	User2       string  `json:"user2_id"`
	Currency    string  `json:"currency"`
	User1Income float64 `json:"user1_income"`
	User2Income float64 `json:"user2_income"`
}

type UpdateIncomesRequest struct {
	User1Income float64 `json:"user1_income"`
	User2Income float64 `json:"user2_income"`
}

func partnershipDTO(p finance.Partnership) PartnershipDTO {
	return PartnershipDTO{
		ID:          string(p.ID),
		User1:       string(p.User1),
		User2:       string(p.User2),
		Currency:    string(p.Currency),
		User1Income: money(p.User1Income),
		User2Income: money(p.User2Income),
	}
}

// =============================================================================
// EXPENSES AND GOALS
// =============================================================================

type ExpenseDTO struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Amount            MoneyDTO `json:"amount"`
	Frequency         string   `json:"frequency"`
	MonthlyEquivalent MoneyDTO `json:"monthly_equivalent"`
}

type CreateExpenseRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
}

func expenseDTO(e finance.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:                e.ID,
		Name:              e.Name,
		Amount:            money(e.Amount),
		Frequency:         string(e.Frequency),
		MonthlyEquivalent: money(e.MonthlyEquivalent()),
	}
}

type GoalDTO struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	TargetAmount  MoneyDTO `json:"target_amount"`
	CurrentAmount MoneyDTO `json:"current_amount"`
	TargetDate    *string  `json:"target_date,omitempty"`
	Priority      string   `json:"priority"`
	IsCompleted   bool     `json:"is_completed"`
}

// CreateGoalRequest accepts priority as "high"/"medium"/"low" or the legacy
// "1"/"2"/"3"; it is mapped onto the closed enum here, once, at the boundary.
type CreateGoalRequest struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	TargetDate    *string `json:"target_date,omitempty"` // "2006-01-02"
	Priority      string  `json:"priority"`
}

func goalDTO(g finance.Goal) GoalDTO {
	dto := GoalDTO{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  money(g.TargetAmount),
		CurrentAmount: money(g.CurrentAmount),
		Priority:      g.Priority.String(),
		IsCompleted:   g.IsCompleted(),
	}
	if g.TargetDate != nil {
		d := g.TargetDate.Format("2006-01-02")
		dto.TargetDate = &d
	}
	return dto
}

// =============================================================================
// SPLIT BREAKDOWN AND LEDGER
// =============================================================================

type BreakdownDTO struct {
	Month          string   `json:"month"`
	ExpensesTotal  MoneyDTO `json:"expenses_total"`
	GoalsTotal     MoneyDTO `json:"goals_total"`
	SafetyPotTotal MoneyDTO `json:"safety_pot_total"`
	GrandTotal     MoneyDTO `json:"grand_total"`
	SplitRatio     float64  `json:"split_ratio"`
	User1Share     MoneyDTO `json:"user1_share"`
	User2Share     MoneyDTO `json:"user2_share"`
}

func breakdownDTO(b split.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		Month:          b.Month.String(),
		ExpensesTotal:  money(b.ExpensesTotal),
		GoalsTotal:     money(b.GoalsTotal),
		SafetyPotTotal: money(b.SafetyPotTotal),
		GrandTotal:     money(b.GrandTotal),
		SplitRatio:     b.SplitRatio.InexactFloat64(),
		User1Share:     money(b.User1Share),
		User2Share:     money(b.User2Share),
	}
}

type SplitResponse struct {
	Breakdown BreakdownDTO `json:"breakdown"`
	Ledger    LedgerRowDTO `json:"ledger"`
}

type LedgerRowDTO struct {
	Month         string   `json:"month"`
	User1Amount   MoneyDTO `json:"user1_amount"`
	User2Amount   MoneyDTO `json:"user2_amount"`
	User1Paid     bool     `json:"user1_paid"`
	User2Paid     bool     `json:"user2_paid"`
	User1PaidDate *string  `json:"user1_paid_date,omitempty"`
	User2PaidDate *string  `json:"user2_paid_date,omitempty"`
	TotalRequired MoneyDTO `json:"total_required"`
	Status        string   `json:"status"`
}

type MarkPaidRequest struct {
	UserID string `json:"user_id"`
}

func ledgerRowDTO(r split.LedgerRow, now time.Time) LedgerRowDTO {
	dto := LedgerRowDTO{
		Month:         r.Month.String(),
		User1Amount:   money(r.User1Amount),
		User2Amount:   money(r.User2Amount),
		User1Paid:     r.User1Paid,
		User2Paid:     r.User2Paid,
		TotalRequired: money(r.TotalRequired),
		Status:        string(r.Status(now)),
	}
	if r.User1PaidDate != nil {
		d := r.User1PaidDate.Format(time.RFC3339)
		dto.User1PaidDate = &d
	}
	if r.User2PaidDate != nil {
		d := r.User2PaidDate.Format(time.RFC3339)
		dto.User2PaidDate = &d
	}
	return dto
}

// =============================================================================
// GOAL ALLOCATION
// =============================================================================

type TimeBoxDTO struct {
	DaysRemaining       int      `json:"days_remaining"`
	IsOverdue           bool     `json:"is_overdue"`
	MonthsRemaining     int      `json:"months_remaining"`
	WeeklyContribution  MoneyDTO `json:"weekly_contribution"`
	MonthlyContribution MoneyDTO `json:"monthly_contribution"`
}

type AssessmentDTO struct {
	GoalID             string      `json:"goal_id"`
	Name               string      `json:"name"`
	Priority           string      `json:"priority"`
	ProgressPercentage float64     `json:"progress_percentage"`
	IsCompleted        bool        `json:"is_completed"`
	Remaining          MoneyDTO    `json:"remaining"`
	TimeBox            *TimeBoxDTO `json:"time_box,omitempty"`
	RequiredMonthly    MoneyDTO    `json:"required_monthly"`
	FeasibilityScore   int         `json:"feasibility_score"`
	RiskTier           string      `json:"risk_tier"`
	RecommendedPercent float64     `json:"recommended_percent"`
	RecommendedMonthly MoneyDTO    `json:"recommended_monthly"`
}

type AllocationPlanDTO struct {
	Assessments      []AssessmentDTO `json:"assessments"`
	TotalRequired    MoneyDTO        `json:"total_required"`
	TotalRecommended MoneyDTO        `json:"total_recommended"`
}

func allocationPlanDTO(plan goals.AllocationPlan) AllocationPlanDTO {
	dto := AllocationPlanDTO{
		Assessments:      make([]AssessmentDTO, 0, len(plan.Assessments)),
		TotalRequired:    money(plan.TotalRequired),
		TotalRecommended: money(plan.TotalRecommended),
	}
	for _, a := range plan.Assessments {
		item := AssessmentDTO{
			GoalID:             a.GoalID,
			Name:               a.Name,
			Priority:           a.Priority.String(),
			ProgressPercentage: a.ProgressPercentage.InexactFloat64(),
			IsCompleted:        a.IsCompleted,
			Remaining:          money(a.Remaining),
			RequiredMonthly:    money(a.RequiredMonthly),
			FeasibilityScore:   a.FeasibilityScore,
			RiskTier:           string(a.RiskTier),
			RecommendedPercent: a.RecommendedPercent.InexactFloat64(),
			RecommendedMonthly: money(a.RecommendedMonthly),
		}
		if a.TimeBox != nil {
			item.TimeBox = &TimeBoxDTO{
				DaysRemaining:       a.TimeBox.DaysRemaining,
				IsOverdue:           a.TimeBox.IsOverdue,
				MonthsRemaining:     a.TimeBox.MonthsRemaining,
				WeeklyContribution:  money(a.TimeBox.WeeklyContribution),
				MonthlyContribution: money(a.TimeBox.MonthlyContribution),
			}
		}
		dto.Assessments = append(dto.Assessments, item)
	}
	return dto
}

type RedistributionSourceDTO struct {
	GoalID string   `json:"goal_id"`
	Excess MoneyDTO `json:"excess"`
}

type RedistributionAwardDTO struct {
	GoalID           string   `json:"goal_id"`
	Amount           MoneyDTO `json:"amount"`
	NewCurrentAmount MoneyDTO `json:"new_current_amount"`
}

type RedistributionPlanDTO struct {
	TotalExcess MoneyDTO                  `json:"total_excess"`
	Sources     []RedistributionSourceDTO `json:"sources"`
	Awards      []RedistributionAwardDTO  `json:"awards"`
	Unallocated MoneyDTO                  `json:"unallocated"`
	Applied     bool                      `json:"applied"`
}

func redistributionPlanDTO(plan goals.RedistributionPlan, applied bool) RedistributionPlanDTO {
	dto := RedistributionPlanDTO{
		TotalExcess: money(plan.TotalExcess),
		Unallocated: money(plan.Unallocated),
		Applied:     applied,
	}
	for _, s := range plan.Sources {
		dto.Sources = append(dto.Sources, RedistributionSourceDTO{GoalID: s.GoalID, Excess: money(s.Excess)})
	}
	for _, a := range plan.Awards {
		dto.Awards = append(dto.Awards, RedistributionAwardDTO{
			GoalID:           a.GoalID,
			Amount:           money(a.Amount),
			NewCurrentAmount: money(a.NewCurrentAmount),
		})
	}
	return dto
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

type RecordContributionRequest struct {
	UserID   string  `json:"user_id"`
	GoalID   string  `json:"goal_id,omitempty"`
	Month    string  `json:"month"` // YYYY-MM
	Amount   float64 `json:"amount"`
	Expected float64 `json:"expected"`
}

type ContributionDTO struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	GoalID   string   `json:"goal_id,omitempty"`
	Month    string   `json:"month"`
	Amount   MoneyDTO `json:"amount"`
	Expected MoneyDTO `json:"expected"`
	Variance MoneyDTO `json:"variance"`
}

func contributionDTO(c finance.Contribution) ContributionDTO {
	return ContributionDTO{
		ID:       c.ID,
		UserID:   string(c.UserID),
		GoalID:   c.GoalID,
		Month:    c.Month.String(),
		Amount:   money(c.Amount),
		Expected: money(c.Expected),
		Variance: money(c.Variance()),
	}
}

// =============================================================================
// SAFETY POT
// =============================================================================

type ReallocationDTO struct {
	Excess          MoneyDTO `json:"excess"`
	SuggestedAmount MoneyDTO `json:"suggested_amount"`
}

type SafetyPotDTO struct {
	CurrentAmount   MoneyDTO         `json:"current_amount"`
	MonthlyExpenses MoneyDTO         `json:"monthly_expenses"`
	Status          string           `json:"status"`
	MonthsCovered   float64          `json:"months_covered"`
	TargetAmount    MoneyDTO         `json:"target_amount"`
	Deficit         MoneyDTO         `json:"deficit"`
	HealthScore     int              `json:"health_score"`
	OptimalMonthly  MoneyDTO         `json:"optimal_monthly_contribution"`
	Reallocation    *ReallocationDTO `json:"reallocation,omitempty"`
	Suggestions     []string         `json:"suggestions"`
}

type PotMutationRequest struct {
	Amount float64 `json:"amount"`
}

func safetyPotDTO(pot finance.SafetyPot, a safetypot.Assessment) SafetyPotDTO {
	dto := SafetyPotDTO{
		CurrentAmount:   money(pot.CurrentAmount),
		MonthlyExpenses: money(pot.MonthlyExpenses),
		Status:          string(a.Status),
		MonthsCovered:   a.MonthsCovered.InexactFloat64(),
		TargetAmount:    money(a.TargetAmount),
		Deficit:         money(a.Deficit),
		HealthScore:     a.HealthScore,
		OptimalMonthly:  money(a.OptimalMonthlyContribution),
		Suggestions:     a.Suggestions,
	}
	if a.Reallocation != nil {
		dto.Reallocation = &ReallocationDTO{
			Excess:          money(a.Reallocation.Excess),
			SuggestedAmount: money(a.Reallocation.SuggestedAmount),
		}
	}
	return dto
}

// =============================================================================
// STREAKS
// =============================================================================

type StreakSummaryDTO struct {
	CurrentStreak             int      `json:"current_streak"`
	MonthlyStreak             int      `json:"monthly_streak"`
	GoalStreak                int      `json:"goal_streak"`
	LongestStreak             int      `json:"longest_streak"`
	TotalContributions        int      `json:"total_contributions"`
	TotalAmount               MoneyDTO `json:"total_amount"`
	AverageAmount             MoneyDTO `json:"average_amount"`
	ActiveMonths              int      `json:"active_months"`
	DaysSinceLastContribution int      `json:"days_since_last_contribution"`
	IsStreakAtRisk            bool     `json:"is_streak_at_risk"`
}

func streakSummaryDTO(s streaks.Summary) StreakSummaryDTO {
	return StreakSummaryDTO{
		CurrentStreak:             s.CurrentStreak,
		MonthlyStreak:             s.MonthlyStreak,
		GoalStreak:                s.GoalStreak,
		LongestStreak:             s.LongestStreak,
		TotalContributions:        s.TotalContributions,
		TotalAmount:               money(s.TotalAmount),
		AverageAmount:             money(s.AverageAmount),
		ActiveMonths:              s.ActiveMonths,
		DaysSinceLastContribution: s.DaysSinceLastContribution,
		IsStreakAtRisk:            s.IsStreakAtRisk,
	}
}
