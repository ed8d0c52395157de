/*
handlers.go - HTTP API handlers for the shared-finance allocation engine

PURPOSE:
  Exposes the allocation engines via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engines.

ENDPOINTS:
  Partnerships:
    GET    /api/partnerships                      List partnerships
    POST   /api/partnerships                      Create partnership
    GET    /api/partnerships/{id}                 Get partnership
    PUT    /api/partnerships/{id}/incomes         Update both incomes

  Expenses and goals:
    GET    /api/partnerships/{id}/expenses        List recurring expenses
    POST   /api/partnerships/{id}/expenses        Add recurring expense
    DELETE /api/partnerships/{id}/expenses/{expenseID}
    GET    /api/partnerships/{id}/goals           List goals
    POST   /api/partnerships/{id}/goals           Add goal

  Split and ledger:
    GET    /api/partnerships/{id}/split?month=    Month's split breakdown
    GET    /api/partnerships/{id}/ledger          Ledger history
    POST   /api/partnerships/{id}/ledger/{month}/pay  Mark a share paid

  Contributions and streaks:
    GET    /api/partnerships/{id}/contributions   Contribution history
    POST   /api/partnerships/{id}/contributions   Record a contribution
    GET    /api/partnerships/{id}/users/{userID}/streaks

  Goal allocation:
    GET    /api/partnerships/{id}/goals/allocations
    POST   /api/partnerships/{id}/goals/redistribute

  Safety pot:
    GET    /api/partnerships/{id}/safety-pot
    POST   /api/partnerships/{id}/safety-pot/contribute
    POST   /api/partnerships/{id}/safety-pot/withdraw
    GET    /api/partnerships/{id}/safety-pot/report?month=

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input, map boundary values (priority, frequency, month keys)
  3. Load a fresh snapshot, run the engine
  4. Persist returned values, serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Entity not found
  - 409: Business-rule violation (insufficient funds, unknown user)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - sweep.go: Month-end background job
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/goals"
	"github.com/TheLaughingGod1986/split-save-sub004/safetypot"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
	"github.com/TheLaughingGod1986/split-save-sub004/store"
	"github.com/TheLaughingGod1986/split-save-sub004/streaks"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store store.Store
	Log   *logrus.Logger

	splitter *split.Splitter
	goals    *goals.Engine
	pot      *safetypot.Manager
	streaks  *streaks.Analyzer

	// now is swappable in tests.
	now func() time.Time
}

// NewHandler creates a new handler with the given store and logger.
func NewHandler(st store.Store, log *logrus.Logger) *Handler {
	return &Handler{
		Store:    st,
		Log:      log,
		splitter: split.NewSplitter(),
		goals:    goals.NewEngine(),
		pot:      safetypot.NewManager(),
		streaks:  streaks.NewAnalyzer(),
		now:      time.Now,
	}
}

// =============================================================================
// PARTNERSHIP HANDLERS
// =============================================================================

// ListPartnerships returns all partnerships.
func (h *Handler) ListPartnerships(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Store.ListPartnerships(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list partnerships", err)
		return
	}

	dtos := make([]PartnershipDTO, len(ps))
	for i, p := range ps {
		dtos[i] = partnershipDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPartnership returns a single partnership.
func (h *Handler) GetPartnership(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.Partnership(r.Context(), partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}
	writeJSON(w, http.StatusOK, partnershipDTO(p))
}

// CreatePartnership creates a new partnership.
func (h *Handler) CreatePartnership(w http.ResponseWriter, r *http.Request) {
	var req CreatePartnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.User1 == "" || req.User2 == "" {
		writeError(w, http.StatusBadRequest, "Both user IDs are required", nil)
		return
	}
	if req.User1Income < 0 || req.User2Income < 0 {
		writeError(w, http.StatusBadRequest, "Incomes must not be negative", nil)
		return
	}

	currency := finance.Currency(req.Currency)
	if currency == "" {
		currency = finance.CurrencyGBP
	}

	p := finance.Partnership{
		ID:          finance.PartnershipID(req.ID),
		User1:       finance.UserID(req.User1),
		User2:       finance.UserID(req.User2),
		Currency:    currency,
		User1Income: finance.NewAmount(req.User1Income, currency),
		User2Income: finance.NewAmount(req.User2Income, currency),
		CreatedAt:   h.now(),
	}
	if p.ID == "" {
		p.ID = finance.PartnershipID(uuid.NewString())
	}

	if err := h.Store.SavePartnership(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create partnership", err)
		return
	}
	writeJSON(w, http.StatusCreated, partnershipDTO(p))
}

// UpdateIncomes replaces both partner incomes. Subsequent split calculations
// pick up the new ratio; already-persisted ledger rows are not recomputed.
func (h *Handler) UpdateIncomes(w http.ResponseWriter, r *http.Request) {
	var req UpdateIncomesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.User1Income < 0 || req.User2Income < 0 {
		writeError(w, http.StatusBadRequest, "Incomes must not be negative", nil)
		return
	}

	p, err := h.Store.Partnership(r.Context(), partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	p.User1Income = finance.NewAmount(req.User1Income, p.Currency)
	p.User2Income = finance.NewAmount(req.User2Income, p.Currency)
	if err := h.Store.SavePartnership(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update incomes", err)
		return
	}
	writeJSON(w, http.StatusOK, partnershipDTO(p))
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the partnership's recurring expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Store.Partnership(r.Context(), partnershipID(r)); err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	expenses, err := h.Store.Expenses(r.Context(), partnershipID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list expenses", err)
		return
	}

	dtos := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		dtos[i] = expenseDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense adds a recurring expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}

	freq, err := finance.ParseFrequency(req.Frequency)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid frequency (use weekly/monthly/quarterly/yearly)", err)
		return
	}

	p, err := h.Store.Partnership(r.Context(), partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	e := finance.Expense{
		ID:            uuid.NewString(),
		PartnershipID: p.ID,
		Name:          req.Name,
		Amount:        finance.NewAmount(req.Amount, p.Currency),
		Frequency:     freq,
	}
	if err := h.Store.SaveExpense(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseDTO(e))
}

// DeleteExpense removes a recurring expense.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteExpense(r.Context(), partnershipID(r), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete expense", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// GOAL HANDLERS
// =============================================================================

// ListGoals returns the partnership's savings goals.
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Store.Partnership(r.Context(), partnershipID(r)); err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	gs, err := h.Store.Goals(r.Context(), partnershipID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	dtos := make([]GoalDTO, len(gs))
	for i, g := range gs {
		dtos[i] = goalDTO(g)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGoal adds a savings goal. Priority strings are mapped onto the closed
// enum here; unknown values default to medium.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TargetAmount <= 0 {
		writeError(w, http.StatusBadRequest, "Target amount must be positive", nil)
		return
	}
	if req.CurrentAmount < 0 {
		writeError(w, http.StatusBadRequest, "Current amount must not be negative", nil)
		return
	}

	p, err := h.Store.Partnership(r.Context(), partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	g := finance.Goal{
		ID:            uuid.NewString(),
		PartnershipID: p.ID,
		Name:          req.Name,
		TargetAmount:  finance.NewAmount(req.TargetAmount, p.Currency),
		CurrentAmount: finance.NewAmount(req.CurrentAmount, p.Currency),
		Priority:      finance.ParsePriority(req.Priority),
		CreatedAt:     h.now(),
	}
	if req.TargetDate != nil {
		d, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid target_date format (use YYYY-MM-DD)", err)
			return
		}
		g.TargetDate = &d
	}

	if err := h.Store.SaveGoal(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, goalDTO(g))
}

// =============================================================================
// SPLIT AND LEDGER HANDLERS
// =============================================================================

// GetSplit computes the month's split breakdown and returns it together with
// the month's ledger row, creating the row on first request.
// GET /api/partnerships/{id}/split?month=YYYY-MM
func (h *Handler) GetSplit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now()

	month := finance.MonthKeyOf(now)
	if q := r.URL.Query().Get("month"); q != "" {
		var err error
		if month, err = finance.ParseMonthKey(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
			return
		}
	}

	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	breakdown, err := h.computeBreakdown(ctx, p, month, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute split", err)
		return
	}

	row, err := h.ensureLedgerRow(ctx, p, breakdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ledger row", err)
		return
	}

	writeJSON(w, http.StatusOK, SplitResponse{
		Breakdown: breakdownDTO(breakdown),
		Ledger:    ledgerRowDTO(row, now),
	})
}

// ListLedger returns the partnership's ledger history with derived statuses.
func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Store.Partnership(r.Context(), partnershipID(r)); err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	rows, err := h.Store.LedgerRows(r.Context(), partnershipID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list ledger rows", err)
		return
	}

	now := h.now()
	dtos := make([]LedgerRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ledgerRowDTO(row, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// MarkPaid records that one partner paid their share for a month.
// POST /api/partnerships/{id}/ledger/{month}/pay
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	month, err := finance.ParseMonthKey(chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	ctx := r.Context()
	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	row, err := h.Store.LedgerRow(ctx, p.ID, month)
	if err != nil {
		h.fail(w, "Failed to get ledger row", err)
		return
	}

	now := h.now()
	row, err = row.MarkPaid(p, finance.UserID(req.UserID), now)
	if err != nil {
		h.fail(w, "Failed to mark paid", err)
		return
	}

	if err := h.Store.SaveLedgerRow(ctx, row); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save ledger row", err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"partnership": p.ID,
		"user":        req.UserID,
		"month":       month.String(),
		"status":      row.Status(now),
	}).Info("share marked paid")

	writeJSON(w, http.StatusOK, ledgerRowDTO(row, now))
}

// =============================================================================
// CONTRIBUTION HANDLERS
// =============================================================================

// ListContributions returns the partnership's contribution history.
func (h *Handler) ListContributions(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Store.Partnership(r.Context(), partnershipID(r)); err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	cs, err := h.Store.Contributions(r.Context(), partnershipID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contributions", err)
		return
	}

	dtos := make([]ContributionDTO, len(cs))
	for i, c := range cs {
		dtos[i] = contributionDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordContribution inserts an immutable contribution record. Goal-directed
// contributions also top up the goal's balance, capped at its target.
func (h *Handler) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req RecordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}

	month, err := finance.ParseMonthKey(req.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
		return
	}

	ctx := r.Context()
	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	userID := finance.UserID(req.UserID)
	if userID != p.User1 && userID != p.User2 {
		h.fail(w, "Failed to record contribution", finance.ErrUnknownUser)
		return
	}

	c := finance.Contribution{
		ID:            uuid.NewString(),
		PartnershipID: p.ID,
		UserID:        userID,
		GoalID:        req.GoalID,
		Month:         month,
		Amount:        finance.NewAmount(req.Amount, p.Currency),
		Expected:      finance.NewAmount(req.Expected, p.Currency),
		RecordedAt:    h.now(),
	}

	if c.IsGoalDirected() {
		g, err := h.Store.Goal(ctx, p.ID, c.GoalID)
		if err != nil {
			h.fail(w, "Failed to get goal", err)
			return
		}
		// Contributions never push a goal past its target.
		g.CurrentAmount = g.CurrentAmount.Add(c.Amount).Min(g.TargetAmount)
		if err := h.Store.SaveGoal(ctx, g); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to update goal", err)
			return
		}
	}

	if err := h.Store.AddContribution(ctx, c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record contribution", err)
		return
	}

	writeJSON(w, http.StatusCreated, contributionDTO(c))
}

// GetStreaks returns one user's streak summary and persists a new longest
// streak when the current one passes the stored high-water mark.
// GET /api/partnerships/{id}/users/{userID}/streaks
func (h *Handler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := finance.UserID(chi.URLParam(r, "userID"))

	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}
	if userID != p.User1 && userID != p.User2 {
		h.fail(w, "Failed to get streaks", finance.ErrUnknownUser)
		return
	}

	cs, err := h.Store.ContributionsByUser(ctx, p.ID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contributions", err)
		return
	}

	longest, err := h.Store.LongestStreak(ctx, p.ID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get longest streak", err)
		return
	}

	summary := h.streaks.Analyze(streaks.Input{
		Contributions: cs,
		Currency:      p.Currency,
		LongestStreak: longest,
		Now:           h.now(),
	})

	if summary.LongestStreak > longest {
		if err := h.Store.SaveLongestStreak(ctx, p.ID, userID, summary.LongestStreak); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save longest streak", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, streakSummaryDTO(summary))
}

// =============================================================================
// GOAL ALLOCATION HANDLERS
// =============================================================================

// GetAllocations returns the goal allocation plan for the month. The budget
// distributed is the goals portion of the month's split.
func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now()

	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	gs, err := h.Store.Goals(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	cs, err := h.Store.Contributions(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list contributions", err)
		return
	}

	breakdown, err := h.computeBreakdown(ctx, p, finance.MonthKeyOf(now), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute split", err)
		return
	}

	plan := h.goals.Allocate(goals.AllocationInput{
		Goals:            gs,
		Currency:         p.Currency,
		MonthlyBudget:    breakdown.GoalsTotal,
		SustainedMonthly: sustainedMonthly(cs, p.Currency),
		Now:              now,
	})
	writeJSON(w, http.StatusOK, allocationPlanDTO(plan))
}

// Redistribute plans surplus redistribution from over-funded goals and
// applies the awards, one atomic write per goal.
func (h *Handler) Redistribute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.Store.Partnership(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get partnership", err)
		return
	}

	gs, err := h.Store.Goals(ctx, p.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals", err)
		return
	}

	plan := h.goals.PlanRedistribution(gs)

	applied := false
	for _, award := range plan.Awards {
		g, err := h.Store.Goal(ctx, p.ID, award.GoalID)
		if err != nil {
			h.fail(w, "Failed to get goal", err)
			return
		}
		g.CurrentAmount = award.NewCurrentAmount
		if err := h.Store.SaveGoal(ctx, g); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to apply award", err)
			return
		}
		applied = true
	}
	for _, src := range plan.Sources {
		g, err := h.Store.Goal(ctx, p.ID, src.GoalID)
		if err != nil {
			h.fail(w, "Failed to get goal", err)
			return
		}
		g.CurrentAmount = g.CurrentAmount.Sub(src.Excess)
		if err := h.Store.SaveGoal(ctx, g); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to drain source goal", err)
			return
		}
	}

	if applied {
		h.Log.WithFields(logrus.Fields{
			"partnership": p.ID,
			"excess":      plan.TotalExcess.Format(),
			"awards":      len(plan.Awards),
		}).Info("redistributed goal surplus")
	}

	writeJSON(w, http.StatusOK, redistributionPlanDTO(plan, applied))
}

// =============================================================================
// SAFETY POT HANDLERS
// =============================================================================

// GetSafetyPot returns the pot with its health assessment.
func (h *Handler) GetSafetyPot(w http.ResponseWriter, r *http.Request) {
	pot, policy, err := h.loadPot(r.Context(), partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get safety pot", err)
		return
	}
	writeJSON(w, http.StatusOK, safetyPotDTO(pot, h.pot.Assess(pot, policy)))
}

// ContributeToPot adds funds to the safety pot.
func (h *Handler) ContributeToPot(w http.ResponseWriter, r *http.Request) {
	h.mutatePot(w, r, h.pot.Contribute)
}

// WithdrawFromPot removes funds from the safety pot. Over-withdrawal is a 409.
func (h *Handler) WithdrawFromPot(w http.ResponseWriter, r *http.Request) {
	h.mutatePot(w, r, h.pot.Withdraw)
}

// mutatePot is the shared read-modify-write path for pot contributions and
// withdrawals. Every mutation is recorded as a signed flow for monthly
// reporting.
func (h *Handler) mutatePot(w http.ResponseWriter, r *http.Request,
	apply func(finance.SafetyPot, finance.Amount) (finance.SafetyPot, error)) {

	var req PotMutationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	pot, policy, err := h.loadPot(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get safety pot", err)
		return
	}

	amount := finance.NewAmount(req.Amount, pot.CurrentAmount.Currency)
	before := pot.CurrentAmount
	pot, err = apply(pot, amount)
	if err != nil {
		h.fail(w, "Failed to update safety pot", err)
		return
	}

	now := h.now()
	pot.UpdatedAt = now
	if err := h.Store.SaveSafetyPot(ctx, pot); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save safety pot", err)
		return
	}

	flow := store.PotFlow{
		ID:            uuid.NewString(),
		PartnershipID: pot.PartnershipID,
		Month:         finance.MonthKeyOf(now),
		Amount:        pot.CurrentAmount.Sub(before),
		RecordedAt:    now,
	}
	if err := h.Store.AddPotFlow(ctx, flow); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record pot flow", err)
		return
	}

	writeJSON(w, http.StatusOK, safetyPotDTO(pot, h.pot.Assess(pot, policy)))
}

// GetPotReport returns the pot's monthly delta report.
// GET /api/partnerships/{id}/safety-pot/report?month=YYYY-MM
func (h *Handler) GetPotReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := h.now()

	month := finance.MonthKeyOf(now)
	if q := r.URL.Query().Get("month"); q != "" {
		var err error
		if month, err = finance.ParseMonthKey(q); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month (use YYYY-MM)", err)
			return
		}
	}

	pot, policy, err := h.loadPot(ctx, partnershipID(r))
	if err != nil {
		h.fail(w, "Failed to get safety pot", err)
		return
	}

	report, err := h.potReport(ctx, pot, policy, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month":       report.Month.String(),
		"net_change":  money(report.NetChange),
		"summary":     report.Summary,
		"suggestions": report.Suggestions,
	})
}

// potReport reconstructs a month's opening balance and flows from the
// recorded pot flows and renders the report.
func (h *Handler) potReport(ctx context.Context, pot finance.SafetyPot, policy finance.SafetyPotPolicy, month finance.MonthKey) (safetypot.Report, error) {
	flows, err := h.Store.PotFlows(ctx, pot.PartnershipID)
	if err != nil {
		return safetypot.Report{}, err
	}

	zero := pot.CurrentAmount.Zero()
	contributions, withdrawals, sinceMonth := zero, zero, zero
	for _, f := range flows {
		if f.Month.Equal(month) {
			if f.Amount.IsNegative() {
				withdrawals = withdrawals.Add(f.Amount.Neg())
			} else {
				contributions = contributions.Add(f.Amount)
			}
		}
		if !f.Month.Before(month) {
			sinceMonth = sinceMonth.Add(f.Amount)
		}
	}

	// Walk the current balance back to the month's opening.
	opening := pot.CurrentAmount.Sub(sinceMonth)
	closing := opening.Add(contributions).Sub(withdrawals)
	closingPot := pot
	closingPot.CurrentAmount = closing

	return h.pot.MonthlyReport(safetypot.ReportInput{
		Month:          month,
		OpeningBalance: opening,
		ClosingBalance: closing,
		Contributions:  contributions,
		Withdrawals:    withdrawals,
		Assessment:     h.pot.Assess(closingPot, policy),
	}), nil
}

// =============================================================================
// SNAPSHOT LOADING
// =============================================================================

// computeBreakdown loads the split snapshot and runs the splitter.
func (h *Handler) computeBreakdown(ctx context.Context, p finance.Partnership, month finance.MonthKey, now time.Time) (split.Breakdown, error) {
	expenses, err := h.Store.Expenses(ctx, p.ID)
	if err != nil {
		return split.Breakdown{}, err
	}
	gs, err := h.Store.Goals(ctx, p.ID)
	if err != nil {
		return split.Breakdown{}, err
	}

	expensesTotal := finance.NewAmount(0, p.Currency)
	for _, e := range expenses {
		expensesTotal = expensesTotal.Add(e.MonthlyEquivalent())
	}
	policy := finance.DefaultSafetyPotPolicy(expensesTotal)

	return h.splitter.Calculate(split.Input{
		Month:           month,
		Currency:        p.Currency,
		Expenses:        expenses,
		Goals:           gs,
		SafetyPotTarget: policy.Target(expensesTotal),
		Incomes:         p.Incomes(),
		Now:             now,
	}), nil
}

// ensureLedgerRow returns the month's ledger row, creating it from the
// breakdown on first request.
func (h *Handler) ensureLedgerRow(ctx context.Context, p finance.Partnership, b split.Breakdown) (split.LedgerRow, error) {
	row, err := h.Store.LedgerRow(ctx, p.ID, b.Month)
	if err == nil {
		return row, nil
	}
	if !finance.IsNotFound(err) {
		return split.LedgerRow{}, err
	}

	row = split.NewLedgerRow(p.ID, b)
	row.ID = uuid.NewString()
	if err := h.Store.SaveLedgerRow(ctx, row); err != nil {
		return split.LedgerRow{}, err
	}
	return row, nil
}

// loadPot returns the pot with MonthlyExpenses refreshed from the current
// recurring expenses, plus the policy derived from them.
func (h *Handler) loadPot(ctx context.Context, id finance.PartnershipID) (finance.SafetyPot, finance.SafetyPotPolicy, error) {
	p, err := h.Store.Partnership(ctx, id)
	if err != nil {
		return finance.SafetyPot{}, finance.SafetyPotPolicy{}, err
	}

	expenses, err := h.Store.Expenses(ctx, id)
	if err != nil {
		return finance.SafetyPot{}, finance.SafetyPotPolicy{}, err
	}
	expensesTotal := finance.NewAmount(0, p.Currency)
	for _, e := range expenses {
		expensesTotal = expensesTotal.Add(e.MonthlyEquivalent())
	}

	pot, err := h.Store.SafetyPot(ctx, id)
	if err != nil {
		return finance.SafetyPot{}, finance.SafetyPotPolicy{}, err
	}
	pot.MonthlyExpenses = expensesTotal

	return pot, finance.DefaultSafetyPotPolicy(expensesTotal), nil
}

// sustainedMonthly is the average contributed per active month across the
// whole household. Zero when there is no history.
func sustainedMonthly(cs []finance.Contribution, currency finance.Currency) finance.Amount {
	total := finance.NewAmount(0, currency)
	months := make(map[finance.MonthKey]struct{})
	for _, c := range cs {
		total = total.Add(c.Amount)
		months[c.Month] = struct{}{}
	}
	if len(months) == 0 {
		return total
	}
	return total.Div(decimal.NewFromInt(int64(len(months))))
}

// =============================================================================
// HELPERS
// =============================================================================

func partnershipID(r *http.Request) finance.PartnershipID {
	return finance.PartnershipID(chi.URLParam(r, "id"))
}

// fail maps domain errors onto HTTP statuses.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	switch {
	case finance.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case finance.IsClientError(err):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
