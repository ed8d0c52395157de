/*
Package sqlite provides a SQLite-backed implementation of the store.Store
interface.

PURPOSE:
  Persists the partnership row layout: partnerships, recurring expenses,
  goals, contributions (insert-only), household ledger rows, safety pots,
  and streak high-water marks. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INSERT-ONLY CONTRIBUTIONS:
  The contributions table has no UPDATE path. A correction is a new insert;
  history stays intact for accountability reporting.

MONEY AS TEXT:
  Amounts are stored as decimal strings and parsed back through
  shopspring/decimal so no precision is lost in the round-trip.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers don't
  block and crash recovery improves.

USAGE:
  st, err := sqlite.New("./data/splitsave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
	"github.com/TheLaughingGod1986/split-save-sub004/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS partnerships (
		id TEXT PRIMARY KEY,
		user1_id TEXT NOT NULL,
		user2_id TEXT NOT NULL,
		currency TEXT NOT NULL,
		user1_income TEXT NOT NULL,
		user2_income TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		partnership_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		frequency TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_partnership
		ON expenses(partnership_id);

	CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		partnership_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount TEXT NOT NULL,
		current_amount TEXT NOT NULL,
		target_date TEXT,
		priority INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_goals_partnership
		ON goals(partnership_id);

	-- Insert-only: no UPDATE or DELETE statements are issued against this
	-- table. Corrections are new inserts.
	CREATE TABLE IF NOT EXISTS contributions (
		id TEXT PRIMARY KEY,
		partnership_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		goal_id TEXT,
		month TEXT NOT NULL,
		amount TEXT NOT NULL,
		expected_amount TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_contributions_partnership_user
		ON contributions(partnership_id, user_id);
	CREATE INDEX IF NOT EXISTS idx_contributions_month
		ON contributions(partnership_id, month);

	-- One row per partnership per month.
	CREATE TABLE IF NOT EXISTS ledger_rows (
		id TEXT PRIMARY KEY,
		partnership_id TEXT NOT NULL,
		month TEXT NOT NULL,
		user1_amount TEXT NOT NULL,
		user2_amount TEXT NOT NULL,
		user1_paid INTEGER NOT NULL DEFAULT 0,
		user2_paid INTEGER NOT NULL DEFAULT 0,
		user1_paid_date TEXT,
		user2_paid_date TEXT,
		total_required TEXT NOT NULL,
		UNIQUE(partnership_id, month)
	);

	CREATE TABLE IF NOT EXISTS safety_pots (
		partnership_id TEXT PRIMARY KEY,
		current_amount TEXT NOT NULL,
		monthly_expenses TEXT NOT NULL,
		currency TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Insert-only, like contributions. Signed amounts: positive for a
	-- contribution, negative for a withdrawal.
	CREATE TABLE IF NOT EXISTS pot_flows (
		id TEXT PRIMARY KEY,
		partnership_id TEXT NOT NULL,
		month TEXT NOT NULL,
		amount TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_pot_flows_partnership
		ON pot_flows(partnership_id, month);

	CREATE TABLE IF NOT EXISTS streak_marks (
		partnership_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (partnership_id, user_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func amountOf(value string, currency finance.Currency) finance.Amount {
	return finance.NewAmountFromDecimal(finance.MustParseDecimal(value), currency)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func scanNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// PARTNERSHIPS
// =============================================================================

func (s *Store) Partnership(ctx context.Context, id finance.PartnershipID) (finance.Partnership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user1_id, user2_id, currency, user1_income, user2_income, created_at
		FROM partnerships WHERE id = ?`, string(id))

	var p finance.Partnership
	var pid, u1, u2, currency, inc1, inc2, createdAt string
	if err := row.Scan(&pid, &u1, &u2, &currency, &inc1, &inc2, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return finance.Partnership{}, finance.ErrPartnershipNotFound
		}
		return finance.Partnership{}, err
	}

	p.ID = finance.PartnershipID(pid)
	p.User1 = finance.UserID(u1)
	p.User2 = finance.UserID(u2)
	p.Currency = finance.Currency(currency)
	p.User1Income = amountOf(inc1, p.Currency)
	p.User2Income = amountOf(inc2, p.Currency)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}

func (s *Store) SavePartnership(ctx context.Context, p finance.Partnership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO partnerships (id, user1_id, user2_id, currency, user1_income, user2_income, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user1_income = excluded.user1_income,
			user2_income = excluded.user2_income,
			currency = excluded.currency`,
		string(p.ID), string(p.User1), string(p.User2), string(p.Currency),
		p.User1Income.Value.String(), p.User2Income.Value.String(),
		p.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) ListPartnerships(ctx context.Context) ([]finance.Partnership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user1_id, user2_id, currency, user1_income, user2_income, created_at
		FROM partnerships ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []finance.Partnership
	for rows.Next() {
		var p finance.Partnership
		var pid, u1, u2, currency, inc1, inc2, createdAt string
		if err := rows.Scan(&pid, &u1, &u2, &currency, &inc1, &inc2, &createdAt); err != nil {
			return nil, err
		}
		p.ID = finance.PartnershipID(pid)
		p.User1 = finance.UserID(u1)
		p.User2 = finance.UserID(u2)
		p.Currency = finance.Currency(currency)
		p.User1Income = amountOf(inc1, p.Currency)
		p.User2Income = amountOf(inc2, p.Currency)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, p)
	}
	return result, rows.Err()
}

// =============================================================================
// EXPENSES
// =============================================================================

func (s *Store) Expenses(ctx context.Context, id finance.PartnershipID) ([]finance.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, frequency FROM expenses
		WHERE partnership_id = ? ORDER BY name`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []finance.Expense
	for rows.Next() {
		var e finance.Expense
		var amount, frequency string
		if err := rows.Scan(&e.ID, &e.Name, &amount, &frequency); err != nil {
			return nil, err
		}
		e.PartnershipID = id
		e.Amount = amountOf(amount, currency)
		e.Frequency = finance.Frequency(frequency)
		result = append(result, e)
	}
	return result, rows.Err()
}

func (s *Store) SaveExpense(ctx context.Context, e finance.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, partnership_id, name, amount, frequency)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			amount = excluded.amount,
			frequency = excluded.frequency`,
		e.ID, string(e.PartnershipID), e.Name, e.Amount.Value.String(), string(e.Frequency))
	return err
}

func (s *Store) DeleteExpense(ctx context.Context, id finance.PartnershipID, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE partnership_id = ? AND id = ?`,
		string(id), expenseID)
	return err
}

// =============================================================================
// GOALS
// =============================================================================

func (s *Store) Goals(ctx context.Context, id finance.PartnershipID) ([]finance.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, target_amount, current_amount, target_date, priority, created_at
		FROM goals WHERE partnership_id = ? ORDER BY priority, created_at`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []finance.Goal
	for rows.Next() {
		var g finance.Goal
		var target, current, createdAt string
		var targetDate sql.NullString
		var priority int
		if err := rows.Scan(&g.ID, &g.Name, &target, &current, &targetDate, &priority, &createdAt); err != nil {
			return nil, err
		}
		g.PartnershipID = id
		g.TargetAmount = amountOf(target, currency)
		g.CurrentAmount = amountOf(current, currency)
		g.TargetDate = scanNullTime(targetDate)
		g.Priority = finance.Priority(priority)
		g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		result = append(result, g)
	}
	return result, rows.Err()
}

func (s *Store) Goal(ctx context.Context, id finance.PartnershipID, goalID string) (finance.Goal, error) {
	gs, err := s.Goals(ctx, id)
	if err != nil {
		return finance.Goal{}, err
	}
	for _, g := range gs {
		if g.ID == goalID {
			return g, nil
		}
	}
	return finance.Goal{}, finance.ErrGoalNotFound
}

func (s *Store) SaveGoal(ctx context.Context, g finance.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, partnership_id, name, target_amount, current_amount, target_date, priority, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			target_date = excluded.target_date,
			priority = excluded.priority`,
		g.ID, string(g.PartnershipID), g.Name,
		g.TargetAmount.Value.String(), g.CurrentAmount.Value.String(),
		nullTime(g.TargetDate), int(g.Priority),
		g.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// =============================================================================
// CONTRIBUTIONS (insert-only)
// =============================================================================

func (s *Store) Contributions(ctx context.Context, id finance.PartnershipID) ([]finance.Contribution, error) {
	return s.queryContributions(ctx, id, "")
}

func (s *Store) ContributionsByUser(ctx context.Context, id finance.PartnershipID, userID finance.UserID) ([]finance.Contribution, error) {
	return s.queryContributions(ctx, id, userID)
}

func (s *Store) queryContributions(ctx context.Context, id finance.PartnershipID, userID finance.UserID) ([]finance.Contribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, user_id, goal_id, month, amount, expected_amount, recorded_at
		FROM contributions WHERE partnership_id = ?`
	args := []any{string(id)}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, string(userID))
	}
	query += ` ORDER BY recorded_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []finance.Contribution
	for rows.Next() {
		var c finance.Contribution
		var uid, month, amount, expected, recordedAt string
		var goalID sql.NullString
		if err := rows.Scan(&c.ID, &uid, &goalID, &month, &amount, &expected, &recordedAt); err != nil {
			return nil, err
		}
		c.PartnershipID = id
		c.UserID = finance.UserID(uid)
		c.GoalID = goalID.String
		c.Month, _ = finance.ParseMonthKey(month)
		c.Amount = amountOf(amount, currency)
		c.Expected = amountOf(expected, currency)
		c.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		result = append(result, c)
	}
	return result, rows.Err()
}

func (s *Store) AddContribution(ctx context.Context, c finance.Contribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.RecordedAt.IsZero() {
		c.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contributions (id, partnership_id, user_id, goal_id, month, amount, expected_amount, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, string(c.PartnershipID), string(c.UserID), c.GoalID,
		c.Month.String(), c.Amount.Value.String(), c.Expected.Value.String(),
		c.RecordedAt.UTC().Format(time.RFC3339))
	return err
}

// =============================================================================
// HOUSEHOLD LEDGER
// =============================================================================

func (s *Store) LedgerRow(ctx context.Context, id finance.PartnershipID, month finance.MonthKey) (split.LedgerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return split.LedgerRow{}, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user1_amount, user2_amount, user1_paid, user2_paid,
		       user1_paid_date, user2_paid_date, total_required
		FROM ledger_rows WHERE partnership_id = ? AND month = ?`,
		string(id), month.String())

	var r split.LedgerRow
	var u1Amount, u2Amount, total string
	var u1Paid, u2Paid int
	var u1Date, u2Date sql.NullString
	if err := row.Scan(&r.ID, &u1Amount, &u2Amount, &u1Paid, &u2Paid, &u1Date, &u2Date, &total); err != nil {
		if err == sql.ErrNoRows {
			return split.LedgerRow{}, finance.ErrLedgerRowNotFound
		}
		return split.LedgerRow{}, err
	}

	r.PartnershipID = id
	r.Month = month
	r.User1Amount = amountOf(u1Amount, currency)
	r.User2Amount = amountOf(u2Amount, currency)
	r.User1Paid = u1Paid != 0
	r.User2Paid = u2Paid != 0
	r.User1PaidDate = scanNullTime(u1Date)
	r.User2PaidDate = scanNullTime(u2Date)
	r.TotalRequired = amountOf(total, currency)
	return r, nil
}

func (s *Store) SaveLedgerRow(ctx context.Context, row split.LedgerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_rows (id, partnership_id, month, user1_amount, user2_amount,
			user1_paid, user2_paid, user1_paid_date, user2_paid_date, total_required)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(partnership_id, month) DO UPDATE SET
			user1_amount = excluded.user1_amount,
			user2_amount = excluded.user2_amount,
			user1_paid = excluded.user1_paid,
			user2_paid = excluded.user2_paid,
			user1_paid_date = excluded.user1_paid_date,
			user2_paid_date = excluded.user2_paid_date,
			total_required = excluded.total_required`,
		row.ID, string(row.PartnershipID), row.Month.String(),
		row.User1Amount.Value.String(), row.User2Amount.Value.String(),
		boolInt(row.User1Paid), boolInt(row.User2Paid),
		nullTime(row.User1PaidDate), nullTime(row.User2PaidDate),
		row.TotalRequired.Value.String())
	return err
}

func (s *Store) LedgerRows(ctx context.Context, id finance.PartnershipID) ([]split.LedgerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, user1_amount, user2_amount, user1_paid, user2_paid,
		       user1_paid_date, user2_paid_date, total_required
		FROM ledger_rows WHERE partnership_id = ? ORDER BY month`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []split.LedgerRow
	for rows.Next() {
		var r split.LedgerRow
		var month, u1Amount, u2Amount, total string
		var u1Paid, u2Paid int
		var u1Date, u2Date sql.NullString
		if err := rows.Scan(&r.ID, &month, &u1Amount, &u2Amount, &u1Paid, &u2Paid, &u1Date, &u2Date, &total); err != nil {
			return nil, err
		}
		r.PartnershipID = id
		r.Month, _ = finance.ParseMonthKey(month)
		r.User1Amount = amountOf(u1Amount, currency)
		r.User2Amount = amountOf(u2Amount, currency)
		r.User1Paid = u1Paid != 0
		r.User2Paid = u2Paid != 0
		r.User1PaidDate = scanNullTime(u1Date)
		r.User2PaidDate = scanNullTime(u2Date)
		r.TotalRequired = amountOf(total, currency)
		result = append(result, r)
	}
	return result, rows.Err()
}

// =============================================================================
// SAFETY POT
// =============================================================================

// SafetyPot returns the partnership's pot, lazily creating a zero-balance
// row on first read.
func (s *Store) SafetyPot(ctx context.Context, id finance.PartnershipID) (finance.SafetyPot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT current_amount, monthly_expenses, currency, updated_at
		FROM safety_pots WHERE partnership_id = ?`, string(id))

	var current, expenses, currency, updatedAt string
	err := row.Scan(&current, &expenses, &currency, &updatedAt)
	if err == sql.ErrNoRows {
		c, cerr := s.currencyOf(ctx, id)
		if cerr != nil {
			return finance.SafetyPot{}, cerr
		}
		pot := finance.SafetyPot{
			PartnershipID:   id,
			CurrentAmount:   finance.NewAmount(0, c),
			MonthlyExpenses: finance.NewAmount(0, c),
			UpdatedAt:       time.Now().UTC(),
		}
		return pot, s.savePotLocked(ctx, pot)
	}
	if err != nil {
		return finance.SafetyPot{}, err
	}

	c := finance.Currency(currency)
	pot := finance.SafetyPot{
		PartnershipID:   id,
		CurrentAmount:   amountOf(current, c),
		MonthlyExpenses: amountOf(expenses, c),
	}
	pot.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return pot, nil
}

func (s *Store) SaveSafetyPot(ctx context.Context, pot finance.SafetyPot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.savePotLocked(ctx, pot)
}

func (s *Store) savePotLocked(ctx context.Context, pot finance.SafetyPot) error {
	if pot.UpdatedAt.IsZero() {
		pot.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO safety_pots (partnership_id, current_amount, monthly_expenses, currency, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(partnership_id) DO UPDATE SET
			current_amount = excluded.current_amount,
			monthly_expenses = excluded.monthly_expenses,
			updated_at = excluded.updated_at`,
		string(pot.PartnershipID), pot.CurrentAmount.Value.String(),
		pot.MonthlyExpenses.Value.String(), string(pot.CurrentAmount.Currency),
		pot.UpdatedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) AddPotFlow(ctx context.Context, flow store.PotFlow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if flow.ID == "" {
		flow.ID = uuid.NewString()
	}
	if flow.RecordedAt.IsZero() {
		flow.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pot_flows (id, partnership_id, month, amount, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		flow.ID, string(flow.PartnershipID), flow.Month.String(),
		flow.Amount.Value.String(), flow.RecordedAt.UTC().Format(time.RFC3339))
	return err
}

func (s *Store) PotFlows(ctx context.Context, id finance.PartnershipID) ([]store.PotFlow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	currency, err := s.currencyOf(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, amount, recorded_at FROM pot_flows
		WHERE partnership_id = ? ORDER BY recorded_at, id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []store.PotFlow
	for rows.Next() {
		var f store.PotFlow
		var month, amount, recordedAt string
		if err := rows.Scan(&f.ID, &month, &amount, &recordedAt); err != nil {
			return nil, err
		}
		f.PartnershipID = id
		f.Month, _ = finance.ParseMonthKey(month)
		f.Amount = amountOf(amount, currency)
		f.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
		result = append(result, f)
	}
	return result, rows.Err()
}

// =============================================================================
// STREAK HIGH-WATER MARKS
// =============================================================================

func (s *Store) LongestStreak(ctx context.Context, id finance.PartnershipID, userID finance.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT longest_streak FROM streak_marks
		WHERE partnership_id = ? AND user_id = ?`, string(id), string(userID))

	var streak int
	if err := row.Scan(&streak); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}
	return streak, nil
}

// SaveLongestStreak persists the high-water mark. The stored value only ever
// grows.
func (s *Store) SaveLongestStreak(ctx context.Context, id finance.PartnershipID, userID finance.UserID, streak int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO streak_marks (partnership_id, user_id, longest_streak)
		VALUES (?, ?, ?)
		ON CONFLICT(partnership_id, user_id) DO UPDATE SET
			longest_streak = MAX(longest_streak, excluded.longest_streak)`,
		string(id), string(userID), streak)
	return err
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) currencyOf(ctx context.Context, id finance.PartnershipID) (finance.Currency, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT currency FROM partnerships WHERE id = ?`, string(id))
	var currency string
	if err := row.Scan(&currency); err != nil {
		if err == sql.ErrNoRows {
			return "", finance.ErrPartnershipNotFound
		}
		return "", err
	}
	return finance.Currency(currency), nil
}
