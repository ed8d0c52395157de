package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
	"github.com/TheLaughingGod1986/split-save-sub004/store"
	"github.com/TheLaughingGod1986/split-save-sub004/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func gbp(v float64) finance.Amount {
	return finance.NewAmount(v, finance.CurrencyGBP)
}

func savePartnership(t *testing.T, st *sqlite.Store) finance.Partnership {
	p := finance.Partnership{
		ID:          "p-1",
		User1:       "alice",
		User2:       "bob",
		Currency:    finance.CurrencyGBP,
		User1Income: gbp(3000),
		User2Income: gbp(5000),
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.SavePartnership(context.Background(), p))
	return p
}

// =============================================================================
// PARTNERSHIPS
// =============================================================================

func TestPartnership_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	got, err := st.Partnership(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.User1, got.User1)
	assert.Equal(t, p.User2, got.User2)
	assert.True(t, got.User1Income.Value.Equal(p.User1Income.Value),
		"income %s != %s", got.User1Income.Value, p.User1Income.Value)
}

func TestPartnership_NotFound(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Partnership(context.Background(), "missing")
	assert.ErrorIs(t, err, finance.ErrPartnershipNotFound)
}

func TestPartnership_UpdateIncomes(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	p.User1Income = gbp(4000)
	require.NoError(t, st.SavePartnership(ctx, p))

	got, err := st.Partnership(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.User1Income.Value.Equal(gbp(4000).Value))
}

// =============================================================================
// EXPENSES AND GOALS
// =============================================================================

func TestExpense_SaveListDelete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	e := finance.Expense{
		ID:            "e-1",
		PartnershipID: p.ID,
		Name:          "rent",
		Amount:        gbp(1200),
		Frequency:     finance.FreqMonthly,
	}
	require.NoError(t, st.SaveExpense(ctx, e))

	list, err := st.Expenses(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, finance.FreqMonthly, list[0].Frequency)
	assert.True(t, list[0].Amount.Value.Equal(gbp(1200).Value))

	require.NoError(t, st.DeleteExpense(ctx, p.ID, "e-1"))
	list, err = st.Expenses(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGoal_RoundTrip_PreservesPrecisionAndDate(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	target := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	g := finance.Goal{
		ID:            "g-1",
		PartnershipID: p.ID,
		Name:          "holiday",
		TargetAmount:  finance.NewAmountFromDecimal(finance.MustParseDecimal("2500.55"), finance.CurrencyGBP),
		CurrentAmount: finance.NewAmountFromDecimal(finance.MustParseDecimal("833.33"), finance.CurrencyGBP),
		TargetDate:    &target,
		Priority:      finance.PriorityHigh,
	}
	require.NoError(t, st.SaveGoal(ctx, g))

	got, err := st.Goal(ctx, p.ID, "g-1")
	require.NoError(t, err)
	assert.Equal(t, "2500.55", got.TargetAmount.Value.String())
	assert.Equal(t, "833.33", got.CurrentAmount.Value.String())
	assert.Equal(t, finance.PriorityHigh, got.Priority)
	require.NotNil(t, got.TargetDate)
	assert.True(t, got.TargetDate.Equal(target))
}

func TestGoal_NotFound(t *testing.T) {
	st := newTestStore(t)
	p := savePartnership(t, st)

	_, err := st.Goal(context.Background(), p.ID, "missing")
	assert.ErrorIs(t, err, finance.ErrGoalNotFound)
}

// =============================================================================
// CONTRIBUTIONS
// =============================================================================

func TestContributions_InsertOnly_FilterByUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	month := finance.MonthKey{Year: 2025, Month: time.March}
	for i, user := range []finance.UserID{"alice", "alice", "bob"} {
		c := finance.Contribution{
			ID:            string(rune('a' + i)),
			PartnershipID: p.ID,
			UserID:        user,
			Month:         month,
			Amount:        gbp(100),
			Expected:      gbp(120),
			RecordedAt:    time.Date(2025, 3, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, st.AddContribution(ctx, c))
	}

	all, err := st.Contributions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	alices, err := st.ContributionsByUser(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Len(t, alices, 2)
	for _, c := range alices {
		assert.Equal(t, finance.UserID("alice"), c.UserID)
		assert.Equal(t, month, c.Month)
	}
}

// =============================================================================
// LEDGER ROWS
// =============================================================================

func TestLedgerRow_UpsertPerMonth(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	month := finance.MonthKey{Year: 2025, Month: time.March}
	row := split.LedgerRow{
		ID:            "row-1",
		PartnershipID: p.ID,
		Month:         month,
		User1Amount:   gbp(450),
		User2Amount:   gbp(750),
		TotalRequired: gbp(1200),
	}
	require.NoError(t, st.SaveLedgerRow(ctx, row))

	// Marking paid re-saves the same month's row.
	paidAt := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	row.User1Paid = true
	row.User1PaidDate = &paidAt
	require.NoError(t, st.SaveLedgerRow(ctx, row))

	got, err := st.LedgerRow(ctx, p.ID, month)
	require.NoError(t, err)
	assert.True(t, got.User1Paid)
	require.NotNil(t, got.User1PaidDate)
	assert.True(t, got.User1PaidDate.Equal(paidAt))
	assert.False(t, got.User2Paid)

	rows, err := st.LedgerRows(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "one row per partnership per month")
}

func TestLedgerRow_NotFound(t *testing.T) {
	st := newTestStore(t)
	p := savePartnership(t, st)

	_, err := st.LedgerRow(context.Background(), p.ID, finance.MonthKey{Year: 2030, Month: time.January})
	assert.ErrorIs(t, err, finance.ErrLedgerRowNotFound)
}

// =============================================================================
// SAFETY POT AND FLOWS
// =============================================================================

func TestSafetyPot_LazyZeroOnFirstRead(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	pot, err := st.SafetyPot(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, pot.CurrentAmount.IsZero())
	assert.Equal(t, finance.CurrencyGBP, pot.CurrentAmount.Currency)

	pot.CurrentAmount = gbp(500)
	require.NoError(t, st.SaveSafetyPot(ctx, pot))

	got, err := st.SafetyPot(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "500", got.CurrentAmount.Value.String())
}

func TestPotFlows_RoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	month := finance.MonthKey{Year: 2025, Month: time.March}
	require.NoError(t, st.AddPotFlow(ctx, store.PotFlow{
		ID: "f-1", PartnershipID: p.ID, Month: month, Amount: gbp(200),
		RecordedAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, st.AddPotFlow(ctx, store.PotFlow{
		ID: "f-2", PartnershipID: p.ID, Month: month, Amount: gbp(-50),
		RecordedAt: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
	}))

	flows, err := st.PotFlows(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, flows, 2)
	assert.Equal(t, "200", flows[0].Amount.Value.String())
	assert.Equal(t, "-50", flows[1].Amount.Value.String())
	assert.Equal(t, month, flows[1].Month)
}

// =============================================================================
// STREAK MARKS
// =============================================================================

func TestLongestStreak_OnlyGrows(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	p := savePartnership(t, st)

	got, err := st.LongestStreak(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, got, "missing mark reads as zero")

	require.NoError(t, st.SaveLongestStreak(ctx, p.ID, "alice", 5))
	require.NoError(t, st.SaveLongestStreak(ctx, p.ID, "alice", 3))

	got, err = st.LongestStreak(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 5, got, "a lower value never overwrites the high-water mark")
}
