// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/TheLaughingGod1986/split-save-sub004/finance"
	"github.com/TheLaughingGod1986/split-save-sub004/split"
	"github.com/TheLaughingGod1986/split-save-sub004/store"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu            sync.RWMutex
	partnerships  map[finance.PartnershipID]finance.Partnership
	expenses      map[finance.PartnershipID][]finance.Expense
	goals         map[finance.PartnershipID][]finance.Goal
	contributions map[finance.PartnershipID][]finance.Contribution
	ledger        map[ledgerKey]split.LedgerRow
	pots          map[finance.PartnershipID]finance.SafetyPot
	potFlows      map[finance.PartnershipID][]store.PotFlow
	streaks       map[streakKey]int
}

type ledgerKey struct {
	PartnershipID finance.PartnershipID
	Month         finance.MonthKey
}

type streakKey struct {
	PartnershipID finance.PartnershipID
	UserID        finance.UserID
}

func New() *Memory {
	return &Memory{
		partnerships:  make(map[finance.PartnershipID]finance.Partnership),
		expenses:      make(map[finance.PartnershipID][]finance.Expense),
		goals:         make(map[finance.PartnershipID][]finance.Goal),
		contributions: make(map[finance.PartnershipID][]finance.Contribution),
		ledger:        make(map[ledgerKey]split.LedgerRow),
		pots:          make(map[finance.PartnershipID]finance.SafetyPot),
		potFlows:      make(map[finance.PartnershipID][]store.PotFlow),
		streaks:       make(map[streakKey]int),
	}
}

func (m *Memory) Partnership(_ context.Context, id finance.PartnershipID) (finance.Partnership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partnerships[id]
	if !ok {
		return finance.Partnership{}, finance.ErrPartnershipNotFound
	}
	return p, nil
}

func (m *Memory) SavePartnership(_ context.Context, p finance.Partnership) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partnerships[p.ID] = p
	return nil
}

func (m *Memory) ListPartnerships(_ context.Context) ([]finance.Partnership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]finance.Partnership, 0, len(m.partnerships))
	for _, p := range m.partnerships {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) Expenses(_ context.Context, id finance.PartnershipID) ([]finance.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]finance.Expense, len(m.expenses[id]))
	copy(result, m.expenses[id])
	return result, nil
}

func (m *Memory) SaveExpense(_ context.Context, e finance.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.expenses[e.PartnershipID]
	for i, existing := range list {
		if existing.ID == e.ID {
			list[i] = e
			return nil
		}
	}
	m.expenses[e.PartnershipID] = append(list, e)
	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id finance.PartnershipID, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.expenses[id]
	for i, e := range list {
		if e.ID == expenseID {
			m.expenses[id] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) Goals(_ context.Context, id finance.PartnershipID) ([]finance.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]finance.Goal, len(m.goals[id]))
	copy(result, m.goals[id])
	return result, nil
}

func (m *Memory) Goal(_ context.Context, id finance.PartnershipID, goalID string) (finance.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.goals[id] {
		if g.ID == goalID {
			return g, nil
		}
	}
	return finance.Goal{}, finance.ErrGoalNotFound
}

func (m *Memory) SaveGoal(_ context.Context, g finance.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.goals[g.PartnershipID]
	for i, existing := range list {
		if existing.ID == g.ID {
			list[i] = g
			return nil
		}
	}
	m.goals[g.PartnershipID] = append(list, g)
	return nil
}

func (m *Memory) Contributions(_ context.Context, id finance.PartnershipID) ([]finance.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]finance.Contribution, len(m.contributions[id]))
	copy(result, m.contributions[id])
	return result, nil
}

func (m *Memory) ContributionsByUser(_ context.Context, id finance.PartnershipID, userID finance.UserID) ([]finance.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []finance.Contribution
	for _, c := range m.contributions[id] {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

// AddContribution appends. Insert-only: there is no update or delete.
func (m *Memory) AddContribution(_ context.Context, c finance.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contributions[c.PartnershipID] = append(m.contributions[c.PartnershipID], c)
	return nil
}

func (m *Memory) LedgerRow(_ context.Context, id finance.PartnershipID, month finance.MonthKey) (split.LedgerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.ledger[ledgerKey{PartnershipID: id, Month: month}]
	if !ok {
		return split.LedgerRow{}, finance.ErrLedgerRowNotFound
	}
	return row, nil
}

func (m *Memory) SaveLedgerRow(_ context.Context, row split.LedgerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger[ledgerKey{PartnershipID: row.PartnershipID, Month: row.Month}] = row
	return nil
}

func (m *Memory) LedgerRows(_ context.Context, id finance.PartnershipID) ([]split.LedgerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []split.LedgerRow
	for k, row := range m.ledger {
		if k.PartnershipID == id {
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Month.Before(result[j].Month) })
	return result, nil
}

// SafetyPot returns the partnership's pot, lazily created with a zero
// balance on first read.
func (m *Memory) SafetyPot(_ context.Context, id finance.PartnershipID) (finance.SafetyPot, error) {
	m.mu.RLock()
	pot, ok := m.pots[id]
	m.mu.RUnlock()
	if ok {
		return pot, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if pot, ok = m.pots[id]; ok {
		return pot, nil
	}
	currency := finance.CurrencyGBP
	if p, ok := m.partnerships[id]; ok {
		currency = p.Currency
	}
	pot = finance.SafetyPot{
		PartnershipID:   id,
		CurrentAmount:   finance.NewAmount(0, currency),
		MonthlyExpenses: finance.NewAmount(0, currency),
	}
	m.pots[id] = pot
	return pot, nil
}

func (m *Memory) SaveSafetyPot(_ context.Context, pot finance.SafetyPot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pots[pot.PartnershipID] = pot
	return nil
}

// AddPotFlow appends. Insert-only, like contributions.
func (m *Memory) AddPotFlow(_ context.Context, flow store.PotFlow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.potFlows[flow.PartnershipID] = append(m.potFlows[flow.PartnershipID], flow)
	return nil
}

func (m *Memory) PotFlows(_ context.Context, id finance.PartnershipID) ([]store.PotFlow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]store.PotFlow, len(m.potFlows[id]))
	copy(result, m.potFlows[id])
	return result, nil
}

func (m *Memory) LongestStreak(_ context.Context, id finance.PartnershipID, userID finance.UserID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.streaks[streakKey{PartnershipID: id, UserID: userID}], nil
}

// SaveLongestStreak persists the high-water mark. The stored value only ever
// grows.
func (m *Memory) SaveLongestStreak(_ context.Context, id finance.PartnershipID, userID finance.UserID, streak int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := streakKey{PartnershipID: id, UserID: userID}
	if streak > m.streaks[key] {
		m.streaks[key] = streak
	}
	return nil
}

func (m *Memory) Close() error { return nil }
