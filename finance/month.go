package finance

import (
	"fmt"
	"time"
)

// =============================================================================
// MONTH KEY - Calendar month identifier ("YYYY-MM")
// =============================================================================

// MonthKey identifies a calendar month. It is the grouping key for
// contribution records and the identity of a household ledger row.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses a "YYYY-MM" key.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MonthKeyOf returns the month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m MonthKey) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// Start returns the first instant of the month in UTC.
func (m MonthKey) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m MonthKey) AddMonths(n int) MonthKey {
	return MonthKeyOf(m.Start().AddDate(0, n, 0))
}

func (m MonthKey) Next() MonthKey { return m.AddMonths(1) }
func (m MonthKey) Prev() MonthKey { return m.AddMonths(-1) }

func (m MonthKey) Before(other MonthKey) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

func (m MonthKey) After(other MonthKey) bool { return other.Before(m) }
func (m MonthKey) Equal(other MonthKey) bool { return m == other }

// MonthsUntil returns the number of whole months from m to other.
// Negative when other precedes m.
func (m MonthKey) MonthsUntil(other MonthKey) int {
	return (other.Year-m.Year)*12 + int(other.Month-m.Month)
}

// Elapsed reports whether the month has fully passed as of now.
func (m MonthKey) Elapsed(now time.Time) bool {
	return !now.Before(m.Next().Start())
}
