package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FREQUENCY - Recurring-amount normalization
// =============================================================================

// Frequency is how often a recurring obligation is charged.
type Frequency string

const (
	FreqWeekly    Frequency = "weekly"
	FreqMonthly   Frequency = "monthly"
	FreqQuarterly Frequency = "quarterly"
	FreqYearly    Frequency = "yearly"
)

// weeksPerMonth is the conventional 4.33 weeks-in-a-month factor.
var weeksPerMonth = decimal.RequireFromString("4.33")

var twelve = decimal.NewFromInt(12)

// ParseFrequency parses a frequency string.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FreqWeekly, FreqMonthly, FreqQuarterly, FreqYearly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("invalid frequency %q", s)
}

// MonthlyEquivalent converts an amount charged at this frequency into its
// monthly-equivalent amount: weekly ×4.33, quarterly ÷4, yearly ÷12, monthly ×1.
func (f Frequency) MonthlyEquivalent(a Amount) Amount {
	switch f {
	case FreqWeekly:
		return a.Mul(weeksPerMonth)
	case FreqQuarterly:
		return a.Div(decimal.NewFromInt(4))
	case FreqYearly:
		return a.Div(twelve)
	default: // monthly
		return a
	}
}
