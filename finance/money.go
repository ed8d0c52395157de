/*
Package finance provides the core types and money primitives for the
shared-finance allocation engine.

PURPOSE:
  This package contains the types shared by all calculation engines: monetary
  amounts, month keys, recurring frequencies, and the household records
  (expenses, goals, contributions, safety pot) that engines consume.

KEY CONCEPTS IN THIS FILE (money.go):
  - Amount: A monetary quantity with a currency
  - Currency: ISO-style currency code with display symbol

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Purity: All operations return new values; nothing is mutated
  3. Totality: Division by zero is guarded, not surfaced as an error

SEE ALSO:
  - month.go: Month-key parsing and arithmetic
  - frequency.go: Recurring-amount normalization
  - types.go: Household records (Goal, Expense, Contribution, SafetyPot)
*/
package finance

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary quantity with currency
// =============================================================================

type Amount struct {
	Value    decimal.Decimal
	Currency Currency
}

type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case CurrencyGBP:
		return "£"
	case CurrencyUSD:
		return "$"
	case CurrencyEUR:
		return "€"
	default:
		return string(c) + " "
	}
}

func NewAmount(value float64, currency Currency) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Currency: currency}
}

func NewAmountFromDecimal(value decimal.Decimal, currency Currency) Amount {
	return Amount{Value: value, Currency: currency}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Currency: a.Currency} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Currency: a.Currency} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Currency: a.Currency} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Currency: a.Currency} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Currency: a.Currency} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Min(b Amount) Amount          { if a.LessThan(b) { return a }; return b }
func (a Amount) Max(b Amount) Amount          { if a.GreaterThan(b) { return a }; return b }

// Div divides by a scalar. A zero divisor returns a zero amount rather than
// panicking; the engines are total functions over well-formed input.
func (a Amount) Div(s decimal.Decimal) Amount {
	if s.IsZero() {
		return a.Zero()
	}
	return Amount{Value: a.Value.Div(s), Currency: a.Currency}
}

// FloorZero clamps a negative amount to zero.
func (a Amount) FloorZero() Amount {
	if a.IsNegative() {
		return a.Zero()
	}
	return a
}

// Round returns the amount rounded to 2 decimal places (half up).
func (a Amount) Round() Amount {
	return Amount{Value: a.Value.Round(2), Currency: a.Currency}
}

// RoundDown returns the amount truncated to 2 decimal places. Used when a sum
// of parts must never exceed the whole (e.g. redistribution awards).
func (a Amount) RoundDown() Amount {
	return Amount{Value: a.Value.RoundDown(2), Currency: a.Currency}
}

// Format renders the amount for display, e.g. "£450.00".
func (a Amount) Format() string {
	if a.IsNegative() {
		return "-" + a.Currency.Symbol() + a.Value.Abs().StringFixed(2)
	}
	return a.Currency.Symbol() + a.Value.StringFixed(2)
}
