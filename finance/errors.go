/*
errors.go - Centralized error types for the allocation engines

PURPOSE:
  All sentinel errors in one place. The calculation engines themselves are
  total functions and never fail; these errors belong to the write paths
  (safety-pot contributions/withdrawals) and the storage boundary.

USAGE:
  Callers match with errors.Is:

    if errors.Is(err, finance.ErrInsufficientFunds) {
        // 409 / business-rule response
    }
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientFunds is returned when a withdrawal exceeds the
	// available safety-pot balance.
	ErrInsufficientFunds = errors.New("cannot withdraw more than is available")

	// ErrInvalidAmount is returned when a write-path amount is zero or
	// negative. Read-path engines assume validated input instead.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrPartnershipNotFound is returned when a referenced partnership
	// doesn't exist.
	ErrPartnershipNotFound = errors.New("partnership not found")

	// ErrGoalNotFound is returned when a referenced goal doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrLedgerRowNotFound is returned when no household ledger row exists
	// for a partnership and month.
	ErrLedgerRowNotFound = errors.New("ledger row not found")

	// ErrUnknownUser is returned when a user ID does not belong to the
	// partnership.
	ErrUnknownUser = errors.New("user does not belong to partnership")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientFundsError provides details about a withdrawal shortage.
type InsufficientFundsError struct {
	Available Amount
	Requested Amount
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s",
		e.Available.Format(), e.Requested.Format())
}

func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPartnershipNotFound) ||
		errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrLedgerRowNotFound)
}

// IsClientError returns true if the error is due to invalid client input or
// a business-rule violation, rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrUnknownUser)
}
