package bahi

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bahi-dev/bahi/date"
)

// The kernel reports every failure as one of five typed errors. No
// operation substitutes a default rate, a zero cost or a guessed term
// classification; callers match with errors.As and decide whether to
// abort or continue.

// ValidationError describes malformed or missing input to an operation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// errValidation is a shorthand constructor used throughout the kernel.
func errValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnbalancedEntryError reports that a journal's lines, converted to the
// settlement currency, do not balance within tolerance.
type UnbalancedEntryError struct {
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("unbalanced entry: debits %s != credits %s", e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

// AlreadyReversedError reports an attempt to reverse a journal that is
// already reversed, or that is itself a reversal.
type AlreadyReversedError struct {
	ID JournalID
}

func (e *AlreadyReversedError) Error() string {
	return fmt.Sprintf("journal %s is already reversed or is a reversal", e.ID)
}

// InsufficientLotsError reports a sale of more units than a position holds.
type InsufficientLotsError struct {
	Holding   string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("insufficient lots for %s: requested %s, available %s", e.Holding, e.Requested, e.Available)
}

// RateNotFoundError reports that no exchange rate is available on the
// requested date nor within the lookback window before it.
type RateNotFoundError struct {
	Currency string
	On       date.Date
	Lookback int
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no %s rate on %s nor within the previous %d days", e.Currency, e.On, e.Lookback)
}
