/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All engine error types in one place. Callers use errors.Is / errors.As;
  surrounding layers (scenario, api) map these onto their own surfaces.

ERROR CATEGORIES:
  1. Configuration errors - Rejected at the configuration write boundary
  2. Ledger errors - Precondition failures on mutation operations

Unknown grades and removed ids are intentionally NOT errors: pricing
degrades (see pricing.go, recalc.go) and Remove of a missing id is a
no-op per the ledger contract.
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is the sentinel wrapped by every
	// ConfigurationError.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrFixedExpenseNotFound is returned by SetFixedExpense when no
	// fixed line carries the requested label. The ledger is unchanged.
	ErrFixedExpenseNotFound = errors.New("fixed expense not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError reports a rate-configuration field rejected at
// write time. The previous valid configuration stays in effect.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s = %s %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// FixedExpenseNotFoundError names the label that had no matching fixed
// expense line.
type FixedExpenseNotFoundError struct {
	Label string
}

func (e *FixedExpenseNotFoundError) Error() string {
	return fmt.Sprintf("fixed expense %q not found", e.Label)
}

func (e *FixedExpenseNotFoundError) Unwrap() error {
	return ErrFixedExpenseNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// IsNotFound returns true if the error indicates a missing target.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFixedExpenseNotFound)
}
