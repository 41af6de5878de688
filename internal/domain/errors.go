// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all layers. Storage and services return these
// wrapped with fmt.Errorf("...: %w", err); the handler layer translates them
// to HTTP statuses with errors.Is / errors.As. Not-found, invalid input and
// unsupported aggregation stay distinguishable end to end.
var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCardNotFound        = errors.New("card not found")
	ErrTransactionNotFound = errors.New("transaction not found")

	ErrProfileExists      = errors.New("profile already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedAggregation is returned for transaction types that have
	// no defined aggregation query (TRANSFER).
	ErrUnsupportedAggregation = errors.New("aggregation not supported for transaction type")
)

// ValidationError rejects caller input before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
