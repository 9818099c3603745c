// Package apperrors holds the expected, user-facing failure outcomes shared by
// the repositories, services and handlers.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when a relation pair already exists.
	ErrDuplicate = errors.New("already exists")
	// ErrNotFound is returned when a relation or entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRelation is returned for self-follows and malformed identifiers.
	ErrInvalidRelation = errors.New("invalid relation")
	// ErrEmptyBasket is returned when exporting a shopping list with nothing in the basket.
	ErrEmptyBasket = errors.New("shopping basket is empty")
	// ErrInvalidToken is returned when a short-link token cannot be decoded.
	ErrInvalidToken = errors.New("invalid short-link token")
	// ErrForbidden is returned when a user mutates an entity they do not own.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports a rejected upload or request payload.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// NotFound wraps ErrNotFound with the name of the missing thing.
func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
