// ABOUTME: Error taxonomy for the food and exercise log core.
// ABOUTME: Validation failures unwrap to ErrInvalidArgument, conflicts to ErrDuplicate.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of every validation failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicate reports a (user, entity, date) uniqueness conflict.
	ErrDuplicate = errors.New("duplicate log entry")
)

// ValidationError describes a rejected field value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConflictError is returned when a log key is already held by another record.
type ConflictError struct {
	Key        LogKey
	ExistingID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already logged for %s on %s (entry %s)",
		e.Key.Kind, e.Key.User, e.Key.Date, shortID(e.ExistingID))
}

func (e *ConflictError) Unwrap() error {
	return ErrDuplicate
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
