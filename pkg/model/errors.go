package model

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrInvalidModel = errors.New("invalid model")
	ErrLoadFailed   = errors.New("model load failed")
)

// ModelError provides structured error information for model operations.
type ModelError struct {
	Op     string // Operation that failed (e.g., "load", "validate")
	Entity string // Entity type (e.g., "node", "edge", "view")
	ID     string // Entity key, if applicable
	Cause  error
}

// Error implements the error interface.
func (e *ModelError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Entity != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ModelError) Unwrap() error {
	return e.Cause
}

// IsInvalid returns true if the error came from model validation.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidModel)
}
