// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrRoutineNotFound indicates a routine was not found by the given identifier.
	ErrRoutineNotFound = errors.New("routine not found")

	// ErrInvalidRoutineID indicates a store id that cannot name a document
	// (empty, or containing path separators).
	ErrInvalidRoutineID = errors.New("invalid routine id")
)

// RoutineStoreError wraps store errors with additional context.
type RoutineStoreError struct {
	Op        string // Operation being performed ("RoutineByID", "SaveRoutine", ...)
	RoutineID string // Store id if applicable
	Err       error  // Underlying error
}

func (e *RoutineStoreError) Error() string {
	return fmt.Sprintf("%s operation failed for routine %s: %v", e.Op, e.RoutineID, e.Err)
}

func (e *RoutineStoreError) Unwrap() error {
	return e.Err
}

func (e *RoutineStoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRoutineStoreError creates a new store error with context.
func NewRoutineStoreError(op, routineID string, err error) *RoutineStoreError {
	return &RoutineStoreError{
		Op:        op,
		RoutineID: routineID,
		Err:       err,
	}
}

// IsRoutineNotFound checks if an error indicates a routine was not found.
func IsRoutineNotFound(err error) bool {
	return errors.Is(err, ErrRoutineNotFound)
}

// IsInvalidRoutineID checks if an error indicates an unusable store id.
func IsInvalidRoutineID(err error) bool {
	return errors.Is(err, ErrInvalidRoutineID)
}
