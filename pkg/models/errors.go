// Package models provides standardized error types for routine operations.
package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNodeID indicates an AddNode call with an id already in use.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrInvalidDocument indicates a routine document that fails schema
	// validation (missing required field, wrong field type, bad JSON).
	ErrInvalidDocument = errors.New("invalid routine document")
)

// RoutineError wraps routine document errors with the file path they came
// from, so load failures always name their source.
type RoutineError struct {
	Op   string // Operation being performed ("Load", "Save", "FromJSON")
	Path string // File path if applicable
	Err  error  // Underlying error
}

func (e *RoutineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RoutineError) Unwrap() error {
	return e.Err
}

func (e *RoutineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewRoutineError creates a new routine error with context.
func NewRoutineError(op, path string, err error) *RoutineError {
	return &RoutineError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// IsDuplicateNodeID checks if an error indicates a node id collision.
func IsDuplicateNodeID(err error) bool {
	return errors.Is(err, ErrDuplicateNodeID)
}

// IsInvalidDocument checks if an error indicates a malformed routine document.
func IsInvalidDocument(err error) bool {
	return errors.Is(err, ErrInvalidDocument)
}
