package engine

import (
	"errors"
	"fmt"

	"github.com/ianhorswill/ted/internal/table"
)

// RuntimeError represents an error detected by the scheduler.
//
// Runtime errors include:
//   - Duplicate relation: two relations registered under one name
//   - Recompute failure: a relation's definition failed (the cause,
//     e.g. a dependency cycle or quota breach, is wrapped)
//
// RuntimeError includes structured fields for diagnostics.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// Relation identifies the affected relation, if any.
	Relation string

	// Tick is the tick being processed when the error surfaced;
	// zero for setup-time errors.
	Tick int64

	// Err is the wrapped cause, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeDuplicateRelation indicates a name registered twice.
	ErrCodeDuplicateRelation RuntimeErrorCode = "DUPLICATE_RELATION"

	// ErrCodeRecomputeFailed indicates EnsureCurrent failed during a
	// tick's recompute phase.
	ErrCodeRecomputeFailed RuntimeErrorCode = "RECOMPUTE_FAILED"

	// ErrCodeAppendFailed indicates the input append phase failed.
	ErrCodeAppendFailed RuntimeErrorCode = "APPEND_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	switch {
	case e.Relation != "" && e.Tick > 0:
		return fmt.Sprintf("%s: %s (relation=%s, tick=%d)", e.Code, e.Message, e.Relation, e.Tick)
	case e.Relation != "":
		return fmt.Sprintf("%s: %s (relation=%s)", e.Code, e.Message, e.Relation)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the wrapped cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsCycleError returns true if the error stems from a dependency
// cycle between relation recomputes. Uses errors.As to handle
// wrapped errors.
func IsCycleError(err error) bool {
	var ce *table.CycleError
	return errors.As(err, &ce)
}

// IsQuotaError returns true if the error stems from a relation
// exceeding its row quota. Uses errors.As to handle wrapped errors.
func IsQuotaError(err error) bool {
	var qe *table.QuotaError
	return errors.As(err, &qe)
}
