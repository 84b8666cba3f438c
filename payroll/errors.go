/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All error types in one place. The engine distinguishes caller contract
  violations (fail fast) from dirty data (dropped silently, counted for
  audit - see ReportAudit and ReconcileResult).

ERROR CATEGORIES:
  1. Contract violations - invalid month, malformed period
  2. Directory errors - duplicate or missing workers

Dirty data (non-numeric hours, unparseable dates, orphaned names) is
never an error: rows are dropped so a report stays producible.
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidMonth is returned by PeriodRules.Resolve for a month
	// outside 1..12. This indicates a defective caller, not dirty data.
	ErrInvalidMonth = errors.New("month out of range 1..12")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrDuplicateWorker is returned when creating a worker whose name is
	// already in the directory. Names are the directory's identifiers.
	ErrDuplicateWorker = errors.New("worker already exists")

	// ErrInvalidWorker is returned when a worker entry is missing its name
	// or crew, or carries a negative rate.
	ErrInvalidWorker = errors.New("invalid worker entry")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WorkerError provides details about a directory operation failure.
type WorkerError struct {
	Name string
	Err  error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %q: %v", e.Name, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidMonth) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrDuplicateWorker) ||
		errors.Is(err, ErrInvalidWorker)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound)
}
