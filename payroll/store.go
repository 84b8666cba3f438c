/*
store.go - Persistence interfaces for the payroll engine

PURPOSE:
  Defines the interface between the engine and its persistence
  collaborator. The engine never touches files or databases directly;
  it consumes and produces plain record slices.

SEMANTICS:
  - SaveWorkers and SaveAttendance are FULL-REPLACE operations: the
    supplied slice becomes the entire table. The reconciler relies on
    this to implement replace-by-range as a single logical write.
  - Advances are append-only; SaveAdvances exists only for full-list
    clearing (save an empty slice) and for stores that rewrite their
    backing file wholesale.
  - Loads return copies; mutating a returned slice never mutates the store.

CONCURRENCY:
  The engine is single-threaded. Two reconciliations over disjoint
  (crew x period) rectangles interleave safely; overlapping rectangles
  are last-write-wins. Serializing overlapping writers is the storage
  collaborator's responsibility, not the engine's.

IMPLEMENTATIONS:
  - store/sqlite:      SQLite-backed production store
  - store/flatfile:    Legacy semicolon-delimited text files
  - payroll/store:     In-memory, for tests and dev

SEE ALSO:
  - reconcile.go: The only writer of attendance
*/
package payroll

import "context"

// =============================================================================
// STORE INTERFACES
// =============================================================================

// WorkerStore persists the worker directory.
type WorkerStore interface {
	// LoadWorkers returns the full directory.
	LoadWorkers(ctx context.Context) ([]Worker, error)

	// SaveWorkers replaces the full directory with the given slice.
	SaveWorkers(ctx context.Context, workers []Worker) error
}

// AttendanceStore persists daily attendance records.
type AttendanceStore interface {
	// LoadAttendance returns all attendance records.
	LoadAttendance(ctx context.Context) ([]AttendanceRecord, error)

	// SaveAttendance replaces the full attendance table with the given
	// slice. Called by the reconciler after computing the new set.
	SaveAttendance(ctx context.Context, records []AttendanceRecord) error
}

// AdvanceStore persists advance payments.
type AdvanceStore interface {
	// LoadAdvances returns all advance payments.
	LoadAdvances(ctx context.Context) ([]AdvancePayment, error)

	// AppendAdvance records one advance payment. Advances are append-only.
	AppendAdvance(ctx context.Context, advance AdvancePayment) error

	// SaveAdvances replaces the full advance list. Save an empty slice
	// to clear it; there is no per-row update or delete.
	SaveAdvances(ctx context.Context, advances []AdvancePayment) error
}

// Store combines all persistence interfaces a full deployment needs.
type Store interface {
	WorkerStore
	AttendanceStore
	AdvanceStore
}
