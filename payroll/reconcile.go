/*
reconcile.go - Replace-by-range attendance reconciliation

PURPOSE:
  Merges an edited attendance grid for one crew and one period back into
  the persisted attendance store. The edited grid is the sole source of
  truth for its (crew workers x period dates) rectangle: every existing
  record inside the rectangle is deleted and the grid's positive cells
  are inserted in their place. This is deliberately NOT a cell-level
  merge - a cell that is absent or zero in the grid erases whatever was
  saved for that (worker, date) before.

GUARANTEES:
  - Idempotent: reconciling the same grid twice yields identical state.
  - Isolated: records for workers outside the crew, or dates outside
    the period, are never touched.
  - No duplicates: the grid is keyed by (worker, date), so at most one
    record per (worker, date) can result.
  - Zero-hour cells (and negative ones) are dropped, never persisted.

WRITE STRATEGY:
  Delete-then-insert computed in memory, persisted in one SaveAttendance
  call - a single logical transaction, so a crash can't leave the
  rectangle half-replaced.

SEE ALSO:
  - store.go: SaveAttendance full-replace contract
  - period.go: Period resolution for the rectangle's date bounds
*/
package payroll

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// GRID - Edited attendance for one crew/period
// =============================================================================

// Cell identifies one grid cell: one worker on one date.
// Dates must be constructed via NewDate/ParseDate (normalized) so that
// Cell works as a map key.
type Cell struct {
	Worker string
	Date   Date
}

// Grid maps grid cells to worked hours, as delivered by an editing
// collaborator. Non-positive cells mean "no hours".
type Grid map[Cell]decimal.Decimal

// ReconcileResult reports what a reconciliation did, for caller audit.
type ReconcileResult struct {
	Inserted int // records written for the rectangle
	Removed  int // previously persisted records erased from the rectangle
	Dropped  int // grid cells ignored: non-positive hours or outside the rectangle
}

// =============================================================================
// RECONCILER
// =============================================================================

// Reconciler merges edited grids into the attendance store.
type Reconciler struct {
	Store AttendanceStore
}

func NewReconciler(store AttendanceStore) *Reconciler {
	return &Reconciler{Store: store}
}

// Reconcile replaces all persisted attendance for (worker in crewWorkers)
// and (date in period) with the grid's positive cells. Grid cells outside
// the rectangle are dropped rather than written: the caller only has
// authority over the rectangle it claims.
func (r *Reconciler) Reconcile(ctx context.Context, crewWorkers []string, period Period, grid Grid) (ReconcileResult, error) {
	if period.End.Before(period.Start) {
		return ReconcileResult{}, ErrInvalidPeriod
	}

	crew := make(map[string]bool, len(crewWorkers))
	for _, name := range crewWorkers {
		crew[name] = true
	}

	existing, err := r.Store.LoadAttendance(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	var result ReconcileResult

	// Keep everything outside the rectangle untouched.
	next := make([]AttendanceRecord, 0, len(existing)+len(grid))
	for _, rec := range existing {
		if crew[rec.Worker] && period.Contains(rec.Date) {
			result.Removed++
			continue
		}
		next = append(next, rec)
	}

	for cell, hours := range grid {
		if !crew[cell.Worker] || !period.Contains(cell.Date) || !hours.IsPositive() {
			result.Dropped++
			continue
		}
		next = append(next, AttendanceRecord{
			Date:   cell.Date,
			Week:   cell.Date.Week().Week,
			Worker: cell.Worker,
			Hours:  hours,
		})
		result.Inserted++
	}

	// Deterministic order keeps repeated reconciliations byte-stable.
	sort.Slice(next, func(i, j int) bool {
		if !next[i].Date.Equal(next[j].Date) {
			return next[i].Date.Before(next[j].Date)
		}
		return next[i].Worker < next[j].Worker
	})

	if err := r.Store.SaveAttendance(ctx, next); err != nil {
		return ReconcileResult{}, err
	}
	return result, nil
}
