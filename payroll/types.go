/*
Package payroll implements the crew payroll computation engine.

PURPOSE:
  This package contains the core types and algorithms for computing
  periodic payroll for a workforce organized into crews: accounting
  period resolution, weekly regular/overtime apportionment, attendance
  grid reconciliation, and payroll aggregation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Worker: A directory entry with job function, crew and hourly rates
  - AttendanceRecord: One day of worked hours for one worker
  - AdvancePayment: Money paid out before period-end, deducted from net
  - PayrollLine / Report: The computed output, never persisted

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal for hours and money - no float drift
  2. Weak references: Attendance and advances reference workers by name;
     a missing directory entry drops the row, it never crashes the report
  3. Purity: The computed output (Report) is derived, never stored

SEE ALSO:
  - date.go: Date, Period, and ISO week types
  - period.go: Accounting period resolution (26th-to-25th cycle)
  - overtime.go: Weekly regular/overtime split
  - reconcile.go: Replace-by-range attendance reconciliation
  - aggregate.go: Per-worker and per-crew payroll aggregation
*/
package payroll

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKER - Directory entry
// =============================================================================

// Worker is a workforce directory entry. Name is the identifier: attendance
// and advances reference workers by name, with no enforced foreign key.
type Worker struct {
	Name         string
	Function     string
	Crew         string
	RegularRate  decimal.Decimal // pay per regular hour
	OvertimeRate decimal.Decimal // pay per overtime hour
}

// =============================================================================
// ATTENDANCE - One day of worked hours
// =============================================================================

// AttendanceRecord is one day of worked hours for one worker.
// At most one record exists per (Date, Worker); zero-hour days are
// represented by the absence of a record, never by a zero row.
type AttendanceRecord struct {
	Date   Date
	Week   int // ISO week number, derived from Date at write time
	Worker string
	Hours  decimal.Decimal
}

// =============================================================================
// ADVANCE - Pre-period-end payment
// =============================================================================

// AdvancePayment is money paid to a worker before period-end.
// Advances are append-only; they are deducted from the net of the
// period their date falls in.
type AdvancePayment struct {
	Date   Date
	Worker string
	Amount decimal.Decimal
}

// =============================================================================
// PAYROLL OUTPUT - Derived, never persisted
// =============================================================================

// PayrollLine is the computed payroll for one worker over one period.
//
// Invariants:
//   Gross = RegularHours*RegularRate + OvertimeHours*OvertimeRate
//   Net   = Gross - Advances   (may be negative; not clamped)
type PayrollLine struct {
	Crew          string
	Worker        string
	Function      string
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	Gross         decimal.Decimal
	Advances      decimal.Decimal
	Net           decimal.Decimal
}

// CrewPayroll groups the lines of one crew with their subtotal.
// Subtotal is the sum of the lines' nets.
type CrewPayroll struct {
	Crew     string
	Lines    []PayrollLine
	Subtotal decimal.Decimal
}

// Report is the full payroll report for one period.
// GrandTotal always equals the sum of all line nets.
type Report struct {
	Period     Period
	Crews      []CrewPayroll
	GrandTotal decimal.Decimal
	Audit      ReportAudit
}

// ReportAudit counts the rows the aggregator silently excluded, so a
// presentation layer can warn the user without the engine failing.
type ReportAudit struct {
	// OrphanedAttendance counts in-period attendance rows whose worker
	// name has no directory entry.
	OrphanedAttendance int

	// OrphanedAdvances counts in-period advance rows that could not be
	// applied to any payroll line (unknown worker, or a worker with no
	// attendance this period).
	OrphanedAdvances int
}

// Lines returns every payroll line in the report, in report order.
func (r Report) Lines() []PayrollLine {
	var lines []PayrollLine
	for _, c := range r.Crews {
		lines = append(lines, c.Lines...)
	}
	return lines
}
