package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func februaryPeriod(t *testing.T) payroll.Period {
	t.Helper()
	period, err := payroll.DefaultPeriodRules().Resolve(2, 2026)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return period
}

func cell(worker string, day int) payroll.Cell {
	return payroll.Cell{Worker: worker, Date: payroll.NewDate(2026, time.February, day)}
}

func loadAll(t *testing.T, s payroll.AttendanceStore) []payroll.AttendanceRecord {
	t.Helper()
	records, err := s.LoadAttendance(context.Background())
	if err != nil {
		t.Fatalf("LoadAttendance failed: %v", err)
	}
	return records
}

func sameRecords(a, b []payroll.AttendanceRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Date.Equal(b[i].Date) || a[i].Worker != b[i].Worker ||
			a[i].Week != b[i].Week || !a[i].Hours.Equal(b[i].Hours) {
			return false
		}
	}
	return true
}

// =============================================================================
// IDEMPOTENCE
// =============================================================================

func TestReconcile_Idempotent(t *testing.T) {
	// GIVEN: An edited grid for one crew and period
	// WHEN: Reconciling it twice
	// THEN: The persisted set is identical both times - no duplicates

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)
	crew := []string{"Moussa", "Abdou"}

	grid := payroll.Grid{
		cell("Moussa", 2): decimal.NewFromInt(8),
		cell("Moussa", 3): decimal.NewFromInt(10),
		cell("Abdou", 2):  decimal.NewFromInt(9),
	}

	if _, err := r.Reconcile(ctx, crew, period, grid); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}
	first := loadAll(t, s)

	if _, err := r.Reconcile(ctx, crew, period, grid); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}
	second := loadAll(t, s)

	if len(first) != 3 {
		t.Fatalf("len(first) = %d, want 3", len(first))
	}
	if !sameRecords(first, second) {
		t.Errorf("second reconcile changed the persisted set:\nfirst:  %v\nsecond: %v", first, second)
	}
}

// =============================================================================
// ISOLATION
// =============================================================================

func TestReconcile_DoesNotTouchOtherCrews(t *testing.T) {
	// GIVEN: Persisted attendance for crew A and crew B in the same period
	// WHEN: Reconciling crew A with an empty grid
	// THEN: Crew B's records survive untouched

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)

	if _, err := r.Reconcile(ctx, []string{"Moussa"}, period, payroll.Grid{
		cell("Moussa", 2): decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("Reconcile crew A failed: %v", err)
	}
	if _, err := r.Reconcile(ctx, []string{"Binta"}, period, payroll.Grid{
		cell("Binta", 2): decimal.NewFromInt(7),
	}); err != nil {
		t.Fatalf("Reconcile crew B failed: %v", err)
	}

	// Wipe crew A's rectangle.
	result, err := r.Reconcile(ctx, []string{"Moussa"}, period, payroll.Grid{})
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}

	records := loadAll(t, s)
	if len(records) != 1 || records[0].Worker != "Binta" {
		t.Errorf("records = %v, want only Binta's", records)
	}
}

func TestReconcile_DoesNotTouchOtherPeriods(t *testing.T) {
	// GIVEN: The same worker has records in January and February periods
	// WHEN: Reconciling the February period
	// THEN: The January record survives

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()

	january, err := payroll.DefaultPeriodRules().Resolve(1, 2026)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	february := februaryPeriod(t)

	if _, err := r.Reconcile(ctx, []string{"Moussa"}, january, payroll.Grid{
		{Worker: "Moussa", Date: payroll.NewDate(2026, time.January, 10)}: decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("Reconcile january failed: %v", err)
	}

	if _, err := r.Reconcile(ctx, []string{"Moussa"}, february, payroll.Grid{
		cell("Moussa", 2): decimal.NewFromInt(9),
	}); err != nil {
		t.Fatalf("Reconcile february failed: %v", err)
	}

	records := loadAll(t, s)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 (january record must survive)", len(records))
	}
}

// =============================================================================
// ZERO-HOUR ERASURE
// =============================================================================

func TestReconcile_ZeroHourCellErasesRecord(t *testing.T) {
	// GIVEN: A previously saved 8-hour record
	// WHEN: Re-reconciling with that cell set to 0
	// THEN: No record remains for that (worker, date)

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)
	crew := []string{"Moussa"}

	if _, err := r.Reconcile(ctx, crew, period, payroll.Grid{
		cell("Moussa", 2): decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	if _, err := r.Reconcile(ctx, crew, period, payroll.Grid{
		cell("Moussa", 2): decimal.Zero,
	}); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	if records := loadAll(t, s); len(records) != 0 {
		t.Errorf("records = %v, want none", records)
	}
}

func TestReconcile_AbsentCellErasesRecord(t *testing.T) {
	// Replace-by-range, not cell merge: a cell simply absent from the
	// grid erases whatever was saved before.

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)
	crew := []string{"Moussa"}

	if _, err := r.Reconcile(ctx, crew, period, payroll.Grid{
		cell("Moussa", 2): decimal.NewFromInt(8),
		cell("Moussa", 3): decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("first Reconcile failed: %v", err)
	}

	if _, err := r.Reconcile(ctx, crew, period, payroll.Grid{
		cell("Moussa", 3): decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("second Reconcile failed: %v", err)
	}

	records := loadAll(t, s)
	if len(records) != 1 || records[0].Date.Day() != 3 {
		t.Errorf("records = %v, want only Feb 3", records)
	}
}

// =============================================================================
// DEFENSIVE DROPS
// =============================================================================

func TestReconcile_DropsNegativeAndOutOfRectangleCells(t *testing.T) {
	// GIVEN: A grid with a negative cell, a cell for a non-crew worker,
	//        and a cell outside the period
	// THEN: All are dropped silently and counted; nothing persisted for them

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)

	grid := payroll.Grid{
		cell("Moussa", 2):  decimal.NewFromInt(-4),
		cell("Stranger", 2): decimal.NewFromInt(8),
		{Worker: "Moussa", Date: payroll.NewDate(2026, time.March, 15)}: decimal.NewFromInt(8),
		cell("Moussa", 3):  decimal.NewFromInt(6),
	}

	result, err := r.Reconcile(ctx, []string{"Moussa"}, period, grid)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if result.Inserted != 1 || result.Dropped != 3 {
		t.Errorf("result = %+v, want Inserted 1, Dropped 3", result)
	}
	records := loadAll(t, s)
	if len(records) != 1 || records[0].Worker != "Moussa" || records[0].Date.Day() != 3 {
		t.Errorf("records = %v, want only Moussa Feb 3", records)
	}
}

func TestReconcile_PersistsDerivedWeekNumber(t *testing.T) {
	// Week number is derived from the date at write time.

	s := store.NewMemory()
	r := payroll.NewReconciler(s)
	ctx := context.Background()
	period := februaryPeriod(t)

	day := payroll.NewDate(2026, time.February, 2)
	if _, err := r.Reconcile(ctx, []string{"Moussa"}, period, payroll.Grid{
		{Worker: "Moussa", Date: day}: decimal.NewFromInt(8),
	}); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	records := loadAll(t, s)
	if len(records) != 1 || records[0].Week != day.Week().Week {
		t.Errorf("records = %v, want week %d", records, day.Week().Week)
	}
}

func TestReconcile_InvalidPeriodRejected(t *testing.T) {
	s := store.NewMemory()
	r := payroll.NewReconciler(s)

	inverted := payroll.Period{
		Start: payroll.NewDate(2026, time.February, 25),
		End:   payroll.NewDate(2026, time.January, 26),
	}
	if _, err := r.Reconcile(context.Background(), []string{"Moussa"}, inverted, payroll.Grid{}); err == nil {
		t.Fatal("expected error for inverted period")
	}
}
