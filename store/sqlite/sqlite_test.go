package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// WORKERS
// =============================================================================

func TestStore_WorkersRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	workers := []payroll.Worker{
		{Name: "Moussa", Function: "Maçon", Crew: "SERVITUDE",
			RegularRate: decimal.NewFromInt(500), OvertimeRate: decimal.NewFromInt(750)},
		{Name: "Abdou", Function: "Ferrailleur", Crew: "COFFRAGE",
			RegularRate: decimal.RequireFromString("612.5"), OvertimeRate: decimal.RequireFromString("918.75")},
	}
	require.NoError(t, store.SaveWorkers(ctx, workers))

	loaded, err := store.LoadWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Ordered by name
	assert.Equal(t, "Abdou", loaded[0].Name)
	assert.True(t, loaded[0].RegularRate.Equal(decimal.RequireFromString("612.5")),
		"fractional rate must survive the TEXT column exactly")
	assert.Equal(t, "Moussa", loaded[1].Name)
}

func TestStore_SaveWorkersIsFullReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []payroll.Worker{{Name: "Moussa", Crew: "SERVITUDE",
		RegularRate: decimal.NewFromInt(500), OvertimeRate: decimal.NewFromInt(750)}}
	require.NoError(t, store.SaveWorkers(ctx, first))

	second := []payroll.Worker{{Name: "Binta", Crew: "TERRASSEMENT",
		RegularRate: decimal.NewFromInt(1000), OvertimeRate: decimal.NewFromInt(1500)}}
	require.NoError(t, store.SaveWorkers(ctx, second))

	loaded, err := store.LoadWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Binta", loaded[0].Name)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestStore_AttendanceRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	day := payroll.NewDate(2026, time.February, 2)
	records := []payroll.AttendanceRecord{
		{Date: day, Week: day.Week().Week, Worker: "Moussa", Hours: decimal.RequireFromString("9.5")},
		{Date: day.AddDays(1), Week: day.Week().Week, Worker: "Moussa", Hours: decimal.NewFromInt(10)},
	}
	require.NoError(t, store.SaveAttendance(ctx, records))

	loaded, err := store.LoadAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].Date.Equal(day))
	assert.True(t, loaded[0].Hours.Equal(decimal.RequireFromString("9.5")))
	assert.Equal(t, day.Week().Week, loaded[0].Week)
}

func TestStore_SaveAttendanceIsFullReplace(t *testing.T) {
	// The reconciler leans on this: save the computed set, the table IS
	// the computed set afterwards.

	store := newTestStore(t)
	ctx := context.Background()

	day := payroll.NewDate(2026, time.February, 2)
	require.NoError(t, store.SaveAttendance(ctx, []payroll.AttendanceRecord{
		{Date: day, Week: 6, Worker: "Moussa", Hours: decimal.NewFromInt(8)},
		{Date: day, Week: 6, Worker: "Abdou", Hours: decimal.NewFromInt(9)},
	}))
	require.NoError(t, store.SaveAttendance(ctx, []payroll.AttendanceRecord{
		{Date: day, Week: 6, Worker: "Moussa", Hours: decimal.NewFromInt(7)},
	}))

	loaded, err := store.LoadAttendance(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Moussa", loaded[0].Worker)
	assert.True(t, loaded[0].Hours.Equal(decimal.NewFromInt(7)))
}

// =============================================================================
// ADVANCES
// =============================================================================

func TestStore_AdvancesAppendAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := payroll.AdvancePayment{
		Date: payroll.NewDate(2026, time.February, 4), Worker: "Moussa", Amount: decimal.NewFromInt(3000)}
	second := payroll.AdvancePayment{
		Date: payroll.NewDate(2026, time.February, 10), Worker: "Moussa", Amount: decimal.NewFromInt(2000)}

	require.NoError(t, store.AppendAdvance(ctx, first))
	require.NoError(t, store.AppendAdvance(ctx, second))

	loaded, err := store.LoadAdvances(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// Insertion order preserved
	assert.True(t, loaded[0].Amount.Equal(decimal.NewFromInt(3000)))
	assert.True(t, loaded[1].Amount.Equal(decimal.NewFromInt(2000)))

	// Full-list clearing
	require.NoError(t, store.SaveAdvances(ctx, nil))
	loaded, err = store.LoadAdvances(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

// =============================================================================
// EMPTY DATABASE
// =============================================================================

func TestStore_EmptyLoads(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	workers, err := store.LoadWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, workers)

	records, err := store.LoadAttendance(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	advances, err := store.LoadAdvances(ctx)
	require.NoError(t, err)
	assert.Empty(t, advances)
}
