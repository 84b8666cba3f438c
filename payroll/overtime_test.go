package payroll_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func hours(n float64) decimal.Decimal {
	return decimal.NewFromFloat(n)
}

// week of Mon Feb 2 2026 - a clean single ISO week
func weekEntries(daily ...float64) []payroll.DailyHours {
	entries := make([]payroll.DailyHours, len(daily))
	for i, h := range daily {
		entries[i] = payroll.DailyHours{
			Date:  payroll.NewDate(2026, time.February, 2+i),
			Hours: hours(h),
		}
	}
	return entries
}

func sumSplits(splits []payroll.HoursSplit) (regular, overtime decimal.Decimal) {
	regular, overtime = decimal.Zero, decimal.Zero
	for _, s := range splits {
		regular = regular.Add(s.Regular)
		overtime = overtime.Add(s.Overtime)
	}
	return regular, overtime
}

// =============================================================================
// WEEKLY SPLIT
// =============================================================================

func TestSplitWeek_UnderBudget_AllRegular(t *testing.T) {
	// GIVEN: 8h/day Mon-Fri (40h, under the 48h budget)
	// THEN: Everything is regular, no overtime

	splits := payroll.SplitWeek(weekEntries(8, 8, 8, 8, 8), payroll.DefaultWeeklyBudget)

	regular, overtime := sumSplits(splits)
	if !regular.Equal(hours(40)) || !overtime.IsZero() {
		t.Errorf("regular = %s, overtime = %s; want 40 and 0", regular, overtime)
	}
}

func TestSplitWeek_CrossesBudget_OvertimeOnLastDays(t *testing.T) {
	// GIVEN: 10h/day Mon-Fri (50h total) in one ISO week
	// WHEN: Splitting against the 48h budget
	// THEN: 48 regular, 2 overtime, and the overtime falls on day 5
	//       (the day that crosses the line), not spread evenly

	splits := payroll.SplitWeek(weekEntries(10, 10, 10, 10, 10), payroll.DefaultWeeklyBudget)

	regular, overtime := sumSplits(splits)
	if !regular.Equal(hours(48)) {
		t.Errorf("regular sum = %s, want 48", regular)
	}
	if !overtime.Equal(hours(2)) {
		t.Errorf("overtime sum = %s, want 2", overtime)
	}

	last := splits[len(splits)-1]
	if !last.Regular.Equal(hours(8)) || !last.Overtime.Equal(hours(2)) {
		t.Errorf("day 5 split = (%s, %s), want (8, 2)", last.Regular, last.Overtime)
	}
	for i, s := range splits[:4] {
		if !s.Overtime.IsZero() {
			t.Errorf("day %d has overtime %s, want 0", i+1, s.Overtime)
		}
	}
}

func TestSplitWeek_AlreadyOverBudget_AllOvertime(t *testing.T) {
	// GIVEN: A prior cumulative of exactly 48h (8h x 6 days)
	// WHEN: A 7th day of 6h arrives
	// THEN: The whole day is overtime

	splits := payroll.SplitWeek(weekEntries(8, 8, 8, 8, 8, 8, 6), payroll.DefaultWeeklyBudget)

	last := splits[len(splits)-1]
	if !last.Regular.IsZero() || !last.Overtime.Equal(hours(6)) {
		t.Errorf("day 7 split = (%s, %s), want (0, 6)", last.Regular, last.Overtime)
	}
}

func TestSplitWeek_EveryDayConserved(t *testing.T) {
	// THEN: regular + overtime == input hours for every single entry

	entries := weekEntries(10.5, 0.25, 12, 9, 11, 14)
	splits := payroll.SplitWeek(entries, payroll.DefaultWeeklyBudget)

	if len(splits) != len(entries) {
		t.Fatalf("len(splits) = %d, want %d", len(splits), len(entries))
	}
	for i, s := range splits {
		if !s.Regular.Add(s.Overtime).Equal(entries[i].Hours) {
			t.Errorf("day %d: %s + %s != %s", i+1, s.Regular, s.Overtime, entries[i].Hours)
		}
	}
}

func TestSplitWeek_FractionalHours_NoRounding(t *testing.T) {
	// GIVEN: Fractional hours crossing the budget mid-day
	// THEN: The split point is exact, no rounding

	splits := payroll.SplitWeek(weekEntries(23.75, 23.75, 4), payroll.DefaultWeeklyBudget)

	day3 := splits[2]
	if !day3.Regular.Equal(hours(0.5)) || !day3.Overtime.Equal(hours(3.5)) {
		t.Errorf("day 3 split = (%s, %s), want (0.5, 3.5)", day3.Regular, day3.Overtime)
	}
}

func TestSplitWeek_OrderMatters_SortsByDate(t *testing.T) {
	// GIVEN: Entries delivered out of date order
	// WHEN: Splitting
	// THEN: The cumulative runs in date order, so overtime still lands
	//       on the chronologically last day

	entries := weekEntries(10, 10, 10, 10, 10)
	shuffled := []payroll.DailyHours{entries[4], entries[1], entries[0], entries[3], entries[2]}

	splits := payroll.SplitWeek(shuffled, payroll.DefaultWeeklyBudget)

	last := splits[len(splits)-1]
	if !last.Date.Equal(entries[4].Date) {
		t.Fatalf("last split date = %s, want %s", last.Date, entries[4].Date)
	}
	if !last.Overtime.Equal(hours(2)) {
		t.Errorf("overtime on last day = %s, want 2", last.Overtime)
	}
}

func TestSplitWeek_EmptyInput(t *testing.T) {
	splits := payroll.SplitWeek(nil, payroll.DefaultWeeklyBudget)
	if len(splits) != 0 {
		t.Errorf("len(splits) = %d, want 0", len(splits))
	}
}
