/*
overtime.go - Weekly regular/overtime apportionment

PURPOSE:
  Splits a worker's daily hours within one ISO week into regular and
  overtime portions against a weekly regular-hours budget (48h by
  default). The split is a stateful scan in date order: overtime
  accrues on the days that push the weekly cumulative past the budget,
  so the same set of days in a different order attributes overtime to
  different days.

ALGORITHM:
  For each day with hours h and prior weekly cumulative p:
    p >= budget       -> regular 0,          overtime h
    p + h > budget    -> regular budget - p, overtime h - regular
    otherwise         -> regular h,          overtime 0

  For every day, regular + overtime == h exactly. Hours are decimals;
  fractional hours pass through without rounding.

WEEK BOUNDARIES:
  Callers group entries by ISO week (Date.Week) before calling. The
  splitter itself has no notion of period boundaries: a week straddling
  two pay periods restarts its budget in each period because the
  aggregator filters attendance to the period first. See aggregate.go.

SEE ALSO:
  - aggregate.go: Groups attendance per (worker, week) and applies this split
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultWeeklyBudget is the weekly regular-hours budget. Hours beyond
// it are paid at the overtime rate.
var DefaultWeeklyBudget = decimal.NewFromInt(48)

// DailyHours is one day of worked hours, the splitter's input unit.
type DailyHours struct {
	Date  Date
	Hours decimal.Decimal
}

// HoursSplit is the regular/overtime apportionment of one day.
// Regular + Overtime always equals the day's input hours.
type HoursSplit struct {
	Date     Date
	Regular  decimal.Decimal
	Overtime decimal.Decimal
}

// SplitWeek apportions one worker's daily hours within a single ISO week
// into regular and overtime against the given weekly budget. Entries are
// processed in date order (the slice is sorted defensively, stable for
// equal dates); the returned slice is in that order, one split per entry.
func SplitWeek(entries []DailyHours, budget decimal.Decimal) []HoursSplit {
	ordered := make([]DailyHours, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	splits := make([]HoursSplit, len(ordered))
	cumulative := decimal.Zero
	for i, e := range ordered {
		prior := cumulative
		cumulative = cumulative.Add(e.Hours)

		split := HoursSplit{Date: e.Date}
		switch {
		case prior.GreaterThanOrEqual(budget):
			// Budget already spent: the whole day is overtime.
			split.Regular = decimal.Zero
			split.Overtime = e.Hours
		case cumulative.GreaterThan(budget):
			// This day crosses the budget line.
			split.Regular = budget.Sub(prior)
			split.Overtime = e.Hours.Sub(split.Regular)
		default:
			split.Regular = e.Hours
			split.Overtime = decimal.Zero
		}
		splits[i] = split
	}
	return splits
}
