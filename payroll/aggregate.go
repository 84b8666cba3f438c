/*
aggregate.go - Per-worker and per-crew payroll aggregation

PURPOSE:
  Turns reconciled attendance, the worker directory, and advance
  payments into the payroll report for one period: regular/overtime
  hours, gross pay, advances and net per worker, subtotaled per crew,
  with a grand total.

PIPELINE:
  1. Filter attendance to the period (inclusive both ends) and join to
     the directory by worker name. Orphaned rows are dropped and counted.
  2. Group per (worker, ISO week) - the week is re-derived from the
     date, never read from the stored week column, so a stale persisted
     week cannot skew the split.
  3. Apply the weekly overtime split per group, sum hours per worker.
  4. Gross = regular*regular_rate + overtime*overtime_rate.
  5. Sum the period's advances per worker; net = gross - advances.
     Net is not clamped: a worker can owe money back.
  6. Group lines under crews sorted lexicographically, workers sorted
     by name; subtotal per crew, grand total over all lines.

WEEK SPILLOVER:
  Attendance is filtered to the period BEFORE splitting, so an ISO week
  straddling two periods restarts its weekly budget in each. That is the
  business's established behavior, kept deliberately - see DESIGN.md.

SEE ALSO:
  - overtime.go: The weekly split
  - types.go: Report, PayrollLine, ReportAudit
*/
package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator computes payroll reports. The zero value uses the default
// 48-hour weekly budget.
type Aggregator struct {
	WeeklyBudget decimal.Decimal
}

func NewAggregator() Aggregator {
	return Aggregator{WeeklyBudget: DefaultWeeklyBudget}
}

func (a Aggregator) budget() decimal.Decimal {
	if a.WeeklyBudget.IsZero() {
		return DefaultWeeklyBudget
	}
	return a.WeeklyBudget
}

// Aggregate computes the payroll report for one period. Empty input
// yields an empty report, never an error.
func (a Aggregator) Aggregate(workers []Worker, attendance []AttendanceRecord, advances []AdvancePayment, period Period) Report {
	report := Report{Period: period, GrandTotal: decimal.Zero}

	directory := make(map[string]Worker, len(workers))
	for _, w := range workers {
		directory[w.Name] = w
	}

	// 1-2. Filter to period, join to directory, group per (worker, week).
	type weekGroup map[WeekKey][]DailyHours
	byWorker := make(map[string]weekGroup)
	for _, rec := range attendance {
		if !period.Contains(rec.Date) {
			continue
		}
		if _, ok := directory[rec.Worker]; !ok {
			report.Audit.OrphanedAttendance++
			continue
		}
		weeks := byWorker[rec.Worker]
		if weeks == nil {
			weeks = make(weekGroup)
			byWorker[rec.Worker] = weeks
		}
		week := rec.Date.Week()
		weeks[week] = append(weeks[week], DailyHours{Date: rec.Date, Hours: rec.Hours})
	}

	// 4. Sum the period's advances per worker.
	advanceTotals := make(map[string]decimal.Decimal)
	advanceRows := make(map[string]int)
	for _, adv := range advances {
		if !period.Contains(adv.Date) {
			continue
		}
		advanceTotals[adv.Worker] = advanceTotals[adv.Worker].Add(adv.Amount)
		advanceRows[adv.Worker]++
	}

	// 3, 5, 6. Split, price, and group under crews.
	budget := a.budget()
	linesByCrew := make(map[string][]PayrollLine)
	for name, weeks := range byWorker {
		worker := directory[name]

		regular, overtime := decimal.Zero, decimal.Zero
		for _, entries := range weeks {
			for _, split := range SplitWeek(entries, budget) {
				regular = regular.Add(split.Regular)
				overtime = overtime.Add(split.Overtime)
			}
		}

		gross := regular.Mul(worker.RegularRate).Add(overtime.Mul(worker.OvertimeRate))
		advanced := advanceTotals[name]
		delete(advanceTotals, name)
		delete(advanceRows, name)

		linesByCrew[worker.Crew] = append(linesByCrew[worker.Crew], PayrollLine{
			Crew:          worker.Crew,
			Worker:        name,
			Function:      worker.Function,
			RegularHours:  regular,
			OvertimeHours: overtime,
			Gross:         gross,
			Advances:      advanced,
			Net:           gross.Sub(advanced),
		})
	}

	// Advances left unclaimed belong to workers with no line this period.
	for _, rows := range advanceRows {
		report.Audit.OrphanedAdvances += rows
	}

	crews := make([]string, 0, len(linesByCrew))
	for crew := range linesByCrew {
		crews = append(crews, crew)
	}
	sort.Strings(crews)

	for _, crew := range crews {
		lines := linesByCrew[crew]
		sort.Slice(lines, func(i, j int) bool { return lines[i].Worker < lines[j].Worker })

		subtotal := decimal.Zero
		for _, line := range lines {
			subtotal = subtotal.Add(line.Net)
		}
		report.Crews = append(report.Crews, CrewPayroll{Crew: crew, Lines: lines, Subtotal: subtotal})
		report.GrandTotal = report.GrandTotal.Add(subtotal)
	}

	return report
}
