/*
period.go - Accounting period resolution

PURPOSE:
  Maps a (month, year) payroll selection to the accounting date range it
  covers. Periods follow a rolling mid-month cutoff: the 26th of the
  prior month through the 25th of the selected month, inclusive.

BOUNDARY POLICIES:
  The first and last months of the year are irregular, and the business
  has historically run them more than one way. Both boundaries are
  explicit, enumerated options on PeriodRules rather than hardcoded
  branches:

  January:
    JanuaryCalendarStart  Jan 1 - Jan 25 (short first period; default)
    JanuaryRolling        Dec 26 of prior year - Jan 25

  December:
    DecemberCutoff        Nov 26 - Dec 25 (default)
    DecemberFullMonth     Nov 26 - Dec 31 (keeps the year's final days)

  Pick one rule set per deployment and apply it uniformly; mixing
  policies across calls produces overlapping or gapped periods.

SEE ALSO:
  - date.go: Period type
  - aggregate.go: Consumes resolved periods
*/
package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// BOUNDARY POLICIES
// =============================================================================

// JanuaryPolicy selects the start date of the January period.
type JanuaryPolicy string

const (
	// JanuaryCalendarStart treats January as a short first period
	// starting on January 1st of the selected year.
	JanuaryCalendarStart JanuaryPolicy = "calendar_start"

	// JanuaryRolling continues the 26th-to-25th cycle across the year
	// boundary, starting on December 26th of the prior year.
	JanuaryRolling JanuaryPolicy = "rolling"
)

// DecemberPolicy selects the end date of the December period.
type DecemberPolicy string

const (
	// DecemberCutoff ends the December period on the regular 25th cutoff.
	DecemberCutoff DecemberPolicy = "cutoff"

	// DecemberFullMonth extends the December period to December 31st so
	// the year's final days are not lost between cycles.
	DecemberFullMonth DecemberPolicy = "full_month"
)

// =============================================================================
// PERIOD RULES
// =============================================================================

// PeriodRules resolves (month, year) selections to accounting periods.
// The zero value is not valid; use DefaultPeriodRules.
type PeriodRules struct {
	January  JanuaryPolicy
	December DecemberPolicy
}

// DefaultPeriodRules matches the behavior the business currently runs:
// January starts on the 1st, December cuts off on the 25th.
func DefaultPeriodRules() PeriodRules {
	return PeriodRules{January: JanuaryCalendarStart, December: DecemberCutoff}
}

// Resolve returns the accounting period for the given month and year.
// Any year is valid; a month outside 1..12 is a caller contract
// violation and returns ErrInvalidMonth.
func (r PeriodRules) Resolve(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	var start Date
	switch {
	case month == 1 && r.January == JanuaryRolling:
		start = NewDate(year-1, time.December, 26)
	case month == 1:
		start = NewDate(year, time.January, 1)
	default:
		start = NewDate(year, time.Month(month-1), 26)
	}

	end := NewDate(year, time.Month(month), 25)
	if month == 12 && r.December == DecemberFullMonth {
		end = NewDate(year, time.December, 31)
	}

	return Period{Start: start, End: end}, nil
}
