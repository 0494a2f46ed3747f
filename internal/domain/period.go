package domain

import "time"

// PeriodKind selects the aggregation window.
type PeriodKind string

const (
	PeriodKindMonth PeriodKind = "month"
	PeriodKindYear  PeriodKind = "year"
)

// Period is a month or year window over which transactions are aggregated.
// Month is only meaningful for month-kind periods and is always kept in
// [1,12]; arithmetic normalizes out-of-range values instead of producing
// invalid periods.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Year  int        `json:"year"`
	Month int        `json:"month,omitempty"`
}

// CurrentMonthPeriod returns the month period containing now.
func CurrentMonthPeriod(now time.Time) Period {
	return Period{Kind: PeriodKindMonth, Year: now.Year(), Month: int(now.Month())}
}

// Advance steps the period by the given number of months (month kind) or
// years (year kind). Negative steps go backwards. Month rollover is
// normalized: December +1 becomes January of the next year, January -1
// becomes December of the previous year.
func (p Period) Advance(step int) Period {
	if p.Kind == PeriodKindYear {
		return Period{Kind: PeriodKindYear, Year: p.Year + step}
	}

	months := p.Year*12 + (p.Month - 1) + step
	year := months / 12
	month := months%12 + 1
	if month < 1 {
		// Go's integer division truncates toward zero; fix up negatives
		month += 12
		year--
	}
	return Period{Kind: PeriodKindMonth, Year: year, Month: month}
}

// Next returns the following period.
func (p Period) Next() Period {
	return p.Advance(1)
}

// Previous returns the preceding period.
func (p Period) Previous() Period {
	return p.Advance(-1)
}

// Contains reports whether the date falls inside the period window.
func (p Period) Contains(d Date) bool {
	if p.Kind == PeriodKindYear {
		return d.Year == p.Year
	}
	return d.Year == p.Year && int(d.Month) == p.Month
}
