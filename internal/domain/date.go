package domain

import (
	"fmt"
	"time"
)

// Date is a civil calendar date with no time component. Transaction dates
// are stored and exchanged as 'YYYY-MM-DD' strings interpreted in local
// civil time; Date keeps the three components explicit so a date is never
// reinterpreted as an instant in another time zone (parsing '2025-03-05'
// through a UTC instant parser shifts it to the 4th in negative-offset
// zones).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a strict 'YYYY-MM-DD' string into a Date. The components
// are parsed individually and validated against the calendar; no time zone
// is involved.
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	year, ok1 := atoi4(s[0:4])
	month, ok2 := atoi2(s[5:7])
	day, ok3 := atoi2(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// DateOf extracts the civil date of t in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// IsValid reports whether the date exists on the calendar. Normalization by
// time.Date is used as the oracle: an invalid day like Feb 30 rolls over and
// no longer round-trips.
func (d Date) IsValid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return DateOf(d.Time()) == d
}

// Time returns the date at local midnight.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

// String formats the date as 'YYYY-MM-DD'.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Compare returns -1, 0 or +1 ordering d against other chronologically.
func (d Date) Compare(other Date) int {
	a := d.Year*10000 + int(d.Month)*100 + d.Day
	b := other.Year*10000 + int(other.Month)*100 + other.Day
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func atoi4(s string) (int, bool) {
	n := 0
	for i := 0; i < 4; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func atoi2(s string) (int, bool) {
	n := 0
	for i := 0; i < 2; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
