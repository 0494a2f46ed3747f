package util

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the language used for month labels and sentinel names in
// aggregation output. Formatting beyond that (currency, numbers) is not
// this package's concern.
type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

var monthAbbrevs = map[Locale][12]string{
	LocaleES: {"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"},
	LocaleEN: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
}

var monthNames = map[Locale][12]string{
	LocaleES: {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	LocaleEN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

var uncategorizedLabels = map[Locale]string{
	LocaleES: "Sin categoría",
	LocaleEN: "Uncategorized",
}

var unknownUserLabels = map[Locale]string{
	LocaleES: "Desconocido",
	LocaleEN: "Unknown",
}

// ParseLocale maps a configured locale string to a supported Locale,
// falling back to Spanish (the product's default audience).
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleEN:
		return LocaleEN
	default:
		return LocaleES
	}
}

// LastDayOfMonth returns the number of days in the month (28-31), computed
// as day 0 of the following month.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange returns the inclusive 'YYYY-MM-DD' bounds of a calendar month.
func MonthRange(year, month int) (string, string) {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	end := fmt.Sprintf("%04d-%02d-%02d", year, month, LastDayOfMonth(year, month))
	return start, end
}

// YearRange returns the inclusive 'YYYY-MM-DD' bounds of a calendar year.
func YearRange(year int) (string, string) {
	return fmt.Sprintf("%04d-01-01", year), fmt.Sprintf("%04d-12-31", year)
}

// MonthLabel returns a human readable "month year" label, e.g.
// "noviembre 2025" or "November 2025".
func MonthLabel(loc Locale, year, month int) string {
	return fmt.Sprintf("%s %d", MonthName(loc, month), year)
}

// MonthName returns the full localized month name for month 1-12.
func MonthName(loc Locale, month int) string {
	return lookupMonth(monthNames, loc, month)
}

// MonthAbbrev returns the three-letter localized month abbreviation for
// month 1-12, used as year-view evolution bucket labels.
func MonthAbbrev(loc Locale, month int) string {
	return lookupMonth(monthAbbrevs, loc, month)
}

// UncategorizedLabel is the sentinel category name for transactions with no
// category.
func UncategorizedLabel(loc Locale) string {
	if l, ok := uncategorizedLabels[loc]; ok {
		return l
	}
	return uncategorizedLabels[LocaleES]
}

// UnknownUserLabel is the sentinel creator name when a display name is
// missing.
func UnknownUserLabel(loc Locale) string {
	if l, ok := unknownUserLabels[loc]; ok {
		return l
	}
	return unknownUserLabels[LocaleES]
}

func lookupMonth(table map[Locale][12]string, loc Locale, month int) string {
	names, ok := table[loc]
	if !ok {
		names = table[LocaleES]
	}
	if month < 1 || month > 12 {
		return ""
	}
	return names[month-1]
}
