package util

import "testing"

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
	}{
		{"november", 2025, 11, "2025-11-01", "2025-11-30"},
		{"december", 2025, 12, "2025-12-01", "2025-12-31"},
		{"february leap year", 2024, 2, "2024-02-01", "2024-02-29"},
		{"february non-leap year", 2023, 2, "2023-02-01", "2023-02-28"},
		{"century non-leap", 1900, 2, "1900-02-01", "1900-02-28"},
		{"400-year leap", 2000, 2, "2000-02-01", "2000-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.year, tt.month)
			if start != tt.wantStart {
				t.Errorf("start = %q, want %q", start, tt.wantStart)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %q, want %q", end, tt.wantEnd)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	start, end := YearRange(2025)
	if start != "2025-01-01" {
		t.Errorf("start = %q, want 2025-01-01", start)
	}
	if end != "2025-12-31" {
		t.Errorf("end = %q, want 2025-12-31", end)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	if got := LastDayOfMonth(2024, 2); got != 29 {
		t.Errorf("LastDayOfMonth(2024, 2) = %d, want 29", got)
	}
	if got := LastDayOfMonth(2025, 4); got != 30 {
		t.Errorf("LastDayOfMonth(2025, 4) = %d, want 30", got)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(LocaleES, 2025, 11); got != "noviembre 2025" {
		t.Errorf("MonthLabel(es) = %q, want %q", got, "noviembre 2025")
	}
	if got := MonthLabel(LocaleEN, 2025, 11); got != "November 2025" {
		t.Errorf("MonthLabel(en) = %q, want %q", got, "November 2025")
	}
}

func TestMonthAbbrev(t *testing.T) {
	if got := MonthAbbrev(LocaleES, 1); got != "ene" {
		t.Errorf("MonthAbbrev(es, 1) = %q, want %q", got, "ene")
	}
	if got := MonthAbbrev(LocaleES, 12); got != "dic" {
		t.Errorf("MonthAbbrev(es, 12) = %q, want %q", got, "dic")
	}
	if got := MonthAbbrev(LocaleEN, 4); got != "Apr" {
		t.Errorf("MonthAbbrev(en, 4) = %q, want %q", got, "Apr")
	}
	if got := MonthAbbrev(LocaleES, 13); got != "" {
		t.Errorf("MonthAbbrev(es, 13) = %q, want empty", got)
	}
}

func TestParseLocale(t *testing.T) {
	if got := ParseLocale("en"); got != LocaleEN {
		t.Errorf("ParseLocale(en) = %q", got)
	}
	if got := ParseLocale("ES"); got != LocaleES {
		t.Errorf("ParseLocale(ES) = %q", got)
	}
	// Unknown locales fall back to Spanish
	if got := ParseLocale("fr"); got != LocaleES {
		t.Errorf("ParseLocale(fr) = %q, want es", got)
	}
	if got := ParseLocale(""); got != LocaleES {
		t.Errorf("ParseLocale(empty) = %q, want es", got)
	}
}

func TestSentinelLabels(t *testing.T) {
	if got := UncategorizedLabel(LocaleES); got != "Sin categoría" {
		t.Errorf("UncategorizedLabel(es) = %q", got)
	}
	if got := UnknownUserLabel(LocaleES); got != "Desconocido" {
		t.Errorf("UnknownUserLabel(es) = %q", got)
	}
	if got := UncategorizedLabel(LocaleEN); got != "Uncategorized" {
		t.Errorf("UncategorizedLabel(en) = %q", got)
	}
}
