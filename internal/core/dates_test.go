package core

import (
	"testing"
	"time"
)

func TestMonthWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	if got := MonthStart(now); got != "2025-03-01" {
		t.Fatalf("MonthStart = %s", got)
	}
	if got := NextMonthStart(now); got != "2025-04-01" {
		t.Fatalf("NextMonthStart = %s", got)
	}
	if got := PrevMonthStart(now); got != "2025-02-01" {
		t.Fatalf("PrevMonthStart = %s", got)
	}

	start, end := MonthStart(now), NextMonthStart(now)
	cases := []struct {
		date string
		in   bool
	}{
		{"2025-03-01", true},
		{"2025-03-31", true},
		{"2025-04-01", false},
		{"2025-02-28", false},
	}
	for _, tc := range cases {
		if got := InMonthWindow(tc.date, start, end); got != tc.in {
			t.Fatalf("InMonthWindow(%s) = %v, want %v", tc.date, got, tc.in)
		}
	}
}

func TestPrevMonthStartAcrossYear(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	if got := PrevMonthStart(now); got != "2024-12-01" {
		t.Fatalf("PrevMonthStart = %s", got)
	}
}

func TestNextOccurrence(t *testing.T) {
	cases := []struct {
		date string
		freq Frequency
		want string
	}{
		{"2025-03-10", Daily, "2025-03-11"},
		{"2025-03-31", Daily, "2025-04-01"},
		{"2025-03-10", Weekly, "2025-03-17"},
		{"2025-01-15", Monthly, "2025-02-15"},
		{"2025-01-31", Monthly, "2025-02-28"}, // clamps to end of month
		{"2024-01-31", Monthly, "2024-02-29"}, // leap year
		{"2025-12-10", Monthly, "2026-01-10"},
		{"2025-06-01", Yearly, "2026-06-01"},
		{"2024-02-29", Yearly, "2025-02-28"},
	}
	for _, tc := range cases {
		got, err := NextOccurrence(tc.date, tc.freq)
		if err != nil {
			t.Fatalf("NextOccurrence(%s, %s): %v", tc.date, tc.freq, err)
		}
		if got != tc.want {
			t.Fatalf("NextOccurrence(%s, %s) = %s, want %s", tc.date, tc.freq, got, tc.want)
		}
	}

	if _, err := NextOccurrence("2025-03-10", Frequency("fortnightly")); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
	if _, err := NextOccurrence("not-a-date", Daily); err == nil {
		t.Fatal("expected error for bad date")
	}
}

func TestIsQuietHour(t *testing.T) {
	s := DefaultSettings() // quiet enabled, 22 -> 7
	at := func(h int) time.Time {
		return time.Date(2025, 3, 15, h, 30, 0, 0, time.UTC)
	}
	cases := []struct {
		hour  int
		quiet bool
	}{
		{23, true},
		{0, true},
		{6, true},
		{7, false},
		{12, false},
		{22, true},
	}
	for _, tc := range cases {
		if got := IsQuietHour(at(tc.hour), s); got != tc.quiet {
			t.Fatalf("hour %d: quiet = %v, want %v", tc.hour, got, tc.quiet)
		}
	}

	s.Quiet = false
	if IsQuietHour(at(23), s) {
		t.Fatal("disabled quiet hours should never match")
	}

	// Non-wrapping window.
	s.Quiet = true
	s.QStart, s.QEnd = 9, 17
	if !IsQuietHour(at(9), s) || IsQuietHour(at(17), s) || IsQuietHour(at(8), s) {
		t.Fatal("non-wrapping window mismatch")
	}
}
