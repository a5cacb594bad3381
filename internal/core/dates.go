package core

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for every stored date string.
// Lexicographic comparison of these strings equals chronological comparison,
// which the month-window aggregation depends on.
const DateLayout = "2006-01-02"

// DateOf formats a point in time as a stored date string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// MonthStart returns the first-of-month date string for the month containing t.
func MonthStart(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// NextMonthStart returns the first-of-month date string for the month after t.
// Together with MonthStart it bounds the half-open window [start, end).
func NextMonthStart(t time.Time) string {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// PrevMonthStart returns the first-of-month date string for the month before t.
func PrevMonthStart(t time.Time) string {
	return time.Date(t.Year(), t.Month()-1, 1, 0, 0, 0, 0, time.UTC).Format(DateLayout)
}

// InMonthWindow reports whether the date string falls inside the calendar
// month [start, end). Both bounds come from MonthStart/NextMonthStart.
func InMonthWindow(date, start, end string) bool {
	return date >= start && date < end
}

// NextOccurrence advances a recurring item's date by one period. Monthly and
// yearly steps are calendar-aware and clamp to the last valid day of the
// resulting month, so Jan 31 + 1 month is Feb 28 (or 29).
func NextOccurrence(date string, freq Frequency) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse occurrence date %q: %w", date, err)
	}
	switch freq {
	case Daily:
		t = t.AddDate(0, 0, 1)
	case Weekly:
		t = t.AddDate(0, 0, 7)
	case Monthly:
		t = addMonthsClamped(t, 1)
	case Yearly:
		t = addMonthsClamped(t, 12)
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFreq, freq)
	}
	return t.Format(DateLayout), nil
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
