package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayFormat is the DD/MM/YYYY layout used by both input feeds.
	DayFormat = "02/01/2006"
	// TimestampFormat is the DD/MM/YYYY HH:MM:SS layout of shift reports.
	TimestampFormat = "02/01/2006 15:04:05"
	// ISOFormat is used for CLI arguments and exports.
	ISOFormat = "2006-01-02"
)

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the calendar day n days after day.
func AddDays(day time.Time, n int) time.Time {
	return Day(day).AddDate(0, 0, n)
}

// ParseDay parses "DD/MM/YYYY".
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// ParseTimestamp parses "DD/MM/YYYY HH:MM:SS" as UTC wall-clock time.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseISO parses "YYYY-MM-DD".
func ParseISO(s string) (time.Time, error) {
	t, err := time.Parse(ISOFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// Range returns every day from start to end inclusive, ascending.
// It returns nil when end is before start.
func Range(start, end time.Time) []time.Time {
	start, end = Day(start), Day(end)
	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
