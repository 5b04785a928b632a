// Package timeutil provides UTC date utilities for AI Progress Hub.
// All dates the system stores (daily log dates, last-updated stamps,
// review cutoffs) are UTC calendar dates, so every helper here works in
// UTC regardless of the host timezone.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatDateTime is the standard datetime format.
	FormatDateTime = "2006-01-02 15:04"
)

// Now returns the current time in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// DateKey formats a time as a UTC date string (YYYY-MM-DD). This is the
// key used for daily log files and the daily_logs date column.
func DateKey(t time.Time) string {
	return t.UTC().Format(FormatDate)
}

// ParseDateKey parses a YYYY-MM-DD date string as midnight UTC.
func ParseDateKey(value string) (time.Time, error) {
	return time.ParseInLocation(FormatDate, value, time.UTC)
}

// IsDateKey reports whether the string is a valid YYYY-MM-DD date.
func IsDateKey(value string) bool {
	_, err := ParseDateKey(value)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 999999999, time.UTC)
}

// RetentionCutoff returns the moment before which records of the given
// age are considered expired: now minus the retention window.
func RetentionCutoff(now time.Time, retention time.Duration) time.Time {
	return now.UTC().Add(-retention)
}

// IsSameDay checks if two times are on the same UTC calendar day.
func IsSameDay(t1, t2 time.Time) bool {
	u1, u2 := t1.UTC(), t2.UTC()
	return u1.Year() == u2.Year() && u1.YearDay() == u2.YearDay()
}

// DaysBetween calculates the number of whole days between two times.
func DaysBetween(t1, t2 time.Time) int {
	d1 := StartOfDay(t1)
	d2 := StartOfDay(t2)
	days := int(d2.Sub(d1).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
