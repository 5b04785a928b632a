package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKey(t *testing.T) {
	// Early morning in UTC+10 is still the previous day in UTC.
	loc := time.FixedZone("UTC+10", 10*3600)
	ts := time.Date(2026, 9, 1, 5, 30, 0, 0, loc)

	assert.Equal(t, "2026-08-31", DateKey(ts))
}

func TestParseDateKey(t *testing.T) {
	ts, err := ParseDateKey("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), ts)

	_, err = ParseDateKey("01/09/2026")
	assert.Error(t, err)
}

func TestIsDateKey(t *testing.T) {
	assert.True(t, IsDateKey("2026-09-01"))
	assert.False(t, IsDateKey("2026-9-1"))
	assert.False(t, IsDateKey(""))
	assert.False(t, IsDateKey("not a date"))
}

func TestRetentionCutoff(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	cutoff := RetentionCutoff(now, 30*24*time.Hour)

	assert.Equal(t, time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC), cutoff)
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := time.Date(2026, 9, 1, 15, 42, 7, 12345, time.UTC)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), StartOfDay(ts))
	assert.Equal(t, time.Date(2026, 9, 1, 23, 59, 59, 999999999, time.UTC), EndOfDay(ts))
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC)
	b := time.Date(2026, 9, 1, 23, 58, 0, 0, time.UTC)
	c := time.Date(2026, 9, 2, 0, 1, 0, 0, time.UTC)

	assert.True(t, IsSameDay(a, b))
	assert.False(t, IsSameDay(b, c))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, 9, 4, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, DaysBetween(a, b))
	assert.Equal(t, 3, DaysBetween(b, a))
	assert.Equal(t, 0, DaysBetween(a, a))
}
