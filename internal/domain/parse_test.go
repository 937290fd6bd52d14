package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOccurredAt(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		clock    string
		expected time.Time
	}{
		{"date and time pair", "01/02/1965", "13:44:18", time.Date(1965, 1, 2, 13, 44, 18, 0, time.UTC)},
		{"padded whitespace", " 04/26/2024 ", " 15:10:00", time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)},
		{"combined layout", "1975-02-23T02:58:41.000Z", "1975-02-23T02:58:41.000Z", time.Date(1975, 2, 23, 2, 58, 41, 0, time.UTC)},
		{"combined layout with empty time", "2011-03-11T05:46:24.120Z", "", time.Date(2011, 3, 11, 5, 46, 24, 120000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOccurredAt(tt.date, tt.clock)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "want %s got %s", tt.expected, got)
		})
	}
}

func TestParseOccurredAt_Invalid(t *testing.T) {
	_, err := ParseOccurredAt("yesterday", "noon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse occurred at")
}

func TestParsePopulation(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
	}{
		{"", 0},
		{"  ", 0},
		{"37732000", 37732000},
		{"1234.0", 1234},
	}
	for _, tt := range tests {
		got, err := ParsePopulation(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got, "input %q", tt.in)
	}

	_, err := ParsePopulation("many")
	assert.Error(t, err)
}

func TestCalendarDay(t *testing.T) {
	got := CalendarDay(time.Date(2024, 4, 26, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC), got)
}

func TestSetClock(t *testing.T) {
	fixed := time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { SetClock(nil) })

	assert.Equal(t, fixed, Now())
}
