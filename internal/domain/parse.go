package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateTimeLayout is the date + time column pair, joined with a space.
	DateTimeLayout = "01/02/2006 15:04:05"
	// CombinedLayout is the ISO-like timestamp some rows carry in the date column.
	CombinedLayout = "2006-01-02T15:04:05.000Z"
	// QueryDateLayout is the calendar date format accepted by the date filter.
	QueryDateLayout = "01/02/2006"
)

// ParseOccurredAt builds a quake timestamp from the Date and Time columns.
// The date + time pair is tried first, then the combined layout in the date
// column alone.
func ParseOccurredAt(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	if t, err := time.ParseInLocation(DateTimeLayout, date+" "+clock, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(CombinedLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse occurred at %q %q: %w", date, clock, err)
	}
	return t, nil
}

// ParsePopulation parses a population cell. Empty cells mean 0; decimal
// exports such as "1234.0" are truncated.
func ParsePopulation(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse population %q: %w", s, err)
	}
	return int64(f), nil
}

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
