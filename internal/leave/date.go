package leave

import (
	"fmt"
	"time"
)

const dateLayout = time.DateOnly

// ParseDate accepts only the calendar form YYYY-MM-DD. Timestamps, two-digit
// years and impossible days such as 2026-02-30 are rejected.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(dateLayout) {
		return time.Time{}, fmt.Errorf("date %q must use the YYYY-MM-DD format", s)
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must use the YYYY-MM-DD format: %w", s, err)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DateOf drops the clock part of t, keeping its calendar day, at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DurationDays counts calendar days in [start, end], both ends inclusive.
func DurationDays(start, end time.Time) int {
	return int(DateOf(end).Sub(DateOf(start)).Hours()/24) + 1
}
