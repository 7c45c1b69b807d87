package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// MinutesToClock renders minutes-from-midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ClockToMinutes parses "HH:MM" into minutes from midnight.
func ClockToMinutes(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// ParseDate parses a "YYYY-MM-DD" booking date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as a "YYYY-MM-DD" booking date.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// MinuteOfDay returns the minutes-from-midnight component of an instant.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
