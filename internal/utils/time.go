package utils

import (
	"fmt"
	"time"
	// Embedded zone database for hosts without one
	_ "time/tzdata"

	"github.com/julianstephens/habitlit/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// InTimezone converts now into the configured timezone.
func InTimezone(now time.Time, timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return now.In(loc), nil
}

// TodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone,
// so "today" follows the user's configured timezone rather than the system's.
func TodayInTimezone(timezone string) (string, error) {
	now, err := InTimezone(time.Now(), timezone)
	if err != nil {
		return "", err
	}
	return Today(now), nil
}

// RelativeTime describes how long ago timestamp was, relative to now.
// Anything a week or older is shown as an absolute date. Malformed input is
// returned unchanged.
func RelativeTime(timestamp string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}

	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	case elapsed < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	default:
		return t.Format(constants.DisplayDateFormat)
	}
}
