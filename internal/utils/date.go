package utils

import (
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

// parseDay turns a YYYY-MM-DD date or an RFC3339 timestamp into midnight UTC
// of that calendar day. Timestamps keep the calendar date of their own offset.
func parseDay(s string) (time.Time, bool) {
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Today returns the calendar date of now in its own location.
func Today(now time.Time) string {
	return now.Format(constants.DateFormat)
}

// IsValidDate reports whether s is a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

// DayDifference returns the signed number of calendar days from b to a,
// positive when a is after b. Unparseable input yields 0.
func DayDifference(a, b string) int {
	ta, ok := parseDay(a)
	if !ok {
		return 0
	}
	tb, ok := parseDay(b)
	if !ok {
		return 0
	}
	return int((ta.Unix() - tb.Unix()) / 86400)
}

// AddDays shifts a calendar date by n days. Malformed input is returned unchanged.
func AddDays(day string, n int) string {
	t, ok := parseDay(day)
	if !ok {
		return day
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat)
}

func PreviousDay(day string) string {
	return AddDays(day, -1)
}

func NextDay(day string) string {
	return AddDays(day, 1)
}

// InWindow reports whether day is one of the n calendar dates ending at
// today. It never builds the window, so n may be arbitrarily large.
func InWindow(day, today string, n int) bool {
	if n <= 0 || !IsValidDate(day) {
		return false
	}
	if _, ok := parseDay(today); !ok {
		return false
	}
	diff := DayDifference(today, day)
	return diff >= 0 && diff < n
}

// LastNDays returns the n calendar dates ending at today, oldest first.
func LastNDays(today string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	t, ok := parseDay(today)
	if !ok {
		return []string{}
	}

	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = t.AddDate(0, 0, i-(n-1)).Format(constants.DateFormat)
	}
	return days
}

// DateRange returns every date from start to end inclusive. It is empty when
// end is before start or either bound is malformed.
func DateRange(start, end string) []string {
	n := DayDifference(end, start)
	if n < 0 || !IsValidDate(start) || !IsValidDate(end) {
		return []string{}
	}
	return LastNDays(end, n+1)
}

// WeekDates returns Monday through Sunday of the week containing day.
func WeekDates(day string) []string {
	t, ok := parseDay(day)
	if !ok {
		return []string{}
	}
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)

	week := make([]string, 7)
	for i := range week {
		week[i] = monday.AddDate(0, 0, i).Format(constants.DateFormat)
	}
	return week
}

// MonthDates returns every date of the month containing day.
func MonthDates(day string) []string {
	t, ok := parseDay(day)
	if !ok {
		return []string{}
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var dates []string
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(constants.DateFormat))
	}
	return dates
}

// FormatDate renders a date with the given layout, echoing malformed input.
func FormatDate(day, layout string) string {
	t, ok := parseDay(day)
	if !ok {
		return day
	}
	return t.Format(layout)
}

// DayName returns the weekday name of a date, or "" when it is malformed.
func DayName(day string) string {
	t, ok := parseDay(day)
	if !ok {
		return ""
	}
	return t.Weekday().String()
}
