package models

import (
	"strings"
	"time"
)

type MoodType string

const (
	MoodTerrible  MoodType = "terrible"
	MoodBad       MoodType = "bad"
	MoodNeutral   MoodType = "neutral"
	MoodGood      MoodType = "good"
	MoodExcellent MoodType = "excellent"
)

// MoodTypes lists the mood scale from worst to best
var MoodTypes = []MoodType{MoodTerrible, MoodBad, MoodNeutral, MoodGood, MoodExcellent}

// Score maps a mood onto the 1-5 scale. Unknown moods score 0.
func (m MoodType) Score() int {
	switch m {
	case MoodTerrible:
		return 1
	case MoodBad:
		return 2
	case MoodNeutral:
		return 3
	case MoodGood:
		return 4
	case MoodExcellent:
		return 5
	default:
		return 0
	}
}

// Valid reports whether m is on the mood scale
func (m MoodType) Valid() bool {
	return m.Score() > 0
}

// Label returns the capitalized display name
func (m MoodType) Label() string {
	if m == "" {
		return ""
	}
	return strings.ToUpper(string(m[:1])) + string(m[1:])
}

// ParseMoodType accepts a mood name (any case) or its 1-5 score
func ParseMoodType(s string) (MoodType, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, m := range MoodTypes {
		if string(m) == s {
			return m, true
		}
		if len(s) == 1 && int(s[0]-'0') == m.Score() {
			return m, true
		}
	}
	return "", false
}

// MoodEntry is one mood check-in. Several entries can share a date; the
// latest Time wins when asking for "the" mood of a day.
type MoodEntry struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"` // YYYY-MM-DD format
	Time       string   `json:"time"` // RFC3339 timestamp
	Mood       MoodType `json:"mood"`
	Note       string   `json:"note,omitempty"`
	Activities []string `json:"activities,omitempty"`
}

// Timestamp parses Time, returning false when it is malformed
func (e MoodEntry) Timestamp() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, e.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
