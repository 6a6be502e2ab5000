// Package mood aggregates mood check-ins into averages and trends.
package mood

import (
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Trend describes which way mood has been moving over a window.
type Trend string

const (
	Improving Trend = "improving"
	Declining Trend = "declining"
	Stable    Trend = "stable"
)

// sortKey orders entries by timestamp, falling back to the start of their
// date when the timestamp is malformed.
func sortKey(e models.MoodEntry) time.Time {
	if t, ok := e.Timestamp(); ok {
		return t
	}
	t, err := time.Parse(constants.DateFormat, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Chronological returns a copy of entries sorted oldest first. Entries with
// equal timestamps keep their input order.
func Chronological(entries []models.MoodEntry) []models.MoodEntry {
	sorted := make([]models.MoodEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]).Before(sortKey(sorted[j]))
	})
	return sorted
}

// Recent returns the entries dated within the last windowDays days, oldest first.
func Recent(entries []models.MoodEntry, windowDays int, today string) []models.MoodEntry {
	var recent []models.MoodEntry
	for _, e := range entries {
		if utils.InWindow(e.Date, today, windowDays) {
			recent = append(recent, e)
		}
	}
	return Chronological(recent)
}

// scores maps entries to their 1-5 score, dropping moods off the scale.
func scores(entries []models.MoodEntry) []float64 {
	var out []float64
	for _, e := range entries {
		if s := e.Mood.Score(); s > 0 {
			out = append(out, float64(s))
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// AverageScore is the mean score over the window, rounded to one decimal.
// It is 0 when the window holds no entries.
func AverageScore(entries []models.MoodEntry, windowDays int, today string) float64 {
	return roundOne(mean(scores(Recent(entries, windowDays, today))))
}

// TrendOf compares the first and second halves of the window. Fewer than
// three entries is always Stable.
func TrendOf(entries []models.MoodEntry, windowDays int, today string) Trend {
	return trendOfScores(scores(Recent(entries, windowDays, today)))
}

func trendOfScores(s []float64) Trend {
	if len(s) < constants.MoodTrendMinEntries {
		return Stable
	}

	half := len(s) / 2
	first := mean(s[:half])
	second := mean(s[half:])

	switch {
	case second > first+constants.MoodTrendThreshold:
		return Improving
	case second < first-constants.MoodTrendThreshold:
		return Declining
	default:
		return Stable
	}
}

// TodaysMood returns the latest entry dated today, or nil.
func TodaysMood(entries []models.MoodEntry, today string) *models.MoodEntry {
	day := ForDate(entries, today)
	if len(day) == 0 {
		return nil
	}
	latest := day[len(day)-1]
	return &latest
}

// ForDate returns the entries on one date, oldest first.
func ForDate(entries []models.MoodEntry, date string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	return Chronological(out)
}

// ForDateRange returns the entries dated between start and end inclusive.
func ForDateRange(entries []models.MoodEntry, start, end string) []models.MoodEntry {
	var out []models.MoodEntry
	for _, e := range entries {
		if e.Date >= start && e.Date <= end {
			out = append(out, e)
		}
	}
	return Chronological(out)
}

// Distribution counts entries per mood. Every mood on the scale has a key.
func Distribution(entries []models.MoodEntry) map[models.MoodType]int {
	dist := make(map[models.MoodType]int, len(models.MoodTypes))
	for _, m := range models.MoodTypes {
		dist[m] = 0
	}
	for _, e := range entries {
		if e.Mood.Valid() {
			dist[e.Mood]++
		}
	}
	return dist
}

// BestDay returns the date with the highest mean score. Ties go to the
// earliest date; "" when there are no scored entries.
func BestDay(entries []models.MoodEntry) string {
	byDate := make(map[string][]float64)
	for _, e := range entries {
		if s := e.Mood.Score(); s > 0 {
			byDate[e.Date] = append(byDate[e.Date], float64(s))
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	best, bestAvg := "", 0.0
	for _, d := range dates {
		if avg := mean(byDate[d]); avg > bestAvg {
			best, bestAvg = d, avg
		}
	}
	return best
}

// Summary is a compact view of recent mood for reports and prompts.
type Summary struct {
	Average float64                 `json:"average"`
	Trend   Trend                   `json:"trend"`
	Entries int                     `json:"entries"`
	Today   *models.MoodEntry       `json:"today,omitempty"`
	Counts  map[models.MoodType]int `json:"distribution"`
}

// Summarize computes the average, trend and distribution over one window.
func Summarize(entries []models.MoodEntry, windowDays int, today string) Summary {
	recent := Recent(entries, windowDays, today)
	s := scores(recent)
	return Summary{
		Average: roundOne(mean(s)),
		Trend:   trendOfScores(s),
		Entries: len(recent),
		Today:   TodaysMood(entries, today),
		Counts:  Distribution(recent),
	}
}
