// Package streak derives streak statistics from a habit's completion dates.
//
// Every function takes the completion set and an explicit "today" so results
// are deterministic. Malformed dates in the set are ignored and duplicates
// collapse; nothing here returns an error.
package streak

import (
	"math"
	"sort"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

// Data summarizes a habit's streaks as of one day.
type Data struct {
	CurrentStreak    int    `json:"currentStreak"`
	LongestStreak    int    `json:"longestStreak"`
	StartDate        string `json:"streakStartDate,omitempty"`
	ConsistencyScore int    `json:"consistencyScore"`
	AtRisk           bool   `json:"atRisk"`
}

// dateSet returns the unique valid dates in dates.
func dateSet(dates []string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if utils.IsValidDate(d) {
			set[d] = struct{}{}
		}
	}
	return set
}

func has(set map[string]struct{}, day string) bool {
	_, ok := set[day]
	return ok
}

// anchor returns the day the current run ends on: today if completed,
// otherwise yesterday if completed, otherwise "".
func anchor(set map[string]struct{}, today string) string {
	if has(set, today) {
		return today
	}
	if yesterday := utils.PreviousDay(today); has(set, yesterday) {
		return yesterday
	}
	return ""
}

// walk counts consecutive present days backwards from end and returns the
// count together with the first day of the run.
func walk(set map[string]struct{}, end string) (int, string) {
	if end == "" {
		return 0, ""
	}
	count, start := 0, ""
	for day := end; has(set, day); day = utils.PreviousDay(day) {
		count++
		start = day
	}
	return count, start
}

// CurrentStreak counts the run ending today, or ending yesterday when today
// has not been completed yet.
func CurrentStreak(dates []string, today string) int {
	if !utils.IsValidDate(today) {
		return 0
	}
	set := dateSet(dates)
	n, _ := walk(set, anchor(set, today))
	return n
}

// LongestStreak returns the longest run of consecutive dates anywhere in the set.
func LongestStreak(dates []string) int {
	set := dateSet(dates)
	if len(set) == 0 {
		return 0
	}

	sorted := make([]string, 0, len(set))
	for d := range set {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if utils.DayDifference(sorted[i], sorted[i-1]) == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// StartDate returns the first day of the current run, or "" when there is none.
func StartDate(dates []string, today string) string {
	if !utils.IsValidDate(today) {
		return ""
	}
	set := dateSet(dates)
	_, start := walk(set, anchor(set, today))
	return start
}

// IsAtRisk reports whether a streak longer than three days was extended
// yesterday but not yet today.
func IsAtRisk(dates []string, today string) bool {
	set := dateSet(dates)
	if has(set, today) || !has(set, utils.PreviousDay(today)) {
		return false
	}
	return CurrentStreak(dates, today) > constants.StreakAtRiskMin
}

// CompletionRate is the fraction of the last windowDays days, including
// today, that were completed.
func CompletionRate(dates []string, windowDays int, today string) float64 {
	if windowDays <= 0 {
		return 0
	}
	set := dateSet(dates)
	if len(set) == 0 {
		return 0
	}

	completed := 0
	for d := range set {
		if utils.InWindow(d, today, windowDays) {
			completed++
		}
	}
	return float64(completed) / float64(windowDays)
}

// ConsistencyScore blends the lifetime completion rate with a small bonus for
// the current streak, on a 0-100 scale.
func ConsistencyScore(dates []string, createdAt, today string) int {
	set := dateSet(dates)
	if len(set) == 0 {
		return 0
	}

	days := utils.DayDifference(today, createdAt)
	if days < 1 {
		days = 1
	}
	rate := float64(len(set)) / float64(days)
	bonus := math.Min(float64(CurrentStreak(dates, today))*constants.ConsistencyStreakBonus, constants.ConsistencyMaxBonus)

	score := int(math.Round((rate + bonus) * 100))
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// Calculate gathers every streak statistic for one completion set.
func Calculate(dates []string, createdAt, today string) Data {
	set := dateSet(dates)
	current, start := 0, ""
	if utils.IsValidDate(today) {
		current, start = walk(set, anchor(set, today))
	}
	return Data{
		CurrentStreak:    current,
		LongestStreak:    LongestStreak(dates),
		StartDate:        start,
		ConsistencyScore: ConsistencyScore(dates, createdAt, today),
		AtRisk:           IsAtRisk(dates, today),
	}
}

// ForHabit is Calculate applied to a stored habit.
func ForHabit(h models.Habit, today string) Data {
	return Calculate(h.CompletedDates, h.CreatedDay(), today)
}
