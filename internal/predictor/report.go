package predictor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/mood"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// PatternType tells whether an observed pattern is good news or a warning
type PatternType string

const (
	PatternPositive PatternType = "positive"
	PatternNegative PatternType = "negative"
)

// Pattern is one observation about recent behavior
type Pattern struct {
	Type        PatternType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

// Summary holds the headline numbers of a report
type Summary struct {
	CompletionRate int        `json:"completionRate"` // percent of active habits done today
	AverageMood    float64    `json:"avgMood"`
	MoodTrend      mood.Trend `json:"moodTrend"`
	ActiveHabits   int        `json:"activeHabits"`
	MoodEntries    int        `json:"moodEntries"`
}

// Performer pairs a habit with the score it was ranked by
type Performer struct {
	HabitID          string `json:"habitId"`
	HabitName        string `json:"habitName"`
	ConsistencyScore int    `json:"consistencyScore"`
	CurrentStreak    int    `json:"currentStreak"`
	CompletedInRange int    `json:"completedInRange"`
}

// Report is the insights overview for a time range ending today
type Report struct {
	RangeDays      int        `json:"timeRange"`
	Summary        Summary    `json:"summary"`
	Patterns       []Pattern  `json:"patterns"`
	Achievements   []string   `json:"achievements"`
	Suggestions    []string   `json:"suggestions"`
	BestHabit      *Performer `json:"bestHabit,omitempty"`
	NeedsAttention *Performer `json:"needsAttention,omitempty"`
	GeneratedAt    time.Time  `json:"generatedAt"`
}

// BuildReport summarizes the snapshot over the last rangeDays days.
func BuildReport(snap models.Snapshot, rangeDays int, today string, now time.Time) Report {
	if rangeDays <= 0 {
		rangeDays = constants.DefaultInsightsRangeDays
	}
	since := utils.AddDays(today, -rangeDays)

	active := snap.ActiveHabits()
	recentMoods := mood.ForDateRange(snap.Moods, since, today)

	completedToday := 0
	for _, h := range active {
		if h.CompletedOn(today) {
			completedToday++
		}
	}
	rate := 0.0
	if len(active) > 0 {
		rate = float64(completedToday) / float64(len(active))
	}

	r := Report{
		RangeDays: rangeDays,
		Summary: Summary{
			CompletionRate: int(math.Round(rate * 100)),
			AverageMood:    mood.AverageScore(snap.Moods, rangeDays+1, today),
			MoodTrend:      mood.TrendOf(snap.Moods, min(rangeDays, constants.DefaultTrendWindowDays), today),
			ActiveHabits:   len(active),
			MoodEntries:    len(recentMoods),
		},
		Patterns:     []Pattern{},
		Achievements: []string{},
		Suggestions:  []string{},
		GeneratedAt:  now,
	}

	r.completionPatterns(rate, len(active))
	r.streakAchievements(active, today)
	r.moodPatterns(recentMoods)
	r.generalSuggestions(len(active), len(recentMoods))
	r.BestHabit, r.NeedsAttention = rankPerformers(active, since, today)

	return r
}

func (r *Report) completionPatterns(rate float64, activeCount int) {
	switch {
	case activeCount > 0 && rate == 1:
		r.Patterns = append(r.Patterns, Pattern{
			Type:        PatternPositive,
			Title:       "Perfect Day!",
			Description: "You completed all your habits today!",
		})
		r.Achievements = append(r.Achievements, "Perfect completion day")
	case activeCount > 0 && rate >= 0.75:
		r.Patterns = append(r.Patterns, Pattern{
			Type:        PatternPositive,
			Title:       "Great Progress",
			Description: fmt.Sprintf("You completed %d%% of habits today.", int(math.Round(rate*100))),
		})
	case activeCount > 0 && rate < 0.5:
		r.Patterns = append(r.Patterns, Pattern{
			Type:        PatternNegative,
			Title:       "Room for Improvement",
			Description: "Try focusing on just one or two key habits today.",
		})
		r.Suggestions = append(r.Suggestions, "Start with just one habit to build momentum")
	}
}

func (r *Report) streakAchievements(active []models.Habit, today string) {
	count := 0
	for _, h := range active {
		if streak.CurrentStreak(h.CompletedDates, today) >= constants.InsightStreakAchievement {
			count++
		}
	}
	if count > 0 {
		r.Achievements = append(r.Achievements,
			fmt.Sprintf("Maintained %d+ day streak on %d habit(s)", constants.InsightStreakAchievement, count))
	}
}

// moodPatterns compares the first and last of the latest five check-ins.
func (r *Report) moodPatterns(recent []models.MoodEntry) {
	if len(recent) < constants.MoodPatternSampleSize {
		return
	}
	sample := recent[len(recent)-constants.MoodPatternSampleSize:]
	delta := float64(sample[len(sample)-1].Mood.Score() - sample[0].Mood.Score())

	switch {
	case delta > constants.MoodPatternDelta:
		r.Patterns = append(r.Patterns, Pattern{
			Type:        PatternPositive,
			Title:       "Improving Mood",
			Description: "Your mood has been trending upward recently!",
		})
	case delta < -constants.MoodPatternDelta:
		r.Patterns = append(r.Patterns, Pattern{
			Type:        PatternNegative,
			Title:       "Mood Awareness",
			Description: "Your mood has been trending down. Consider self-care activities.",
		})
		r.Suggestions = append(r.Suggestions, "Take time for yourself - a break can help reset your mood")
	}
}

func (r *Report) generalSuggestions(activeCount, moodCount int) {
	switch {
	case activeCount == 0:
		r.Suggestions = append(r.Suggestions, "Start by adding one simple habit to track")
	case activeCount > constants.InsightManyHabits:
		r.Suggestions = append(r.Suggestions, "You have many habits - consider consolidating to maintain focus")
	}
	if moodCount < constants.InsightMinMoodEntries {
		r.Suggestions = append(r.Suggestions, "Track your mood regularly to discover patterns")
	}
}

// rankPerformers picks the most and least consistent active habits. With a
// single habit there is nothing to compare, so only the best is returned.
func rankPerformers(active []models.Habit, since, today string) (*Performer, *Performer) {
	if len(active) == 0 {
		return nil, nil
	}

	performers := make([]Performer, 0, len(active))
	for _, h := range active {
		inRange := 0
		for _, d := range h.CompletedDates {
			if d >= since && d <= today {
				inRange++
			}
		}
		performers = append(performers, Performer{
			HabitID:          h.ID,
			HabitName:        h.Name,
			ConsistencyScore: streak.ConsistencyScore(h.CompletedDates, h.CreatedDay(), today),
			CurrentStreak:    streak.CurrentStreak(h.CompletedDates, today),
			CompletedInRange: inRange,
		})
	}
	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].ConsistencyScore > performers[j].ConsistencyScore
	})

	best := performers[0]
	if len(performers) == 1 {
		return &best, nil
	}
	worst := performers[len(performers)-1]
	return &best, &worst
}
