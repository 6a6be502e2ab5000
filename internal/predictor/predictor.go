// Package predictor turns streak and mood statistics into ranked streak-risk
// assessments and insight reports. Everything here is a deterministic rule
// table over a snapshot; nothing is learned and nothing touches storage.
package predictor

import (
	"fmt"
	"math"
	"sort"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
)

// RiskLevel is how likely a streak is to break today
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// severity orders risk levels for ranking, most urgent first
func (r RiskLevel) severity() int {
	switch r {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	default:
		return 2
	}
}

// RiskAssessment is the predicted outlook for one habit's streak
type RiskAssessment struct {
	HabitID                 string    `json:"habitId"`
	HabitName               string    `json:"habitName"`
	CurrentStreak           int       `json:"currentStreak"`
	LongestStreak           int       `json:"longestStreak"`
	RiskLevel               RiskLevel `json:"riskLevel"`
	Confidence              float64   `json:"confidence"`
	ContinuationProbability float64   `json:"continuationProbability"`
	Factors                 []string  `json:"factors"`
	Suggestions             []string  `json:"suggestions"`
	CompletedToday          bool      `json:"completedToday"`
	HistoricalRate          float64   `json:"historicalCompletionRate"`
}

// Assess applies the risk rules to a single habit. The streak rules are
// checked in order and the first match wins; completing the habit today
// overrides all of them.
func Assess(h models.Habit, today string) RiskAssessment {
	yesterday := utils.PreviousDay(today)
	completedToday := h.CompletedOn(today)
	completedYesterday := h.CompletedOn(yesterday)
	current := streak.CurrentStreak(h.CompletedDates, today)

	a := RiskAssessment{
		HabitID:        h.ID,
		HabitName:      h.Name,
		CurrentStreak:  current,
		LongestStreak:  streak.LongestStreak(h.CompletedDates),
		RiskLevel:      RiskLow,
		Confidence:     constants.ConfidenceDefault,
		Factors:        []string{},
		Suggestions:    []string{},
		CompletedToday: completedToday,
	}

	switch {
	case current >= constants.HighRiskAtRiskStreak && !completedToday && completedYesterday:
		a.set(RiskHigh, constants.ConfidenceHighAtRisk,
			fmt.Sprintf("You have a %d-day streak at risk", current),
			"Complete this habit today to save your streak!")
	case current >= constants.HighRiskMilestoneStreak && !completedToday:
		a.set(RiskHigh, constants.ConfidenceHighMilestone,
			fmt.Sprintf("You have a %d-day milestone streak", current),
			"You've built something special - protect it!")
	case current >= constants.MediumRiskAtRiskStreak && !completedToday && completedYesterday:
		a.set(RiskMedium, constants.ConfidenceMediumAtRisk,
			fmt.Sprintf("Your %d-day streak needs attention", current),
			"Get back on track today")
	case current >= constants.MediumRiskGrowingStreak && !completedToday:
		a.set(RiskMedium, constants.ConfidenceMediumGrowing,
			fmt.Sprintf("Your %d-day streak is growing", current),
			"Keep the momentum going!")
	}

	if completedToday {
		a.set(RiskLow, constants.ConfidenceDefault, "Completed today!", "You're on fire!")
	}

	a.HistoricalRate = streak.CompletionRate(h.CompletedDates, constants.ContinuationWindowDays, today)
	a.ContinuationProbability = ContinuationProbability(a.HistoricalRate, current, completedToday)

	return a
}

func (a *RiskAssessment) set(level RiskLevel, confidence float64, factor, suggestion string) {
	a.RiskLevel = level
	a.Confidence = confidence
	a.Factors = []string{factor}
	a.Suggestions = []string{suggestion}
}

// ContinuationProbability estimates the chance a habit keeps going from its
// 30-day completion rate plus bonuses for a live streak and for today.
func ContinuationProbability(historicalRate float64, currentStreak int, completedToday bool) float64 {
	p := historicalRate
	if currentStreak > 0 {
		p += constants.ContinuationStreakBonus
	}
	if completedToday {
		p += constants.ContinuationTodayBonus
	}
	return math.Min(constants.ContinuationCeiling, math.Max(constants.ContinuationFloor, p))
}

// PredictRisks assesses every active habit and ranks the results from high to
// low risk. Habits with the same risk keep their input order.
func PredictRisks(habits []models.Habit, today string) []RiskAssessment {
	assessments := []RiskAssessment{}
	for _, h := range habits {
		if !h.Active() {
			continue
		}
		assessments = append(assessments, Assess(h, today))
	}

	sort.SliceStable(assessments, func(i, j int) bool {
		return assessments[i].RiskLevel.severity() < assessments[j].RiskLevel.severity()
	})
	return assessments
}

// Alerts keeps only the assessments worth interrupting the user for.
func Alerts(assessments []RiskAssessment) []RiskAssessment {
	alerts := []RiskAssessment{}
	for _, a := range assessments {
		if a.RiskLevel != RiskLow {
			alerts = append(alerts, a)
		}
	}
	return alerts
}
