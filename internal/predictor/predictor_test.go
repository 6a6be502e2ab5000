package predictor

import (
	"math"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const today = "2024-03-15"

func habit(id string, dates []string) models.Habit {
	return models.Habit{
		ID:             id,
		Name:           "Habit " + id,
		CreatedAt:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CompletedDates: dates,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAssessRules(t *testing.T) {
	tests := []struct {
		name       string
		dates      []string
		wantLevel  RiskLevel
		wantConf   float64
		wantFactor string
		wantSugg   string
	}{
		{
			name:       "long streak pending today",
			dates:      utils.LastNDays("2024-03-14", 14),
			wantLevel:  RiskHigh,
			wantConf:   0.95,
			wantFactor: "You have a 14-day streak at risk",
			wantSugg:   "Complete this habit today to save your streak!",
		},
		{
			name:       "week streak pending today",
			dates:      utils.LastNDays("2024-03-14", 7),
			wantLevel:  RiskMedium,
			wantConf:   0.85,
			wantFactor: "Your 7-day streak needs attention",
			wantSugg:   "Get back on track today",
		},
		{
			name:       "five day streak pending today",
			dates:      utils.LastNDays("2024-03-14", 5),
			wantLevel:  RiskMedium,
			wantConf:   0.8,
			wantFactor: "Your 5-day streak is growing",
			wantSugg:   "Keep the momentum going!",
		},
		{
			name:       "completed today overrides long streak",
			dates:      utils.LastNDays(today, 40),
			wantLevel:  RiskLow,
			wantConf:   0.9,
			wantFactor: "Completed today!",
			wantSugg:   "You're on fire!",
		},
		{
			name:      "short streak",
			dates:     utils.LastNDays("2024-03-14", 3),
			wantLevel: RiskLow,
			wantConf:  0.9,
		},
		{
			name:      "no completions",
			dates:     nil,
			wantLevel: RiskLow,
			wantConf:  0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Assess(habit("h", tt.dates), today)
			if a.RiskLevel != tt.wantLevel {
				t.Errorf("RiskLevel = %v, want %v", a.RiskLevel, tt.wantLevel)
			}
			if !approx(a.Confidence, tt.wantConf) {
				t.Errorf("Confidence = %v, want %v", a.Confidence, tt.wantConf)
			}
			if tt.wantFactor == "" {
				if len(a.Factors) != 0 || len(a.Suggestions) != 0 {
					t.Errorf("expected no factors or suggestions, got %v / %v", a.Factors, a.Suggestions)
				}
				return
			}
			if len(a.Factors) != 1 || a.Factors[0] != tt.wantFactor {
				t.Errorf("Factors = %v, want [%v]", a.Factors, tt.wantFactor)
			}
			if len(a.Suggestions) != 1 || a.Suggestions[0] != tt.wantSugg {
				t.Errorf("Suggestions = %v, want [%v]", a.Suggestions, tt.wantSugg)
			}
		})
	}
}

// A streak is only ever alive through today or yesterday, so the milestone
// rule can never fire ahead of the at-risk rule on its own; the at-risk rule
// claims every 30+ streak pending today first.
func TestAssessMilestoneShadowedByAtRisk(t *testing.T) {
	a := Assess(habit("h", utils.LastNDays("2024-03-14", 35)), today)
	if a.RiskLevel != RiskHigh || !approx(a.Confidence, 0.95) {
		t.Errorf("Assess() = %v/%v, want high/0.95", a.RiskLevel, a.Confidence)
	}
	if a.CurrentStreak != 35 || a.LongestStreak != 35 {
		t.Errorf("streaks = %d/%d, want 35/35", a.CurrentStreak, a.LongestStreak)
	}
}

func TestContinuationProbability(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		streak    int
		doneToday bool
		want      float64
	}{
		{"floor", 0, 0, false, 0.3},
		{"rate only", 0.5, 0, false, 0.5},
		{"streak bonus", 0.5, 3, false, 0.6},
		{"both bonuses", 0.5, 3, true, 0.7},
		{"ceiling", 0.9, 10, true, 0.95},
		{"small rate lifted by bonuses", 0.05, 1, true, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContinuationProbability(tt.rate, tt.streak, tt.doneToday)
			if !approx(got, tt.want) {
				t.Errorf("ContinuationProbability() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssessContinuation(t *testing.T) {
	// 15 of the last 30 days, streak through today
	a := Assess(habit("h", utils.LastNDays(today, 15)), today)
	if !approx(a.HistoricalRate, 0.5) {
		t.Errorf("HistoricalRate = %v, want 0.5", a.HistoricalRate)
	}
	if !approx(a.ContinuationProbability, 0.7) {
		t.Errorf("ContinuationProbability = %v, want 0.7", a.ContinuationProbability)
	}
	if !a.CompletedToday {
		t.Error("CompletedToday = false, want true")
	}
}

func TestPredictRisks(t *testing.T) {
	archivedAt := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	archived := habit("archived", utils.LastNDays("2024-03-14", 20))
	archived.ArchivedAt = &archivedAt

	habits := []models.Habit{
		habit("low-1", utils.LastNDays(today, 2)),
		habit("medium-1", utils.LastNDays("2024-03-14", 5)),
		archived,
		habit("high", utils.LastNDays("2024-03-14", 14)),
		habit("low-2", nil),
		habit("medium-2", utils.LastNDays("2024-03-14", 8)),
	}

	got := PredictRisks(habits, today)
	want := []string{"high", "medium-1", "medium-2", "low-1", "low-2"}
	if len(got) != len(want) {
		t.Fatalf("PredictRisks() returned %d assessments, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].HabitID != id {
			t.Errorf("PredictRisks()[%d] = %v, want %v", i, got[i].HabitID, id)
		}
	}

	alerts := Alerts(got)
	if len(alerts) != 3 {
		t.Fatalf("Alerts() returned %d, want 3", len(alerts))
	}
	for _, a := range alerts {
		if a.RiskLevel == RiskLow {
			t.Errorf("Alerts() kept low risk habit %s", a.HabitID)
		}
	}

	if empty := PredictRisks(nil, today); empty == nil || len(empty) != 0 {
		t.Errorf("PredictRisks(nil) = %v, want empty slice", empty)
	}
}

func TestAssessDoesNotMutateHabit(t *testing.T) {
	dates := []string{"2024-03-15", "2024-03-13", "2024-03-14"}
	h := habit("h", dates)
	_ = Assess(h, today)
	if h.CompletedDates[0] != "2024-03-15" || len(h.CompletedDates) != 3 {
		t.Errorf("Assess() changed completion dates: %v", h.CompletedDates)
	}
}
