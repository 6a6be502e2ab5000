package streak

import (
	"math"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const today = "2024-03-15"

// run returns n consecutive dates ending at end
func run(end string, n int) []string {
	return utils.LastNDays(end, n)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"completed today only", []string{"2024-03-15"}, 1},
		{"through today", []string{"2024-03-13", "2024-03-14", "2024-03-15"}, 3},
		{"through yesterday", []string{"2024-03-13", "2024-03-14"}, 2},
		{"gap before yesterday", []string{"2024-03-10", "2024-03-11", "2024-03-13"}, 0},
		{"last completion two days ago", []string{"2024-03-12", "2024-03-13"}, 0},
		{"unsorted input", []string{"2024-03-15", "2024-03-13", "2024-03-14"}, 3},
		{"duplicates collapse", []string{"2024-03-14", "2024-03-14", "2024-03-15"}, 2},
		{"future dates ignored", []string{"2024-03-14", "2024-03-15", "2024-03-16", "2024-03-17"}, 2},
		{"future date alone", []string{"2024-03-16"}, 0},
		{"malformed dates ignored", []string{"garbage", "2024-03-15", "2024-13-01"}, 1},
		{"across month boundary", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.dates, today); got != tt.want {
				t.Errorf("CurrentStreak() = %v, want %v", got, tt.want)
			}
		})
	}

	if got := CurrentStreak([]string{"2024-02-28", "2024-02-29", "2024-03-01"}, "2024-03-01"); got != 3 {
		t.Errorf("CurrentStreak() across leap day = %v, want 3", got)
	}
	if got := CurrentStreak([]string{"2024-03-15"}, "not-a-day"); got != 0 {
		t.Errorf("CurrentStreak() with malformed today = %v, want 0", got)
	}
}

func TestLongestStreak(t *testing.T) {
	gapped := append(run("2024-03-04", 4), run("2024-03-12", 3)...)

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"single date", []string{"2024-01-01"}, 1},
		{"gap in between", gapped, 4},
		{"unsorted with duplicates", []string{"2024-03-03", "2024-03-01", "2024-03-02", "2024-03-02"}, 3},
		{"only malformed", []string{"x", "y"}, 0},
		{"year boundary", []string{"2023-12-30", "2023-12-31", "2024-01-01"}, 3},
		{"later run is longer", append(run("2024-01-02", 2), run("2024-02-10", 5)...), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(tt.dates); got != tt.want {
				t.Errorf("LongestStreak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStartDate(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  string
	}{
		{"no streak", []string{"2024-03-01"}, ""},
		{"through today", run(today, 4), "2024-03-12"},
		{"through yesterday", run("2024-03-14", 2), "2024-03-13"},
		{"older run ignored", append(run("2024-03-05", 3), run(today, 2)...), "2024-03-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartDate(tt.dates, today); got != tt.want {
				t.Errorf("StartDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsAtRisk(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  bool
	}{
		{"short streak through yesterday", run("2024-03-14", 2), false},
		{"exactly three days", run("2024-03-14", 3), false},
		{"four days through yesterday", run("2024-03-14", 4), true},
		{"five days through yesterday", run("2024-03-14", 5), true},
		{"completed today", run(today, 10), false},
		{"broken streak", run("2024-03-13", 10), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAtRisk(tt.dates, today); got != tt.want {
				t.Errorf("IsAtRisk() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		name   string
		dates  []string
		window int
		want   float64
	}{
		{"empty set", nil, 7, 0},
		{"zero window", run(today, 3), 0, 0},
		{"every day", run(today, 7), 7, 1},
		{"three of seven", run(today, 3), 7, 3.0 / 7.0},
		{"outside window ignored", run("2024-03-01", 5), 7, 0},
		{"future ignored", []string{"2024-03-20", "2024-03-15"}, 2, 0.5},
		{"thirty days", run(today, 3), 30, 0.1},
		{"decade window", run(today, 365), 3650, 0.1},
		{"huge window", run(today, 3), 1 << 40, 3.0 / float64(1<<40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompletionRate(tt.dates, tt.window, today)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CompletionRate() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 1 {
				t.Errorf("CompletionRate() = %v, out of [0,1]", got)
			}
		})
	}
}

func TestCompletionRateMalformedToday(t *testing.T) {
	if got := CompletionRate(run(today, 3), 7, "not-a-date"); got != 0 {
		t.Errorf("CompletionRate() = %v, want 0", got)
	}
}

func TestConsistencyScore(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		createdAt string
		want      int
	}{
		{"empty set", nil, "2024-01-01", 0},
		{"empty set created today", nil, today, 0},
		{"perfect run is capped", run(today, 3), "2024-03-13", 100},
		// 10 of 30 days plus the full 0.2 bonus for a 10-day streak
		{"partial with streak", run(today, 10), "2024-02-14", 53},
		// 3 of 14 days plus 3 * 0.02
		{"short streak bonus", run(today, 3), "2024-03-01", 27},
		// 10 of 30 days with no current streak
		{"partial without streak", run("2024-03-01", 10), "2024-02-14", 33},
		// streak bonus tops out at 0.2
		{"bonus capped", run(today, 20), "2023-03-16", 25},
		{"created in the future", run(today, 1), "2024-04-01", 100},
		{"malformed creation date", run(today, 1), "bad", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConsistencyScore(tt.dates, tt.createdAt, today)
			if got != tt.want {
				t.Errorf("ConsistencyScore() = %v, want %v", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("ConsistencyScore() = %v, out of [0,100]", got)
			}
		})
	}
}

func TestConsistencyStreakBonus(t *testing.T) {
	withStreak := ConsistencyScore(run("2024-03-15", 3), "2024-03-01", today)
	withoutStreak := ConsistencyScore(run("2024-03-10", 3), "2024-03-01", today)
	if withStreak <= withoutStreak {
		t.Errorf("ConsistencyScore() with streak = %d, want more than %d", withStreak, withoutStreak)
	}
}

func TestScenarios(t *testing.T) {
	t.Run("A: three days ending today", func(t *testing.T) {
		dates := []string{"2024-03-13", "2024-03-14", "2024-03-15"}
		got := Calculate(dates, "2024-03-13", "2024-03-15")
		want := Data{CurrentStreak: 3, LongestStreak: 3, StartDate: "2024-03-13", ConsistencyScore: 100}
		if got != want {
			t.Errorf("Calculate() = %+v, want %+v", got, want)
		}
	})

	t.Run("B: counted from yesterday", func(t *testing.T) {
		dates := []string{"2024-03-13", "2024-03-14"}
		if got := CurrentStreak(dates, "2024-03-15"); got != 2 {
			t.Errorf("CurrentStreak() = %v, want 2", got)
		}
		if IsAtRisk(dates, "2024-03-15") {
			t.Error("IsAtRisk() = true, want false")
		}
	})

	t.Run("C: five days not yet extended", func(t *testing.T) {
		dates := utils.DateRange("2024-03-10", "2024-03-14")
		if got := CurrentStreak(dates, "2024-03-15"); got != 5 {
			t.Errorf("CurrentStreak() = %v, want 5", got)
		}
		if !IsAtRisk(dates, "2024-03-15") {
			t.Error("IsAtRisk() = false, want true")
		}
	})

	t.Run("D: gap between runs", func(t *testing.T) {
		dates := append(utils.DateRange("2024-03-01", "2024-03-04"), utils.DateRange("2024-03-10", "2024-03-12")...)
		if got := LongestStreak(dates); got != 4 {
			t.Errorf("LongestStreak() = %v, want 4", got)
		}
	})
}

func TestLongestCoversCurrent(t *testing.T) {
	sets := [][]string{
		run(today, 1),
		run(today, 12),
		run("2024-03-14", 6),
		append(run("2024-02-10", 20), run(today, 2)...),
		append(run(today, 3), "2024-03-18", "2024-03-19", "2024-03-20", "2024-03-21"),
	}
	for _, dates := range sets {
		if LongestStreak(dates) < CurrentStreak(dates, today) {
			t.Errorf("LongestStreak(%v) < CurrentStreak()", dates)
		}
	}
}

func TestCurrentStreakGrowsWithTrailingDays(t *testing.T) {
	prev := 0
	for n := 1; n <= 15; n++ {
		got := CurrentStreak(run(today, n), today)
		if got < prev {
			t.Fatalf("CurrentStreak() shrank from %d to %d at n=%d", prev, got, n)
		}
		prev = got
	}

	// removing yesterday leaves only today
	dates := append(run("2024-03-13", 5), today)
	if got := CurrentStreak(dates, today); got != 1 {
		t.Errorf("CurrentStreak() after gap at yesterday = %v, want 1", got)
	}
}

func TestForHabit(t *testing.T) {
	h := models.Habit{
		ID:             "h1",
		CreatedAt:      time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC),
		CompletedDates: []string{"2024-03-13", "2024-03-14", "2024-03-15"},
	}
	got := ForHabit(h, today)
	if got.CurrentStreak != 3 || got.ConsistencyScore != 100 {
		t.Errorf("ForHabit() = %+v", got)
	}
	if len(h.CompletedDates) != 3 || h.CompletedDates[0] != "2024-03-13" {
		t.Errorf("ForHabit() mutated the habit: %v", h.CompletedDates)
	}
}
