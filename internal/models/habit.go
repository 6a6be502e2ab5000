package models

import (
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
)

type HabitCategory string

const (
	CategoryHealth       HabitCategory = "health"
	CategoryProductivity HabitCategory = "productivity"
	CategoryMindfulness  HabitCategory = "mindfulness"
	CategorySocial       HabitCategory = "social"
	CategoryOther        HabitCategory = "other"
)

// Categories lists every valid habit category in display order
var Categories = []HabitCategory{
	CategoryHealth,
	CategoryProductivity,
	CategoryMindfulness,
	CategorySocial,
	CategoryOther,
}

// Habit represents a recurring practice to track.
//
// CompletedDates is the set of calendar days (YYYY-MM-DD) the habit was done,
// sorted ascending when it comes out of storage. The JSON names match the
// export layout so archives round-trip unchanged.
type Habit struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Category       HabitCategory `json:"category,omitempty"`
	Color          string        `json:"color,omitempty"`
	Icon           string        `json:"icon,omitempty"`
	TargetDays     *int          `json:"targetDays,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	CompletedDates []string      `json:"completedDates"`
	ArchivedAt     *time.Time    `json:"archivedAt,omitempty"`
	DeletedAt      *time.Time    `json:"deletedAt,omitempty"`
}

// Active reports whether the habit is neither archived nor deleted
func (h Habit) Active() bool {
	return h.ArchivedAt == nil && h.DeletedAt == nil
}

// CreatedDay returns the calendar date the habit was created on
func (h Habit) CreatedDay() string {
	if h.CreatedAt.IsZero() {
		return ""
	}
	return h.CreatedAt.Format(constants.DateFormat)
}

// CompletedOn reports whether day is in the completion set
func (h Habit) CompletedOn(day string) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// HabitEntry represents a single day's record of a habit
type HabitEntry struct {
	ID        string     `json:"id"`
	HabitID   string     `json:"habit_id"`
	Day       string     `json:"day"` // YYYY-MM-DD format
	Note      string     `json:"note"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
