package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

const (
	MaxHabitNameLength   = 80
	MaxDescriptionLength = 500
	MaxNoteLength        = 1000
	MaxActivities        = 20
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHabit checks user-editable habit fields before they are saved.
func ValidateHabit(h models.Habit) error {
	name := strings.TrimSpace(h.Name)
	if name == "" {
		return apperrors.Invalid("habit name cannot be empty")
	}
	if len(name) > MaxHabitNameLength {
		return apperrors.Invalid("habit name must be at most %d characters", MaxHabitNameLength)
	}
	if len(h.Description) > MaxDescriptionLength {
		return apperrors.Invalid("description must be at most %d characters", MaxDescriptionLength)
	}
	if h.Category != "" && !validCategory(h.Category) {
		return apperrors.Invalid("unknown category %q", h.Category)
	}
	if h.Color != "" && !colorPattern.MatchString(h.Color) {
		return apperrors.Invalid("color %q must be a hex value like #22c55e", h.Color)
	}
	if h.TargetDays != nil && (*h.TargetDays < 1 || *h.TargetDays > constants.MaxWindowDays) {
		return apperrors.Invalid("target days must be between 1 and %d", constants.MaxWindowDays)
	}
	return nil
}

func validCategory(c models.HabitCategory) bool {
	for _, known := range models.Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidateMood checks a mood entry before it is saved.
func ValidateMood(e models.MoodEntry) error {
	if !e.Mood.Valid() {
		return apperrors.Invalid("mood %q is not one of terrible, bad, neutral, good, excellent", e.Mood)
	}
	if !utils.IsValidDate(e.Date) {
		return apperrors.Invalid("mood date %q must be YYYY-MM-DD", e.Date)
	}
	ts, ok := e.Timestamp()
	if !ok {
		return apperrors.Invalid("mood time %q must be an RFC3339 timestamp", e.Time)
	}
	if ts.Format(constants.DateFormat) != e.Date {
		return apperrors.Invalid("mood time %s does not fall on %s", e.Time, e.Date)
	}
	if len(e.Note) > MaxNoteLength {
		return apperrors.Invalid("note must be at most %d characters", MaxNoteLength)
	}
	if len(e.Activities) > MaxActivities {
		return apperrors.Invalid("at most %d activities per entry", MaxActivities)
	}
	return nil
}

// ValidateDay checks a completion day argument.
func ValidateDay(day string) error {
	if !utils.IsValidDate(day) {
		return apperrors.Invalid("day %q must be YYYY-MM-DD", day)
	}
	return nil
}

// ValidateWindow bounds a day window taken from a flag or query string
func ValidateWindow(days int) error {
	if days < 1 || days > constants.MaxWindowDays {
		return apperrors.Invalid("days must be between 1 and %d, got %d", constants.MaxWindowDays, days)
	}
	return nil
}

// IssueType classifies a data problem found in stored records
type IssueType string

const (
	IssueMalformedDate      IssueType = "malformed_date"
	IssueFutureCompletion   IssueType = "future_completion"
	IssueDuplicateHabitName IssueType = "duplicate_habit_name"
	IssueUnknownMood        IssueType = "unknown_mood"
	IssueMalformedTimestamp IssueType = "malformed_timestamp"
)

// Issue is one inconsistency in stored data. The engines tolerate all of
// these; they are reported so the user can clean them up.
type Issue struct {
	Type        IssueType
	Description string
	ItemID      string
}

// Result contains every issue found by Check
type Result struct {
	Issues []Issue
}

// HasIssues returns true if any issue was found
func (r *Result) HasIssues() bool {
	return len(r.Issues) > 0
}

// FormatReport returns a human-readable report of all issues
func (r *Result) FormatReport() string {
	if !r.HasIssues() {
		return "No data issues detected."
	}

	var b strings.Builder
	b.WriteString("Data issues detected:\n")
	for _, issue := range r.Issues {
		fmt.Fprintf(&b, "- %s\n", issue.Description)
	}
	return b.String()
}

// Check scans a snapshot for records that drifted out of shape.
func Check(snap models.Snapshot, today string) Result {
	var res Result

	seen := make(map[string]string)
	for _, h := range snap.Habits {
		if h.DeletedAt == nil {
			key := strings.ToLower(strings.TrimSpace(h.Name))
			if other, ok := seen[key]; ok {
				res.Issues = append(res.Issues, Issue{
					Type:        IssueDuplicateHabitName,
					Description: fmt.Sprintf("habits %s and %s share the name %q", other, h.ID, h.Name),
					ItemID:      h.ID,
				})
			} else {
				seen[key] = h.ID
			}
		}

		for _, d := range h.CompletedDates {
			switch {
			case !utils.IsValidDate(d):
				res.Issues = append(res.Issues, Issue{
					Type:        IssueMalformedDate,
					Description: fmt.Sprintf("habit %q has malformed completion date %q", h.Name, d),
					ItemID:      h.ID,
				})
			case d > today:
				res.Issues = append(res.Issues, Issue{
					Type:        IssueFutureCompletion,
					Description: fmt.Sprintf("habit %q is marked complete on future date %s", h.Name, d),
					ItemID:      h.ID,
				})
			}
		}
	}

	for _, m := range snap.Moods {
		if !m.Mood.Valid() {
			res.Issues = append(res.Issues, Issue{
				Type:        IssueUnknownMood,
				Description: fmt.Sprintf("mood entry %s has unknown mood %q", m.ID, m.Mood),
				ItemID:      m.ID,
			})
		}
		if !utils.IsValidDate(m.Date) {
			res.Issues = append(res.Issues, Issue{
				Type:        IssueMalformedDate,
				Description: fmt.Sprintf("mood entry %s has malformed date %q", m.ID, m.Date),
				ItemID:      m.ID,
			})
		}
		if _, err := time.Parse(time.RFC3339, m.Time); err != nil {
			res.Issues = append(res.Issues, Issue{
				Type:        IssueMalformedTimestamp,
				Description: fmt.Sprintf("mood entry %s has malformed time %q", m.ID, m.Time),
				ItemID:      m.ID,
			})
		}
	}

	return res
}
