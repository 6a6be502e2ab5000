package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/validation"
)

func newHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[models.HabitCategory], 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, huh.NewOption(strings.ToUpper(string(c[:1]))+string(c[1:]), c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					return validation.ValidateHabit(models.Habit{Name: s})
				}),
			huh.NewSelect[models.HabitCategory]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewInput().
				Title("Description (optional)").
				Value(&fm.Description).
				Validate(func(s string) error {
					if len(s) > validation.MaxDescriptionLength {
						return fmt.Errorf("description must be at most %d characters", validation.MaxDescriptionLength)
					}
					return nil
				}),
		),
	)
}

func newMoodForm(fm *MoodFormModel) *huh.Form {
	options := make([]huh.Option[models.MoodType], 0, len(models.MoodTypes))
	// best mood first so the cursor starts on a friendly option
	for i := len(models.MoodTypes) - 1; i >= 0; i-- {
		mt := models.MoodTypes[i]
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%d)", mt.Label(), mt.Score()), mt))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.MoodType]().
				Title("How are you feeling?").
				Options(options...).
				Value(&fm.Mood),
			huh.NewInput().
				Title("Note (optional)").
				Value(&fm.Note).
				Validate(func(s string) error {
					if len(s) > validation.MaxNoteLength {
						return fmt.Errorf("note must be at most %d characters", validation.MaxNoteLength)
					}
					return nil
				}),
			huh.NewInput().
				Title("Activities (comma separated, optional)").
				Value(&fm.Activities),
		),
	)
}

func newConfirmForm(title string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(confirmed),
		),
	)
}

// splitActivities turns "walk, gym ,," into ["walk", "gym"]
func splitActivities(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
