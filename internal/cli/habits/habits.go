package habits

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/cli"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/predictor"
	"github.com/julianstephens/habitlit/internal/streak"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits with their streaks."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit a habit."`
	Mark      HabitMarkCmd      `cmd:"" help:"Toggle a habit's completion for a day."`
	Today     HabitTodayCmd     `cmd:"" help:"Show today's habit status."`
	Log       HabitLogCmd       `cmd:"" help:"Show habit log (ASCII history)."`
	Stats     HabitStatsCmd     `cmd:"" help:"Show streak statistics for a habit."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Bring an archived habit back."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit (soft delete)."`
	Restore   HabitRestoreCmd   `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Short description." short:"d"`
	Category    string `help:"Category (health, productivity, mindfulness, social, other)." default:"other" enum:"health,productivity,mindfulness,social,other"`
	Color       string `help:"Hex color, e.g. #22c55e."`
	Icon        string `help:"Icon or emoji."`
	Target      int    `help:"Target number of days."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(c.Name),
		Description: strings.TrimSpace(c.Description),
		Category:    models.HabitCategory(c.Category),
		Color:       c.Color,
		Icon:        c.Icon,
		CreatedAt:   ctx.Now(),
	}
	if c.Target > 0 {
		target := c.Target
		habit.TargetDays = &target
	}

	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	logger.Info("habit added", "id", habit.ID, "name", habit.Name)
	fmt.Printf("Added habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for _, habit := range habits {
		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}
		data := streak.ForHabit(habit, today)
		fmt.Printf("%-24s %-13s streak %3d  best %3d  %3d%%%s\n",
			habit.Name, habit.Category, data.CurrentStreak, data.LongestStreak, data.ConsistencyScore, status)
	}

	return nil
}

type HabitEditCmd struct {
	Habit       string `arg:"" help:"Habit name or ID."`
	Name        string `help:"New name."`
	Description string `help:"New description."`
	Category    string `help:"New category." enum:",health,productivity,mindfulness,social,other" default:""`
	Color       string `help:"New hex color."`
	Icon        string `help:"New icon."`
	Target      int    `help:"New target number of days."`
	ClearTarget bool   `help:"Remove the target."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	changed := false
	set := func(dst *string, v string) {
		if v != "" {
			*dst = strings.TrimSpace(v)
			changed = true
		}
	}
	set(&habit.Name, c.Name)
	set(&habit.Description, c.Description)
	set(&habit.Color, c.Color)
	set(&habit.Icon, c.Icon)
	if c.Category != "" {
		habit.Category = models.HabitCategory(c.Category)
		changed = true
	}
	if c.Target > 0 {
		target := c.Target
		habit.TargetDays = &target
		changed = true
	}
	if c.ClearTarget {
		habit.TargetDays = nil
		changed = true
	}
	if !changed {
		return apperrors.Invalid("nothing to change")
	}

	if err := validation.ValidateHabit(habit); err != nil {
		return err
	}
	// Renames must not collide with another habit
	if other, err := ctx.Store.GetHabitByName(habit.Name); err == nil && other.ID != habit.ID {
		return fmt.Errorf("habit %q: %w", habit.Name, apperrors.ErrAlreadyExists)
	}
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitMarkCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
	Date  string `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)." default:""`
	Note  string `help:"Optional note for this entry." default:""`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	if day > ctx.Today() {
		return apperrors.Invalid("cannot mark %s: date is in the future", day)
	}

	completed, err := ctx.Store.ToggleCompletion(habit.ID, day)
	if err != nil {
		return err
	}

	if !completed {
		fmt.Printf("Unmarked habit %q for %s\n", habit.Name, day)
		return nil
	}

	if c.Note != "" {
		entry, err := ctx.Store.GetHabitEntry(habit.ID, day)
		if err != nil {
			return err
		}
		entry.Note = c.Note
		if err := ctx.Store.UpdateHabitEntry(entry); err != nil {
			return err
		}
	}

	habit.CompletedDates = append(habit.CompletedDates, day)
	data := streak.ForHabit(habit, ctx.Today())
	fmt.Printf("Marked habit %q for %s (streak: %d)\n", habit.Name, day, data.CurrentStreak)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	fmt.Printf("Habits for %s:\n\n", utils.FormatDate(today, "Monday, Jan 2"))
	recorded := 0
	for _, habit := range habits {
		status := "[ ]"
		if habit.CompletedOn(today) {
			status = "[x]"
			recorded++
		}
		data := streak.ForHabit(habit, today)
		note := ""
		if data.AtRisk {
			note = "  ⚠ streak at risk"
		}
		fmt.Printf("%s %-24s %3d day streak%s\n", status, habit.Name, data.CurrentStreak, note)
	}

	fmt.Printf("\nRecorded: %d/%d\n", recorded, len(habits))
	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if err := validation.ValidateWindow(c.Days); err != nil {
		return err
	}

	var selected []models.Habit
	if c.Habit != "" {
		habit, err := ctx.FindHabit(c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{habit}
	} else {
		habits, err := ctx.Store.GetAllHabits(false, false)
		if err != nil {
			return err
		}
		selected = habits
	}

	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Print(renderLog(selected, utils.LastNDays(ctx.Today(), c.Days)))
	return nil
}

// renderLog draws one row per habit and one column per day, oldest first
func renderLog(habits []models.Habit, days []string) string {
	const nameWidth = 20

	var b strings.Builder
	fmt.Fprintf(&b, "Habit log (last %d days):\n\n", len(days))
	b.WriteString(strings.Repeat(" ", nameWidth))
	for _, d := range days {
		b.WriteString(d[8:10] + " ")
	}
	b.WriteString("\n")

	for _, h := range habits {
		name := h.Name
		if len(name) > nameWidth-1 {
			name = name[:nameWidth-2] + "…"
		}
		fmt.Fprintf(&b, "%-*s", nameWidth, name)
		for _, d := range days {
			if h.CompletedOn(d) {
				b.WriteString(" ■ ")
			} else {
				b.WriteString(" · ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

type HabitStatsCmd struct {
	Habit  string `arg:"" help:"Habit name or ID."`
	Window int    `help:"Completion rate window in days (default from config)."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}

	window := c.Window
	if window <= 0 {
		window = ctx.Settings().CompletionWindowDays
	}
	if err := validation.ValidateWindow(window); err != nil {
		return err
	}

	today := ctx.Today()
	data := streak.ForHabit(habit, today)
	rate := streak.CompletionRate(habit.CompletedDates, window, today)
	risk := predictor.Assess(habit, today)

	fmt.Printf("%s\n\n", habit.Name)
	fmt.Printf("Current streak:   %d days", data.CurrentStreak)
	if data.StartDate != "" {
		fmt.Printf(" (since %s)", utils.FormatDate(data.StartDate, "Jan 2"))
	}
	fmt.Println()
	fmt.Printf("Longest streak:   %d days\n", data.LongestStreak)
	fmt.Printf("Consistency:      %d%%\n", data.ConsistencyScore)
	fmt.Printf("Last %d days:     %s %.0f%%\n", window, cli.ProgressBar(rate, 20), rate)
	fmt.Printf("Done today:       %v\n", habit.CompletedOn(today))
	fmt.Printf("Risk:             %s (%.0f%% likely to continue)\n", risk.RiskLevel, risk.ContinuationProbability*100)
	if habit.TargetDays != nil {
		fmt.Printf("Target:           %d days\n", *habit.TargetDays)
	}
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Unarchived habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.FindHabit(c.Habit)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s (restore with 'habitlit habit restore %q')\n", habit.Name, habit.Name)
	return nil
}

type HabitRestoreCmd struct {
	Habit string `arg:"" help:"Habit name or ID."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	for _, h := range habits {
		if h.DeletedAt == nil {
			continue
		}
		if h.ID == c.Habit || strings.EqualFold(h.Name, strings.TrimSpace(c.Habit)) {
			if err := ctx.Store.RestoreHabit(h.ID); err != nil {
				return err
			}
			fmt.Printf("Restored habit: %s\n", h.Name)
			return nil
		}
	}
	return fmt.Errorf("deleted habit %q: %w", c.Habit, apperrors.ErrNotFound)
}
