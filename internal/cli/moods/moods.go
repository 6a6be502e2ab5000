package moods

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/cli"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/mood"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

type MoodCmd struct {
	Log    MoodLogCmd    `cmd:"" help:"Record how you feel."`
	List   MoodListCmd   `cmd:"" help:"List recent mood entries."`
	Today  MoodTodayCmd  `cmd:"" help:"Show today's mood."`
	Stats  MoodStatsCmd  `cmd:"" help:"Show mood average, trend and distribution."`
	Delete MoodDeleteCmd `cmd:"" help:"Delete a mood entry."`
}

type MoodLogCmd struct {
	Mood       string   `arg:"" help:"Mood: terrible, bad, neutral, good, excellent (or 1-5)."`
	Note       string   `help:"Optional note." short:"n"`
	Activities []string `help:"Comma-separated activities." short:"a" sep:","`
	Date       string   `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)." default:""`
}

func (c *MoodLogCmd) Run(ctx *cli.Context) error {
	m, ok := models.ParseMoodType(c.Mood)
	if !ok {
		return apperrors.Invalid("mood %q must be one of terrible, bad, neutral, good, excellent or 1-5", c.Mood)
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	now := ctx.Now()
	stamp := now.Format(time.RFC3339)
	if day != utils.Today(now) {
		// Backfilled entries are stamped at noon on their own date
		stamp = day + "T12:00:00" + now.Format("Z07:00")
	}

	var activities []string
	for _, a := range c.Activities {
		if a = strings.TrimSpace(a); a != "" {
			activities = append(activities, a)
		}
	}

	entry := models.MoodEntry{
		ID:         uuid.New().String(),
		Date:       day,
		Time:       stamp,
		Mood:       m,
		Note:       strings.TrimSpace(c.Note),
		Activities: activities,
	}
	if err := validation.ValidateMood(entry); err != nil {
		return err
	}
	if err := ctx.Store.AddMood(entry); err != nil {
		return err
	}

	logger.Info("mood logged", "date", entry.Date, "mood", entry.Mood)
	fmt.Printf("Logged %s (%d/5) for %s\n", m.Label(), m.Score(), day)
	return nil
}

type MoodListCmd struct {
	Days int `help:"Number of days to show (default from config)."`
}

func (c *MoodListCmd) Run(ctx *cli.Context) error {
	days := c.Days
	if days <= 0 {
		days = ctx.Settings().MoodWindowDays
	}
	if err := validation.ValidateWindow(days); err != nil {
		return err
	}

	entries, err := ctx.Store.GetAllMoods()
	if err != nil {
		return err
	}

	recent := mood.Recent(entries, days, ctx.Today())
	if len(recent) == 0 {
		fmt.Printf("No mood entries in the last %d days.\n", days)
		return nil
	}

	now := ctx.Now()
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		fmt.Printf("%s  %-9s %d/5  %-10s %s\n", e.Date, e.Mood.Label(), e.Mood.Score(), utils.RelativeTime(e.Time, now), shortID(e.ID))
		if e.Note != "" {
			fmt.Printf("            %s\n", e.Note)
		}
		if len(e.Activities) > 0 {
			fmt.Printf("            [%s]\n", strings.Join(e.Activities, ", "))
		}
	}
	return nil
}

type MoodTodayCmd struct{}

func (c *MoodTodayCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.GetAllMoods()
	if err != nil {
		return err
	}

	today := mood.TodaysMood(entries, ctx.Today())
	if today == nil {
		fmt.Println("No mood logged today. Try 'habitlit mood log good'.")
		return nil
	}
	fmt.Printf("Today you feel %s (%d/5)\n", today.Mood.Label(), today.Mood.Score())
	if today.Note != "" {
		fmt.Printf("Note: %s\n", today.Note)
	}
	return nil
}

type MoodStatsCmd struct {
	Days int `help:"Window in days (default from config)."`
}

func (c *MoodStatsCmd) Run(ctx *cli.Context) error {
	days := c.Days
	if days <= 0 {
		days = ctx.Settings().MoodWindowDays
	}
	if err := validation.ValidateWindow(days); err != nil {
		return err
	}

	entries, err := ctx.Store.GetAllMoods()
	if err != nil {
		return err
	}

	summary := mood.Summarize(entries, days, ctx.Today())
	if summary.Entries == 0 {
		fmt.Printf("No mood entries in the last %d days.\n", days)
		return nil
	}

	fmt.Printf("Mood over the last %d days\n\n", days)
	fmt.Printf("Average: %.1f/5\n", summary.Average)
	fmt.Printf("Trend:   %s\n", summary.Trend)
	fmt.Printf("Entries: %d\n", summary.Entries)
	if best := mood.BestDay(mood.Recent(entries, days, ctx.Today())); best != "" {
		fmt.Printf("Best day: %s\n", utils.FormatDate(best, "Monday, Jan 2"))
	}
	fmt.Println()
	for i := len(models.MoodTypes) - 1; i >= 0; i-- {
		mt := models.MoodTypes[i]
		n := summary.Counts[mt]
		pct := float64(n) / float64(summary.Entries) * 100
		fmt.Printf("%-9s %s %d\n", mt.Label(), cli.ProgressBar(pct, 20), n)
	}
	return nil
}

type MoodDeleteCmd struct {
	ID string `arg:"" help:"Mood entry ID (or a unique prefix)."`
}

func (c *MoodDeleteCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.ID) == "" {
		return apperrors.Invalid("mood entry ID cannot be empty")
	}
	entries, err := ctx.Store.GetAllMoods()
	if err != nil {
		return err
	}

	var matches []models.MoodEntry
	for _, e := range entries {
		if e.ID == c.ID {
			matches = []models.MoodEntry{e}
			break
		}
		if strings.HasPrefix(e.ID, c.ID) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("mood entry %q: %w", c.ID, apperrors.ErrNotFound)
	case 1:
	default:
		return apperrors.Invalid("%q matches %d entries, use a longer prefix", c.ID, len(matches))
	}

	if err := ctx.Store.DeleteMood(matches[0].ID); err != nil {
		return err
	}
	fmt.Printf("Deleted mood entry from %s\n", matches[0].Date)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
