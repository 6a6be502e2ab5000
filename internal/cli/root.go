package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/config"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
	"github.com/julianstephens/habitlit/internal/validation"
)

// Context carries the shared dependencies every command runs with.
type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigPath string
	Coach      *coach.Coach
	// Clock overrides the wall clock, mainly for tests
	Clock func() time.Time
}

// Settings returns the loaded config, or defaults when none was loaded
func (c *Context) Settings() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// Now returns the current time in the configured timezone
func (c *Context) Now() time.Time {
	now := time.Now()
	if c.Clock != nil {
		now = c.Clock()
	}
	local, err := utils.InTimezone(now, c.Settings().Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", c.Settings().Timezone, "error", err)
		return now
	}
	return local
}

// Today returns the user's current calendar day
func (c *Context) Today() string {
	return utils.Today(c.Now())
}

// CoachOrOffline returns the configured coach, or one that only gives
// canned replies when none was set up
func (c *Context) CoachOrOffline() *coach.Coach {
	if c.Coach == nil {
		c.Coach = coach.New(coach.OfflineProvider{}, c.Store)
	}
	return c.Coach
}

// ConfigDir is where the config file, logs and lockfiles live
func (c *Context) ConfigDir() string {
	if c.ConfigPath != "" {
		return filepath.Dir(c.ConfigPath)
	}
	return filepath.Dir(c.Store.GetConfigPath())
}

// ResolveDay turns "", "today" and "yesterday" into dates and validates anything else
func (c *Context) ResolveDay(day string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(day)) {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return utils.PreviousDay(c.Today()), nil
	}
	if err := validation.ValidateDay(day); err != nil {
		return "", err
	}
	return day, nil
}

// FindHabit looks a habit up by name first, then by ID
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	h, err := c.Store.GetHabitByName(ref)
	if err == nil {
		return h, nil
	}
	if h, idErr := c.Store.GetHabit(ref); idErr == nil {
		return h, nil
	}
	return models.Habit{}, fmt.Errorf("habit %q: %w", ref, apperrors.ErrNotFound)
}

// ProgressBar renders pct (0-100) as a fixed-width bar
func ProgressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(pct/100*float64(width) + 0.5)
	filled = max(0, min(width, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
