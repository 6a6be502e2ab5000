package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/cli/chat"
	"github.com/julianstephens/habitlit/internal/cli/data"
	"github.com/julianstephens/habitlit/internal/cli/habits"
	"github.com/julianstephens/habitlit/internal/cli/insights"
	"github.com/julianstephens/habitlit/internal/cli/moods"
	"github.com/julianstephens/habitlit/internal/cli/system"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/config"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/keyring"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	DB      string `help:"Database file path." type:"path" default:"~/.config/habitlit/habitlit.db"`
	Config  string `help:"Config file path." type:"path" default:"~/.config/habitlit/config.yaml"`
	Debug   bool   `help:"Enable debug logging."`

	Init     system.InitCmd       `cmd:"" help:"Initialize habitlit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd      `cmd:"" help:"Serve the JSON API for the web dashboard."`
	Settings system.ConfigCmd     `cmd:"" name:"config" help:"Manage configuration and the coach API key."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and habit tracking."`
	Mood     moods.MoodCmd        `cmd:"" help:"Log and review moods."`
	Insights insights.InsightsCmd `cmd:"" help:"Show risk predictions and insight reports."`
	Chat     chat.ChatCmd         `cmd:"" help:"Talk to the habit coach."`
	Data     struct {
		Export data.ExportCmd `cmd:"" help:"Export all data as JSON."`
		Import data.ImportCmd `cmd:"" help:"Import data from a JSON export."`
		Reset  data.ResetCmd  `cmd:"" help:"Delete all data."`
	} `cmd:"" help:"Export, import and reset data."`
	Backup data.BackupCmd `cmd:"" help:"Manage database snapshots."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("habitlit"),
		kong.Description("Habit and mood tracker with streaks, risk predictions and a coach"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	command := ""
	if ctx.Selected() != nil {
		command = ctx.Selected().Name
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
		Stderr:    command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}

	store := sqlite.NewStore(CLI.DB)
	defer store.Close()

	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: CLI.Config,
		Coach:      newCoach(cfg, store),
	}

	// Init handles its own storage setup
	if command != "init" {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

// newCoach wires the configured provider. Without an API key the coach
// answers offline.
func newCoach(cfg *config.Config, history coach.History) *coach.Coach {
	apiKey := ""
	if cfg.Coach.Provider != "offline" {
		key, source, err := keyring.ResolveAPIKey()
		if err != nil {
			logger.Debug("no coach API key", "error", err)
		} else {
			logger.Debug("coach API key resolved", "source", source)
			apiKey = key
		}
	}

	provider, err := coach.NewProvider(cfg.Coach, apiKey)
	if err != nil {
		logger.Warn("falling back to offline coach", "error", err)
		provider = coach.OfflineProvider{}
	}
	return coach.New(provider, history)
}
