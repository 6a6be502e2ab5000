package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/storage"
	"github.com/julianstephens/habitlit/internal/utils"
)

type ExportCmd struct {
	Output string `arg:"" optional:"" help:"File to write (default: stdout)." type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	archive, err := storage.Export(ctx.Store, ctx.Now())
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	data = append(data, '\n')

	if c.Output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Output), 0700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	logger.Info("data exported", "path", c.Output, "habits", len(archive.Habits), "moods", len(archive.MoodHistory))
	fmt.Fprintf(os.Stderr, "Exported %d habits, %d mood entries and %d messages to %s\n",
		len(archive.Habits), len(archive.MoodHistory), len(archive.Messages), c.Output)
	return nil
}

type ImportCmd struct {
	File     string `arg:"" help:"Archive file to import." type:"existingfile"`
	DryRun   bool   `help:"Validate the archive without writing anything."`
	NoBackup bool   `help:"Skip the database snapshot taken before importing."`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}

	if err := storage.ValidateArchive(data); err != nil {
		return err
	}
	if c.DryRun {
		fmt.Println("Archive is valid.")
		return nil
	}

	if !c.NoBackup {
		snap, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
		if err != nil {
			return fmt.Errorf("backup failed, nothing was imported: %w", err)
		}
		logger.Debug("pre-import backup", "path", snap.Path)
	}

	result, err := storage.Import(ctx.Store, data)
	if err != nil {
		return err
	}

	logger.Info("data imported", "path", c.File, "habits", result.Habits, "moods", result.Moods, "messages", result.Messages)
	fmt.Printf("Imported %d habits, %d mood entries and %d messages\n", result.Habits, result.Moods, result.Messages)
	return nil
}

type ResetCmd struct {
	Yes    bool   `help:"Do not ask for confirmation." short:"y"`
	Backup string `help:"Export everything to this file before resetting." type:"path"`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Permanently delete every habit, mood entry and message?").
			Affirmative("Delete everything").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if c.Backup != "" {
		if err := (&ExportCmd{Output: c.Backup}).Run(ctx); err != nil {
			return fmt.Errorf("backup failed, nothing was deleted: %w", err)
		}
	}

	if err := ctx.Store.ResetAll(); err != nil {
		return err
	}
	logger.Warn("all data reset", "date", utils.Today(ctx.Now()))
	fmt.Println("All data deleted.")
	return nil
}
