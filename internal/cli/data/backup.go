package data

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/backup"
	"github.com/julianstephens/habitlit/internal/cli"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Snapshot the database." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List database snapshots."`
	Restore BackupRestoreCmd `cmd:"" help:"Replace the database with a snapshot."`
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	snap, err := backup.NewManager(ctx.Store.GetConfigPath()).Create()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Backup created: %s\n", snap.Path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	m := backup.NewManager(ctx.Store.GetConfigPath())
	snaps, err := m.List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Printf("No backups in %s\n", m.Dir())
		return nil
	}

	fmt.Printf("Backups in %s:\n", m.Dir())
	for _, s := range snaps {
		fmt.Printf("  %-36s %s  %6.1f KB\n", s.Name, s.TakenAt.Local().Format("2006-01-02 15:04:05"), float64(s.Size)/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	Name string `arg:"" help:"Snapshot file name or path."`
	Yes  bool   `help:"Do not ask for confirmation." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	m := backup.NewManager(ctx.Store.GetConfigPath())
	snap, err := m.Find(c.Name)
	if err != nil {
		return err
	}

	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Replace the database with %s?", snap.Name)).
			Affirmative("Restore").
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

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	previous, restoreErr := m.Restore(snap.Path)
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	if restoreErr != nil {
		return restoreErr
	}

	if previous.Path != "" {
		fmt.Printf("Saved the previous database as %s\n", previous.Name)
	}
	fmt.Printf("✓ Restored from %s\n", snap.Name)
	return nil
}
