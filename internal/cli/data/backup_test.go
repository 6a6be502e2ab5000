package data

import (
	"testing"

	"github.com/julianstephens/habitlit/internal/backup"
)

func TestBackupCommands(t *testing.T) {
	ctx, cleanup := setupTestDataDB(t)
	defer cleanup()
	seed(t, ctx)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list with no backups failed: %v", err)
	}
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	snaps, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("List() = %d snapshots, %v; want 1", len(snaps), err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	if err := ctx.Store.ResetAll(); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupRestoreCmd{Name: snaps[0].Name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Name != "Run" {
		t.Errorf("habits after restore = %+v", habits)
	}
}

func TestBackupRestoreCmd_Unknown(t *testing.T) {
	ctx, cleanup := setupTestDataDB(t)
	defer cleanup()

	if err := (&BackupRestoreCmd{Name: "habitlit-19990101T000000.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restoring an unknown backup should fail")
	}
}
