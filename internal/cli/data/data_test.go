package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/config"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func setupTestDataDB(t *testing.T) (*cli.Context, func()) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	cfg := config.Default()
	cfg.Timezone = "UTC"
	ctx := &cli.Context{
		Store:  store,
		Config: cfg,
		Clock:  func() time.Time { return time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC) },
	}
	return ctx, func() { store.Close() }
}

func seed(t *testing.T, ctx *cli.Context) {
	t.Helper()
	h := models.Habit{
		ID:             "h1",
		Name:           "Run",
		CreatedAt:      time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		CompletedDates: []string{"2024-03-13", "2024-03-14"},
	}
	if err := ctx.Store.AddHabit(h); err != nil {
		t.Fatal(err)
	}
	m := models.MoodEntry{ID: "m1", Date: "2024-03-14", Time: "2024-03-14T10:00:00Z", Mood: models.MoodGood}
	if err := ctx.Store.AddMood(m); err != nil {
		t.Fatal(err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src, cleanupSrc := setupTestDataDB(t)
	defer cleanupSrc()
	seed(t, src)

	path := filepath.Join(t.TempDir(), "out", "archive.json")
	if err := (&ExportCmd{Output: path}).Run(src); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("archive not written: %v", err)
	}

	dst, cleanupDst := setupTestDataDB(t)
	defer cleanupDst()

	if err := (&ImportCmd{File: path, DryRun: true}).Run(dst); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if habits, _ := dst.Store.GetAllHabits(true, true); len(habits) != 0 {
		t.Fatal("dry run must not write")
	}

	if err := (&ImportCmd{File: path}).Run(dst); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	got, err := dst.Store.GetHabit("h1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.CompletedDates) != 2 {
		t.Errorf("completions = %v", got.CompletedDates)
	}
	if moods, _ := dst.Store.GetAllMoods(); len(moods) != 1 {
		t.Errorf("moods = %v", moods)
	}
}

func TestImportCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDataDB(t)
	defer cleanup()

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0600); err != nil {
		t.Fatal(err)
	}
	for _, dry := range []bool{true, false} {
		err := (&ImportCmd{File: path, DryRun: dry}).Run(ctx)
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("dry=%v error = %v, want ErrInvalidInput", dry, err)
		}
	}
}

func TestResetCmd(t *testing.T) {
	ctx, cleanup := setupTestDataDB(t)
	defer cleanup()
	seed(t, ctx)

	backup := filepath.Join(t.TempDir(), "before-reset.json")
	if err := (&ResetCmd{Yes: true, Backup: backup}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := os.Stat(backup); err != nil {
		t.Errorf("backup not written: %v", err)
	}
	snap, err := ctx.Store.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Habits) != 0 || len(snap.Moods) != 0 {
		t.Errorf("snapshot after reset = %+v", snap)
	}
}
