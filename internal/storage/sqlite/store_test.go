package sqlite

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return store, func() { store.Close() }
}

func addTestHabit(t *testing.T, store *Store, name string) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  models.CategoryHealth,
		CreatedAt: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
	return habit
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestInitThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	store.Close()

	reopened := NewStore(path)
	defer reopened.Close()
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	st, err := reopened.MigrationStatus()
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if !st.UpToDate() {
		t.Errorf("MigrationStatus() = %+v, want up to date", st)
	}
}

func TestHabitCRUD(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	target := 21
	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        "Morning meditation",
		Description: "Ten minutes",
		Category:    models.CategoryMindfulness,
		Color:       "#3b82f6",
		TargetDays:  &target,
		CreatedAt:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	retrieved, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if retrieved.Name != habit.Name || retrieved.Category != habit.Category {
		t.Errorf("GetHabit() = %+v", retrieved)
	}
	if retrieved.TargetDays == nil || *retrieved.TargetDays != 21 {
		t.Errorf("TargetDays = %v, want 21", retrieved.TargetDays)
	}
	if !retrieved.CreatedAt.Equal(habit.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", retrieved.CreatedAt, habit.CreatedAt)
	}
	if retrieved.CompletedDates == nil || len(retrieved.CompletedDates) != 0 {
		t.Errorf("CompletedDates = %v, want empty", retrieved.CompletedDates)
	}

	byName, err := store.GetHabitByName("MORNING meditation")
	if err != nil {
		t.Fatalf("failed to get habit by name: %v", err)
	}
	if byName.ID != habit.ID {
		t.Errorf("expected ID %q, got %q", habit.ID, byName.ID)
	}

	habit.Name = "Evening meditation"
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}
	updated, _ := store.GetHabit(habit.ID)
	if updated.Name != "Evening meditation" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}

	if _, err := store.GetHabit("nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit(missing) error = %v, want ErrNotFound", err)
	}
}

func TestAddHabitDuplicateName(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	addTestHabit(t, store, "Read")
	err := store.AddHabit(models.Habit{Name: "read", CreatedAt: time.Now()})
	if !errors.Is(err, apperrors.ErrAlreadyExists) {
		t.Errorf("AddHabit(duplicate) error = %v, want ErrAlreadyExists", err)
	}
}

func TestAddHabitWithCompletions(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	habit := models.Habit{
		Name:           "Imported",
		CreatedAt:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CompletedDates: []string{"2024-03-03", "2024-03-01", "2024-03-03"},
	}
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit failed: %v", err)
	}

	got, err := store.GetHabitByName("Imported")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2024-03-01", "2024-03-03"}
	if !reflect.DeepEqual(got.CompletedDates, want) {
		t.Errorf("CompletedDates = %v, want %v", got.CompletedDates, want)
	}
}

func TestHabitArchiveAndDelete(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	habit := addTestHabit(t, store, "Test habit")

	if err := store.ArchiveHabit(habit.ID); err != nil {
		t.Fatalf("failed to archive habit: %v", err)
	}
	if err := store.ArchiveHabit(habit.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second ArchiveHabit() error = %v, want ErrNotFound", err)
	}

	active, _ := store.GetAllHabits(false, false)
	if len(active) != 0 {
		t.Errorf("archived habit should not appear in default list, got %d", len(active))
	}
	all, _ := store.GetAllHabits(true, false)
	if len(all) != 1 || all[0].ArchivedAt == nil {
		t.Errorf("GetAllHabits(true, false) = %+v, want the archived habit", all)
	}

	if err := store.UnarchiveHabit(habit.ID); err != nil {
		t.Fatalf("failed to unarchive habit: %v", err)
	}
	if err := store.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}
	if _, err := store.GetHabit(habit.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit(deleted) error = %v, want ErrNotFound", err)
	}
	withDeleted, _ := store.GetAllHabits(true, true)
	if len(withDeleted) != 1 {
		t.Errorf("GetAllHabits(true, true) returned %d habits, want 1", len(withDeleted))
	}

	if err := store.RestoreHabit(habit.ID); err != nil {
		t.Fatalf("failed to restore habit: %v", err)
	}
	if _, err := store.GetHabit(habit.ID); err != nil {
		t.Errorf("GetHabit(restored) error = %v", err)
	}
}

func TestToggleCompletion(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	habit := addTestHabit(t, store, "Walk")

	tests := []struct {
		name string
		day  string
		want bool
	}{
		{"first toggle marks", "2024-03-15", true},
		{"second toggle clears", "2024-03-15", false},
		{"third toggle restores", "2024-03-15", true},
		{"other day", "2024-03-14", true},
	}
	for _, tt := range tests {
		got, err := store.ToggleCompletion(habit.ID, tt.day)
		if err != nil {
			t.Fatalf("%s: ToggleCompletion() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: ToggleCompletion() = %v, want %v", tt.name, got, tt.want)
		}
	}

	h, _ := store.GetHabit(habit.ID)
	want := []string{"2024-03-14", "2024-03-15"}
	if !reflect.DeepEqual(h.CompletedDates, want) {
		t.Errorf("CompletedDates = %v, want %v", h.CompletedDates, want)
	}

	if _, err := store.ToggleCompletion("missing", "2024-03-15"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ToggleCompletion(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSetCompletions(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	habit := addTestHabit(t, store, "Stretch")
	for _, d := range []string{"2024-03-01", "2024-03-02"} {
		if _, err := store.ToggleCompletion(habit.ID, d); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.SetCompletions(habit.ID, []string{"2024-03-02", "2024-03-05"}); err != nil {
		t.Fatalf("SetCompletions failed: %v", err)
	}

	h, _ := store.GetHabit(habit.ID)
	want := []string{"2024-03-02", "2024-03-05"}
	if !reflect.DeepEqual(h.CompletedDates, want) {
		t.Errorf("CompletedDates = %v, want %v", h.CompletedDates, want)
	}
}

func TestHabitEntries(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	habit := addTestHabit(t, store, "Journal")
	if err := store.AddHabitEntry(models.HabitEntry{HabitID: habit.ID, Day: "2024-03-10", Note: "short"}); err != nil {
		t.Fatalf("AddHabitEntry failed: %v", err)
	}
	if err := store.AddHabitEntry(models.HabitEntry{HabitID: habit.ID, Day: "2024-03-12"}); err != nil {
		t.Fatalf("AddHabitEntry failed: %v", err)
	}

	entry, err := store.GetHabitEntry(habit.ID, "2024-03-10")
	if err != nil {
		t.Fatalf("GetHabitEntry failed: %v", err)
	}
	if entry.Note != "short" {
		t.Errorf("Note = %q, want %q", entry.Note, "short")
	}

	entry.Note = "longer"
	entry.UpdatedAt = time.Now()
	if err := store.UpdateHabitEntry(entry); err != nil {
		t.Fatalf("UpdateHabitEntry failed: %v", err)
	}
	entry, _ = store.GetHabitEntry(habit.ID, "2024-03-10")
	if entry.Note != "longer" {
		t.Errorf("Note after update = %q, want %q", entry.Note, "longer")
	}

	forDay, _ := store.GetHabitEntriesForDay("2024-03-12")
	if len(forDay) != 1 {
		t.Errorf("GetHabitEntriesForDay() returned %d entries, want 1", len(forDay))
	}

	ranged, _ := store.GetHabitEntriesForHabit(habit.ID, "2024-03-01", "2024-03-31")
	if len(ranged) != 2 || ranged[0].Day != "2024-03-12" {
		t.Errorf("GetHabitEntriesForHabit() = %+v, want 2 entries newest first", ranged)
	}

	if _, err := store.GetHabitEntry(habit.ID, "2024-01-01"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabitEntry(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMoodCRUD(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	entries := []models.MoodEntry{
		{Date: "2024-03-15", Time: "2024-03-15T20:00:00Z", Mood: models.MoodGood, Activities: []string{"walk", "read"}},
		{Date: "2024-03-14", Time: "2024-03-14T08:00:00Z", Mood: models.MoodBad, Note: "tired"},
		{Date: "2024-03-15", Time: "2024-03-15T07:00:00Z", Mood: models.MoodNeutral},
	}
	for _, e := range entries {
		if err := store.AddMood(e); err != nil {
			t.Fatalf("AddMood failed: %v", err)
		}
	}

	all, err := store.GetAllMoods()
	if err != nil {
		t.Fatalf("GetAllMoods failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAllMoods() returned %d entries, want 3", len(all))
	}
	gotOrder := []models.MoodType{all[0].Mood, all[1].Mood, all[2].Mood}
	wantOrder := []models.MoodType{models.MoodBad, models.MoodNeutral, models.MoodGood}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("mood order = %v, want %v", gotOrder, wantOrder)
	}
	if !reflect.DeepEqual(all[2].Activities, []string{"walk", "read"}) {
		t.Errorf("Activities = %v", all[2].Activities)
	}
	if all[1].Activities != nil {
		t.Errorf("Activities for entry without any = %v, want nil", all[1].Activities)
	}

	ranged, _ := store.GetMoodsForDateRange("2024-03-15", "2024-03-15")
	if len(ranged) != 2 {
		t.Errorf("GetMoodsForDateRange() returned %d entries, want 2", len(ranged))
	}

	m := all[0]
	m.Mood = models.MoodExcellent
	if err := store.UpdateMood(m); err != nil {
		t.Fatalf("UpdateMood failed: %v", err)
	}
	got, err := store.GetMood(m.ID)
	if err != nil || got.Mood != models.MoodExcellent {
		t.Errorf("GetMood() = %+v, %v", got, err)
	}

	if err := store.DeleteMood(m.ID); err != nil {
		t.Fatalf("DeleteMood failed: %v", err)
	}
	if err := store.DeleteMood(m.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second DeleteMood() error = %v, want ErrNotFound", err)
	}
}

func TestChatMessages(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"one", "two", "three", "four"} {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		msg := models.ChatMessage{Role: role, Content: content, Timestamp: base.Add(time.Duration(i) * time.Second)}
		if err := store.AddChatMessage(msg); err != nil {
			t.Fatalf("AddChatMessage failed: %v", err)
		}
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"one", "two", "three", "four"}},
		{2, []string{"three", "four"}},
		{10, []string{"one", "two", "three", "four"}},
	}
	for _, tt := range tests {
		msgs, err := store.GetChatMessages(tt.limit)
		if err != nil {
			t.Fatalf("GetChatMessages(%d) error = %v", tt.limit, err)
		}
		var got []string
		for _, m := range msgs {
			got = append(got, m.Content)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("GetChatMessages(%d) = %v, want %v", tt.limit, got, tt.want)
		}
	}

	if err := store.ClearChatMessages(); err != nil {
		t.Fatalf("ClearChatMessages failed: %v", err)
	}
	msgs, _ := store.GetChatMessages(0)
	if len(msgs) != 0 {
		t.Errorf("expected no messages after clear, got %d", len(msgs))
	}
}

func TestSnapshotAndReset(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	kept := addTestHabit(t, store, "Kept")
	archived := addTestHabit(t, store, "Archived")
	deleted := addTestHabit(t, store, "Deleted")
	_ = store.ArchiveHabit(archived.ID)
	_ = store.DeleteHabit(deleted.ID)
	_, _ = store.ToggleCompletion(kept.ID, "2024-03-15")
	_ = store.AddMood(models.MoodEntry{Date: "2024-03-15", Time: "2024-03-15T10:00:00Z", Mood: models.MoodGood})

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Habits) != 2 {
		t.Errorf("Snapshot() habits = %d, want 2 (deleted excluded)", len(snap.Habits))
	}
	if len(snap.ActiveHabits()) != 1 {
		t.Errorf("ActiveHabits() = %d, want 1", len(snap.ActiveHabits()))
	}
	if len(snap.Moods) != 1 {
		t.Errorf("Snapshot() moods = %d, want 1", len(snap.Moods))
	}

	if err := store.ResetAll(); err != nil {
		t.Fatalf("ResetAll failed: %v", err)
	}
	snap, _ = store.Snapshot()
	if len(snap.Habits) != 0 || len(snap.Moods) != 0 {
		t.Errorf("Snapshot() after reset = %+v, want empty", snap)
	}
}
