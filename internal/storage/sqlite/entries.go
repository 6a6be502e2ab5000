package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

const entryColumns = `id, habit_id, day, note, created_at, updated_at, deleted_at`

func scanEntry(row rowScanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var createdAt, updatedAt string
	var deletedAt sql.NullString

	if err := row.Scan(&e.ID, &e.HabitID, &e.Day, &e.Note, &createdAt, &updatedAt, &deletedAt); err != nil {
		return models.HabitEntry{}, err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to parse created_at for entry %s: %w", e.ID, err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return models.HabitEntry{}, fmt.Errorf("failed to parse updated_at for entry %s: %w", e.ID, err)
	}
	if e.DeletedAt, err = parseNullTime(deletedAt, "deleted_at", e.ID); err != nil {
		return models.HabitEntry{}, err
	}
	return e, nil
}

func (s *Store) queryEntries(query string, args ...any) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HabitEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// getEntryAnyState returns the entry for (habit, day) whether or not it is
// soft-deleted.
func (s *Store) getEntryAnyState(habitID, day string) (models.HabitEntry, bool, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM habit_entries WHERE habit_id = ? AND day = ?`, habitID, day)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HabitEntry{}, false, nil
		}
		return models.HabitEntry{}, false, err
	}
	return e, true, nil
}

func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := s.now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}
	return s.UpdateHabitEntry(entry)
}

func (s *Store) GetHabitEntry(habitID, day string) (models.HabitEntry, error) {
	row := s.db.QueryRow(`
		SELECT `+entryColumns+`
		FROM habit_entries WHERE habit_id = ? AND day = ? AND deleted_at IS NULL`,
		habitID, day)

	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.HabitEntry{}, fmt.Errorf("entry for habit %s on %s: %w", habitID, day, apperrors.ErrNotFound)
		}
		return models.HabitEntry{}, err
	}
	return e, nil
}

func (s *Store) GetHabitEntriesForDay(day string) ([]models.HabitEntry, error) {
	return s.queryEntries(`
		SELECT `+entryColumns+`
		FROM habit_entries WHERE day = ? AND deleted_at IS NULL
		ORDER BY created_at`, day)
}

func (s *Store) GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error) {
	return s.queryEntries(`
		SELECT `+entryColumns+`
		FROM habit_entries
		WHERE habit_id = ? AND day >= ? AND day <= ? AND deleted_at IS NULL
		ORDER BY day DESC`, habitID, startDay, endDay)
}

func (s *Store) UpdateHabitEntry(entry models.HabitEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		entry.ID, entry.HabitID, entry.Day, entry.Note,
		entry.CreatedAt.Format(time.RFC3339), entry.UpdatedAt.Format(time.RFC3339), nullTime(entry.DeletedAt))

	return err
}

func (s *Store) ToggleCompletion(habitID, day string) (bool, error) {
	if _, err := s.GetHabit(habitID); err != nil {
		return false, err
	}

	entry, found, err := s.getEntryAnyState(habitID, day)
	if err != nil {
		return false, err
	}

	now := s.now()
	if !found {
		err := s.AddHabitEntry(models.HabitEntry{HabitID: habitID, Day: day, CreatedAt: now, UpdatedAt: now})
		return err == nil, err
	}

	entry.UpdatedAt = now
	completed := entry.DeletedAt != nil
	if completed {
		entry.DeletedAt = nil
	} else {
		entry.DeletedAt = &now
	}
	if err := s.UpdateHabitEntry(entry); err != nil {
		return false, err
	}
	return completed, nil
}

func (s *Store) SetCompletions(habitID string, days []string) error {
	want := make(map[string]struct{}, len(days))
	for _, d := range days {
		want[d] = struct{}{}
	}

	current, err := s.completedDays(habitID)
	if err != nil {
		return err
	}
	have := make(map[string]struct{}, len(current))
	for _, d := range current {
		have[d] = struct{}{}
	}

	for _, d := range current {
		if _, ok := want[d]; !ok {
			if _, err := s.ToggleCompletion(habitID, d); err != nil {
				return fmt.Errorf("failed to clear %s: %w", d, err)
			}
		}
	}
	for d := range want {
		if _, ok := have[d]; !ok {
			if _, err := s.ToggleCompletion(habitID, d); err != nil {
				return fmt.Errorf("failed to mark %s: %w", d, err)
			}
		}
	}
	return nil
}
