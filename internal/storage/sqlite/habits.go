package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

const habitColumns = `id, name, description, category, color, icon, target_days, created_at, archived_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var category, createdAt string
	var targetDays sql.NullInt64
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Description, &category, &h.Color, &h.Icon,
		&targetDays, &createdAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.HabitCategory(category)
	if targetDays.Valid {
		n := int(targetDays.Int64)
		h.TargetDays = &n
	}
	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	if h.ArchivedAt, err = parseNullTime(archivedAt, "archived_at", h.ID); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = parseNullTime(deletedAt, "deleted_at", h.ID); err != nil {
		return models.Habit{}, err
	}
	h.CompletedDates = []string{}
	return h, nil
}

// completedDays returns the live entry days for one habit, ascending.
func (s *Store) completedDays(habitID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT day FROM habit_entries
		WHERE habit_id = ? AND deleted_at IS NULL
		ORDER BY day`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []string{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (s *Store) getHabitWhere(clause string, arg any) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE `+clause+` AND deleted_at IS NULL`, arg)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("habit %q: %w", arg, apperrors.ErrNotFound)
		}
		return models.Habit{}, err
	}

	if h.CompletedDates, err = s.completedDays(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to load completions for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = s.now()
	}

	var existing int
	err := s.db.QueryRow(`SELECT count(*) FROM habits WHERE lower(name) = lower(?) AND deleted_at IS NULL AND id != ?`,
		strings.TrimSpace(habit.Name), habit.ID).Scan(&existing)
	if err != nil {
		return err
	}
	if existing > 0 {
		return fmt.Errorf("habit %q: %w", habit.Name, apperrors.ErrAlreadyExists)
	}

	if err := s.UpdateHabit(habit); err != nil {
		return err
	}
	if len(habit.CompletedDates) > 0 {
		return s.SetCompletions(habit.ID, habit.CompletedDates)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = ?", id)
}

// GetHabitByName matches names case-insensitively.
func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabitWhere("lower(name) = lower(?)", strings.TrimSpace(name))
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	// A database created before the habits migration has nothing to list
	exists, err := s.tableExists("habits")
	if err != nil || !exists {
		return []models.Habit{}, nil
	}

	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, rowid"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}

	habits := []models.Habit{}
	index := make(map[string]int)
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Attach completion sets in one pass
	entryRows, err := s.db.Query(`
		SELECT habit_id, day FROM habit_entries
		WHERE deleted_at IS NULL
		ORDER BY habit_id, day`)
	if err != nil {
		return nil, err
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var habitID, day string
		if err := entryRows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		if i, ok := index[habitID]; ok {
			habits[i].CompletedDates = append(habits[i].CompletedDates, day)
		}
	}

	return habits, entryRows.Err()
}

// UpdateHabit upserts the habit's fields. Completion dates are stored as
// entries and are not touched here.
func (s *Store) UpdateHabit(habit models.Habit) error {
	var targetDays sql.NullInt64
	if habit.TargetDays != nil {
		targetDays = sql.NullInt64{Int64: int64(*habit.TargetDays), Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			category = excluded.category,
			color = excluded.color,
			icon = excluded.icon,
			target_days = excluded.target_days,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, strings.TrimSpace(habit.Name), habit.Description, string(habit.Category), habit.Color, habit.Icon,
		targetDays, habit.CreatedAt.Format(time.RFC3339), nullTime(habit.ArchivedAt), nullTime(habit.DeletedAt))

	return err
}

func (s *Store) ArchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
		s.timestamp(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or already archived/deleted")
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or not archived")
}

func (s *Store) DeleteHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		s.timestamp(), id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or already deleted")
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`,
		id)
	if err != nil {
		return err
	}
	return requireRow(result, "habit not found or not deleted")
}
