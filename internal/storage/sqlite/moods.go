package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

const moodColumns = `id, date, time, mood, note, activities`

func scanMood(row rowScanner) (models.MoodEntry, error) {
	var m models.MoodEntry
	var mood, activities string

	if err := row.Scan(&m.ID, &m.Date, &m.Time, &mood, &m.Note, &activities); err != nil {
		return models.MoodEntry{}, err
	}
	m.Mood = models.MoodType(mood)

	if activities != "" {
		if err := json.Unmarshal([]byte(activities), &m.Activities); err != nil {
			return models.MoodEntry{}, fmt.Errorf("failed to parse activities for mood %s: %w", m.ID, err)
		}
	}
	if len(m.Activities) == 0 {
		m.Activities = nil
	}
	return m, nil
}

func (s *Store) queryMoods(query string, args ...any) ([]models.MoodEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	moods := []models.MoodEntry{}
	for rows.Next() {
		m, err := scanMood(rows)
		if err != nil {
			return nil, err
		}
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

func (s *Store) AddMood(entry models.MoodEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	return s.UpdateMood(entry)
}

func (s *Store) GetMood(id string) (models.MoodEntry, error) {
	row := s.db.QueryRow(`SELECT `+moodColumns+` FROM mood_entries WHERE id = ?`, id)
	m, err := scanMood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.MoodEntry{}, fmt.Errorf("mood %q: %w", id, apperrors.ErrNotFound)
		}
		return models.MoodEntry{}, err
	}
	return m, nil
}

func (s *Store) UpdateMood(entry models.MoodEntry) error {
	activities := entry.Activities
	if activities == nil {
		activities = []string{}
	}
	encoded, err := json.Marshal(activities)
	if err != nil {
		return fmt.Errorf("failed to encode activities: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO mood_entries (`+moodColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			time = excluded.time,
			mood = excluded.mood,
			note = excluded.note,
			activities = excluded.activities`,
		entry.ID, entry.Date, entry.Time, string(entry.Mood), entry.Note, string(encoded))

	return err
}

// DeleteMood removes the entry permanently. Mood history has no archive.
func (s *Store) DeleteMood(id string) error {
	result, err := s.db.Exec(`DELETE FROM mood_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(result, "mood not found")
}

func (s *Store) GetAllMoods() ([]models.MoodEntry, error) {
	exists, err := s.tableExists("mood_entries")
	if err != nil || !exists {
		return []models.MoodEntry{}, nil
	}
	return s.queryMoods(`SELECT ` + moodColumns + ` FROM mood_entries ORDER BY date, time, rowid`)
}

func (s *Store) GetMoodsForDateRange(startDate, endDate string) ([]models.MoodEntry, error) {
	return s.queryMoods(`
		SELECT `+moodColumns+`
		FROM mood_entries WHERE date >= ? AND date <= ?
		ORDER BY date, time, rowid`, startDate, endDate)
}
