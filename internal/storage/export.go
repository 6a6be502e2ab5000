package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
)

// ArchiveVersion is the export layout written by this release
const ArchiveVersion = 1

// ExportHabit carries the legacy "active" flag alongside the stored fields
type ExportHabit struct {
	models.Habit
	Active bool `json:"active"`
}

// Archive is a full export of habits, mood history and chat messages
type Archive struct {
	Version     int                  `json:"version"`
	ExportedAt  time.Time            `json:"exportedAt"`
	Habits      []ExportHabit        `json:"habits"`
	MoodHistory []models.MoodEntry   `json:"moodHistory"`
	Messages    []models.ChatMessage `json:"messages"`
}

// ImportResult counts what an import wrote
type ImportResult struct {
	Habits   int
	Moods    int
	Messages int
}

const archiveSchemaJSON = `{
  "type": "object",
  "required": ["version", "habits", "moodHistory"],
  "properties": {
    "version": { "type": "integer", "minimum": 1, "maximum": 1 },
    "exportedAt": { "type": "string" },
    "habits": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "createdAt", "completedDates"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "name": { "type": "string", "minLength": 1 },
          "createdAt": { "type": "string", "format": "date-time" },
          "category": { "enum": ["", "health", "productivity", "mindfulness", "social", "other"] },
          "targetDays": { "type": "integer", "minimum": 1 },
          "completedDates": {
            "type": "array",
            "items": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" }
          },
          "active": { "type": "boolean" }
        }
      }
    },
    "moodHistory": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "date", "time", "mood"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "date": { "type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$" },
          "time": { "type": "string", "format": "date-time" },
          "mood": { "enum": ["terrible", "bad", "neutral", "good", "excellent"] },
          "activities": { "type": "array", "items": { "type": "string" } }
        }
      }
    },
    "messages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": { "enum": ["user", "assistant", "system"] },
          "content": { "type": "string" },
          "timestamp": { "type": "string", "format": "date-time" }
        }
      }
    }
  }
}`

var archiveSchemaLoader = gojsonschema.NewStringLoader(archiveSchemaJSON)

// Export collects every non-deleted habit, every mood entry and the chat
// history into an Archive stamped with now.
func Export(p Provider, now time.Time) (Archive, error) {
	habits, err := p.GetAllHabits(true, false)
	if err != nil {
		return Archive{}, fmt.Errorf("failed to load habits: %w", err)
	}
	moods, err := p.GetAllMoods()
	if err != nil {
		return Archive{}, fmt.Errorf("failed to load moods: %w", err)
	}
	messages, err := p.GetChatMessages(0)
	if err != nil {
		return Archive{}, fmt.Errorf("failed to load chat messages: %w", err)
	}

	archive := Archive{
		Version:     ArchiveVersion,
		ExportedAt:  now.UTC(),
		Habits:      make([]ExportHabit, 0, len(habits)),
		MoodHistory: moods,
		Messages:    messages,
	}
	for _, h := range habits {
		archive.Habits = append(archive.Habits, ExportHabit{Habit: h, Active: h.Active()})
	}
	if archive.MoodHistory == nil {
		archive.MoodHistory = []models.MoodEntry{}
	}
	if archive.Messages == nil {
		archive.Messages = []models.ChatMessage{}
	}
	return archive, nil
}

// ValidateArchive checks data against the archive schema without writing
// anything.
func ValidateArchive(data []byte) error {
	result, err := gojsonschema.Validate(archiveSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("archive is not valid JSON: %v: %w", err, apperrors.ErrInvalidInput)
	}
	if !result.Valid() {
		var issues []string
		for _, desc := range result.Errors() {
			issues = append(issues, desc.String())
		}
		return fmt.Errorf("archive failed validation: %s: %w", strings.Join(issues, "; "), apperrors.ErrInvalidInput)
	}
	return nil
}

// Import merges an archive into p. Records are upserted by ID; data that is
// not in the archive is left alone. Nothing is written when the archive is
// invalid or a habit name collides with a different existing habit.
func Import(p Provider, data []byte) (ImportResult, error) {
	if err := ValidateArchive(data); err != nil {
		return ImportResult{}, err
	}

	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode archive: %w", err)
	}

	for _, h := range archive.Habits {
		existing, err := p.GetHabitByName(h.Name)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return ImportResult{}, err
		}
		if existing.ID != h.ID {
			return ImportResult{}, fmt.Errorf("habit %q already exists with a different id: %w", h.Name, apperrors.ErrAlreadyExists)
		}
	}

	var result ImportResult
	for _, eh := range archive.Habits {
		h := eh.Habit
		h.DeletedAt = nil
		if !eh.Active && h.ArchivedAt == nil {
			archivedAt := archive.ExportedAt
			if archivedAt.IsZero() {
				archivedAt = h.CreatedAt
			}
			h.ArchivedAt = &archivedAt
		}
		if err := p.UpdateHabit(h); err != nil {
			return result, fmt.Errorf("failed to import habit %q: %w", h.Name, err)
		}
		if err := p.SetCompletions(h.ID, h.CompletedDates); err != nil {
			return result, fmt.Errorf("failed to import completions for %q: %w", h.Name, err)
		}
		result.Habits++
	}

	for _, m := range archive.MoodHistory {
		if err := p.UpdateMood(m); err != nil {
			return result, fmt.Errorf("failed to import mood %s: %w", m.ID, err)
		}
		result.Moods++
	}

	existing, err := p.GetChatMessages(0)
	if err != nil {
		return result, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		seen[m.ID] = struct{}{}
	}
	for _, m := range archive.Messages {
		if _, ok := seen[m.ID]; ok && m.ID != "" {
			continue
		}
		if err := p.AddChatMessage(m); err != nil {
			return result, fmt.Errorf("failed to import message: %w", err)
		}
		result.Messages++
	}

	return result, nil
}
