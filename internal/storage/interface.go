package storage

import "github.com/julianstephens/habitlit/internal/models"

// Provider is everything the commands, server and TUI need from persistence.
// The analytics engines never see it; they get a Snapshot.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Habit Entries
	// ToggleCompletion flips a day in or out of a habit's completion set and
	// reports whether the day is completed afterwards.
	ToggleCompletion(habitID, day string) (bool, error)
	// SetCompletions makes the habit's live entries exactly the given days.
	SetCompletions(habitID string, days []string) error
	AddHabitEntry(models.HabitEntry) error
	GetHabitEntry(habitID, day string) (models.HabitEntry, error)
	GetHabitEntriesForDay(day string) ([]models.HabitEntry, error)
	GetHabitEntriesForHabit(habitID string, startDay, endDay string) ([]models.HabitEntry, error)
	UpdateHabitEntry(models.HabitEntry) error

	// Moods
	AddMood(models.MoodEntry) error
	GetMood(id string) (models.MoodEntry, error)
	UpdateMood(models.MoodEntry) error
	DeleteMood(id string) error
	GetAllMoods() ([]models.MoodEntry, error)
	GetMoodsForDateRange(startDate, endDate string) ([]models.MoodEntry, error)

	// Chat
	AddChatMessage(models.ChatMessage) error
	// GetChatMessages returns the newest limit messages, oldest first.
	// A limit of zero or less returns every message.
	GetChatMessages(limit int) ([]models.ChatMessage, error)
	ClearChatMessages() error

	// Snapshot returns independent copies of every non-deleted habit
	// (archived included) and every mood entry.
	Snapshot() (models.Snapshot, error)
	// ResetAll permanently removes every habit, entry, mood and message.
	ResetAll() error

	// Utils
	GetConfigPath() string
}
