package models

import "time"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatMessage is one turn of a coaching conversation
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Snapshot is a read-only view of everything the analytics engines consume.
// Storage hands out fresh copies so callers can evaluate it without locking.
type Snapshot struct {
	Habits []Habit     `json:"habits"`
	Moods  []MoodEntry `json:"moodHistory"`
}

// ActiveHabits returns the habits that are neither archived nor deleted
func (s Snapshot) ActiveHabits() []Habit {
	var active []Habit
	for _, h := range s.Habits {
		if h.Active() {
			active = append(active, h)
		}
	}
	return active
}
