package sqlite

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitlit/internal/models"
)

// chatTimeFormat is fixed-width so created_at sorts correctly as text
const chatTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Store) AddChatMessage(msg models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}

	_, err := s.db.Exec(`
		INSERT INTO chat_messages (id, role, content, created_at)
		VALUES (?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, msg.Timestamp.UTC().Format(chatTimeFormat))
	return err
}

func (s *Store) GetChatMessages(limit int) ([]models.ChatMessage, error) {
	query := `SELECT id, role, content, created_at FROM chat_messages ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var m models.ChatMessage
		var role, createdAt string
		if err := rows.Scan(&m.ID, &role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.Role = models.MessageRole(role)
		if m.Timestamp, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at for message %s: %w", m.ID, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first from the query; callers want reading order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *Store) ClearChatMessages() error {
	_, err := s.db.Exec(`DELETE FROM chat_messages`)
	return err
}
