package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/mood"
	"github.com/julianstephens/habitlit/internal/streak"
)

const systemPrompt = `You are a helpful habit tracking coach. Give personalized advice based on the user's habit and mood data. Be encouraging, practical and concise. Keep replies under 300 words.`

// History persists the conversation. storage.Provider satisfies it.
type History interface {
	AddChatMessage(models.ChatMessage) error
	GetChatMessages(limit int) ([]models.ChatMessage, error)
}

// Reply is the coach's answer. Fallback is set when the answer came from the
// keyword table rather than a model.
type Reply struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback,omitempty"`
}

type Coach struct {
	provider Provider
	history  History
	now      func() time.Time
}

// New creates a coach. With a nil history nothing is remembered between replies.
func New(provider Provider, history History) *Coach {
	if provider == nil {
		provider = OfflineProvider{}
	}
	return &Coach{provider: provider, history: history, now: time.Now}
}

// ProviderID names the provider answering requests
func (c *Coach) ProviderID() string {
	return c.provider.ID()
}

// Reply answers message using the habit and mood data in snap. It always
// returns non-empty text; provider failures degrade to FallbackResponse.
func (c *Coach) Reply(ctx context.Context, message string, snap models.Snapshot, today string) Reply {
	message = strings.TrimSpace(message)

	var recent []models.ChatMessage
	if c.history != nil {
		msgs, err := c.history.GetChatMessages(constants.ChatHistoryContextSize)
		if err != nil {
			logger.Warn("Failed to load chat history", "error", err)
		} else {
			recent = msgs
		}
		c.save(models.RoleUser, message)
	}

	req := Request{
		System: systemPrompt,
		Prompt: BuildPrompt(message, snap, today, recent),
	}

	reply := Reply{}
	resp, err := c.provider.Complete(ctx, req)
	switch {
	case err != nil:
		if errors.Is(err, ErrQuotaExceeded) {
			logger.Warn("Coach quota exceeded, using fallback", "provider", c.provider.ID())
		} else if !errors.Is(err, ErrOffline) {
			logger.Error("Coach request failed", "provider", c.provider.ID(), "error", err)
		}
		reply = Reply{Message: FallbackResponse(message), Fallback: true}
	case resp == nil || strings.TrimSpace(resp.Text) == "":
		reply = Reply{Message: FallbackResponse(message), Fallback: true}
	default:
		reply = Reply{Message: strings.TrimSpace(resp.Text)}
	}

	if c.history != nil {
		c.save(models.RoleAssistant, reply.Message)
	}
	return reply
}

func (c *Coach) save(role models.MessageRole, content string) {
	err := c.history.AddChatMessage(models.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	})
	if err != nil {
		logger.Warn("Failed to save chat message", "role", role, "error", err)
	}
}

// BuildPrompt renders the user's message with a compact summary of their
// habits, recent mood and the conversation so far.
func BuildPrompt(message string, snap models.Snapshot, today string, recent []models.ChatMessage) string {
	var b strings.Builder

	active := snap.ActiveHabits()
	b.WriteString("Today: " + today + "\n")
	if len(active) == 0 {
		b.WriteString("Habits: none tracked yet\n")
	} else {
		done := 0
		b.WriteString("Habits:\n")
		for _, h := range active {
			s := streak.ForHabit(h, today)
			status := "not done today"
			if h.CompletedOn(today) {
				status = "done today"
				done++
			}
			fmt.Fprintf(&b, "- %s: current streak %d, longest %d, consistency %d%%, %s\n",
				h.Name, s.CurrentStreak, s.LongestStreak, s.ConsistencyScore, status)
		}
		fmt.Fprintf(&b, "Completed today: %d of %d\n", done, len(active))
	}

	summary := mood.Summarize(snap.Moods, constants.DefaultTrendWindowDays, today)
	if summary.Entries == 0 {
		b.WriteString("Mood: no recent entries\n")
	} else {
		fmt.Fprintf(&b, "Mood (last %d days): average %.1f/5 over %d entries, trend %s\n",
			constants.DefaultTrendWindowDays, summary.Average, summary.Entries, summary.Trend)
	}

	if len(recent) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, m := range recent {
			fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
		}
	}

	b.WriteString("\nUser message: " + message + "\n")
	return b.String()
}
