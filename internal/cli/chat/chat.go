package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/constants"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/utils"
)

var (
	userStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	coachStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	noteStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240"))
)

type ChatCmd struct {
	Send    SendCmd    `cmd:"" help:"Ask the coach something." default:"withargs"`
	History HistoryCmd `cmd:"" help:"Show the conversation so far."`
	Clear   ClearCmd   `cmd:"" help:"Forget the conversation."`
}

type SendCmd struct {
	Message []string `arg:"" help:"Your message."`
}

func (c *SendCmd) Run(ctx *cli.Context) error {
	message := strings.TrimSpace(strings.Join(c.Message, " "))
	if message == "" {
		return apperrors.Invalid("message cannot be empty")
	}

	snap, err := ctx.Store.Snapshot()
	if err != nil {
		return err
	}

	coach := ctx.CoachOrOffline()
	reply := coach.Reply(context.Background(), message, snap, ctx.Today())

	fmt.Println(coachStyle.Render("coach:") + " " + reply.Message)
	if reply.Fallback {
		fmt.Println(noteStyle.Render("(offline reply; set an API key with 'habitlit config set-api-key' for personalized coaching)"))
	}
	return nil
}

type HistoryCmd struct {
	Limit int  `help:"Number of messages to show." default:"0"`
	All   bool `help:"Show every message."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Limit < 0 {
		return apperrors.Invalid("limit cannot be negative")
	}
	limit := c.Limit
	switch {
	case c.All:
		limit = 0
	case limit == 0:
		limit = constants.DefaultChatHistoryView
	}
	msgs, err := ctx.Store.GetChatMessages(limit)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}

	now := ctx.Now()
	for _, m := range msgs {
		fmt.Println(renderMessage(m, now))
	}
	return nil
}

func renderMessage(m models.ChatMessage, now time.Time) string {
	label := userStyle.Render("you:")
	if m.Role == models.RoleAssistant {
		label = coachStyle.Render("coach:")
	}
	when := utils.RelativeTime(m.Timestamp.Format(time.RFC3339), now)
	return fmt.Sprintf("%s %s %s", noteStyle.Render(fmt.Sprintf("%-9s", when)), label, m.Content)
}

type ClearCmd struct {
	Yes bool `help:"Do not ask for confirmation." short:"y"`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		confirmed := false
		err := huh.NewConfirm().
			Title("Delete the whole conversation?").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Store.ClearChatMessages(); err != nil {
		return err
	}
	fmt.Println("Conversation cleared.")
	return nil
}

