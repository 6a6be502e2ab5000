package chat

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitlit/internal/cli"
	"github.com/julianstephens/habitlit/internal/coach"
	"github.com/julianstephens/habitlit/internal/config"
	apperrors "github.com/julianstephens/habitlit/internal/errors"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/storage/sqlite"
)

func setupTestChatDB(t *testing.T) (*cli.Context, func()) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	cfg := config.Default()
	cfg.Timezone = "UTC"
	ctx := &cli.Context{
		Store:  store,
		Config: cfg,
		Clock:  func() time.Time { return time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC) },
	}
	return ctx, func() { store.Close() }
}

func TestSendCmd_Offline(t *testing.T) {
	ctx, cleanup := setupTestChatDB(t)
	defer cleanup()

	if err := (&SendCmd{Message: []string{"any", "tips?"}}).Run(ctx); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	msgs, err := ctx.Store.GetChatMessages(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want user + assistant", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "any tips?" {
		t.Errorf("user message = %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != coach.FallbackResponse("any tips?") {
		t.Errorf("assistant message = %+v", msgs[1])
	}
}

func TestSendCmd_Empty(t *testing.T) {
	ctx, cleanup := setupTestChatDB(t)
	defer cleanup()

	err := (&SendCmd{Message: []string{"  "}}).Run(ctx)
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("empty message error = %v, want ErrInvalidInput", err)
	}
}

func TestHistoryAndClear(t *testing.T) {
	ctx, cleanup := setupTestChatDB(t)
	defer cleanup()

	if err := (&HistoryCmd{}).Run(ctx); err != nil {
		t.Errorf("history on empty store: %v", err)
	}
	for _, m := range []string{"hello", "thanks"} {
		if err := (&SendCmd{Message: []string{m}}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	for _, cmd := range []HistoryCmd{{}, {Limit: 1}, {All: true}} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("history %+v: %v", cmd, err)
		}
	}
	if err := (&HistoryCmd{Limit: -1}).Run(ctx); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("negative limit error = %v", err)
	}

	if err := (&ClearCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	msgs, err := ctx.Store.GetChatMessages(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 0 {
		t.Errorf("%d messages left after clear", len(msgs))
	}
}

func TestRenderMessage(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		msg  models.ChatMessage
		want []string
	}{
		{models.ChatMessage{Role: models.RoleUser, Content: "hi", Timestamp: now.Add(-5 * time.Minute)}, []string{"5m ago", "you:", "hi"}},
		{models.ChatMessage{Role: models.RoleAssistant, Content: "hello", Timestamp: now.Add(-3 * time.Hour)}, []string{"3h ago", "coach:", "hello"}},
	}
	for _, tt := range tests {
		got := renderMessage(tt.msg, now)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("renderMessage() = %q, missing %q", got, w)
			}
		}
	}
}
