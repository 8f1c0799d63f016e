package chatcontext

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
	"github.com/Farhat-Naz/phase2-todo/internal/store"
)

func newTestBuilder(t *testing.T) (*Builder, store.Store) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewBuilder(st), st
}

func seedSession(t *testing.T, st store.Store, sessionID, userID string) {
	t.Helper()
	now := time.Now().UTC()
	session := &domain.Session{
		SessionID:      sessionID,
		UserID:         userID,
		Title:          DefaultTitle,
		Language:       DefaultLanguage,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := st.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
}

func TestBuildChatContextChronological(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	base := time.Now().UTC()
	contents := []string{"first", "second", "third"}
	for i, content := range contents {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msg := &domain.Message{
			MessageID: content,
			SessionID: "s1",
			Role:      role,
			Content:   content,
			Language:  "en",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := st.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	history, err := builder.BuildChatContext(ctx, "s1", "u1", 10)
	if err != nil {
		t.Fatalf("BuildChatContext failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(history))
	}
	for i, content := range contents {
		if history[i].Content != content {
			t.Fatalf("expected %q at position %d, got %q", content, i, history[i].Content)
		}
	}
}

func TestBuildChatContextKeepsNewestWhenOverLimit(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	base := time.Now().UTC()
	for i := 0; i < 100; i++ {
		msg := &domain.Message{
			MessageID: fmt.Sprintf("m%03d", i),
			SessionID: "s1",
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf("msg-%d", i),
			Language:  "en",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := st.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	history, err := builder.BuildChatContext(ctx, "s1", "u1", 0)
	if err != nil {
		t.Fatalf("BuildChatContext failed: %v", err)
	}
	if len(history) != DefaultMaxMessages {
		t.Fatalf("expected %d messages, got %d", DefaultMaxMessages, len(history))
	}
	// The newest 50, oldest first.
	if history[0].Content != "msg-50" {
		t.Fatalf("expected window to start at msg-50, got %q", history[0].Content)
	}
	if history[len(history)-1].Content != "msg-99" {
		t.Fatalf("expected window to end at msg-99, got %q", history[len(history)-1].Content)
	}
}

func TestBuildChatContextUnownedSessionIsEmpty(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	if _, err := st.AppendExchange(ctx, "s1", "u1", "hi", "hello", "en"); err != nil {
		t.Fatalf("AppendExchange failed: %v", err)
	}

	history, err := builder.BuildChatContext(ctx, "s1", "u2", 10)
	if err != nil {
		t.Fatalf("BuildChatContext failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty context for unowned session, got %d", len(history))
	}

	missing, err := builder.BuildChatContext(ctx, "nope", "u1", 10)
	if err != nil {
		t.Fatalf("BuildChatContext failed: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected empty context for missing session, got %d", len(missing))
	}
}

func TestGetOrCreateSession(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	// Existing owned session resolves to itself.
	id, err := builder.GetOrCreateSession(ctx, "u1", "s1", "", "")
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}
	if id != "s1" {
		t.Fatalf("expected existing session id, got %q", id)
	}

	// Someone else's session id yields a fresh session, not a takeover.
	id, err = builder.GetOrCreateSession(ctx, "u2", "s1", "", "")
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}
	if id == "s1" {
		t.Fatal("expected a new session id for a foreign session")
	}

	created, err := st.GetSession(ctx, id, "u2")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if created == nil || created.Title != DefaultTitle || created.Language != DefaultLanguage {
		t.Fatalf("unexpected created session: %+v", created)
	}
}

func TestUpdateSessionTitleFromFirstMessage(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	// A short message becomes the title verbatim.
	if err := builder.UpdateSessionTitleFromFirstMessage(ctx, "s1", "u1", "add milk to my list"); err != nil {
		t.Fatalf("UpdateSessionTitleFromFirstMessage failed: %v", err)
	}
	session, err := st.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Title != "add milk to my list" {
		t.Fatalf("unexpected title: %q", session.Title)
	}

	// A long message is truncated to 50 runes plus an ellipsis marker.
	long := strings.Repeat("a", 80)
	if err := builder.UpdateSessionTitleFromFirstMessage(ctx, "s1", "u1", long); err != nil {
		t.Fatalf("UpdateSessionTitleFromFirstMessage failed: %v", err)
	}
	session, err = st.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	want := strings.Repeat("a", 50) + "..."
	if session.Title != want {
		t.Fatalf("expected %q, got %q", want, session.Title)
	}
	if len([]rune(session.Title)) != 53 {
		t.Fatalf("expected 53-rune title, got %d", len([]rune(session.Title)))
	}
}

func TestSaveExchange(t *testing.T) {
	ctx := context.Background()
	builder, st := newTestBuilder(t)
	seedSession(t, st, "s1", "u1")

	saved, err := builder.SaveExchange(ctx, "s1", "u1", "hi", "hello", "")
	if err != nil {
		t.Fatalf("SaveExchange failed: %v", err)
	}
	if !saved {
		t.Fatal("expected exchange to be saved")
	}

	messages, err := st.MessageHistory(ctx, "s1", 10, 0)
	if err != nil {
		t.Fatalf("MessageHistory failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Language != DefaultLanguage {
		t.Fatalf("expected default language, got %q", messages[0].Language)
	}

	saved, err = builder.SaveExchange(ctx, "s1", "u2", "hi", "hello", "en")
	if err != nil {
		t.Fatalf("SaveExchange failed: %v", err)
	}
	if saved {
		t.Fatal("expected save against unowned session to report false")
	}
}
