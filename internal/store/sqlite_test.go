package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, userID, email string) {
	t.Helper()
	user := &domain.User{
		UserID:       userID,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
}

func seedSession(t *testing.T, store *SQLiteStore, sessionID, userID string) {
	t.Helper()
	now := time.Now().UTC()
	session := &domain.Session{
		SessionID:      sessionID,
		UserID:         userID,
		Title:          "New conversation",
		Language:       "en",
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := store.CreateSession(context.Background(), session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")

	user, err := store.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if user == nil || user.UserID != "u1" {
		t.Fatalf("unexpected user: %+v", user)
	}

	missing, err := store.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown email, got %+v", missing)
	}
}

func TestSQLiteStoreSessionOwnership(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")
	seedSession(t, store, "s1", "u1")

	got, err := store.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got == nil || got.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// Another user's lookup of the same id behaves like a missing session.
	other, err := store.GetSession(ctx, "s1", "u2")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if other != nil {
		t.Fatalf("expected nil for unowned session, got %+v", other)
	}

	deleted, err := store.DeleteSession(ctx, "s1", "u2")
	if err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if deleted {
		t.Fatal("expected delete by non-owner to report false")
	}

	deleted, err = store.DeleteSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete by owner to report true")
	}
}

func TestSQLiteStoreUpdateSessionTitle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedSession(t, store, "s1", "u1")

	updated, err := store.UpdateSessionTitle(ctx, "s1", "u1", "Buy groceries")
	if err != nil {
		t.Fatalf("UpdateSessionTitle failed: %v", err)
	}
	if !updated {
		t.Fatal("expected title update to report true")
	}

	session, err := store.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Title != "Buy groceries" {
		t.Fatalf("unexpected title: %q", session.Title)
	}

	// Oversized titles are capped rather than rejected.
	long := strings.Repeat("x", 300)
	if _, err := store.UpdateSessionTitle(ctx, "s1", "u1", long); err != nil {
		t.Fatalf("UpdateSessionTitle failed: %v", err)
	}
	session, err = store.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len([]rune(session.Title)) != 255 {
		t.Fatalf("expected title capped at 255 runes, got %d", len([]rune(session.Title)))
	}

	updated, err = store.UpdateSessionTitle(ctx, "s1", "u2", "stolen")
	if err != nil {
		t.Fatalf("UpdateSessionTitle failed: %v", err)
	}
	if updated {
		t.Fatal("expected update by non-owner to report false")
	}
}

func TestSQLiteStoreAppendExchange(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedSession(t, store, "s1", "u1")

	before, err := store.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}

	saved, err := store.AppendExchange(ctx, "s1", "u1", "add milk to my list", "Done, I added it.", "en")
	if err != nil {
		t.Fatalf("AppendExchange failed: %v", err)
	}
	if !saved {
		t.Fatal("expected exchange to be saved")
	}

	messages, err := store.MessageHistory(ctx, "s1", 10, 0)
	if err != nil {
		t.Fatalf("MessageHistory failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != domain.RoleUser || messages[1].Role != domain.RoleAssistant {
		t.Fatalf("unexpected ordering: %s then %s", messages[0].Role, messages[1].Role)
	}
	if !messages[1].CreatedAt.After(messages[0].CreatedAt) {
		t.Fatal("expected assistant message stamped after user message")
	}

	after, err := store.GetSession(ctx, "s1", "u1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !after.LastActivityAt.After(before.LastActivityAt) {
		t.Fatal("expected last activity to advance")
	}
}

func TestSQLiteStoreAppendExchangeUnowned(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")
	seedSession(t, store, "s1", "u1")

	saved, err := store.AppendExchange(ctx, "s1", "u2", "hi", "hello", "en")
	if err != nil {
		t.Fatalf("AppendExchange failed: %v", err)
	}
	if saved {
		t.Fatal("expected exchange against unowned session to report false")
	}

	messages, err := store.MessageHistory(ctx, "s1", 10, 0)
	if err != nil {
		t.Fatalf("MessageHistory failed: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected no messages written, got %d", len(messages))
	}
}

func TestSQLiteStoreRecentMessagesLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedSession(t, store, "s1", "u1")

	base := time.Now().UTC()
	for i := 0; i < 100; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msg := &domain.Message{
			MessageID: newID(),
			SessionID: "s1",
			Role:      role,
			Content:   "message",
			Language:  "en",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	recent, err := store.RecentMessages(ctx, "s1", 50)
	if err != nil {
		t.Fatalf("RecentMessages failed: %v", err)
	}
	if len(recent) != 50 {
		t.Fatalf("expected 50 messages, got %d", len(recent))
	}
	// Newest first: the first row is the last message inserted.
	if !recent[0].CreatedAt.After(recent[49].CreatedAt) {
		t.Fatal("expected newest-first ordering")
	}
}

func TestSQLiteStoreDeleteSessionCascades(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedSession(t, store, "s1", "u1")

	if _, err := store.AppendExchange(ctx, "s1", "u1", "hi", "hello", "en"); err != nil {
		t.Fatalf("AppendExchange failed: %v", err)
	}

	if _, err := store.DeleteSession(ctx, "s1", "u1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	messages, err := store.MessageHistory(ctx, "s1", 10, 0)
	if err != nil {
		t.Fatalf("MessageHistory failed: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected cascade to remove messages, got %d", len(messages))
	}
}

func TestSQLiteStoreDeleteInactiveSessions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")

	now := time.Now().UTC()
	stale := &domain.Session{
		SessionID:      "old",
		UserID:         "u1",
		Title:          "stale",
		Language:       "en",
		CreatedAt:      now.Add(-48 * time.Hour),
		LastActivityAt: now.Add(-48 * time.Hour),
	}
	fresh := &domain.Session{
		SessionID:      "new",
		UserID:         "u1",
		Title:          "fresh",
		Language:       "en",
		CreatedAt:      now,
		LastActivityAt: now,
	}
	for _, s := range []*domain.Session{stale, fresh} {
		if err := store.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
	}

	n, err := store.DeleteInactiveSessions(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteInactiveSessions failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 session deleted, got %d", n)
	}

	if got, err := store.GetSession(ctx, "new", "u1"); err != nil || got == nil {
		t.Fatalf("expected fresh session to survive, got %+v err %v", got, err)
	}
	if got, err := store.GetSession(ctx, "old", "u1"); err != nil || got != nil {
		t.Fatalf("expected stale session deleted, got %+v err %v", got, err)
	}
}

func TestSQLiteStoreTasks(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	defer store.Close()

	seedUser(t, store, "u1", "a@example.com")
	seedUser(t, store, "u2", "b@example.com")

	now := time.Now().UTC()
	task := &domain.Task{
		TaskID:      "t1",
		UserID:      "u1",
		Title:       "Buy milk",
		Description: "2 liters",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	tasks, err := store.ListTasks(ctx, "u1", nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	// Other users never see the task, complete it, or delete it.
	tasks, err = store.ListTasks(ctx, "u2", nil)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no tasks for other user, got %d", len(tasks))
	}

	if got, err := store.CompleteTask(ctx, "t1", "u2"); err != nil || got != nil {
		t.Fatalf("expected nil completing unowned task, got %+v err %v", got, err)
	}
	if deleted, err := store.DeleteTask(ctx, "t1", "u2"); err != nil || deleted {
		t.Fatalf("expected false deleting unowned task, got %v err %v", deleted, err)
	}

	completed, err := store.CompleteTask(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if completed == nil || !completed.Completed {
		t.Fatalf("unexpected task: %+v", completed)
	}
	if !completed.UpdatedAt.After(now) && !completed.UpdatedAt.Equal(now) {
		t.Fatalf("expected updated_at bumped, got %v", completed.UpdatedAt)
	}

	// Completion filter.
	done := true
	tasks, err = store.ListTasks(ctx, "u1", &done)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 completed task, got %d", len(tasks))
	}
	pending := false
	tasks, err = store.ListTasks(ctx, "u1", &pending)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected no pending tasks, got %d", len(tasks))
	}

	deleted, err := store.DeleteTask(ctx, "t1", "u1")
	if err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete by owner to report true")
	}
}
