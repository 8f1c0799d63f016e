// Package chatcontext assembles bounded, ownership-checked conversation
// history for the chat orchestrator and persists completed exchanges.
package chatcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
	"github.com/Farhat-Naz/phase2-todo/internal/store"
)

const (
	// DefaultMaxMessages bounds how much history one turn carries to the model.
	DefaultMaxMessages = 50

	// DefaultTitle is used for sessions created without an explicit title.
	DefaultTitle = "New conversation"

	// DefaultLanguage is used when the caller supplies none.
	DefaultLanguage = "en"

	titleLimit = 50
)

// Builder reads and writes session history on behalf of the orchestrator.
type Builder struct {
	store store.Store
}

// NewBuilder creates a context builder backed by the given store.
func NewBuilder(st store.Store) *Builder {
	return &Builder{store: st}
}

// BuildChatContext returns up to maxMessages of the session's most recent
// history in chronological order. A session that does not exist and a session
// owned by someone else both yield an empty context; callers cannot tell the
// two apart.
func (b *Builder) BuildChatContext(ctx context.Context, sessionID, userID string, maxMessages int) ([]domain.ContextMessage, error) {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}

	session, err := b.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return []domain.ContextMessage{}, nil
	}

	// Newest first from storage, then reversed so the model reads oldest first.
	messages, err := b.store.RecentMessages(ctx, sessionID, maxMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	history := make([]domain.ContextMessage, len(messages))
	for i, msg := range messages {
		history[len(messages)-1-i] = domain.ContextMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return history, nil
}

// SaveExchange persists one user/assistant pair and bumps the session's last
// activity. Both messages land or neither does. Returns false when the session
// is not owned by the user.
func (b *Builder) SaveExchange(ctx context.Context, sessionID, userID, userText, assistantText, language string) (bool, error) {
	if language == "" {
		language = DefaultLanguage
	}
	return b.store.AppendExchange(ctx, sessionID, userID, userText, assistantText, language)
}

// GetOrCreateSession resolves sessionID under the caller's ownership, creating
// a fresh session when it is empty or not resolvable. Returns the session id.
func (b *Builder) GetOrCreateSession(ctx context.Context, userID, sessionID, title, language string) (string, error) {
	if sessionID != "" {
		session, err := b.store.GetSession(ctx, sessionID, userID)
		if err != nil {
			return "", fmt.Errorf("failed to look up session: %w", err)
		}
		if session != nil {
			return session.SessionID, nil
		}
	}

	if title == "" {
		title = DefaultTitle
	}
	if runes := []rune(title); len(runes) > titleLimit {
		title = string(runes[:titleLimit])
	}
	if language == "" {
		language = DefaultLanguage
	}

	now := time.Now().UTC()
	session := &domain.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Language:       language,
		CreatedAt:      now,
		LastActivityAt: now,
	}
	if err := b.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	return session.SessionID, nil
}

// UpdateSessionTitleFromFirstMessage derives the session title from the first
// user message: truncated to 50 runes with a "..." marker appended when
// truncation occurred. No-op when the session is not owned by the user.
func (b *Builder) UpdateSessionTitleFromFirstMessage(ctx context.Context, sessionID, userID, firstMessage string) error {
	title := firstMessage
	if runes := []rune(firstMessage); len(runes) > titleLimit {
		title = string(runes[:titleLimit]) + "..."
	}
	if _, err := b.store.UpdateSessionTitle(ctx, sessionID, userID, title); err != nil {
		return fmt.Errorf("failed to update session title: %w", err)
	}
	return nil
}
