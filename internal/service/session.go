package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
)

// ListSessions returns the user's sessions ordered by last activity.
func (s *Service) ListSessions(ctx context.Context, userID string, limit, offset int) ([]domain.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	sessions, err := s.store.ListSessions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.Session{}
	}
	return sessions, nil
}

// DeleteSession removes a session and its messages. Returns false when the
// session is not owned by the user.
func (s *Service) DeleteSession(ctx context.Context, sessionID, userID string) (bool, error) {
	return s.store.DeleteSession(ctx, sessionID, userID)
}

// SessionHistory returns a session's messages in chronological order. An
// unowned or missing session yields an empty list.
func (s *Service) SessionHistory(ctx context.Context, sessionID, userID string, limit, offset int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	session, err := s.store.GetSession(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return []domain.Message{}, nil
	}

	messages, err := s.store.MessageHistory(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// CleanupInactiveSessions deletes sessions idle past the configured TTL.
// Messages cascade with them.
func (s *Service) CleanupInactiveSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.config.SessionTTL)
	n, err := s.store.DeleteInactiveSessions(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	if n > 0 {
		log.Printf("Cleaned up %d inactive sessions", n)
	}
	return n, nil
}
