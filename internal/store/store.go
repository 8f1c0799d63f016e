// Package store defines the storage interface and implementations.
package store

import (
	"context"
	"time"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
)

// Store defines the interface for data persistence. Every read or write that
// takes a userID filters by it at the query level; lookups never fetch by id
// alone and check ownership afterwards.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error)
	ListSessions(ctx context.Context, userID string, limit, offset int) ([]domain.Session, error)
	UpdateSessionTitle(ctx context.Context, sessionID, userID, title string) (bool, error)
	DeleteSession(ctx context.Context, sessionID, userID string) (bool, error)
	DeleteInactiveSessions(ctx context.Context, cutoff time.Time) (int64, error)

	// Message operations
	CreateMessage(ctx context.Context, message *domain.Message) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	MessageHistory(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, error)
	AppendExchange(ctx context.Context, sessionID, userID, userText, assistantText, language string) (bool, error)

	// Task operations
	CreateTask(ctx context.Context, task *domain.Task) error
	ListTasks(ctx context.Context, userID string, completed *bool) ([]domain.Task, error)
	CompleteTask(ctx context.Context, taskID, userID string) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, userID string) (bool, error)

	// Lifecycle
	Close() error
}
