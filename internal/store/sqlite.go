package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'en',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_activity_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, last_activity_at)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			language TEXT NOT NULL DEFAULT 'en',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			completed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateUser creates a new user account.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.UserID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email. Returns nil when absent.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, created_at FROM users WHERE email = ?`,
		email).Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateSession creates a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, title, language, created_at, last_activity_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.Title, session.Language,
		session.CreatedAt, session.LastActivityAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by (id, owner). Returns nil when the session
// does not exist or is owned by someone else; the two cases are not
// distinguished.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, title, language, created_at, last_activity_at
		 FROM sessions WHERE session_id = ? AND user_id = ?`,
		sessionID, userID).Scan(&session.SessionID, &session.UserID, &session.Title,
		&session.Language, &session.CreatedAt, &session.LastActivityAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ListSessions returns the user's sessions ordered by last activity, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, userID string, limit, offset int) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_id, title, language, created_at, last_activity_at
		 FROM sessions WHERE user_id = ?
		 ORDER BY last_activity_at DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.SessionID, &session.UserID, &session.Title,
			&session.Language, &session.CreatedAt, &session.LastActivityAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// UpdateSessionTitle sets the session title, silently capping it at 255
// characters. Returns false when the session is not owned by the user.
func (s *SQLiteStore) UpdateSessionTitle(ctx context.Context, sessionID, userID, title string) (bool, error) {
	if runes := []rune(title); len(runes) > 255 {
		title = string(runes[:255])
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET title = ? WHERE session_id = ? AND user_id = ?`,
		title, sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to update session title: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteSession removes a session; messages go with it via cascade.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE session_id = ? AND user_id = ?`,
		sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteInactiveSessions removes sessions whose last activity predates the
// cutoff. Returns the number of sessions deleted.
func (s *SQLiteStore) DeleteInactiveSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE last_activity_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inactive sessions: %w", err)
	}
	return res.RowsAffected()
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, message *domain.Message) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, language, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		message.MessageID, message.SessionID, string(message.Role), message.Content,
		message.Language, message.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// RecentMessages returns the newest limit messages of a session, newest first.
func (s *SQLiteStore) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, role, content, language, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

// MessageHistory returns a session's messages in chronological order with
// offset pagination.
func (s *SQLiteStore) MessageHistory(ctx context.Context, sessionID string, limit, offset int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT message_id, session_id, role, content, language, created_at
		 FROM messages WHERE session_id = ?
		 ORDER BY created_at ASC LIMIT ? OFFSET ?`,
		sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var role string
		if err := rows.Scan(&msg.MessageID, &msg.SessionID, &role, &msg.Content,
			&msg.Language, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Role = domain.Role(role)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// AppendExchange persists one completed turn: a user message followed by an
// assistant message, plus the session's last-activity bump, in a single
// transaction. Returns false without writing anything when the session is not
// owned by the user.
func (s *SQLiteStore) AppendExchange(ctx context.Context, sessionID, userID, userText, assistantText, language string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE session_id = ? AND user_id = ?`,
		sessionID, userID).Scan(&owner)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	// The assistant message is stamped one millisecond later so chronological
	// ordering within the exchange never depends on insertion order.
	pairs := []struct {
		role    domain.Role
		content string
		at      time.Time
	}{
		{domain.RoleUser, userText, now},
		{domain.RoleAssistant, assistantText, now.Add(time.Millisecond)},
	}
	for _, p := range pairs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (message_id, session_id, role, content, language, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			newID(), sessionID, string(p.role), p.content, language, p.at); err != nil {
			return false, fmt.Errorf("failed to save message: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_activity_at = ? WHERE session_id = ? AND user_id = ?`,
		now.Add(time.Millisecond), sessionID, userID); err != nil {
		return false, fmt.Errorf("failed to update last activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit exchange: %w", err)
	}
	return true, nil
}

// CreateTask creates a new task.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *domain.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, user_id, title, description, completed, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.TaskID, task.UserID, task.Title, task.Description, task.Completed,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// ListTasks returns the user's tasks, optionally filtered by completion flag.
// Ordering beyond storage order is unspecified.
func (s *SQLiteStore) ListTasks(ctx context.Context, userID string, completed *bool) ([]domain.Task, error) {
	query := `SELECT task_id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks WHERE user_id = ?`
	args := []any{userID}
	if completed != nil {
		query += ` AND completed = ?`
		args = append(args, *completed)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		var desc sql.NullString
		if err := rows.Scan(&task.TaskID, &task.UserID, &task.Title, &desc,
			&task.Completed, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		task.Description = desc.String
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CompleteTask marks a task done and bumps updated_at. The lookup is filtered
// by (id, owner); returns nil when no such task is owned by the user.
func (s *SQLiteStore) CompleteTask(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = 1, updated_at = ? WHERE task_id = ? AND user_id = ?`,
		now, taskID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	var task domain.Task
	var desc sql.NullString
	err = s.db.QueryRowContext(ctx,
		`SELECT task_id, user_id, title, description, completed, created_at, updated_at
		 FROM tasks WHERE task_id = ? AND user_id = ?`,
		taskID, userID).Scan(&task.TaskID, &task.UserID, &task.Title, &desc,
		&task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	task.Description = desc.String
	return &task, nil
}

// DeleteTask removes a task owned by the user.
func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE task_id = ? AND user_id = ?`,
		taskID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
