// Package domain defines the core entities and request/response types.
package domain

import "time"

// User is an authenticated account. Only the identity and credential hash
// live here; everything else is keyed off UserID.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session is a user-owned conversation thread. LastActivityAt is bumped on
// every saved exchange and is monotonically non-decreasing.
type Session struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Language       string    `json:"language"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// Message is one turn half inside a session. Messages are immutable once
// created; ordering is defined by CreatedAt ascending.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a user-owned todo item mutated through the tool handlers.
type Task struct {
	TaskID      string    `json:"task_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
