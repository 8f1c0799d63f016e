package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ErrorKind is the fixed error taxonomy returned across the tool boundary.
// Handlers return these as data so the model can parse and react; they are
// never raised as Go errors past the handler.
type ErrorKind string

const (
	ErrInvalidInput ErrorKind = "INVALID_INPUT"
	ErrUnauthorized ErrorKind = "UNAUTHORIZED"
	ErrNotFound     ErrorKind = "NOT_FOUND"
	ErrConnection   ErrorKind = "CONNECTION_ERROR"
	ErrInternal     ErrorKind = "INTERNAL"
)
