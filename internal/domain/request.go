package domain

// ChatRequest is the external entry payload for one conversational turn.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Language  string `json:"language,omitempty"`
}

// ChatResponse carries the assistant's final text back to the caller, along
// with the (possibly newly created) session identifier.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Response  string `json:"response"`
}

// ContextMessage is one role/content pair of assembled conversation history.
type ContextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool argument keys crossing the tool-invocation boundary. The orchestrator
// always sets KeyUserID itself from the authenticated caller; a user_id coming
// from the model is overwritten, never trusted.
const (
	KeyTitle       = "title"
	KeyDescription = "description"
	KeyTaskID      = "task_id"
	KeyCompleted   = "completed"
	KeyUserID      = "user_id"
)

// AddTaskArgs is the typed form of an add_task invocation.
type AddTaskArgs struct {
	Title       string
	Description string
	UserID      string
}

// Map converts the request to the wire argument mapping.
func (a AddTaskArgs) Map() map[string]any {
	m := map[string]any{KeyTitle: a.Title, KeyUserID: a.UserID}
	if a.Description != "" {
		m[KeyDescription] = a.Description
	}
	return m
}

// ListTasksArgs is the typed form of a list_tasks invocation. Completed is an
// optional filter; nil means no filtering.
type ListTasksArgs struct {
	Completed *bool
	UserID    string
}

func (a ListTasksArgs) Map() map[string]any {
	m := map[string]any{KeyUserID: a.UserID}
	if a.Completed != nil {
		m[KeyCompleted] = *a.Completed
	}
	return m
}

// CompleteTaskArgs is the typed form of a complete_task invocation.
type CompleteTaskArgs struct {
	TaskID string
	UserID string
}

func (a CompleteTaskArgs) Map() map[string]any {
	return map[string]any{KeyTaskID: a.TaskID, KeyUserID: a.UserID}
}

// DeleteTaskArgs is the typed form of a delete_task invocation.
type DeleteTaskArgs struct {
	TaskID string
	UserID string
}

func (a DeleteTaskArgs) Map() map[string]any {
	return map[string]any{KeyTaskID: a.TaskID, KeyUserID: a.UserID}
}
