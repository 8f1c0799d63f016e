// Package tasktools implements the task-management tools exposed to the
// model. Handlers validate input and enforce per-user ownership; all
// validation and ownership failures come back as structured JSON data so the
// model can parse and react. Only storage failures escape as Go errors.
package tasktools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
	"github.com/Farhat-Naz/phase2-todo/internal/store"
)

// Tool names as the model invokes them.
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
)

const (
	titleLimit       = 255
	descriptionLimit = 1000
)

// Handlers holds the store-backed tool implementations.
type Handlers struct {
	store store.Store
}

// NewHandlers creates the tool handler set.
func NewHandlers(st store.Store) *Handlers {
	return &Handlers{store: st}
}

type toolError struct {
	Error   domain.ErrorKind `json:"error"`
	Message string           `json:"message"`
}

func errorResult(kind domain.ErrorKind, message string) string {
	out, _ := json.Marshal(toolError{Error: kind, Message: message})
	return string(out)
}

func marshal(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool result: %w", err)
	}
	return string(out), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// AddTask creates a task owned by the caller. The title is required and
// rejected past 255 characters; the description is silently truncated to 1000.
func (h *Handlers) AddTask(ctx context.Context, args map[string]any) (string, error) {
	userID := stringArg(args, domain.KeyUserID)
	if userID == "" {
		return errorResult(domain.ErrUnauthorized, "user_id is required"), nil
	}

	title := stringArg(args, domain.KeyTitle)
	if title == "" {
		return errorResult(domain.ErrInvalidInput, "title is required"), nil
	}
	if len([]rune(title)) > titleLimit {
		return errorResult(domain.ErrInvalidInput, "title must be 255 characters or fewer"), nil
	}

	description := stringArg(args, domain.KeyDescription)
	if runes := []rune(description); len(runes) > descriptionLimit {
		description = string(runes[:descriptionLimit])
	}

	now := time.Now().UTC()
	task := &domain.Task{
		TaskID:      uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.store.CreateTask(ctx, task); err != nil {
		return "", fmt.Errorf("failed to create task: %w", err)
	}

	return marshal(map[string]any{
		"task_id":     task.TaskID,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"created_at":  task.CreatedAt.Format(time.RFC3339),
	})
}

// ListTasks returns the caller's tasks, optionally filtered by completion flag.
func (h *Handlers) ListTasks(ctx context.Context, args map[string]any) (string, error) {
	userID := stringArg(args, domain.KeyUserID)
	if userID == "" {
		return errorResult(domain.ErrUnauthorized, "user_id is required"), nil
	}

	var completed *bool
	if v, ok := args[domain.KeyCompleted].(bool); ok {
		completed = &v
	}

	tasks, err := h.store.ListTasks(ctx, userID, completed)
	if err != nil {
		return "", fmt.Errorf("failed to list tasks: %w", err)
	}

	items := make([]map[string]any, len(tasks))
	for i, task := range tasks {
		items[i] = map[string]any{
			"task_id":     task.TaskID,
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"created_at":  task.CreatedAt.Format(time.RFC3339),
			"updated_at":  task.UpdatedAt.Format(time.RFC3339),
		}
	}
	return marshal(map[string]any{
		"tasks": items,
		"count": len(items),
	})
}

// CompleteTask marks a task done. A task that does not exist and a task owned
// by another user both come back as NOT_FOUND, so task ids cannot be probed.
func (h *Handlers) CompleteTask(ctx context.Context, args map[string]any) (string, error) {
	userID := stringArg(args, domain.KeyUserID)
	if userID == "" {
		return errorResult(domain.ErrUnauthorized, "user_id is required"), nil
	}

	taskID := stringArg(args, domain.KeyTaskID)
	if taskID == "" {
		return errorResult(domain.ErrInvalidInput, "task_id is required"), nil
	}

	task, err := h.store.CompleteTask(ctx, taskID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to complete task: %w", err)
	}
	if task == nil {
		return errorResult(domain.ErrNotFound, "task not found"), nil
	}

	return marshal(map[string]any{
		"task_id":   task.TaskID,
		"completed": task.Completed,
	})
}

// DeleteTask removes a task owned by the caller.
func (h *Handlers) DeleteTask(ctx context.Context, args map[string]any) (string, error) {
	userID := stringArg(args, domain.KeyUserID)
	if userID == "" {
		return errorResult(domain.ErrUnauthorized, "user_id is required"), nil
	}

	taskID := stringArg(args, domain.KeyTaskID)
	if taskID == "" {
		return errorResult(domain.ErrInvalidInput, "task_id is required"), nil
	}

	deleted, err := h.store.DeleteTask(ctx, taskID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return errorResult(domain.ErrNotFound, "task not found"), nil
	}

	return marshal(map[string]any{
		"success":         true,
		"deleted_task_id": taskID,
	})
}
