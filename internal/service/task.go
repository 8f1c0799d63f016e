package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Farhat-Naz/phase2-todo/internal/domain"
)

// Validation errors for the REST task path. The limits mirror the tool
// handlers so both entry points agree on what a valid task is.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be 255 characters or fewer")
)

const (
	taskTitleLimit       = 255
	taskDescriptionLimit = 1000
)

// CreateTask creates a task owned by the user.
func (s *Service) CreateTask(ctx context.Context, userID, title, description string) (*domain.Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len([]rune(title)) > taskTitleLimit {
		return nil, ErrTitleTooLong
	}
	if runes := []rune(description); len(runes) > taskDescriptionLimit {
		description = string(runes[:taskDescriptionLimit])
	}

	now := time.Now().UTC()
	task := &domain.Task{
		TaskID:      uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// ListTasks returns the user's tasks, optionally filtered by completion flag.
func (s *Service) ListTasks(ctx context.Context, userID string, completed *bool) ([]domain.Task, error) {
	tasks, err := s.store.ListTasks(ctx, userID, completed)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// CompleteTask marks a task done. Returns nil when no task with that id is
// owned by the user.
func (s *Service) CompleteTask(ctx context.Context, taskID, userID string) (*domain.Task, error) {
	return s.store.CompleteTask(ctx, taskID, userID)
}

// DeleteTask removes a task owned by the user.
func (s *Service) DeleteTask(ctx context.Context, taskID, userID string) (bool, error) {
	return s.store.DeleteTask(ctx, taskID, userID)
}
