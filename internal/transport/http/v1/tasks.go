package v1

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Farhat-Naz/phase2-todo/internal/service"
	authmw "github.com/Farhat-Naz/phase2-todo/internal/transport/http/middleware"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ListTasks returns the caller's tasks. The optional "completed" query
// parameter filters by completion state.
// GET /v1/tasks
func (h *Handler) ListTasks(c echo.Context) error {
	var completed *bool
	if v := c.QueryParam("completed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "completed must be true or false"})
		}
		completed = &b
	}

	tasks, err := h.service.ListTasks(c.Request().Context(), authmw.UserID(c), completed)
	if err != nil {
		log.Printf("ERROR: failed to list tasks: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// CreateTask creates a task for the caller.
// POST /v1/tasks
func (h *Handler) CreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	task, err := h.service.CreateTask(c.Request().Context(), authmw.UserID(c), req.Title, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrTitleRequired) || errors.Is(err, service.ErrTitleTooLong) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		log.Printf("ERROR: failed to create task: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
	}

	return c.JSON(http.StatusCreated, task)
}

// CompleteTask marks one of the caller's tasks as done.
// PATCH /v1/tasks/:task_id/complete
func (h *Handler) CompleteTask(c echo.Context) error {
	task, err := h.service.CompleteTask(c.Request().Context(), c.Param("task_id"), authmw.UserID(c))
	if err != nil {
		log.Printf("ERROR: failed to complete task: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to complete task"})
	}
	if task == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes one of the caller's tasks.
// DELETE /v1/tasks/:task_id
func (h *Handler) DeleteTask(c echo.Context) error {
	deleted, err := h.service.DeleteTask(c.Request().Context(), c.Param("task_id"), authmw.UserID(c))
	if err != nil {
		log.Printf("ERROR: failed to delete task: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "task not found"})
	}
	return c.NoContent(http.StatusNoContent)
}
