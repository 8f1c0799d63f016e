package v1

import (
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	authmw "github.com/Farhat-Naz/phase2-todo/internal/transport/http/middleware"
)

// ListSessions returns the caller's sessions, newest activity first.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	sessions, err := h.service.ListSessions(c.Request().Context(), authmw.UserID(c), limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to list sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to list sessions"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
	})
}

// DeleteSession removes a session and its messages.
// DELETE /v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	deleted, err := h.service.DeleteSession(c.Request().Context(), c.Param("session_id"), authmw.UserID(c))
	if err != nil {
		log.Printf("ERROR: failed to delete session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to delete session"})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "session not found"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GetSessionMessages retrieves a session's messages in chronological order.
// GET /v1/sessions/:session_id/messages
func (h *Handler) GetSessionMessages(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	messages, err := h.service.SessionHistory(c.Request().Context(), c.Param("session_id"), authmw.UserID(c), limit, offset)
	if err != nil {
		log.Printf("ERROR: failed to fetch messages: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to fetch messages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}

func queryInt(c echo.Context, name string, defaultVal int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
