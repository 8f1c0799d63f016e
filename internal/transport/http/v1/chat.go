package v1

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Farhat-Naz/phase2-todo/internal/adapter/toolclient"
	"github.com/Farhat-Naz/phase2-todo/internal/domain"
	"github.com/Farhat-Naz/phase2-todo/internal/service"
	authmw "github.com/Farhat-Naz/phase2-todo/internal/transport/http/middleware"
)

// Chat processes one conversational turn.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	resp, err := h.service.ProcessMessage(ctx, authmw.UserID(c), req.SessionID, req.Message, req.Language)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error":   string(domain.ErrInvalidInput),
				"message": err.Error(),
			})
		}
		if errors.Is(err, toolclient.ErrNotConnected) {
			log.Printf("ERROR: chat turn failed, tool endpoint unavailable: %v", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"error":   string(domain.ErrConnection),
				"message": "tool endpoint unavailable",
			})
		}
		// Detail stays in the log; the caller gets a generic failure.
		log.Printf("ERROR: chat turn failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error":   string(domain.ErrInternal),
			"message": "failed to process message",
		})
	}

	return c.JSON(http.StatusOK, resp)
}
