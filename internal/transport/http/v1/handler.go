// Package v1 provides the HTTP handlers for the chat service API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Farhat-Naz/phase2-todo/internal/auth"
	"github.com/Farhat-Naz/phase2-todo/internal/service"
	authmw "github.com/Farhat-Naz/phase2-todo/internal/transport/http/middleware"
)

// Handler handles HTTP requests.
type Handler struct {
	service    *service.Service
	jwtService *auth.JWTService
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, jwtService *auth.JWTService) *Handler {
	return &Handler{
		service:    svc,
		jwtService: jwtService,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)

	authed := e.Group("/v1", authmw.JWTAuth(h.jwtService))

	authed.POST("/chat", h.Chat)

	authed.GET("/sessions", h.ListSessions)
	authed.DELETE("/sessions/:session_id", h.DeleteSession)
	authed.GET("/sessions/:session_id/messages", h.GetSessionMessages)

	authed.GET("/tasks", h.ListTasks)
	authed.POST("/tasks", h.CreateTask)
	authed.PATCH("/tasks/:task_id/complete", h.CompleteTask)
	authed.DELETE("/tasks/:task_id", h.DeleteTask)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "1.0.0",
	})
}
