// Package http provides the HTTP server implementation for the chat service.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Farhat-Naz/phase2-todo/internal/auth"
	"github.com/Farhat-Naz/phase2-todo/internal/service"
	v1 "github.com/Farhat-Naz/phase2-todo/internal/transport/http/v1"
)

// NewServer creates and configures the HTTP server. It exposes the auth,
// chat, session and task endpoints under /v1.
func NewServer(svc *service.Service, jwtService *auth.JWTService) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc, jwtService)

	// Register Routes
	v1Handler.RegisterRoutes(e)

	return e
}
