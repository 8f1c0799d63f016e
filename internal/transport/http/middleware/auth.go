// Package middleware provides HTTP middleware for the chat service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Farhat-Naz/phase2-todo/internal/auth"
)

// UserIDKey is the echo context key the authenticated user id is stored under.
const UserIDKey = "user_id"

// JWTAuth validates the Bearer token and stashes the caller identity into the
// request context. Handlers downstream never see a request without a verified
// user id.
func JWTAuth(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "malformed Authorization header"})
			}

			claims, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}

			c.Set(UserIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id set by JWTAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(UserIDKey).(string)
	return id
}
