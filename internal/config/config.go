// Package config provides configuration for the chat service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// LLM settings
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Tool endpoint settings. ToolServerCommand is the binary spawned for the
	// stdio transport; empty means re-exec the current binary in -toolserver
	// mode.
	ToolServerCommand string
	ToolTimeout       time.Duration
	MaxToolIterations int

	// Context settings
	MaxContextMessages int

	// Session cleanup
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:               getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:            getEnv("DATABASE_URL", "file:todochat.db?cache=shared&mode=rwc"),
		JWTSecret:              getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:               getEnvDuration("TOKEN_TTL_HOURS", 24*time.Hour),
		LLMBaseURL:             getEnv("LLM_BASE_URL", "http://localhost:4000"),
		LLMAPIKey:              getEnv("LLM_API_KEY", ""),
		LLMModel:               getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeout:             time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		ToolServerCommand:      getEnv("TOOL_SERVER_COMMAND", ""),
		ToolTimeout:            time.Duration(getEnvInt("TOOL_TIMEOUT_MS", 30000)) * time.Millisecond,
		MaxToolIterations:      getEnvInt("MAX_TOOL_ITERATIONS", 5),
		MaxContextMessages:     getEnvInt("MAX_CONTEXT_MESSAGES", 50),
		SessionTTL:             getEnvDuration("SESSION_TTL_HOURS", 30*24*time.Hour),
		SessionCleanupInterval: getEnvDuration("SESSION_CLEANUP_INTERVAL_HOURS", 24*time.Hour),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if hours, err := strconv.Atoi(val); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultVal
}
