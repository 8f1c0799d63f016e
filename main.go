package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Farhat-Naz/phase2-todo/internal/adapter/llm"
	"github.com/Farhat-Naz/phase2-todo/internal/adapter/toolclient"
	"github.com/Farhat-Naz/phase2-todo/internal/auth"
	"github.com/Farhat-Naz/phase2-todo/internal/config"
	"github.com/Farhat-Naz/phase2-todo/internal/policy"
	"github.com/Farhat-Naz/phase2-todo/internal/service"
	"github.com/Farhat-Naz/phase2-todo/internal/store"
	"github.com/Farhat-Naz/phase2-todo/internal/tasktools"
	handler "github.com/Farhat-Naz/phase2-todo/internal/transport/http"
)

const version = "1.0.0"

func main() {
	toolServerMode := flag.Bool("toolserver", false, "run the task tool server over stdio")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	if *toolServerMode {
		runToolServer(cfg)
		return
	}

	log.Printf("Starting todochat...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize tool endpoint client. By default the server spawns itself in
	// -toolserver mode so the tool process shares the binary and the database.
	command := cfg.ToolServerCommand
	args := []string{}
	if command == "" {
		self, err := os.Executable()
		if err != nil {
			log.Fatalf("Failed to resolve executable path: %v", err)
		}
		command = self
		args = []string{"-toolserver"}
	}
	env := []string{"DATABASE_URL=" + cfg.DatabaseURL}
	toolClient := toolclient.NewClient(toolclient.NewStdioFactory(command, env, args...))

	ctx := context.Background()
	if err := toolClient.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect tool endpoint: %v", err)
	}
	defer toolClient.Disconnect()

	// Initialize LLM client
	llmClient := llm.NewLLMClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize auth
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	// Initialize service
	svc := service.New(db, toolClient, llmClient, policyEngine, jwtService, cfg)

	// Create HTTP server
	e := handler.NewServer(svc, jwtService)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Periodically remove sessions idle past the TTL
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go runSessionCleanup(cleanupCtx, svc, cfg.SessionCleanupInterval)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down todochat...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Todochat stopped")
}

// runToolServer serves the task tools over stdio. The parent process talks to
// it through the tool endpoint client.
func runToolServer(cfg *config.Config) {
	// Logs must not pollute stdout: the protocol owns it.
	log.SetOutput(os.Stderr)

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	s := tasktools.NewServer(db, version)
	if err := tasktools.ServeStdio(s); err != nil {
		log.Fatalf("Tool server exited: %v", err)
	}
}

func runSessionCleanup(ctx context.Context, svc *service.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.CleanupInactiveSessions(ctx); err != nil {
				log.Printf("ERROR: session cleanup failed: %v", err)
			}
		}
	}
}
