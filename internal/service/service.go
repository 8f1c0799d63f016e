// Package service implements the application services: the chat orchestrator
// plus the session, task and account operations behind the HTTP API.
package service

import (
	"github.com/Farhat-Naz/phase2-todo/internal/adapter/llm"
	"github.com/Farhat-Naz/phase2-todo/internal/adapter/toolclient"
	"github.com/Farhat-Naz/phase2-todo/internal/auth"
	"github.com/Farhat-Naz/phase2-todo/internal/chatcontext"
	"github.com/Farhat-Naz/phase2-todo/internal/config"
	"github.com/Farhat-Naz/phase2-todo/internal/policy"
	"github.com/Farhat-Naz/phase2-todo/internal/store"
)

type Service struct {
	store          store.Store
	contextBuilder *chatcontext.Builder
	toolClient     *toolclient.Client
	llmClient      llm.LLMClient
	policyEngine   *policy.Engine
	jwtService     *auth.JWTService
	config         *config.Config
}

func New(st store.Store, toolClient *toolclient.Client, llmClient llm.LLMClient, policyEngine *policy.Engine, jwtService *auth.JWTService, cfg *config.Config) *Service {
	return &Service{
		store:          st,
		contextBuilder: chatcontext.NewBuilder(st),
		toolClient:     toolClient,
		llmClient:      llmClient,
		policyEngine:   policyEngine,
		jwtService:     jwtService,
		config:         cfg,
	}
}
