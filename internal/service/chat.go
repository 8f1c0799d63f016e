package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/Farhat-Naz/phase2-todo/internal/adapter/llm"
	"github.com/Farhat-Naz/phase2-todo/internal/domain"
	"github.com/Farhat-Naz/phase2-todo/internal/policy"
	"github.com/Farhat-Naz/phase2-todo/internal/tasktools"
)

// ErrEmptyMessage is returned when a chat request carries no message text.
var ErrEmptyMessage = errors.New("message is required")

// ProcessMessage handles one conversational turn: resolve the session, build
// bounded history, drive the tool-calling loop, persist the exchange and set
// the title on the session's first turn. Tool side effects are not part of the
// persistence transaction; a task can exist even when saving the conversation
// about it failed. That window is logged, not hidden.
func (s *Service) ProcessMessage(ctx context.Context, userID, sessionID, text, language string) (*domain.ChatResponse, error) {
	if text == "" {
		return nil, ErrEmptyMessage
	}

	sid, err := s.contextBuilder.GetOrCreateSession(ctx, userID, sessionID, "", language)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	history, err := s.contextBuilder.BuildChatContext(ctx, sid, userID, s.config.MaxContextMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to build context: %w", err)
	}
	firstTurn := len(history) == 0

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: "user", Content: text})

	finalText, err := s.runToolLoop(ctx, userID, messages)
	if err != nil {
		return nil, err
	}

	saved, err := s.contextBuilder.SaveExchange(ctx, sid, userID, text, finalText, language)
	if err != nil {
		// Tool calls may already have mutated tasks; the exchange is lost but
		// the mutation stands.
		log.Printf("ERROR: failed to persist exchange for session %s: %v", sid, err)
		return nil, fmt.Errorf("failed to persist exchange: %w", err)
	}
	if !saved {
		return nil, fmt.Errorf("session %s vanished while processing", sid)
	}

	if firstTurn {
		if err := s.contextBuilder.UpdateSessionTitleFromFirstMessage(ctx, sid, userID, text); err != nil {
			log.Printf("WARN: failed to update session title: %v", err)
		}
	}

	return &domain.ChatResponse{SessionID: sid, Response: finalText}, nil
}

// runToolLoop drives the model until it produces a final response or the
// iteration bound is hit. Handler-level failures (INVALID_INPUT and friends)
// come back as data and are fed to the model; transport and storage failures
// abort the turn.
func (s *Service) runToolLoop(ctx context.Context, userID string, messages []llm.ChatMessage) (string, error) {
	for i := 0; i < s.config.MaxToolIterations; i++ {
		resp, err := s.llmClient.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
			Model:    s.config.LLMModel,
			Messages: messages,
			Tools:    toolDefinitions(),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, *msg)
		for _, call := range msg.ToolCalls {
			result, err := s.executeToolCall(ctx, userID, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("tool loop exceeded %d iterations", s.config.MaxToolIterations)
}

// executeToolCall gates one requested invocation through the policy engine and
// issues it over the tool client. The caller identity always comes from the
// authenticated request; a user_id supplied by the model is overwritten.
func (s *Service) executeToolCall(ctx context.Context, userID string, call llm.ToolCall) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(call.Function.Arguments), &raw); err != nil {
		log.Printf("WARN: malformed arguments for tool %s: %v", call.Function.Name, err)
		return toolErrorData(domain.ErrInvalidInput, "malformed tool arguments"), nil
	}
	args := toolArgs(call.Function.Name, raw, userID)

	decision, err := s.policyEngine.Evaluate(ctx, map[string]any{
		"tool_name": call.Function.Name,
		"args":      args,
		"user_id":   userID,
	})
	if err != nil {
		return "", fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision != policy.DecisionAllow {
		log.Printf("WARN: policy blocked tool %s for user %s", call.Function.Name, userID)
		return toolErrorData(domain.ErrInvalidInput, fmt.Sprintf("tool %s is not available", call.Function.Name)), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.ToolTimeout)
	defer cancel()

	result, err := s.toolClient.Call(callCtx, call.Function.Name, args)
	if err != nil {
		// Propagated unmodified from the client; no retry here either, the
		// invocation may already have mutated state.
		return "", fmt.Errorf("tool call %s failed: %w", call.Function.Name, err)
	}
	return result, nil
}

// toolArgs converts the model's untyped arguments into the typed request
// variant for the tool, then back to the wire mapping. The caller identity is
// taken from the authenticated request; whatever the model supplied for
// user_id is discarded here. Unknown tool names keep their raw arguments and
// are left for the policy engine to reject.
func toolArgs(name string, raw map[string]any, userID string) map[string]any {
	str := func(key string) string {
		s, _ := raw[key].(string)
		return s
	}

	switch name {
	case tasktools.ToolAddTask:
		return domain.AddTaskArgs{
			Title:       str(domain.KeyTitle),
			Description: str(domain.KeyDescription),
			UserID:      userID,
		}.Map()
	case tasktools.ToolListTasks:
		var completed *bool
		if v, ok := raw[domain.KeyCompleted].(bool); ok {
			completed = &v
		}
		return domain.ListTasksArgs{Completed: completed, UserID: userID}.Map()
	case tasktools.ToolCompleteTask:
		return domain.CompleteTaskArgs{TaskID: str(domain.KeyTaskID), UserID: userID}.Map()
	case tasktools.ToolDeleteTask:
		return domain.DeleteTaskArgs{TaskID: str(domain.KeyTaskID), UserID: userID}.Map()
	}

	if raw == nil {
		raw = map[string]any{}
	}
	raw[domain.KeyUserID] = userID
	return raw
}

func toolErrorData(kind domain.ErrorKind, message string) string {
	out, _ := json.Marshal(map[string]string{
		"error":   string(kind),
		"message": message,
	})
	return string(out)
}

const systemPrompt = "You are a task-management assistant. " +
	"Use the provided tools to create, list, complete and delete the user's tasks. " +
	"Tool failures are returned as JSON objects with error and message fields; " +
	"explain them to the user instead of retrying blindly. " +
	"Answer in the language the user writes in."

// toolDefinitions returns the OpenAI-style schemas for the task tools. The
// user_id argument is deliberately absent: it is injected server-side and the
// model never controls it.
func toolDefinitions() []llm.Tool {
	return []llm.Tool{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        tasktools.ToolAddTask,
				Description: "Create a new task. Title is required (max 255 characters), description is optional.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string", "description": "Task title"},
						"description": map[string]any{"type": "string", "description": "Optional task description"},
					},
					"required": []string{"title"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        tasktools.ToolListTasks,
				Description: "List the user's tasks, optionally filtered by completion status.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"completed": map[string]any{"type": "boolean", "description": "Filter by completion status"},
					},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        tasktools.ToolCompleteTask,
				Description: "Mark a task as completed.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"task_id": map[string]any{"type": "string", "description": "Identifier of the task"},
					},
					"required": []string{"task_id"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        tasktools.ToolDeleteTask,
				Description: "Delete a task.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"task_id": map[string]any{"type": "string", "description": "Identifier of the task"},
					},
					"required": []string{"task_id"},
				},
			},
		},
	}
}
