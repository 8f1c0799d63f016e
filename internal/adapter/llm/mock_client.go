package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a mock implementation of LLMClient for testing and for
// running the service without a provider. Responses can be scripted with
// Enqueue; otherwise a canned echo response is produced.
type MockClient struct {
	mu    sync.Mutex
	queue []*ChatCompletionResponse
	// Requests records every request received, newest last.
	Requests []*ChatCompletionRequest
}

// NewMockClient creates a new mock LLM client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// Enqueue scripts the next response returned by CreateChatCompletion.
func (m *MockClient) Enqueue(resp *ChatCompletionResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, resp)
}

// CreateChatCompletion returns the next scripted response, or a canned echo
// when nothing is queued.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, req)

	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return resp, nil
	}

	var lastUser string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			lastUser = req.Messages[i].Content
			break
		}
	}

	return TextResponse(fmt.Sprintf("[MOCK] Received your message: %q.", lastUser)), nil
}

// TextResponse builds a plain assistant response.
func TextResponse(content string) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   "mock",
		Choices: []Choice{
			{
				Index:        0,
				Message:      &ChatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
	}
}

// ToolCallResponse builds an assistant response requesting a single tool call.
func ToolCallResponse(callID, toolName, arguments string) *ChatCompletionResponse {
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   "mock",
		Choices: []Choice{
			{
				Index: 0,
				Message: &ChatMessage{
					Role: "assistant",
					ToolCalls: []ToolCall{
						{
							ID:   callID,
							Type: "function",
							Function: ToolCallFunction{
								Name:      toolName,
								Arguments: arguments,
							},
						},
					},
				},
				FinishReason: "tool_calls",
			},
		},
	}
}
