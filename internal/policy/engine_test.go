package policy

import (
	"context"
	"testing"
)

func TestDefaultPolicyAllowsTaskTools(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	for _, tool := range []string{"add_task", "list_tasks", "complete_task", "delete_task"} {
		decision, err := engine.Evaluate(ctx, map[string]interface{}{
			"tool_name": tool,
			"user_id":   "u1",
			"args":      map[string]interface{}{},
		})
		if err != nil {
			t.Fatalf("Evaluate failed for %s: %v", tool, err)
		}
		if decision != DecisionAllow {
			t.Fatalf("expected %s allowed, got %s", tool, decision)
		}
	}
}

func TestDefaultPolicyBlocksUnknownTools(t *testing.T) {
	ctx := context.Background()
	engine, err := NewEngine(ctx, DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	for _, tool := range []string{"drop_database", "send_email", ""} {
		decision, err := engine.Evaluate(ctx, map[string]interface{}{
			"tool_name": tool,
			"user_id":   "u1",
			"args":      map[string]interface{}{},
		})
		if err != nil {
			t.Fatalf("Evaluate failed for %q: %v", tool, err)
		}
		if decision != DecisionBlock {
			t.Fatalf("expected %q blocked, got %s", tool, decision)
		}
	}
}

func TestNewEngineRejectsBrokenPolicy(t *testing.T) {
	if _, err := NewEngine(context.Background(), "this is not rego"); err == nil {
		t.Fatal("expected an error for invalid policy content")
	}
}
