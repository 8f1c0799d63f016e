package tasktools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Farhat-Naz/phase2-todo/internal/store"
)

// NewServer creates the MCP server exposing the four task tools. The same
// instance serves stdio in -toolserver mode and backs the in-process transport
// in tests.
func NewServer(st store.Store, version string) *server.MCPServer {
	h := NewHandlers(st)

	s := server.NewMCPServer(
		"phase2-todo-tools",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool(ToolAddTask,
		mcp.WithDescription("Create a new task for the user. Title is required (max 255 characters); description is optional."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("description", mcp.Description("Optional task description")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the task")),
	), wrap(h.AddTask))

	s.AddTool(mcp.NewTool(ToolListTasks,
		mcp.WithDescription("List the user's tasks, optionally filtered by completion status."),
		mcp.WithBoolean("completed", mcp.Description("Filter by completion status; omit for all tasks")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the tasks")),
	), wrap(h.ListTasks))

	s.AddTool(mcp.NewTool(ToolCompleteTask,
		mcp.WithDescription("Mark one of the user's tasks as completed."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Identifier of the task to complete")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the task")),
	), wrap(h.CompleteTask))

	s.AddTool(mcp.NewTool(ToolDeleteTask,
		mcp.WithDescription("Delete one of the user's tasks."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("Identifier of the task to delete")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("Owner of the task")),
	), wrap(h.DeleteTask))

	return s
}

// ServeStdio runs the tool server over stdin/stdout until the peer closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func wrap(fn func(context.Context, map[string]any) (string, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := fn(ctx, request.GetArguments())
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(out), nil
	}
}
