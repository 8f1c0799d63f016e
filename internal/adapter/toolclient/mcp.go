package toolclient

import (
	"context"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mcpTransport speaks the Model Context Protocol over an mcp-go client.
type mcpTransport struct {
	client *mcpclient.Client
}

// NewStdioFactory returns a factory that spawns the tool server process and
// connects to it over stdio. This is the production transport.
func NewStdioFactory(command string, env []string, args ...string) TransportFactory {
	return func(ctx context.Context) (Transport, error) {
		c, err := mcpclient.NewStdioMCPClient(command, env, args...)
		if err != nil {
			return nil, err
		}
		return &mcpTransport{client: c}, nil
	}
}

// NewInProcessFactory returns a factory wired directly to an in-process MCP
// server. Used by tests so the full connect/call/disconnect contract runs
// without spawning a subprocess.
func NewInProcessFactory(srv *server.MCPServer) TransportFactory {
	return func(ctx context.Context) (Transport, error) {
		c, err := mcpclient.NewInProcessClient(srv)
		if err != nil {
			return nil, err
		}
		if err := c.Start(ctx); err != nil {
			c.Close()
			return nil, err
		}
		return &mcpTransport{client: c}, nil
	}
}

func (t *mcpTransport) Initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{
		Name:    "phase2-todo",
		Version: "1.0.0",
	}
	_, err := t.client.Initialize(ctx, req)
	return err
}

func (t *mcpTransport) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	result, err := t.client.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			sb.WriteString(text.Text)
		}
	}
	return sb.String(), nil
}

func (t *mcpTransport) Close() error {
	return t.client.Close()
}
