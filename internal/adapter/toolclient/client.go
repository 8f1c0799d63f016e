// Package toolclient owns the connection to the external tool-execution
// endpoint and issues tool invocations over it.
package toolclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotConnected is returned by Call before a successful Connect. Call never
// connects on its own; connection lifecycle belongs to the composition root so
// failures stay observable and attributable.
var ErrNotConnected = errors.New("tool client is not connected")

// State is the connection state of the client.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

// Transport is one open wire connection to the tool endpoint.
type Transport interface {
	// Initialize performs the capability handshake.
	Initialize(ctx context.Context) error
	// CallTool sends a named invocation and returns the textual payload of the
	// single structured result, verbatim.
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	// Close releases the connection.
	Close() error
}

// TransportFactory opens a fresh transport. Injected so tests can substitute
// fakes implementing the same call contract.
type TransportFactory func(ctx context.Context) (Transport, error)

// Client is a shared, reusable tool-endpoint client: connect once at startup,
// reuse across requests, disconnect at shutdown. The mutex serializes state
// transitions and calls; the stdio transport does not multiplex requests, and
// holding the lock for the duration of a call also keeps Disconnect from
// racing an in-flight invocation.
type Client struct {
	mu        sync.Mutex
	factory   TransportFactory
	transport Transport
	state     State
}

// NewClient creates a disconnected client.
func NewClient(factory TransportFactory) *Client {
	return &Client{factory: factory}
}

// Connect establishes the transport and performs the handshake. Calling it
// while already connected is a no-op; the handshake runs at most once per
// connection. On failure the client stays disconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateConnected {
		return nil
	}

	c.state = StateConnecting
	transport, err := c.factory(ctx)
	if err != nil {
		c.state = StateDisconnected
		return fmt.Errorf("failed to open tool transport: %w", err)
	}
	if err := transport.Initialize(ctx); err != nil {
		transport.Close()
		c.state = StateDisconnected
		return fmt.Errorf("tool endpoint handshake failed: %w", err)
	}

	c.transport = transport
	c.state = StateConnected
	return nil
}

// Call invokes the named tool and returns its textual result unmodified. No
// retries and no error swallowing: task mutations are at-most-once, and a
// lower layer silently retrying could duplicate them.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateConnected {
		return "", ErrNotConnected
	}
	return c.transport.CallTool(ctx, name, args)
}

// Disconnect releases the transport. Safe to call in any state; afterwards
// Connect is valid again.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	if c.transport != nil {
		err = c.transport.Close()
		c.transport = nil
	}
	c.state = StateDisconnected
	return err
}

// Connected reports whether a Call would currently be accepted.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected
}
