// Package mcpbridge is the top-level entry point: convenience constructors
// over the stdio and HTTP transports, config-driven connection, and
// re-exports of the calling surface.
package mcpbridge

import (
	"context"
	"fmt"

	"github.com/mcpbridge/go-mcpbridge/src/client"
	"github.com/mcpbridge/go-mcpbridge/src/config"
	"github.com/mcpbridge/go-mcpbridge/src/transports/stdio"
	"github.com/mcpbridge/go-mcpbridge/src/transports/streamable"
)

// Client is a copyable calling handle; see the client package.
type Client = client.Client

// Connection owns an established session; see the client package.
type Connection = client.Connection

// DefaultTimeout bounds each tool call unless overridden with WithTimeout.
const DefaultTimeout = client.DefaultTimeout

// StdioBuilder configures a child-process server.
type StdioBuilder = stdio.Builder

// StreamableBuilder configures an HTTP or SSE server.
type StreamableBuilder = streamable.Builder

// NewStdioBuilder starts a builder for a child-process server.
func NewStdioBuilder(command string, args ...string) *StdioBuilder {
	return stdio.NewBuilder(command, args...)
}

// NewStreamableBuilder starts a builder for a streamable HTTP server.
func NewStreamableBuilder(endpoint string) *StreamableBuilder {
	return streamable.NewBuilder(endpoint)
}

// CreateStdioClient spawns a server process and returns a live connection.
func CreateStdioClient(ctx context.Context, command string, args ...string) (*Connection, Client, error) {
	return stdio.NewClient(ctx, command, args...)
}

// CreateStreamableClient dials a streamable HTTP server.
func CreateStreamableClient(ctx context.Context, endpoint string) (*Connection, Client, error) {
	return streamable.NewClient(ctx, endpoint)
}

// CreateSSEClient dials an SSE server.
func CreateSSEClient(ctx context.Context, endpoint string) (*Connection, Client, error) {
	return streamable.NewSSEClient(ctx, endpoint)
}

// LoadConfig reads a JSON or YAML server definition file.
func LoadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

// Connect builds a connection to the named server from a loaded config,
// dispatching on its declared transport.
func Connect(ctx context.Context, cfg *config.Config, name string) (*Connection, Client, error) {
	s, ok := cfg.Servers[name]
	if !ok {
		return nil, Client{}, fmt.Errorf("unknown server %q", name)
	}
	switch s.Transport {
	case config.TransportStdio:
		return stdio.FromConfig(s).Build(ctx)
	case config.TransportHTTP, config.TransportSSE:
		return streamable.FromConfig(s).Build(ctx)
	default:
		return nil, Client{}, fmt.Errorf("unknown transport %q for server %q", s.Transport, name)
	}
}

// CallToolTyped invokes a tool and decodes its text payload into T.
func CallToolTyped[T any](ctx context.Context, c Client, name string, arguments any) (T, error) {
	return client.CallToolTyped[T](ctx, c, name, arguments)
}
