// Package client provides the calling surface for a connected tool server:
// a lightweight Client handle with per-call timeouts and a Connection that
// owns the session lifecycle.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	errs "github.com/mcpbridge/go-mcpbridge/src/errors"
	"github.com/mcpbridge/go-mcpbridge/src/json"
	"github.com/mcpbridge/go-mcpbridge/src/validation"
)

// DefaultTimeout bounds each tool call unless the handle carries its own.
const DefaultTimeout = 12 * time.Second

// Client is a cheap, copyable handle over an established session. Copies
// share the session but carry independent timeouts, so callers can derive
// per-call handles without affecting each other.
type Client struct {
	peer    *mcpclient.Client
	timeout time.Duration
}

// NewClient wraps an already-initialized session peer.
func NewClient(peer *mcpclient.Client) Client {
	return Client{peer: peer, timeout: DefaultTimeout}
}

// WithTimeout returns a copy of the handle using d for subsequent calls.
// Non-positive values fall back to DefaultTimeout.
func (c Client) WithTimeout(d time.Duration) Client {
	if d <= 0 {
		d = DefaultTimeout
	}
	c.timeout = d
	return c
}

// Timeout reports the per-call deadline this handle applies.
func (c Client) Timeout() time.Duration {
	return c.timeout
}

// ListTools fetches the server's full tool catalogue, following pagination
// cursors until exhausted.
func (c Client) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
	defer cancel()

	var tools []mcp.Tool
	var cursor mcp.Cursor
	for {
		req := mcp.ListToolsRequest{}
		req.Params.Cursor = cursor
		res, err := c.peer.ListTools(callCtx, req)
		if err != nil {
			return nil, c.classify(ctx, callCtx, "list_tools", err)
		}
		tools = append(tools, res.Tools...)
		if res.NextCursor == "" {
			return tools, nil
		}
		cursor = res.NextCursor
	}
}

// CallTool invokes a named tool and returns the text payload of its result.
// arguments must be nil or a map[string]any; anything else is rejected
// before any traffic is sent.
func (c Client) CallTool(ctx context.Context, name string, arguments any) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", &errs.ProtocolError{Message: "tool name cannot be empty"}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	switch args := arguments.(type) {
	case nil:
	case map[string]any:
		req.Params.Arguments = args
	default:
		return "", &errs.ProtocolError{
			Message: fmt.Sprintf("tool arguments must be a map[string]any, got %T", arguments),
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.effectiveTimeout())
	defer cancel()

	res, err := c.peer.CallTool(callCtx, req)
	if err != nil {
		return "", c.classify(ctx, callCtx, name, err)
	}
	return textContent(res, name)
}

// CallToolTyped invokes a tool and decodes its text payload into T,
// running validation before the value is handed back.
func CallToolTyped[T any](ctx context.Context, c Client, name string, arguments any) (T, error) {
	var zero T
	text, err := c.CallTool(ctx, name, arguments)
	if err != nil {
		return zero, err
	}
	v, err := validation.Decode[T]([]byte(text))
	if err != nil {
		return zero, &errs.ParseError{ToolName: name, Err: err}
	}
	return v, nil
}

func (c Client) effectiveTimeout() time.Duration {
	if c.timeout <= 0 {
		return DefaultTimeout
	}
	return c.timeout
}

// classify separates a per-call deadline expiry from other peer failures.
// The parent context is consulted so a caller-initiated cancellation is not
// misreported as a timeout.
func (c Client) classify(parent, callCtx context.Context, operation string, err error) error {
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &errs.TimeoutError{Operation: operation, Duration: c.effectiveTimeout()}
	}
	return &errs.ServiceError{Err: err}
}

// textContent extracts the textual payload from a tool result. Results
// carrying no content, or only non-text content, are protocol errors.
func textContent(res *mcp.CallToolResult, tool string) (string, error) {
	if res == nil || len(res.Content) == 0 {
		return "", &errs.ProtocolError{
			Message: fmt.Sprintf("tool %q returned no content", tool),
		}
	}
	for _, item := range res.Content {
		if tc, ok := mcp.AsTextContent(item); ok {
			return tc.Text, nil
		}
	}
	kinds := make([]string, 0, len(res.Content))
	for _, item := range res.Content {
		kinds = append(kinds, contentKind(item))
	}
	return "", &errs.ProtocolError{
		Message: fmt.Sprintf("tool %q returned no text content, got: %s", tool, strings.Join(kinds, ", ")),
	}
}

func contentKind(item mcp.Content) string {
	switch {
	case isTextContent(item):
		return "text"
	case isImageContent(item):
		return "image"
	case isAudioContent(item):
		return "audio"
	case isEmbeddedResource(item):
		return "resource"
	default:
		return fmt.Sprintf("%T", item)
	}
}

func isTextContent(item mcp.Content) bool {
	_, ok := mcp.AsTextContent(item)
	return ok
}

func isImageContent(item mcp.Content) bool {
	_, ok := mcp.AsImageContent(item)
	return ok
}

func isAudioContent(item mcp.Content) bool {
	_, ok := mcp.AsAudioContent(item)
	return ok
}

func isEmbeddedResource(item mcp.Content) bool {
	_, ok := mcp.AsEmbeddedResource(item)
	return ok
}

// RawResult decodes a tool's text payload as arbitrary JSON, for callers
// that want the document without a typed schema.
func (c Client) RawResult(ctx context.Context, name string, arguments any) (json.RawMessage, error) {
	text, err := c.CallTool(ctx, name, arguments)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(text)) {
		return nil, &errs.ParseError{
			ToolName: name,
			Err:      fmt.Errorf("payload is not valid JSON"),
		}
	}
	return json.RawMessage(text), nil
}
