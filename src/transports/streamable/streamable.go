// Package streamable connects to tool servers over HTTP, using either the
// streamable transport or its SSE predecessor.
package streamable

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"syscall"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mcpbridge/go-mcpbridge/src/client"
	"github.com/mcpbridge/go-mcpbridge/src/config"
	errs "github.com/mcpbridge/go-mcpbridge/src/errors"
	"github.com/mcpbridge/go-mcpbridge/src/headers"
)

const defaultClientName = "mcpbridge-http-client"

// Builder configures an HTTP-backed session. Methods mutate and return the
// builder for chaining; Build performs all network work.
type Builder struct {
	endpoint   string
	headers    map[string]string
	sse        bool
	timeout    time.Duration
	clientName string
	logger     *zap.Logger
}

// NewBuilder starts a builder for a streamable HTTP endpoint.
func NewBuilder(endpoint string) *Builder {
	return &Builder{
		endpoint: endpoint,
		headers:  map[string]string{},
		timeout:  client.DefaultTimeout,
	}
}

// NewSSEBuilder starts a builder for an SSE endpoint.
func NewSSEBuilder(endpoint string) *Builder {
	b := NewBuilder(endpoint)
	b.sse = true
	return b
}

// Header sets one request header sent on every call.
func (b *Builder) Header(key, value string) *Builder {
	b.headers[key] = value
	return b
}

// Headers sets several request headers.
func (b *Builder) Headers(h map[string]string) *Builder {
	for k, v := range h {
		b.headers[k] = v
	}
	return b
}

// ContextHeaders attaches the caller's ambient context as headers: a fresh
// connection id, the working directory, and the enclosing git root if any.
func (b *Builder) ContextHeaders() *Builder {
	return b.Headers(headers.ContextHeaders())
}

// Timeout sets the default per-call timeout on the returned handle.
func (b *Builder) Timeout(d time.Duration) *Builder {
	b.timeout = d
	return b
}

// ClientName sets the name announced during the handshake.
func (b *Builder) ClientName(name string) *Builder {
	b.clientName = name
	return b
}

// Logger attaches a logger to the connection.
func (b *Builder) Logger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// Build dials the endpoint, performs the handshake, and returns the live
// connection with a calling handle carrying the configured timeout.
func (b *Builder) Build(ctx context.Context) (*client.Connection, client.Client, error) {
	if strings.TrimSpace(b.endpoint) == "" {
		return nil, client.Client{}, b.connErr("endpoint cannot be empty", nil)
	}

	peer, err := b.newPeer()
	if err != nil {
		return nil, client.Client{}, b.connErr("failed to construct transport", err)
	}

	if err := peer.Start(ctx); err != nil {
		_ = peer.Close()
		return nil, client.Client{}, b.connErr("failed to start transport", err)
	}

	info, err := initialize(ctx, peer, b.clientName)
	if err != nil {
		_ = peer.Close()
		if isDialFailure(err) {
			return nil, client.Client{}, b.connErr(
				fmt.Sprintf("failed to reach %s", b.endpoint), err)
		}
		return nil, client.Client{}, &errs.InitError{
			Transport: b.transportType(), Endpoint: b.endpoint, Err: err,
		}
	}

	conn := client.NewConnection(peer, info, newHTTPLifecycle(peer), b.logger)
	return conn, conn.Client().WithTimeout(b.timeout), nil
}

func (b *Builder) newPeer() (*mcpclient.Client, error) {
	if b.sse {
		var opts []transport.ClientOption
		if len(b.headers) > 0 {
			opts = append(opts, transport.WithHeaders(b.headers))
		}
		return mcpclient.NewSSEMCPClient(b.endpoint, opts...)
	}
	var opts []transport.StreamableHTTPCOption
	if len(b.headers) > 0 {
		opts = append(opts, transport.WithHTTPHeaders(b.headers))
	}
	return mcpclient.NewStreamableHttpClient(b.endpoint, opts...)
}

func (b *Builder) transportType() errs.TransportType {
	if b.sse {
		return errs.TransportSSE
	}
	return errs.TransportHTTP
}

func (b *Builder) connErr(msg string, err error) error {
	return &errs.ConnectionError{
		Message:   msg,
		Transport: b.transportType(),
		Endpoint:  b.endpoint,
		Err:       err,
	}
}

// isDialFailure reports whether the handshake never reached a server, as
// opposed to a server that rejected it.
func isDialFailure(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

func initialize(ctx context.Context, peer *mcpclient.Client, clientName string) (*mcp.InitializeResult, error) {
	if clientName == "" {
		clientName = defaultClientName
	}
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: clientName, Version: "1.0.0"}
	req.Params.Capabilities = mcp.ClientCapabilities{}
	return peer.Initialize(ctx, req)
}

// httpLifecycle closes the peer on shutdown; there is no child process to
// supervise, and Wait ends when the session is closed.
type httpLifecycle struct {
	peer *mcpclient.Client

	once sync.Once
	done chan struct{}
}

func newHTTPLifecycle(peer *mcpclient.Client) *httpLifecycle {
	return &httpLifecycle{peer: peer, done: make(chan struct{})}
}

func (h *httpLifecycle) Shutdown(ctx context.Context) error {
	var err error
	h.once.Do(func() {
		err = h.peer.Close()
		close(h.done)
	})
	if err != nil {
		return &errs.ServiceError{Err: err}
	}
	return nil
}

func (h *httpLifecycle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewClient dials a streamable endpoint and returns a ready connection
// with default settings.
func NewClient(ctx context.Context, endpoint string) (*client.Connection, client.Client, error) {
	return NewBuilder(endpoint).Build(ctx)
}

// NewSSEClient dials an SSE endpoint and returns a ready connection with
// default settings.
func NewSSEClient(ctx context.Context, endpoint string) (*client.Connection, client.Client, error) {
	return NewSSEBuilder(endpoint).Build(ctx)
}

// FromConfig builds from a declarative server definition.
func FromConfig(s config.Server) *Builder {
	var b *Builder
	if s.Transport == config.TransportSSE {
		b = NewSSEBuilder(s.URL)
	} else {
		b = NewBuilder(s.URL)
	}
	b.Headers(s.Headers)
	if d := s.Timeout(); d > 0 {
		b.Timeout(d)
	}
	if s.ClientName != "" {
		b.ClientName(s.ClientName)
	}
	return b
}
