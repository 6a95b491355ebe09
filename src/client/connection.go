package client

import (
	"context"
	"sync"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// Lifecycle is the transport-owned half of a session: how it is torn down
// and how its natural end is observed. Stdio connections back this with a
// child process, HTTP connections with the peer alone.
type Lifecycle interface {
	Shutdown(ctx context.Context) error
	Wait(ctx context.Context) error
}

// Connection owns an established session. It hands out Client handles for
// calling and must be closed exactly once; Close is idempotent.
type Connection struct {
	peer   *mcpclient.Client
	info   *mcp.InitializeResult
	life   Lifecycle
	logger *zap.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewConnection assembles a connection from an initialized peer and the
// transport lifecycle that owns its teardown. A nil logger disables logging.
func NewConnection(peer *mcpclient.Client, info *mcp.InitializeResult, life Lifecycle, logger *zap.Logger) *Connection {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Connection{peer: peer, info: info, life: life, logger: logger}
}

// Client returns a calling handle with the default timeout. The handle is a
// value; derive per-call timeouts with WithTimeout.
func (c *Connection) Client() Client {
	return NewClient(c.peer)
}

// ServerInfo reports the handshake result announced by the server.
func (c *Connection) ServerInfo() *mcp.InitializeResult {
	return c.info
}

// Close tears the session down, waiting for the transport to finish within
// ctx. Subsequent calls return the first outcome.
func (c *Connection) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closeErr = c.life.Shutdown(ctx)
	})
	return c.closeErr
}

// CloseBestEffort tears the session down without a caller deadline, logging
// rather than returning any failure. Intended for defer sites that cannot
// propagate an error.
func (c *Connection) CloseBestEffort() {
	if err := c.Close(context.Background()); err != nil {
		c.logger.Warn("connection close failed", zap.Error(err))
	}
}

// Wait blocks until the transport ends on its own, for callers supervising
// a long-lived session.
func (c *Connection) Wait(ctx context.Context) error {
	return c.life.Wait(ctx)
}
