package stdio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpbridge/go-mcpbridge/src/client"
	errs "github.com/mcpbridge/go-mcpbridge/src/errors"
	"github.com/mcpbridge/go-mcpbridge/src/tools"
	"github.com/mcpbridge/go-mcpbridge/src/validation"
)

const serverModeEnv = "GO_MCPBRIDGE_STDIO_SERVER"

// TestMain doubles as the server binary: when re-executed with the mode
// variable set, the process serves tools over stdio instead of running
// tests.
func TestMain(m *testing.M) {
	if os.Getenv(serverModeEnv) == "1" {
		runTestServer()
		return
	}
	os.Exit(m.Run())
}

func runTestServer() {
	srv := mcpserver.NewMCPServer("stdio-test-server", "1.0.0")

	srv.AddTool(mcp.NewTool("hello", mcp.WithString("name")),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			name := cast.ToString(req.GetArguments()["name"])
			if name == "" {
				name = "world"
			}
			return mcp.NewToolResultText(fmt.Sprintf("hello %s", name)), nil
		})

	srv.AddTool(mcp.NewTool(tools.StartSearch, mcp.WithString("pattern")),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(`{"session_id": "search-1"}`), nil
		})

	srv.AddTool(mcp.NewTool("sleepy"),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
			}
			return mcp.NewToolResultText("done"), nil
		})

	srv.AddTool(mcp.NewTool("env_echo", mcp.WithString("key")),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			key := cast.ToString(req.GetArguments()["key"])
			return mcp.NewToolResultText(os.Getenv(key)), nil
		})

	if err := mcpserver.ServeStdio(srv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serverBuilder(t *testing.T) *Builder {
	t.Helper()
	self, err := os.Executable()
	require.NoError(t, err)
	return NewBuilder(self).Env(serverModeEnv, "1")
}

func connect(t *testing.T) (*client.Connection, client.Client) {
	t.Helper()
	conn, handle, err := serverBuilder(t).Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(conn.CloseBestEffort)
	return conn, handle
}

func TestBuildRejectsEmptyCommand(t *testing.T) {
	_, _, err := NewBuilder("   ").Build(context.Background())
	require.Error(t, err)

	var cerr *errs.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, errs.TransportStdio, cerr.Transport)
	assert.Contains(t, cerr.Message, "command cannot be empty")
}

func TestBuildRejectsEmbeddedWhitespace(t *testing.T) {
	_, _, err := NewBuilder("server --port 1").Build(context.Background())
	require.Error(t, err)

	var cerr *errs.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "pass arguments separately")
}

func TestBuildRejectsMissingExecutable(t *testing.T) {
	_, _, err := NewBuilder("mcpbridge-no-such-binary").Build(context.Background())
	require.Error(t, err)

	var cerr *errs.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "not found in PATH")
}

func TestBuildRejectsMissingEnvFile(t *testing.T) {
	_, _, err := serverBuilder(t).
		EnvFile(filepath.Join(t.TempDir(), "absent.env")).
		Build(context.Background())
	require.Error(t, err)

	var cerr *errs.ConnectionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Message, "env file")
}

func TestHandshakeAndListTools(t *testing.T) {
	conn, handle := connect(t)

	assert.Equal(t, "stdio-test-server", conn.ServerInfo().ServerInfo.Name)

	listed, err := handle.ListTools(context.Background())
	require.NoError(t, err)

	names := make(map[string]bool, len(listed))
	for _, tool := range listed {
		names[tool.Name] = true
	}
	assert.True(t, names["hello"])
	assert.True(t, names[tools.StartSearch])
}

func TestCallTool(t *testing.T) {
	_, handle := connect(t)

	text, err := handle.CallTool(context.Background(), "hello", map[string]any{"name": "gopher"})
	require.NoError(t, err)
	assert.Equal(t, "hello gopher", text)
}

type searchStarted struct {
	SessionID validation.NonEmptyString `json:"session_id"`
}

func TestCallToolTyped(t *testing.T) {
	_, handle := connect(t)

	res, err := client.CallToolTyped[searchStarted](
		context.Background(), handle, tools.StartSearch, map[string]any{"pattern": "*.go"})
	require.NoError(t, err)
	assert.Equal(t, "search-1", string(res.SessionID))
}

func TestPerCallTimeout(t *testing.T) {
	_, handle := connect(t)
	fast := handle.WithTimeout(200 * time.Millisecond)

	start := time.Now()
	_, err := fast.CallTool(context.Background(), "sleepy", nil)
	elapsed := time.Since(start)
	require.Error(t, err)

	var terr *errs.TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "sleepy", terr.Operation)
	assert.Equal(t, 200*time.Millisecond, terr.Duration)
	assert.Less(t, elapsed, 2*time.Second)

	// The original handle is untouched and the session still works.
	text, err := handle.CallTool(context.Background(), "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTimeoutWithConcurrentCalls(t *testing.T) {
	_, handle := connect(t)
	slow := handle.WithTimeout(300 * time.Millisecond)

	var wg sync.WaitGroup
	slowErr := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := slow.CallTool(context.Background(), "sleepy", nil)
		slowErr <- err
	}()

	// Calls on the original handle keep their own deadline and must not
	// be disturbed by the copy timing out alongside them.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := handle.CallTool(context.Background(), "hello", nil)
			assert.NoError(t, err)
			assert.Equal(t, "hello world", text)
		}()
	}
	wg.Wait()

	var terr *errs.TimeoutError
	require.ErrorAs(t, <-slowErr, &terr)
	assert.Equal(t, "sleepy", terr.Operation)
	assert.Equal(t, 300*time.Millisecond, terr.Duration)
}

func TestEnvOverlay(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile,
		[]byte("FROM_FILE=file-value\nOVERRIDDEN=file-loses\n"), 0o600))

	conn, handle, err := serverBuilder(t).
		EnvFile(envFile).
		Env("OVERRIDDEN", "explicit-wins").
		Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(conn.CloseBestEffort)

	text, err := handle.CallTool(context.Background(), "env_echo", map[string]any{"key": "FROM_FILE"})
	require.NoError(t, err)
	assert.Equal(t, "file-value", text)

	text, err = handle.CallTool(context.Background(), "env_echo", map[string]any{"key": "OVERRIDDEN"})
	require.NoError(t, err)
	assert.Equal(t, "explicit-wins", text)
}

func TestEnvRemove(t *testing.T) {
	t.Setenv("MCPBRIDGE_DOOMED", "present")

	conn, handle, err := serverBuilder(t).
		EnvRemove("MCPBRIDGE_DOOMED").
		Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(conn.CloseBestEffort)

	text, err := handle.CallTool(context.Background(), "env_echo", map[string]any{"key": "MCPBRIDGE_DOOMED"})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestEnvClear(t *testing.T) {
	conn, handle, err := serverBuilder(t).
		EnvClear().
		Build(context.Background())
	require.NoError(t, err)
	t.Cleanup(conn.CloseBestEffort)

	text, err := handle.CallTool(context.Background(), "env_echo", map[string]any{"key": "PATH"})
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestCloseReapsProcess(t *testing.T) {
	conn, proc, err := serverBuilder(t).build(context.Background())
	require.NoError(t, err)

	require.NoError(t, conn.Close(context.Background()))
	assert.Equal(t, stateTerminated, proc.currentState())
	assert.NotNil(t, proc.exitState)
}

func TestCloseIsIdempotent(t *testing.T) {
	conn, _ := connect(t)
	require.NoError(t, conn.Close(context.Background()))
	require.NoError(t, conn.Close(context.Background()))
}
