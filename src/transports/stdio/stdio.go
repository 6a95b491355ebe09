// Package stdio connects to tool servers spawned as child processes,
// speaking the protocol over the child's stdin and stdout.
package stdio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/joho/godotenv"
	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/mcpbridge/go-mcpbridge/src/client"
	"github.com/mcpbridge/go-mcpbridge/src/config"
	errs "github.com/mcpbridge/go-mcpbridge/src/errors"
)

const defaultClientName = "mcpbridge-stdio-client"

// Builder configures and spawns a stdio-backed server process. Methods
// mutate and return the builder for chaining; Build performs all work.
type Builder struct {
	command    string
	args       []string
	env        map[string]string
	envClear   bool
	envRemove  []string
	envFile    string
	workingDir string
	timeout    time.Duration
	clientName string
	logger     *zap.Logger
}

// NewBuilder starts a builder for the given executable and arguments.
func NewBuilder(command string, args ...string) *Builder {
	return &Builder{
		command: command,
		args:    args,
		env:     map[string]string{},
		timeout: client.DefaultTimeout,
	}
}

// Env sets one environment variable for the child.
func (b *Builder) Env(key, value string) *Builder {
	b.env[key] = value
	return b
}

// Envs sets several environment variables for the child.
func (b *Builder) Envs(vars map[string]string) *Builder {
	for k, v := range vars {
		b.env[k] = v
	}
	return b
}

// EnvFile loads additional variables from a dotenv file at build time.
// Explicit Env values win over file values.
func (b *Builder) EnvFile(path string) *Builder {
	b.envFile = path
	return b
}

// EnvClear starts the child from an empty environment instead of
// inheriting the parent's.
func (b *Builder) EnvClear() *Builder {
	b.envClear = true
	return b
}

// EnvRemove strips named variables from the inherited environment.
func (b *Builder) EnvRemove(keys ...string) *Builder {
	b.envRemove = append(b.envRemove, keys...)
	return b
}

// WorkingDir sets the child's working directory.
func (b *Builder) WorkingDir(dir string) *Builder {
	b.workingDir = dir
	return b
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

// Logger attaches a logger to the connection and its process supervisor.
func (b *Builder) Logger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// Build spawns the child, performs the handshake, and returns the live
// connection with a calling handle carrying the configured timeout.
func (b *Builder) Build(ctx context.Context) (*client.Connection, client.Client, error) {
	conn, _, err := b.build(ctx)
	if err != nil {
		return nil, client.Client{}, err
	}
	return conn, conn.Client().WithTimeout(b.timeout), nil
}

// build is the internal seam returning the process supervisor alongside
// the connection.
func (b *Builder) build(ctx context.Context) (*client.Connection, *process, error) {
	if err := b.validate(); err != nil {
		return nil, nil, err
	}

	var fileVars map[string]string
	if b.envFile != "" {
		vars, err := godotenv.Read(b.envFile)
		if err != nil {
			return nil, nil, b.connErr(fmt.Sprintf("failed to load env file %s: %v", b.envFile, err), err)
		}
		fileVars = vars
	}

	cmd := exec.Command(b.command, b.args...)
	cmd.Env = b.environment(fileVars)
	cmd.Dir = b.workingDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, b.connErr("failed to open stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, b.connErr("failed to open stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, nil, b.connErr("failed to open stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, nil, b.connErr(fmt.Sprintf("failed to spawn %q", b.command), err)
	}

	peer := mcpclient.NewClient(transport.NewIO(stdout, stdin, stderr))
	proc := newProcess(cmd, peer, b.logger, stdin, stdout, stderr)

	if err := peer.Start(ctx); err != nil {
		proc.forceTerminate()
		return nil, nil, &errs.InitError{Transport: errs.TransportStdio, Endpoint: b.command, Err: err}
	}

	info, err := initialize(ctx, peer, b.clientName)
	if err != nil {
		_ = peer.Close()
		proc.forceTerminate()
		return nil, nil, &errs.InitError{Transport: errs.TransportStdio, Endpoint: b.command, Err: err}
	}

	return client.NewConnection(peer, info, proc, b.logger), proc, nil
}

func (b *Builder) validate() error {
	trimmed := strings.TrimSpace(b.command)
	if trimmed == "" {
		return b.connErr("command cannot be empty", nil)
	}
	if strings.ContainsAny(trimmed, " \t") {
		return b.connErr(
			fmt.Sprintf("command %q contains whitespace; pass arguments separately", trimmed), nil)
	}
	if _, err := exec.LookPath(trimmed); err != nil {
		return b.connErr(fmt.Sprintf("command %q not found in PATH", trimmed), err)
	}
	b.command = trimmed
	return nil
}

func (b *Builder) connErr(msg string, err error) error {
	return &errs.ConnectionError{
		Message:   msg,
		Transport: errs.TransportStdio,
		Endpoint:  b.command,
		Err:       err,
	}
}

// environment assembles the child environment: inherited unless cleared,
// minus removals, plus dotenv file values, with explicit values last.
func (b *Builder) environment(fileVars map[string]string) []string {
	var env []string
	if !b.envClear {
		inherited := os.Environ()
		env = make([]string, 0, len(inherited))
		for _, kv := range inherited {
			if b.removed(kv) {
				continue
			}
			env = append(env, kv)
		}
	}
	for k, v := range fileVars {
		if _, override := b.env[k]; override {
			continue
		}
		env = append(env, k+"="+v)
	}
	for k, v := range b.env {
		env = append(env, k+"="+v)
	}
	return env
}

func (b *Builder) removed(kv string) bool {
	name, _, _ := strings.Cut(kv, "=")
	for _, r := range b.envRemove {
		if name == r {
			return true
		}
	}
	return false
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

// NewClient spawns a server and returns a ready connection with default
// settings.
func NewClient(ctx context.Context, command string, args ...string) (*client.Connection, client.Client, error) {
	return NewBuilder(command, args...).Build(ctx)
}

// FromConfig builds from a declarative server definition.
func FromConfig(s config.Server) *Builder {
	b := NewBuilder(s.Command, s.Args...).Envs(s.Env)
	if s.EnvFile != "" {
		b.EnvFile(s.EnvFile)
	}
	if s.EnvClear {
		b.EnvClear()
	}
	if len(s.EnvRemove) > 0 {
		b.EnvRemove(s.EnvRemove...)
	}
	if s.WorkingDir != "" {
		b.WorkingDir(s.WorkingDir)
	}
	if d := s.Timeout(); d > 0 {
		b.Timeout(d)
	}
	if s.ClientName != "" {
		b.ClientName(s.ClientName)
	}
	return b
}
