package stdio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"go.uber.org/zap"

	errs "github.com/mcpbridge/go-mcpbridge/src/errors"
)

// graceWindow is how long a child gets to exit after its stdin closes
// before it is killed.
const graceWindow = 5 * time.Second

type procState int32

const (
	stateRunning procState = iota
	stateCancelling
	stateStdinClosed
	stateWaitingGraceful
	stateForceKilled
	stateTerminated
)

func (s procState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateCancelling:
		return "cancelling"
	case stateStdinClosed:
		return "stdin-closed"
	case stateWaitingGraceful:
		return "waiting-graceful"
	case stateForceKilled:
		return "force-killed"
	case stateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// process supervises a spawned server child. A reap goroutine started at
// spawn time collects the exit status on every path, so the child is never
// left as a zombie.
type process struct {
	cmd    *exec.Cmd
	peer   *mcpclient.Client
	logger *zap.Logger
	grace  time.Duration

	state     atomic.Int32
	done      chan struct{}
	exitState *os.ProcessState
	exitRes   error

	pipes    []io.Closer
	pipeOnce sync.Once
}

func newProcess(cmd *exec.Cmd, peer *mcpclient.Client, logger *zap.Logger, pipes ...io.Closer) *process {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &process{
		cmd:    cmd,
		peer:   peer,
		logger: logger,
		grace:  graceWindow,
		done:   make(chan struct{}),
		pipes:  pipes,
	}
	go p.reap()
	return p
}

// reap waits on the process handle directly rather than exec.Cmd.Wait,
// which would close the stdio pipes on exit and could discard output the
// peer's reader has not drained yet. The pipes are closed in closePipes
// once teardown is past the point of reading them.
func (p *process) reap() {
	defer close(p.done)
	defer func() {
		if r := recover(); r != nil {
			p.exitRes = &errs.JoinError{Err: fmt.Errorf("wait panicked: %v", r)}
		}
	}()
	p.exitState, p.exitRes = p.cmd.Process.Wait()
}

func (p *process) closePipes() {
	p.pipeOnce.Do(func() {
		for _, c := range p.pipes {
			_ = c.Close()
		}
	})
}

// Shutdown walks the teardown sequence: close the peer (which closes the
// child's stdin), give the child the grace window to exit, then kill it.
// The returned error reflects the final outcome; a child that exits nonzero
// after being asked to stop is not a failure.
func (p *process) Shutdown(ctx context.Context) error {
	p.state.Store(int32(stateCancelling))

	var closeErr error
	if p.peer != nil {
		closeErr = p.peer.Close()
	}
	p.state.Store(int32(stateStdinClosed))

	p.state.Store(int32(stateWaitingGraceful))
	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
	case <-timer.C:
		p.kill()
		<-p.done
	case <-ctx.Done():
		p.kill()
		<-p.done
	}

	p.closePipes()
	p.state.Store(int32(stateTerminated))
	return p.finish(closeErr)
}

func (p *process) kill() {
	p.state.Store(int32(stateForceKilled))
	p.logger.Warn("server process did not exit in time, killing",
		zap.Int("pid", p.cmd.Process.Pid))
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Warn("kill failed", zap.Error(err))
	}
}

// finish folds the reap outcome and the peer close status into one result.
// The child's exit code is not consulted: a server asked to stop may exit
// nonzero or die to our kill signal.
func (p *process) finish(closeErr error) error {
	if p.exitRes != nil {
		if isJoinError(p.exitRes) {
			return p.exitRes
		}
		return &errs.IOError{Err: p.exitRes}
	}
	if closeErr != nil {
		return &errs.ServiceError{Err: closeErr}
	}
	return nil
}

func isJoinError(err error) bool {
	var je *errs.JoinError
	return errors.As(err, &je)
}

// Wait blocks until the child exits on its own or ctx ends.
func (p *process) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.finish(nil)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// forceTerminate kills the child immediately, used when startup fails after
// the spawn succeeded.
func (p *process) forceTerminate() {
	p.kill()
	<-p.done
	p.closePipes()
	p.state.Store(int32(stateTerminated))
}

func (p *process) currentState() procState {
	return procState(p.state.Load())
}
