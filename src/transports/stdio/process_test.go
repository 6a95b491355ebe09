package stdio

import (
	"context"
	"io"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests drive the supervisor directly with plain commands and no
// peer, isolating the teardown sequence from the protocol.

func TestShutdownKillsStubbornChild(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil)
	p.grace = 100 * time.Millisecond

	start := time.Now()
	err := p.Shutdown(context.Background())
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, stateTerminated, p.currentState())
	require.NotNil(t, p.exitState)
	assert.False(t, p.exitState.Success())
}

func TestShutdownGracefulExit(t *testing.T) {
	cmd := exec.Command("cat")
	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil)

	// cat exits as soon as its stdin closes, well inside the grace
	// window.
	require.NoError(t, stdin.Close())

	err = p.Shutdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stateTerminated, p.currentState())
	require.NotNil(t, p.exitState)
	assert.True(t, p.exitState.Success())
}

func TestReapLeavesStdoutReadable(t *testing.T) {
	cmd := exec.Command("sh", "-c", "printf 'final message\\n'")
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil, stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))

	// Output written just before exit must still be readable after the
	// child has been reaped.
	data, err := io.ReadAll(stdout)
	require.NoError(t, err)
	assert.Equal(t, "final message\n", string(data))
}

func TestShutdownHonorsContext(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := p.Shutdown(ctx)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, stateTerminated, p.currentState())
}

func TestWaitObservesNaturalExit(t *testing.T) {
	cmd := exec.Command("sleep", "0.1")
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestWaitHonorsContext(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())

	p := newProcess(cmd, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := p.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	p.forceTerminate()
	assert.Equal(t, stateTerminated, p.currentState())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", stateRunning.String())
	assert.Equal(t, "force-killed", stateForceKilled.String())
	assert.Equal(t, "terminated", stateTerminated.String())
}
