// Package errors defines the failure taxonomy for the client runtime and the
// classification helpers callers use to pick a retry strategy without
// matching every variant.
package errors

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"
)

// TransportType identifies the transport family involved in a connection or
// initialization failure.
type TransportType string

const (
	TransportHTTP  TransportType = "http"
	TransportStdio TransportType = "stdio"
	TransportSSE   TransportType = "sse"
)

// ProtocolError reports an application-level protocol violation: a request
// the runtime refuses to send, or a response whose shape it cannot use.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return "MCP protocol error: " + e.Message
}

// IOError wraps a low-level transport I/O failure.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "IO error: " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

// InitError reports a failed handshake after the transport itself was
// established.
type InitError struct {
	Transport TransportType
	Endpoint  string
	Err       error
}

func (e *InitError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("client initialization error (%s %s): %v", e.Transport, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("client initialization error (%s): %v", e.Transport, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// ServiceError wraps a mid-session fault reported by the underlying channel:
// closed connection, failed send, cancellation, or a peer-reported error.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string { return "service error: " + e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// JoinError reports that a background task supporting a call failed
// unexpectedly.
type JoinError struct {
	Err error
}

func (e *JoinError) Error() string { return "task join error: " + e.Err.Error() }

func (e *JoinError) Unwrap() error { return e.Err }

// TimeoutError reports that a call did not complete within the issuing
// handle's timeout.
type TimeoutError struct {
	Operation string
	Duration  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Duration)
}

// ParseError reports that typed decoding of a successful tool payload failed.
type ParseError struct {
	ToolName string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response from tool %q: %v", e.ToolName, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ConnectionError reports a failure to establish or configure a transport:
// invalid configuration, spawn failure, or an unreachable endpoint.
type ConnectionError struct {
	Message   string
	Transport TransportType
	Endpoint  string
	Err       error
}

func (e *ConnectionError) Error() string {
	msg := "connection error: " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Kind returns a short stable name for the taxonomy variant err belongs to,
// or "unknown" for foreign errors.
func Kind(err error) string {
	var (
		protocolErr   *ProtocolError
		ioErr         *IOError
		initErr       *InitError
		serviceErr    *ServiceError
		joinErr       *JoinError
		timeoutErr    *TimeoutError
		parseErr      *ParseError
		connectionErr *ConnectionError
	)
	switch {
	case errors.As(err, &protocolErr):
		return "protocol"
	case errors.As(err, &ioErr):
		return "io"
	case errors.As(err, &initErr):
		return "init"
	case errors.As(err, &serviceErr):
		return "service"
	case errors.As(err, &joinErr):
		return "join"
	case errors.As(err, &timeoutErr):
		return "timeout"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.As(err, &connectionErr):
		return "connection"
	default:
		return "unknown"
	}
}

// brokenProbes are channel-fault substrings that indicate the transport is
// gone rather than a single request having failed.
var brokenProbes = []string{
	"connection closed",
	"connection reset",
	"transport closed",
	"transport not started",
	"broken pipe",
	"client not started",
	"send failed",
	"use of closed",
	"eof",
}

// IsConnectionBroken reports whether err means the underlying channel is dead
// and the caller must reconnect before retrying.
func IsConnectionBroken(err error) bool {
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return true
	}
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, probe := range brokenProbes {
		if strings.Contains(msg, probe) {
			return true
		}
	}
	return false
}

// expiredProbes are peer-response substrings that signal the session or its
// credentials were rejected mid-stream.
var expiredProbes = []string{
	"unauthorized",
	"401",
	"session expired",
	"session not found",
	"session terminated",
	"invalid session",
	"authentication",
}

// IsSessionExpired reports whether err means the peer rejected the session
// itself; the caller should re-authenticate and retry.
func IsSessionExpired(err error) bool {
	var serviceErr *ServiceError
	if !errors.As(err, &serviceErr) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, probe := range expiredProbes {
		if strings.Contains(msg, probe) {
			return true
		}
	}
	return false
}
