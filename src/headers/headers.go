// Package headers defines the well-known header names used to propagate
// caller-side context to a remote peer over HTTP-based transports.
package headers

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	// ConnectionID carries a unique identifier for this client connection.
	ConnectionID = "X-Mcpbridge-Connection-Id"
	// Pwd carries the caller's working directory.
	Pwd = "X-Mcpbridge-Pwd"
	// GitRoot carries the repository root enclosing the working directory.
	GitRoot = "X-Mcpbridge-Gitroot"
)

// ContextHeaders assembles the outbound header map for a new connection:
// a fresh connection id, the working directory, and the enclosing git root
// when one exists.
func ContextHeaders() map[string]string {
	h := map[string]string{
		ConnectionID: uuid.NewString(),
	}
	wd, err := os.Getwd()
	if err != nil {
		return h
	}
	h[Pwd] = wd
	if root, ok := findGitRoot(wd); ok {
		h[GitRoot] = root
	}
	return h
}

// findGitRoot walks upward from dir looking for a .git entry. A plain file
// counts too, to cover linked worktrees.
func findGitRoot(dir string) (string, bool) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
