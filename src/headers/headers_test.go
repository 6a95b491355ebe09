package headers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHeaders(t *testing.T) {
	h := ContextHeaders()

	_, err := uuid.Parse(h[ConnectionID])
	require.NoError(t, err, "connection id must be a valid uuid")

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, h[Pwd])
}

func TestContextHeadersUniquePerConnection(t *testing.T) {
	assert.NotEqual(t, ContextHeaders()[ConnectionID], ContextHeaders()[ConnectionID])
}

func TestFindGitRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, ok := findGitRoot(nested)
	require.True(t, ok)
	assert.Equal(t, root, got)

	_, ok = findGitRoot(string(os.PathSeparator) + "nonexistent-path-for-tests")
	assert.False(t, ok)
}
