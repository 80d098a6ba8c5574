package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentReaderCachesReads(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	reader, err := NewContentReader(root)
	require.NoError(t, err)

	first, err := reader.Read("app.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(first.Data))
	assert.NotEmpty(t, first.Hash)

	// the cache keeps serving the old bytes until invalidated
	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
	cached, err := reader.Read("app.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(cached.Data))

	reader.Invalidate("app.py")
	fresh, err := reader.Read("app.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 2\n", string(fresh.Data))
	assert.NotEqual(t, first.Hash, fresh.Hash)
}

func TestContentReaderHashFileBypassesCache(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	reader, err := NewContentReader(root)
	require.NoError(t, err)

	content, err := reader.Read("app.py")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("x = 2\n"), 0o644))
	hash, err := reader.HashFile("app.py")
	require.NoError(t, err)
	assert.NotEqual(t, content.Hash, hash)
}

func TestContentReaderMissingFile(t *testing.T) {
	reader, err := NewContentReader(t.TempDir())
	require.NoError(t, err)

	_, err = reader.Read("missing.py")
	assert.Error(t, err)
}

func TestSnapshotIdentity(t *testing.T) {
	first := FromPath("/tmp/tree")
	second := FromPath("/tmp/tree")

	assert.Equal(t, SourceExtracted, first.Kind)
	assert.Equal(t, "/tmp/tree", first.Root)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}
