package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTreeLockSharedPerRoot(t *testing.T) {
	root := t.TempDir()
	assert.Same(t, TreeLock(root), TreeLock(root))
	assert.NotSame(t, TreeLock(root), TreeLock(t.TempDir()))
}

func TestTreeLockWriterExcludesReaders(t *testing.T) {
	lock := TreeLock(t.TempDir())
	lock.Lock()
	assert.False(t, lock.TryRLock())
	lock.Unlock()

	assert.True(t, lock.TryRLock())
	lock.RUnlock()
}
