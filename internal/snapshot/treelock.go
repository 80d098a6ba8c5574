package snapshot

import (
	"path/filepath"
	"sync"
)

// treeLocks keys shared tree locks by canonical root path. Snapshot ids are
// fresh per construction, so components working on the same materialized tree
// have to meet on the path instead.
var treeLocks sync.Map

// TreeLock returns the read-write lock guarding the tree at root. Read
// stages (analysis, scanning) take the read side; remediation takes the
// write side, so extraction never observes a half-mutated tree.
func TreeLock(root string) *sync.RWMutex {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	lock, _ := treeLocks.LoadOrStore(abs, &sync.RWMutex{})
	return lock.(*sync.RWMutex)
}
