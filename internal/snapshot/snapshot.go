package snapshot

import (
	"time"

	"github.com/google/uuid"
)

// SourceKind tells how a snapshot was materialized.
type SourceKind string

const (
	SourceCloned    SourceKind = "cloned"
	SourceExtracted SourceKind = "extracted"
)

// Snapshot is an immutable reference to a materialized file tree under
// analysis. The engine owns the tree for the duration of one run; creation
// and deletion of the tree belong to the surrounding service.
type Snapshot struct {
	ID        string     `json:"id"`
	Kind      SourceKind `json:"kind"`
	Root      string     `json:"root"`
	CreatedAt time.Time  `json:"created_at"`
}

// New creates a snapshot reference with a fresh identity.
func New(kind SourceKind, root string) *Snapshot {
	return &Snapshot{
		ID:        uuid.New().String(),
		Kind:      kind,
		Root:      root,
		CreatedAt: time.Now().UTC(),
	}
}

// FromPath wraps an already-materialized local tree as an extracted snapshot.
func FromPath(root string) *Snapshot {
	return New(SourceExtracted, root)
}
