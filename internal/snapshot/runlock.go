package snapshot

import (
	"sync"
)

// RunGroup enforces the per-snapshot single-flight discipline: at most one
// active run per snapshot id, with concurrent callers joining the in-flight
// run and sharing its outcome instead of starting their own.
type RunGroup struct {
	mu    sync.Mutex
	calls map[string]*call
}

type call struct {
	done   chan struct{}
	result interface{}
	err    error
}

// NewRunGroup creates an empty RunGroup.
func NewRunGroup() *RunGroup {
	return &RunGroup{calls: make(map[string]*call)}
}

// Do runs fn for the given snapshot id, unless a run for that id is already
// in flight, in which case it blocks and returns the in-flight run's result.
// The second return value reports whether this caller joined an existing run.
func (g *RunGroup) Do(id string, fn func() (interface{}, error)) (interface{}, bool, error) {
	g.mu.Lock()
	if existing, ok := g.calls[id]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.result, true, existing.err
	}

	c := &call{done: make(chan struct{})}
	g.calls[id] = c
	g.mu.Unlock()

	c.result, c.err = fn()

	g.mu.Lock()
	delete(g.calls, id)
	g.mu.Unlock()
	close(c.done)

	return c.result, false, c.err
}

// InFlight reports whether a run for the given snapshot id is active.
func (g *RunGroup) InFlight(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[id]
	return ok
}
