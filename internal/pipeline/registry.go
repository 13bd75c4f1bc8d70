package pipeline

import (
	"fmt"
	"sync"
)

// Registry keeps the runs started by a server process.
type Registry struct {
	mu    sync.RWMutex
	runs  map[string]*Run
	order []string // Maintains registration order
	limit int
}

// NewRegistry creates an empty run registry keeping at most limit runs,
// dropping the oldest first. limit <= 0 keeps every run.
func NewRegistry(limit int) *Registry {
	return &Registry{
		runs:  make(map[string]*Run),
		order: make([]string, 0),
		limit: limit,
	}
}

// Register adds a run to the registry.
// Returns an error if a run with the same ID is already registered.
func (r *Registry) Register(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := run.ID()
	if _, exists := r.runs[id]; exists {
		return fmt.Errorf("%w: %s", ErrRunAlreadyRegistered, id)
	}

	r.runs[id] = run
	r.order = append(r.order, id)

	for r.limit > 0 && len(r.order) > r.limit {
		delete(r.runs, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

// Get returns a run by ID.
func (r *Registry) Get(id string) (*Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// List returns all runs, newest first.
func (r *Registry) List() []*Run {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*Run, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		runs = append(runs, r.runs[r.order[i]])
	}
	return runs
}

// Len returns the number of registered runs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
