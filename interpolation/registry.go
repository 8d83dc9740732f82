package interpolation

import (
	"sync"
	"time"
)

// Registry holds the Interpolator of every remote character, keyed by entity ID.
type Registry struct {
	capacity    int
	renderDelay time.Duration

	interpolators map[uint64]*Interpolator
	mu            sync.Mutex
}

// NewRegistry returns an empty Registry creating interpolators with the settings passed.
func NewRegistry(capacity int, renderDelay time.Duration) *Registry {
	return &Registry{
		capacity:      capacity,
		renderDelay:   renderDelay,
		interpolators: make(map[uint64]*Interpolator),
	}
}

// Get returns the Interpolator of the entity passed, creating it if it does not exist yet.
func (r *Registry) Get(id uint64) *Interpolator {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.interpolators[id]
	if !ok {
		i = New(r.capacity, r.renderDelay)
		r.interpolators[id] = i
	}
	return i
}

// Remove drops the Interpolator of the entity passed.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	delete(r.interpolators, id)
	r.mu.Unlock()
}

// Range calls f for every entity until f returns false. f must not call other methods of
// the Registry.
func (r *Registry) Range(f func(id uint64, i *Interpolator) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, i := range r.interpolators {
		if !f(id, i) {
			return
		}
	}
}

// Clear drops every Interpolator.
func (r *Registry) Clear() {
	r.mu.Lock()
	clear(r.interpolators)
	r.mu.Unlock()
}
