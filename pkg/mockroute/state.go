package mockroute

import (
	"maps"
	"sync"
)

// Hits counts requests per route identifier. It is safe for concurrent use.
type Hits struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewHits creates an empty counter set.
func NewHits() *Hits {
	return &Hits{counts: make(map[string]int)}
}

// Inc increments the count for id and returns the new value.
func (h *Hits) Inc(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counts[id]++
	return h.counts[id]
}

// Get returns the count for id.
func (h *Hits) Get(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[id]
}

// Snapshot returns a copy of all counts.
func (h *Hits) Snapshot() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.counts)
}

// State is the application state of a server built from declared routes.
// Copies share the same Hits.
type State struct {
	Hits *Hits
}

// NewState creates a State with empty hit counts.
func NewState() State {
	return State{Hits: NewHits()}
}
