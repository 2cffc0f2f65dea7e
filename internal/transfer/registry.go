package transfer

import (
	"sync"
	"time"
)

// Registry holds live sessions in memory. Each Session serialises its own operations.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.id] = s
}

func (r *Registry) get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Sweep drops sessions untouched since before cutoff and returns how many went.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.lastTouched().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
