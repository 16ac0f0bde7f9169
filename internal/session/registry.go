package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out one TripSession per user for the life of the process.
// Sessions are never evicted: memory grows by one small session per user who
// has authenticated since start. A session is rebuilt from the store on demand,
// so dropping idle ones later would only cost a reload.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	sessions map[uuid.UUID]*TripSession
}

// NewRegistry returns a Registry whose sessions share deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: map[uuid.UUID]*TripSession{}}
}

// For returns the user's session, creating it on first use.
func (r *Registry) For(userID uuid.UUID) *TripSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	if !ok {
		s = New(userID, r.deps)
		r.sessions[userID] = s
	}
	return s
}
