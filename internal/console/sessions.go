package console

import (
	"sync"

	"carmodel-inventory/internal/reconcile"

	"github.com/google/uuid"
)

// SessionRegistry indexes the open edit sessions by id. Sessions share no
// state; the registry only maps ids to them.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*reconcile.Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*reconcile.Session)}
}

// Open registers s and returns its id.
func (r *SessionRegistry) Open(s *reconcile.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id
}

func (r *SessionRegistry) Get(id string) (*reconcile.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close discards the session. A submission already in flight still runs to
// completion; its result is just no longer observed.
func (r *SessionRegistry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
