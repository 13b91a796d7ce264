package recipe

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates the session id is unknown to the manager.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager tracks live recipe sessions by id. Each session belongs to a
// single operator; the manager only guards the registry itself.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	now      func() time.Time
}

// NewSessionManager creates a new session manager.
func NewSessionManager(now func() time.Time) *SessionManager {
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		now:      now,
	}
}

// Create registers a fresh empty session and returns it.
func (sm *SessionManager) Create() *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session := NewSession(uuid.New().String(), sm.now)
	sm.sessions[session.ID()] = session
	return session
}

// Get retrieves a session by id.
func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if session, exists := sm.sessions[id]; exists {
		return session, nil
	}
	return nil, ErrSessionNotFound
}

// Remove drops a session from the registry.
func (sm *SessionManager) Remove(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, id)
}
