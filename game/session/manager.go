package session

import (
	"sync"
	"time"

	"github.com/bingohall/server/game/engine"
	"github.com/bingohall/server/game/service"
)

var (
	ErrGameNotFound      = &engine.Error{Code: engine.CodeNotFound, Message: "game not found"}
	ErrGameAlreadyExists = &engine.Error{Code: engine.CodeDuplicate, Message: "game already exists"}
)

// Manager is the registry of live game sessions.
type Manager struct {
	sessions map[string]*service.Session
	mu       sync.RWMutex
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*service.Session),
	}
}

// Create registers a new game engine under its id.
func (m *Manager) Create(eng *engine.GameEngine) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := eng.ID()
	if _, exists := m.sessions[id]; exists {
		return nil, ErrGameAlreadyExists
	}

	sess := &service.Session{
		ID:        id,
		Engine:    eng,
		CreatedAt: time.Now(),
	}
	m.sessions[id] = sess
	return sess, nil
}

// Get retrieves a session by game id.
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, exists := m.sessions[id]
	if !exists {
		return nil, ErrGameNotFound
	}
	return sess, nil
}

// List returns all live sessions. The registry lock is released before the
// caller touches any per-session lock, so listing never blocks mutations
// for longer than the map copy.
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	return result
}

// Delete removes a session from the registry.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return ErrGameNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
