package session

import (
	"sync"

	"github.com/google/uuid"

	"careplan-assistant/internal/core"
)

// Manager keys live session stores by opaque UUID so every browser session
// gets its own isolated store. Nothing here is persisted; ending a session or
// restarting the process discards its state.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*core.SessionStore
}

// NewManager returns an empty session registry.
func NewManager() *Manager {
	return &Manager{stores: map[string]*core.SessionStore{}}
}

// Create registers a fresh session and returns its ID and store.
func (m *Manager) Create() (string, *core.SessionStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	store := core.NewSessionStore()
	m.stores[id] = store
	return id, store
}

// Get returns the store for id, if it is still live.
func (m *Manager) Get(id string) (*core.SessionStore, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.stores[id]
	return store, ok
}

// GetOrCreate resolves id to its store, minting a new session when the ID is
// unknown or empty (expired cookie, first visit).
func (m *Manager) GetOrCreate(id string) (string, *core.SessionStore) {
	m.mu.Lock()
	if store, ok := m.stores[id]; ok {
		m.mu.Unlock()
		return id, store
	}
	m.mu.Unlock()
	return m.Create()
}

// End drops the session and everything it held.
func (m *Manager) End(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, id)
}
