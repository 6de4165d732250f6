package store

import (
	"context"
	"sync"
)

// Manager hands out one Store per session ID, hydrating each store on first
// access.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	opts      Options
}

// NewManager creates a session store manager.
func NewManager(persister Persister, opts Options) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
		opts:      opts,
	}
}

// Get returns the store for a session, creating and hydrating it on first
// use. Hydration is synchronous so callers always see restored state.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	s, ok := m.stores[sessionID]
	if !ok {
		s = New(sessionID, m.persister, m.opts)
		m.stores[sessionID] = s
	}
	m.mu.Unlock()
	s.Hydrate(ctx)
	return s
}

// Peek returns the store for a session without creating one.
func (m *Manager) Peek(sessionID string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[sessionID]
	return s, ok
}

// Drop forgets a session's in-memory store and deletes its persisted state.
func (m *Manager) Drop(ctx context.Context, sessionID string) {
	m.mu.Lock()
	s, ok := m.stores[sessionID]
	delete(m.stores, sessionID)
	m.mu.Unlock()
	if ok && m.persister != nil {
		_ = m.persister.Delete(ctx, s.key())
	}
}
