package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral hosts.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  []byte
	set   bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Save persists the token and user payload.
func (m *MemoryStore) Save(ctx context.Context, token string, user []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = append([]byte(nil), user...)
	m.set = true
	return nil
}

// Load returns the persisted values, or ErrNotFound.
func (m *MemoryStore) Load(ctx context.Context) (string, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", nil, ErrNotFound
	}
	return m.token, append([]byte(nil), m.user...), nil
}

// Clear removes both slots.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	m.set = false
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
