package attribute

import (
	"context"
	"sync"
)

// MemoryStore backs tests and local runs without Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	attrs map[int64]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attrs: make(map[int64]map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, customerID int64, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.attrs[customerID][field]
	if !ok {
		return "", ErrAttributeNotFound
	}
	return value, nil
}

func (m *MemoryStore) GetAll(_ context.Context, customerID int64) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.attrs[customerID]))
	for k, v := range m.attrs[customerID] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, customerID int64, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attrs[customerID] == nil {
		m.attrs[customerID] = make(map[string]string)
	}
	m.attrs[customerID][field] = value
	return nil
}
