package credentials

import (
	"context"
	"sync"
)

// MemoryRepository keeps credentials in process memory. It does not survive
// restarts and is meant for tests and throwaway sessions.
type MemoryRepository struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryRepository) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepository) Update(_ context.Context, set map[string][]byte, del ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range set {
		m.data[k] = append([]byte(nil), v...)
	}
	for _, k := range del {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *MemoryRepository) Close() error { return nil }
