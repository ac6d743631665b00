// Package kvstore is the persistence seam of the storefront. Every state
// store gets handed a Store instead of touching storage directly, so tests
// can inject doubles and backends can be swapped without touching the
// stores themselves.
package kvstore

import "sync"

// Store mirrors the contract of browser local storage: synchronous, string
// keyed, string valued, last write wins. No transactions span keys and no
// expiry exists; callers own serialization.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is the in-process backend, used by tests and as the default when
// no file or database is configured.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
