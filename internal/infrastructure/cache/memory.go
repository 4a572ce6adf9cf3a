package cache

import (
	"context"
	"sync"
	"time"
)

// memoryStore is the in-process fallback backend. It mirrors the remote
// contract exactly: expiry is an absolute deadline computed at set time and
// enforced lazily on read, which also removes the dead entry.
//
// A single mutex is sufficient: entries are independent and operations are
// map lookups, so per-key locking buys nothing here.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value string
	// expiresAt is zero when the entry never expires.
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]memoryEntry)}
}

func (m *memoryStore) set(_ context.Context, key, value string, ttl time.Duration) error {
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *memoryStore) del(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	delete(m.entries, key)
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		// Expired entries behave as absent.
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) close() {}
