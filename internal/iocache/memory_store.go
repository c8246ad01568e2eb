package iocache

import (
	"database/sql"
	"sync"
	"time"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
)

type memoryEntry struct {
	value     []byte
	version   int
	timestamp int64
}

// MemoryStore is a process-local key/value store. Values are copied on the way
// in and out so callers never share buffers with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

var _ contract.CacheStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Get retrieves a value by key from the store.
func (m *MemoryStore) Get(key string) ([]byte, int, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return append([]byte(nil), e.value...), e.version, e.timestamp, nil
}

// Set inserts or replaces a key/value pair in the store.
func (m *MemoryStore) Set(key string, value []byte, version int, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: append([]byte(nil), value...), version: version, timestamp: timestamp}
	return nil
}

// GetStatus returns status information about the store.
func (m *MemoryStore) GetStatus() (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := schema.StoreStatus{
		Backend:      string(schema.MemoryBackend),
		Connected:    true,
		TotalEntries: len(m.entries),
	}
	var first = true
	var lastTs, oldestTs int64
	for _, e := range m.entries {
		status.TableSizeBytes += int64(len(e.value))
		if first || e.timestamp > lastTs {
			lastTs = e.timestamp
		}
		if first || e.timestamp < oldestTs {
			oldestTs = e.timestamp
		}
		first = false
	}
	if !first {
		status.LastEntryTime = time.Unix(lastTs, 0)
		status.OldestEntryTime = time.Unix(oldestTs, 0)
	}
	return status, nil
}

// Close drops every entry.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}
