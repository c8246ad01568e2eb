// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import "github.com/huangsam/ebb/schema"

// CacheManager defines the interface for managing the key/value store.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetStore() CacheStore
}

// CacheStore defines the whole-value key/value contract used for persisted state.
// A missing key is reported as sql.ErrNoRows.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.StoreStatus, error)
	Close() error
}

// SignalSource supplies the full history of capacity signals.
type SignalSource interface {
	ListSignals() ([]schema.Signal, error)
}

// SignalAppender is a SignalSource that can also record new signals.
type SignalAppender interface {
	SignalSource
	AppendSignals(signals ...schema.Signal) error
}
