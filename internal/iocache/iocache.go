// Package iocache persists whole-value blobs in a key/value store backed by SQL databases.
package iocache

import (
	"sync"

	"github.com/huangsam/ebb/internal/contract"
)

// CacheStoreManager holds the process-wide key/value store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetStore returns the key/value store.
func (mgr *CacheStoreManager) GetStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
