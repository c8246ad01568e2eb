package iocache

import (
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager hands tests a store without touching the global Manager.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// NewMockManagerFor returns a manager whose GetStore always yields store.
func NewMockManagerFor(store contract.CacheStore) *MockCacheManager {
	mgr := &MockCacheManager{}
	mgr.On("GetStore").Return(store)
	return mgr
}

// GetStore returns the store registered with On("GetStore").
func (m *MockCacheManager) GetStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// MockCacheStore records key/value calls so tests can inject read and write failures.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get returns the blob, version and timestamp registered for key.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	ts, _ := args.Get(2).(int64)
	return data, args.Int(1), ts, args.Error(3)
}

// Set records the write and returns the registered error.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	return m.Called(key, data, version, ts).Error(0)
}

// Close returns the registered error.
func (m *MockCacheStore) Close() error {
	return m.Called().Error(0)
}

// GetStatus returns the registered status.
func (m *MockCacheStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	status, _ := args.Get(0).(schema.StoreStatus)
	return status, args.Error(1)
}
