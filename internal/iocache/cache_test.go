package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite file", func(t *testing.T) {
		resetGlobals()
		dbPath := filepath.Join(t.TempDir(), "ebb.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetStore())
		CloseStores()

		_, err := os.Stat(dbPath)
		assert.False(t, os.IsNotExist(err), "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals()
		dbPath := filepath.Join(t.TempDir(), "ebb.db")

		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitStores(schema.SQLiteBackend, dbPath))
		first := Manager.GetStore()
		assert.NoError(t, InitStores(schema.MemoryBackend, ""))
		assert.Same(t, first, Manager.GetStore(), "later calls must not replace the store")

		CloseStores()
		CloseStores()
	})

	t.Run("invalid backend", func(t *testing.T) {
		resetGlobals()
		err := InitStores("redis", "")
		assert.Error(t, err)
		assert.Nil(t, Manager.GetStore())
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals()
		require.NoError(t, InitStores(schema.NoneBackend, ""))
		store := Manager.GetStore()
		require.NotNil(t, store)

		_, _, _, err := store.Get("signals")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, store.Set("signals", []byte("[]"), 1, 100))
		_, _, _, err = store.Get("signals")
		assert.ErrorIs(t, err, sql.ErrNoRows, "none backend drops writes")

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		CloseStores()
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		tableName string
		wantErr   bool
	}{
		{"ebb_store", false},
		{"_store_2", false},
		{"Store", false},
		{"", true},
		{"1store", true},
		{"ebb-store", true},
		{"ebb store", true},
		{"ebb.store", true},
		{"x'; DROP TABLE users; --", true},
	}

	for _, tt := range tests {
		t.Run(tt.tableName, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err := NewCacheStore("bad name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"ebb_store"`, quoteTableName("ebb_store", schema.SQLiteBackend))
	assert.Equal(t, "`ebb_store`", quoteTableName("ebb_store", schema.MySQLBackend))
	assert.Equal(t, `"ebb_store"`, quoteTableName("ebb_store", schema.PostgreSQLBackend))
}

func TestDriverFor(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverFor(backend)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := driverFor(schema.MemoryBackend)
	assert.Error(t, err)
}

func TestSQLiteBackendOperations(t *testing.T) {
	newStore := func(t *testing.T) *CacheStoreImpl {
		store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store.(*CacheStoreImpl)
	}

	t.Run("set and get", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set("experiments", []byte(`{"v":1}`), 1, 1234567890))

		value, version, ts, err := store.Get("experiments")
		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, string(value))
		assert.Equal(t, 1, version)
		assert.Equal(t, int64(1234567890), ts)
	})

	t.Run("upsert replaces whole value", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set("k", []byte("initial"), 1, 1000))
		require.NoError(t, store.Set("k", []byte("updated"), 2, 2000))

		value, version, ts, err := store.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "updated", string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(2000), ts)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newStore(t)
		_, _, _, err := store.Get("missing")
		assert.Equal(t, sql.ErrNoRows, err)
	})

	t.Run("status", func(t *testing.T) {
		store := newStore(t)
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 0, status.TotalEntries)

		require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
		require.NoError(t, store.Set("b", []byte("2"), 1, 3000))
		status, err = store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.Equal(t, 2, status.TotalEntries)
		assert.Equal(t, int64(3000), status.LastEntryTime.Unix())
		assert.Equal(t, int64(1000), status.OldestEntryTime.Unix())
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})
}

func TestDialectQueries(t *testing.T) {
	tests := []struct {
		backend      schema.DatabaseBackend
		wantSelect   string
		wantContains []string
	}{
		{schema.SQLiteBackend, "store_key = ?", []string{"INSERT OR REPLACE", `"ebb_store"`}},
		{schema.MySQLBackend, "store_key = ?", []string{"ON DUPLICATE KEY UPDATE", "`ebb_store`"}},
		{schema.PostgreSQLBackend, "store_key = $1", []string{"ON CONFLICT (store_key)", "DO UPDATE SET", "$4"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			d, err := dialectFor(tt.backend)
			require.NoError(t, err)
			store := &CacheStoreImpl{backend: tt.backend, tableName: storeTable, dialect: d}

			assert.Contains(t, store.query(d.selectValue), tt.wantSelect)
			assert.Contains(t, store.query(d.createTable), "CREATE TABLE IF NOT EXISTS "+quoteTableName(storeTable, tt.backend))
			upsert := store.query(d.upsert)
			for _, want := range tt.wantContains {
				assert.Contains(t, upsert, want)
			}
		})
	}

	_, err := dialectFor(schema.NoneBackend)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	_, _, _, err := store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	buf := []byte("abc")
	require.NoError(t, store.Set("k", buf, 3, 50))
	buf[0] = 'z'

	value, version, ts, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(value), "stored value must not alias the caller buffer")
	assert.Equal(t, 3, version)
	assert.Equal(t, int64(50), ts)

	require.NoError(t, store.Set("j", []byte("defg"), 1, 10))
	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, int64(7), status.TableSizeBytes)
	assert.Equal(t, int64(50), status.LastEntryTime.Unix())
	assert.Equal(t, int64(10), status.OldestEntryTime.Unix())

	require.NoError(t, store.Close())
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClearStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ebb.db")
	store, err := NewCacheStore(storeTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v"), 1, 1))
	require.NoError(t, store.Close())

	require.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing a missing file is fine
	assert.NoError(t, ClearStore(schema.SQLiteBackend, dbPath, ""))
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearStore(schema.MemoryBackend, "", ""))
	assert.NoError(t, ClearStore(schema.NoneBackend, "", ""))
	assert.Error(t, ClearStore("redis", "", ""))
}

func TestPrintStoreStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintStoreStatus(&buf, schema.StoreStatus{Backend: "none"}))
	assert.Contains(t, buf.String(), "Store Backend: none")
	assert.NotContains(t, buf.String(), "Total Entries")

	buf.Reset()
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", []byte("v"), 1, 1700000000))
	status, err := store.GetStatus()
	require.NoError(t, err)
	require.NoError(t, PrintStoreStatus(&buf, status))
	assert.Contains(t, buf.String(), "Total Entries: 1")
	assert.Contains(t, buf.String(), "Last Entry:")
	assert.Contains(t, buf.String(), "Table Size: 1 bytes")
}
