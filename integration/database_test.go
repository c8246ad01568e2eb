//go:build database

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/huangsam/ebb/internal/iocache"
	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer starts req and returns the host and mapped port for port.
func startContainer(t *testing.T, ctx context.Context, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host, mapped.Port()
}

// exerciseBackend migrates the store, checks the key/value contract directly
// and then drives the CLI against the same database.
func exerciseBackend(t *testing.T, backend schema.DatabaseBackend, connStr string) {
	var migrateOut bytes.Buffer
	require.NoError(t, iocache.MigrateStore(&migrateOut, backend, connStr, -1))
	assert.Contains(t, migrateOut.String(), "Successfully migrated")

	t.Run("key value contract", func(t *testing.T) {
		store, err := iocache.NewCacheStore("ebb_store", backend, connStr)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		_, _, _, err = store.Get("missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		ts := time.Now().UnixMilli()
		require.NoError(t, store.Set("ebb:probe", []byte(`{"ok":true}`), 1, ts))
		require.NoError(t, store.Set("ebb:probe", []byte(`{"ok":false}`), 2, ts+1))

		value, version, got, err := store.Get("ebb:probe")
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":false}`, string(value))
		assert.Equal(t, 2, version)
		assert.Equal(t, ts+1, got)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.True(t, status.Connected)
		assert.Equal(t, 1, status.TotalEntries)
	})

	t.Run("cli", func(t *testing.T) {
		dir := t.TempDir()
		env := []string{
			"EBB_STORE_BACKEND=" + string(backend),
			"EBB_STORE_DB_CONNECT=" + connStr,
			"EBB_COLOR=no",
		}

		_, err := runEbb(t, dir, env, "signal", "add", "--state", "low", "--category", "sensory", "--tag", "noise")
		require.NoError(t, err)
		_, err = runEbb(t, dir, env, "signal", "add", "--state", "high")
		require.NoError(t, err)

		out, err := runEbb(t, dir, env, "signal", "list", "--output", "csv")
		require.NoError(t, err)
		assert.Contains(t, out, "sensory")
		assert.Contains(t, out, "high")

		out, err = runEbb(t, dir, env, "store", "status")
		require.NoError(t, err)
		assert.Contains(t, out, string(backend))

		_, err = runEbb(t, dir, env, "store", "clear")
		require.NoError(t, err)
	})
}

// TestEbbWithMySQL runs the store against a MySQL container.
func TestEbbWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "ebb",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	host, port := startContainer(t, ctx, req, "3306")

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/ebb?parseTime=true&multiStatements=true", host, port)
	exerciseBackend(t, schema.MySQLBackend, connStr)
}

// TestEbbWithPostgres runs the store against a PostgreSQL container.
func TestEbbWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	host, port := startContainer(t, ctx, req, "5432")

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres", host, port)
	exerciseBackend(t, schema.PostgreSQLBackend, connStr)
}
