package iocache

import (
	"fmt"
	"regexp"

	"github.com/huangsam/ebb/schema"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// dialect holds the SQL that differs between backends. Queries take the
// quoted table name through a single %s verb.
type dialect struct {
	driver      string
	openHint    string // connection format shown when sql.Open fails
	quote       func(name string) string
	createTable string
	selectValue string
	upsert      string
}

func doubleQuote(name string) string { return `"` + name + `"` }

func backtick(name string) string { return "`" + name + "`" }

// dialects covers every backend with a SQL driver. The table layouts match
// version 1 of the embedded migrations.
var dialects = map[schema.DatabaseBackend]dialect{
	schema.SQLiteBackend: {
		driver:   "sqlite",
		openHint: "Ensure the directory is writable",
		quote:    doubleQuote,
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			store_key TEXT PRIMARY KEY,
			store_value BLOB NOT NULL,
			store_version INTEGER NOT NULL,
			store_timestamp INTEGER NOT NULL
		)`,
		selectValue: `SELECT store_value, store_version, store_timestamp FROM %s WHERE store_key = ?`,
		upsert:      `INSERT OR REPLACE INTO %s (store_key, store_value, store_version, store_timestamp) VALUES (?, ?, ?, ?)`,
	},
	schema.MySQLBackend: {
		driver:   "mysql",
		openHint: "Check connection format: user:password@tcp(host:port)/dbname",
		quote:    backtick,
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			store_key VARCHAR(255) PRIMARY KEY,
			store_value LONGBLOB NOT NULL,
			store_version INT NOT NULL,
			store_timestamp BIGINT NOT NULL
		)`,
		selectValue: `SELECT store_value, store_version, store_timestamp FROM %s WHERE store_key = ?`,
		upsert: `INSERT INTO %s (store_key, store_value, store_version, store_timestamp) VALUES (?, ?, ?, ?) AS incoming
			ON DUPLICATE KEY UPDATE store_value = incoming.store_value, store_version = incoming.store_version, store_timestamp = incoming.store_timestamp`,
	},
	schema.PostgreSQLBackend: {
		driver:   "pgx",
		openHint: "Check connection format: host=localhost port=5432 user=postgres dbname=mydb",
		quote:    doubleQuote,
		createTable: `CREATE TABLE IF NOT EXISTS %s (
			store_key TEXT PRIMARY KEY,
			store_value BYTEA NOT NULL,
			store_version INTEGER NOT NULL,
			store_timestamp BIGINT NOT NULL
		)`,
		selectValue: `SELECT store_value, store_version, store_timestamp FROM %s WHERE store_key = $1`,
		upsert: `INSERT INTO %s (store_key, store_value, store_version, store_timestamp) VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_key) DO UPDATE SET store_value = EXCLUDED.store_value, store_version = EXCLUDED.store_version, store_timestamp = EXCLUDED.store_timestamp`,
	},
}

// dialectFor returns the SQL dialect of a backend.
func dialectFor(backend schema.DatabaseBackend) (dialect, error) {
	d, ok := dialects[backend]
	if !ok {
		return dialect{}, fmt.Errorf("backend %s has no SQL driver", backend)
	}
	return d, nil
}

// driverFor returns the database/sql driver name for a SQL backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	d, err := dialectFor(backend)
	return d.driver, err
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if d, ok := dialects[backend]; ok {
		return d.quote(name)
	}
	return doubleQuote(name)
}
