package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/internal/iocache"
	"github.com/huangsam/ebb/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeConfigSetup loads the minimal configuration needed for store operations.
// It validates the backend without opening it.
func storeConfigSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("store-backend")))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, memory, none", backend)
	}
	connStr := viper.GetString("store-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr
	return nil
}

// storeSetupWrapper loads store config and opens the store for status queries.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := storeConfigSetup(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// storeConfigSetupWrapper loads store config only. Clearing and migrating must not
// hold the store open.
func storeConfigSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeConfigSetup()
}

// storeCmd focused on store management.
//
// Note: Store subcommands use minimal initialization instead of the full sharedSetup
// used by analysis commands.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the store that keeps signals and experiments",
	Long: `Manage the key/value store that keeps your signals, experiments, day logs and
suggestion history.

Supported backends: SQLite (default), MySQL, PostgreSQL, memory, or none

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations

Examples:
  # Check store status
  ebb store status

  # Use MySQL (set connection string via env variable)
  EBB_STORE_BACKEND=mysql EBB_STORE_DB_CONNECT="user:pass@tcp(localhost:3306)/ebb" ebb store status`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show the backend type and connection status, the number of stored entries,
the last and oldest write times, and the stored size.`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		if err := iocache.PrintStoreStatus(os.Stdout, status); err != nil {
			contract.LogFatal("Failed to print store status", err)
		}
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored signals and experiments",
	Long: `Delete everything in the configured store. This cannot be undone.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the store table

Examples:
  # Clear SQLite store (default)
  ebb store clear`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearStore(cfg.StoreBackend, contract.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ebb store migrate

  # Rollback to initial state
  ebb store migrate --target-version 0`,
	PreRunE: storeConfigSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(os.Stdout, cfg.StoreBackend, cfg.StoreDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
