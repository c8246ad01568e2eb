package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/ebb/schema"
)

// Default values for configuration.
const (
	DefaultMinDays            = 90
	DefaultPeriodDays         = 90
	DefaultPrecision          = 1
	DefaultPromptIntervalDays = 7
	DefaultLogLevel           = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration.
// This struct is the "final, validated" config.
type Config struct {
	SignalsPath string // empty means signals are read from the store
	Now         time.Time

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	LogLevel   string

	MinDays    int
	PeriodDays int
	UseSpan    bool // derive the period from the first and last signal

	PromptIntervalDays int

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
}

// Clone returns a copy that callers can adjust per request.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Signals        string `mapstructure:"signals"`
	AsOf           string `mapstructure:"as-of"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Precision      int    `mapstructure:"precision"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	LogLevel       string `mapstructure:"log-level"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from gapsCmd.Flags() ---
	MinDays int  `mapstructure:"min-days"`
	Period  int  `mapstructure:"period"`
	Span    bool `mapstructure:"span"`

	// --- Fields from suggestCmd.Flags() ---
	PromptInterval int `mapstructure:"prompt-interval"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisWindow(cfg, input); err != nil {
		return err
	}
	if err := resolveSignalsPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.MemoryBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, memory, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// validateSimpleInputs processes and validates output and presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, json, csv, yaml", input.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	switch level := strings.ToLower(strings.TrimSpace(input.LogLevel)); level {
	case "":
		cfg.LogLevel = DefaultLogLevel
	case "debug", "info", "warn", "error":
		cfg.LogLevel = level
	default:
		return fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", input.LogLevel)
	}

	return nil
}

// processAnalysisWindow handles the reference time, period and gate floor.
func processAnalysisWindow(cfg *Config, input *ConfigRawInput) error {
	now, err := ParseWhen(input.AsOf, time.Now())
	if err != nil {
		return fmt.Errorf("invalid --as-of value: %w", err)
	}
	cfg.Now = now

	cfg.MinDays = input.MinDays
	if cfg.MinDays == 0 {
		cfg.MinDays = DefaultMinDays
	}
	if cfg.MinDays < 1 {
		return fmt.Errorf("min-days must be at least 1 (received %d)", input.MinDays)
	}

	cfg.UseSpan = input.Span
	cfg.PeriodDays = input.Period
	if cfg.PeriodDays == 0 {
		cfg.PeriodDays = DefaultPeriodDays
	}
	if cfg.PeriodDays < 1 {
		return fmt.Errorf("period must be at least 1 day (received %d)", input.Period)
	}

	if input.PromptInterval < 0 {
		return fmt.Errorf("prompt-interval cannot be negative (received %d)", input.PromptInterval)
	}
	cfg.PromptIntervalDays = input.PromptInterval

	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// resolveSignalsPath validates an optional signals file.
func resolveSignalsPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.Signals)
	if path == "" {
		cfg.SignalsPath = ""
		return nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson", ".csv":
	default:
		return fmt.Errorf("unsupported signals file '%s'. must end in .json, .jsonl, .ndjson or .csv", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve signals path %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("signals file %q is not readable: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("signals path %q is a directory", path)
	}
	cfg.SignalsPath = abs
	return nil
}
