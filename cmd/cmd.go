// Package cmd defines the command-line interface for ebb.
package cmd

import (
	"github.com/huangsam/ebb/core/experiment"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(gapsCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(experimentCmd)
	rootCmd.AddCommand(signalCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the experiment subcommands to the parent experiment command
	experimentCmd.AddCommand(experimentCreateCmd)
	experimentCmd.AddCommand(experimentListCmd)
	experimentCmd.AddCommand(experimentShowCmd)
	experimentCmd.AddCommand(experimentRecordCmd)
	experimentCmd.AddCommand(experimentConcludeCmd)
	experimentCmd.AddCommand(experimentAbandonCmd)
	experimentCmd.AddCommand(experimentResultCmd)
	experimentCmd.AddCommand(experimentExportCmd)

	// Add the signal subcommands to the parent signal command
	signalCmd.AddCommand(signalAddCmd)
	signalCmd.AddCommand(signalListCmd)
	signalCmd.AddCommand(signalImportCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("signals", "", "Read signals from a .json, .jsonl or .csv file instead of the store")
	rootCmd.PersistentFlags().String("as-of", "", "Reference time in RFC3339, YYYY-MM-DD or time ago (default now)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Store backend: sqlite or mysql or postgresql or memory or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of gapsCmd to Viper
	gapsCmd.Flags().Int("period", contract.DefaultPeriodDays, "Trailing period in days")
	gapsCmd.Flags().Bool("span", false, "Use the span between the first and last signal as the period")
	gapsCmd.Flags().Int("min-days", contract.DefaultMinDays, "Minimum period in days before gap analysis is shown")
	if err := viper.BindPFlags(gapsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding gaps flags", err)
	}

	// Bind all flags of suggestCmd to Viper
	suggestCmd.Flags().Int("prompt-interval", contract.DefaultPromptIntervalDays, "Days between suggestion prompts (0 = always)")
	if err := viper.BindPFlags(suggestCmd.Flags()); err != nil {
		contract.LogFatal("Error binding suggest flags", err)
	}
	suggestCmd.Flags().Bool("decline", false, "Decline the current suggestion for a week")

	// Experiment and signal flags are read from the command, not Viper, since names repeat
	experimentCreateCmd.Flags().String("hypothesis", "", "Your own hypothesis text")
	experimentCreateCmd.Flags().Int("choice", 0, "Pick a suggested hypothesis by its number")
	experimentCreateCmd.Flags().String("pattern", "", "Trigger pattern type (defaults to the current top suggestion)")
	experimentCreateCmd.Flags().String("description", "", "Trigger pattern description")
	experimentCreateCmd.Flags().Int("weeks", experiment.MinDurationWeeks, "Duration in weeks (2 to 8)")

	experimentRecordCmd.Flags().String("day", "", "Day to record in YYYY-MM-DD or time ago (default today)")
	experimentRecordCmd.Flags().String("followed", "", "Whether you followed the experiment: yes or no or skipped")
	experimentRecordCmd.Flags().String("state", "", "Capacity that day: high or mid or low")

	experimentExportCmd.Flags().String("dir", ".", "Directory for the Parquet files")

	signalAddCmd.Flags().String("state", "", "Capacity state: high or mid or low")
	signalAddCmd.Flags().String("category", "", "Category: sensory or demand or social")
	signalAddCmd.Flags().StringSlice("tag", nil, "Free-form tag (repeatable)")
	signalAddCmd.Flags().String("at", "", "When the check-in happened (default now)")
	signalAddCmd.Flags().String("local-date", "", "Calendar day of the check-in in your time zone (YYYY-MM-DD)")
	_ = signalAddCmd.MarkFlagRequired("state")

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
