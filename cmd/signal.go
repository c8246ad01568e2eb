package cmd

import (
	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/spf13/cobra"
)

// signalCmd focused on signal management.
var signalCmd = &cobra.Command{
	Use:   "signal",
	Short: "Record and list capacity check-ins",
	Long: `Record and list capacity check-ins kept in the store.

Subcommands:
  add    - Record a check-in
  list   - List check-ins
  import - Copy check-ins from a .json, .jsonl or .csv file into the store`,
}

// signalAddCmd records one signal.
var signalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a capacity check-in",
	Long: `Record a capacity check-in. A check-in inside the active experiment's window is
linked to that day of the experiment.

Examples:
  ebb signal add --state low --category social --tag dinner
  ebb signal add --state high --at 2024-03-02T08:30:00Z`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		state, _ := cmd.Flags().GetString("state")
		category, _ := cmd.Flags().GetString("category")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		at, _ := cmd.Flags().GetString("at")
		localDate, _ := cmd.Flags().GetString("local-date")
		opts := core.SignalOptions{State: state, Category: category, Tags: tags, When: at, LocalDate: localDate}
		if err := core.ExecuteSignalAdd(rootCtx, cfg, cacheManager, opts); err != nil {
			contract.LogFatal("Cannot add signal", err)
		}
	},
}

// signalListCmd lists signals.
var signalListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List capacity check-ins",
	PreRunE: sharedSetupWrapper,
	Args:    cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSignalList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list signals", err)
		}
	},
}

// signalImportCmd imports signals from a file.
var signalImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Copy check-ins from a file into the store",
	Long: `Copy check-ins from a JSON array, JSON lines or CSV file into the store.
CSV files need timestamp and state columns; category, tags, local_date and id are optional.

Examples:
  ebb signal import export.csv`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteSignalImport(rootCtx, cfg, cacheManager, args[0]); err != nil {
			contract.LogFatal("Cannot import signals", err)
		}
	},
}
