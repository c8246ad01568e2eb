package cmd

import (
	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/spf13/cobra"
)

// experimentRef returns the optional experiment reference argument.
func experimentRef(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return ""
}

// experimentCmd focused on experiment management.
var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Run time-boxed experiments against your check-ins",
	Long: `Create, follow up on, and review experiments.

Only one experiment can be active at a time. Each lasts 2 to 8 weeks. Commands that
take an [id] accept a full ID or a unique prefix, and default to the active experiment.

Subcommands:
  create   - Start an experiment from a suggestion or your own hypothesis
  list     - List every experiment
  show     - Show one experiment with its day log
  record   - Record whether you followed the experiment on a day
  conclude - End the experiment and show the result
  abandon  - End the experiment without a result
  result   - Compare followed and not-followed days
  export   - Write experiments and day logs to Parquet files`,
}

// experimentCreateCmd starts a new experiment.
var experimentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Start a new experiment",
	Long: `Start a new experiment. Without --pattern, the trigger is the current top suggestion.

Examples:
  # Take the first suggested hypothesis for 2 weeks
  ebb experiment create --choice 1

  # Write your own for 4 weeks
  ebb experiment create --hypothesis "Walk at lunch" --weeks 4

  # Tie it to a specific pattern type
  ebb experiment create --pattern category_social --choice 2`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		hypothesis, _ := cmd.Flags().GetString("hypothesis")
		choice, _ := cmd.Flags().GetInt("choice")
		patternType, _ := cmd.Flags().GetString("pattern")
		description, _ := cmd.Flags().GetString("description")
		weeks, _ := cmd.Flags().GetInt("weeks")
		opts := core.CreateOptions{
			Hypothesis:  hypothesis,
			Choice:      choice,
			PatternType: schema.PatternType(patternType),
			Description: description,
			Weeks:       weeks,
		}
		if err := core.ExecuteExperimentCreate(rootCtx, cfg, cacheManager, opts); err != nil {
			contract.LogFatal("Cannot create experiment", err)
		}
	},
}

// experimentListCmd lists experiments.
var experimentListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List every experiment",
	PreRunE: sharedSetupWrapper,
	Args:    cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExperimentList(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot list experiments", err)
		}
	},
}

// experimentShowCmd shows one experiment.
var experimentShowCmd = &cobra.Command{
	Use:     "show [id]",
	Short:   "Show one experiment with its day log",
	PreRunE: sharedSetupWrapper,
	Args:    cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExperimentShow(rootCtx, cfg, cacheManager, experimentRef(args)); err != nil {
			contract.LogFatal("Cannot show experiment", err)
		}
	},
}

// experimentRecordCmd records a follow-up day.
var experimentRecordCmd = &cobra.Command{
	Use:   "record [id]",
	Short: "Record whether you followed the experiment on a day",
	Long: `Record the follow-up for one day of an experiment. Recording the same day again
replaces its answer, so counts never double up.

Examples:
  # Followed it today
  ebb experiment record --followed yes

  # Did not follow it yesterday, and capacity was low
  ebb experiment record --day "1 day ago" --followed no --state low`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		day, _ := cmd.Flags().GetString("day")
		followed, _ := cmd.Flags().GetString("followed")
		state, _ := cmd.Flags().GetString("state")
		opts := core.RecordOptions{Ref: experimentRef(args), Day: day, Followed: followed, State: state}
		if err := core.ExecuteExperimentRecord(rootCtx, cfg, cacheManager, opts); err != nil {
			contract.LogFatal("Cannot record experiment day", err)
		}
	},
}

// experimentConcludeCmd concludes an experiment.
var experimentConcludeCmd = &cobra.Command{
	Use:     "conclude [id]",
	Short:   "End the experiment and show the result",
	PreRunE: sharedSetupWrapper,
	Args:    cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExperimentConclude(rootCtx, cfg, cacheManager, experimentRef(args)); err != nil {
			contract.LogFatal("Cannot conclude experiment", err)
		}
	},
}

// experimentAbandonCmd abandons an experiment.
var experimentAbandonCmd = &cobra.Command{
	Use:     "abandon [id]",
	Short:   "End the experiment without a result",
	PreRunE: sharedSetupWrapper,
	Args:    cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExperimentAbandon(rootCtx, cfg, cacheManager, experimentRef(args)); err != nil {
			contract.LogFatal("Cannot abandon experiment", err)
		}
	},
}

// experimentResultCmd shows the analysis of an experiment.
var experimentResultCmd = &cobra.Command{
	Use:   "result [id]",
	Short: "Compare followed and not-followed days",
	Long: `Compare capacity on days you followed the experiment with days you did not.

A result needs at least 2 followed days and 1 not-followed day. A difference of
15 points or more is reported as a correlation, never as a cause.`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteExperimentResult(rootCtx, cfg, cacheManager, experimentRef(args)); err != nil {
			contract.LogFatal("Cannot analyze experiment", err)
		}
	},
}

// experimentExportCmd exports experiments to Parquet.
var experimentExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write experiments and day logs to Parquet files",
	Long: `Write every experiment to experiments.parquet and every day log entry to
experiment_days.parquet in --dir. Gap and coverage data is never exported.

Examples:
  ebb experiment export --dir ./exports`,
	PreRunE: sharedSetupWrapper,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		dir, _ := cmd.Flags().GetString("dir")
		if err := core.ExecuteExperimentExport(rootCtx, cfg, cacheManager, dir); err != nil {
			contract.LogFatal("Cannot export experiments", err)
		}
	},
}
