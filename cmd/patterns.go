package cmd

import (
	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/spf13/cobra"
)

// patternsCmd lists recurring patterns in recent signals.
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List recurring low-capacity patterns from the last 30 days",
	Long: `Look at the last 30 days of check-ins for regularities that repeat.

Detectors:
- day_of_week: one weekday runs lower than the rest
- category_*: low check-ins cluster around sensory, demand or social moments
- consecutive_depletion: low capacity shows up several check-ins in a row

Detection needs at least 14 signals overall and 7 in the window.
Patterns are ranked by confidence, highest first.

Examples:
  # Patterns as of now
  ebb patterns

  # Patterns as they looked two weeks ago
  ebb patterns --as-of "2 weeks ago"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePatterns(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot detect patterns", err)
		}
	},
}
