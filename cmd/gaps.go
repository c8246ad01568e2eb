package cmd

import (
	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/spf13/cobra"
)

// gapsCmd shows gated gap and coverage analysis.
var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show how consistently you check in (after 90 days of history)",
	Long: `Show stretches without check-ins and the share of days that carry one.

Gap analysis stays unavailable until the period covers at least --min-days days
(90 by default) and holds at least 7 signals. Before that, only the reason is shown.
Gaps are worked out on demand and never saved, so --output-file is ignored here.

Gap lengths:
- short: under 4 days
- medium: 4 to 14 days
- extended: 15 days or more

Examples:
  # Last 90 days (default)
  ebb gaps

  # Last 180 days as JSON
  ebb gaps --period 180 --output json

  # Use the whole history span as the period
  ebb gaps --span`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGaps(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run gap analysis", err)
		}
	},
}
