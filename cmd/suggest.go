package cmd

import (
	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/spf13/cobra"
)

// suggestCmd shows the next experiment suggestion.
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest a small experiment for the strongest pattern",
	Long: `Turn the strongest recent pattern into a question and a few hypotheses to try.

No suggestion is shown while an experiment is active, or when one was already
shown within --prompt-interval days. Declining a suggestion hides that pattern
type for 7 days.

Examples:
  # Show the next suggestion
  ebb suggest

  # Not now, ask again next week
  ebb suggest --decline

  # Start an experiment from the first hypothesis
  ebb experiment create --choice 1 --weeks 2`,
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		decline, _ := cmd.Flags().GetBool("decline")
		if err := core.ExecuteSuggest(rootCtx, cfg, cacheManager, decline); err != nil {
			contract.LogFatal("Cannot suggest an experiment", err)
		}
	},
}
