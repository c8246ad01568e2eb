package outwriter

import (
	"os"

	"github.com/huangsam/ebb/internal/contract"
	"golang.org/x/term"
)

// Width bounds for the free-text column of a table.
const (
	minTextWidth = 15
	maxTextWidth = 70
)

// getTerminalWidth returns the --width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxTextWidth calculates the room left for a free-text column (description,
// hypothesis) once the fixed columns of a table are placed.
func getMaxTextWidth(cfg *contract.Config, fixedColumns int) int {
	// Reserve generous space for table borders, separators, and padding
	available := getTerminalWidth(cfg) - fixedColumns - 20
	if available < minTextWidth {
		return minTextWidth
	}
	if available > maxTextWidth {
		return maxTextWidth
	}
	return available
}
