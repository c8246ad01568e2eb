package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/ebb/schema"
)

// Confidence label constants.
const (
	StrongValue   = "Strong"   // Strong value
	ModerateValue = "Moderate" // Moderate value
	WeakValue     = "Weak"     // Weak value
)

// Color variables for console output.
var (
	HighColor     = color.New(color.FgGreen, color.Bold) // HighColor marks high capacity and strong confidence.
	MidColor      = color.New(color.FgYellow)            // MidColor marks mid capacity and moderate confidence.
	LowColor      = color.New(color.FgCyan)              // LowColor marks low capacity and weak confidence. Never red.
	ActiveColor   = color.New(color.FgMagenta, color.Bold)
	InactiveColor = color.New(color.Faint)
)

// GetPlainConfidenceLabel returns a plain text label for a pattern confidence in 0..1.
func GetPlainConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.75:
		return StrongValue
	case confidence >= 0.5:
		return ModerateValue
	default:
		return WeakValue
	}
}

// GetColorConfidenceLabel returns a colored confidence label for console output.
func GetColorConfidenceLabel(confidence float64) string {
	text := GetPlainConfidenceLabel(confidence)
	switch text {
	case StrongValue:
		return HighColor.Sprint(text)
	case ModerateValue:
		return MidColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// GetColorStateLabel returns a colored capacity state for console output.
func GetColorStateLabel(state schema.CapacityState) string {
	switch state {
	case schema.HighState:
		return HighColor.Sprint(string(state))
	case schema.MidState:
		return MidColor.Sprint(string(state))
	case schema.LowState:
		return LowColor.Sprint(string(state))
	default:
		return string(state)
	}
}

// GetColorStatusLabel returns a colored experiment status for console output.
func GetColorStatusLabel(status schema.ExperimentStatus) string {
	if status == schema.ActiveExperiment {
		return ActiveColor.Sprint(string(status))
	}
	return InactiveColor.Sprint(string(status))
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDBFilePath returns the path to the SQLite DB file for the key/value store.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ebb.db"
	}
	return filepath.Join(homeDir, ".ebb.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
