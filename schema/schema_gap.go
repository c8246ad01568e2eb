package schema

// DerivedGap is a computed absence between two consecutive signals.
// Gaps are derived on demand and never persisted.
type DerivedGap struct {
	StartTimestamp int64       `json:"startTimestamp" yaml:"startTimestamp"`
	EndTimestamp   int64       `json:"endTimestamp" yaml:"endTimestamp"`
	DurationDays   int         `json:"durationDays" yaml:"durationDays"`
	Category       GapCategory `json:"category" yaml:"category"`
}

// CoverageMetric summarizes how many days in a period carry at least one signal.
type CoverageMetric struct {
	PeriodDays      int `json:"periodDays" yaml:"periodDays"`
	SignalDays      int `json:"signalDays" yaml:"signalDays"`
	CoveragePercent int `json:"coveragePercent" yaml:"coveragePercent"`
	GapCount        int `json:"gapCount" yaml:"gapCount"`
	LongestGapDays  int `json:"longestGapDays" yaml:"longestGapDays"`
}

// GapAnalysis is the gated result of gap and coverage analysis. When IsAvailable
// is false, only UnavailableReason and the request fields are populated.
type GapAnalysis struct {
	IsAvailable       bool                `json:"isAvailable" yaml:"isAvailable"`
	UnavailableReason string              `json:"unavailableReason,omitempty" yaml:"unavailableReason,omitempty"`
	PeriodDays        int                 `json:"periodDays" yaml:"periodDays"`
	MinDays           int                 `json:"minDays" yaml:"minDays"`
	SignalCount       int                 `json:"signalCount" yaml:"signalCount"`
	Coverage          *CoverageMetric     `json:"coverage,omitempty" yaml:"coverage,omitempty"`
	Gaps              []DerivedGap        `json:"gaps,omitempty" yaml:"gaps,omitempty"`
	GapCounts         map[GapCategory]int `json:"gapCounts,omitempty" yaml:"gapCounts,omitempty"`
	LongestGap        *DerivedGap         `json:"longestGap,omitempty" yaml:"longestGap,omitempty"`
	CoverageText      string              `json:"coverageText,omitempty" yaml:"coverageText,omitempty"`
	CoverageShortText string              `json:"coverageShortText,omitempty" yaml:"coverageShortText,omitempty"`
}
