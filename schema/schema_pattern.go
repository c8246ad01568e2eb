package schema

import "time"

// DetectedPattern is a recurring regularity found in recent signals.
type DetectedPattern struct {
	Type         PatternType   `json:"type" yaml:"type"`
	Description  string        `json:"description" yaml:"description"`
	Confidence   float64       `json:"confidence" yaml:"confidence"` // 0..1
	SampleSize   int           `json:"sampleSize" yaml:"sampleSize"`
	Weekday      *time.Weekday `json:"weekday,omitempty" yaml:"weekday,omitempty"`
	Category     Category      `json:"category,omitempty" yaml:"category,omitempty"`
	StreakLength int           `json:"streakLength,omitempty" yaml:"streakLength,omitempty"`
}

// PatternSuggestion is a question and a list of candidate hypotheses for a pattern.
// Suggestions are generated on demand and never persisted.
type PatternSuggestion struct {
	PatternType        PatternType `json:"patternType" yaml:"patternType"`
	PatternDescription string      `json:"patternDescription" yaml:"patternDescription"`
	Question           string      `json:"question" yaml:"question"`
	Hypotheses         []string    `json:"hypotheses" yaml:"hypotheses"`
}

// DeclinedPatternRecord notes that the user declined a suggestion for a pattern type.
type DeclinedPatternRecord struct {
	PatternType PatternType `json:"patternType" yaml:"patternType"`
	DeclinedAt  time.Time   `json:"declinedAt" yaml:"declinedAt"`
}
