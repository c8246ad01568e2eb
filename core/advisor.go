package core

import (
	"time"

	"github.com/huangsam/ebb/core/pattern"
	"github.com/huangsam/ebb/schema"
)

// SuggestionState is the persisted state the advisor consults before showing a suggestion.
// The experiment Manager satisfies it.
type SuggestionState interface {
	Active() *schema.Experiment
	IsSuppressed(patternType schema.PatternType) bool
	LastPromptDate() (time.Time, bool)
	RecordPrompt() error
}

// TopSuggestion returns the suggestion for the highest-confidence pattern whose
// type is not suppressed by a recent decline. It records nothing.
func TopSuggestion(signals []schema.Signal, state SuggestionState, now time.Time) *schema.PatternSuggestion {
	for _, p := range pattern.DetectPatterns(signals, now) {
		if state.IsSuppressed(p.Type) {
			continue
		}
		s := pattern.SuggestionForPattern(p)
		return &s
	}
	return nil
}

// NextSuggestion decides whether to prompt right now. It returns nil while an
// experiment is active, when the last prompt is more recent than interval, or
// when no pattern qualifies. A returned suggestion records the prompt time.
// An interval of zero or less disables the prompt throttle.
func NextSuggestion(signals []schema.Signal, state SuggestionState, now time.Time, interval time.Duration) (*schema.PatternSuggestion, error) {
	if state.Active() != nil {
		return nil, nil
	}
	if interval > 0 {
		if last, ok := state.LastPromptDate(); ok && now.Sub(last) < interval {
			return nil, nil
		}
	}
	s := TopSuggestion(signals, state, now)
	if s == nil {
		return nil, nil
	}
	if err := state.RecordPrompt(); err != nil {
		return nil, err
	}
	return s, nil
}
