package experiment

import (
	"fmt"
	"time"

	"github.com/huangsam/ebb/schema"
)

// DeclineCooldown is how long a declined pattern type stays suppressed.
const DeclineCooldown = 7 * 24 * time.Hour

// RecordDecline appends a decline for the pattern type. The log is never pruned.
func (m *Manager) RecordDecline(patternType schema.PatternType) (schema.DeclinedPatternRecord, error) {
	if _, ok := schema.ValidPatternTypes[patternType]; !ok {
		return schema.DeclinedPatternRecord{}, fmt.Errorf("invalid pattern type %q", patternType)
	}
	record := schema.DeclinedPatternRecord{PatternType: patternType, DeclinedAt: m.now()}
	log := append(m.Declines(), record)
	if err := m.save(DeclineLogKey, log); err != nil {
		return schema.DeclinedPatternRecord{}, err
	}
	return record, nil
}

// Declines returns the full decline log, oldest first.
func (m *Manager) Declines() []schema.DeclinedPatternRecord {
	return load[schema.DeclinedPatternRecord](m, DeclineLogKey)
}

// IsSuppressed reports whether the pattern type was declined less than DeclineCooldown
// before now.
func (m *Manager) IsSuppressed(patternType schema.PatternType) bool {
	now := m.now()
	for _, d := range m.Declines() {
		if d.PatternType != patternType {
			continue
		}
		// A decline stamped after now (for example under an earlier --as-of) does not count
		if age := now.Sub(d.DeclinedAt); age >= 0 && age < DeclineCooldown {
			return true
		}
	}
	return false
}

// LastPromptDate returns when a suggestion was last shown, if ever.
func (m *Manager) LastPromptDate() (time.Time, bool) {
	prompts := load[time.Time](m, LastPromptKey)
	if len(prompts) == 0 {
		return time.Time{}, false
	}
	return prompts[len(prompts)-1], true
}

// RecordPrompt stores the current time as the last suggestion prompt.
func (m *Manager) RecordPrompt() error {
	return m.save(LastPromptKey, []time.Time{m.now()})
}
