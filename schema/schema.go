// Package schema has models, typed enums and constants for all parts of ebb.
package schema

import (
	"fmt"
	"strings"
	"time"
)

// MsPerDay is the number of milliseconds in a day.
const MsPerDay int64 = 24 * 60 * 60 * 1000

// DateLayout is the calendar date format used for local dates and day keys.
const DateLayout = "2006-01-02"

// Signal is a single capacity check-in. Signals are never mutated after creation.
type Signal struct {
	ID        string        `json:"id,omitempty" yaml:"id,omitempty"`
	Timestamp int64         `json:"timestamp" yaml:"timestamp"` // epoch milliseconds
	State     CapacityState `json:"state" yaml:"state"`
	Category  Category      `json:"category,omitempty" yaml:"category,omitempty"`
	Tags      []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	LocalDate string        `json:"localDate,omitempty" yaml:"localDate,omitempty"` // YYYY-MM-DD in the user's zone
}

// Day returns the calendar day of the signal as YYYY-MM-DD. The local date wins
// when present and well formed; otherwise the UTC date of the timestamp is used.
func (s Signal) Day() string {
	if s.LocalDate != "" {
		if _, err := time.Parse(DateLayout, s.LocalDate); err == nil {
			return s.LocalDate
		}
	}
	return time.UnixMilli(s.Timestamp).UTC().Format(DateLayout)
}

// DayTime returns the calendar day of the signal as a UTC midnight time.
func (s Signal) DayTime() time.Time {
	t, _ := time.Parse(DateLayout, s.Day())
	return t
}

// Weekday returns the weekday of the signal's calendar day.
func (s Signal) Weekday() time.Weekday {
	return s.DayTime().Weekday()
}

// HasCategory reports whether the signal belongs to the category, either through
// its explicit field or through a tag matching the category name.
func (s Signal) HasCategory(c Category) bool {
	if s.Category == c {
		return true
	}
	for _, tag := range s.Tags {
		if strings.EqualFold(strings.TrimSpace(tag), string(c)) {
			return true
		}
	}
	return false
}

// Validate checks the fields a signal must carry.
func (s Signal) Validate() error {
	if !s.State.Valid() {
		return fmt.Errorf("invalid state %q. must be high, mid, low", s.State)
	}
	if s.Category != "" {
		if _, ok := ValidCategories[s.Category]; !ok {
			return fmt.Errorf("invalid category %q. must be sensory, demand, social", s.Category)
		}
	}
	if s.LocalDate != "" {
		if _, err := time.Parse(DateLayout, s.LocalDate); err != nil {
			return fmt.Errorf("invalid local date %q: %w", s.LocalDate, err)
		}
	}
	return nil
}

// Valid reports whether the state is one of high, mid, low.
func (c CapacityState) Valid() bool {
	_, ok := ValidCapacityStates[c]
	return ok
}

// Capacity returns the numeric value of a state: high=100, mid=50, low=0.
// Unknown states map to 0.
func (c CapacityState) Capacity() float64 {
	switch c {
	case HighState:
		return 100
	case MidState:
		return 50
	case LowState:
		return 0
	default:
		return 0
	}
}

// ParseCapacityState parses a case-insensitive state name.
func ParseCapacityState(s string) (CapacityState, error) {
	state := CapacityState(strings.ToLower(strings.TrimSpace(s)))
	if !state.Valid() {
		return "", fmt.Errorf("invalid state %q. must be high, mid, low", s)
	}
	return state, nil
}

// ParseFollowedStatus parses a followed status. Empty input means unset.
func ParseFollowedStatus(s string) (*FollowedStatus, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" || v == "null" || v == "unset" {
		return nil, nil
	}
	status := FollowedStatus(v)
	if _, ok := ValidFollowedStatuses[status]; !ok {
		return nil, fmt.Errorf("invalid followed value %q. must be yes, no, skipped", s)
	}
	return &status, nil
}
