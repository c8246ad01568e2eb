package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/ebb/schema"
)

// relativeTimeRe captures "N [units] ago", e.g. "3 days ago" or "2 weeks ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(week|day|hour|minute)s?\s+ago$`)

// ParseRelativeTime converts strings like "3 days ago" into a time.Time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "week":
		return now.Add(time.Duration(-value) * 7 * 24 * time.Hour), nil
	case "day":
		return now.Add(time.Duration(-value) * 24 * time.Hour), nil
	case "hour":
		return now.Add(time.Duration(-value) * time.Hour), nil
	default:
		return now.Add(time.Duration(-value) * time.Minute), nil
	}
}

// ParseWhen resolves a user-supplied point in time. It accepts an empty string
// or "now", RFC3339, a YYYY-MM-DD date (UTC midnight) and "N [units] ago".
func ParseWhen(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "now") {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(schema.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q. expected RFC3339, YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t, nil
}

// ParseDay resolves a user-supplied calendar day to YYYY-MM-DD using ParseWhen.
func ParseDay(s string, now time.Time) (string, error) {
	t, err := ParseWhen(s, now)
	if err != nil {
		return "", err
	}
	return schema.FormatDate(t), nil
}
