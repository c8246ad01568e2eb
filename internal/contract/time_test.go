package contract

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{name: "plural days mixed case", input: "3 DaYs AgO", expected: fixedNow.Add(-3 * 24 * time.Hour)},
		{name: "singular week", input: "1 Week Ago", expected: fixedNow.Add(-7 * 24 * time.Hour)},
		{name: "hours", input: "5 hours ago", expected: fixedNow.Add(-5 * time.Hour)},
		{name: "minutes", input: "30 minutes ago", expected: fixedNow.Add(-30 * time.Minute)},
		{name: "years unsupported", input: "2 years ago", expectError: true},
		{name: "missing ago", input: "2 days", expectError: true},
		{name: "garbage", input: "yesterday", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseWhen(t *testing.T) {
	got, err := ParseWhen("", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, got)

	got, err = ParseWhen("now", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, got)

	got, err = ParseWhen("2025-10-01T08:00:00Z", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC), got)

	got, err = ParseWhen("2025-10-01", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseWhen("last tuesday", fixedNow)
	assert.Error(t, err)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2 days ago", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-01", day)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
