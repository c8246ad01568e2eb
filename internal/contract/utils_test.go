package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/ebb/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainConfidenceLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0.0, expected: WeakValue},
		{name: "just before moderate", input: 0.49, expected: WeakValue},
		{name: "exactly moderate", input: 0.5, expected: ModerateValue},
		{name: "just before strong", input: 0.74, expected: ModerateValue},
		{name: "exactly strong", input: 0.75, expected: StrongValue},
		{name: "cap", input: 0.9, expected: StrongValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainConfidenceLabel(tt.input))
		})
	}
}

func TestGetColorLabels(t *testing.T) {
	assert.Contains(t, GetColorConfidenceLabel(0.8), StrongValue)
	assert.Contains(t, GetColorConfidenceLabel(0.1), WeakValue)
	assert.Contains(t, GetColorStateLabel(schema.LowState), "low")
	assert.Contains(t, GetColorStateLabel(schema.HighState), "high")
	assert.Equal(t, "odd", GetColorStateLabel("odd"))
	assert.Contains(t, GetColorStatusLabel(schema.ActiveExperiment), "active")
	assert.Contains(t, GetColorStatusLabel(schema.ConcludedExperiment), "concluded")
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePath(t *testing.T) {
	path := GetDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".ebb.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "abcdef...", TruncateText("abcdefghijkl", 9))
	assert.Equal(t, "abcdefghijkl", TruncateText("abcdefghijkl", 3))
	assert.Equal(t, "日本...", TruncateText("日本語のテキスト", 5))
}

func TestParseBoolString(t *testing.T) {
	for _, in := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(in)
		require.NoError(t, err)
		assert.True(t, v, in)
	}
	for _, in := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(in)
		require.NoError(t, err)
		assert.False(t, v, in)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
