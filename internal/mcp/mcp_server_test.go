package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/ebb/core/experiment"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/internal/iocache"
	mcp_internal "github.com/huangsam/ebb/internal/mcp"
	"github.com/huangsam/ebb/internal/signalstore"
	"github.com/huangsam/ebb/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC)

func newServerEnv(t *testing.T) (*iocache.MemoryStore, *contract.Config, *iocache.MockCacheManager) {
	t.Helper()
	store := iocache.NewMemoryStore()
	mgr := iocache.NewMockManagerFor(store)
	cfg := &contract.Config{Now: now, MinDays: 90, PeriodDays: 90, Precision: 1}
	return store, cfg, mgr
}

func call(t *testing.T, cfg *contract.Config, mgr contract.CacheManager, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, mgr)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotEmpty(t, res.Content)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	_, cfg, mgr := newServerEnv(t)

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{name: "zero period", tool: "get_gap_analysis", args: map[string]any{"period": 0.0}, want: "period must be at least 1 day"},
		{name: "zero floor", tool: "get_gap_analysis", args: map[string]any{"min_days": 0.0}, want: "min_days must be at least 1"},
		{name: "coverage bad as_of", tool: "get_coverage", args: map[string]any{"as_of": "whenever"}, want: "invalid as_of"},
		{name: "patterns bad as_of", tool: "detect_patterns", args: map[string]any{"as_of": "whenever"}, want: "invalid as_of"},
		{name: "no active experiment", tool: "get_experiment_result", args: map[string]any{}, want: "no active experiment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := call(t, cfg, mgr, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(res), tt.want)
		})
	}
}

func TestMCPServerHandlers_GapAnalysis(t *testing.T) {
	store, cfg, mgr := newServerEnv(t)
	var signals []schema.Signal
	for day := 1; day <= 10; day++ {
		ts := time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC).UnixMilli()
		signals = append(signals, schema.Signal{Timestamp: ts, State: schema.MidState})
	}
	require.NoError(t, signalstore.NewStoreSource(store, contract.DiscardLogger()).AppendSignals(signals...))

	t.Run("below floor is unavailable", func(t *testing.T) {
		res := call(t, cfg, mgr, "get_gap_analysis", map[string]any{"period": 30.0})
		require.False(t, res.IsError)
		var got schema.GapAnalysis
		require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
		assert.False(t, got.IsAvailable)
		assert.Contains(t, got.UnavailableReason, "at least 90 days")
	})

	t.Run("coverage at floor", func(t *testing.T) {
		res := call(t, cfg, mgr, "get_coverage", map[string]any{})
		require.False(t, res.IsError)
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
		assert.Equal(t, true, got["isAvailable"])
		coverage := got["coverage"].(map[string]any)
		assert.EqualValues(t, 11, coverage["coveragePercent"])
	})
}

func TestMCPServerHandlers_ReadOnlySuggestion(t *testing.T) {
	store, cfg, mgr := newServerEnv(t)

	res := call(t, cfg, mgr, "get_suggestion", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, "No suggestion right now.", text(res))

	m := experiment.NewManager(store, experiment.WithLogger(contract.DiscardLogger()))
	_, ok := m.LastPromptDate()
	assert.False(t, ok, "get_suggestion must not record a prompt")
}

func TestMCPServerHandlers_ExperimentResult(t *testing.T) {
	store, cfg, mgr := newServerEnv(t)
	m := experiment.NewManager(store, experiment.WithClock(func() time.Time { return now }), experiment.WithLogger(contract.DiscardLogger()))
	exp, err := m.Create("Quiet lunch", schema.CategorySocialPattern, "", 2)
	require.NoError(t, err)

	res := call(t, cfg, mgr, "get_experiment_result", map[string]any{"experiment_id": exp.ID})
	require.False(t, res.IsError)
	var got schema.ExperimentResult
	require.NoError(t, json.Unmarshal([]byte(text(res)), &got))
	assert.Equal(t, exp.ID, got.ExperimentID)
	assert.False(t, got.HasSufficientData)
}
