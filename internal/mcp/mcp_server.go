// Package mcp provides the Model Context Protocol (MCP) server implementation.
//
// Every tool is read-only: nothing here records prompts, declines or experiment days.
package mcp

import (
	"context"

	"github.com/huangsam/ebb/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the ebb MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Ebb Capacity Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	asOf := mcp.WithString("as_of", mcp.Description("Reference time (RFC3339, YYYY-MM-DD or 'N days ago'). Defaults to now."))

	// --- 1. Tool: get_gap_analysis ---
	s.AddTool(mcp.NewTool("get_gap_analysis",
		mcp.WithDescription("Gated gap analysis of capacity check-ins. Unavailable until the period reaches the history floor and enough signals exist."),
		mcp.WithNumber("period", mcp.Description("Trailing period in days. Defaults to the configured period.")),
		mcp.WithBoolean("span", mcp.Description("Use the span between the first and last signal as the period.")),
		mcp.WithNumber("min_days", mcp.Description("History floor in days. Defaults to 90.")),
		asOf,
	), h.handleGetGapAnalysis)

	// --- 2. Tool: get_coverage ---
	s.AddTool(mcp.NewTool("get_coverage",
		mcp.WithDescription("Share of days in the period that carry at least one check-in, through the same gate as get_gap_analysis."),
		mcp.WithNumber("period", mcp.Description("Trailing period in days.")),
		mcp.WithBoolean("span", mcp.Description("Use the span between the first and last signal as the period.")),
		asOf,
	), h.handleGetCoverage)

	// --- 3. Tool: detect_patterns ---
	s.AddTool(mcp.NewTool("detect_patterns",
		mcp.WithDescription("Recurring low-capacity patterns in the last 30 days, highest confidence first."),
		asOf,
	), h.handleDetectPatterns)

	// --- 4. Tool: get_suggestion ---
	s.AddTool(mcp.NewTool("get_suggestion",
		mcp.WithDescription("The experiment suggestion for the top non-declined pattern. Empty while an experiment is active."),
		asOf,
	), h.handleGetSuggestion)

	// --- 5. Tool: get_experiment_result ---
	s.AddTool(mcp.NewTool("get_experiment_result",
		mcp.WithDescription("Followed versus not-followed comparison of an experiment. Observed correlation only, never cause."),
		mcp.WithString("experiment_id", mcp.Description("Experiment ID or unique prefix. Defaults to the active experiment.")),
	), h.handleGetExperimentResult)

	return s
}

// StartMCPServer starts the ebb MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
