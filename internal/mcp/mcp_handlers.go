package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/ebb/core"
	"github.com/huangsam/ebb/internal/contract"
	"github.com/huangsam/ebb/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// coverageView is the coverage part of a gated analysis.
type coverageView struct {
	IsAvailable       bool                   `json:"isAvailable"`
	UnavailableReason string                 `json:"unavailableReason,omitempty"`
	Coverage          *schema.CoverageMetric `json:"coverage,omitempty"`
	CoverageText      string                 `json:"coverageText,omitempty"`
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

// requestConfig applies the shared as_of argument to a copy of the base config.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("as_of", ""); s != "" {
		now, err := contract.ParseWhen(s, time.Now())
		if err != nil {
			return nil, fmt.Errorf("invalid as_of: %w", err)
		}
		cfg.Now = now
	}
	return cfg, nil
}

// gapConfig applies the period and floor arguments on top of requestConfig.
func (h *toolHandler) gapConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return nil, err
	}
	args := request.GetArguments()
	if _, ok := args["period"]; ok {
		cfg.PeriodDays = request.GetInt("period", 0)
		if cfg.PeriodDays < 1 {
			return nil, fmt.Errorf("period must be at least 1 day (received %d)", cfg.PeriodDays)
		}
	}
	if _, ok := args["min_days"]; ok {
		cfg.MinDays = request.GetInt("min_days", 0)
		if cfg.MinDays < 1 {
			return nil, fmt.Errorf("min_days must be at least 1 (received %d)", cfg.MinDays)
		}
	}
	cfg.UseSpan = request.GetBool("span", cfg.UseSpan)
	return cfg, nil
}

func (h *toolHandler) handleGetGapAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.gapConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid gap parameters: %v", err)), nil
	}
	analysis, err := core.GetGapAnalysis(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("gap analysis failed: %v", err)), nil
	}
	return jsonResult(analysis), nil
}

func (h *toolHandler) handleGetCoverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.gapConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid coverage parameters: %v", err)), nil
	}
	analysis, err := core.GetGapAnalysis(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coverage failed: %v", err)), nil
	}
	return jsonResult(coverageView{
		IsAvailable:       analysis.IsAvailable,
		UnavailableReason: analysis.UnavailableReason,
		Coverage:          analysis.Coverage,
		CoverageText:      analysis.CoverageText,
	}), nil
}

func (h *toolHandler) handleDetectPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	patterns, err := core.GetPatterns(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pattern detection failed: %v", err)), nil
	}
	return jsonResult(patterns), nil
}

func (h *toolHandler) handleGetSuggestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s, err := core.PeekSuggestion(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("suggestion failed: %v", err)), nil
	}
	if s == nil {
		return mcp.NewToolResultText("No suggestion right now."), nil
	}
	return jsonResult(s), nil
}

func (h *toolHandler) handleGetExperimentResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	result, err := core.GetExperimentResult(ctx, cfg, h.mgr, request.GetString("experiment_id", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("experiment result failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
