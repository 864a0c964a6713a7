package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/glynnsanity/tactical-tutor/core"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

func (h *toolHandler) handleAnalyzePlayer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("player", ""); p != "" {
		cfg.Player = p
	}
	if g := request.GetInt("games", 0); g > 0 {
		cfg.GamesLimit = g
	}
	if m := request.GetInt("max_insights", 0); m > 0 {
		cfg.MaxInsights = m
	}

	report, err := core.GetAnalysisReport(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStoreStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type storeStatus struct {
		Games any `json:"games,omitempty"`
		Runs  any `json:"runs,omitempty"`
	}
	var out storeStatus

	if gs := h.mgr.GetGameStore(); gs != nil {
		status, err := gs.Status(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("game store status failed: %v", err)), nil
		}
		out.Games = status
	}
	if rs := h.mgr.GetRunStore(); rs != nil {
		status, err := rs.Status()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run store status failed: %v", err)), nil
		}
		out.Runs = status
	}

	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRuns(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rs := h.mgr.GetRunStore()
	if rs == nil {
		return mcp.NewToolResultError("no run store configured"), nil
	}
	runs, err := rs.ListRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
