// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
)

// NewMCPServer initializes and configures the tutor MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Tactical Tutor Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_player ---
	s.AddTool(mcp.NewTool("analyze_player",
		mcp.WithDescription("Analyze a player's stored games to find recurring weaknesses, strengths, and opening problems."),
		mcp.WithString("player", mcp.Description("Account name to analyze (defaults to the configured player).")),
		mcp.WithNumber("games", mcp.Description("Most recent N games to analyze.")),
		mcp.WithNumber("max_insights", mcp.Description("Limit the number of insights returned.")),
	), h.handleAnalyzePlayer)

	// --- 2. Tool: get_store_status ---
	s.AddTool(mcp.NewTool("get_store_status",
		mcp.WithDescription("Report how many games, moves, and analysis runs are stored, and when the newest game was played."),
	), h.handleGetStoreStatus)

	// --- 3. Tool: list_runs ---
	s.AddTool(mcp.NewTool("list_runs",
		mcp.WithDescription("List recorded analysis runs with their summary statistics."),
	), h.handleListRuns)

	return s
}

// StartMCPServer starts the tutor MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
