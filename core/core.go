package core

import (
	"context"
	"fmt"
	"time"

	"github.com/glynnsanity/tactical-tutor/core/features"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/outwriter"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// ExecutorFunc defines the signature shared by the CLI entry points.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteAnalyze loads the player's games from the store, runs the pipeline
// and prints the report. It is the entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	report, err := GetAnalysisReport(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.WriteReport(report, cfg)
}

// GetAnalysisReport runs the pipeline against stored games and records the
// run in the run store when one is configured. Shared by the CLI and the
// MCP server.
func GetAnalysisReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.AnalysisReport, error) {
	games, err := loadPlayerGames(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}

	// Run tracking is best-effort: a broken run store never blocks analysis.
	var runID int64
	runStore := mgr.GetRunStore()
	if runStore != nil {
		configParams := map[string]any{
			"player":          cfg.Player,
			"games_limit":     cfg.GamesLimit,
			"min_frequency":   cfg.MinFrequency,
			"min_impact_cp":   cfg.MinImpactCP,
			"min_correlation": cfg.MinCorrelation,
			"workers":         cfg.Workers,
		}
		runID, err = runStore.BeginRun(time.Now(), cfg.Player, configParams)
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
			runID = 0
		}
	}

	report, err := Analyze(ctx, cfg, games)
	if err != nil {
		return nil, err
	}

	if runStore != nil && runID > 0 {
		if err := runStore.EndRun(runID, time.Now(), report); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}
	return report, nil
}

// BuildFeatureTable loads the player's games and extracts the feature table
// without discovery or insights. It backs the 'export' command.
func BuildFeatureTable(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.FeatureTable, error) {
	if err := cfg.ValidateAnalysis(); err != nil {
		return nil, err
	}
	games, err := loadPlayerGames(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	table, _ := features.Build(games, cfg)
	return table, nil
}

func loadPlayerGames(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.GameRecord, error) {
	store := mgr.GetGameStore()
	if store == nil {
		return nil, fmt.Errorf("no game store configured; import games first or set --store")
	}
	games, err := store.LoadGames(ctx, cfg.Player, cfg.GamesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no stored games found for player %q", cfg.Player)
	}
	return games, nil
}
