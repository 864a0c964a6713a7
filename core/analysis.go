// Package core runs the analysis pipeline end to end: feature extraction,
// pattern discovery, insight generation and report assembly.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/glynnsanity/tactical-tutor/core/discover"
	"github.com/glynnsanity/tactical-tutor/core/features"
	"github.com/glynnsanity/tactical-tutor/core/insight"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// Analyze runs the full pipeline on a set of games and returns the report.
// It is a pure transformation: the same games and config always produce the
// same insights, only the timings and timestamp differ between runs.
func Analyze(ctx context.Context, cfg *contract.Config, games []schema.GameRecord) (*schema.AnalysisReport, error) {
	if err := cfg.ValidateAnalysis(); err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, errors.New("no games to analyze")
	}
	player := games[0].Player

	start := time.Now()
	var timings schema.StageTimings

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stageStart := time.Now()
	table, skipped := features.Build(games, cfg)
	timings.Features = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stageStart = time.Now()
	patterns := discover.Discover(table, cfg)
	timings.Discovery = time.Since(stageStart)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stageStart = time.Now()
	insights := insight.Generate(patterns, table, cfg)
	timings.Insights = time.Since(stageStart)

	timings.Total = time.Since(start)

	gain := 0
	for _, ins := range insights {
		gain += ins.EstimatedRatingImpact
	}

	return &schema.AnalysisReport{
		Player:      player,
		GeneratedAt: time.Now().UTC(),
		Insights:    insights,
		Stats: schema.AnalysisStats{
			TotalGames:          len(games),
			TotalPositions:      len(table),
			SkippedPositions:    skipped,
			PatternsDiscovered:  len(patterns),
			InsightsGenerated:   len(insights),
			PotentialRatingGain: gain,
			Timings:             timings,
		},
	}, nil
}
