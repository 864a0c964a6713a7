package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFixture() *schema.AnalysisReport {
	return &schema.AnalysisReport{
		Player:      "magnus",
		GeneratedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Insights: []schema.Insight{
			{
				ID:       "weakness-own_hanging_pieces",
				Category: schema.CategoryWeakness,
				Title:    "Weakness: hanging pieces cost you material",
				Summary:  "Positions with hanging pieces correlate with losing material.",
				Impact:   "-120 centipawns per occurrence on average",
				Plan: schema.ActionPlan{
					Immediate: "Check undefended pieces before every move.",
					NextGames: "Track every game where hanging pieces appear.",
					StudyPlan: []string{"Drill undefended-piece scanning puzzles"},
					Resources: []string{"Tactics trainer: hanging piece motifs"},
				},
				Evidence: schema.Evidence{
					TotalGames:     9,
					TotalPositions: 21,
					Examples: []schema.ExamplePosition{
						{GameID: "abcd1234", MoveIndex: 17, Description: "Nb5 lost 340 centipawns (middlegame)"},
					},
				},
				EstimatedRatingImpact: 45,
				Confidence:            0.82,
				Priority:              7,
				Pattern: schema.Pattern{
					Strategy: schema.StrategyCorrelation,
					Feature:  schema.FeatOwnHangingPieces,
					ImpactCP: -120.5,
				},
			},
		},
		Stats: schema.AnalysisStats{
			TotalGames:          20,
			TotalPositions:      800,
			SkippedPositions:    3,
			PatternsDiscovered:  4,
			InsightsGenerated:   1,
			PotentialRatingGain: 45,
			Timings: schema.StageTimings{
				Features:  120 * time.Millisecond,
				Discovery: 40 * time.Millisecond,
				Insights:  5 * time.Millisecond,
				Total:     165 * time.Millisecond,
			},
		},
	}
}

func textConfig() *contract.Config {
	cfg := contract.NewDefaultConfig()
	cfg.UseColor = false
	cfg.Width = 120
	return cfg
}

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()

	err := writeReportText(&buf, reportFixture(), cfg, createFloatFormatter(cfg.Precision))

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Analysis for magnus: 20 games, 800 positions (3 skipped)")
	assert.Contains(t, out, "Weakness: hanging pieces cost you material")
	assert.Contains(t, out, "weakness")
	assert.Contains(t, out, "-120.5")
	assert.Contains(t, out, "Showing 1 insights from 4 patterns. Estimated addressable rating: 45 points")
	assert.Contains(t, out, "Analysis completed in 165ms")
	assert.NotContains(t, out, "Next games:", "details are opt-in")
}

func TestWriteReportText_Detail(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()
	cfg.Detail = true

	err := writeReportText(&buf, reportFixture(), cfg, createFloatFormatter(cfg.Precision))

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "1. Weakness: hanging pieces cost you material")
	assert.Contains(t, out, "Now: Check undefended pieces before every move.")
	assert.Contains(t, out, "Next games: Track every game where hanging pieces appear.")
	assert.Contains(t, out, "Study: Drill undefended-piece scanning puzzles")
	assert.Contains(t, out, "Example: Nb5 lost 340 centipawns (middlegame) (game abcd1234, move 18)")
	assert.Contains(t, out, "est. 45 rating points")
}

func TestWriteReportText_NoInsights(t *testing.T) {
	var buf bytes.Buffer
	cfg := textConfig()
	report := reportFixture()
	report.Insights = nil

	err := writeReportText(&buf, report, cfg, createFloatFormatter(cfg.Precision))

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No significant patterns found.")
}

func TestWriteReportCSV(t *testing.T) {
	var buf bytes.Buffer

	err := writeReportCSV(&buf, reportFixture(), createFloatFormatter(2))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{
		"rank", "id", "category", "title", "priority", "confidence",
		"impact_cp", "rating_impact", "total_games", "total_positions", "strategy",
	}, records[0])
	assert.Equal(t, []string{
		"1", "weakness-own_hanging_pieces", "weakness",
		"Weakness: hanging pieces cost you material", "7", "0.82",
		"-120.50", "45", "9", "21", "correlation",
	}, records[1])
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeJSON(&buf, reportFixture()))

	var decoded schema.AnalysisReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "magnus", decoded.Player)
	require.Len(t, decoded.Insights, 1)
	assert.Equal(t, "weakness-own_hanging_pieces", decoded.Insights[0].ID)
	assert.Equal(t, 800, decoded.Stats.TotalPositions)
	// Indented output for readability.
	assert.True(t, strings.Contains(buf.String(), "\n  \""))
}

func TestCreateFloatFormatter(t *testing.T) {
	assert.Equal(t, "1.5", createFloatFormatter(1)(1.46))
	assert.Equal(t, "1", createFloatFormatter(0)(1.46))
	assert.Equal(t, "1.460", createFloatFormatter(3)(1.46))
}

func TestMaxTitleWidth(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	cfg.Width = 200
	assert.Equal(t, 60, maxTitleWidth(cfg), "wide terminals clamp high")
	cfg.Width = 80
	assert.Equal(t, 20, maxTitleWidth(cfg), "narrow terminals clamp low")
	cfg.Width = 110
	assert.Equal(t, 40, maxTitleWidth(cfg))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "a long ti...", truncate("a long title that keeps going", 12))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}
