package insight

import (
	"testing"
	"time"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityScore(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	tests := []struct {
		name     string
		freq     int
		impactCP float64
		want     int
	}{
		{"baseline on both axes", 10, -100, 1},
		{"rare and mild clamps up to 1", 1, -10, 1},
		{"frequent and costly caps at 10", 50, -300, 10},
		{"five times baseline frequency", 50, -100, 5},
		{"positive impact scores the same", 10, 200, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := schema.Pattern{Frequency: tt.freq, ImpactCP: tt.impactCP}
			assert.Equal(t, tt.want, priorityScore(p, cfg))
		})
	}
}

func TestConfidenceScore(t *testing.T) {
	p := schema.Pattern{
		Strategy:    schema.StrategyCorrelation,
		Correlation: -0.8,
		Samples:     10,
	}
	// |r| discounted by the sample factor 0.5 + 0.5*10/20.
	assert.InDelta(t, 0.6, confidenceScore(p), 1e-9)

	p.Samples = 0
	assert.InDelta(t, 0.4, confidenceScore(p), 1e-9)

	p.Correlation = -1
	p.Samples = 1 << 20
	c := confidenceScore(p)
	assert.GreaterOrEqual(t, c, 0.0)
	assert.LessOrEqual(t, c, 1.0)
}

func TestRatingImpact(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	zero := schema.Pattern{Frequency: 0, ImpactCP: -500}
	assert.Equal(t, 0, ratingImpact(zero, cfg))

	p := schema.Pattern{Frequency: 10, ImpactCP: -100}
	first := ratingImpact(p, cfg)
	assert.Positive(t, first)

	// Doubling the frequency raises the estimate by less than double.
	p.Frequency = 20
	second := ratingImpact(p, cfg)
	assert.Greater(t, second, first)
	assert.Less(t, second, 2*first)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name    string
		pattern schema.Pattern
		want    schema.InsightCategory
	}{
		{
			"harmful correlation",
			schema.Pattern{Strategy: schema.StrategyCorrelation, ImpactCP: -80},
			schema.CategoryWeakness,
		},
		{
			"beneficial correlation",
			schema.Pattern{Strategy: schema.StrategyCorrelation, ImpactCP: 60},
			schema.CategoryStrength,
		},
		{
			"phase condition",
			schema.Pattern{Strategy: schema.StrategyConditional, Condition: "phase=endgame", ImpactCP: -80},
			schema.CategoryPhase,
		},
		{
			"non-phase condition falls through to direction",
			schema.Pattern{Strategy: schema.StrategyConditional, Condition: "time=blitz", ImpactCP: -80},
			schema.CategoryWeakness,
		},
		{
			"opening group",
			schema.Pattern{Strategy: schema.StrategyOpening, OpeningECO: "B20", ImpactCP: -80},
			schema.CategoryOpening,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categorize(tt.pattern))
		})
	}
}

func TestInsightID(t *testing.T) {
	opening := schema.Pattern{Strategy: schema.StrategyOpening, OpeningECO: "B20", ImpactCP: -80}
	assert.Equal(t, "opening-b20", insightID(opening, categorize(opening)))

	cond := schema.Pattern{
		Strategy:  schema.StrategyConditional,
		Condition: "phase=endgame",
		Feature:   schema.FeatOwnHangingPieces,
		ImpactCP:  -80,
	}
	assert.Equal(t, "phase-phase-endgame-own_hanging_pieces", insightID(cond, categorize(cond)))

	corr := schema.Pattern{Strategy: schema.StrategyCorrelation, Feature: schema.FeatOwnIsolatedPawns, ImpactCP: -80}
	assert.Equal(t, "weakness-own_isolated_pawns", insightID(corr, categorize(corr)))
}

func TestConditionLabel(t *testing.T) {
	assert.Equal(t, "endgame", conditionLabel("phase=endgame"))
	assert.Equal(t, "blitz time control", conditionLabel("time=blitz"))
	assert.Equal(t, "white games", conditionLabel("color=white"))
	assert.Equal(t, "oddball", conditionLabel("oddball"))
}

// evidenceRow builds one evaluated user row carrying the hanging-pieces
// feature, for evidence collection tests.
func evidenceRow(gameID string, moveIndex int, swing float64, playedAt time.Time) schema.PositionFeatures {
	row := schema.PositionFeatures{
		GameID:      gameID,
		MoveIndex:   moveIndex,
		Perspective: schema.PerspectiveUser,
		Side:        schema.SideWhite,
		Phase:       schema.PhaseMiddlegame,
		OpeningECO:  schema.UnknownOpening,
		PlayedAt:    playedAt,
		FEN:         "4k3/8/8/8/8/8/8/4K3 w - - 0 1",
		MoveSAN:     "Kd1",
		HasEval:     true,
		EvalSwingCP: swing,
		Values:      schema.NewValueMap(),
	}
	row.Values[schema.FeatOwnHangingPieces] = 1
	return row
}

func TestCollectEvidence_TotalsAndExampleCap(t *testing.T) {
	p := schema.Pattern{
		Strategy: schema.StrategyCorrelation,
		Feature:  schema.FeatOwnHangingPieces,
		ImpactCP: -80,
	}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	table := schema.FeatureTable{
		evidenceRow("g1", 4, -300, base),
		evidenceRow("g1", 9, -50, base),
		evidenceRow("g2", 2, -700, base.Add(24*time.Hour)),
		evidenceRow("g2", 7, -100, base.Add(24*time.Hour)),
		evidenceRow("g3", 1, -20, base.Add(48*time.Hour)),
	}
	// Rows that never count: opponent perspective, missing eval, feature off.
	opp := evidenceRow("g4", 0, -900, base)
	opp.Perspective = schema.PerspectiveOpponent
	noEval := evidenceRow("g5", 0, -900, base)
	noEval.HasEval = false
	off := evidenceRow("g6", 0, -900, base)
	off.Values[schema.FeatOwnHangingPieces] = 0
	table = append(table, opp, noEval, off)

	ev := collectEvidence(p, table, 2)

	assert.Equal(t, 3, ev.TotalGames)
	assert.Equal(t, 5, ev.TotalPositions)
	require.Len(t, ev.Examples, 2)
	// Worst swings first for a harmful pattern.
	assert.Equal(t, "g2", ev.Examples[0].GameID)
	assert.InDelta(t, -700, ev.Examples[0].SwingCP, 1e-9)
	assert.Equal(t, "g1", ev.Examples[1].GameID)
	assert.InDelta(t, -300, ev.Examples[1].SwingCP, 1e-9)
	assert.Contains(t, ev.Examples[0].Description, "lost 700 centipawns")
}

func TestCollectEvidence_BeneficialPatternKeepsBestSwings(t *testing.T) {
	p := schema.Pattern{
		Strategy: schema.StrategyCorrelation,
		Feature:  schema.FeatOwnHangingPieces,
		ImpactCP: 40,
	}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := schema.FeatureTable{
		evidenceRow("g1", 0, 30, base),
		evidenceRow("g1", 1, 250, base),
		evidenceRow("g1", 2, 90, base),
	}

	ev := collectEvidence(p, table, 1)

	require.Len(t, ev.Examples, 1)
	assert.InDelta(t, 250, ev.Examples[0].SwingCP, 1e-9)
	assert.Contains(t, ev.Examples[0].Description, "gained 250 centipawns")
}

func TestMatchesPattern_Strategies(t *testing.T) {
	row := evidenceRow("g1", 0, -100, time.Now())
	row.Phase = schema.PhaseEndgame
	row.OpeningECO = "B20"

	corr := schema.Pattern{Strategy: schema.StrategyCorrelation, Feature: schema.FeatOwnHangingPieces}
	assert.True(t, matchesPattern(corr, &row))

	cond := schema.Pattern{
		Strategy:  schema.StrategyConditional,
		Feature:   schema.FeatOwnHangingPieces,
		Condition: "phase=endgame",
	}
	assert.True(t, matchesPattern(cond, &row))
	cond.Condition = "phase=opening"
	assert.False(t, matchesPattern(cond, &row))

	opening := schema.Pattern{Strategy: schema.StrategyOpening, OpeningECO: "B20"}
	assert.True(t, matchesPattern(opening, &row))
	opening.OpeningECO = "C50"
	assert.False(t, matchesPattern(opening, &row))
}

func TestGenerate_EmptyPatterns(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	assert.Empty(t, Generate(nil, nil, cfg))
}

func TestGenerate_SortsAndTruncates(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	cfg.MaxInsights = 2

	patterns := []schema.Pattern{
		{
			Strategy:    schema.StrategyCorrelation,
			Feature:     schema.FeatOwnDoubledPawns,
			Frequency:   10,
			Samples:     10,
			Correlation: -0.3,
			ImpactCP:    -100, // priority 1
		},
		{
			Strategy:    schema.StrategyCorrelation,
			Feature:     schema.FeatOwnHangingPieces,
			Frequency:   50,
			Samples:     50,
			Correlation: -0.8,
			ImpactCP:    -300, // priority 10
		},
		{
			Strategy:   schema.StrategyOpening,
			OpeningECO: "B20",
			Frequency:  20,
			Samples:    20,
			ImpactCP:   -150, // priority 3
		},
	}

	insights := Generate(patterns, nil, cfg)

	require.Len(t, insights, 2)
	assert.Equal(t, "weakness-own_hanging_pieces", insights[0].ID)
	assert.Equal(t, 10, insights[0].Priority)
	assert.Equal(t, "opening-b20", insights[1].ID)
	assert.Equal(t, 3, insights[1].Priority)
}

func TestGenerate_NarrativeContent(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	patterns := []schema.Pattern{
		{
			Strategy:    schema.StrategyCorrelation,
			Feature:     schema.FeatOwnHangingPieces,
			Frequency:   12,
			Games:       6,
			Samples:     40,
			Correlation: -0.5,
			ImpactCP:    -90,
		},
		{
			Strategy:    schema.StrategyOpening,
			OpeningECO:  "B20",
			OpeningName: "Sicilian Defense",
			WorstPhase:  schema.PhaseMiddlegame,
			MistakeFlag: schema.FeatOwnHangingPieces,
			Frequency:   15,
			Games:       4,
			Samples:     15,
			ImpactCP:    -70,
		},
	}

	insights := Generate(patterns, nil, cfg)
	require.Len(t, insights, 2)

	byID := make(map[string]schema.Insight, len(insights))
	for _, ins := range insights {
		byID[ins.ID] = ins
	}

	weakness, ok := byID["weakness-own_hanging_pieces"]
	require.True(t, ok)
	assert.Equal(t, schema.CategoryWeakness, weakness.Category)
	assert.Contains(t, weakness.Title, "Weakness:")
	assert.Contains(t, weakness.Summary, "r=-0.50")
	assert.NotEmpty(t, weakness.Plan.Immediate)
	assert.NotEmpty(t, weakness.Plan.StudyPlan)

	opening, ok := byID["opening-b20"]
	require.True(t, ok)
	assert.Equal(t, schema.CategoryOpening, opening.Category)
	assert.Contains(t, opening.Title, "Sicilian Defense")
	assert.Contains(t, opening.Title, "B20")
	assert.Contains(t, opening.Summary, "middlegame")
}

func TestGenerate_StrengthPattern(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	patterns := []schema.Pattern{{
		Strategy:    schema.StrategyCorrelation,
		Feature:     schema.FeatOwnPassedPawns,
		Frequency:   8,
		Games:       5,
		Samples:     30,
		Correlation: 0.4,
		ImpactCP:    65,
	}}

	insights := Generate(patterns, nil, cfg)

	require.Len(t, insights, 1)
	assert.Equal(t, schema.CategoryStrength, insights[0].Category)
	assert.Contains(t, insights[0].Title, "Strength:")
	assert.Contains(t, insights[0].Impact, "+65")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "hanging pieces", humanize(schema.FeatOwnHangingPieces))
	assert.Equal(t, "passed pawns", humanize(schema.FeatOppPassedPawns))
	assert.Equal(t, "is in check", humanize(schema.FeatIsInCheck))
}
