package discover

import (
	"fmt"
	"math"
	"testing"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRow builds an evaluated user-perspective row with one feature set.
func newRow(gameID string, feature string, value, swing float64) schema.PositionFeatures {
	row := schema.PositionFeatures{
		GameID:      gameID,
		Perspective: schema.PerspectiveUser,
		Side:        schema.SideWhite,
		Phase:       schema.PhaseMiddlegame,
		TimeClass:   schema.TimeUnknown,
		OpeningECO:  schema.UnknownOpening,
		HasEval:     true,
		EvalSwingCP: swing,
		Values:      schema.NewValueMap(),
	}
	row.Values[feature] = value
	row.Values[schema.FeatEvalSwingCP] = swing
	return row
}

// linearRows returns n rows where the feature value climbs 1..n and the
// swing is exactly -10x, a perfect negative correlation.
func linearRows(n int, feature string) []schema.PositionFeatures {
	rows := make([]schema.PositionFeatures, 0, n)
	for i := 1; i <= n; i++ {
		gameID := fmt.Sprintf("g%d", (i-1)/4)
		rows = append(rows, newRow(gameID, feature, float64(i), -10*float64(i)))
	}
	return rows
}

func TestPearson_PerfectNegative(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{-10, -20, -30, -40, -50}

	r, ok := pearson(xs, ys)

	require.True(t, ok)
	assert.InDelta(t, -1.0, r, 1e-12)
}

func TestPearson_Undefined(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"too few samples", []float64{1}, []float64{2}},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}},
		{"constant x", []float64{3, 3, 3}, []float64{1, 2, 3}},
		{"constant y", []float64{1, 2, 3}, []float64{5, 5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := pearson(tt.xs, tt.ys)
			assert.False(t, ok)
		})
	}
}

func TestTStatistic_PerfectCorrelation(t *testing.T) {
	assert.True(t, math.IsInf(tStatistic(1.0, 20), 1))
	assert.Equal(t, 0.0, tStatistic(0.5, 2))
	assert.Equal(t, 0.0, pValueFromT(math.Inf(1)))
}

func TestCorrelationPatterns_PerfectLinear(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	rows := linearRows(20, schema.FeatOwnHangingPieces)

	patterns := correlationPatterns(rows, cfg, schema.StrategyCorrelation, "")

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, schema.StrategyCorrelation, p.Strategy)
	assert.Equal(t, schema.FeatOwnHangingPieces, p.Feature)
	assert.Equal(t, 20, p.Frequency)
	assert.Equal(t, 5, p.Games)
	assert.Equal(t, 20, p.Samples)
	assert.InDelta(t, -1.0, p.Correlation, 1e-9)
	assert.Equal(t, 0.0, p.PValue)
	// Effect size equals r times the target's standard deviation.
	assert.InDelta(t, -10*math.Sqrt(33.25), p.ImpactCP, 1e-6)
	assert.True(t, p.Harmful())
}

func TestCorrelationPatterns_ConstantFeatureExcluded(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	rows := make([]schema.PositionFeatures, 0, 10)
	for i := 1; i <= 10; i++ {
		// The feature is always 1: frequent, but with zero variance.
		rows = append(rows, newRow("g1", schema.FeatOwnDoubledPawns, 1, -10*float64(i)))
	}

	patterns := correlationPatterns(rows, cfg, schema.StrategyCorrelation, "")

	assert.Empty(t, patterns)
}

func TestCorrelationPatterns_Thresholds(t *testing.T) {
	rows := linearRows(20, schema.FeatOwnHangingPieces)

	t.Run("min frequency", func(t *testing.T) {
		cfg := contract.NewDefaultConfig()
		cfg.MinFrequency = 21
		assert.Empty(t, correlationPatterns(rows, cfg, schema.StrategyCorrelation, ""))
	})
	t.Run("min impact", func(t *testing.T) {
		cfg := contract.NewDefaultConfig()
		cfg.MinImpactCP = 1000
		assert.Empty(t, correlationPatterns(rows, cfg, schema.StrategyCorrelation, ""))
	})
	t.Run("defaults pass", func(t *testing.T) {
		cfg := contract.NewDefaultConfig()
		assert.Len(t, correlationPatterns(rows, cfg, schema.StrategyCorrelation, ""), 1)
	})
}

func TestConditionalPatterns_PhasePartition(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	// Endgame rows carry a perfect correlation; middlegame rows carry the
	// feature with no relationship to the target.
	rows := linearRows(20, schema.FeatOwnIsolatedPawns)
	for i := range rows {
		rows[i].Phase = schema.PhaseEndgame
	}
	noise := []float64{-40, -40, -40, -40, -40, -40}
	for i, swing := range noise {
		row := newRow("gm", schema.FeatOwnIsolatedPawns, float64(i%2), swing)
		row.Phase = schema.PhaseMiddlegame
		rows = append(rows, row)
	}

	patterns := conditionalPatterns(rows, cfg)

	var tags []string
	for _, p := range patterns {
		tags = append(tags, p.Condition)
		assert.Equal(t, schema.StrategyConditional, p.Strategy)
	}
	assert.Contains(t, tags, "phase=endgame")
	assert.NotContains(t, tags, "phase=middlegame")
}

func TestMatchesCondition(t *testing.T) {
	row := newRow("g1", schema.FeatOwnDoubledPawns, 1, -50)
	row.Phase = schema.PhaseEndgame
	row.TimeClass = schema.TimeBlitz
	row.Side = schema.SideBlack

	assert.True(t, MatchesCondition("phase=endgame", &row))
	assert.True(t, MatchesCondition("time=blitz", &row))
	assert.True(t, MatchesCondition("color=black", &row))
	assert.False(t, MatchesCondition("phase=opening", &row))
	assert.False(t, MatchesCondition("color=white", &row))
	assert.False(t, MatchesCondition("bogus=tag", &row))
}

func TestConditions_Deterministic(t *testing.T) {
	first := Conditions()
	second := Conditions()

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Tag, second[i].Tag)
	}
}

func TestOpeningPatterns_DistinctGameGate(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	makeGroup := func(eco string, games int) []schema.PositionFeatures {
		var rows []schema.PositionFeatures
		for g := range games {
			for range 2 {
				row := newRow(fmt.Sprintf("%s-game%d", eco, g), schema.FeatOwnHangingPieces, 1, -120)
				row.OpeningECO = eco
				row.OpeningName = "Test Opening " + eco
				rows = append(rows, row)
			}
		}
		return rows
	}

	rows := append(makeGroup("B20", 3), makeGroup("C50", 2)...)
	patterns := openingPatterns(rows, cfg)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, schema.StrategyOpening, p.Strategy)
	assert.Equal(t, "B20", p.OpeningECO)
	assert.Equal(t, "Test Opening B20", p.OpeningName)
	assert.Equal(t, 6, p.Frequency)
	assert.Equal(t, 3, p.Games)
	assert.InDelta(t, -120, p.ImpactCP, 1e-9)
	assert.Equal(t, schema.FeatOwnHangingPieces, p.MistakeFlag)
}

func TestOpeningPatterns_ProfitableOpeningExcluded(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	var rows []schema.PositionFeatures
	for g := range 3 {
		for range 2 {
			row := newRow(fmt.Sprintf("win%d", g), schema.FeatOwnHangingPieces, 0, 80)
			row.OpeningECO = "D35"
			rows = append(rows, row)
		}
	}

	assert.Empty(t, openingPatterns(rows, cfg))
}

func TestOpeningPatterns_UnknownOpeningIgnored(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	rows := linearRows(20, schema.FeatOwnHangingPieces) // all unknown ECO

	assert.Empty(t, openingPatterns(rows, cfg))
}

func TestDiscover_FiltersNonUserAndUnevaluatedRows(t *testing.T) {
	cfg := contract.NewDefaultConfig()

	rows := linearRows(20, schema.FeatOwnHangingPieces)
	for i := range rows {
		if i%2 == 0 {
			rows[i].Perspective = schema.PerspectiveOpponent
		} else {
			rows[i].HasEval = false
		}
	}

	assert.Empty(t, Discover(schema.FeatureTable(rows), cfg))
}

func TestDiscover_RanksCorrelationFirstOnTies(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	table := schema.FeatureTable(linearRows(20, schema.FeatOwnHangingPieces))

	patterns := Discover(table, cfg)

	// The same rows qualify globally and inside every matching partition, so
	// the composite scores tie; strategy priority settles the order.
	require.NotEmpty(t, patterns)
	assert.Equal(t, schema.StrategyCorrelation, patterns[0].Strategy)
	for _, p := range patterns[1:] {
		assert.Equal(t, schema.StrategyConditional, p.Strategy)
	}
}

func TestDiscover_MaxPatternsCap(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	cfg.MaxPatterns = 1

	patterns := Discover(schema.FeatureTable(linearRows(20, schema.FeatOwnHangingPieces)), cfg)

	assert.Len(t, patterns, 1)
}

func TestDiscover_EmptyTable(t *testing.T) {
	cfg := contract.NewDefaultConfig()
	assert.Nil(t, Discover(nil, cfg))
}
