package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureNames_UniqueAndStable(t *testing.T) {
	names := FeatureNames()
	require.NotEmpty(t, names)

	seen := make(map[string]bool, len(names))
	for _, name := range names {
		assert.False(t, seen[name], "duplicate feature name %q", name)
		seen[name] = true
	}

	// The registry is a copy: mutating it must not leak back.
	names[0] = "mutated"
	assert.NotEqual(t, "mutated", FeatureNames()[0])
}

func TestPredictorNames_ExcludesOutcomes(t *testing.T) {
	predictors := PredictorNames()
	require.NotEmpty(t, predictors)

	outcomes := []string{
		FeatEvalBeforeCP, FeatEvalAfterCP, FeatEvalSwingCP,
		FeatWasBlunder, FeatWasMistake, FeatWasInaccuracy,
	}
	for _, name := range predictors {
		assert.NotContains(t, outcomes, name)
	}
	assert.Len(t, predictors, len(FeatureNames())-len(outcomes))
	assert.Contains(t, predictors, FeatOwnHangingPieces)
}

func TestNewValueMap_CoversEveryFeature(t *testing.T) {
	m := NewValueMap()

	assert.Len(t, m, len(FeatureNames()))
	for _, name := range FeatureNames() {
		v, ok := m[name]
		assert.True(t, ok, "missing feature %q", name)
		assert.Zero(t, v)
	}
}

func TestMistakeFlagNames_AreRegisteredFeatures(t *testing.T) {
	all := FeatureNames()
	for _, flag := range MistakeFlagNames {
		assert.Contains(t, all, flag)
	}
}

func TestFeatureTable_UserRows(t *testing.T) {
	table := FeatureTable{
		{GameID: "g1", Perspective: PerspectiveUser},
		{GameID: "g1", Perspective: PerspectiveOpponent},
		{GameID: "g2", Perspective: PerspectiveUser},
	}

	rows := table.UserRows()

	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, PerspectiveUser, row.Perspective)
	}
}

func TestPattern_Harmful(t *testing.T) {
	assert.True(t, Pattern{ImpactCP: -30}.Harmful())
	assert.False(t, Pattern{ImpactCP: 30}.Harmful())
	assert.False(t, Pattern{ImpactCP: 0}.Harmful())
}
