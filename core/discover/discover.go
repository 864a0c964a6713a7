// Package discover finds statistically supported patterns linking position
// features to evaluation loss. Three independent strategies feed one ranked
// list: global correlation, conditional (stratified) correlation, and
// opening-grouped aggregation. The whole package is pure computation over an
// immutable feature table; an empty result is a valid outcome, not an error.
package discover

import (
	"sort"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// strategyRank orders strategies for deterministic tie-breaking:
// correlation > conditional > opening.
var strategyRank = map[schema.StrategyKind]int{
	schema.StrategyCorrelation: 0,
	schema.StrategyConditional: 1,
	schema.StrategyOpening:     2,
}

// Discover runs all three strategies over the feature table and returns the
// merged, ranked, truncated pattern list. Only the user's own evaluated
// moves participate; opponent-perspective rows exist for context and are
// ignored here.
func Discover(table schema.FeatureTable, cfg *contract.Config) []schema.Pattern {
	rows := evaluatedUserRows(table)
	if len(rows) == 0 {
		return nil
	}

	patterns := correlationPatterns(rows, cfg, schema.StrategyCorrelation, "")
	patterns = append(patterns, conditionalPatterns(rows, cfg)...)
	patterns = append(patterns, openingPatterns(rows, cfg)...)

	rankPatterns(patterns)
	if len(patterns) > cfg.MaxPatterns {
		patterns = patterns[:cfg.MaxPatterns]
	}
	return patterns
}

// evaluatedUserRows filters the table down to rows where the user was to
// move and an engine evaluation anchors the target variable.
func evaluatedUserRows(table schema.FeatureTable) []schema.PositionFeatures {
	rows := make([]schema.PositionFeatures, 0, len(table)/2+1)
	for i := range table {
		if table[i].Perspective == schema.PerspectiveUser && table[i].HasEval {
			rows = append(rows, table[i])
		}
	}
	return rows
}

// Strength normalizes a pattern's statistical strength to [0,1]: |r| for
// correlation-based patterns, mean loss scaled against a 200cp ceiling for
// opening groups.
func Strength(p schema.Pattern) float64 {
	if p.Strategy == schema.StrategyOpening {
		s := abs(p.ImpactCP) / 200.0
		if s > 1 {
			s = 1
		}
		return s
	}
	return abs(p.Correlation)
}

// composite is the ranking score: effect size weighted by statistical
// strength.
func composite(p schema.Pattern) float64 {
	return abs(p.ImpactCP) * Strength(p)
}

// rankPatterns sorts patterns descending by composite score. Ties break by
// larger sample size first, then by strategy priority, then by feature and
// condition names so the order never depends on input ordering.
func rankPatterns(patterns []schema.Pattern) {
	sort.SliceStable(patterns, func(a, b int) bool {
		pa, pb := patterns[a], patterns[b]
		ca, cb := composite(pa), composite(pb)
		if ca != cb {
			return ca > cb
		}
		if pa.Frequency != pb.Frequency {
			return pa.Frequency > pb.Frequency
		}
		if strategyRank[pa.Strategy] != strategyRank[pb.Strategy] {
			return strategyRank[pa.Strategy] < strategyRank[pb.Strategy]
		}
		if pa.Feature != pb.Feature {
			return pa.Feature < pb.Feature
		}
		if pa.Condition != pb.Condition {
			return pa.Condition < pb.Condition
		}
		return pa.OpeningECO < pb.OpeningECO
	})
}
