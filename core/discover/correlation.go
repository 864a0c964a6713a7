package discover

import (
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// correlationPatterns runs the global correlation strategy over rows: every
// numeric predictor is correlated against the target variable, and features
// clearing all three thresholds simultaneously become patterns. Callers are
// expected to pass evaluated user rows only.
func correlationPatterns(rows []schema.PositionFeatures, cfg *contract.Config, strategy schema.StrategyKind, condition string) []schema.Pattern {
	if len(rows) < 2 {
		return nil
	}

	ys := make([]float64, len(rows))
	for i := range rows {
		ys[i] = rows[i].EvalSwingCP
	}

	var patterns []schema.Pattern
	xs := make([]float64, len(rows))
	for _, name := range schema.PredictorNames() {
		occurrences := 0
		gameSet := make(map[string]bool)
		for i := range rows {
			x := rows[i].Values[name]
			xs[i] = x
			if x != 0 {
				occurrences++
				gameSet[rows[i].GameID] = true
			}
		}

		// Minimum occurrence count gates how often the feature is actually
		// present, not how many rows the statistic ran over.
		if occurrences < cfg.MinFrequency {
			continue
		}

		r, ok := pearson(xs, ys)
		if !ok {
			continue // zero variance or degenerate sample
		}
		if abs(r) < cfg.MinCorrelation {
			continue
		}
		effect := impliedEffectCP(r, ys)
		if abs(effect) < cfg.MinImpactCP {
			continue
		}

		patterns = append(patterns, schema.Pattern{
			Strategy:    strategy,
			Feature:     name,
			Condition:   condition,
			Frequency:   occurrences,
			Games:       len(gameSet),
			Samples:     len(rows),
			Correlation: r,
			PValue:      pValueFromT(tStatistic(r, len(rows))),
			ImpactCP:    effect,
		})
	}
	return patterns
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
