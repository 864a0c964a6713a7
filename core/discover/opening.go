package discover

import (
	"sort"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// minOpeningGames is the minimum number of distinct games an opening must
// appear in before its group is analyzed.
const minOpeningGames = 3

// openingPatterns groups rows by ECO code and surfaces openings where the
// player consistently loses evaluation. Each qualifying group contributes at
// most one pattern, carrying the phase with the largest mean loss and the
// dominant mistake flag as descriptive payload.
func openingPatterns(rows []schema.PositionFeatures, cfg *contract.Config) []schema.Pattern {
	groups := make(map[string][]int)
	for i := range rows {
		if rows[i].OpeningECO == schema.UnknownOpening {
			continue
		}
		groups[rows[i].OpeningECO] = append(groups[rows[i].OpeningECO], i)
	}

	ecos := make([]string, 0, len(groups))
	for eco := range groups {
		ecos = append(ecos, eco)
	}
	sort.Strings(ecos)

	var patterns []schema.Pattern
	for _, eco := range ecos {
		idxs := groups[eco]

		gameSet := make(map[string]bool)
		for _, i := range idxs {
			gameSet[rows[i].GameID] = true
		}
		if len(gameSet) < minOpeningGames || len(idxs) < cfg.MinFrequency {
			continue
		}

		swings := make([]float64, len(idxs))
		for j, i := range idxs {
			swings[j] = rows[i].EvalSwingCP
		}
		meanSwing := mean(swings)
		if meanSwing > -cfg.MinImpactCP {
			continue // the opening is not costing enough to report
		}

		patterns = append(patterns, schema.Pattern{
			Strategy:    schema.StrategyOpening,
			OpeningECO:  eco,
			OpeningName: openingName(rows, idxs),
			WorstPhase:  worstPhase(rows, idxs),
			MistakeFlag: dominantMistakeFlag(rows, idxs),
			Frequency:   len(idxs),
			Games:       len(gameSet),
			Samples:     len(idxs),
			ImpactCP:    meanSwing,
		})
	}
	return patterns
}

// openingName returns the first non-empty opening name in the group.
func openingName(rows []schema.PositionFeatures, idxs []int) string {
	for _, i := range idxs {
		if rows[i].OpeningName != "" {
			return rows[i].OpeningName
		}
	}
	return ""
}

// worstPhase identifies which game phase contributes the largest mean loss
// within the group. Ties resolve in phase order opening, middlegame, endgame.
func worstPhase(rows []schema.PositionFeatures, idxs []int) schema.GamePhase {
	sums := make(map[schema.GamePhase]float64)
	counts := make(map[schema.GamePhase]int)
	for _, i := range idxs {
		sums[rows[i].Phase] += rows[i].EvalSwingCP
		counts[rows[i].Phase]++
	}

	worst := schema.PhaseMiddlegame
	worstMean := 0.0
	first := true
	for _, phase := range []schema.GamePhase{schema.PhaseOpening, schema.PhaseMiddlegame, schema.PhaseEndgame} {
		if counts[phase] == 0 {
			continue
		}
		m := sums[phase] / float64(counts[phase])
		if first || m < worstMean {
			worst, worstMean = phase, m
			first = false
		}
	}
	return worst
}

// dominantMistakeFlag returns the most frequent non-neutral tactical or
// positional flag within the group. Ties resolve by registry order for
// determinism; an all-neutral group returns the empty string.
func dominantMistakeFlag(rows []schema.PositionFeatures, idxs []int) string {
	best := ""
	bestCount := 0
	for _, flag := range schema.MistakeFlagNames {
		count := 0
		for _, i := range idxs {
			if rows[i].Values[flag] > 0 {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = flag, count
		}
	}
	return best
}
