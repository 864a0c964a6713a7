package insight

import (
	"fmt"
	"sort"

	"github.com/glynnsanity/tactical-tutor/core/discover"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// matchesPattern reports whether a feature row is an occurrence of the
// pattern: the feature fires (or the condition/opening applies) on an
// evaluated row from the player's perspective.
func matchesPattern(p schema.Pattern, row *schema.PositionFeatures) bool {
	if row.Perspective != schema.PerspectiveUser || !row.HasEval {
		return false
	}
	switch p.Strategy {
	case schema.StrategyCorrelation:
		return row.Values[p.Feature] != 0
	case schema.StrategyConditional:
		return row.Values[p.Feature] != 0 && discover.MatchesCondition(p.Condition, row)
	case schema.StrategyOpening:
		return row.OpeningECO == p.OpeningECO
	default:
		return false
	}
}

// collectEvidence gathers every row matching the pattern, then keeps the
// worst positions (best, for beneficial patterns) as examples. Totals always
// reflect the full matching set, not just the retained examples.
func collectEvidence(p schema.Pattern, table schema.FeatureTable, limit int) schema.Evidence {
	var matched []*schema.PositionFeatures
	games := make(map[string]struct{})
	for i := range table {
		row := &table[i]
		if !matchesPattern(p, row) {
			continue
		}
		matched = append(matched, row)
		games[row.GameID] = struct{}{}
	}

	harmful := p.Harmful()
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.EvalSwingCP != b.EvalSwingCP {
			if harmful {
				return a.EvalSwingCP < b.EvalSwingCP
			}
			return a.EvalSwingCP > b.EvalSwingCP
		}
		if !a.PlayedAt.Equal(b.PlayedAt) {
			return a.PlayedAt.After(b.PlayedAt)
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.MoveIndex < b.MoveIndex
	})

	ev := schema.Evidence{
		TotalGames:     len(games),
		TotalPositions: len(matched),
	}
	for _, row := range matched {
		if len(ev.Examples) >= limit {
			break
		}
		ev.Examples = append(ev.Examples, schema.ExamplePosition{
			GameID:      row.GameID,
			MoveIndex:   row.MoveIndex,
			FEN:         row.FEN,
			Description: exampleDescription(p, row),
			Link:        row.Link,
			PlayedAt:    row.PlayedAt,
			SwingCP:     row.EvalSwingCP,
		})
	}
	return ev
}

// exampleDescription renders a one-line caption for an example position.
func exampleDescription(p schema.Pattern, row *schema.PositionFeatures) string {
	move := row.MoveSAN
	if move == "" {
		move = fmt.Sprintf("move %d", row.MoveIndex+1)
	}
	switch {
	case row.EvalSwingCP <= 0:
		return fmt.Sprintf("%s lost %.0f centipawns (%s)", move, -row.EvalSwingCP, phaseLabel(row.Phase))
	default:
		return fmt.Sprintf("%s gained %.0f centipawns (%s)", move, row.EvalSwingCP, phaseLabel(row.Phase))
	}
}
