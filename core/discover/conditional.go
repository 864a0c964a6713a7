package discover

import (
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// Condition is one stratifying predicate for the conditional strategy. The
// set of conditions is a closed categorical dispatch: adding a new condition
// means adding an entry here, never touching the correlation core.
type Condition struct {
	Tag   string // e.g. "phase=endgame"
	Match func(*schema.PositionFeatures) bool
}

// Conditions returns the fixed enumerated set of stratifying conditions, in
// deterministic order.
func Conditions() []Condition {
	conds := make([]Condition, 0, 8)
	for _, phase := range []schema.GamePhase{schema.PhaseOpening, schema.PhaseMiddlegame, schema.PhaseEndgame} {
		p := phase
		conds = append(conds, Condition{
			Tag:   "phase=" + string(p),
			Match: func(row *schema.PositionFeatures) bool { return row.Phase == p },
		})
	}
	for _, tc := range []schema.TimeClass{schema.TimeBullet, schema.TimeBlitz, schema.TimeRapid} {
		t := tc
		conds = append(conds, Condition{
			Tag:   "time=" + string(t),
			Match: func(row *schema.PositionFeatures) bool { return row.TimeClass == t },
		})
	}
	for _, side := range []string{schema.SideWhite, schema.SideBlack} {
		s := side
		conds = append(conds, Condition{
			Tag:   "color=" + s,
			Match: func(row *schema.PositionFeatures) bool { return row.Side == s },
		})
	}
	return conds
}

// MatchesCondition reports whether a row satisfies the condition identified
// by tag. Unknown tags match nothing.
func MatchesCondition(tag string, row *schema.PositionFeatures) bool {
	for _, cond := range Conditions() {
		if cond.Tag == tag {
			return cond.Match(row)
		}
	}
	return false
}

// conditionalPatterns partitions rows by each stratifying condition and
// re-runs the correlation strategy within each partition. Patterns carry the
// condition tag that produced them, so a feature can surface as impactful in
// the endgame without being impactful globally.
func conditionalPatterns(rows []schema.PositionFeatures, cfg *contract.Config) []schema.Pattern {
	var patterns []schema.Pattern
	for _, cond := range Conditions() {
		var partition []schema.PositionFeatures
		for i := range rows {
			if cond.Match(&rows[i]) {
				partition = append(partition, rows[i])
			}
		}
		if len(partition) < 2 {
			continue
		}
		patterns = append(patterns, correlationPatterns(partition, cfg, schema.StrategyConditional, cond.Tag)...)
	}
	return patterns
}
