package schema

// Pattern is a statistically retained feature-outcome or condition-outcome
// relationship. Patterns are produced fresh per analysis run and exist only
// as input to insight generation.
type Pattern struct {
	Strategy  StrategyKind // Which strategy produced the pattern
	Feature   string       // Feature the pattern concerns (empty for opening patterns)
	Condition string       // Condition tag, e.g. "phase=endgame" (empty for global patterns)

	// Opening-grouped payload.
	OpeningECO  string
	OpeningName string
	WorstPhase  GamePhase // Phase contributing the largest mean loss within the group
	MistakeFlag string    // Dominant non-neutral tactical/positional flag in the group

	Frequency int // Occurrence count: positions where the feature/condition is active
	Games     int // Distinct games backing those occurrences
	Samples   int // Full sample size the statistic was computed over

	Correlation float64 // Pearson r against the target (0 for opening patterns)
	PValue      float64 // Approximate two-sided p-value
	ImpactCP    float64 // Estimated effect size in centipawns, signed (negative = loss)
}

// Harmful reports whether the pattern describes something that costs the
// player evaluation, as opposed to something that works in their favor.
func (p Pattern) Harmful() bool {
	return p.ImpactCP < 0
}
