// Package insight turns discovered patterns into a ranked, human-readable
// coaching report: titles, action plans, example positions and a priority
// score per finding.
package insight

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/glynnsanity/tactical-tutor/core/discover"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// Generate builds one insight per pattern, scores and sorts them, and keeps
// the top cfg.MaxInsights. Patterns arrive pre-ranked from discovery; the
// output order is independent of input order.
func Generate(patterns []schema.Pattern, table schema.FeatureTable, cfg *contract.Config) []schema.Insight {
	insights := make([]schema.Insight, 0, len(patterns))
	for _, p := range patterns {
		insights = append(insights, build(p, table, cfg))
	}

	sort.SliceStable(insights, func(i, j int) bool {
		a, b := insights[i], insights[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		ra, rb := latestEvidence(a), latestEvidence(b)
		if !ra.Equal(rb) {
			return ra.After(rb)
		}
		return a.ID < b.ID
	})

	if cfg.MaxInsights > 0 && len(insights) > cfg.MaxInsights {
		insights = insights[:cfg.MaxInsights]
	}
	return insights
}

// build assembles a single insight from one pattern.
func build(p schema.Pattern, table schema.FeatureTable, cfg *contract.Config) schema.Insight {
	ev := collectEvidence(p, table, cfg.EvidenceLimit)
	cat := categorize(p)

	ins := schema.Insight{
		ID:       insightID(p, cat),
		Category: cat,
		Evidence: ev,
		Pattern:  p,
	}
	fillNarrative(&ins, p, cat)

	ins.Priority = priorityScore(p, cfg)
	ins.Confidence = confidenceScore(p)
	ins.EstimatedRatingImpact = ratingImpact(p, cfg)
	return ins
}

// categorize maps a pattern's strategy and direction onto a report category.
func categorize(p schema.Pattern) schema.InsightCategory {
	switch p.Strategy {
	case schema.StrategyOpening:
		return schema.CategoryOpening
	case schema.StrategyConditional:
		if strings.HasPrefix(p.Condition, "phase=") {
			return schema.CategoryPhase
		}
	}
	if p.Harmful() {
		return schema.CategoryWeakness
	}
	return schema.CategoryStrength
}

// insightID builds a stable slug identifying the finding.
func insightID(p schema.Pattern, cat schema.InsightCategory) string {
	parts := []string{string(cat)}
	switch p.Strategy {
	case schema.StrategyOpening:
		parts = append(parts, strings.ToLower(p.OpeningECO))
	case schema.StrategyConditional:
		parts = append(parts, strings.ReplaceAll(p.Condition, "=", "-"), p.Feature)
	default:
		parts = append(parts, p.Feature)
	}
	return strings.Join(parts, "-")
}

// fillNarrative writes the title, summary, impact line and action plan.
func fillNarrative(ins *schema.Insight, p schema.Pattern, cat schema.InsightCategory) {
	switch p.Strategy {
	case schema.StrategyOpening:
		fillOpeningNarrative(ins, p)
	case schema.StrategyConditional:
		fillConditionalNarrative(ins, p, cat)
	default:
		fillCorrelationNarrative(ins, p, cat)
	}
}

func fillCorrelationNarrative(ins *schema.Insight, p schema.Pattern, cat schema.InsightCategory) {
	t := textFor(p.Feature)
	if cat == schema.CategoryStrength {
		ins.Title = fmt.Sprintf("Strength: %s work in your favor", t.Noun)
		ins.Summary = fmt.Sprintf(
			"Positions with %s correlate with gaining an average of %.0f centipawns (%d occurrences across %d games).",
			t.Noun, p.ImpactCP, p.Frequency, p.Games)
		ins.Impact = fmt.Sprintf("+%.0f centipawns per occurrence on average", p.ImpactCP)
		ins.Plan = schema.ActionPlan{
			Immediate: fmt.Sprintf("Keep steering games toward positions with %s.", t.Noun),
			NextGames: fmt.Sprintf("In your next games, look for chances to create %s.", t.Noun),
			StudyPlan: []string{"Collect model games that showcase " + t.Noun},
			Resources: t.Resources,
		}
		return
	}
	ins.Title = fmt.Sprintf("Weakness: %s cost you material", t.Noun)
	ins.Summary = fmt.Sprintf(
		"Positions with %s correlate with losing an average of %.0f centipawns (%d occurrences across %d games, r=%.2f).",
		t.Noun, -p.ImpactCP, p.Frequency, p.Games, p.Correlation)
	ins.Impact = fmt.Sprintf("%.0f centipawns per occurrence on average", p.ImpactCP)
	ins.Plan = schema.ActionPlan{
		Immediate: t.Advice,
		NextGames: fmt.Sprintf("Track every game where %s appear and note what you did about it.", t.Noun),
		StudyPlan: t.StudyPlan,
		Resources: t.Resources,
	}
}

func fillConditionalNarrative(ins *schema.Insight, p schema.Pattern, cat schema.InsightCategory) {
	t := textFor(p.Feature)
	where := conditionLabel(p.Condition)
	if cat == schema.CategoryStrength || !p.Harmful() {
		ins.Title = fmt.Sprintf("Strength: %s help you in the %s", t.Noun, where)
		ins.Summary = fmt.Sprintf(
			"In the %s, positions with %s correlate with gaining an average of %.0f centipawns (%d occurrences across %d games).",
			where, t.Noun, p.ImpactCP, p.Frequency, p.Games)
		ins.Impact = fmt.Sprintf("+%.0f centipawns per occurrence in the %s", p.ImpactCP, where)
		ins.Plan = schema.ActionPlan{
			Immediate: fmt.Sprintf("Aim for positions with %s when the game reaches the %s.", t.Noun, where),
			NextGames: fmt.Sprintf("Notice how often the %s rewards %s in your games.", where, t.Noun),
			StudyPlan: []string{"Study how strong players exploit " + t.Noun},
			Resources: t.Resources,
		}
		return
	}
	ins.Title = fmt.Sprintf("Weakness: %s hurt you in the %s", t.Noun, where)
	ins.Summary = fmt.Sprintf(
		"In the %s, positions with %s correlate with losing an average of %.0f centipawns (%d occurrences across %d games, r=%.2f).",
		where, t.Noun, -p.ImpactCP, p.Frequency, p.Games, p.Correlation)
	ins.Impact = fmt.Sprintf("%.0f centipawns per occurrence in the %s", p.ImpactCP, where)
	ins.Plan = schema.ActionPlan{
		Immediate: t.Advice,
		NextGames: fmt.Sprintf("When the game reaches the %s, slow down whenever %s appear.", where, t.Noun),
		StudyPlan: t.StudyPlan,
		Resources: t.Resources,
	}
}

func fillOpeningNarrative(ins *schema.Insight, p schema.Pattern) {
	name := p.OpeningName
	if name == "" {
		name = p.OpeningECO
	}
	ins.Title = fmt.Sprintf("Opening trouble: %s (%s)", name, p.OpeningECO)
	ins.Summary = fmt.Sprintf(
		"Across %d games in the %s you lose an average of %.0f centipawns per evaluated move; the %s causes the most damage.",
		p.Games, name, -p.ImpactCP, phaseLabel(p.WorstPhase))
	ins.Impact = fmt.Sprintf("%.0f centipawns per move on average in this opening", p.ImpactCP)
	plan := schema.ActionPlan{
		Immediate: fmt.Sprintf("Review your last three games in the %s before playing it again.", name),
		NextGames: fmt.Sprintf("Either prepare the %s deeper or switch to a line you know better.", name),
		StudyPlan: []string{
			fmt.Sprintf("Learn the main plans for both sides in the %s", name),
			fmt.Sprintf("Drill the typical %s structures that arise from %s", phaseLabel(p.WorstPhase), p.OpeningECO),
		},
		Resources: []string{fmt.Sprintf("Opening explorer: %s (%s)", name, p.OpeningECO)},
	}
	if p.MistakeFlag != "" {
		plan.StudyPlan = append(plan.StudyPlan, "Target your most common error type here: "+humanize(p.MistakeFlag))
	}
	ins.Plan = plan
}

// conditionLabel renders a condition tag like "phase=endgame" or
// "time=blitz" for prose.
func conditionLabel(tag string) string {
	if _, value, ok := strings.Cut(tag, "="); ok {
		if strings.HasPrefix(tag, "color=") {
			return value + " games"
		}
		if strings.HasPrefix(tag, "time=") {
			return value + " time control"
		}
		return value
	}
	return tag
}

// priorityScore combines how often a pattern fires with how much it costs.
// Frequency and impact are normalized against configurable baselines, so a
// pattern at the baseline on both axes scores 1 and scores climb
// multiplicatively from there, capped at 10.
func priorityScore(p schema.Pattern, cfg *contract.Config) int {
	freq := float64(p.Frequency) / cfg.PriorityFreqNorm
	impact := math.Abs(p.ImpactCP) / cfg.PriorityImpactNorm
	score := int(math.Round(freq * impact))
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

// confidenceScore blends statistical strength with sample size: strength
// alone can be high on a handful of positions, so it is discounted until the
// sample grows.
func confidenceScore(p schema.Pattern) float64 {
	n := float64(p.Samples)
	c := discover.Strength(p) * (0.5 + 0.5*n/(n+10))
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// ratingImpact estimates the rating points addressable by fixing the
// pattern. Frequency enters logarithmically: a mistake made twice as often
// is worth more, but not twice as much.
func ratingImpact(p schema.Pattern, cfg *contract.Config) int {
	return int(math.Round(cfg.RatingImpactScale * math.Abs(p.ImpactCP) * math.Log1p(float64(p.Frequency))))
}

// latestEvidence returns the most recent example timestamp, used as a
// ranking tie-break.
func latestEvidence(ins schema.Insight) (latest time.Time) {
	for _, ex := range ins.Evidence.Examples {
		if ex.PlayedAt.After(latest) {
			latest = ex.PlayedAt
		}
	}
	return latest
}
