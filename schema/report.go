package schema

import "time"

// StageTimings records wall-clock cost per pipeline stage.
type StageTimings struct {
	Features  time.Duration `json:"features"`
	Discovery time.Duration `json:"discovery"`
	Insights  time.Duration `json:"insights"`
	Total     time.Duration `json:"total"`
}

// AnalysisStats summarizes one analysis run. Stage-local anomalies (skipped
// positions, excluded degenerate features) surface here as counters rather
// than as errors.
type AnalysisStats struct {
	TotalGames          int          `json:"total_games"`
	TotalPositions      int          `json:"total_positions"`
	SkippedPositions    int          `json:"skipped_positions"`
	PatternsDiscovered  int          `json:"patterns_discovered"`
	InsightsGenerated   int          `json:"insights_generated"`
	PotentialRatingGain int          `json:"potential_rating_gain"`
	Timings             StageTimings `json:"timings"`
}

// AnalysisReport is the full output of the analysis facade: the ranked
// insight list plus run statistics.
type AnalysisReport struct {
	Player      string        `json:"player"`
	GeneratedAt time.Time     `json:"generated_at"`
	Insights    []Insight     `json:"insights"`
	Stats       AnalysisStats `json:"stats"`
}
