package schema

import "time"

// ActionPlan is the actionable half of an insight. All fields are plain,
// render-agnostic strings; the presentation layer decides how to show them.
type ActionPlan struct {
	Immediate string   `json:"immediate"`
	NextGames string   `json:"next_games"`
	StudyPlan []string `json:"study_plan"`
	Resources []string `json:"resources"`
}

// ExamplePosition is one illustrative position backing an insight.
type ExamplePosition struct {
	GameID      string    `json:"game_id"`
	MoveIndex   int       `json:"move_index"`
	FEN         string    `json:"fen"`
	Description string    `json:"description"`
	Link        string    `json:"link,omitempty"`
	PlayedAt    time.Time `json:"played_at"`
	SwingCP     float64   `json:"swing_cp"`
}

// Evidence backs an insight with concrete games and positions. Totals count
// every qualifying occurrence; Examples is a small bounded selection.
type Evidence struct {
	TotalGames     int               `json:"total_games"`
	TotalPositions int               `json:"total_positions"`
	Examples       []ExamplePosition `json:"examples"`
}

// Insight is a ranked, user-facing synthesis of a discovered pattern.
// Priority and Confidence are pure functions of the underlying pattern's
// statistics; identical inputs always produce identical insights.
type Insight struct {
	ID                    string          `json:"id"`
	Category              InsightCategory `json:"category"`
	Title                 string          `json:"title"`
	Summary               string          `json:"summary"`
	Impact                string          `json:"impact"`
	Plan                  ActionPlan      `json:"plan"`
	Evidence              Evidence        `json:"evidence"`
	EstimatedRatingImpact int             `json:"estimated_rating_impact"`
	Confidence            float64         `json:"confidence"` // [0,1]
	Priority              int             `json:"priority"`   // [1,10]
	Pattern               Pattern         `json:"pattern"`
}
