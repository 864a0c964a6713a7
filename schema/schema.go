// Package schema has configs, models and shared constants for all parts of tactical-tutor.
package schema

import "time"

// GameRecord represents one played game with per-move engine evaluations attached.
// Games are supplied by the game store (or PGN import) with evaluations already
// computed upstream; the analysis core only reads them.
type GameRecord struct {
	GameID         string       // Stable identifier for the game
	Player         string       // Account name the analysis runs for
	PlayerSide     string       // Side the player held: "white" or "black"
	Opponent       string       // Opponent account name
	PlayerRating   int          // Player rating at game time (0 if unknown)
	OpponentRating int          // Opponent rating at game time (0 if unknown)
	TimeControl    string       // Raw time control, e.g. "300+3"
	OpeningECO     string       // ECO code, e.g. "B20" (empty if unknown)
	OpeningName    string       // Opening name (empty if unknown)
	Result         string       // "1-0", "0-1" or "1/2-1/2"
	Link           string       // Optional external URL for the game
	PlayedAt       time.Time    // Game start timestamp
	Moves          []MoveRecord // Ordered moves with evaluations
}

// MoveRecord represents one half-move of a game together with the engine
// evaluations surrounding it. Evaluations are centipawns from White's
// perspective, matching the convention of engine annotations.
type MoveRecord struct {
	Index        int    // 0-based ply index
	SAN          string // Move in standard algebraic notation
	Color        string // Mover side: "white" or "black"
	FENAfter     string // Board state after the move
	EvalBeforeCP int    // Evaluation before the move (White's perspective)
	EvalAfterCP  int    // Evaluation after the move (White's perspective)
	HasEval      bool   // False when the engine annotation is missing
}

// Side constants for GameRecord.PlayerSide and MoveRecord.Color.
const (
	SideWhite = "white"
	SideBlack = "black"
)

// StoreStatus reports the state of the game store backend.
type StoreStatus struct {
	Backend       DatabaseBackend `json:"backend"`
	Connected     bool            `json:"connected"`
	TotalGames    int64           `json:"total_games"`
	TotalMoves    int64           `json:"total_moves"`
	TotalPlayers  int64           `json:"total_players"`
	LastGameTime  time.Time       `json:"last_game_time"`
	FirstGameTime time.Time       `json:"first_game_time"`
}

// RunStatus reports the state of the analysis run history backend.
type RunStatus struct {
	Backend       DatabaseBackend `json:"backend"`
	Connected     bool            `json:"connected"`
	TotalRuns     int64           `json:"total_runs"`
	LastRunID     int64           `json:"last_run_id"`
	LastRunTime   time.Time       `json:"last_run_time"`
	OldestRunTime time.Time       `json:"oldest_run_time"`
	TotalInsights int64           `json:"total_insights"`
}
