package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string

	// GamePhase represents the phase of the game a position belongs to.
	GamePhase string

	// TimeClass represents the time-control class of a game.
	TimeClass string

	// StrategyKind identifies the discovery strategy that produced a pattern.
	StrategyKind string

	// InsightCategory classifies a generated insight.
	InsightCategory string
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All game phases supported.
const (
	PhaseOpening    GamePhase = "opening"
	PhaseMiddlegame GamePhase = "middlegame"
	PhaseEndgame    GamePhase = "endgame"
)

// All time-control classes supported. Unknown covers correspondence games
// and malformed time-control tags.
const (
	TimeBullet    TimeClass = "bullet"
	TimeBlitz     TimeClass = "blitz"
	TimeRapid     TimeClass = "rapid"
	TimeClassical TimeClass = "classical"
	TimeUnknown   TimeClass = "unknown"
)

// All discovery strategies, in ranking priority order.
const (
	StrategyCorrelation StrategyKind = "correlation"
	StrategyConditional StrategyKind = "conditional"
	StrategyOpening     StrategyKind = "opening"
)

// All insight categories supported.
const (
	CategoryWeakness InsightCategory = "weakness"
	CategoryStrength InsightCategory = "strength"
	CategoryOpening  InsightCategory = "opening"
	CategoryPhase    InsightCategory = "phase"
)

// Perspective constants for PositionFeatures.Perspective.
const (
	PerspectiveUser     = "user"
	PerspectiveOpponent = "opponent"
)

// UnknownOpening is the neutral category for games without an ECO tag.
const UnknownOpening = "unknown"
