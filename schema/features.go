package schema

import "time"

// Feature names for the numeric feature map. Every PositionFeatures record
// carries every one of these keys; undeterminable values default to 0.
// "own" is always the side to move, "opp" the side that just moved.
const (
	// Material balance and piece counts.
	FeatMaterialBalance = "material_balance"
	FeatOwnPawns        = "own_pawns"
	FeatOwnKnights      = "own_knights"
	FeatOwnBishops      = "own_bishops"
	FeatOwnRooks        = "own_rooks"
	FeatOwnQueens       = "own_queens"
	FeatOppPawns        = "opp_pawns"
	FeatOppKnights      = "opp_knights"
	FeatOppBishops      = "opp_bishops"
	FeatOppRooks        = "opp_rooks"
	FeatOppQueens       = "opp_queens"
	FeatTotalPieces     = "total_pieces"

	// Pawn structure.
	FeatOwnDoubledPawns   = "own_doubled_pawns"
	FeatOwnIsolatedPawns  = "own_isolated_pawns"
	FeatOwnBackwardPawns  = "own_backward_pawns"
	FeatOwnPawnIslands    = "own_pawn_islands"
	FeatOwnPassedPawns    = "own_passed_pawns"
	FeatOwnAdvancedPawns  = "own_advanced_pawns"
	FeatOwnKingsidePawns  = "own_kingside_pawns"
	FeatOwnQueensidePawns = "own_queenside_pawns"
	FeatOppDoubledPawns   = "opp_doubled_pawns"
	FeatOppIsolatedPawns  = "opp_isolated_pawns"
	FeatOppBackwardPawns  = "opp_backward_pawns"
	FeatOppPawnIslands    = "opp_pawn_islands"
	FeatOppPassedPawns    = "opp_passed_pawns"
	FeatOppAdvancedPawns  = "opp_advanced_pawns"
	FeatOppKingsidePawns  = "opp_kingside_pawns"
	FeatOppQueensidePawns = "opp_queenside_pawns"

	// King safety.
	FeatOwnKingShieldPawns    = "own_king_shield_pawns"
	FeatOwnOpenFilesNearKing  = "own_open_files_near_king"
	FeatOwnKingCastled        = "own_king_castled"
	FeatOwnKingInCenter       = "own_king_in_center"
	FeatOwnCastleRights       = "own_castle_rights"
	FeatOwnKingRingAttacked   = "own_king_ring_attacked"
	FeatOppKingShieldPawns    = "opp_king_shield_pawns"
	FeatOppOpenFilesNearKing  = "opp_open_files_near_king"
	FeatOppKingCastled        = "opp_king_castled"
	FeatOppKingInCenter       = "opp_king_in_center"
	FeatOppCastleRights       = "opp_castle_rights"
	FeatOppKingRingAttacked   = "opp_king_ring_attacked"
	FeatIsInCheck             = "is_in_check"

	// Piece activity.
	FeatLegalMoves         = "legal_moves"
	FeatOwnAttackedSquares = "own_attacked_squares"
	FeatOppAttackedSquares = "opp_attacked_squares"
	FeatOwnBishopPair      = "own_bishop_pair"
	FeatOppBishopPair      = "opp_bishop_pair"
	FeatOwnRooksOpenFile   = "own_rooks_open_file"
	FeatOppRooksOpenFile   = "opp_rooks_open_file"
	FeatOwnRooksSeventh    = "own_rooks_seventh"
	FeatOppRooksSeventh    = "opp_rooks_seventh"
	FeatOwnKnightsRim      = "own_knights_rim"
	FeatOppKnightsRim      = "opp_knights_rim"
	FeatOwnPiecesBackRank  = "own_pieces_back_rank"
	FeatOppPiecesBackRank  = "opp_pieces_back_rank"

	// Positional.
	FeatOwnCenterPawns     = "own_center_pawns"
	FeatOppCenterPawns     = "opp_center_pawns"
	FeatOwnCenterAttacks   = "own_center_attacks"
	FeatOppCenterAttacks   = "opp_center_attacks"
	FeatOwnDevelopedMinors = "own_developed_minors"
	FeatOppDevelopedMinors = "opp_developed_minors"
	FeatOwnSpace           = "own_space"
	FeatOppSpace           = "opp_space"

	// Tactical.
	FeatOwnHangingPieces  = "own_hanging_pieces"
	FeatOppHangingPieces  = "opp_hanging_pieces"
	FeatOwnAttackedPieces = "own_attacked_pieces"
	FeatOppAttackedPieces = "opp_attacked_pieces"
	FeatChecksAvailable   = "checks_available"
	FeatCapturesAvailable = "captures_available"

	// Move quality. EvalSwingCP is the target variable.
	FeatEvalBeforeCP  = "eval_before_cp"
	FeatEvalAfterCP   = "eval_after_cp"
	FeatEvalSwingCP   = "eval_swing_cp"
	FeatWasBlunder    = "was_blunder"
	FeatWasMistake    = "was_mistake"
	FeatWasInaccuracy = "was_inaccuracy"

	// Context.
	FeatMoveNumber           = "move_number"
	FeatPlayerRating         = "player_rating"
	FeatRatingDiff           = "rating_diff"
	FeatTimeBaseSeconds      = "time_base_seconds"
	FeatTimeIncrementSeconds = "time_increment_seconds"
	FeatTotalGamePlies       = "total_game_plies"
)

// featureNames is the canonical ordered registry of every numeric feature.
// Iteration over features anywhere in the pipeline follows this order so
// output never depends on map iteration.
var featureNames = []string{
	FeatMaterialBalance, FeatOwnPawns, FeatOwnKnights, FeatOwnBishops,
	FeatOwnRooks, FeatOwnQueens, FeatOppPawns, FeatOppKnights,
	FeatOppBishops, FeatOppRooks, FeatOppQueens, FeatTotalPieces,

	FeatOwnDoubledPawns, FeatOwnIsolatedPawns, FeatOwnBackwardPawns,
	FeatOwnPawnIslands, FeatOwnPassedPawns, FeatOwnAdvancedPawns,
	FeatOwnKingsidePawns, FeatOwnQueensidePawns, FeatOppDoubledPawns,
	FeatOppIsolatedPawns, FeatOppBackwardPawns, FeatOppPawnIslands,
	FeatOppPassedPawns, FeatOppAdvancedPawns, FeatOppKingsidePawns,
	FeatOppQueensidePawns,

	FeatOwnKingShieldPawns, FeatOwnOpenFilesNearKing, FeatOwnKingCastled,
	FeatOwnKingInCenter, FeatOwnCastleRights, FeatOwnKingRingAttacked,
	FeatOppKingShieldPawns, FeatOppOpenFilesNearKing, FeatOppKingCastled,
	FeatOppKingInCenter, FeatOppCastleRights, FeatOppKingRingAttacked,
	FeatIsInCheck,

	FeatLegalMoves, FeatOwnAttackedSquares, FeatOppAttackedSquares,
	FeatOwnBishopPair, FeatOppBishopPair, FeatOwnRooksOpenFile,
	FeatOppRooksOpenFile, FeatOwnRooksSeventh, FeatOppRooksSeventh,
	FeatOwnKnightsRim, FeatOppKnightsRim, FeatOwnPiecesBackRank,
	FeatOppPiecesBackRank,

	FeatOwnCenterPawns, FeatOppCenterPawns, FeatOwnCenterAttacks,
	FeatOppCenterAttacks, FeatOwnDevelopedMinors, FeatOppDevelopedMinors,
	FeatOwnSpace, FeatOppSpace,

	FeatOwnHangingPieces, FeatOppHangingPieces, FeatOwnAttackedPieces,
	FeatOppAttackedPieces, FeatChecksAvailable, FeatCapturesAvailable,

	FeatEvalBeforeCP, FeatEvalAfterCP, FeatEvalSwingCP,
	FeatWasBlunder, FeatWasMistake, FeatWasInaccuracy,

	FeatMoveNumber, FeatPlayerRating, FeatRatingDiff,
	FeatTimeBaseSeconds, FeatTimeIncrementSeconds, FeatTotalGamePlies,
}

// outcomeNames are features derived from the target variable. They are never
// used as correlation predictors since they would only rediscover themselves.
var outcomeNames = map[string]bool{
	FeatEvalBeforeCP:  true,
	FeatEvalAfterCP:   true,
	FeatEvalSwingCP:   true,
	FeatWasBlunder:    true,
	FeatWasMistake:    true,
	FeatWasInaccuracy: true,
}

// MistakeFlagNames are the tactical/positional flags scanned by the
// opening-grouped strategy when surfacing a dominant mistake category.
var MistakeFlagNames = []string{
	FeatOwnHangingPieces,
	FeatOwnKingInCenter,
	FeatOwnOpenFilesNearKing,
	FeatOwnIsolatedPawns,
	FeatOwnDoubledPawns,
	FeatOppPassedPawns,
	FeatIsInCheck,
}

// FeatureNames returns the canonical ordered list of all numeric features.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// PredictorNames returns the feature names eligible for correlation against
// the target variable, in canonical order.
func PredictorNames() []string {
	out := make([]string, 0, len(featureNames)-len(outcomeNames))
	for _, name := range featureNames {
		if !outcomeNames[name] {
			out = append(out, name)
		}
	}
	return out
}

// NewValueMap returns a feature map with every declared feature present at
// its neutral default of 0. Builders fill in what they can compute; what
// remains keeps the neutral value, so no downstream consumer ever sees a
// missing key.
func NewValueMap() map[string]float64 {
	m := make(map[string]float64, len(featureNames))
	for _, name := range featureNames {
		m[name] = 0
	}
	return m
}

// PositionFeatures is the fixed-schema record for one analyzed position.
// Records are immutable once built.
type PositionFeatures struct {
	GameID      string    // Owning game
	MoveIndex   int       // 0-based ply index of the move played from this position
	Perspective string    // "user" when the user is to move, else "opponent"
	Side        string    // Side to move: "white" or "black"
	Phase       GamePhase // Game phase classification
	TimeClass   TimeClass // Time-control class of the owning game
	OpeningECO  string    // ECO code, UnknownOpening when absent
	OpeningName string    // Opening name, may be empty
	PlayedAt    time.Time // Owning game timestamp (for recency ordering)
	Link        string    // Optional external link to the owning game
	FEN         string    // Board state the mover faced
	MoveSAN     string    // Move played from this position
	HasEval     bool      // False when the position carried no engine evaluation
	EvalSwingCP float64   // Target variable: signed centipawn swing, mover's perspective
	WasBlunder  bool      // True when the swing crosses the blunder threshold
	Values      map[string]float64
}

// FeatureTable is the ordered output of the feature builder: newest game
// first, moves in play order within a game.
type FeatureTable []PositionFeatures

// UserRows returns the rows where the user was the side to move. Pattern
// discovery only reasons about the user's own moves.
func (t FeatureTable) UserRows() []PositionFeatures {
	out := make([]PositionFeatures, 0, len(t)/2+1)
	for _, row := range t {
		if row.Perspective == PerspectiveUser {
			out = append(out, row)
		}
	}
	return out
}
