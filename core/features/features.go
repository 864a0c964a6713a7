// Package features converts analyzed games into the fixed-schema feature
// table consumed by pattern discovery. Extraction is a pure transformation:
// it never fails on partial data, it only skips positions that cannot be
// anchored and reports how many it skipped.
package features

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/notnil/chess"
)

// startFEN is the standard initial position, used as the board state before
// the first move of a game.
const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// swingCapCP bounds the target variable so mate-score annotations do not
// dominate the correlation statistics.
const swingCapCP = 1000.0

// Thresholds for move-quality flags, centipawns of loss.
const (
	mistakeThresholdCP    = 100.0
	inaccuracyThresholdCP = 50.0
)

// Build converts games into an ordered feature table: newest game first,
// moves in play order within a game. The second return value counts skipped
// positions (no decodable board state and no evaluation). Extraction fans
// out across games with cfg.Workers goroutines; results are reassembled in
// deterministic order, so sequential and parallel runs are identical.
func Build(games []schema.GameRecord, cfg *contract.Config) (schema.FeatureTable, int) {
	order := make([]int, len(games))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ga, gb := games[order[a]], games[order[b]]
		if !ga.PlayedAt.Equal(gb.PlayedAt) {
			return ga.PlayedAt.After(gb.PlayedAt)
		}
		return ga.GameID < gb.GameID
	})

	type gameResult struct {
		rows    []schema.PositionFeatures
		skipped int
	}
	results := make([]gameResult, len(games))

	workers := max(cfg.Workers, 1)
	gameCh := make(chan int, len(games))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range gameCh {
				rows, skipped := buildGame(&games[idx], cfg)
				results[idx] = gameResult{rows: rows, skipped: skipped}
			}
		}()
	}
	for _, idx := range order {
		gameCh <- idx
	}
	close(gameCh)
	wg.Wait()

	var table schema.FeatureTable
	var skipped int
	for _, idx := range order {
		table = append(table, results[idx].rows...)
		skipped += results[idx].skipped
	}
	return table, skipped
}

// buildGame extracts one feature record per anchorable position of a game.
func buildGame(g *schema.GameRecord, cfg *contract.Config) ([]schema.PositionFeatures, int) {
	timeClass, baseSec, incSec := ParseTimeControl(g.TimeControl)
	eco := g.OpeningECO
	if eco == "" {
		eco = schema.UnknownOpening
	}

	rows := make([]schema.PositionFeatures, 0, len(g.Moves))
	skipped := 0

	for i := range g.Moves {
		mv := &g.Moves[i]

		fenBefore := startFEN
		if i > 0 {
			fenBefore = g.Moves[i-1].FENAfter
		}
		var pos *chess.Position
		if fenBefore != "" {
			if p, err := decodePosition(fenBefore); err == nil {
				pos = p
			}
		}

		// A position needs a board state or an evaluation to anchor a
		// record; with neither it is skipped, never emitted empty.
		if pos == nil && !mv.HasEval {
			skipped++
			continue
		}

		side := mv.Color
		if pos != nil {
			side = schema.SideWhite
			if pos.Turn() == chess.Black {
				side = schema.SideBlack
			}
		} else if side == "" {
			side = schema.SideWhite
			if i%2 == 1 {
				side = schema.SideBlack
			}
		}

		row := schema.PositionFeatures{
			GameID:      g.GameID,
			MoveIndex:   i,
			Side:        side,
			Phase:       schema.PhaseMiddlegame,
			TimeClass:   timeClass,
			OpeningECO:  eco,
			OpeningName: g.OpeningName,
			PlayedAt:    g.PlayedAt,
			Link:        g.Link,
			FEN:         fenBefore,
			MoveSAN:     mv.SAN,
			Values:      schema.NewValueMap(),
		}
		row.Perspective = schema.PerspectiveOpponent
		if side == g.PlayerSide {
			row.Perspective = schema.PerspectiveUser
		}

		moveNumber := i/2 + 1
		row.Values[schema.FeatMoveNumber] = float64(moveNumber)
		row.Values[schema.FeatTotalGamePlies] = float64(len(g.Moves))
		row.Values[schema.FeatTimeBaseSeconds] = float64(baseSec)
		row.Values[schema.FeatTimeIncrementSeconds] = float64(incSec)

		moverRating, otherRating := g.PlayerRating, g.OpponentRating
		if row.Perspective == schema.PerspectiveOpponent {
			moverRating, otherRating = g.OpponentRating, g.PlayerRating
		}
		row.Values[schema.FeatPlayerRating] = float64(moverRating)
		if moverRating > 0 && otherRating > 0 {
			row.Values[schema.FeatRatingDiff] = float64(moverRating - otherRating)
		}

		if mv.HasEval {
			row.HasEval = true
			applyEvalFeatures(&row, mv, side, cfg.BlunderThresholdCP)
		}
		if pos != nil {
			applyBoardFeatures(&row, pos, moveNumber)
		} else {
			row.Phase = phaseFromMoveNumber(moveNumber, len(g.Moves))
		}

		rows = append(rows, row)
	}
	return rows, skipped
}

// applyEvalFeatures fills in the target variable and move-quality flags.
// Evaluations arrive in White's perspective and are flipped to the mover's.
func applyEvalFeatures(row *schema.PositionFeatures, mv *schema.MoveRecord, side string, blunderCP float64) {
	before := float64(mv.EvalBeforeCP)
	after := float64(mv.EvalAfterCP)
	if side == schema.SideBlack {
		before, after = -before, -after
	}
	swing := clampSwing(after - before)

	row.EvalSwingCP = swing
	row.Values[schema.FeatEvalBeforeCP] = clampSwing(before)
	row.Values[schema.FeatEvalAfterCP] = clampSwing(after)
	row.Values[schema.FeatEvalSwingCP] = swing
	if swing <= -blunderCP {
		row.WasBlunder = true
		row.Values[schema.FeatWasBlunder] = 1
	}
	if swing <= -mistakeThresholdCP {
		row.Values[schema.FeatWasMistake] = 1
	}
	if swing <= -inaccuracyThresholdCP {
		row.Values[schema.FeatWasInaccuracy] = 1
	}
}

// applyBoardFeatures fills in every board-derived descriptor for the mover
// ("own") and the opponent ("opp").
func applyBoardFeatures(row *schema.PositionFeatures, pos *chess.Position, moveNumber int) {
	grid := newBoardGrid(pos)
	mover := white
	if pos.Turn() == chess.Black {
		mover = black
	}
	opp := 1 - mover

	rights := pos.CastleRights()
	own := grid.sideMetricsFor(mover, rights)
	their := grid.sideMetricsFor(opp, rights)

	v := row.Values
	v[schema.FeatMaterialBalance] = own.material - their.material
	v[schema.FeatOwnPawns] = float64(own.pawns)
	v[schema.FeatOwnKnights] = float64(own.knights)
	v[schema.FeatOwnBishops] = float64(own.bishops)
	v[schema.FeatOwnRooks] = float64(own.rooks)
	v[schema.FeatOwnQueens] = float64(own.queens)
	v[schema.FeatOppPawns] = float64(their.pawns)
	v[schema.FeatOppKnights] = float64(their.knights)
	v[schema.FeatOppBishops] = float64(their.bishops)
	v[schema.FeatOppRooks] = float64(their.rooks)
	v[schema.FeatOppQueens] = float64(their.queens)
	total := own.pawns + own.knights + own.bishops + own.rooks + own.queens +
		their.pawns + their.knights + their.bishops + their.rooks + their.queens + 2
	v[schema.FeatTotalPieces] = float64(total)

	v[schema.FeatOwnDoubledPawns] = float64(own.doubledPawns)
	v[schema.FeatOwnIsolatedPawns] = float64(own.isolatedPawns)
	v[schema.FeatOwnBackwardPawns] = float64(own.backwardPawns)
	v[schema.FeatOwnPawnIslands] = float64(own.pawnIslands)
	v[schema.FeatOwnPassedPawns] = float64(own.passedPawns)
	v[schema.FeatOwnAdvancedPawns] = float64(own.advancedPawns)
	v[schema.FeatOwnKingsidePawns] = float64(own.kingsidePawns)
	v[schema.FeatOwnQueensidePawns] = float64(own.queensidePawns)
	v[schema.FeatOppDoubledPawns] = float64(their.doubledPawns)
	v[schema.FeatOppIsolatedPawns] = float64(their.isolatedPawns)
	v[schema.FeatOppBackwardPawns] = float64(their.backwardPawns)
	v[schema.FeatOppPawnIslands] = float64(their.pawnIslands)
	v[schema.FeatOppPassedPawns] = float64(their.passedPawns)
	v[schema.FeatOppAdvancedPawns] = float64(their.advancedPawns)
	v[schema.FeatOppKingsidePawns] = float64(their.kingsidePawns)
	v[schema.FeatOppQueensidePawns] = float64(their.queensidePawns)

	v[schema.FeatOwnKingShieldPawns] = float64(own.kingShieldPawns)
	v[schema.FeatOwnOpenFilesNearKing] = float64(own.openFilesNearKing)
	v[schema.FeatOwnKingCastled] = float64(own.kingCastled)
	v[schema.FeatOwnKingInCenter] = float64(own.kingInCenter)
	v[schema.FeatOwnCastleRights] = float64(own.castleRights)
	v[schema.FeatOwnKingRingAttacked] = float64(own.kingRingAttacked)
	v[schema.FeatOppKingShieldPawns] = float64(their.kingShieldPawns)
	v[schema.FeatOppOpenFilesNearKing] = float64(their.openFilesNearKing)
	v[schema.FeatOppKingCastled] = float64(their.kingCastled)
	v[schema.FeatOppKingInCenter] = float64(their.kingInCenter)
	v[schema.FeatOppCastleRights] = float64(their.castleRights)
	v[schema.FeatOppKingRingAttacked] = float64(their.kingRingAttacked)
	if ks := grid.kingSq[mover]; ks >= 0 && grid.attacks[opp][ks] > 0 {
		v[schema.FeatIsInCheck] = 1
	}

	moves := pos.ValidMoves()
	v[schema.FeatLegalMoves] = float64(len(moves))
	var checks, captures float64
	for _, m := range moves {
		if m.HasTag(chess.Check) {
			checks++
		}
		if m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant) {
			captures++
		}
	}
	v[schema.FeatChecksAvailable] = checks
	v[schema.FeatCapturesAvailable] = captures

	v[schema.FeatOwnAttackedSquares] = float64(own.attackedSquares)
	v[schema.FeatOppAttackedSquares] = float64(their.attackedSquares)
	v[schema.FeatOwnBishopPair] = float64(own.bishopPair)
	v[schema.FeatOppBishopPair] = float64(their.bishopPair)
	v[schema.FeatOwnRooksOpenFile] = float64(own.rooksOpenFile)
	v[schema.FeatOppRooksOpenFile] = float64(their.rooksOpenFile)
	v[schema.FeatOwnRooksSeventh] = float64(own.rooksSeventh)
	v[schema.FeatOppRooksSeventh] = float64(their.rooksSeventh)
	v[schema.FeatOwnKnightsRim] = float64(own.knightsRim)
	v[schema.FeatOppKnightsRim] = float64(their.knightsRim)
	v[schema.FeatOwnPiecesBackRank] = float64(own.piecesBackRank)
	v[schema.FeatOppPiecesBackRank] = float64(their.piecesBackRank)

	v[schema.FeatOwnCenterPawns] = float64(own.centerPawns)
	v[schema.FeatOppCenterPawns] = float64(their.centerPawns)
	v[schema.FeatOwnCenterAttacks] = float64(own.centerAttacks)
	v[schema.FeatOppCenterAttacks] = float64(their.centerAttacks)
	v[schema.FeatOwnDevelopedMinors] = float64(own.developedMinors)
	v[schema.FeatOppDevelopedMinors] = float64(their.developedMinors)
	v[schema.FeatOwnSpace] = float64(own.space)
	v[schema.FeatOppSpace] = float64(their.space)

	v[schema.FeatOwnHangingPieces] = float64(own.hangingPieces)
	v[schema.FeatOppHangingPieces] = float64(their.hangingPieces)
	v[schema.FeatOwnAttackedPieces] = float64(own.attackedPieces)
	v[schema.FeatOppAttackedPieces] = float64(their.attackedPieces)

	majorsMinors := own.knights + own.bishops + own.rooks + own.queens +
		their.knights + their.bishops + their.rooks + their.queens
	row.Phase = classifyPhase(moveNumber, majorsMinors)
}

// classifyPhase resolves the game phase from move number and remaining
// major/minor pieces.
func classifyPhase(moveNumber, majorsMinors int) schema.GamePhase {
	if majorsMinors <= 6 {
		return schema.PhaseEndgame
	}
	if moveNumber <= 10 {
		return schema.PhaseOpening
	}
	return schema.PhaseMiddlegame
}

// phaseFromMoveNumber is the fallback classification when no board state is
// available for a position.
func phaseFromMoveNumber(moveNumber, totalPlies int) schema.GamePhase {
	switch {
	case moveNumber <= 10:
		return schema.PhaseOpening
	case moveNumber*2 >= totalPlies*3/2 && moveNumber > 30:
		return schema.PhaseEndgame
	default:
		return schema.PhaseMiddlegame
	}
}

// ParseTimeControl classifies a raw time-control string such as "300+3".
// Unparseable or correspondence controls map to TimeUnknown.
func ParseTimeControl(tc string) (schema.TimeClass, int, int) {
	tc = strings.TrimSpace(tc)
	if tc == "" || tc == "-" {
		return schema.TimeUnknown, 0, 0
	}
	basePart, incPart, _ := strings.Cut(tc, "+")
	base, err := strconv.Atoi(strings.TrimSpace(basePart))
	if err != nil || base <= 0 {
		return schema.TimeUnknown, 0, 0
	}
	inc := 0
	if incPart != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(incPart)); err == nil && n >= 0 {
			inc = n
		}
	}
	switch {
	case base < 180:
		return schema.TimeBullet, base, inc
	case base < 600:
		return schema.TimeBlitz, base, inc
	case base < 1800:
		return schema.TimeRapid, base, inc
	default:
		return schema.TimeClassical, base, inc
	}
}

// clampSwing bounds a centipawn value to the analysis range.
func clampSwing(v float64) float64 {
	if v > swingCapCP {
		return swingCapCP
	}
	if v < -swingCapCP {
		return -swingCapCP
	}
	return v
}
