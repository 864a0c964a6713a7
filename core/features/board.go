package features

import (
	"github.com/notnil/chess"
)

// Piece kinds for the internal board grid.
type pieceKind int8

const (
	pkNone pieceKind = iota
	pkPawn
	pkKnight
	pkBishop
	pkRook
	pkQueen
	pkKing
)

// Color indexes for the internal board grid.
const (
	white = 0
	black = 1
)

// Material values in pawn units.
var pieceValues = [...]float64{pkNone: 0, pkPawn: 1, pkKnight: 3, pkBishop: 3, pkRook: 5, pkQueen: 9, pkKing: 0}

// Center squares d4, e4, d5, e5 as (file, rank) pairs.
var centerSquares = [4][2]int{{3, 3}, {4, 3}, {3, 4}, {4, 4}}

// boardGrid is a flat decoding of one position, with attack counts
// precomputed per color. All board-derived features read from here.
type boardGrid struct {
	kind    [64]pieceKind
	colorOf [64]int8 // -1 empty, 0 white, 1 black
	attacks [2][64]int
	kingSq  [2]int
}

// sideMetrics holds the board descriptors for one color.
type sideMetrics struct {
	pawns, knights, bishops, rooks, queens int
	material                               float64

	doubledPawns, isolatedPawns, backwardPawns int
	pawnIslands, passedPawns, advancedPawns    int
	kingsidePawns, queensidePawns              int

	kingShieldPawns, openFilesNearKing int
	kingCastled, kingInCenter          int
	castleRights, kingRingAttacked     int

	attackedSquares, bishopPair     int
	rooksOpenFile, rooksSeventh     int
	knightsRim, piecesBackRank      int
	centerPawns, centerAttacks      int
	developedMinors, space          int
	hangingPieces, attackedPieces   int
}

// decodePosition parses a FEN string into a chess.Position. Any decoding
// failure means the position cannot anchor board features.
func decodePosition(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return chess.NewGame(opt).Position(), nil
}

// newBoardGrid flattens a chess position into grids and computes attack
// counts for both colors.
func newBoardGrid(pos *chess.Position) *boardGrid {
	g := &boardGrid{}
	for i := range g.colorOf {
		g.colorOf[i] = -1
	}
	g.kingSq[white], g.kingSq[black] = -1, -1

	for sq, piece := range pos.Board().SquareMap() {
		idx := int(sq)
		c := white
		if piece.Color() == chess.Black {
			c = black
		}
		g.colorOf[idx] = int8(c)
		switch piece.Type() {
		case chess.Pawn:
			g.kind[idx] = pkPawn
		case chess.Knight:
			g.kind[idx] = pkKnight
		case chess.Bishop:
			g.kind[idx] = pkBishop
		case chess.Rook:
			g.kind[idx] = pkRook
		case chess.Queen:
			g.kind[idx] = pkQueen
		case chess.King:
			g.kind[idx] = pkKing
			g.kingSq[c] = idx
		}
	}

	for idx := range g.kind {
		if g.colorOf[idx] >= 0 {
			g.addAttacks(idx)
		}
	}
	return g
}

// pawnDir is the rank direction a color's pawns advance in.
func pawnDir(c int) int {
	if c == white {
		return 1
	}
	return -1
}

// backRank is a color's home rank index.
func backRank(c int) int {
	if c == white {
		return 0
	}
	return 7
}

var knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
var kingSteps = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
var bishopRays = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookRays = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// addAttacks records every square attacked by the piece on idx.
func (g *boardGrid) addAttacks(idx int) {
	file, rank := idx%8, idx/8
	c := int(g.colorOf[idx])

	mark := func(f, r int) {
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			g.attacks[c][r*8+f]++
		}
	}
	slide := func(rays [4][2]int) {
		for _, ray := range rays {
			f, r := file+ray[0], rank+ray[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				g.attacks[c][r*8+f]++
				if g.colorOf[r*8+f] >= 0 {
					break // blocked; the blocker square itself counts as attacked
				}
				f += ray[0]
				r += ray[1]
			}
		}
	}

	switch g.kind[idx] {
	case pkPawn:
		mark(file-1, rank+pawnDir(c))
		mark(file+1, rank+pawnDir(c))
	case pkKnight:
		for _, s := range knightSteps {
			mark(file+s[0], rank+s[1])
		}
	case pkKing:
		for _, s := range kingSteps {
			mark(file+s[0], rank+s[1])
		}
	case pkBishop:
		slide(bishopRays)
	case pkRook:
		slide(rookRays)
	case pkQueen:
		slide(bishopRays)
		slide(rookRays)
	}
}

// pawnFiles returns per-file pawn counts for a color.
func (g *boardGrid) pawnFiles(c int) [8]int {
	var files [8]int
	for idx := range g.kind {
		if g.kind[idx] == pkPawn && int(g.colorOf[idx]) == c {
			files[idx%8]++
		}
	}
	return files
}

// sideMetricsFor computes all board descriptors for one color.
func (g *boardGrid) sideMetricsFor(c int, rights chess.CastleRights) sideMetrics {
	var m sideMetrics
	opp := 1 - c
	dir := pawnDir(c)
	own := g.pawnFiles(c)
	enemy := g.pawnFiles(opp)

	for idx := range g.kind {
		if int(g.colorOf[idx]) != c {
			continue
		}
		file, rank := idx%8, idx/8
		kind := g.kind[idx]

		m.material += pieceValues[kind]
		if kind != pkKing && kind != pkPawn && rank == backRank(c) {
			m.piecesBackRank++
		}
		if kind != pkKing && g.attacks[opp][idx] > 0 {
			m.attackedPieces++
			if g.attacks[c][idx] == 0 {
				m.hangingPieces++
			}
		}

		switch kind {
		case pkPawn:
			m.pawns++
			if file >= 4 {
				m.kingsidePawns++
			} else {
				m.queensidePawns++
			}
			if own[file] > 1 {
				m.doubledPawns++
			}
			adjacentSupport := false
			behindSupport := false
			for _, df := range [2]int{-1, 1} {
				af := file + df
				if af < 0 || af > 7 || own[af] == 0 {
					continue
				}
				adjacentSupport = true
				for r := range 8 {
					if g.kind[r*8+af] == pkPawn && int(g.colorOf[r*8+af]) == c && relRank(r, c) <= relRank(rank, c) {
						behindSupport = true
					}
				}
			}
			if !adjacentSupport {
				m.isolatedPawns++
			} else if !behindSupport && pawnAttacked(g, file, rank+dir, opp) {
				m.backwardPawns++
			}
			passed := true
			for _, df := range [3]int{-1, 0, 1} {
				af := file + df
				if af < 0 || af > 7 {
					continue
				}
				for r := range 8 {
					if g.kind[r*8+af] == pkPawn && int(g.colorOf[r*8+af]) == opp && relRank(r, c) > relRank(rank, c) {
						passed = false
					}
				}
			}
			if passed {
				m.passedPawns++
			}
			if relRank(rank, c) >= 4 {
				m.advancedPawns++
			}
			for _, cs := range centerSquares {
				if cs[0] == file && cs[1] == rank {
					m.centerPawns++
				}
			}
		case pkKnight:
			m.knights++
			if rank != backRank(c) {
				m.developedMinors++
			}
			if file == 0 || file == 7 {
				m.knightsRim++
			}
		case pkBishop:
			m.bishops++
			if rank != backRank(c) {
				m.developedMinors++
			}
		case pkRook:
			m.rooks++
			if own[file] == 0 && enemy[file] == 0 {
				m.rooksOpenFile++
			}
			if relRank(rank, c) == 6 {
				m.rooksSeventh++
			}
		case pkQueen:
			m.queens++
		}
	}

	if m.bishops >= 2 {
		m.bishopPair = 1
	}

	// Pawn islands: groups of consecutive occupied files.
	inIsland := false
	for f := range 8 {
		if own[f] > 0 {
			if !inIsland {
				m.pawnIslands++
				inIsland = true
			}
		} else {
			inIsland = false
		}
	}

	// Attack-derived counts.
	for idx := range g.kind {
		if g.attacks[c][idx] > 0 {
			m.attackedSquares++
			if relRank(idx/8, c) >= 4 {
				m.space++
			}
		}
	}
	for _, cs := range centerSquares {
		m.centerAttacks += g.attacks[c][cs[1]*8+cs[0]]
	}

	// King safety.
	if ks := g.kingSq[c]; ks >= 0 {
		kf, kr := ks%8, ks/8
		for _, df := range [3]int{-1, 0, 1} {
			f := kf + df
			if f < 0 || f > 7 {
				continue
			}
			if own[f] == 0 {
				m.openFilesNearKing++
			}
			for _, dr := range [2]int{1, 2} {
				r := kr + dir*dr
				if r >= 0 && r < 8 && g.kind[r*8+f] == pkPawn && int(g.colorOf[r*8+f]) == c {
					m.kingShieldPawns++
				}
			}
		}
		if kr == backRank(c) && (kf >= 6 || kf <= 2) {
			m.kingCastled = 1
		}
		if kf == 3 || kf == 4 {
			m.kingInCenter = 1
		}
		for _, s := range kingSteps {
			f, r := kf+s[0], kr+s[1]
			if f >= 0 && f < 8 && r >= 0 && r < 8 && g.attacks[opp][r*8+f] > 0 {
				m.kingRingAttacked++
			}
		}
	}

	sideColor := chess.White
	if c == black {
		sideColor = chess.Black
	}
	if rights.CanCastle(sideColor, chess.KingSide) {
		m.castleRights++
	}
	if rights.CanCastle(sideColor, chess.QueenSide) {
		m.castleRights++
	}

	return m
}

// relRank maps an absolute rank index to a color-relative rank: 0 is the
// color's back rank, 7 the promotion rank.
func relRank(rank, c int) int {
	if c == white {
		return rank
	}
	return 7 - rank
}

// pawnAttacked reports whether (file, rank) is attacked by a pawn of color c.
func pawnAttacked(g *boardGrid, file, rank, c int) bool {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return false
	}
	dir := pawnDir(c)
	for _, df := range [2]int{-1, 1} {
		f, r := file+df, rank-dir
		if f >= 0 && f < 8 && r >= 0 && r < 8 {
			idx := r*8 + f
			if g.kind[idx] == pkPawn && int(g.colorOf[idx]) == c {
				return true
			}
		}
	}
	return false
}
