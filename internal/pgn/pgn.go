// Package pgn parses annotated PGN files into game records. Engine
// evaluations are read from [%eval ...] comments as produced by lichess and
// most analysis tools.
package pgn

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/glynnsanity/tactical-tutor/schema"
)

// mateScoreCP stands in for forced-mate evaluations, which have no
// centipawn value of their own.
const mateScoreCP = 10000

var evalPattern = regexp.MustCompile(`\[%eval ([^\]\s]+)`)

// Parse reads every game from r and converts the ones involving player into
// game records. Games without the player are skipped, not errored: PGN dumps
// often bundle unrelated games.
func Parse(r io.Reader, player string) ([]schema.GameRecord, error) {
	scanner := chess.NewScanner(r)

	var games []schema.GameRecord
	parsed := 0
	for scanner.Scan() {
		game := scanner.Next()
		if game == nil {
			continue
		}
		parsed++

		rec, ok := convertGame(game, player, parsed)
		if !ok {
			continue
		}
		games = append(games, rec)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to scan PGN: %w", err)
	}
	if parsed == 0 {
		return nil, fmt.Errorf("no games found in PGN input")
	}
	return games, nil
}

// convertGame maps one parsed PGN game onto a game record. Returns false
// when the player is not a participant.
func convertGame(game *chess.Game, player string, ordinal int) (schema.GameRecord, bool) {
	white := tagValue(game, "White")
	black := tagValue(game, "Black")

	var side, opponent string
	var playerRating, opponentRating int
	switch {
	case strings.EqualFold(white, player):
		side = schema.SideWhite
		opponent = black
		playerRating = tagInt(game, "WhiteElo")
		opponentRating = tagInt(game, "BlackElo")
	case strings.EqualFold(black, player):
		side = schema.SideBlack
		opponent = white
		playerRating = tagInt(game, "BlackElo")
		opponentRating = tagInt(game, "WhiteElo")
	default:
		return schema.GameRecord{}, false
	}

	rec := schema.GameRecord{
		GameID:         gameID(game, ordinal),
		Player:         player,
		PlayerSide:     side,
		Opponent:       opponent,
		PlayerRating:   playerRating,
		OpponentRating: opponentRating,
		TimeControl:    tagValue(game, "TimeControl"),
		OpeningECO:     tagValue(game, "ECO"),
		OpeningName:    tagValue(game, "Opening"),
		Result:         tagValue(game, "Result"),
		Link:           tagValue(game, "Site"),
		PlayedAt:       parseDate(tagValue(game, "UTCDate"), tagValue(game, "UTCTime"), tagValue(game, "Date")),
	}
	if rec.OpeningECO == "" {
		rec.OpeningECO = schema.UnknownOpening
	}

	rec.Moves = convertMoves(game)
	return rec, true
}

// convertMoves walks the game's move list, encoding SAN and carrying engine
// evaluations across plies: each move's eval-before is the previous move's
// eval-after.
func convertMoves(game *chess.Game) []schema.MoveRecord {
	moves := game.Moves()
	positions := game.Positions()
	comments := game.Comments()
	notation := chess.AlgebraicNotation{}

	records := make([]schema.MoveRecord, 0, len(moves))
	prevEval := 0
	prevHasEval := false
	for i, mv := range moves {
		if i+1 >= len(positions) {
			break
		}
		rec := schema.MoveRecord{
			Index:    i,
			SAN:      notation.Encode(positions[i], mv),
			FENAfter: positions[i+1].String(),
		}
		if i%2 == 0 {
			rec.Color = schema.SideWhite
		} else {
			rec.Color = schema.SideBlack
		}

		if eval, ok := evalFromComments(comments, i); ok {
			rec.EvalAfterCP = eval
			rec.EvalBeforeCP = prevEval
			rec.HasEval = prevHasEval || i == 0
			prevEval = eval
			prevHasEval = true
		} else {
			prevHasEval = false
		}
		records = append(records, rec)
	}
	return records
}

// evalFromComments extracts the White-perspective centipawn evaluation
// attached to ply i, if any.
func evalFromComments(comments [][]string, i int) (int, bool) {
	if i >= len(comments) {
		return 0, false
	}
	for _, comment := range comments[i] {
		m := evalPattern.FindStringSubmatch(comment)
		if m == nil {
			continue
		}
		return parseEval(m[1])
	}
	return 0, false
}

// parseEval converts a PGN eval token to White-perspective centipawns.
// Pawn-unit values like "0.17" become 17; mate scores like "#-3" map to the
// capped mate value for the winning side.
func parseEval(token string) (int, bool) {
	if strings.HasPrefix(token, "#") {
		mate, err := strconv.Atoi(strings.TrimPrefix(token, "#"))
		if err != nil {
			return 0, false
		}
		if mate < 0 {
			return -mateScoreCP, true
		}
		return mateScoreCP, true
	}
	pawns, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(pawns * 100)), true
}

// tagValue returns a PGN tag's value, or empty when absent.
func tagValue(game *chess.Game, name string) string {
	tag := game.GetTagPair(name)
	if tag == nil {
		return ""
	}
	return tag.Value
}

// tagInt parses a numeric tag like WhiteElo, returning 0 on absence or junk.
func tagInt(game *chess.Game, name string) int {
	v, err := strconv.Atoi(tagValue(game, name))
	if err != nil {
		return 0
	}
	return v
}

// gameID prefers the Site link's trailing path segment (lichess and
// chess.com both embed a unique ID there), falling back to a composite of
// tags plus the game's position in the file.
func gameID(game *chess.Game, ordinal int) string {
	site := tagValue(game, "Site")
	if idx := strings.LastIndex(site, "/"); idx >= 0 && idx < len(site)-1 {
		return site[idx+1:]
	}
	date := tagValue(game, "UTCDate")
	if date == "" {
		date = tagValue(game, "Date")
	}
	return fmt.Sprintf("%s-%s-%s-%d", tagValue(game, "White"), tagValue(game, "Black"), date, ordinal)
}

// parseDate reads the UTC date/time tags, falling back to the Date tag. PGN
// dates use dots: 2024.03.15.
func parseDate(utcDate, utcTime, plainDate string) time.Time {
	if utcDate != "" {
		layout := "2006.01.02"
		value := utcDate
		if utcTime != "" {
			layout = "2006.01.02 15:04:05"
			value = utcDate + " " + utcTime
		}
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	if plainDate != "" {
		if t, err := time.Parse("2006.01.02", plainDate); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
