package pgn

import (
	"strings"
	"testing"
	"time"

	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotatedPGN = `[Event "Rated Blitz game"]
[Site "https://lichess.org/abcd1234"]
[Date "2025.03.15"]
[White "magnus"]
[Black "hikaru"]
[Result "1-0"]
[UTCDate "2025.03.15"]
[UTCTime "18:30:00"]
[WhiteElo "1500"]
[BlackElo "1480"]
[ECO "B20"]
[Opening "Sicilian Defense"]
[TimeControl "300+3"]

1. e4 { [%eval 0.3] } 1... c5 { [%eval 0.25] } 2. Nf3 { [%eval -0.5] } 1-0

[Event "Rated Blitz game"]
[Site "https://lichess.org/efgh5678"]
[White "someoneelse"]
[Black "anotherplayer"]
[Result "0-1"]

1. d4 d5 0-1
`

func TestParse_AnnotatedGame(t *testing.T) {
	games, err := Parse(strings.NewReader(annotatedPGN), "magnus")

	require.NoError(t, err)
	require.Len(t, games, 1, "games without the player are skipped")

	g := games[0]
	assert.Equal(t, "abcd1234", g.GameID)
	assert.Equal(t, "magnus", g.Player)
	assert.Equal(t, schema.SideWhite, g.PlayerSide)
	assert.Equal(t, "hikaru", g.Opponent)
	assert.Equal(t, 1500, g.PlayerRating)
	assert.Equal(t, 1480, g.OpponentRating)
	assert.Equal(t, "300+3", g.TimeControl)
	assert.Equal(t, "B20", g.OpeningECO)
	assert.Equal(t, "Sicilian Defense", g.OpeningName)
	assert.Equal(t, "1-0", g.Result)
	assert.Equal(t, "https://lichess.org/abcd1234", g.Link)
	assert.Equal(t, time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC), g.PlayedAt)

	require.Len(t, g.Moves, 3)

	first := g.Moves[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "e4", first.SAN)
	assert.Equal(t, schema.SideWhite, first.Color)
	assert.True(t, first.HasEval)
	assert.Equal(t, 0, first.EvalBeforeCP)
	assert.Equal(t, 30, first.EvalAfterCP)
	assert.Contains(t, first.FENAfter, " b ", "FEN after White's move has Black to play")

	second := g.Moves[1]
	assert.Equal(t, "c5", second.SAN)
	assert.Equal(t, schema.SideBlack, second.Color)
	assert.True(t, second.HasEval)
	assert.Equal(t, 30, second.EvalBeforeCP, "eval chains from the previous ply")
	assert.Equal(t, 25, second.EvalAfterCP)

	third := g.Moves[2]
	assert.Equal(t, "Nf3", third.SAN)
	assert.Equal(t, 25, third.EvalBeforeCP)
	assert.Equal(t, -50, third.EvalAfterCP)
}

func TestParse_PlayerAsBlack(t *testing.T) {
	games, err := Parse(strings.NewReader(annotatedPGN), "HIKARU")

	require.NoError(t, err)
	require.Len(t, games, 1, "player matching ignores case")
	assert.Equal(t, schema.SideBlack, games[0].PlayerSide)
	assert.Equal(t, "magnus", games[0].Opponent)
	assert.Equal(t, 1480, games[0].PlayerRating)
	assert.Equal(t, 1500, games[0].OpponentRating)
}

func TestParse_NoGames(t *testing.T) {
	games, err := Parse(strings.NewReader(""), "magnus")

	assert.Nil(t, games)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no games found")
}

func TestParse_PlayerAbsentEverywhere(t *testing.T) {
	games, err := Parse(strings.NewReader(annotatedPGN), "nobody")

	require.NoError(t, err)
	assert.Empty(t, games)
}

const unannotatedPGN = `[Event "Casual game"]
[White "magnus"]
[Black "hikaru"]
[Result "1/2-1/2"]
[Date "2024.11.02"]

1. e4 e5 1/2-1/2
`

func TestParse_GameWithoutEvals(t *testing.T) {
	games, err := Parse(strings.NewReader(unannotatedPGN), "magnus")

	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, schema.UnknownOpening, g.OpeningECO)
	assert.Equal(t, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC), g.PlayedAt)
	require.Len(t, g.Moves, 2)
	for _, mv := range g.Moves {
		assert.False(t, mv.HasEval)
	}
	// No Site URL: the ID falls back to a tag composite.
	assert.Equal(t, "magnus-hikaru-2024.11.02-1", g.GameID)
}

func TestParseEval(t *testing.T) {
	tests := []struct {
		token  string
		want   int
		wantOK bool
	}{
		{"0.17", 17, true},
		{"-1.5", -150, true},
		{"0.0", 0, true},
		{"#3", mateScoreCP, true},
		{"#-2", -mateScoreCP, true},
		{"#x", 0, false},
		{"junk", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := parseEval(tt.token)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvalFromComments(t *testing.T) {
	comments := [][]string{
		{"[%eval 0.3] [%clk 0:05:00]"},
		{"no annotation here"},
	}

	eval, ok := evalFromComments(comments, 0)
	require.True(t, ok)
	assert.Equal(t, 30, eval)

	_, ok = evalFromComments(comments, 1)
	assert.False(t, ok)

	_, ok = evalFromComments(comments, 5)
	assert.False(t, ok, "out-of-range ply has no comment")
}
