package gamestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGameStore(t *testing.T) contract.GameStore {
	t.Helper()
	store, err := NewGameStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storedGame(id, player string, playedAt time.Time) schema.GameRecord {
	return schema.GameRecord{
		GameID:         id,
		Player:         player,
		PlayerSide:     schema.SideWhite,
		Opponent:       "rival",
		PlayerRating:   1600,
		OpponentRating: 1550,
		TimeControl:    "600",
		OpeningECO:     "C50",
		OpeningName:    "Italian Game",
		Result:         "1-0",
		Link:           "https://lichess.org/" + id,
		PlayedAt:       playedAt,
		Moves: []schema.MoveRecord{
			{Index: 0, SAN: "e4", Color: schema.SideWhite, FENAfter: "fen0", EvalBeforeCP: 0, EvalAfterCP: 25, HasEval: true},
			{Index: 1, SAN: "e5", Color: schema.SideBlack, FENAfter: "fen1", EvalBeforeCP: 25, EvalAfterCP: 20, HasEval: true},
		},
	}
}

func TestGameStore_SaveAndLoadRoundtrip(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	older := storedGame("g-old", "magnus", time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC))
	newer := storedGame("g-new", "magnus", time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC))

	saved, err := store.SaveGames(ctx, []schema.GameRecord{older, newer})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	games, err := store.LoadGames(ctx, "magnus", 10)
	require.NoError(t, err)
	require.Len(t, games, 2)

	// Newest game first.
	assert.Equal(t, "g-new", games[0].GameID)
	assert.Equal(t, "g-old", games[1].GameID)

	got := games[0]
	assert.Equal(t, "magnus", got.Player)
	assert.Equal(t, schema.SideWhite, got.PlayerSide)
	assert.Equal(t, "rival", got.Opponent)
	assert.Equal(t, 1600, got.PlayerRating)
	assert.Equal(t, 1550, got.OpponentRating)
	assert.Equal(t, "600", got.TimeControl)
	assert.Equal(t, "C50", got.OpeningECO)
	assert.Equal(t, "Italian Game", got.OpeningName)
	assert.Equal(t, "1-0", got.Result)
	assert.Equal(t, "https://lichess.org/g-new", got.Link)
	assert.True(t, got.PlayedAt.Equal(newer.PlayedAt))

	require.Len(t, got.Moves, 2)
	assert.Equal(t, "e4", got.Moves[0].SAN)
	assert.Equal(t, schema.SideWhite, got.Moves[0].Color)
	assert.Equal(t, "fen0", got.Moves[0].FENAfter)
	assert.Equal(t, 25, got.Moves[0].EvalAfterCP)
	assert.True(t, got.Moves[0].HasEval)
	assert.Equal(t, 1, got.Moves[1].Index)
}

func TestGameStore_SaveReplacesExistingGame(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	game := storedGame("g-1", "magnus", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := store.SaveGames(ctx, []schema.GameRecord{game})
	require.NoError(t, err)

	game.Opponent = "newrival"
	game.Moves = game.Moves[:1]
	saved, err := store.SaveGames(ctx, []schema.GameRecord{game})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	games, err := store.LoadGames(ctx, "magnus", 10)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "newrival", games[0].Opponent)
	assert.Len(t, games[0].Moves, 1)
}

func TestGameStore_SaveSkipsEmptyGameID(t *testing.T) {
	store := newTestGameStore(t)

	saved, err := store.SaveGames(context.Background(), []schema.GameRecord{
		storedGame("", "magnus", time.Now()),
		storedGame("g-ok", "magnus", time.Now()),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestGameStore_LoadGamesRespectsLimit(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var games []schema.GameRecord
	for i := range 5 {
		games = append(games, storedGame(
			string(rune('a'+i)), "magnus", base.Add(time.Duration(i)*time.Hour)))
	}
	_, err := store.SaveGames(ctx, games)
	require.NoError(t, err)

	loaded, err := store.LoadGames(ctx, "magnus", 3)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "e", loaded[0].GameID, "the newest games win the limit")
}

func TestGameStore_Status(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	first := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	_, err := store.SaveGames(ctx, []schema.GameRecord{
		storedGame("g-1", "magnus", first),
		storedGame("g-2", "magnus", last),
		storedGame("g-3", "hikaru", first.Add(time.Hour)),
	})
	require.NoError(t, err)

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, schema.SQLiteBackend, status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(3), status.TotalGames)
	assert.Equal(t, int64(6), status.TotalMoves)
	assert.Equal(t, int64(2), status.TotalPlayers)
	assert.True(t, status.LastGameTime.Equal(last))
	assert.True(t, status.FirstGameTime.Equal(first))
}

func TestGameStore_ClearPlayer(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	_, err := store.SaveGames(ctx, []schema.GameRecord{
		storedGame("g-1", "magnus", time.Now()),
		storedGame("g-2", "hikaru", time.Now()),
	})
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "magnus"))

	remaining, err := store.LoadGames(ctx, "hikaru", 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	gone, err := store.LoadGames(ctx, "magnus", 10)
	require.NoError(t, err)
	assert.Empty(t, gone)

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), status.TotalGames)
	assert.Equal(t, int64(2), status.TotalMoves)
}

func TestGameStore_ClearAll(t *testing.T) {
	store := newTestGameStore(t)
	ctx := context.Background()

	_, err := store.SaveGames(ctx, []schema.GameRecord{
		storedGame("g-1", "magnus", time.Now()),
		storedGame("g-2", "hikaru", time.Now()),
	})
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, ""))

	status, err := store.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.TotalGames)
	assert.Zero(t, status.TotalMoves)
}

func TestGameStore_NoneBackend(t *testing.T) {
	store, err := NewGameStore(schema.NoneBackend, "")
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := store.SaveGames(ctx, []schema.GameRecord{storedGame("g", "p", time.Now())})
	assert.NoError(t, err)
	assert.Zero(t, saved)

	games, err := store.LoadGames(ctx, "p", 10)
	assert.NoError(t, err)
	assert.Nil(t, games)

	status, err := store.Status(ctx)
	assert.NoError(t, err)
	assert.False(t, status.Connected)

	assert.NoError(t, store.Clear(ctx, ""))
	assert.NoError(t, store.Close())
}
