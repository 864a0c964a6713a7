package gamestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// GameStoreImpl handles durable game storage using various database backends.
type GameStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.GameStore = &GameStoreImpl{} // Compile-time check

// NewGameStore initializes and returns a new GameStore based on the backend type.
func NewGameStore(backend schema.DatabaseBackend, connStr string) (contract.GameStore, error) {
	db, _, err := openDB(backend, connStr, DefaultGameDBPath())
	if err != nil {
		return nil, err
	}
	if db == nil {
		// No-op store for disabled persistence
		return &GameStoreImpl{db: nil, backend: backend}, nil
	}

	for _, query := range createGameTablesQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create game tables: %w", err)
		}
	}
	return &GameStoreImpl{db: db, backend: backend}, nil
}

// createGameTablesQueries returns the CREATE TABLE statements for the backend.
func createGameTablesQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id VARCHAR(255) PRIMARY KEY,
					player VARCHAR(100) NOT NULL,
					player_side VARCHAR(10) NOT NULL,
					opponent VARCHAR(100) NOT NULL,
					player_rating INT NOT NULL,
					opponent_rating INT NOT NULL,
					time_control VARCHAR(50) NOT NULL,
					opening_eco VARCHAR(10) NOT NULL,
					opening_name VARCHAR(255) NOT NULL,
					result VARCHAR(10) NOT NULL,
					link VARCHAR(512),
					played_at DATETIME(6) NOT NULL,
					INDEX idx_player_played (player, played_at)
				);
			`, gamesTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id VARCHAR(255) NOT NULL,
					move_index INT NOT NULL,
					san VARCHAR(20) NOT NULL,
					color VARCHAR(10) NOT NULL,
					fen_after VARCHAR(120) NOT NULL,
					eval_before_cp DOUBLE NOT NULL,
					eval_after_cp DOUBLE NOT NULL,
					has_eval TINYINT NOT NULL,
					PRIMARY KEY (game_id, move_index)
				);
			`, movesTable),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id TEXT PRIMARY KEY,
					player TEXT NOT NULL,
					player_side TEXT NOT NULL,
					opponent TEXT NOT NULL,
					player_rating INT NOT NULL,
					opponent_rating INT NOT NULL,
					time_control TEXT NOT NULL,
					opening_eco TEXT NOT NULL,
					opening_name TEXT NOT NULL,
					result TEXT NOT NULL,
					link TEXT,
					played_at TIMESTAMPTZ NOT NULL
				);
			`, gamesTable),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_player_played ON %s (player, played_at);`, gamesTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id TEXT NOT NULL,
					move_index INT NOT NULL,
					san TEXT NOT NULL,
					color TEXT NOT NULL,
					fen_after TEXT NOT NULL,
					eval_before_cp DOUBLE PRECISION NOT NULL,
					eval_after_cp DOUBLE PRECISION NOT NULL,
					has_eval SMALLINT NOT NULL,
					PRIMARY KEY (game_id, move_index)
				);
			`, movesTable),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id TEXT PRIMARY KEY,
					player TEXT NOT NULL,
					player_side TEXT NOT NULL,
					opponent TEXT NOT NULL,
					player_rating INTEGER NOT NULL,
					opponent_rating INTEGER NOT NULL,
					time_control TEXT NOT NULL,
					opening_eco TEXT NOT NULL,
					opening_name TEXT NOT NULL,
					result TEXT NOT NULL,
					link TEXT,
					played_at TEXT NOT NULL
				);
			`, gamesTable),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_player_played ON %s (player, played_at);`, gamesTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					game_id TEXT NOT NULL,
					move_index INTEGER NOT NULL,
					san TEXT NOT NULL,
					color TEXT NOT NULL,
					fen_after TEXT NOT NULL,
					eval_before_cp REAL NOT NULL,
					eval_after_cp REAL NOT NULL,
					has_eval INTEGER NOT NULL,
					PRIMARY KEY (game_id, move_index)
				);
			`, movesTable),
		}
	}
}

// SaveGames upserts game records with their moves. An existing game with the
// same ID is replaced wholesale. Returns the number of games written.
func (gs *GameStoreImpl) SaveGames(ctx context.Context, games []schema.GameRecord) (int, error) {
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return 0, nil
	}

	tx, err := gs.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var deleteGame, deleteMoves, insertGame, insertMove string
	switch gs.backend {
	case schema.PostgreSQLBackend:
		deleteGame = fmt.Sprintf(`DELETE FROM %s WHERE game_id = $1`, gamesTable)
		deleteMoves = fmt.Sprintf(`DELETE FROM %s WHERE game_id = $1`, movesTable)
		insertGame = fmt.Sprintf(`
			INSERT INTO %s (game_id, player, player_side, opponent, player_rating, opponent_rating,
			                time_control, opening_eco, opening_name, result, link, played_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, gamesTable)
		insertMove = fmt.Sprintf(`
			INSERT INTO %s (game_id, move_index, san, color, fen_after, eval_before_cp, eval_after_cp, has_eval)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, movesTable)
	default: // SQLite and MySQL
		deleteGame = fmt.Sprintf(`DELETE FROM %s WHERE game_id = ?`, gamesTable)
		deleteMoves = fmt.Sprintf(`DELETE FROM %s WHERE game_id = ?`, movesTable)
		insertGame = fmt.Sprintf(`
			INSERT INTO %s (game_id, player, player_side, opponent, player_rating, opponent_rating,
			                time_control, opening_eco, opening_name, result, link, played_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, gamesTable)
		insertMove = fmt.Sprintf(`
			INSERT INTO %s (game_id, move_index, san, color, fen_after, eval_before_cp, eval_after_cp, has_eval)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, movesTable)
	}

	saved := 0
	for i := range games {
		g := &games[i]
		if g.GameID == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, deleteGame, g.GameID); err != nil {
			return 0, fmt.Errorf("failed to replace game %s: %w", g.GameID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteMoves, g.GameID); err != nil {
			return 0, fmt.Errorf("failed to replace moves for game %s: %w", g.GameID, err)
		}
		if _, err := tx.ExecContext(ctx, insertGame,
			g.GameID, g.Player, g.PlayerSide, g.Opponent, g.PlayerRating, g.OpponentRating,
			g.TimeControl, g.OpeningECO, g.OpeningName, g.Result, g.Link,
			formatTime(g.PlayedAt, gs.backend)); err != nil {
			return 0, fmt.Errorf("failed to insert game %s: %w", g.GameID, err)
		}
		for j := range g.Moves {
			mv := &g.Moves[j]
			hasEval := 0
			if mv.HasEval {
				hasEval = 1
			}
			if _, err := tx.ExecContext(ctx, insertMove,
				g.GameID, mv.Index, mv.SAN, mv.Color, mv.FENAfter,
				mv.EvalBeforeCP, mv.EvalAfterCP, hasEval); err != nil {
				return 0, fmt.Errorf("failed to insert move %d of game %s: %w", mv.Index, g.GameID, err)
			}
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit games: %w", err)
	}
	return saved, nil
}

// LoadGames returns the player's most recent games with moves, newest first.
func (gs *GameStoreImpl) LoadGames(ctx context.Context, player string, limit int) ([]schema.GameRecord, error) {
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return nil, nil
	}

	var query string
	switch gs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			SELECT game_id, player, player_side, opponent, player_rating, opponent_rating,
			       time_control, opening_eco, opening_name, result, link, played_at
			FROM %s WHERE player = $1 ORDER BY played_at DESC, game_id LIMIT $2`, gamesTable)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			SELECT game_id, player, player_side, opponent, player_rating, opponent_rating,
			       time_control, opening_eco, opening_name, result, link, played_at
			FROM %s WHERE player = ? ORDER BY played_at DESC, game_id LIMIT ?`, gamesTable)
	}

	rows, err := gs.db.QueryContext(ctx, query, player, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var games []schema.GameRecord
	for rows.Next() {
		var g schema.GameRecord
		var link sql.NullString
		if gs.backend == schema.SQLiteBackend {
			var playedAtStr string
			if err := rows.Scan(&g.GameID, &g.Player, &g.PlayerSide, &g.Opponent, &g.PlayerRating, &g.OpponentRating,
				&g.TimeControl, &g.OpeningECO, &g.OpeningName, &g.Result, &link, &playedAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan game: %w", err)
			}
			g.PlayedAt, err = time.Parse(time.RFC3339Nano, playedAtStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse played_at: %w", err)
			}
		} else {
			if err := rows.Scan(&g.GameID, &g.Player, &g.PlayerSide, &g.Opponent, &g.PlayerRating, &g.OpponentRating,
				&g.TimeControl, &g.OpeningECO, &g.OpeningName, &g.Result, &link, &g.PlayedAt); err != nil {
				return nil, fmt.Errorf("failed to scan game: %w", err)
			}
		}
		g.Link = link.String
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	for i := range games {
		if err := gs.loadMoves(ctx, &games[i]); err != nil {
			return nil, err
		}
	}
	return games, nil
}

// loadMoves fills in a game's move list ordered by ply.
func (gs *GameStoreImpl) loadMoves(ctx context.Context, g *schema.GameRecord) error {
	var query string
	switch gs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			SELECT move_index, san, color, fen_after, eval_before_cp, eval_after_cp, has_eval
			FROM %s WHERE game_id = $1 ORDER BY move_index`, movesTable)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			SELECT move_index, san, color, fen_after, eval_before_cp, eval_after_cp, has_eval
			FROM %s WHERE game_id = ? ORDER BY move_index`, movesTable)
	}

	rows, err := gs.db.QueryContext(ctx, query, g.GameID)
	if err != nil {
		return fmt.Errorf("failed to query moves for game %s: %w", g.GameID, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var mv schema.MoveRecord
		var hasEval int
		if err := rows.Scan(&mv.Index, &mv.SAN, &mv.Color, &mv.FENAfter,
			&mv.EvalBeforeCP, &mv.EvalAfterCP, &hasEval); err != nil {
			return fmt.Errorf("failed to scan move for game %s: %w", g.GameID, err)
		}
		mv.HasEval = hasEval != 0
		g.Moves = append(g.Moves, mv)
	}
	return rows.Err()
}

// Status returns summary information about stored games.
func (gs *GameStoreImpl) Status(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   gs.backend,
		Connected: gs.db != nil,
	}
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return status, nil
	}

	row := gs.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*), COUNT(DISTINCT player) FROM %s`, gamesTable))
	if err := row.Scan(&status.TotalGames, &status.TotalPlayers); err != nil {
		return status, fmt.Errorf("failed to count games: %w", err)
	}
	row = gs.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, movesTable))
	if err := row.Scan(&status.TotalMoves); err != nil {
		return status, fmt.Errorf("failed to count moves: %w", err)
	}

	if status.TotalGames > 0 {
		row = gs.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MAX(played_at) FROM %s`, gamesTable))
		last, err := scanTime(gs.backend, row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get last game time: %w", err)
		}
		status.LastGameTime = last

		row = gs.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MIN(played_at) FROM %s`, gamesTable))
		first, err := scanTime(gs.backend, row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get first game time: %w", err)
		}
		status.FirstGameTime = first
	}
	return status, nil
}

// Clear removes stored games. With an empty player it clears everything,
// otherwise only that player's games.
func (gs *GameStoreImpl) Clear(ctx context.Context, player string) error {
	if gs.backend == schema.NoneBackend || gs.db == nil {
		return nil
	}

	if player == "" {
		for _, table := range []string{movesTable, gamesTable} {
			if _, err := gs.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		return nil
	}

	var deleteMoves, deleteGames string
	switch gs.backend {
	case schema.PostgreSQLBackend:
		deleteMoves = fmt.Sprintf(`DELETE FROM %s WHERE game_id IN (SELECT game_id FROM %s WHERE player = $1)`, movesTable, gamesTable)
		deleteGames = fmt.Sprintf(`DELETE FROM %s WHERE player = $1`, gamesTable)
	default: // SQLite and MySQL
		deleteMoves = fmt.Sprintf(`DELETE FROM %s WHERE game_id IN (SELECT game_id FROM %s WHERE player = ?)`, movesTable, gamesTable)
		deleteGames = fmt.Sprintf(`DELETE FROM %s WHERE player = ?`, gamesTable)
	}
	if _, err := gs.db.ExecContext(ctx, deleteMoves, player); err != nil {
		return fmt.Errorf("failed to clear moves for player %s: %w", player, err)
	}
	if _, err := gs.db.ExecContext(ctx, deleteGames, player); err != nil {
		return fmt.Errorf("failed to clear games for player %s: %w", player, err)
	}
	return nil
}

// Close closes the underlying connection.
func (gs *GameStoreImpl) Close() error {
	if gs.db != nil {
		return gs.db.Close()
	}
	return nil
}
