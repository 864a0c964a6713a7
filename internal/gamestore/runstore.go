package gamestore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	db, _, err := openDB(backend, connStr, DefaultRunDBPath())
	if err != nil {
		return nil, err
	}
	if db == nil {
		// No-op store for disabled tracking
		return &RunStoreImpl{db: nil, backend: backend}, nil
	}

	for _, query := range createRunTablesQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create run tables: %w", err)
		}
	}
	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTablesQueries returns the CREATE TABLE statements for the backend.
func createRunTablesQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					player VARCHAR(100) NOT NULL,
					start_time DATETIME(6) NOT NULL,
					end_time DATETIME(6),
					total_games INT,
					total_positions INT,
					patterns_discovered INT,
					insights_generated INT,
					potential_rating_gain INT,
					config_params TEXT
				);
			`, runsTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT NOT NULL,
					insight_id VARCHAR(255) NOT NULL,
					category VARCHAR(50) NOT NULL,
					title VARCHAR(255) NOT NULL,
					priority INT NOT NULL,
					confidence DOUBLE NOT NULL,
					rating_impact INT NOT NULL,
					impact_cp DOUBLE NOT NULL,
					total_games INT NOT NULL,
					total_positions INT NOT NULL,
					PRIMARY KEY (run_id, insight_id)
				);
			`, insightsTable),
		}

	case schema.PostgreSQLBackend:
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGSERIAL PRIMARY KEY,
					player TEXT NOT NULL,
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ,
					total_games INT,
					total_positions INT,
					patterns_discovered INT,
					insights_generated INT,
					potential_rating_gain INT,
					config_params TEXT
				);
			`, runsTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id BIGINT NOT NULL,
					insight_id TEXT NOT NULL,
					category TEXT NOT NULL,
					title TEXT NOT NULL,
					priority INT NOT NULL,
					confidence DOUBLE PRECISION NOT NULL,
					rating_impact INT NOT NULL,
					impact_cp DOUBLE PRECISION NOT NULL,
					total_games INT NOT NULL,
					total_positions INT NOT NULL,
					PRIMARY KEY (run_id, insight_id)
				);
			`, insightsTable),
		}

	default: // SQLite
		return []string{
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id INTEGER PRIMARY KEY AUTOINCREMENT,
					player TEXT NOT NULL,
					start_time TEXT NOT NULL,
					end_time TEXT,
					total_games INTEGER,
					total_positions INTEGER,
					patterns_discovered INTEGER,
					insights_generated INTEGER,
					potential_rating_gain INTEGER,
					config_params TEXT
				);
			`, runsTable),
			fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					run_id INTEGER NOT NULL,
					insight_id TEXT NOT NULL,
					category TEXT NOT NULL,
					title TEXT NOT NULL,
					priority INTEGER NOT NULL,
					confidence REAL NOT NULL,
					rating_impact INTEGER NOT NULL,
					impact_cp REAL NOT NULL,
					total_games INTEGER NOT NULL,
					total_positions INTEGER NOT NULL,
					PRIMARY KEY (run_id, insight_id)
				);
			`, insightsTable),
		}
	}
}

// BeginRun creates a new analysis run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(start time.Time, player string, configParams map[string]any) (int64, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (player, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, runsTable)
		err = rs.db.QueryRow(query, player, start, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (player, start_time, config_params) VALUES (?, ?, ?)`, runsTable)
		var result sql.Result
		result, err = rs.db.Exec(query, player, formatTime(start, rs.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data and records its insights.
func (rs *RunStoreImpl) EndRun(runID int64, end time.Time, report *schema.AnalysisReport) error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	var updateQuery string
	var args []any
	switch rs.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, total_games = $2, total_positions = $3,
			patterns_discovered = $4, insights_generated = $5, potential_rating_gain = $6 WHERE run_id = $7`, runsTable)
		args = []any{end, report.Stats.TotalGames, report.Stats.TotalPositions,
			report.Stats.PatternsDiscovered, report.Stats.InsightsGenerated, report.Stats.PotentialRatingGain, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, total_games = ?, total_positions = ?,
			patterns_discovered = ?, insights_generated = ?, potential_rating_gain = ? WHERE run_id = ?`, runsTable)
		args = []any{formatTime(end, rs.backend), report.Stats.TotalGames, report.Stats.TotalPositions,
			report.Stats.PatternsDiscovered, report.Stats.InsightsGenerated, report.Stats.PotentialRatingGain, runID}
	}
	if _, err := rs.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}

	var insertQuery string
	switch rs.backend {
	case schema.PostgreSQLBackend:
		insertQuery = fmt.Sprintf(`
			INSERT INTO %s (run_id, insight_id, category, title, priority, confidence, rating_impact, impact_cp, total_games, total_positions)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, insightsTable)
	default: // SQLite and MySQL
		insertQuery = fmt.Sprintf(`
			INSERT INTO %s (run_id, insight_id, category, title, priority, confidence, rating_impact, impact_cp, total_games, total_positions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, insightsTable)
	}
	for _, ins := range report.Insights {
		if _, err := rs.db.Exec(insertQuery,
			runID, ins.ID, string(ins.Category), ins.Title, ins.Priority, ins.Confidence,
			ins.EstimatedRatingImpact, ins.Pattern.ImpactCP,
			ins.Evidence.TotalGames, ins.Evidence.TotalPositions); err != nil {
			return fmt.Errorf("failed to insert insight %s for run %d: %w", ins.ID, runID, err)
		}
	}
	return nil
}

// ListRuns retrieves all recorded runs, oldest first.
func (rs *RunStoreImpl) ListRuns() ([]contract.RunRecord, error) {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, player, start_time, end_time, COALESCE(total_games, 0),
		COALESCE(total_positions, 0), COALESCE(patterns_discovered, 0), COALESCE(insights_generated, 0),
		COALESCE(potential_rating_gain, 0), COALESCE(config_params, '') FROM %s ORDER BY run_id`, runsTable)

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []contract.RunRecord
	for rows.Next() {
		var rec contract.RunRecord
		if rs.backend == schema.SQLiteBackend {
			var startStr string
			var endStr *string
			if err := rows.Scan(&rec.RunID, &rec.Player, &startStr, &endStr, &rec.TotalGames,
				&rec.TotalPositions, &rec.PatternsDiscovered, &rec.InsightsGenerated,
				&rec.PotentialRatingGain, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			rec.StartTime, err = time.Parse(time.RFC3339Nano, startStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				rec.EndTime = &endTime
			}
		} else {
			if err := rows.Scan(&rec.RunID, &rec.Player, &rec.StartTime, &rec.EndTime, &rec.TotalGames,
				&rec.TotalPositions, &rec.PatternsDiscovered, &rec.InsightsGenerated,
				&rec.PotentialRatingGain, &rec.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// Status returns summary information about the run store.
func (rs *RunStoreImpl) Status() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:   rs.backend,
		Connected: rs.db != nil,
	}
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	row := rs.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, runsTable))
	if err := row.Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to count runs: %w", err)
	}
	row = rs.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, insightsTable))
	if err := row.Scan(&status.TotalInsights); err != nil {
		return status, fmt.Errorf("failed to count insights: %w", err)
	}

	if status.TotalRuns > 0 {
		row = rs.db.QueryRow(fmt.Sprintf(`SELECT run_id FROM %s ORDER BY run_id DESC LIMIT 1`, runsTable))
		if err := row.Scan(&status.LastRunID); err != nil {
			return status, fmt.Errorf("failed to get last run: %w", err)
		}
		row = rs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s ORDER BY run_id DESC LIMIT 1`, runsTable))
		last, err := scanTime(rs.backend, row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		status.LastRunTime = last
		row = rs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1`, runsTable))
		oldest, err := scanTime(rs.backend, row.Scan)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldest
	}
	return status, nil
}

// Clear removes all recorded runs and insights.
func (rs *RunStoreImpl) Clear() error {
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}
	for _, table := range []string{insightsTable, runsTable} {
		if _, err := rs.db.Exec(fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
