// Package parquet provides data structures and functions for exporting
// feature tables and run history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// FeatureRow is one analyzed position in columnar form. The per-feature
// values travel as a JSON document so the column set stays stable as the
// feature registry grows.
type FeatureRow struct {
	// GameID identifies the source game
	GameID string `parquet:"game_id,snappy"`

	// MoveIndex is the zero-based ply within the game
	MoveIndex int32 `parquet:"move_index,snappy"`

	// Perspective is "user" or "opponent" for the side that moved
	Perspective string `parquet:"perspective,snappy"`

	// Side is the color that moved
	Side string `parquet:"side,snappy"`

	// Phase is the game phase classification
	Phase string `parquet:"phase,snappy"`

	// TimeClass is the time-control classification
	TimeClass string `parquet:"time_class,snappy"`

	// OpeningECO is the ECO code of the game's opening
	OpeningECO string `parquet:"opening_eco,snappy"`

	// PlayedAt is when the game was played
	PlayedAt time.Time `parquet:"played_at,snappy"`

	// FEN is the position before the move
	FEN string `parquet:"fen,snappy"`

	// MoveSAN is the move in standard algebraic notation
	MoveSAN string `parquet:"move_san,snappy"`

	// HasEval reports whether an engine evaluation was available
	HasEval bool `parquet:"has_eval,snappy"`

	// EvalSwingCP is the mover-perspective centipawn swing of the move
	EvalSwingCP float64 `parquet:"eval_swing_cp,snappy"`

	// ValuesJSON holds the full feature map as a JSON document
	ValuesJSON string `parquet:"values_json,snappy"`
}

// RunRow maps one analysis run record to Parquet columns.
type RunRow struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Player is the analyzed account
	Player string `parquet:"player,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalGames is the number of games analyzed
	TotalGames int32 `parquet:"total_games,snappy"`

	// TotalPositions is the number of positions analyzed
	TotalPositions int32 `parquet:"total_positions,snappy"`

	// PatternsDiscovered is the pattern count before insight filtering
	PatternsDiscovered int32 `parquet:"patterns_discovered,snappy"`

	// InsightsGenerated is the final insight count
	InsightsGenerated int32 `parquet:"insights_generated,snappy"`

	// PotentialRatingGain is the summed estimated rating impact
	PotentialRatingGain int32 `parquet:"potential_rating_gain,snappy"`

	// ConfigParams contains the JSON-encoded configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// WriteFeatureTableParquet writes a feature table to a Parquet file.
func WriteFeatureTableParquet(table schema.FeatureTable, outputPath string) error {
	rows := make([]FeatureRow, 0, len(table))
	for i := range table {
		row, err := convertFeatureRow(&table[i])
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return writeRows(rows, outputPath)
}

// WriteRunsParquet writes run history records to a Parquet file.
func WriteRunsParquet(records []contract.RunRecord, outputPath string) error {
	rows := make([]RunRow, len(records))
	for i, rec := range records {
		rows[i] = convertRunRow(rec)
	}
	return writeRows(rows, outputPath)
}

// writeRows creates the output file and writes all records through a
// generic writer whose schema is inferred from struct tags.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// convertFeatureRow flattens one position into Parquet form.
func convertFeatureRow(pf *schema.PositionFeatures) (FeatureRow, error) {
	valuesJSON, err := json.Marshal(pf.Values)
	if err != nil {
		return FeatureRow{}, fmt.Errorf("failed to marshal feature values for %s ply %d: %w", pf.GameID, pf.MoveIndex, err)
	}
	return FeatureRow{
		GameID:      pf.GameID,
		MoveIndex:   int32(pf.MoveIndex),
		Perspective: pf.Perspective,
		Side:        pf.Side,
		Phase:       string(pf.Phase),
		TimeClass:   string(pf.TimeClass),
		OpeningECO:  pf.OpeningECO,
		PlayedAt:    pf.PlayedAt,
		FEN:         pf.FEN,
		MoveSAN:     pf.MoveSAN,
		HasEval:     pf.HasEval,
		EvalSwingCP: pf.EvalSwingCP,
		ValuesJSON:  string(valuesJSON),
	}, nil
}

// convertRunRow maps a run record to Parquet form.
func convertRunRow(rec contract.RunRecord) RunRow {
	row := RunRow{
		RunID:               rec.RunID,
		Player:              rec.Player,
		StartTime:           rec.StartTime,
		EndTime:             rec.EndTime,
		TotalGames:          int32(rec.TotalGames),
		TotalPositions:      int32(rec.TotalPositions),
		PatternsDiscovered:  int32(rec.PatternsDiscovered),
		InsightsGenerated:   int32(rec.InsightsGenerated),
		PotentialRatingGain: int32(rec.PotentialRatingGain),
	}
	if rec.ConfigParams != "" {
		params := rec.ConfigParams
		row.ConfigParams = &params
	}
	return row
}
