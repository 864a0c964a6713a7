// Package contract provides interfaces and shared utilities for the tactical-tutor CLI's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/glynnsanity/tactical-tutor/schema"
)

// GameStore defines the interface for game record persistence.
// This allows the storage layer to be mocked for testing.
type GameStore interface {
	SaveGames(ctx context.Context, games []schema.GameRecord) (int, error)
	LoadGames(ctx context.Context, player string, limit int) ([]schema.GameRecord, error)
	Status(ctx context.Context) (schema.StoreStatus, error)
	Clear(ctx context.Context, player string) error
	Close() error
}

// RunStore defines the interface for analysis run history tracking.
type RunStore interface {
	BeginRun(start time.Time, player string, configParams map[string]any) (int64, error)
	EndRun(runID int64, end time.Time, report *schema.AnalysisReport) error
	ListRuns() ([]RunRecord, error)
	Status() (schema.RunStatus, error)
	Clear() error
	Close() error
}

// RunRecord is one persisted analysis run, as read back for status and export.
type RunRecord struct {
	RunID               int64
	Player              string
	StartTime           time.Time
	EndTime             *time.Time
	TotalGames          int
	TotalPositions      int
	PatternsDiscovered  int
	InsightsGenerated   int
	PotentialRatingGain int
	ConfigParams        string // JSON-encoded configuration
}

// StoreManager defines the interface for managing persistence stores.
type StoreManager interface {
	GetGameStore() GameStore
	GetRunStore() RunStore
}
