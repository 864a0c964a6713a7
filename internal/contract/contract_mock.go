package contract

import (
	"context"
	"time"

	"github.com/glynnsanity/tactical-tutor/schema"
	"github.com/stretchr/testify/mock"
)

// MockGameStore is a mock implementation of GameStore for testing.
type MockGameStore struct {
	mock.Mock
}

var _ GameStore = &MockGameStore{} // Compile-time check

// SaveGames implements the GameStore interface.
func (m *MockGameStore) SaveGames(ctx context.Context, games []schema.GameRecord) (int, error) {
	args := m.Called(ctx, games)
	return args.Int(0), args.Error(1)
}

// LoadGames implements the GameStore interface.
func (m *MockGameStore) LoadGames(ctx context.Context, player string, limit int) ([]schema.GameRecord, error) {
	args := m.Called(ctx, player, limit)
	games, _ := args.Get(0).([]schema.GameRecord)
	return games, args.Error(1)
}

// Status implements the GameStore interface.
func (m *MockGameStore) Status(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the GameStore interface.
func (m *MockGameStore) Clear(ctx context.Context, player string) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

// Close implements the GameStore interface.
func (m *MockGameStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(start time.Time, player string, configParams map[string]any) (int64, error) {
	args := m.Called(start, player, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, end time.Time, report *schema.AnalysisReport) error {
	args := m.Called(runID, end, report)
	return args.Error(0)
}

// ListRuns implements the RunStore interface.
func (m *MockRunStore) ListRuns() ([]RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]RunRecord)
	return runs, args.Error(1)
}

// Status implements the RunStore interface.
func (m *MockRunStore) Status() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// Clear implements the RunStore interface.
func (m *MockRunStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ StoreManager = &MockStoreManager{} // Compile-time check

// GetGameStore implements the StoreManager interface.
func (m *MockStoreManager) GetGameStore() GameStore {
	ret := m.Called()
	store, _ := ret.Get(0).(GameStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(RunStore)
	return store
}
