package gamestore

import (
	"fmt"
	"sync"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// StoreManagerImpl manages the game and run store instances.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	games        contract.GameStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// Global manager instance for main logic.
var (
	Manager   = &StoreManagerImpl{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetGameStore returns the game store.
func (mgr *StoreManagerImpl) GetGameStore() contract.GameStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.games
}

// GetRunStore returns the run store.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// InitStores initializes the global store manager. Either backend can be
// NoneBackend to disable that store. Safe to call from concurrent paths;
// the body runs exactly once.
func InitStores(gameBackend schema.DatabaseBackend, gameConnStr string, runBackend schema.DatabaseBackend, runConnStr string) error {
	var initErr error
	initOnce.Do(func() {
		gameStore, err := NewGameStore(gameBackend, gameConnStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize game store: %w", err)
			return
		}
		runStore, err := NewRunStore(runBackend, runConnStr)
		if err != nil {
			_ = gameStore.Close()
			initErr = fmt.Errorf("failed to initialize run store: %w", err)
			return
		}

		Manager.Lock()
		Manager.games = gameStore
		Manager.runs = runStore
		Manager.Unlock()
	})
	return initErr
}

// CloseStores closes both stores. Errors are reported but never block
// shutdown of the other store.
func CloseStores() error {
	var closeErr error
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.games != nil {
			if err := Manager.games.Close(); err != nil {
				closeErr = fmt.Errorf("failed to close game store: %w", err)
			}
			Manager.games = nil
		}
		if Manager.runs != nil {
			if err := Manager.runs.Close(); err != nil && closeErr == nil {
				closeErr = fmt.Errorf("failed to close run store: %w", err)
			}
			Manager.runs = nil
		}
	})
	return closeErr
}
