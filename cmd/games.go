package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/gamestore"
)

// gamesCmd manages the game store.
var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage stored games.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// gamesStatusCmd shows game store status.
var gamesStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show how many games and moves are stored.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetGameStore()
		if store == nil {
			contract.LogFatal("Cannot get status", fmt.Errorf("no game store configured"))
		}
		status, err := store.Status(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot get game store status", err)
		}
		gamestore.PrintStoreStatus(status)
	},
}

// gamesClearCmd removes stored games.
var gamesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove stored games (all, or only the configured player's).",
	Long: `Remove stored games. With --player set, only that player's games are
removed; otherwise the whole store is cleared.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetGameStore()
		if store == nil {
			contract.LogFatal("Cannot clear", fmt.Errorf("no game store configured"))
		}
		if err := store.Clear(rootCtx, cfg.Player); err != nil {
			contract.LogFatal("Cannot clear game store", err)
		}
		if cfg.Player != "" {
			fmt.Printf("Cleared stored games for %s\n", cfg.Player)
		} else {
			fmt.Println("Cleared all stored games")
		}
	},
}
