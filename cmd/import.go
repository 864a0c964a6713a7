package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/pgn"
)

// importCmd loads annotated PGN files into the game store.
var importCmd = &cobra.Command{
	Use:   "import <pgn-file> [pgn-file...]",
	Short: "Import annotated PGN files into the game store.",
	Long: `Parse one or more PGN files and store the player's games.

Engine evaluations are read from [%eval ...] comments, as written by lichess
game exports and most analysis tools. Games without the configured player are
skipped. Re-importing a game replaces its stored copy.

Examples:
  # Import a lichess export
  tutor import --player magnus lichess_magnus_2026.pgn

  # Import several files at once
  tutor import --player magnus january.pgn february.pgn`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requirePlayer,
	Run: func(_ *cobra.Command, args []string) {
		store := storeManager.GetGameStore()
		if store == nil {
			contract.LogFatal("Cannot import", fmt.Errorf("no game store configured"))
		}

		totalSaved := 0
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				contract.LogFatal("Cannot open PGN file", err)
			}
			games, err := pgn.Parse(f, cfg.Player)
			_ = f.Close()
			if err != nil {
				contract.LogFatal("Cannot parse PGN file", fmt.Errorf("%s: %w", path, err))
			}
			if len(games) == 0 {
				contract.LogWarn("No games for player in file", fmt.Errorf("%s has no games for %q", path, cfg.Player))
				continue
			}
			saved, err := store.SaveGames(rootCtx, games)
			if err != nil {
				contract.LogFatal("Cannot save games", err)
			}
			fmt.Printf("Imported %d games from %s\n", saved, path)
			totalSaved += saved
		}
		fmt.Printf("Done. %d games stored for %s\n", totalSaved, cfg.Player)
	},
}
