package gamestore

import (
	"fmt"

	"github.com/glynnsanity/tactical-tutor/schema"
)

// PrintStoreStatus prints game store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Game Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Games: %d\n", status.TotalGames)
	fmt.Printf("Total Moves: %d\n", status.TotalMoves)
	fmt.Printf("Total Players: %d\n", status.TotalPlayers)
	if status.TotalGames > 0 {
		fmt.Printf("Latest Game: %s\n", status.LastGameTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Earliest Game: %s\n", status.FirstGameTime.Format("2006-01-02 15:04:05"))
	}
}

// PrintRunStatus prints run store status information.
func PrintRunStatus(status schema.RunStatus) {
	fmt.Printf("Run Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Total Insights Recorded: %d\n", status.TotalInsights)
}
