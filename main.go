// main is the entry point for the tutor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/glynnsanity/tactical-tutor/cmd"
	"github.com/glynnsanity/tactical-tutor/internal/gamestore"
)

func main() {
	cmd.SetStoreManager(gamestore.Manager)
	err := cmd.Execute()
	if closeErr := gamestore.CloseStores(); closeErr != nil {
		fmt.Println("⚠️ ", closeErr)
	}
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
