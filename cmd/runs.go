package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/gamestore"
	"github.com/glynnsanity/tactical-tutor/internal/parquet"
)

// runsCmd manages analysis run history.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage analysis run history.",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show recorded analysis runs and insights.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetRunStore()
		if store == nil {
			contract.LogFatal("Cannot get status", fmt.Errorf("no run store configured; set --run-backend"))
		}
		status, err := store.Status()
		if err != nil {
			contract.LogFatal("Cannot get run store status", err)
		}
		gamestore.PrintRunStatus(status)
	},
}

// runsClearCmd removes run history.
var runsClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Remove all recorded runs and their insights.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetRunStore()
		if store == nil {
			contract.LogFatal("Cannot clear", fmt.Errorf("no run store configured; set --run-backend"))
		}
		if err := store.Clear(); err != nil {
			contract.LogFatal("Cannot clear run store", err)
		}
		fmt.Println("Cleared run history")
	},
}

// runsExportCmd exports run history to Parquet.
var runsExportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export run history to a Parquet file.",
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := storeManager.GetRunStore()
		if store == nil {
			contract.LogFatal("Cannot export", fmt.Errorf("no run store configured; set --run-backend"))
		}
		runs, err := store.ListRuns()
		if err != nil {
			contract.LogFatal("Cannot list runs", err)
		}
		outPath := cfg.OutputFile
		if outPath == "" {
			outPath = "runs.parquet"
		}
		if err := parquet.WriteRunsParquet(runs, outPath); err != nil {
			contract.LogFatal("Cannot write Parquet file", err)
		}
		fmt.Printf("Wrote %d runs to %s\n", len(runs), outPath)
	},
}

// runsMigrateCmd applies run store schema migrations.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply run store schema migrations.",
	Long: `Migrate the run history schema to a target version.

The target defaults to the latest version. Use --target-version 0 to roll
everything back.`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := gamestore.MigrateRuns(cfg.RunBackend, cfg.RunConnStr, targetVersion); err != nil {
			contract.LogFatal("Cannot migrate run store", err)
		}
	},
}
