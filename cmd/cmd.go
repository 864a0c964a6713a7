// Package cmd defines the command-line interface for tutor.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the games subcommands to the parent games command
	gamesCmd.AddCommand(gamesStatusCmd)
	gamesCmd.AddCommand(gamesClearCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("player", "p", "", "Account name whose games are analyzed")
	rootCmd.PersistentFlags().Int("min-frequency", contract.DefaultMinFrequency, "Minimum occurrences for a pattern to qualify")
	rootCmd.PersistentFlags().Float64("min-impact", contract.DefaultMinImpactCP, "Minimum effect size in centipawns")
	rootCmd.PersistentFlags().Float64("min-correlation", contract.DefaultMinCorrelation, "Minimum |r| for correlation patterns")
	rootCmd.PersistentFlags().Int("max-patterns", contract.DefaultMaxPatterns, "Number of patterns retained after ranking")
	rootCmd.PersistentFlags().Int("max-insights", contract.DefaultMaxInsights, "Number of insights to report")
	rootCmd.PersistentFlags().Int("evidence", contract.DefaultEvidenceLimit, "Example positions shown per insight")
	rootCmd.PersistentFlags().IntP("games", "g", contract.DefaultGamesLimit, "Most recent N games to analyze")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Bool("detail", false, "Print full action plans and example positions")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Game store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("run-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for run tracking (must differ from store-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of exportCmd to Viper
	exportCmd.Flags().String("features-file", "features.parquet", "Destination file for the feature table")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
