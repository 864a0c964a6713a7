package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/gamestore"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global persistence manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "tutor",
	Short:              "Analyze your chess games to find recurring weaknesses.",
	Long:               `Tutor mines your evaluated games for patterns that cost you rating, and turns them into a prioritized improvement plan.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".tutor") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")     // Look in the current directory
		viper.AddConfigPath("$HOME") // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("TUTOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("min-frequency", contract.DefaultMinFrequency)
	viper.SetDefault("min-impact", contract.DefaultMinImpactCP)
	viper.SetDefault("min-correlation", contract.DefaultMinCorrelation)
	viper.SetDefault("max-patterns", contract.DefaultMaxPatterns)
	viper.SetDefault("max-insights", contract.DefaultMaxInsights)
	viper.SetDefault("evidence", contract.DefaultEvidenceLimit)
	viper.SetDefault("games", contract.DefaultGamesLimit)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("store-backend", schema.SQLiteBackend)
	viper.SetDefault("store-db-connect", "")
	viper.SetDefault("run-backend", "")
	viper.SetDefault("run-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config, runs validation and initializes persistence.
func sharedSetup(_ *cobra.Command, _ []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Run all validation and complex parsing. This populates the global
	// 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColor

	// 4. Initialize persistence layer with validated config
	if err := gamestore.InitStores(cfg.StoreBackend, cfg.StoreConnStr, cfg.RunBackend, cfg.RunConnStr); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	if storeManager == nil {
		storeManager = gamestore.Manager
	}

	return nil
}

// requirePlayer wraps sharedSetup for commands that need a player set.
func requirePlayer(cmd *cobra.Command, args []string) error {
	if err := sharedSetup(cmd, args); err != nil {
		return err
	}
	if cfg.Player == "" {
		return fmt.Errorf("player is required; pass --player or set it in .tutor.yaml")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager. Exposed for tests.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
