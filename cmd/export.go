package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glynnsanity/tactical-tutor/core"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/internal/parquet"
)

// exportCmd writes the extracted feature table to a Parquet file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the feature table to Parquet for external analysis.",
	Long: `Extract features from your stored games and write them to a Parquet
file, one row per analyzed position. Useful for notebooks, DuckDB, or any
columnar tooling.

Examples:
  # Export the default features.parquet
  tutor export --player magnus

  # Choose the destination
  tutor export --player magnus --features-file magnus_features.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: requirePlayer,
	Run: func(_ *cobra.Command, _ []string) {
		table, err := core.BuildFeatureTable(rootCtx, cfg, storeManager)
		if err != nil {
			contract.LogFatal("Cannot build feature table", err)
		}

		outPath := viper.GetString("features-file")
		if err := parquet.WriteFeatureTableParquet(table, outPath); err != nil {
			contract.LogFatal("Cannot write Parquet file", err)
		}
		fmt.Printf("Wrote %d positions to %s\n", len(table), outPath)
	},
}
