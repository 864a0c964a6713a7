package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glynnsanity/tactical-tutor/core"
	"github.com/glynnsanity/tactical-tutor/internal/contract"
)

// analyzeCmd runs the full analysis pipeline against stored games.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Find your recurring weaknesses, strengths, and opening problems.",
	Long: `Run the full analysis pipeline over your stored games.

Extracts positional features from every evaluated position, discovers
statistically significant patterns, and reports them as prioritized,
actionable insights:
- Recurring positional mistakes (hanging pieces, king safety, pawn weaknesses)
- Phases, time controls, or colors where your play degrades
- Openings that consistently cost you centipawns

Examples:
  # Analyze your last 200 stored games
  tutor analyze --player magnus

  # Tighter thresholds, more insights, full action plans
  tutor analyze --player magnus --min-frequency 10 --max-insights 20 --detail

  # Export findings to JSON for another tool
  tutor analyze --player magnus --output json --output-file report.json`,
	Args:    cobra.NoArgs,
	PreRunE: requirePlayer,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}
