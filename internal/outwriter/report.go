package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/glynnsanity/tactical-tutor/internal/contract"
	"github.com/glynnsanity/tactical-tutor/schema"
)

// timePrecision keeps stage durations readable in the summary line.
const timePrecision = time.Millisecond

// writeReportText renders the human-readable report: a summary header, the
// ranked insight table and, with --detail, per-insight action plans and
// example positions.
func writeReportText(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	stats := report.Stats
	if _, err := fmt.Fprintf(w, "Analysis for %s: %d games, %d positions (%d skipped)\n",
		report.Player, stats.TotalGames, stats.TotalPositions, stats.SkippedPositions); err != nil {
		return err
	}

	if len(report.Insights) == 0 {
		_, err := fmt.Fprintln(w, "No significant patterns found. Import more evaluated games and try again.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Priority", "Category", "Finding", "Impact CP", "Games", "Positions", "Confidence"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := maxTitleWidth(cfg)
	var data [][]string
	for i, ins := range report.Insights {
		label := contract.GetPlainLabel(ins.Priority)
		if cfg.UseColor {
			label = contract.GetColorLabel(ins.Priority)
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			label,
			string(ins.Category),
			truncate(ins.Title, titleWidth),
			fmtFloat(ins.Pattern.ImpactCP),
			strconv.Itoa(ins.Evidence.TotalGames),
			strconv.Itoa(ins.Evidence.TotalPositions),
			fmtFloat(ins.Confidence),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Showing %d insights from %d patterns. Estimated addressable rating: %d points\n",
		stats.InsightsGenerated, stats.PatternsDiscovered, stats.PotentialRatingGain); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v (features %v, discovery %v, insights %v)\n",
		stats.Timings.Total.Round(timePrecision), stats.Timings.Features.Round(timePrecision),
		stats.Timings.Discovery.Round(timePrecision), stats.Timings.Insights.Round(timePrecision)); err != nil {
		return err
	}

	if cfg.Detail {
		return writeInsightDetails(w, report.Insights)
	}
	return nil
}

// writeInsightDetails prints the full narrative for each insight.
func writeInsightDetails(w io.Writer, insights []schema.Insight) error {
	for i, ins := range insights {
		if _, err := fmt.Fprintf(w, "\n%d. %s\n", i+1, ins.Title); err != nil {
			return err
		}
		fmt.Fprintf(w, "   %s\n", ins.Summary)
		fmt.Fprintf(w, "   Impact: %s (est. %d rating points)\n", ins.Impact, ins.EstimatedRatingImpact)
		fmt.Fprintf(w, "   Now: %s\n", ins.Plan.Immediate)
		fmt.Fprintf(w, "   Next games: %s\n", ins.Plan.NextGames)
		for _, item := range ins.Plan.StudyPlan {
			fmt.Fprintf(w, "   Study: %s\n", item)
		}
		for _, ex := range ins.Evidence.Examples {
			fmt.Fprintf(w, "   Example: %s (game %s, move %d)\n", ex.Description, ex.GameID, ex.MoveIndex+1)
		}
	}
	return nil
}

// writeReportCSV emits one row per insight.
func writeReportCSV(w io.Writer, report *schema.AnalysisReport, fmtFloat func(float64) string) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	header := []string{
		"rank", "id", "category", "title", "priority", "confidence",
		"impact_cp", "rating_impact", "total_games", "total_positions", "strategy",
	}
	if err := csvWriter.Write(header); err != nil {
		return err
	}
	for i, ins := range report.Insights {
		rec := []string{
			strconv.Itoa(i + 1),
			ins.ID,
			string(ins.Category),
			ins.Title,
			strconv.Itoa(ins.Priority),
			fmtFloat(ins.Confidence),
			fmtFloat(ins.Pattern.ImpactCP),
			strconv.Itoa(ins.EstimatedRatingImpact),
			strconv.Itoa(ins.Evidence.TotalGames),
			strconv.Itoa(ins.Evidence.TotalPositions),
			string(ins.Pattern.Strategy),
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// maxTitleWidth reserves space for the fixed columns and gives the rest to
// the finding title, clamped to a readable range.
func maxTitleWidth(cfg *contract.Config) int {
	available := getTableWidth(cfg) - 70
	if available < 20 {
		return 20
	}
	if available > 60 {
		return 60
	}
	return available
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
