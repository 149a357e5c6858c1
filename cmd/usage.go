package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/usage"
	"github.com/abhisek/tinysteps/internal/ui/theme"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect recorded AI usage",
}

var usageStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a tenant's AI usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, _ := identity(cmd)
		stats := a.Recorder.Stats(tenant)

		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(w, stats)
		}
		printUsage(cmd, tenant, stats)
		return nil
	},
}

func printUsage(cmd *cobra.Command, tenant string, stats usage.Stats) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, theme.Title.Render("Usage for "+tenant))
	field(w, "Queries", fmt.Sprint(stats.TotalQueries))
	field(w, "Tokens", fmt.Sprint(stats.TotalTokens))
	field(w, "This month", fmt.Sprint(stats.MonthlyUsage))
	if len(stats.FeatureBreakdown) == 0 {
		return
	}

	features := make([]usage.Feature, 0, len(stats.FeatureBreakdown))
	for f := range stats.FeatureBreakdown {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })

	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Heading.Render("By feature"))
	for _, f := range features {
		fmt.Fprintf(w, "  %-20s %6d\n", f, stats.FeatureBreakdown[f])
	}
}

func init() {
	addJSONFlag(usageStatsCmd)
	usageCmd.AddCommand(usageStatsCmd)
}
