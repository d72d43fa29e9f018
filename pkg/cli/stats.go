package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/cli/internal/output"
	"github.com/cowt/har-viewer/pkg/perf"
	"github.com/cowt/har-viewer/pkg/timing"
)

var statsOpts filterFlags

var statsCmd = &cobra.Command{
	Use:   "stats <capture.har|->",
	Short: "Show performance statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := statsOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}
		stats := s.Stats()

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), stats)
		}
		return printStats(cmd.OutOrStdout(), stats)
	},
}

func printStats(out io.Writer, stats perf.Stats) error {
	fmt.Fprintf(out, "Requests:      %d\n", stats.TotalRequests)
	fmt.Fprintf(out, "Total time:    %s\n", timing.FormatDuration(stats.TotalTime))
	fmt.Fprintf(out, "Average:       %s\n", timing.FormatDuration(stats.AverageResponseTime))
	fmt.Fprintf(out, "Success rate:  %.1f%%\n", stats.SuccessRate*100)
	if stats.TotalRequests == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := output.Table(out)
	_, _ = fmt.Fprintln(w, "RESPONSE TIME\tCOUNT")
	for _, b := range stats.ResponseTimeDistribution {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", b.Range, b.Count)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "STATUS\tCOUNT")
	for _, k := range sortedKeys(stats.StatusCodeDistribution) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", k, stats.StatusCodeDistribution[k])
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "METHOD\tCOUNT")
	for _, k := range sortedKeys(stats.MethodDistribution) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", k, stats.MethodDistribution[k])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	printRanked(out, "Slowest", stats.Slowest)
	printRanked(out, "Fastest", stats.Fastest)
	return nil
}

func printRanked(out io.Writer, title string, ranked []perf.Ranked) {
	fmt.Fprintf(out, "\n%s:\n", title)
	w := output.Table(out)
	for _, r := range ranked {
		_, _ = fmt.Fprintf(w, "  #%d\t%s\t%s\t%d\t%s\n",
			r.Index, timing.FormatDuration(r.Duration), r.Method, r.Status, output.Truncate(r.URL, 70))
	}
	_ = w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	statsOpts.register(statsCmd)
	rootCmd.AddCommand(statsCmd)
}
