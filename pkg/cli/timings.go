package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/cli/internal/output"
	"github.com/cowt/har-viewer/pkg/timing"
)

var timingsOpts filterFlags

var timingsCmd = &cobra.Command{
	Use:   "timings <capture.har|->",
	Short: "Show the request waterfall",
	Long: `Show when each filtered request started and how long it took, measured
from the earliest request in the whole capture, together with the peak number
of requests in flight.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := timingsOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}
		wf := s.Waterfall()

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), wf)
		}

		if len(wf.Rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No requests matched the filters")
			return nil
		}

		w := output.Table(cmd.OutOrStdout())
		_, _ = fmt.Fprintln(w, "#\tSTART\tDURATION\tWAIT\tMETHOD\tSTATUS\tURL")
		for i, r := range wf.Rows {
			wait := "-"
			if r.Breakdown.Phases.Wait != nil {
				wait = timing.FormatDuration(*r.Breakdown.Phases.Wait)
			}
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
				i,
				timing.FormatDuration(r.Breakdown.StartOffset),
				timing.FormatDuration(r.Breakdown.Duration),
				wait,
				r.Entry.Request.Method,
				r.Entry.Response.Status,
				output.Truncate(r.Entry.Request.URL, 70),
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %s, peak concurrency: %d\n",
			timing.FormatDuration(wf.MaxTime), slices.Max(wf.Concurrency))
		return nil
	},
}

func init() {
	timingsOpts.register(timingsCmd)
	rootCmd.AddCommand(timingsCmd)
}
