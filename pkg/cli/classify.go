package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/cli/internal/output"
)

var (
	classifyOpts    filterFlags
	classifySummary bool
)

// ClassifiedEntry is one row of the classify command.
type ClassifiedEntry struct {
	Index    int               `json:"index"`
	Position int               `json:"position"`
	Category classify.Category `json:"category"`
	Method   string            `json:"method"`
	Status   int               `json:"status"`
	URL      string            `json:"url"`
}

// CategoryCount is one row of the classify --summary output.
type CategoryCount struct {
	Category classify.Category `json:"category"`
	Label    string            `json:"label"`
	Count    int               `json:"count"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <capture.har|->",
	Short: "Show the resource type of each entry",
	Example: `  harview classify session.har
  harview classify session.har --summary
  harview classify session.har --domain example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := classifyOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}
		rows := s.Rows()

		if classifySummary {
			counts := make(map[classify.Category]int)
			for _, r := range rows {
				counts[r.Category]++
			}
			summary := make([]CategoryCount, 0, len(counts))
			for _, c := range classify.Categories() {
				if counts[c] > 0 {
					summary = append(summary, CategoryCount{Category: c, Label: c.Label(), Count: counts[c]})
				}
			}
			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), summary)
			}
			w := output.Table(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "TYPE\tCOUNT")
			for _, c := range summary {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
			}
			return w.Flush()
		}

		entries := make([]ClassifiedEntry, len(rows))
		for i, r := range rows {
			entries[i] = ClassifiedEntry{
				Index:    i,
				Position: r.Position,
				Category: r.Category,
				Method:   r.Entry.Request.Method,
				Status:   r.Entry.Response.Status,
				URL:      r.Entry.Request.URL,
			}
		}
		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), entries)
		}

		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No requests matched the filters")
			return nil
		}
		w := output.Table(cmd.OutOrStdout())
		_, _ = fmt.Fprintln(w, "#\tTYPE\tMETHOD\tSTATUS\tURL")
		for _, e := range entries {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", e.Index, e.Category.Label(), e.Method, e.Status, output.Truncate(e.URL, 80))
		}
		return w.Flush()
	},
}

func init() {
	classifyOpts.register(classifyCmd)
	classifyCmd.Flags().BoolVar(&classifySummary, "summary", false, "Count entries per resource type")
	rootCmd.AddCommand(classifyCmd)
}
