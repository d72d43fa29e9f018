package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/cli/internal/output"
)

var (
	flowOpts   filterFlags
	flowOutput string
)

var flowCmd = &cobra.Command{
	Use:   "flow <capture.har|->",
	Short: "Render the request sequence as a Mermaid flowchart",
	Long: `Render the filtered requests, in order, as Mermaid "graph TD" source. Nodes
are colored by status: green for success, yellow for redirects and red for
errors. Paste the output into any Mermaid renderer.`,
	Example: `  harview flow session.har --type xhr -o flow.mmd`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := flowOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}
		g := s.Flow()

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), g)
		}
		if err := writeFile(cmd.OutOrStdout(), flowOutput, []byte(g.Mermaid())); err != nil {
			return err
		}
		if flowOutput != "" && flowOutput != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d nodes to %s\n", len(g.Nodes), flowOutput)
		}
		return nil
	},
}

func init() {
	flowOpts.register(flowCmd)
	flowCmd.Flags().StringVarP(&flowOutput, "output", "o", "", "Write the Mermaid source to this file (default: stdout)")
	rootCmd.AddCommand(flowCmd)
}
