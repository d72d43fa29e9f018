package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/cli/internal/output"
	"github.com/cowt/har-viewer/pkg/redact"
	"github.com/cowt/har-viewer/pkg/session"
)

var (
	filterOpts    filterFlags
	filterOutput  string
	filterNoCheck bool
)

// FilterOutput is the --json result of the filter command.
type FilterOutput struct {
	*session.View
	Output   string                   `json:"output,omitempty"`
	Deleted  int                      `json:"deleted"`
	Warnings map[int][]redact.Warning `json:"warnings,omitempty"`
}

var filterCmd = &cobra.Command{
	Use:   "filter <capture.har|->",
	Short: "Filter and slim a capture",
	Long: `Filter a HAR capture and write a slimmed capture containing only the
matching entries. Slimming keeps the method, URL, query, body, status and a
small set of headers (content type, origin, referer, credentials, signing and
app identification headers) and drops everything else.

All given criteria must match. Entries without a request, a response or an
absolute URL are dropped silently.`,
	Example: `  # Keep failed API calls
  harview filter session.har --domain api.example.com --status 4 -o failed.har

  # Keep XHR traffic to two hosts, dropping the first result
  harview filter session.har --type xhr --domain 'a.com b.com' --delete 0

  # Expression and JSONPath criteria
  harview filter session.har --expr 'status >= 500' --jsonpath '$.error'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, view, err := filterOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}

		var warnings map[int][]redact.Warning
		if !filterNoCheck {
			warnings = s.Warnings()
		}

		if view.Status == session.StatusNoMatch {
			if jsonOutput {
				return output.JSON(cmd.OutOrStdout(), FilterOutput{View: view})
			}
			printStatus(cmd.ErrOrStderr(), view)
			return nil
		}

		data, err := s.Export()
		if err != nil {
			return err
		}

		if jsonOutput {
			if filterOutput != "" && filterOutput != "-" {
				if err := writeFile(cmd.OutOrStdout(), filterOutput, data); err != nil {
					return err
				}
			}
			return output.JSON(cmd.OutOrStdout(), FilterOutput{
				View:     view,
				Output:   filterOutput,
				Deleted:  len(s.Deleted()),
				Warnings: warnings,
			})
		}

		if err := writeFile(cmd.OutOrStdout(), filterOutput, data); err != nil {
			return err
		}
		printStatus(cmd.ErrOrStderr(), view)
		if n := len(s.Deleted()); n > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Dropped %d entries, %d written\n", n, s.Len())
		}
		printWarnings(cmd.ErrOrStderr(), warnings)
		return nil
	},
}

func init() {
	filterOpts.register(filterCmd)
	filterCmd.Flags().StringVarP(&filterOutput, "output", "o", "", "Write the slimmed capture to this file (default: stdout)")
	filterCmd.Flags().BoolVar(&filterNoCheck, "no-check", false, "Skip the sensitive data check")
	rootCmd.AddCommand(filterCmd)
}
