package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cowt/har-viewer/pkg/cli/internal/output"
	"github.com/cowt/har-viewer/pkg/curl"
)

var (
	curlOpts    filterFlags
	curlIndexes []int
)

// CurlOutput is one command of the curl --json output.
type CurlOutput struct {
	Index   int    `json:"index"`
	Method  string `json:"method"`
	URL     string `json:"url"`
	Command string `json:"command"`
}

var curlCmd = &cobra.Command{
	Use:   "curl <capture.har|->",
	Short: "Print curl commands that replay captured requests",
	Long: `Print a curl command for each filtered entry, or only for the entries given
with --index. Commands are built from the slimmed request, so hop-by-hop and
browser-managed headers are not replayed.`,
	Example: `  harview curl session.har --method POST
  harview curl session.har --type xhr --index 0 --index 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := curlOpts.openSession(cmd, args[0])
		if err != nil {
			return err
		}

		indexes := curlIndexes
		if len(indexes) == 0 {
			for i := 0; i < s.Len(); i++ {
				indexes = append(indexes, i)
			}
		}

		rows := s.Rows()
		commands := make([]CurlOutput, 0, len(indexes))
		for _, idx := range indexes {
			command, ok := s.Curl(idx)
			if !ok {
				return fmt.Errorf("index %d is out of range (%d entries)", idx, s.Len())
			}
			commands = append(commands, CurlOutput{
				Index:   idx,
				Method:  rows[idx].Entry.Request.Method,
				URL:     rows[idx].Entry.Request.URL,
				Command: command,
			})
		}

		if jsonOutput {
			return output.JSON(cmd.OutOrStdout(), commands)
		}
		for i, c := range commands {
			if i > 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %d %s %s\n%s\n", c.Index, c.Method, c.URL, c.Command)
		}
		return nil
	},
}

var parseCurlCmd = &cobra.Command{
	Use:   "parse-curl [command|-]",
	Short: "Convert a curl command into a HAR request",
	Example: `  harview parse-curl "curl -X POST https://api.example.com/items -H 'Content-Type: application/json' -d '{\"a\":1}'"
  pbpaste | harview parse-curl -`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) == 0 || args[0] == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			input = string(data)
		} else {
			input = args[0]
		}

		req, err := curl.Parse(strings.TrimSpace(input))
		if err != nil {
			return err
		}
		return output.JSON(cmd.OutOrStdout(), req)
	},
}

func init() {
	curlOpts.register(curlCmd)
	curlCmd.Flags().IntSliceVarP(&curlIndexes, "index", "i", nil, "Only these positions of the filtered list (0-based, repeatable)")
	rootCmd.AddCommand(curlCmd)
	rootCmd.AddCommand(parseCurlCmd)
}
