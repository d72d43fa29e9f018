// Package cli provides the command-line interface for harview.
//
// Commands:
//   - filter: Filter a capture and write the slimmed result
//   - classify: Show the resource type of each entry
//   - curl: Print curl commands replaying captured requests
//   - parse-curl: Convert a curl command into a HAR request
//   - timings: Show the request waterfall
//   - stats: Show performance statistics
//   - flow: Render the request sequence as a Mermaid flowchart
//   - version: Show harview version
//
// Every capture command accepts the same filter flags (--domain, --status,
// --method, --keyword, --type, --path, --expr, --jsonpath, --delete) on top
// of the filter profile from the configuration.
package cli
