// Package output provides common output formatting utilities.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// JSON writes indented JSON to w.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Table creates an aligned table writer on w.
// Remember to call Flush() when done writing.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Warn prints a warning message to w.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}

// Truncate shortens s to n characters, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
