// Package flags provides reusable flag types for CLI commands.
package flags

import "strings"

// StringSlice is a repeatable string flag. Each value may hold several
// whitespace-separated items, so "--domain 'a.com b.com'" and
// "--domain a.com --domain b.com" are equivalent.
type StringSlice []string

// String returns the string representation of the flag value.
func (s *StringSlice) String() string {
	return strings.Join(*s, " ")
}

// Set appends the items of value.
func (s *StringSlice) Set(value string) error {
	*s = append(*s, strings.Fields(value)...)
	return nil
}

// Type specifies the type label for Cobra flags.
func (s *StringSlice) Type() string {
	return "strings"
}
