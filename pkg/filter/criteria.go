package filter

import (
	"errors"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/cowt/har-viewer/pkg/classify"
)

// ErrInvalidCriteria is returned for criteria that cannot be evaluated.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// CriteriaError reports which criterion is malformed.
type CriteriaError struct {
	Field   string
	Message string
	Cause   error
}

func (e *CriteriaError) Error() string {
	msg := ErrInvalidCriteria.Error() + ": " + e.Field + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrInvalidCriteria and the underlying cause.
func (e *CriteriaError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidCriteria, e.Cause}
	}
	return []error{ErrInvalidCriteria}
}

// Criteria selects entries. Every configured field must match; zero values
// are not configured.
type Criteria struct {
	// Domains are substrings OR-matched against the request hostname.
	Domains []string `json:"domains,omitempty" yaml:"domains,omitempty"`

	// StatusPrefix is a single digit selecting a status class ("4" for 4xx).
	StatusPrefix string `json:"status,omitempty" yaml:"status,omitempty"`

	// Method matches the request method, ignoring case.
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Keyword is matched case-insensitively against the URL, the request
	// body and the response body.
	Keyword string `json:"keyword,omitempty" yaml:"keyword,omitempty"`

	// Category restricts entries to one resource category. "" and "all"
	// disable the criterion.
	Category classify.Category `json:"category,omitempty" yaml:"category,omitempty"`

	// PathGlob is a doublestar pattern matched against the URL path,
	// e.g. "/api/**".
	PathGlob string `json:"path,omitempty" yaml:"path,omitempty"`

	// Expr is a boolean expression over method, url, host, path, status,
	// category, mimeType, requestBody and responseBody,
	// e.g. `status >= 400 && method == "POST"`.
	Expr string `json:"expr,omitempty" yaml:"expr,omitempty"`

	// JSONPath must select at least one value from the JSON response body.
	JSONPath string `json:"jsonpath,omitempty" yaml:"jsonpath,omitempty"`
}

// ParseDomains splits a whitespace-separated domain filter.
func ParseDomains(s string) []string {
	return strings.Fields(s)
}

// IsZero reports whether no criterion is configured.
func (c Criteria) IsZero() bool {
	return len(c.Domains) == 0 && c.StatusPrefix == "" && c.Method == "" &&
		c.Keyword == "" && (c.Category == "" || c.Category == classify.All) &&
		c.PathGlob == "" && c.Expr == "" && c.JSONPath == ""
}

// Validate checks the fields that can be checked without compiling
// expressions.
func (c Criteria) Validate() error {
	if s := c.StatusPrefix; s != "" && (len(s) != 1 || s[0] < '0' || s[0] > '9') {
		return &CriteriaError{Field: "status", Message: "must be a single digit, e.g. 4 for 4xx"}
	}
	if c.Category != "" {
		if _, ok := classify.ParseCategory(string(c.Category)); !ok {
			return &CriteriaError{Field: "category", Message: "unknown resource category " + string(c.Category)}
		}
	}
	if c.PathGlob != "" && !doublestar.ValidatePattern(c.PathGlob) {
		return &CriteriaError{Field: "path", Message: "malformed glob " + c.PathGlob}
	}
	return nil
}

// Describe renders the configured criteria for a status line, e.g.
// "type: Fetch/XHR + 4xx + GET + domain: a.com, b.com". It returns "" when
// nothing is configured.
func (c Criteria) Describe() string {
	var parts []string
	if cat, ok := classify.ParseCategory(string(c.Category)); ok && cat != classify.All {
		parts = append(parts, "type: "+cat.Label())
	}
	if c.StatusPrefix != "" {
		parts = append(parts, c.StatusPrefix+"xx")
	}
	if c.Method != "" {
		parts = append(parts, strings.ToUpper(strings.TrimSpace(c.Method)))
	}
	if len(c.Domains) > 0 {
		parts = append(parts, "domain: "+strings.Join(c.Domains, ", "))
	}
	if kw := strings.TrimSpace(c.Keyword); kw != "" {
		parts = append(parts, "keyword: "+kw)
	}
	if c.PathGlob != "" {
		parts = append(parts, "path: "+c.PathGlob)
	}
	if c.Expr != "" {
		parts = append(parts, "expr: "+c.Expr)
	}
	if c.JSONPath != "" {
		parts = append(parts, "jsonpath: "+c.JSONPath)
	}
	return strings.Join(parts, " + ")
}
