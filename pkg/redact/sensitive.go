package redact

import (
	"net/url"
	"sort"
	"strings"

	"github.com/cowt/har-viewer/pkg/har"
)

// Warning describes sensitive data found in an exchange.
type Warning struct {
	Type     string `json:"type"`     // "header", "cookie", "query"
	Field    string `json:"field"`    // The specific field name
	Location string `json:"location"` // "request" or "response"
	Message  string `json:"message"`  // Human-readable description
}

// Sensitive header patterns to check
var sensitiveHeaders = map[string]bool{
	"authorization":            true,
	"proxy-authorization":      true,
	"x-api-key":                true,
	"x-auth-token":             true,
	"x-access-token":           true,
	"x-csrf-token":             true,
	"x-xsrf-token":             true,
	"x-tt-passport-csrf-token": true,
	"sign":                     true,
}

// Sensitive cookie name patterns
var sensitiveCookiePatterns = []string{
	"session",
	"token",
	"auth",
	"jwt",
	"sid",
	"csrf",
	"xsrf",
}

// Sensitive query parameter names
var sensitiveQueryParams = map[string]bool{
	"api_key":      true,
	"apikey":       true,
	"api-key":      true,
	"access_token": true,
	"token":        true,
	"auth":         true,
	"key":          true,
	"secret":       true,
	"password":     true,
	"passwd":       true,
	"pwd":          true,
}

// Scan reports sensitive values carried by e. Slimming keeps credentials
// such as Authorization and Cookie, so exported captures should be checked
// before they are shared.
func Scan(e har.Entry) []Warning {
	warnings := make([]Warning, 0)
	if e.Request != nil {
		warnings = append(warnings, scanHeaders(e.Request.Headers, "request", "cookie")...)
		warnings = append(warnings, scanQuery(e.Request)...)
	}
	if e.Response != nil {
		warnings = append(warnings, scanHeaders(e.Response.Headers, "response", "set-cookie")...)
	}
	return warnings
}

func scanHeaders(headers []har.Header, location, cookieHeader string) []Warning {
	var warnings []Warning
	for _, h := range headers {
		name := strings.ToLower(h.Name)
		if sensitiveHeaders[name] {
			warnings = append(warnings, Warning{
				Type:     "header",
				Field:    h.Name,
				Location: location,
				Message:  location + " contains potentially sensitive header: " + h.Name,
			})
			continue
		}
		if name != cookieHeader {
			continue
		}
		value := strings.ToLower(h.Value)
		for _, pattern := range sensitiveCookiePatterns {
			if strings.Contains(value, pattern) {
				warnings = append(warnings, Warning{
					Type:     "cookie",
					Field:    pattern,
					Location: location,
					Message:  location + " carries cookie with sensitive pattern: " + pattern,
				})
				break
			}
		}
	}
	return warnings
}

func scanQuery(req *har.Request) []Warning {
	names := make([]string, 0, len(req.QueryString))
	for _, q := range req.QueryString {
		names = append(names, q.Name)
	}
	if len(names) == 0 {
		if parsed, err := url.Parse(req.URL); err == nil {
			for name := range parsed.Query() {
				names = append(names, name)
			}
			sort.Strings(names)
		}
	}

	var warnings []Warning
	seen := make(map[string]bool)
	for _, name := range names {
		lower := strings.ToLower(name)
		if !sensitiveQueryParams[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		warnings = append(warnings, Warning{
			Type:     "query",
			Field:    name,
			Location: "request",
			Message:  "request URL contains sensitive query parameter: " + name,
		})
	}
	return warnings
}
