// Package curl converts captured requests to curl command lines and back.
//
// The generated commands are advisory text for the user to copy; nothing in
// this package executes them.
package curl

import (
	"net/url"
	"strings"

	"github.com/cowt/har-viewer/pkg/har"
)

// skipHeaders are headers curl regenerates on its own, or that only make
// sense coming from a browser.
var skipHeaders = map[string]bool{
	"host":                      true,
	"connection":                true,
	"content-length":            true,
	"accept-encoding":           true,
	"sec-ch-ua":                 true,
	"sec-ch-ua-mobile":          true,
	"sec-ch-ua-platform":        true,
	"sec-fetch-dest":            true,
	"sec-fetch-mode":            true,
	"sec-fetch-site":            true,
	"sec-fetch-user":            true,
	"upgrade-insecure-requests": true,
}

// lineBreak separates flags so the command stays readable when pasted.
const lineBreak = " \\\n  "

// Skipped reports whether a header named name is left out of commands.
func Skipped(name string) bool {
	return skipHeaders[strings.ToLower(name)]
}

// FromEntry returns the curl command for the entry's request, or "" when the
// entry has no request.
func FromEntry(e har.Entry) string {
	return FromRequest(e.Request)
}

// FromRequest returns a curl command reproducing req.
func FromRequest(req *har.Request) string {
	if req == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("curl ")
	b.WriteString(quote(req.URL))

	method := strings.ToUpper(req.Method)
	if method != "" && method != "GET" {
		b.WriteString(lineBreak)
		b.WriteString("-X ")
		b.WriteString(method)
	}

	for _, h := range req.Headers {
		if Skipped(h.Name) {
			continue
		}
		b.WriteString(lineBreak)
		b.WriteString("-H ")
		b.WriteString(quote(h.Name + ": " + h.Value))
	}

	// Form bodies are sent as captured rather than re-encoded.
	if body := req.BodyText(); body != "" {
		b.WriteString(lineBreak)
		b.WriteString("--data-raw ")
		b.WriteString(quote(body))
	}

	if len(req.QueryString) > 0 && !strings.Contains(req.URL, "?") {
		params := make([]string, 0, len(req.QueryString))
		for _, q := range req.QueryString {
			params = append(params, q.Name+"="+escapeComponent(q.Value))
		}
		b.WriteString(lineBreak)
		b.WriteString("--get --data ")
		b.WriteString(quote(strings.Join(params, "&")))
	}

	b.WriteString(lineBreak)
	b.WriteString("--compressed")
	b.WriteString(lineBreak)
	b.WriteString("--location")
	b.WriteString(lineBreak)
	b.WriteString("--silent --show-error")

	return b.String()
}

// escapeComponent percent-encodes a query value, using %20 for spaces.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// quote wraps s in single quotes. Embedded single quotes close the string,
// emit an escaped quote and reopen it.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
