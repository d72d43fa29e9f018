// Package classify assigns each captured exchange a resource category.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cowt/har-viewer/pkg/har"
)

// Category is a resource category tag.
type Category string

// Resource categories, in rule priority order.
const (
	Socket   Category = "socket"
	Wasm     Category = "wasm"
	Manifest Category = "manifest"
	Img      Category = "img"
	Font     Category = "font"
	CSS      Category = "css"
	JS       Category = "js"
	Media    Category = "media"
	Doc      Category = "doc"
	XHR      Category = "xhr"
	Other    Category = "other"

	// All is not a classification result; it means "no category criterion".
	All Category = "all"
)

var categories = []Category{Socket, Wasm, Manifest, Img, Font, CSS, JS, Media, Doc, XHR, Other}

var labels = map[Category]string{
	Socket:   "WebSocket",
	Wasm:     "WebAssembly",
	Manifest: "Manifest",
	Img:      "Image",
	Font:     "Font",
	CSS:      "Stylesheet",
	JS:       "Script",
	Media:    "Media",
	Doc:      "Document",
	XHR:      "Fetch/XHR",
	Other:    "Other",
	All:      "All",
}

// Categories returns every category Classify can return, in rule order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// String returns the tag.
func (c Category) String() string {
	return string(c)
}

// Label returns a human-readable name for the category.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// IsValid returns true for classification results.
func (c Category) IsValid() bool {
	_, ok := labels[c]
	return ok && c != All
}

// ParseCategory parses a tag. "" and "all" return All. ok is false for
// unknown tags.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "" || c == All {
		return All, true
	}
	if c.IsValid() {
		return c, true
	}
	return "", false
}

// Extension patterns match the extension at the end of the URL or right before
// its query string.
var (
	imageExt  = regexp.MustCompile(`\.(png|jpg|jpeg|gif|svg|webp|ico|bmp|avif)(\?|$)`)
	fontExt   = regexp.MustCompile(`\.(woff2?|ttf|otf|eot)(\?|$)`)
	scriptExt = regexp.MustCompile(`\.(js|mjs|ts|jsx|tsx)(\?|$)`)
	mediaExt  = regexp.MustCompile(`\.(mp4|mp3|wav|ogg|webm|avi|mov|flv|m4v|m4a|aac)(\?|$)`)
	htmlExt   = regexp.MustCompile(`\.html?(\?|$)`)
)

// Classify returns the category of entry. Rules are evaluated in priority
// order and the first match wins, so a .json URL containing "manifest" is a
// Manifest even though it would also satisfy the XHR rule. Entries without a
// request or response are classified from whatever is present.
func Classify(entry har.Entry) Category {
	rawURL := ""
	method := ""
	if entry.Request != nil {
		rawURL = entry.Request.URL
		method = entry.Request.Method
	}
	u := strings.ToLower(rawURL)
	ct := strings.ToLower(entry.Response.ContentType())
	status := 0
	if entry.Response != nil {
		status = entry.Response.Status
	}

	switch {
	case strings.Contains(u, "websocket") || strings.Contains(ct, "websocket"):
		return Socket
	case strings.Contains(ct, "application/wasm") || strings.HasSuffix(u, ".wasm"):
		return Wasm
	case strings.Contains(ct, "application/manifest") ||
		strings.Contains(u, "manifest.json") ||
		(strings.HasSuffix(u, ".json") && strings.Contains(u, "manifest")):
		return Manifest
	case strings.HasPrefix(ct, "image/") || imageExt.MatchString(u):
		return Img
	case strings.HasPrefix(ct, "font/") || strings.HasPrefix(ct, "application/font") || fontExt.MatchString(u):
		return Font
	case strings.HasPrefix(ct, "text/css") || strings.HasSuffix(u, ".css"):
		return CSS
	case strings.Contains(ct, "javascript") || strings.Contains(ct, "ecmascript") || scriptExt.MatchString(u):
		return JS
	case strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") || mediaExt.MatchString(u):
		return Media
	case strings.HasPrefix(ct, "text/html") || htmlExt.MatchString(u) || isDocumentRoute(rawURL, status, ct):
		return Doc
	case isXHR(u, ct, method):
		return XHR
	default:
		return Other
	}
}

// isDocumentRoute guesses that an extensionless 200 response with no
// content type and no query string is a page route. There is no ground
// truth for this; it is a heuristic.
func isDocumentRoute(rawURL string, status int, ct string) bool {
	if status != 200 || ct != "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery != "" || parsed.ForceQuery {
		return false
	}
	path := parsed.Path
	last := path[strings.LastIndex(path, "/")+1:]
	return !strings.Contains(last, ".")
}

func isXHR(u, ct, method string) bool {
	if strings.Contains(ct, "application/json") ||
		strings.Contains(ct, "application/xml") ||
		strings.Contains(ct, "text/xml") ||
		strings.Contains(ct, "text/plain") {
		return true
	}
	if strings.Contains(u, "/api/") || strings.Contains(u, "/ajax/") || strings.Contains(u, "xmlhttprequest") {
		return true
	}
	if !strings.EqualFold(method, "GET") && (strings.Contains(ct, "json") || strings.Contains(ct, "xml")) {
		return true
	}
	return false
}
