package har

import "strings"

// Version is the HAR version written to exported documents.
const Version = "1.2"

// Creator identifies this tool in exported documents.
var Creator = CreatorInfo{Name: "harview", Version: "2.0"}

// Document represents an HTTP Archive file.
type Document struct {
	Log Log `json:"log"`
}

// Log contains the HAR log data.
type Log struct {
	Version string      `json:"version"`
	Creator CreatorInfo `json:"creator"`
	Entries []Entry     `json:"entries"`
}

// CreatorInfo contains tool information.
type CreatorInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Entry represents a single request/response pair.
//
// StartedDateTime, Time and Timings are only populated on raw captures; the
// filtered documents produced by this module carry request and response only.
type Entry struct {
	StartedDateTime string    `json:"startedDateTime,omitempty"`
	Time            float64   `json:"time,omitempty"`
	Request         *Request  `json:"request,omitempty"`
	Response        *Response `json:"response,omitempty"`
	Timings         *Timings  `json:"timings,omitempty"`
}

// Request represents an HTTP request.
type Request struct {
	Method      string    `json:"method"`
	URL         string    `json:"url"`
	HTTPVersion string    `json:"httpVersion,omitempty"`
	Headers     []Header  `json:"headers"`
	QueryString []Query   `json:"queryString,omitempty"`
	PostData    *PostData `json:"postData,omitempty"`
}

// Response represents an HTTP response.
type Response struct {
	Status      int      `json:"status"`
	StatusText  string   `json:"statusText"`
	HTTPVersion string   `json:"httpVersion,omitempty"`
	Headers     []Header `json:"headers"`
	RedirectURL string   `json:"redirectURL,omitempty"`
	Content     *Content `json:"content,omitempty"`
}

// Header represents an HTTP header. Names compare case-insensitively.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Query represents a query parameter.
type Query struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PostData represents a request body.
type PostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
}

// Content represents a response body.
type Content struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text,omitempty"`
}

// Timings holds the per-phase durations of an exchange in milliseconds.
// HAR uses -1 for phases that do not apply.
type Timings struct {
	Blocked float64 `json:"blocked,omitempty"`
	DNS     float64 `json:"dns,omitempty"`
	Connect float64 `json:"connect,omitempty"`
	SSL     float64 `json:"ssl,omitempty"`
	Send    float64 `json:"send,omitempty"`
	Wait    float64 `json:"wait,omitempty"`
	Receive float64 `json:"receive,omitempty"`
}

// HeaderValue returns the value of the first header whose name equals name,
// ignoring case, or "" when there is none.
func HeaderValue(headers []Header, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// ContentType returns the request's Content-Type header value.
func (r *Request) ContentType() string {
	if r == nil {
		return ""
	}
	return HeaderValue(r.Headers, "Content-Type")
}

// BodyText returns the request body text, or "" when there is no body.
func (r *Request) BodyText() string {
	if r == nil || r.PostData == nil {
		return ""
	}
	return r.PostData.Text
}

// ContentType returns the response's Content-Type header value.
func (r *Response) ContentType() string {
	if r == nil {
		return ""
	}
	return HeaderValue(r.Headers, "Content-Type")
}

// BodyText returns the response body text, or "" when there is no body.
func (r *Response) BodyText() string {
	if r == nil || r.Content == nil {
		return ""
	}
	return r.Content.Text
}

// MimeType returns the declared response body MIME type.
func (r *Response) MimeType() string {
	if r == nil || r.Content == nil {
		return ""
	}
	return r.Content.MimeType
}
