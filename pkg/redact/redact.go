// Package redact slims captured exchanges down to a fixed header allowlist.
//
// Slimming is lossy and irreversible: every header outside the allowlist is
// dropped, as are HTTP versions and any raw timing data. Method, URL, query
// parameters, status, status text, redirect target and body MIME type/text
// are kept verbatim.
package redact

import (
	"strings"

	"github.com/cowt/har-viewer/pkg/har"
)

// keepHeaders is the allowlist of lowercased header names kept by slimming.
var keepHeaders = map[string]bool{
	"content-type":             true,
	"accept":                   true,
	"origin":                   true,
	"referer":                  true,
	"authorization":            true,
	"cookie":                   true,
	"set-cookie":               true,
	"x-csrf-token":             true,
	"x-tt-passport-csrf-token": true,
	"sign":                     true,
	"sign-ver":                 true,
	"appid":                    true,
	"appvr":                    true,
	"device-time":              true,
	"lan":                      true,
	"loc":                      true,
	"pf":                       true,
}

// Allowed reports whether a header named name survives slimming.
func Allowed(name string) bool {
	return keepHeaders[strings.ToLower(name)]
}

// SlimHeaders returns the headers in the allowlist, preserving order.
// The result is never nil.
func SlimHeaders(headers []har.Header) []har.Header {
	out := make([]har.Header, 0, len(headers))
	for _, h := range headers {
		if Allowed(h.Name) {
			out = append(out, h)
		}
	}
	return out
}

// SlimRequest returns a sanitized copy of req. A nil request yields nil.
func SlimRequest(req *har.Request) *har.Request {
	if req == nil {
		return nil
	}
	out := &har.Request{
		Method:  req.Method,
		URL:     req.URL,
		Headers: SlimHeaders(req.Headers),
	}
	if req.QueryString != nil {
		out.QueryString = append([]har.Query(nil), req.QueryString...)
	}
	if req.PostData != nil {
		out.PostData = &har.PostData{MimeType: req.PostData.MimeType, Text: req.PostData.Text}
	}
	return out
}

// SlimResponse returns a sanitized copy of resp. A nil response yields nil.
func SlimResponse(resp *har.Response) *har.Response {
	if resp == nil {
		return nil
	}
	out := &har.Response{
		Status:      resp.Status,
		StatusText:  resp.StatusText,
		Headers:     SlimHeaders(resp.Headers),
		RedirectURL: resp.RedirectURL,
	}
	if resp.Content != nil {
		out.Content = &har.Content{MimeType: resp.Content.MimeType, Text: resp.Content.Text}
	}
	return out
}

// SlimEntry returns an entry holding only the slimmed request and response.
func SlimEntry(e har.Entry) har.Entry {
	return har.Entry{
		Request:  SlimRequest(e.Request),
		Response: SlimResponse(e.Response),
	}
}
