package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cowt/har-viewer/pkg/har"
)

func entry(method, url string, status int, contentType string) har.Entry {
	resp := &har.Response{Status: status, Headers: []har.Header{}}
	if contentType != "" {
		resp.Headers = append(resp.Headers, har.Header{Name: "Content-Type", Value: contentType})
	}
	return har.Entry{
		Request:  &har.Request{Method: method, URL: url},
		Response: resp,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		e    har.Entry
		want Category
	}{
		{"websocket url", entry("GET", "wss://example.com/websocket", 101, ""), Socket},
		{"websocket content type", entry("GET", "https://example.com/live", 101, "application/websocket"), Socket},
		{"wasm content type", entry("GET", "https://example.com/app", 200, "application/wasm"), Wasm},
		{"wasm url", entry("GET", "https://example.com/app.wasm", 200, "application/octet-stream"), Wasm},
		{"manifest content type", entry("GET", "https://example.com/site", 200, "application/manifest+json"), Manifest},
		{"manifest.json", entry("GET", "https://example.com/manifest.json", 200, "application/json"), Manifest},
		{"json url with manifest wins over xhr", entry("POST", "https://example.com/api/app-manifest-v2.json", 200, "application/json"), Manifest},
		{"image content type", entry("GET", "https://example.com/pixel", 200, "image/gif"), Img},
		{"image extension with query", entry("GET", "https://cdn.example.com/logo.PNG?v=3", 200, ""), Img},
		{"svg served as xml is image", entry("GET", "https://example.com/icon.svg", 200, "text/xml"), Img},
		{"font content type", entry("GET", "https://example.com/f", 200, "font/woff2"), Font},
		{"legacy font content type", entry("GET", "https://example.com/f", 200, "application/font-woff"), Font},
		{"font extension", entry("GET", "https://example.com/f.woff2", 200, "application/octet-stream"), Font},
		{"css content type", entry("GET", "https://example.com/s", 200, "text/css; charset=utf-8"), CSS},
		{"css extension", entry("GET", "https://example.com/main.css", 200, ""), CSS},
		{"javascript content type", entry("GET", "https://example.com/bundle", 200, "application/javascript"), JS},
		{"ecmascript content type", entry("GET", "https://example.com/bundle", 200, "text/ecmascript"), JS},
		{"module extension with query", entry("GET", "https://example.com/app.mjs?h=1", 200, ""), JS},
		{"video content type", entry("GET", "https://example.com/v", 206, "video/mp4"), Media},
		{"audio extension", entry("GET", "https://example.com/a.mp3", 200, ""), Media},
		{"html content type", entry("GET", "https://example.com/", 200, "text/html; charset=utf-8"), Doc},
		{"html extension", entry("GET", "https://example.com/index.htm", 304, ""), Doc},
		{"extensionless route", entry("GET", "https://example.com/dashboard/settings", 200, ""), Doc},
		{"bare host route", entry("GET", "https://example.com", 200, ""), Doc},
		{"extensionless route with query is not doc", entry("GET", "https://example.com/dashboard?tab=1", 200, ""), Other},
		{"extensionless route with non-200 is not doc", entry("GET", "https://example.com/dashboard", 302, ""), Other},
		{"dotted last segment is not doc", entry("GET", "https://example.com/files/report.pdf", 200, ""), Other},
		{"json content type", entry("GET", "https://example.com/users", 200, "application/json"), XHR},
		{"plain text content type", entry("GET", "https://example.com/ping", 200, "text/plain"), XHR},
		{"api path", entry("GET", "https://example.com/api/users", 204, ""), XHR},
		{"ajax path", entry("GET", "https://example.com/ajax/poll", 500, ""), XHR},
		{"non-GET with json variant", entry("PATCH", "https://example.com/users/1", 200, "application/vnd.api+json"), XHR},
		{"GET with json variant is other", entry("GET", "https://example.com/users/1", 200, "application/vnd.api+json"), Other},
		{"fallback", entry("GET", "https://example.com/blob.bin", 200, "application/octet-stream"), Other},
		{"no response", har.Entry{Request: &har.Request{Method: "GET", URL: "https://example.com/x.css"}}, CSS},
		{"empty entry", har.Entry{}, Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.e)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
			// Deterministic.
			assert.Equal(t, got, Classify(tt.e))
		})
	}
}

func TestClassify_UsesFirstContentTypeHeader(t *testing.T) {
	e := har.Entry{
		Request: &har.Request{Method: "GET", URL: "https://example.com/x"},
		Response: &har.Response{Status: 200, Headers: []har.Header{
			{Name: "content-type", Value: "text/css"},
			{Name: "Content-Type", Value: "image/png"},
		}},
	}
	assert.Equal(t, CSS, Classify(e))
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("")
	assert.True(t, ok)
	assert.Equal(t, All, c)

	c, ok = ParseCategory(" XHR ")
	assert.True(t, ok)
	assert.Equal(t, XHR, c)

	_, ok = ParseCategory("stylesheet")
	assert.False(t, ok)

	assert.False(t, All.IsValid())
}

func TestCategories_RuleOrder(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 11)
	assert.Equal(t, Socket, cats[0])
	assert.Equal(t, Other, cats[len(cats)-1])

	cats[0] = Other
	assert.Equal(t, Socket, Categories()[0], "Categories must return a copy")

	assert.Equal(t, "Fetch/XHR", XHR.Label())
	assert.Equal(t, "custom", Category("custom").Label())
}
