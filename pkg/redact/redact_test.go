package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowt/har-viewer/pkg/har"
)

func rawRequest() *har.Request {
	return &har.Request{
		Method:      "post",
		URL:         "https://api.example.com/login?next=%2F",
		HTTPVersion: "HTTP/2",
		Headers: []har.Header{
			{Name: "Host", Value: "api.example.com"},
			{Name: "Content-Type", Value: "application/json"},
			{Name: "User-Agent", Value: "Mozilla/5.0"},
			{Name: "Authorization", Value: "Bearer abc"},
			{Name: "X-CSRF-Token", Value: "t0k"},
			{Name: "Sec-Fetch-Mode", Value: "cors"},
			{Name: "Device-Time", Value: "1700000000"},
		},
		QueryString: []har.Query{{Name: "next", Value: "/"}},
		PostData:    &har.PostData{MimeType: "application/json", Text: `{"user":"a"}`},
	}
}

func rawResponse() *har.Response {
	return &har.Response{
		Status:      302,
		StatusText:  "Found",
		HTTPVersion: "HTTP/2",
		Headers: []har.Header{
			{Name: "set-cookie", Value: "session=1"},
			{Name: "server", Value: "nginx"},
			{Name: "Location", Value: "/home"},
		},
		RedirectURL: "/home",
		Content:     &har.Content{MimeType: "text/html", Text: "<p>moved</p>"},
	}
}

func TestSlimRequest(t *testing.T) {
	req := rawRequest()
	slim := SlimRequest(req)
	require.NotNil(t, slim)

	assert.Equal(t, "post", slim.Method, "method is preserved verbatim")
	assert.Equal(t, req.URL, slim.URL)
	assert.Empty(t, slim.HTTPVersion)
	assert.Equal(t, []har.Header{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer abc"},
		{Name: "X-CSRF-Token", Value: "t0k"},
		{Name: "Device-Time", Value: "1700000000"},
	}, slim.Headers)
	assert.Equal(t, req.QueryString, slim.QueryString)
	assert.Equal(t, req.PostData, slim.PostData)

	// The input is not mutated.
	assert.Len(t, req.Headers, 7)
	slim.PostData.Text = "changed"
	assert.Equal(t, `{"user":"a"}`, req.PostData.Text)
}

func TestSlimResponse(t *testing.T) {
	slim := SlimResponse(rawResponse())
	require.NotNil(t, slim)

	assert.Equal(t, 302, slim.Status)
	assert.Equal(t, "Found", slim.StatusText)
	assert.Equal(t, "/home", slim.RedirectURL)
	assert.Equal(t, []har.Header{{Name: "set-cookie", Value: "session=1"}}, slim.Headers)
	assert.Equal(t, &har.Content{MimeType: "text/html", Text: "<p>moved</p>"}, slim.Content)
}

func TestSlim_Idempotent(t *testing.T) {
	once := SlimRequest(rawRequest())
	assert.Equal(t, once, SlimRequest(once))

	onceResp := SlimResponse(rawResponse())
	assert.Equal(t, onceResp, SlimResponse(onceResp))
}

func TestSlim_NilAndEmpty(t *testing.T) {
	assert.Nil(t, SlimRequest(nil))
	assert.Nil(t, SlimResponse(nil))

	slim := SlimRequest(&har.Request{Method: "GET", URL: "https://example.com/"})
	assert.NotNil(t, slim.Headers, "headers encode as [] rather than null")
	assert.Nil(t, slim.PostData)
	assert.Nil(t, slim.QueryString)

	entry := SlimEntry(har.Entry{
		StartedDateTime: "2024-01-01T00:00:00Z",
		Time:            12,
		Request:         rawRequest(),
		Timings:         &har.Timings{Wait: 10},
	})
	assert.Empty(t, entry.StartedDateTime)
	assert.Zero(t, entry.Time)
	assert.Nil(t, entry.Timings)
	assert.Nil(t, entry.Response)
	assert.NotNil(t, entry.Request)
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("Set-Cookie"))
	assert.True(t, Allowed("SIGN-VER"))
	assert.True(t, Allowed("pf"))
	assert.False(t, Allowed("User-Agent"))
	assert.False(t, Allowed("x-csrf"))
}

func TestScan(t *testing.T) {
	e := har.Entry{Request: rawRequest(), Response: rawResponse()}
	e.Request.Headers = append(e.Request.Headers, har.Header{Name: "Cookie", Value: "theme=dark; JWT=eyJ"})
	e.Request.QueryString = []har.Query{{Name: "access_token", Value: "x"}, {Name: "page", Value: "2"}}

	warnings := Scan(e)

	var types []string
	for _, w := range warnings {
		types = append(types, w.Type+":"+w.Location+":"+w.Field)
	}
	assert.Equal(t, []string{
		"header:request:Authorization",
		"header:request:X-CSRF-Token",
		"cookie:request:jwt",
		"query:request:access_token",
		"cookie:response:session",
	}, types)
}

func TestScan_QueryFromURLAndClean(t *testing.T) {
	e := har.Entry{Request: &har.Request{Method: "GET", URL: "https://example.com/?token=1&key=2&q=x"}}
	warnings := Scan(e)
	require.Len(t, warnings, 2)
	assert.Equal(t, "key", warnings[0].Field)
	assert.Equal(t, "token", warnings[1].Field)

	assert.Empty(t, Scan(har.Entry{}))
	assert.NotNil(t, Scan(har.Entry{}))
}
