package session

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/filter"
	"github.com/cowt/har-viewer/pkg/har"
	"github.com/cowt/har-viewer/pkg/logging"
)

func exchange(started, method, rawURL string, status int, contentType string, ms float64) har.Entry {
	return har.Entry{
		StartedDateTime: started,
		Time:            ms,
		Request: &har.Request{
			Method: method,
			URL:    rawURL,
			Headers: []har.Header{
				{Name: "Accept", Value: "*/*"},
				{Name: "Authorization", Value: "Bearer secret"},
				{Name: "User-Agent", Value: "test"},
			},
		},
		Response: &har.Response{
			Status:  status,
			Headers: []har.Header{{Name: "Content-Type", Value: contentType}},
			Content: &har.Content{MimeType: contentType},
		},
		Timings: &har.Timings{Wait: ms},
	}
}

func capture() *har.Document {
	return har.NewDocument([]har.Entry{
		exchange("2024-01-01T00:00:00.000Z", "GET", "https://example.com/", 200, "text/html", 100),
		exchange("2024-01-01T00:00:00.050Z", "GET", "https://example.com/api/items", 200, "application/json", 200),
		exchange("2024-01-01T00:00:00.100Z", "POST", "https://example.com/api/items", 500, "application/json", 50),
		exchange("2024-01-01T00:00:00.500Z", "GET", "https://cdn.example.net/app.css", 200, "text/css", 20),
	})
}

func positions(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Position
	}
	return out
}

func TestProcess_Success(t *testing.T) {
	s := New(WithID("test-session"))
	view, err := s.Process(capture(), filter.Criteria{Category: classify.XHR})
	require.NoError(t, err)

	assert.Equal(t, "test-session", view.SessionID)
	assert.Equal(t, StatusSuccess, view.Status)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, "type: Fetch/XHR", view.Filters)
	assert.Equal(t, "Filtered 2 of 4 requests (filters: type: Fetch/XHR)", view.Message)

	rows := s.Rows()
	assert.Equal(t, []int{1, 2}, positions(rows))
	assert.Equal(t, classify.XHR, rows[0].Category)
	// Offsets are measured from the earliest raw entry, not the first survivor.
	assert.InDelta(t, 50, rows[0].Breakdown.StartOffset, 1e-6)
	assert.InDelta(t, 150, rows[1].Breakdown.EndOffset, 1e-6)
}

func TestProcess_NoMatch(t *testing.T) {
	s := New()
	view, err := s.Process(capture(), filter.Criteria{Method: "DELETE"})
	require.NoError(t, err)

	assert.Equal(t, StatusNoMatch, view.Status)
	assert.Zero(t, view.Count)
	assert.True(t, strings.HasPrefix(view.Message, "No requests matched"))
	assert.Zero(t, s.Len())
}

func TestProcess_InvalidCaptureKeepsState(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)

	_, err = s.Process(nil, filter.Criteria{})
	assert.ErrorIs(t, err, har.ErrInvalidCapture)
	assert.Equal(t, 4, s.Len())

	_, err = s.Process(capture(), filter.Criteria{Expr: "status >"})
	assert.ErrorIs(t, err, filter.ErrInvalidCriteria)
	assert.Equal(t, 4, s.Len())
}

func TestDeleteRestore(t *testing.T) {
	s := New()
	_, err := s.Process(har.NewDocument(capture().Log.Entries[:3]), filter.Criteria{})
	require.NoError(t, err)

	require.True(t, s.Delete(1))
	assert.Equal(t, []int{0, 2}, positions(s.Rows()))
	require.Len(t, s.Deleted(), 1)
	assert.Equal(t, 1, s.Deleted()[0].Position)

	require.True(t, s.Restore(0))
	assert.Equal(t, []int{0, 1, 2}, positions(s.Rows()))
	assert.Empty(t, s.Deleted())

	s.Delete(2)
	s.Delete(0)
	assert.Equal(t, 2, s.RestoreAll())
	assert.Equal(t, []int{0, 1, 2}, positions(s.Rows()))

	s.Delete(0)
	assert.Equal(t, 1, s.Clear())
	assert.False(t, s.Restore(0))
	assert.Equal(t, []int{1, 2}, positions(s.Rows()))

	assert.False(t, s.Delete(9))
}

func TestProcess_ResetsLedger(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)
	s.Delete(0)

	_, err = s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)
	assert.Empty(t, s.Deleted())
	assert.Equal(t, 4, s.Len())
}

func TestExport(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{Method: "GET"})
	require.NoError(t, err)
	s.Delete(0)

	data, err := s.Export()
	require.NoError(t, err)

	doc, err := har.Parse(data)
	require.NoError(t, err)
	require.Len(t, doc.Log.Entries, 2)
	assert.Equal(t, "https://example.com/api/items", doc.Log.Entries[0].Request.URL)
	assert.Equal(t, []har.Header{
		{Name: "Accept", Value: "*/*"},
		{Name: "Authorization", Value: "Bearer secret"},
	}, doc.Log.Entries[0].Request.Headers)
	assert.Nil(t, doc.Log.Entries[0].Timings)
}

func TestStats(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)

	stats := s.Stats()
	assert.Equal(t, 4, stats.TotalRequests)
	assert.InDelta(t, 520, stats.TotalTime, 1e-6)
	assert.InDelta(t, 92.5, stats.AverageResponseTime, 1e-6)
	assert.InDelta(t, 0.75, stats.SuccessRate, 1e-9)
	assert.Equal(t, map[string]int{"2xx": 3, "5xx": 1}, stats.StatusCodeDistribution)
	assert.Equal(t, 1, stats.Slowest[0].Index)

	s.Delete(1)
	assert.Equal(t, 3, s.Stats().TotalRequests)
}

func TestCurl(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{Method: "POST"})
	require.NoError(t, err)

	cmd, ok := s.Curl(0)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(cmd, "curl 'https://example.com/api/items'"))
	assert.Contains(t, cmd, "-X POST")

	_, ok = s.Curl(1)
	assert.False(t, ok)
}

func TestWaterfall(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)

	w := s.Waterfall()
	assert.Len(t, w.Rows, 4)
	assert.InDelta(t, 520, w.MaxTime, 1e-6)
	assert.Len(t, w.Markers, markerDivisions+1)
	assert.Equal(t, "0ms", w.Markers[0].Label)
	require.Len(t, w.Concurrency, concurrencySteps+1)
	assert.Equal(t, 1, w.Concurrency[0])
}

func TestFlow(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{StatusPrefix: "2"})
	require.NoError(t, err)

	g := s.Flow()
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, "[DOC] GET 200", g.Nodes[0].Label)
	assert.Len(t, g.Edges, 2)
}

func TestWarnings(t *testing.T) {
	s := New()
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)

	w := s.Warnings()
	assert.Len(t, w, 4)
	assert.Equal(t, "authorization", strings.ToLower(w[0][0].Field))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: &buf})

	s := New(WithLogger(log), WithID("abc"))
	_, err := s.Process(capture(), filter.Criteria{})
	require.NoError(t, err)
	s.Delete(0)

	out := buf.String()
	assert.Contains(t, out, `"session":"abc"`)
	assert.Contains(t, out, `"msg":"capture processed"`)
	assert.Contains(t, out, `"msg":"entry deleted"`)
}

func TestNew_GeneratesID(t *testing.T) {
	a, b := New(), New()
	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}
