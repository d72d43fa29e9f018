// Package session holds the state of one capture being worked on: the raw
// capture, the filtered and slimmed view of it, and the deletion ledger over
// that view. Everything a viewer shows is derived from a Session.
//
// A Session is safe for concurrent use.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cowt/har-viewer/pkg/classify"
	"github.com/cowt/har-viewer/pkg/curl"
	"github.com/cowt/har-viewer/pkg/filter"
	"github.com/cowt/har-viewer/pkg/flow"
	"github.com/cowt/har-viewer/pkg/har"
	"github.com/cowt/har-viewer/pkg/ledger"
	"github.com/cowt/har-viewer/pkg/logging"
	"github.com/cowt/har-viewer/pkg/perf"
	"github.com/cowt/har-viewer/pkg/redact"
	"github.com/cowt/har-viewer/pkg/timing"
)

// Status is the outcome of processing a capture.
type Status string

const (
	// StatusSuccess means at least one entry survived the filter.
	StatusSuccess Status = "success"
	// StatusNoMatch means the filter removed every entry.
	StatusNoMatch Status = "no-match"
)

// concurrencySteps is the number of intervals sampled for the waterfall's
// concurrency curve.
const concurrencySteps = 100

// markerDivisions is the number of intervals on the waterfall time axis.
const markerDivisions = 10

// Row is one displayed exchange.
type Row struct {
	// Entry is the slimmed entry.
	Entry har.Entry `json:"entry"`
	// Position is the entry's index in the raw capture.
	Position  int               `json:"position"`
	Category  classify.Category `json:"category"`
	Breakdown timing.Breakdown  `json:"timing"`
}

// View summarizes a processed capture.
type View struct {
	SessionID   string    `json:"sessionId"`
	Status      Status    `json:"status"`
	Message     string    `json:"message"`
	Count       int       `json:"count"`
	Total       int       `json:"total"`
	Filters     string    `json:"filters,omitempty"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Waterfall is the displayed rows laid out on a shared timeline.
type Waterfall struct {
	Rows        []Row           `json:"rows"`
	MaxTime     float64         `json:"maxTime"`
	Markers     []timing.Marker `json:"markers"`
	Concurrency []int           `json:"concurrency"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.ID = id
		}
	}
}

// Session is the working state for one capture.
type Session struct {
	ID string

	mu       sync.RWMutex
	log      *slog.Logger
	criteria filter.Criteria
	total    int
	ledger   *ledger.Ledger[Row]
}

// New creates an empty session. Call Process to load a capture.
func New(opts ...Option) *Session {
	s := &Session{
		ID:     uuid.New().String(),
		log:    logging.Nop(),
		ledger: ledger.New[Row](nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("session", s.ID)
	return s
}

// Process filters doc with criteria and replaces the session contents with
// the result. The previous ledger is discarded. It fails only when doc is
// not a capture or criteria cannot be compiled, leaving the session as it
// was.
func (s *Session) Process(doc *har.Document, criteria filter.Criteria) (*View, error) {
	result, err := filter.Filter(doc, criteria)
	if err != nil {
		s.log.Warn("capture rejected", "error", err)
		return nil, err
	}

	// Timings are reconstructed over the raw capture so the baseline does
	// not move with the filter.
	breakdowns := timing.Reconstruct(doc.Log.Entries)
	rows := make([]Row, result.Len())
	for i, e := range result.Entries() {
		pos := result.Positions[i]
		rows[i] = Row{
			Entry:     e,
			Position:  pos,
			Category:  classify.Classify(e),
			Breakdown: breakdowns[pos],
		}
	}

	s.mu.Lock()
	s.criteria = criteria
	s.total = result.Total
	s.ledger = ledger.New(rows)
	s.mu.Unlock()

	view := &View{
		SessionID:   s.ID,
		Count:       result.Len(),
		Total:       result.Total,
		Filters:     criteria.Describe(),
		ProcessedAt: time.Now(),
	}
	if result.Empty() {
		view.Status = StatusNoMatch
		view.Message = "No requests matched the filters"
	} else {
		view.Status = StatusSuccess
		view.Message = fmt.Sprintf("Filtered %d of %d requests", view.Count, view.Total)
	}
	if view.Filters != "" {
		view.Message += " (filters: " + view.Filters + ")"
	}

	s.log.Info("capture processed",
		"status", view.Status,
		"count", view.Count,
		"total", view.Total,
	)
	return view, nil
}

// Criteria returns the criteria of the last successful Process call.
func (s *Session) Criteria() filter.Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

// Total returns the raw entry count of the processed capture.
func (s *Session) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Rows returns the displayed rows in order.
func (s *Session) Rows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Displayed()
}

// Entries returns the displayed slimmed entries in order.
func (s *Session) Entries() []har.Entry {
	rows := s.Rows()
	out := make([]har.Entry, len(rows))
	for i, r := range rows {
		out[i] = r.Entry
	}
	return out
}

// Len returns the number of displayed rows.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Len()
}

// Deleted returns the deleted rows in deletion order.
func (s *Session) Deleted() []ledger.Deleted[Row] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Deleted()
}

// Delete removes the displayed row at displayIndex.
func (s *Session) Delete(displayIndex int) bool {
	s.mu.Lock()
	ok := s.ledger.Delete(displayIndex)
	s.mu.Unlock()
	if ok {
		s.log.Debug("entry deleted", "index", displayIndex)
	}
	return ok
}

// Restore returns the deleted row at ledgerIndex to its original relative
// position.
func (s *Session) Restore(ledgerIndex int) bool {
	s.mu.Lock()
	ok := s.ledger.Restore(ledgerIndex)
	s.mu.Unlock()
	if ok {
		s.log.Debug("entry restored", "index", ledgerIndex)
	}
	return ok
}

// RestoreAll restores every deleted row.
func (s *Session) RestoreAll() int {
	s.mu.Lock()
	n := s.ledger.RestoreAll()
	s.mu.Unlock()
	if n > 0 {
		s.log.Debug("entries restored", "count", n)
	}
	return n
}

// Clear permanently discards every deleted row.
func (s *Session) Clear() int {
	s.mu.Lock()
	n := s.ledger.Clear()
	s.mu.Unlock()
	if n > 0 {
		s.log.Debug("deleted entries cleared", "count", n)
	}
	return n
}

// Document returns the displayed entries as a capture.
func (s *Session) Document() *har.Document {
	return har.NewDocument(s.Entries())
}

// Export encodes the displayed entries as a capture.
func (s *Session) Export() ([]byte, error) {
	data, err := har.Encode(s.Document())
	if err != nil {
		return nil, fmt.Errorf("export capture: %w", err)
	}
	return data, nil
}

// Stats aggregates the timings of the displayed rows.
func (s *Session) Stats() perf.Stats {
	rows := s.Rows()
	samples := make([]perf.Sample, len(rows))
	for i, r := range rows {
		samples[i] = perf.Sample{
			Index:     i,
			Method:    r.Entry.Request.Method,
			URL:       r.Entry.Request.URL,
			Status:    r.Entry.Response.Status,
			Breakdown: r.Breakdown,
		}
	}
	return perf.Aggregate(samples)
}

// Curl returns the curl command for the displayed row at displayIndex.
func (s *Session) Curl(displayIndex int) (string, bool) {
	s.mu.RLock()
	row, ok := s.ledger.At(displayIndex)
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	return curl.FromEntry(row.Entry), true
}

// Waterfall lays out the displayed rows on the capture timeline.
func (s *Session) Waterfall() Waterfall {
	rows := s.Rows()
	breakdowns := make([]timing.Breakdown, len(rows))
	for i, r := range rows {
		breakdowns[i] = r.Breakdown
	}
	maxTime := timing.MaxEnd(breakdowns)
	return Waterfall{
		Rows:        rows,
		MaxTime:     maxTime,
		Markers:     timing.Markers(maxTime, markerDivisions),
		Concurrency: timing.Concurrency(breakdowns, concurrencySteps),
	}
}

// Flow builds the flowchart of the displayed entries.
func (s *Session) Flow() flow.Graph {
	return flow.Build(s.Entries())
}

// Warnings reports credentials left in the displayed entries, keyed by
// display index. Slimming keeps authorization and cookie headers, so an
// export is not automatically safe to share.
func (s *Session) Warnings() map[int][]redact.Warning {
	out := make(map[int][]redact.Warning)
	for i, e := range s.Entries() {
		if w := redact.Scan(e); len(w) > 0 {
			out[i] = w
		}
	}
	return out
}
