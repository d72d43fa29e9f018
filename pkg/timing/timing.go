// Package timing reconstructs waterfall timings from a capture.
//
// Every breakdown is anchored to one baseline, the earliest startedDateTime
// across all raw entries of the capture. Filtered and unfiltered views that
// share a capture therefore share a timeline.
package timing

import (
	"time"

	"github.com/cowt/har-viewer/pkg/har"
)

// Phases holds the positive phase durations of an exchange in milliseconds.
// A nil field means the capture reported zero, a negative value, or nothing.
type Phases struct {
	Blocked *float64 `json:"blocked,omitempty"`
	DNS     *float64 `json:"dns,omitempty"`
	Connect *float64 `json:"connect,omitempty"`
	SSL     *float64 `json:"ssl,omitempty"`
	Send    *float64 `json:"send,omitempty"`
	Wait    *float64 `json:"wait,omitempty"`
	Receive *float64 `json:"receive,omitempty"`
}

// Breakdown is the reconstructed timing of one exchange.
type Breakdown struct {
	StartOffset float64 `json:"startOffset"`
	EndOffset   float64 `json:"endOffset"`
	Duration    float64 `json:"duration"`
	Phases      Phases  `json:"phases"`
}

// Sum returns the total of all present phases.
func (p Phases) Sum() float64 {
	var total float64
	for _, v := range []*float64{p.Blocked, p.DNS, p.Connect, p.SSL, p.Send, p.Wait, p.Receive} {
		if v != nil {
			total += *v
		}
	}
	return total
}

// Baseline returns the earliest parseable startedDateTime among entries.
// ok is false when no entry reports one.
func Baseline(entries []har.Entry) (base time.Time, ok bool) {
	for _, e := range entries {
		t, parsed := parseStarted(e.StartedDateTime)
		if !parsed {
			continue
		}
		if !ok || t.Before(base) {
			base = t
			ok = true
		}
	}
	return base, ok
}

// Reconstruct returns one breakdown per raw entry, in input order.
//
// Entries without a timestamp start at the baseline. An entry's duration is
// the larger of its phase sum and its reported total time, since captures do
// not always agree with themselves.
func Reconstruct(entries []har.Entry) []Breakdown {
	base, hasBase := Baseline(entries)

	out := make([]Breakdown, len(entries))
	for i, e := range entries {
		var start float64
		if hasBase {
			if t, ok := parseStarted(e.StartedDateTime); ok {
				start = float64(t.Sub(base)) / float64(time.Millisecond)
			}
		}

		phases := phasesOf(e.Timings)
		duration := phases.Sum()
		if e.Time > duration {
			duration = e.Time
		}

		out[i] = Breakdown{
			StartOffset: start,
			EndOffset:   start + duration,
			Duration:    duration,
			Phases:      phases,
		}
	}
	return out
}

// Select returns the breakdowns at the given raw positions, such as the
// positions reported by the filter pipeline. Out-of-range positions are
// skipped.
func Select(breakdowns []Breakdown, positions []int) []Breakdown {
	out := make([]Breakdown, 0, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(breakdowns) {
			out = append(out, breakdowns[p])
		}
	}
	return out
}

func phasesOf(t *har.Timings) Phases {
	if t == nil {
		return Phases{}
	}
	return Phases{
		Blocked: positive(t.Blocked),
		DNS:     positive(t.DNS),
		Connect: positive(t.Connect),
		SSL:     positive(t.SSL),
		Send:    positive(t.Send),
		Wait:    positive(t.Wait),
		Receive: positive(t.Receive),
	}
}

func positive(v float64) *float64 {
	if v > 0 {
		return &v
	}
	return nil
}

// parseStarted accepts RFC 3339 timestamps with or without fractional seconds.
func parseStarted(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
