package timing

import (
	"math"
	"strconv"
)

// Marker is a tick on a waterfall time axis.
type Marker struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// MaxEnd returns the largest end offset, or 0 for no breakdowns.
func MaxEnd(breakdowns []Breakdown) float64 {
	var end float64
	for _, b := range breakdowns {
		if b.EndOffset > end {
			end = b.EndOffset
		}
	}
	return end
}

// Concurrency samples how many exchanges are in flight at steps+1 evenly
// spaced instants from 0 to the last end offset, both ends inclusive.
// An exchange is in flight at t when start <= t <= end.
func Concurrency(breakdowns []Breakdown, steps int) []int {
	if len(breakdowns) == 0 || steps <= 0 {
		return []int{}
	}
	maxTime := MaxEnd(breakdowns)
	step := maxTime / float64(steps)

	out := make([]int, steps+1)
	for i := range out {
		t := float64(i) * step
		for _, b := range breakdowns {
			if b.StartOffset <= t && b.EndOffset >= t {
				out[i]++
			}
		}
	}
	return out
}

// Markers returns divisions+1 evenly spaced axis ticks from 0 to maxTime.
func Markers(maxTime float64, divisions int) []Marker {
	if divisions <= 0 {
		return []Marker{}
	}
	step := maxTime / float64(divisions)
	out := make([]Marker, divisions+1)
	for i := range out {
		t := float64(i) * step
		out[i] = Marker{Time: t, Label: FormatDuration(t)}
	}
	return out
}

// FormatDuration renders milliseconds as "123ms" below one second and as
// seconds with one decimal ("1.5s") from there on.
func FormatDuration(ms float64) string {
	if ms < 1000 {
		return strconv.FormatFloat(math.Round(ms), 'f', 0, 64) + "ms"
	}
	return strconv.FormatFloat(ms/1000, 'f', 1, 64) + "s"
}
