// Package perf computes aggregate performance statistics over reconstructed
// timings.
package perf

import (
	"fmt"
	"sort"

	"github.com/cowt/har-viewer/pkg/timing"
)

// rankSize is the length of the slowest and fastest lists.
const rankSize = 5

// Sample is one exchange to aggregate.
type Sample struct {
	// Index is the caller's position for the exchange, reported back in rankings.
	Index     int
	Method    string
	URL       string
	Status    int
	Breakdown timing.Breakdown
}

// Ranked is an exchange in the slowest or fastest list.
type Ranked struct {
	Index    int     `json:"index"`
	Method   string  `json:"method"`
	URL      string  `json:"url"`
	Status   int     `json:"status"`
	Duration float64 `json:"duration"`
}

// Bucket counts exchanges whose duration falls in [Min, Max).
// A nil Max is unbounded.
type Bucket struct {
	Range string   `json:"range"`
	Min   float64  `json:"min"`
	Max   *float64 `json:"max,omitempty"`
	Count int      `json:"count"`
}

// Contains reports whether d falls in the bucket.
func (b Bucket) Contains(d float64) bool {
	return d >= b.Min && (b.Max == nil || d < *b.Max)
}

// Stats is the aggregate view of a set of exchanges.
type Stats struct {
	TotalRequests            int            `json:"totalRequests"`
	TotalTime                float64        `json:"totalTime"`
	AverageResponseTime      float64        `json:"averageResponseTime"`
	SuccessRate              float64        `json:"successRate"`
	Slowest                  []Ranked       `json:"slowestRequests"`
	Fastest                  []Ranked       `json:"fastestRequests"`
	StatusCodeDistribution   map[string]int `json:"statusCodeDistribution"`
	MethodDistribution       map[string]int `json:"methodDistribution"`
	ResponseTimeDistribution []Bucket       `json:"responseTimeDistribution"`
}

func bound(v float64) *float64 { return &v }

// Buckets returns the fixed response-time buckets with zero counts.
func Buckets() []Bucket {
	return []Bucket{
		{Range: "0-100ms", Min: 0, Max: bound(100)},
		{Range: "100-500ms", Min: 100, Max: bound(500)},
		{Range: "500ms-1s", Min: 500, Max: bound(1000)},
		{Range: "1-3s", Min: 1000, Max: bound(3000)},
		{Range: ">3s", Min: 3000},
	}
}

// StatusClass returns the hundreds class of a status code, e.g. "4xx".
func StatusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// Aggregate computes statistics over samples. Empty input yields zeroed
// stats with empty distributions and empty buckets.
func Aggregate(samples []Sample) Stats {
	stats := Stats{
		TotalRequests:            len(samples),
		Slowest:                  []Ranked{},
		Fastest:                  []Ranked{},
		StatusCodeDistribution:   make(map[string]int),
		MethodDistribution:       make(map[string]int),
		ResponseTimeDistribution: Buckets(),
	}
	if len(samples) == 0 {
		return stats
	}

	var sum float64
	success := 0
	ranked := make([]Ranked, 0, len(samples))
	for _, s := range samples {
		d := s.Breakdown.Duration
		sum += d
		if s.Breakdown.EndOffset > stats.TotalTime {
			stats.TotalTime = s.Breakdown.EndOffset
		}

		class := StatusClass(s.Status)
		stats.StatusCodeDistribution[class]++
		if class == "2xx" {
			success++
		}
		stats.MethodDistribution[s.Method]++

		for i := range stats.ResponseTimeDistribution {
			if stats.ResponseTimeDistribution[i].Contains(d) {
				stats.ResponseTimeDistribution[i].Count++
				break
			}
		}

		ranked = append(ranked, Ranked{
			Index:    s.Index,
			Method:   s.Method,
			URL:      s.URL,
			Status:   s.Status,
			Duration: d,
		})
	}

	stats.AverageResponseTime = sum / float64(len(samples))
	stats.SuccessRate = float64(success) / float64(len(samples))

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Duration > ranked[j].Duration
	})

	n := min(rankSize, len(ranked))
	stats.Slowest = append(stats.Slowest, ranked[:n]...)
	for i := len(ranked) - 1; i >= len(ranked)-n; i-- {
		stats.Fastest = append(stats.Fastest, ranked[i])
	}

	return stats
}
