// Package metrics turns a raw execution log into summary statistics.
//
// Everything in this package is a pure function of its input: no I/O, no
// shared state, and the input slice is never modified.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/ignitionstack/fnctl/pkg/types"
)

// RuntimeCount is the number of executions observed for one runtime
type RuntimeCount struct {
	Runtime string
	Count   int
}

// Summary holds the aggregate view of an execution log
type Summary struct {
	Total           int
	RuntimeCounts   []RuntimeCount // first-seen order
	SuccessCount    int
	FailureCount    int
	AverageDuration float64 // seconds, rounded to two decimals
	SuccessRate     float64 // percent
}

// Aggregate computes the summary of the given records. An empty input yields
// a zero summary with AverageDuration 0.
func Aggregate(records []types.ExecutionMetric) Summary {
	summary := Summary{Total: len(records)}
	if len(records) == 0 {
		return summary
	}

	index := make(map[string]int)
	var totalDuration float64

	for _, record := range records {
		pos, seen := index[record.Runtime]
		if !seen {
			pos = len(summary.RuntimeCounts)
			index[record.Runtime] = pos
			summary.RuntimeCounts = append(summary.RuntimeCounts, RuntimeCount{Runtime: record.Runtime})
		}
		summary.RuntimeCounts[pos].Count++

		if record.Success {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
		}

		totalDuration += record.Duration
	}

	summary.AverageDuration = Round2(totalDuration / float64(len(records)))
	summary.SuccessRate = float64(summary.SuccessCount) / float64(len(records)) * 100.0

	return summary
}

// RuntimeMap returns the runtime counts keyed by runtime name
func (s Summary) RuntimeMap() map[string]int {
	out := make(map[string]int, len(s.RuntimeCounts))
	for _, rc := range s.RuntimeCounts {
		out[rc.Runtime] = rc.Count
	}
	return out
}

// Round2 rounds half away from zero to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatAverage renders an average duration with two decimals
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.2f", avg)
}

// FormatTimestamp converts epoch seconds into local calendar time for display
func FormatTimestamp(ts float64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).In(loc).Format("2006-01-02 15:04:05")
}

// Filter returns the records matching the query, preserving arrival order
func Filter(records []types.ExecutionMetric, q types.MetricsQuery) []types.ExecutionMetric {
	out := make([]types.ExecutionMetric, 0, len(records))
	for _, record := range records {
		if q.Runtime != "" && record.Runtime != q.Runtime {
			continue
		}
		if q.Success != nil && record.Success != *q.Success {
			continue
		}
		if q.From != 0 && record.Timestamp < q.From {
			continue
		}
		if q.To != 0 && record.Timestamp > q.To {
			continue
		}
		out = append(out, record)
	}
	return out
}
