package types

// ExecutionMetric is a single historical record of one function invocation
type ExecutionMetric struct {
	Runtime   string  `json:"runtime"`
	Duration  float64 `json:"duration"`
	Success   bool    `json:"success"`
	Timestamp float64 `json:"timestamp"`
}

// MetricsQuery narrows a metrics listing. Zero values mean "no filter".
type MetricsQuery struct {
	Runtime string
	Success *bool
	From    float64
	To      float64
}

// IsZero reports whether the query has no filters set
func (q MetricsQuery) IsZero() bool {
	return q.Runtime == "" && q.Success == nil && q.From == 0 && q.To == 0
}
