// Package metrics records per-step timing for pipeline runs.
package metrics

import "time"

// Metric represents one timed unit of pipeline work.
type Metric struct {
	// Attribution (for filtering/aggregation)
	RunID   string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Stage   string `json:"stage" yaml:"stage"`
	ItemKey string `json:"item_key,omitempty" yaml:"item_key,omitempty"` // e.g., "page_0001", "TXT"

	// Engine or backend that did the work
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`

	// Timing
	Seconds float64 `json:"seconds" yaml:"seconds"`

	// Status
	Success   bool   `json:"success" yaml:"success"`
	ErrorType string `json:"error_type,omitempty" yaml:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Filter selects metrics. Empty fields match everything.
type Filter struct {
	RunID string
	Stage string
}

func (f Filter) match(m Metric) bool {
	if f.RunID != "" && m.RunID != f.RunID {
		return false
	}
	if f.Stage != "" && m.Stage != f.Stage {
		return false
	}
	return true
}
