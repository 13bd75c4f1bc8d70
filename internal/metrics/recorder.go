package metrics

import (
	"sync"
	"time"
)

// Recorder keeps metrics in memory. Safe for concurrent use.
type Recorder struct {
	mu      sync.RWMutex
	metrics []Metric
	limit   int
}

// NewRecorder creates a recorder that keeps at most limit metrics,
// discarding the oldest first. limit <= 0 keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Record stores m, stamping CreatedAt when unset.
func (r *Recorder) Record(m Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = append(r.metrics, m)
	if r.limit > 0 && len(r.metrics) > r.limit {
		r.metrics = append([]Metric(nil), r.metrics[len(r.metrics)-r.limit:]...)
	}
}

// Time runs fn and records its duration and outcome.
func (r *Recorder) Time(m Metric, fn func() error) error {
	start := time.Now()
	err := fn()
	m.Seconds = time.Since(start).Seconds()
	m.Success = err == nil
	if err != nil && m.ErrorType == "" {
		m.ErrorType = "error"
	}
	r.Record(m)
	return err
}

// List returns metrics matching f in recording order.
func (r *Recorder) List(f Filter) []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metric, 0, len(r.metrics))
	for _, m := range r.metrics {
		if f.match(m) {
			out = append(out, m)
		}
	}
	return out
}
