package usage

import (
	"sync"
	"time"

	"reviewhub/internal/review"
)

// Record is one usage sample with its capture time.
type Record struct {
	review.UsageMetrics
	RecordedAt time.Time `json:"recorded_at"`
}

// Ring is a bounded, thread-safe ring buffer of recent usage metrics. It is
// owned by the server process: constructed at startup, injected into the
// engine, and discarded at process exit.
type Ring struct {
	mu    sync.Mutex
	buf   []Record
	next  int
	count int
}

// DefaultCapacity matches the retention window of the admin usage view.
const DefaultCapacity = 25

// NewRing creates a ring holding at most capacity records.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Record, capacity)}
}

// Record appends a usage sample, evicting the oldest when full.
func (r *Ring) Record(u review.UsageMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = Record{UsageMetrics: u, RecordedAt: time.Now().UTC()}
	r.next = (r.next + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Recent returns the retained records, oldest first.
func (r *Ring) Recent() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, 0, r.count)
	start := r.next - r.count
	if start < 0 {
		start += len(r.buf)
	}
	for i := 0; i < r.count; i++ {
		out = append(out, r.buf[(start+i)%len(r.buf)])
	}
	return out
}

// Len returns the number of retained records.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
