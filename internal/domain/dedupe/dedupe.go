// Package dedupe defines the interface for idempotency tracking of job
// submissions.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen submission IDs to ensure at-most-once processing.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// This should only be used when a submission was marked as seen but
	// failed to be processed (e.g. queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

const defaultMaxSize = 100_000

// inMemoryDeduper implements Deduper with a map plus a FIFO ring of the
// insertion order. When the cache is full the oldest live entry is evicted.
// maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order; may contain ids already unrecorded
	head    int      // index of the oldest candidate in order
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	d.size.Store(int64(len(d.seen)))
	return false
}

// Unrecord removes an ID from the seen list, allowing it to be retried.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	// The stale slot in order is skipped lazily during eviction.
	delete(d.seen, id)
	d.size.Store(int64(len(d.seen)))
}

// evictOldest drops the oldest live entry. Callers must hold d.mu.
func (d *inMemoryDeduper) evictOldest() {
	for d.head < len(d.order) {
		id := d.order[d.head]
		d.head++
		if _, ok := d.seen[id]; ok {
			delete(d.seen, id)
			break
		}
	}
	// Compact once the consumed prefix dominates the slice.
	if d.head > 0 && d.head*2 >= len(d.order) {
		d.order = append([]string(nil), d.order[d.head:]...)
		d.head = 0
	}
}

// Size returns the current number of recorded IDs.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
