package metrics

import (
	"sync"
	"time"
)

// Timing aggregates lookup durations for one batch. Observe is safe for
// concurrent use; the zero value is ready to use.
type Timing struct {
	mu         sync.Mutex
	cumulative time.Duration
	count      int
	total      time.Duration
}

// Observe adds the duration of a single lookup to the cumulative counter.
func (t *Timing) Observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cumulative += d
	t.count++
}

// SetTotal records the wall clock time of the whole batch.
func (t *Timing) SetTotal(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = d
}

// Cumulative returns the sum of all observed lookup durations.
func (t *Timing) Cumulative() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cumulative
}

// Count returns the number of observed lookups.
func (t *Timing) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}

// Total returns the batch wall clock time.
func (t *Timing) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.total
}

// Average returns the mean lookup duration, or zero when nothing was observed.
func (t *Timing) Average() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count == 0 {
		return 0
	}

	return t.cumulative / time.Duration(t.count)
}
