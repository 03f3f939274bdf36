package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/UnknownOlympus/footprint/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestTiming(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var timing metrics.Timing

		assert.Zero(t, timing.Count())
		assert.Zero(t, timing.Cumulative())
		assert.Zero(t, timing.Average())
		assert.Zero(t, timing.Total())
	})

	t.Run("concurrent observations are not lost", func(t *testing.T) {
		var timing metrics.Timing
		const workers, perWorker = 32, 250

		var wgr sync.WaitGroup
		for range workers {
			wgr.Add(1)
			go func() {
				defer wgr.Done()
				for range perWorker {
					timing.Observe(time.Millisecond)
				}
			}()
		}
		wgr.Wait()

		assert.Equal(t, workers*perWorker, timing.Count())
		assert.Equal(t, workers*perWorker*time.Millisecond, timing.Cumulative())
		assert.Equal(t, time.Millisecond, timing.Average())
	})

	t.Run("total is independent of observations", func(t *testing.T) {
		var timing metrics.Timing
		timing.Observe(3 * time.Second)
		timing.Observe(time.Second)
		timing.SetTotal(3 * time.Second)

		assert.Equal(t, 4*time.Second, timing.Cumulative())
		assert.Equal(t, 2*time.Second, timing.Average())
		assert.Equal(t, 3*time.Second, timing.Total())
	})
}
