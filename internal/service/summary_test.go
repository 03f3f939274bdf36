package service_test

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/footprint/internal/metrics"
	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/UnknownOlympus/footprint/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	var timing metrics.Timing
	timing.Observe(300 * time.Millisecond)
	timing.Observe(100 * time.Millisecond)
	timing.Observe(200 * time.Millisecond)
	timing.SetTotal(350 * time.Millisecond)

	results := []models.ResolvedBuilding{
		{StreetAddress: "123 Main St"},
		{StreetAddress: "456 Oak Ave"},
		{StreetAddress: "456 Oak Ave"},
	}

	summary := service.Summarize(results, &timing, 2048)

	assert.Equal(t, service.Summary{
		Lookups:         3,
		UniqueAddresses: 2,
		Total:           350 * time.Millisecond,
		Average:         200 * time.Millisecond,
		PeakMemoryKiB:   2048,
	}, summary)

	t.Run("empty batch has no average", func(t *testing.T) {
		var empty metrics.Timing
		assert.Zero(t, service.Summarize(nil, &empty, 0).Average)
	})

	t.Run("log", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		logger := slog.New(slog.NewTextHandler(buf, nil))

		summary.Log(t.Context(), logger)

		assert.Contains(t, buf.String(), "human=\"2.0 MiB\"")
		assert.Contains(t, buf.String(), "total_coordinates=3")
		assert.Contains(t, buf.String(), "unique_addresses=2")
		assert.Contains(t, buf.String(), "seconds=0.35")
	})
}
