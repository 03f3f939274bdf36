package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/footprint/internal/metrics"
	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/dustin/go-humanize"
)

// Summary describes a finished batch.
type Summary struct {
	Lookups         int           // Number of resolved buildings
	UniqueAddresses int           // Number of distinct street addresses
	Total           time.Duration // Wall clock time of the whole batch
	Average         time.Duration // Mean duration of a single lookup
	PeakMemoryKiB   uint64        // Peak resident set size, zero if unknown
}

// Summarize builds the batch summary from the resolved buildings and timing.
func Summarize(results []models.ResolvedBuilding, timing *metrics.Timing, peakMemoryKiB uint64) Summary {
	summary := Summary{
		Lookups:         len(results),
		UniqueAddresses: models.UniqueAddresses(results),
		Total:           timing.Total(),
		PeakMemoryKiB:   peakMemoryKiB,
	}
	if len(results) > 0 {
		summary.Average = timing.Cumulative() / time.Duration(len(results))
	}

	return summary
}

// Log writes the summary at info level.
func (s Summary) Log(ctx context.Context, log *slog.Logger) {
	log.InfoContext(ctx, "Peak memory usage",
		"kib", s.PeakMemoryKiB,
		"human", humanize.IBytes(s.PeakMemoryKiB*1024),
	)
	log.InfoContext(ctx, "Time to perform all lookups (wall clock time)", "seconds", s.Total.Seconds())
	log.InfoContext(ctx, "Average lookup time (wall clock time)", "seconds", s.Average.Seconds())
	log.InfoContext(ctx, "Lookup results",
		"total_coordinates", s.Lookups,
		"unique_addresses", s.UniqueAddresses,
	)
}
