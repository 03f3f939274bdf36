package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/footprint/internal/geocoding"
	"github.com/UnknownOlympus/footprint/internal/metrics"
	"github.com/UnknownOlympus/footprint/internal/models"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after every successful lookup with the number of
// completed lookups and the batch size. It may be called concurrently.
type ProgressFunc func(done, total int)

// GeocodingService resolves batches of building coordinates to street addresses,
// including logging, provider integration, metrics tracking and concurrency control.
type GeocodingService struct {
	log        *slog.Logger       // Logger for logging service activities
	provider   geocoding.Provider // Geocoding provider for external reverse geocoding services
	metrics    *metrics.Metrics   // Metrics for tracking service performance
	numWorkers int                // Maximum concurrent lookups, zero or less means unbounded
	progress   ProgressFunc       // Optional progress callback
}

// NewGeocodingService creates a new instance of GeocodingService.
// It takes a logger, a geocoding provider, metrics for monitoring and the
// maximum number of lookups allowed in flight (zero for no limit).
func NewGeocodingService(
	log *slog.Logger,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
	numWorkers int,
) *GeocodingService {
	return &GeocodingService{
		log:        log,
		provider:   provider,
		metrics:    metrics,
		numWorkers: numWorkers,
	}
}

// OnProgress registers a callback invoked after every successful lookup.
func (gs *GeocodingService) OnProgress(fn ProgressFunc) {
	gs.progress = fn
}

// ResolveAll issues one reverse geocoding lookup per building, all at once
// unless a worker limit is configured, and returns the results in input order.
// The first failing lookup cancels the rest and fails the whole batch.
// Per-lookup durations are accumulated in timing; the batch wall clock time
// is recorded with timing.SetTotal.
func (gs *GeocodingService) ResolveAll(
	ctx context.Context,
	buildings []models.Building,
	timing *metrics.Timing,
) ([]models.ResolvedBuilding, error) {
	started := time.Now()
	defer func() {
		elapsed := time.Since(started)
		timing.SetTotal(elapsed)
		gs.metrics.BatchSeconds.Set(elapsed.Seconds())
	}()

	if releaser, ok := gs.provider.(interface{ CloseIdleConnections() }); ok {
		defer releaser.CloseIdleConnections()
	}

	gs.log.InfoContext(ctx, "Starting reverse geocoding batch",
		"buildings", len(buildings),
		"provider", gs.provider.Name(),
		"num_workers", gs.numWorkers,
	)

	results := make([]models.ResolvedBuilding, len(buildings))
	var done atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	if gs.numWorkers > 0 {
		group.SetLimit(gs.numWorkers)
	}

	for idx, building := range buildings {
		group.Go(func() error {
			resolved, err := gs.lookup(groupCtx, building, timing)
			if err != nil {
				return fmt.Errorf("building %d (%q): %w", idx, building.Label, err)
			}
			results[idx] = resolved

			if gs.progress != nil {
				gs.progress(int(done.Add(1)), len(buildings))
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		gs.log.ErrorContext(ctx, "Reverse geocoding batch failed", "error", err)
		return nil, err
	}

	gs.log.InfoContext(ctx, "Reverse geocoding batch finished", "buildings", len(results))

	return results, nil
}

// lookup resolves a single building and records its duration in timing and
// the provider histogram.
func (gs *GeocodingService) lookup(
	ctx context.Context,
	building models.Building,
	timing *metrics.Timing,
) (models.ResolvedBuilding, error) {
	gs.metrics.InflightLookups.Inc()
	defer gs.metrics.InflightLookups.Dec()

	startTime := time.Now()
	address, err := gs.provider.Reverse(ctx, building.Coordinates)
	duration := time.Since(startTime)

	timing.Observe(duration)
	gs.metrics.LookupSeconds.WithLabelValues(gs.provider.Name()).Observe(duration.Seconds())

	if err != nil {
		gs.metrics.LookupsProcessed.WithLabelValues("failure").Inc()
		gs.metrics.APIErrors.Inc()
		return models.ResolvedBuilding{}, err
	}

	gs.metrics.LookupsProcessed.WithLabelValues("success").Inc()
	gs.log.DebugContext(ctx, "Resolved building", "label", building.Label, "address", address)

	return building.Resolve(address), nil
}
