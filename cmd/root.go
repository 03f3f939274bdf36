package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/UnknownOlympus/footprint/internal/config"
	"github.com/UnknownOlympus/footprint/internal/export"
	"github.com/UnknownOlympus/footprint/internal/footprints"
	"github.com/UnknownOlympus/footprint/internal/geocoding"
	"github.com/UnknownOlympus/footprint/internal/metrics"
	"github.com/UnknownOlympus/footprint/internal/models"
	"github.com/UnknownOlympus/footprint/internal/repository"
	"github.com/UnknownOlympus/footprint/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// newRootCmd builds the reverse-geocode command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse-geocode filename",
		Short: "Reverse geocode building footprints to street addresses",
		Long: "Reads a GeoJSON FeatureCollection of labelled building points, resolves every " +
			"point to a street address with a Nominatim service and writes the results to a CSV file.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg.Input = args[0]

			logger, closeLog, err := setupLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeLog()

			return run(cmd.Context(), cfg, logger, cmd.ErrOrStderr())
		},
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

// run performs one conversion: load the footprints, resolve them all, write
// the CSV, optionally persist them, then log the run summary.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stderr io.Writer) error {
	buildings, err := footprints.Load(cfg.Input)
	if err != nil {
		if errors.Is(err, footprints.ErrInputNotFound) {
			logger.Log(ctx, LevelCritical, "Input file not found", "path", cfg.Input)
		}
		return err
	}
	logger.InfoContext(ctx, "Loaded building footprints", "path", cfg.Input, "buildings", len(buildings))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:        geocoding.ProviderType(cfg.Provider),
		BaseURL:     cfg.Endpoint,
		UserAgent:   cfg.UserAgent,
		APIKey:      cfg.APIKey,
		Connections: cfg.Connections,
		Timeout:     cfg.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", provider.Name())

	geoService := service.NewGeocodingService(logger, provider, appMetrics, cfg.Workers)

	spin := newSpinner(stderr, cfg.Verbose)
	geoService.OnProgress(newProgress(spin, len(buildings)).Update)

	timing := &metrics.Timing{}
	spin.Start()
	results, err := geoService.ResolveAll(ctx, buildings, timing)
	spin.Stop()
	if err != nil {
		return fmt.Errorf("reverse geocoding failed: %w", err)
	}

	if err = export.Create(cfg.Output, results); err != nil {
		if errors.Is(err, export.ErrCreateOutput) {
			logger.Log(ctx, LevelCritical, "Error creating output file", "path", cfg.Output, "error", err)
		}
		return err
	}
	logger.InfoContext(ctx, "Wrote output file", "path", cfg.Output, "rows", len(results))

	if cfg.DatabaseURL != "" {
		if err = store(ctx, cfg, logger, results); err != nil {
			return err
		}
	}

	peakKiB, err := metrics.PeakMemoryKiB()
	if err != nil {
		logger.WarnContext(ctx, "Failed to read peak memory usage", "error", err)
	}
	service.Summarize(results, timing, peakKiB).Log(ctx, logger)

	if cfg.MetricsFile != "" {
		if err = metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Wrote metrics textfile", "path", cfg.MetricsFile)
	}

	return nil
}

// store persists the resolved buildings in Postgres.
func store(ctx context.Context, cfg *config.Config, logger *slog.Logger, results []models.ResolvedBuilding) error {
	pool, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to DB: %w", err)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool, logger)
	if err = repo.SaveBuildings(ctx, cfg.Input, results); err != nil {
		return fmt.Errorf("failed to store resolved buildings: %w", err)
	}

	return nil
}
