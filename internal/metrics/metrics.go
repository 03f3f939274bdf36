package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	LookupsProcessed *prometheus.CounterVec
	APIErrors        prometheus.Counter
	LookupSeconds    *prometheus.HistogramVec
	InflightLookups  prometheus.Gauge
	BatchSeconds     prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LookupsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "geocoding_lookups_total",
			Help: "Total number of reverse geocoding lookups by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "geocoding_provider_errors_total",
			Help: "Total number of errors received from the geocoding provider.",
		}),
		LookupSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geocoding_lookup_duration_seconds",
			Help:    "Duration of individual reverse geocoding lookups.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		InflightLookups: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocoding_inflight_lookups",
			Help: "Current number of reverse geocoding lookups awaiting a response.",
		}),
		BatchSeconds: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "geocoding_batch_duration_seconds",
			Help: "Wall clock time of the last fan-out/gather batch.",
		}),
	}
}

// WriteTextfile dumps every metric gathered by g to path in the Prometheus
// text format, suitable for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
