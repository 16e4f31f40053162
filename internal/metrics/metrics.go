// Package metrics provides Prometheus instrumentation for the lead
// cleansing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "leadwash"

// Metrics holds every collector the service reports.
type Metrics struct {
	RecordsLoaded   prometheus.Counter
	RecordsRemoved  *prometheus.CounterVec
	StagesRun       prometheus.Counter
	ReferenceLoads  *prometheus.CounterVec
	ActiveRuns      prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	CleanseDuration prometheus.Histogram
}

// New registers all collectors on the given registerer and returns the
// handle. Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RecordsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_loaded_total",
			Help:      "Lead records ingested across all runs.",
		}),
		RecordsRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_removed_total",
			Help:      "Records removed by cleansing filters, labeled by reason.",
		}, []string{"reason"}),
		StagesRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_stages_total",
			Help:      "Filter stages executed.",
		}),
		ReferenceLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_loads_total",
			Help:      "Suppression reference lists loaded, labeled by kind.",
		}, []string{"kind"}),
		ActiveRuns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_runs",
			Help:      "Cleansing runs currently held in memory.",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, labeled by method and status class.",
		}, []string{"method", "status"}),
		CleanseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cleanse_duration_seconds",
			Help:      "Wall time of full single-file cleanse passes.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
