package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the type-forging pipeline.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Compilation metrics
	CompilationsTotal      prometheus.Counter
	CompilationErrorsTotal prometheus.Counter
	CompilationDuration    prometheus.Histogram

	// Cache metrics
	CacheHitsTotal      prometheus.Counter
	CacheMissesTotal    prometheus.Counter
	CacheEvictionsTotal prometheus.Counter
	CacheClearsTotal    prometheus.Counter
	CacheLiveArtifacts  prometheus.Gauge
	CacheRetainedSource prometheus.Gauge

	// Binding metrics
	BindSkippedKeysTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics on the given registry.
// A nil registry registers nothing, which keeps tests independent.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "typeforge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "typeforge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		CompilationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_compilations_total",
			Help: "Total number of artifact compilations",
		}),
		CompilationErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_compilation_errors_total",
			Help: "Total number of failed compilations",
		}),
		CompilationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "typeforge_compilation_duration_seconds",
			Help:    "Compilation duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_cache_hits_total",
			Help: "Total number of compilation cache hits",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_cache_misses_total",
			Help: "Total number of compilation cache misses",
		}),
		CacheEvictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_cache_evictions_total",
			Help: "Total number of artifacts evicted from the strong tier",
		}),
		CacheClearsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_cache_clears_total",
			Help: "Total number of whole-cache clears",
		}),
		CacheLiveArtifacts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typeforge_cache_live_artifacts",
			Help: "Number of artifacts currently held in the strong tier",
		}),
		CacheRetainedSource: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "typeforge_cache_retained_sources",
			Help: "Number of retained source texts",
		}),
		BindSkippedKeysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "typeforge_bind_skipped_keys_total",
			Help: "Total number of document keys skipped during binding",
		}),
	}

	if registry != nil {
		registry.MustRegister(
			m.HTTPRequestsTotal,
			m.HTTPRequestDuration,
			m.CompilationsTotal,
			m.CompilationErrorsTotal,
			m.CompilationDuration,
			m.CacheHitsTotal,
			m.CacheMissesTotal,
			m.CacheEvictionsTotal,
			m.CacheClearsTotal,
			m.CacheLiveArtifacts,
			m.CacheRetainedSource,
			m.BindSkippedKeysTotal,
		)
	}
	return m
}
