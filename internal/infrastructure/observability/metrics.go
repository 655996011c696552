// Package observability provides ChemistFlow's Prometheus metrics and
// OpenTelemetry tracing setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds every Prometheus metric ChemistFlow exposes.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	CacheHits              *prometheus.CounterVec
	CacheMisses            *prometheus.CounterVec
	CacheDistributedErrors *prometheus.CounterVec

	EngineCalls       *prometheus.CounterVec
	EngineDuration    prometheus.Histogram
	ComputeFanOutSize prometheus.Histogram
}

// NewCollector builds and registers a fresh metrics collector under
// namespace. Each call creates a new registry, so tests can construct
// independent collectors without colliding on global registration.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_hits_total", Help: "Cache hits by tier and object kind.",
		}, []string{"tier", "kind"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_misses_total", Help: "Cache misses by tier and object kind.",
		}, []string{"tier", "kind"}),
		CacheDistributedErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_distributed_errors_total", Help: "Distributed tier errors by operation.",
		}, []string{"operation"}),
		EngineCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "engine_calls_total", Help: "Engine sub-requests by outcome.",
		}, []string{"outcome"}),
		EngineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "engine_call_duration_seconds", Help: "Engine sub-request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		ComputeFanOutSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "compute_fanout_size", Help: "Number of SystemStates dispatched per compute request.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
	}

	registry.MustRegister(
		c.HTTPRequests, c.HTTPDuration,
		c.CacheHits, c.CacheMisses, c.CacheDistributedErrors,
		c.EngineCalls, c.EngineDuration, c.ComputeFanOutSize,
	)
	return c
}

// Registry exposes the underlying Prometheus registry for the metrics
// HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
