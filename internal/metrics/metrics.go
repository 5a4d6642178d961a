package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for report generation, the report cache
// and the HTTP layer.
type Metrics struct {
	ReportsGenerated *prometheus.CounterVec
	GenerateDuration prometheus.Histogram
	CacheLookups     *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		ReportsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_reports_generated_total",
			Help: "Reports computed by the engine, by result",
		}, []string{"result"}),
		GenerateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "panchang_generate_duration_seconds",
			Help:    "Duration of a full report computation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_cache_lookups_total",
			Help: "Report cache lookups, by result",
		}, []string{"result"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "panchang_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "panchang_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		registry: reg,
	}
}

// Registry returns the registry holding these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveGenerate records one engine run. Call with time.Now() at the start.
func (m *Metrics) ObserveGenerate(start time.Time, result string) {
	m.GenerateDuration.Observe(time.Since(start).Seconds())
	m.ReportsGenerated.WithLabelValues(result).Inc()
}

// IncrementCache records a cache lookup result: hit, miss or error.
func (m *Metrics) IncrementCache(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
