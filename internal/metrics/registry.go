// Package metrics defines the Prometheus instruments for the governance
// backend. Everything registers through a single Registry so tests can
// use an isolated registerer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every instrument the backend records.
type Registry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsActive  prometheus.Gauge

	SnapshotWritesTotal *prometheus.CounterVec
	TrendRequestsTotal  prometheus.Counter
	TrendRangeDays      prometheus.Histogram
}

// NewRegistry creates the instruments on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "governance_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		HTTPRequestsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "governance_http_requests_active",
			Help: "In-flight HTTP requests",
		}),
		SnapshotWritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "governance_snapshot_writes_total",
			Help: "Snapshot upsert attempts by result",
		}, []string{"result"}),
		TrendRequestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "governance_trend_requests_total",
			Help: "Trend endpoint requests served",
		}),
		TrendRangeDays: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "governance_trend_range_days",
			Help:    "Requested history range after clamping",
			Buckets: []float64{7, 14, 30, 60, 90},
		}),
	}
}

// ObserveHTTPRequest records one completed HTTP request.
func (r *Registry) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSnapshotWrite records a snapshot upsert outcome.
func (r *Registry) RecordSnapshotWrite(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.SnapshotWritesTotal.WithLabelValues(result).Inc()
}

// RecordTrendRequest records a served trend request and its clamped range.
func (r *Registry) RecordTrendRequest(rangeDays int) {
	r.TrendRequestsTotal.Inc()
	r.TrendRangeDays.Observe(float64(rangeDays))
}
