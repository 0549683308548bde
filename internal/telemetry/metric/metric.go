// Package metric provides Prometheus metrics for the token store.
package metric

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tokenstore"

// Metrics holds all instrument handles. A nil *Metrics is a valid
// no-op receiver so callers never need to guard.
type Metrics struct {
	registry *prometheus.Registry

	recordsCreated *prometheus.CounterVec
	recordsSaved   *prometheus.CounterVec
	recordsTouched *prometheus.CounterVec
	recordsDeleted *prometheus.CounterVec

	authFailures *prometheus.CounterVec

	backendOps       *prometheus.CounterVec
	backendLatency   *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
	httpInFlight     prometheus.Gauge
	rateLimitRejects prometheus.Counter
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		recordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_created_total",
			Help:      "Records created, by kind (access, session, step).",
		}, []string{"kind"}),

		recordsSaved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_saved_total",
			Help:      "Record payload writes, by kind.",
		}, []string{"kind"}),

		recordsTouched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_touched_total",
			Help:      "TTL refreshes without a payload write, by kind.",
		}, []string{"kind"}),

		recordsDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_deleted_total",
			Help:      "Records deleted, by kind.",
		}, []string{"kind"}),

		authFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Guard rejections, by record kind and reason.",
		}, []string{"kind", "reason"}),

		backendOps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_ops_total",
			Help:      "Backend operations, by op and outcome.",
		}, []string{"op", "outcome"}),

		backendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_op_duration_seconds",
			Help:      "Backend operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"op"}),

		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status class.",
		}, []string{"method", "route", "status"}),

		httpLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),

		rateLimitRejects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_rejections_total",
			Help:      "Requests rejected by the per-client rate limiter.",
		}),
	}
}

// Registry returns the backing registry, for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordCreated counts a record creation.
func (m *Metrics) RecordCreated(kind string) {
	if m == nil {
		return
	}
	m.recordsCreated.WithLabelValues(kind).Inc()
}

// RecordSaved counts a record payload write.
func (m *Metrics) RecordSaved(kind string) {
	if m == nil {
		return
	}
	m.recordsSaved.WithLabelValues(kind).Inc()
}

// RecordTouched counts a TTL refresh.
func (m *Metrics) RecordTouched(kind string) {
	if m == nil {
		return
	}
	m.recordsTouched.WithLabelValues(kind).Inc()
}

// RecordDeleted counts a record deletion.
func (m *Metrics) RecordDeleted(kind string) {
	if m == nil {
		return
	}
	m.recordsDeleted.WithLabelValues(kind).Inc()
}

// AuthFailure counts a guard rejection.
func (m *Metrics) AuthFailure(kind, reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(kind, reason).Inc()
}

// BackendOp records one backend operation with its latency.
func (m *Metrics) BackendOp(op string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.backendOps.WithLabelValues(op, outcome).Inc()
	m.backendLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// HTTPRequest records one served request.
func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	m.httpLatency.WithLabelValues(route).Observe(elapsed.Seconds())
}

// HTTPInFlightAdd tracks in-flight request count.
func (m *Metrics) HTTPInFlightAdd(delta float64) {
	if m == nil {
		return
	}
	m.httpInFlight.Add(delta)
}

// RateLimited counts a rate limiter rejection.
func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.rateLimitRejects.Inc()
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

// RecordKind labels used across the store.
const (
	KindAccess  = "access"
	KindSession = "session"
	KindStep    = "step"
)

// ReasonFromCode derives a stable failure reason label from a domain
// error code like "TS-TOKN-4012".
func ReasonFromCode(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "-", "_"))
}
