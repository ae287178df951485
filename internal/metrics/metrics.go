// Package metrics exposes session and HTTP metrics in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/websession/pkg/session"
)

const namespace = "websession"

// Metrics owns a registry and the collectors registered on it. It
// implements session.Observer.
type Metrics struct {
	registry *prometheus.Registry

	sessionsCreated   *prometheus.CounterVec
	sessionsResolved  *prometheus.CounterVec
	sessionsDestroyed prometheus.Counter
	userRevocations   prometheus.Counter

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
}

var _ session.Observer = (*Metrics)(nil)

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Session metrics
		sessionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_created_total",
				Help:      "Total number of sessions issued",
			},
			[]string{"policy"},
		),
		sessionsResolved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_resolved_total",
				Help:      "Total number of session resolutions by outcome",
			},
			[]string{"outcome"},
		),
		sessionsDestroyed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_destroyed_total",
				Help:      "Total number of logouts",
			},
		),
		userRevocations: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "user_revocations_total",
				Help:      "Total number of revoke-all-sessions calls",
			},
		),

		// HTTP metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distribution",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		httpRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:          m.registry,
		EnableOpenMetrics: true,
	})
}

func (m *Metrics) SessionCreated(p session.Policy) {
	m.sessionsCreated.WithLabelValues(p.String()).Inc()
}

func (m *Metrics) SessionResolved(o session.Outcome) {
	m.sessionsResolved.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) SessionDestroyed() {
	m.sessionsDestroyed.Inc()
}

func (m *Metrics) UserRevoked() {
	m.userRevocations.Inc()
}
