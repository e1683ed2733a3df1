// Package metrics defines the Prometheus collectors for the import
// pipeline and HTTP layer and exposes a scrape handler.
//
// All helper methods are safe to call on a nil *Metrics, so components
// can be built without instrumentation in tests and tools.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ImportJobsTotal      *prometheus.CounterVec
	ImportJobDuration    *prometheus.HistogramVec
	ImportRowsTotal      *prometheus.CounterVec
	BatchCommitsTotal    *prometheus.CounterVec
	ImportsActive        prometheus.Gauge
	SessionsActive       prometheus.Gauge
	EventsPushedTotal    prometheus.Counter
	PushFailuresTotal    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and prometheus.NewRegistry()
// in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ImportJobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_import_jobs_total",
				Help: "Finished import jobs by mode and final state.",
			},
			[]string{"mode", "state"},
		),
		ImportJobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taller_import_job_duration_seconds",
				Help:    "Import job wall time in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"mode"},
		),
		ImportRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_import_rows_total",
				Help: "Import rows by outcome (ok, failed).",
			},
			[]string{"result"},
		),
		BatchCommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_import_batch_commits_total",
				Help: "Batch commits by outcome (ok, failed).",
			},
			[]string{"result"},
		),
		ImportsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "taller_imports_active",
				Help: "Import jobs currently holding a slot.",
			},
		),
		SessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "taller_sessions_active",
				Help: "Registered progress channels.",
			},
		),
		EventsPushedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "taller_progress_events_pushed_total",
				Help: "Progress events handed to a session channel.",
			},
		),
		PushFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taller_progress_push_failures_total",
				Help: "Progress events that could not be delivered, by reason.",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ImportJobsTotal,
		m.ImportJobDuration,
		m.ImportRowsTotal,
		m.BatchCommitsTotal,
		m.ImportsActive,
		m.SessionsActive,
		m.EventsPushedTotal,
		m.PushFailuresTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// InFlight adjusts the in-flight request gauge by delta.
func (m *Metrics) InFlight(delta float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsInFlight.Add(delta)
}

// JobFinished records a job reaching a terminal state.
func (m *Metrics) JobFinished(mode, state string, d time.Duration) {
	if m == nil {
		return
	}
	m.ImportJobsTotal.WithLabelValues(mode, state).Inc()
	m.ImportJobDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// RowsProcessed adds row outcomes.
func (m *Metrics) RowsProcessed(ok, failed int) {
	if m == nil {
		return
	}
	if ok > 0 {
		m.ImportRowsTotal.WithLabelValues("ok").Add(float64(ok))
	}
	if failed > 0 {
		m.ImportRowsTotal.WithLabelValues("failed").Add(float64(failed))
	}
}

// BatchCommitted records one storage commit.
func (m *Metrics) BatchCommitted(ok bool) {
	if m == nil {
		return
	}
	m.BatchCommitsTotal.WithLabelValues(result(ok)).Inc()
}

// ImportStarted and ImportDone track jobs holding an import slot.
func (m *Metrics) ImportStarted() {
	if m == nil {
		return
	}
	m.ImportsActive.Inc()
}

func (m *Metrics) ImportDone() {
	if m == nil {
		return
	}
	m.ImportsActive.Dec()
}

// SetSessions sets the number of registered progress channels.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.SessionsActive.Set(float64(n))
}

// EventPushed counts an event handed to a channel.
func (m *Metrics) EventPushed() {
	if m == nil {
		return
	}
	m.EventsPushedTotal.Inc()
}

// PushFailed counts an undeliverable event.
func (m *Metrics) PushFailed(reason string) {
	if m == nil {
		return
	}
	m.PushFailuresTotal.WithLabelValues(reason).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
