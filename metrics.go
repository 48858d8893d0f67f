package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "unmatched"

// Metrics is the per-process registry. It also observes dashboards.
type Metrics struct {
	reg *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	ticks      prometheus.Counter
	recomputes prometheus.Counter
	answers    *prometheus.CounterVec
	sessions   prometheus.Gauge
}

func newMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ticker_ticks_total",
			Help: "Realtime ticks across all sessions.",
		}),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scenario_recomputes_total",
			Help: "Scenario recomputations across all sessions.",
		}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "prompt_responses_total",
			Help: "Prompt answers by matched rule.",
		}, []string{"rule"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_sessions_active",
			Help: "Open dashboard sessions.",
		}),
	}
	m.reg.MustRegister(
		m.httpInFlight, m.httpRequestsTotal, m.httpRequestDuration,
		m.ticks, m.recomputes, m.answers, m.sessions,
		prometheus.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Recomputed()          { m.recomputes.Inc() }
func (m *Metrics) Ticked()              { m.ticks.Inc() }
func (m *Metrics) Answered(rule string) { m.answers.WithLabelValues(rule).Inc() }
func (m *Metrics) SessionCount(n int)   { m.sessions.Set(float64(n)) }

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Instrument records in-flight, count and latency per chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := unmatchedRoute
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := strconv.Itoa(sw.code)
		m.httpRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// statusWriter remembers the response code. Flush is forwarded so SSE keeps working.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
