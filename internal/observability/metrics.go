// Package observability exposes Prometheus metrics for the extraction service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// Metrics collects the service's Prometheus metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamAttempts *prometheus.CounterVec
	upstreamRetries  prometheus.Counter
	rowsRejected     *prometheus.CounterVec
	pricingMismatch  prometheus.Counter
	pipelineRuns     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extractor_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "extractor_http_request_duration_seconds",
		Help:    "HTTP request duration by route.",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 45},
	}, []string{"route"})
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extractor_upstream_attempts_total",
		Help: "Text-generation attempts by outcome.",
	}, []string{"outcome"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extractor_upstream_retries_total",
		Help: "Text-generation retries after a rate-limit or unavailable reply.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extractor_catalog_rows_rejected_total",
		Help: "Generated product rows dropped during validation, by reason.",
	}, []string{"reason"})
	mismatch := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "extractor_catalog_pricing_inconsistent_total",
		Help: "Products whose stated base price and MRP disagree with the GST slab.",
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "extractor_pipeline_runs_total",
		Help: "Pipeline runs by pipeline and outcome.",
	}, []string{"pipeline", "outcome"})
	registry.MustRegister(requests, duration, attempts, retries, rejected, mismatch, runs)
	return &Metrics{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:    requests,
		requestDuration:  duration,
		upstreamAttempts: attempts,
		upstreamRetries:  retries,
		rowsRejected:     rejected,
		pricingMismatch:  mismatch,
		pipelineRuns:     runs,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records count and duration of every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveUpstreamAttempt(outcome string) {
	if m == nil {
		return
	}
	m.upstreamAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpstreamRetry() {
	if m == nil {
		return
	}
	m.upstreamRetries.Inc()
}

func (m *Metrics) ObserveRowRejected(reason string) {
	if m == nil {
		return
	}
	m.rowsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObservePricingInconsistent() {
	if m == nil {
		return
	}
	m.pricingMismatch.Inc()
}

func (m *Metrics) ObservePipeline(pipeline string, outcome constants.Outcome) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(pipeline, string(outcome)).Inc()
}

// Registerer exposes the registry for additional collectors.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
