package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

var _ llm.CallObserver = (*Metrics)(nil)

func TestMetricsHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpstreamRetry()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "extractor_upstream_retries_total 1")
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/api/products/classify")
	req := httptest.NewRequest(http.MethodPost, "/api/products/classify", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/products/classify", "418")))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpstreamAttempt(llm.AttemptTransient)
	m.ObserveUpstreamAttempt(llm.AttemptOK)
	m.ObserveUpstreamAttempt(llm.AttemptOK)
	m.ObserveRowRejected("short_row")
	m.ObservePricingInconsistent()
	m.ObservePipeline("inventory", constants.OutcomeEmpty)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamAttempts.WithLabelValues(llm.AttemptOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamAttempts.WithLabelValues(llm.AttemptTransient)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsRejected.WithLabelValues("short_row")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pricingMismatch))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues("inventory", "empty")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstreamAttempt(llm.AttemptOK)
		m.ObserveUpstreamRetry()
		m.ObserveRowRejected("short_row")
		m.ObservePricingInconsistent()
		m.ObservePipeline("invoice", constants.OutcomeOK)
	})
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
