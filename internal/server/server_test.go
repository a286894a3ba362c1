package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
	"github.com/joseph-ayodele/catalog-extractor/internal/observability"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
)

type fakeCaller struct {
	reply string
	err   error
	reqID string
}

func (f *fakeCaller) Call(ctx context.Context, _ llm.Prompt, _ time.Duration) (string, error) {
	f.reqID = common.RequestIDFromContext(ctx)
	return f.reply, f.err
}

type fakeDetector struct {
	text string
	err  error
}

func (f fakeDetector) TextFromURL(context.Context, string) (ocr.Result, error) {
	return ocr.Result{Text: f.text}, f.err
}

const tableReply = "| Product Name | Brand | Category | SKU | Unit | HSN | GST(%) | Pricing Mode | Base Price | MRP | Cost |\n" +
	"|---|---|---|---|---|---|---|---|---|---|---|\n" +
	"| Amul Butter 100g | Amul | Dairy | AMB-100 | pcs | 0405 | 12 | MRP_INCLUSIVE |  | 56 | 48 |"

func newTestServer(t *testing.T, c llm.Caller, d ocr.TextDetector) (http.Handler, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	svc, err := pipeline.NewService(c, d, metrics, nil)
	require.NoError(t, err)
	return NewServer(Config{RateLimit: 100}, svc, export.NewService(nil), metrics, nil).Router(), metrics
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeProblem(t *testing.T, rr *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	return p
}

func TestGenerateInventoryEndpoint(t *testing.T) {
	c := &fakeCaller{reply: tableReply}
	h, _ := newTestServer(t, c, nil)

	rr := do(t, h, http.MethodPost, "/api/inventory/generate", `{"brand":"Amul","quantity":"12"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(HeaderRequestID))
	assert.Equal(t, rr.Header().Get(HeaderRequestID), c.reqID)

	var body struct {
		Inventory []map[string]any `json:"inventory"`
		Message   *string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Len(t, body.Inventory, 1)
	assert.Nil(t, body.Message)
	assert.Equal(t, "AMB-100", body.Inventory[0]["sku"])
	assert.Equal(t, 50.0, body.Inventory[0]["basePrice"])
	assert.Equal(t, 6.0, body.Inventory[0]["taxAmount"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	c := &fakeCaller{reply: tableReply}
	h, _ := newTestServer(t, c, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/generate", strings.NewReader(`{"brand":"Amul"}`))
	req.Header.Set(HeaderRequestID, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", c.reqID)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		caller *fakeCaller
		path   string
		body   string
		status int
		detail string
	}{
		{
			name: "validation", caller: &fakeCaller{}, path: "/api/inventory/generate",
			body: `{"category":"Dairy"}`, status: http.StatusBadRequest, detail: "prompt is required",
		},
		{
			name: "malformed body", caller: &fakeCaller{}, path: "/api/products/classify",
			body: `{"productName":`, status: http.StatusBadRequest,
		},
		{
			name: "bulk parse failure", caller: &fakeCaller{reply: "sorry"}, path: "/api/inventory/generate",
			body: `{"brand":"Amul"}`, status: http.StatusUnprocessableEntity,
		},
		{
			name: "upstream failure",
			caller: &fakeCaller{err: &llm.UpstreamError{StatusCode: 429, Attempts: 2,
				Err: &llm.StatusError{StatusCode: 429, Detail: "Rate limit reached"}}},
			path: "/api/products/classify", body: `{"productName":"Rice"}`,
			status: http.StatusBadGateway, detail: "Rate limit reached",
		},
		{
			name:   "upstream timeout",
			caller: &fakeCaller{err: &llm.UpstreamError{Attempts: 1, Timeout: true, Err: context.DeadlineExceeded}},
			path:   "/api/products/classify", body: `{"productName":"Rice"}`,
			status: http.StatusGatewayTimeout,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestServer(t, tt.caller, nil)
			rr := do(t, h, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, rr.Code, rr.Body.String())
			p := decodeProblem(t, rr)
			assert.Equal(t, tt.status, p.Status)
			assert.NotEmpty(t, p.Title)
			assert.Contains(t, p.Detail, tt.detail)
		})
	}
}

func TestParseInvoiceEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: "not json"}, fakeDetector{text: "Total 945"})
	rr := do(t, h, http.MethodPost, "/api/invoices/parse", `{"fileUrl":"https://files.example.com/a.jpg"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"structuredInvoice":{"error":true,"rawText":"Total 945","rawReply":"not json"}}`, rr.Body.String())

	h, _ = newTestServer(t, &fakeCaller{}, fakeDetector{err: common.ErrNoText})
	rr = do(t, h, http.MethodPost, "/api/invoices/parse", `{"fileUrl":"https://files.example.com/a.jpg"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, http.MethodPost, "/api/invoices/parse", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestClassifyEndpointFlattensRecord(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: `{"hsn":"0405","gst":"12","confidence":"medium"}`}, nil)
	rr := do(t, h, http.MethodPost, "/api/products/classify", `{"productName":"Butter","brand":"Amul"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"hsn":"0405","gst":"12","confidence":"medium","reference":""}`, rr.Body.String())
}

func TestExportEndpoint(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: tableReply}, nil)
	rr := do(t, h, http.MethodPost, "/api/inventory/export", `{"brand":"Amul"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, export.ContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), ".xlsx")

	wb, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	rows, err := wb.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestHealthAndMetrics(t *testing.T) {
	h, _ := newTestServer(t, &fakeCaller{reply: tableReply}, nil)
	rr := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	do(t, h, http.MethodPost, "/api/inventory/generate", `{"brand":"Amul"}`)
	rr = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `extractor_pipeline_runs_total{outcome="ok",pipeline="inventory"} 1`)
	assert.Contains(t, rr.Body.String(), `extractor_http_requests_total{code="200",route="/api/inventory/generate"} 1`)
}
