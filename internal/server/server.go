// Package server is the HTTP transport of the extraction pipelines.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/observability"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
)

type Config struct {
	RateLimit int // requests per minute per client IP; 0 disables limiting
}

type Server struct {
	cfg     Config
	svc     *pipeline.Service
	export  *export.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewServer(cfg Config, svc *pipeline.Service, exp *export.Service, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if exp == nil {
		exp = export.NewService(logger)
	}
	return &Server{cfg: cfg, svc: svc, export: exp, metrics: metrics, logger: logger}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestContext(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
		}
		r.Post("/inventory/generate", s.handleGenerateInventory)
		r.Post("/inventory/export", s.handleExportInventory)
		r.Post("/invoices/parse", s.handleParseInvoice)
		r.Post("/products/classify", s.handleClassify)
	})
	return r
}
