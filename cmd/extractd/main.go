package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/catalog-extractor/internal/observability"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
	"github.com/joseph-ayodele/catalog-extractor/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(2)
	}
	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()
	metrics.Registerer().MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gen := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, nil, logger)
	caller := llm.NewResilient(gen, llm.DefaultPolicy(), logger, llm.WithObserver(metrics))

	var detector ocr.TextDetector
	if err := cfg.ValidateOCR(); err != nil {
		logger.Warn("invoice parsing disabled", "reason", err)
	} else {
		detector = ocr.NewClient(ocr.Config{
			APIKey:   cfg.OCR.APIKey,
			Endpoint: cfg.OCR.Endpoint,
			Timeout:  cfg.OCR.Timeout,
		}, logger)
	}

	svc, err := pipeline.NewService(caller, detector, metrics, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.NewServer(server.Config{RateLimit: cfg.Server.RateLimit}, svc, export.NewService(logger), metrics, logger).Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http.serve", "addr", cfg.Server.HTTPAddr, "model", gen.Model())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("grpc.serve", "addr", cfg.Server.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		hs.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
