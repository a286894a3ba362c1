// Package pipeline runs the three extraction flows for one request each:
// bulk product generation, invoice parsing and product classification.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/classify"
	"github.com/joseph-ayodele/catalog-extractor/internal/invoice"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
)

// Pipeline names used in logs and metrics.
const (
	NameInventory = "inventory"
	NameInvoice   = "invoice"
	NameClassify  = "classify"
)

// Recorder receives pipeline events; implemented by observability.Metrics.
type Recorder interface {
	ObserveRowRejected(reason string)
	ObservePricingInconsistent()
	ObservePipeline(pipeline string, outcome constants.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRowRejected(string)                 {}
func (nopRecorder) ObservePricingInconsistent()               {}
func (nopRecorder) ObservePipeline(string, constants.Outcome) {}

// Service holds no per-request state and is safe for concurrent use.
type Service struct {
	caller     llm.Caller
	detector   ocr.TextDetector
	invoices   *invoice.Extractor
	classifier *classify.Classifier
	recorder   Recorder
	logger     *slog.Logger
}

// NewService wires the flows. detector may be nil when invoice parsing from a
// URL is not configured; recorder may be nil.
func NewService(caller llm.Caller, detector ocr.TextDetector, recorder Recorder, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	inv, err := invoice.NewExtractor(caller, logger)
	if err != nil {
		return nil, fmt.Errorf("invoice extractor: %w", err)
	}
	return &Service{
		caller:     caller,
		detector:   detector,
		invoices:   inv,
		classifier: classify.NewClassifier(caller, logger),
		recorder:   recorder,
		logger:     logger,
	}, nil
}
