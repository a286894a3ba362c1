package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/invoice"
)

// ParseInvoice runs text detection on the file and extracts invoice fields.
// An unreadable model reply is returned as the sentinel record, not an error.
func (s *Service) ParseInvoice(ctx context.Context, req InvoiceRequest) (InvoiceResult, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	if err := common.ValidateStruct(req); err != nil {
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeInvalid)
		return InvoiceResult{}, err
	}
	if s.detector == nil {
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeFailed)
		return InvoiceResult{}, common.NewAppError(common.CodeConfig, "text detection is not configured", common.ErrOCR)
	}

	start := time.Now()
	ocrRes, err := s.detector.TextFromURL(ctx, req.FileURL)
	if err != nil {
		outcome := constants.OutcomeFailed
		if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrNoText) {
			outcome = constants.OutcomeInvalid
		}
		s.recorder.ObservePipeline(NameInvoice, outcome)
		return InvoiceResult{}, fmt.Errorf("text detection: %w", err)
	}
	logger.Info("pipeline.invoice.ocr_ok", "text_len", len(ocrRes.Text), "confidence", ocrRes.Confidence)

	rec, err := s.ExtractInvoiceText(ctx, ocrRes.Text)
	if err != nil {
		return InvoiceResult{}, err
	}
	logger.Info("pipeline.invoice.ok", "sentinel", rec.IsSentinel(), "elapsed_ms", time.Since(start).Milliseconds())
	return InvoiceResult{StructuredInvoice: rec}, nil
}

// ExtractInvoiceText extracts invoice fields from text that was already recognized.
func (s *Service) ExtractInvoiceText(ctx context.Context, text string) (invoice.Record, error) {
	rec, err := s.invoices.Extract(ctx, text)
	switch {
	case errors.Is(err, common.ErrValidation):
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeInvalid)
		return invoice.Record{}, err
	case err != nil:
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeFailed)
		return invoice.Record{}, err
	case rec.IsSentinel():
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeSentinel)
	default:
		s.recorder.ObservePipeline(NameInvoice, constants.OutcomeOK)
	}
	return rec, nil
}
