package invoice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// Extractor turns OCR text into a Record with one upstream call.
type Extractor struct {
	caller  llm.Caller
	schema  *jsonschema.Schema
	timeout time.Duration
	logger  *slog.Logger
}

func NewExtractor(caller llm.Caller, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	schema, err := llm.CompileSchema(llm.BuildInvoiceJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("invoice schema: %w", err)
	}
	return &Extractor{
		caller:  caller,
		schema:  schema,
		timeout: constants.InvoiceCallTimeout,
		logger:  logger,
	}, nil
}

// Extract returns the invoice fields found in ocrText. An unreadable reply
// yields the sentinel record and a nil error; only missing input and upstream
// failures are returned as errors.
func (e *Extractor) Extract(ctx context.Context, ocrText string) (Record, error) {
	logger := common.LoggerFromContext(ctx, e.logger)
	if strings.TrimSpace(ocrText) == "" {
		return Record{}, common.NewValidationError("ocr text is empty")
	}

	start := time.Now()
	logger.Info("invoice.extract.start", "ocr_bytes", len(ocrText))

	reply, err := e.caller.Call(ctx, llm.BuildInvoicePrompt(ocrText), e.timeout)
	if err != nil {
		return Record{}, fmt.Errorf("invoice extraction: %w", err)
	}

	rec := e.Decode(ctx, ocrText, reply)
	if rec.IsSentinel() {
		logger.Warn("invoice.extract.sentinel", "reply_bytes", len(reply), "elapsed_ms", time.Since(start).Milliseconds())
		return rec, nil
	}
	logger.Info("invoice.extract.ok",
		"lines", len(rec.Fields.ProductList),
		"has_total", rec.Fields.Total != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// Decode reads a model reply. The reply must match the invoice schema either
// as sent or after SanitizeInvoice repaired it; anything else is the sentinel.
func (e *Extractor) Decode(ctx context.Context, ocrText, reply string) Record {
	logger := common.LoggerFromContext(ctx, e.logger)
	clean := []byte(llm.Normalize(reply))

	if err := llm.ValidateJSON(e.schema, clean); err != nil {
		fixed, changed, serr := llm.SanitizeInvoice(clean)
		if serr != nil {
			logger.Debug("invoice.decode.not_json", "error", serr)
			return Failed(ocrText, reply)
		}
		if verr := llm.ValidateJSON(e.schema, fixed); verr != nil {
			logger.Debug("invoice.decode.schema_mismatch", "error", verr)
			return Failed(ocrText, reply)
		}
		logger.Info("invoice.decode.sanitized", "changed", changed)
		clean = fixed
	}

	var f Fields
	if err := json.Unmarshal(clean, &f); err != nil {
		logger.Debug("invoice.decode.unmarshal_failed", "error", err)
		return Failed(ocrText, reply)
	}
	return Succeeded(f)
}
