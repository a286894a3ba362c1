package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// Input names the product to classify.
type Input struct {
	ProductName string
	Brand       string
	Category    string
	Unit        string
}

// Classifier asks the upstream service for a product's HSN code and GST slab.
type Classifier struct {
	caller  llm.Caller
	timeout time.Duration
	logger  *slog.Logger
}

func NewClassifier(caller llm.Caller, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{caller: caller, timeout: constants.ClassificationCallTimeout, logger: logger}
}

// Classify returns the decoded record. Only a missing product name and
// upstream failures are errors.
func (c *Classifier) Classify(ctx context.Context, in Input) (Record, error) {
	logger := common.LoggerFromContext(ctx, c.logger)
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return Record{}, common.NewValidationError("productName is required")
	}

	start := time.Now()
	reply, err := c.caller.Call(ctx, llm.BuildClassificationPrompt(llm.ProductBrief{
		Name:     name,
		Brand:    in.Brand,
		Category: in.Category,
		Unit:     in.Unit,
	}), c.timeout)
	if err != nil {
		return Record{}, fmt.Errorf("classify %q: %w", name, err)
	}

	rec := Decode(reply)
	if rec.Failed {
		logger.Warn("classify.sentinel", "product", name, "reply_bytes", len(reply))
		return rec, nil
	}
	logger.Info("classify.ok",
		"product", name, "hsn", rec.HSN, "gst", rec.GST, "confidence", rec.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds())
	return rec, nil
}
