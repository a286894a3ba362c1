package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/catalog"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
)

// EmptyInventoryMessage accompanies a bulk result with no surviving rows.
const EmptyInventoryMessage = "No valid products could be generated. Try a more specific brand or category."

// GenerateInventory asks for a product table, parses it and returns the rows
// that survive validation. A reply with neither a table nor a JSON array is
// common.ErrParse; individual bad rows are dropped.
func (s *Service) GenerateInventory(ctx context.Context, req InventoryRequest) (InventoryResult, error) {
	logger := common.LoggerFromContext(ctx, s.logger)
	req = req.trimmed()
	if err := common.ValidateStruct(req); err != nil {
		s.recorder.ObservePipeline(NameInventory, constants.OutcomeInvalid)
		return InventoryResult{}, err
	}

	qty := req.Quantity.Requested()
	start := time.Now()
	logger.Info("pipeline.inventory.start", "brand", req.brand(), "category", req.Category, "quantity", qty)

	reply, err := s.caller.Call(ctx, llm.BuildInventoryPrompt(llm.InventoryBrief{
		Brand:       req.brand(),
		Category:    req.Category,
		KnownTypes:  req.KnownTypes,
		Description: req.Description,
		Quantity:    qty,
		Extra:       req.Prompt,
	}), constants.InventoryCallTimeout)
	if err != nil {
		s.recorder.ObservePipeline(NameInventory, constants.OutcomeFailed)
		return InventoryResult{}, fmt.Errorf("generate inventory: %w", err)
	}

	raw := llm.NormalizeReply(reply)
	table, err := catalog.ParseTable(raw.Text)
	if err != nil {
		logger.Error("pipeline.inventory.parse_failed", "reply_bytes", len(reply), "fenced", raw.WasFenced)
		s.recorder.ObservePipeline(NameInventory, constants.OutcomeFailed)
		return InventoryResult{}, err
	}

	m := catalog.MapRows(table)
	for _, rej := range m.Rejected {
		s.recorder.ObserveRowRejected(rej.Reason)
		logger.Debug("catalog.row.rejected", "line", rej.Line, "reason", rej.Reason, "cells", rej.Cells)
	}
	for _, sku := range m.Inconsistent {
		s.recorder.ObservePricingInconsistent()
		logger.Warn("catalog.pricing.inconsistent", "sku", sku)
	}

	res := InventoryResult{Inventory: m.Products, Rejected: m.Rejected}
	if len(res.Inventory) == 0 {
		res.Inventory = []catalog.Product{}
		res.Message = EmptyInventoryMessage
		s.recorder.ObservePipeline(NameInventory, constants.OutcomeEmpty)
	} else {
		s.recorder.ObservePipeline(NameInventory, constants.OutcomeOK)
	}

	logger.Info("pipeline.inventory.ok",
		"requested", qty, "products", len(res.Inventory), "rejected", len(m.Rejected),
		"elapsed_ms", time.Since(start).Milliseconds())
	return res, nil
}
