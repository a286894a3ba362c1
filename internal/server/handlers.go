package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
)

func (s *Server) handleGenerateInventory(w http.ResponseWriter, r *http.Request) {
	var req pipeline.InventoryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		RespondError(w, err)
		return
	}
	res, err := s.svc.GenerateInventory(r.Context(), req)
	if err != nil {
		s.logFailure(r, "inventory", err)
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) handleExportInventory(w http.ResponseWriter, r *http.Request) {
	var req pipeline.InventoryRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		RespondError(w, err)
		return
	}
	res, err := s.svc.GenerateInventory(r.Context(), req)
	if err != nil {
		s.logFailure(r, "inventory_export", err)
		RespondError(w, err)
		return
	}
	b, err := s.export.ProductsXLSX(res.Inventory)
	if err != nil {
		s.logFailure(r, "inventory_export", err)
		RespondError(w, err)
		return
	}
	name := fmt.Sprintf("inventory-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleParseInvoice(w http.ResponseWriter, r *http.Request) {
	var req pipeline.InvoiceRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		RespondError(w, err)
		return
	}
	res, err := s.svc.ParseInvoice(r.Context(), req)
	if err != nil {
		s.logFailure(r, "invoice", err)
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, res)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req pipeline.ClassifyRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		RespondError(w, err)
		return
	}
	rec, err := s.svc.Classify(r.Context(), req)
	if err != nil {
		s.logFailure(r, "classify", err)
		RespondError(w, err)
		return
	}
	JSON(w, http.StatusOK, rec)
}

func (s *Server) logFailure(r *http.Request, op string, err error) {
	common.LoggerFromContext(r.Context(), s.logger).Warn("http.handler.failed", "op", op, "error", err)
}
