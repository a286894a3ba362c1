package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/catalog"
	"github.com/joseph-ayodele/catalog-extractor/internal/invoice"
)

// Quantity is a requested product count sent as a JSON number or a numeric string.
type Quantity string

func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*q = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*q = Quantity(s)
		return nil
	}
	*q = Quantity(b)
	return nil
}

// Requested parses the count like a lenient integer parse: missing, zero or
// non-numeric values fall back to the default, and the result is clamped.
// Bounds are applied before the int conversion so huge values clamp high.
func (q Quantity) Requested() int {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(q)), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return constants.DefaultRequestedQty
	}
	f = math.Trunc(f)
	switch {
	case math.IsNaN(f), f == 0:
		return constants.DefaultRequestedQty
	case f >= constants.MaxRequestedQty:
		return constants.MaxRequestedQty
	case f <= constants.MinRequestedQty:
		return constants.MinRequestedQty
	}
	return constants.ClampQty(int(f))
}

// InventoryRequest asks for a generated product list. At least one of prompt,
// brand or brandName is required.
type InventoryRequest struct {
	Prompt      string   `json:"prompt" validate:"required_without_all=Brand BrandName,max=2000"`
	Brand       string   `json:"brand" validate:"max=200"`
	BrandName   string   `json:"brandName" validate:"max=200"`
	Category    string   `json:"category" validate:"max=200"`
	KnownTypes  string   `json:"knownTypes" validate:"max=2000"`
	Quantity    Quantity `json:"quantity"`
	Description string   `json:"description" validate:"max=4000"`
}

// trimmed returns the request with identity fields stripped of surrounding
// whitespace, so a blank brand does not satisfy the identity requirement.
func (r InventoryRequest) trimmed() InventoryRequest {
	r.Prompt = strings.TrimSpace(r.Prompt)
	r.Brand = strings.TrimSpace(r.Brand)
	r.BrandName = strings.TrimSpace(r.BrandName)
	return r
}

func (r InventoryRequest) brand() string {
	if b := strings.TrimSpace(r.Brand); b != "" {
		return b
	}
	return strings.TrimSpace(r.BrandName)
}

// InventoryResult is the bulk generation response. Message is set only when
// no row survived validation.
type InventoryResult struct {
	Inventory []catalog.Product  `json:"inventory"`
	Message   string             `json:"message,omitempty"`
	Rejected  []catalog.RowError `json:"-"`
}

type InvoiceRequest struct {
	FileURL string `json:"fileUrl" validate:"required,url"`
}

type InvoiceResult struct {
	StructuredInvoice invoice.Record `json:"structuredInvoice"`
}

type ClassifyRequest struct {
	ProductName string `json:"productName" validate:"required,max=300"`
	Brand       string `json:"brand" validate:"max=200"`
	Category    string `json:"category" validate:"max=200"`
	Unit        string `json:"unit" validate:"max=50"`
}
