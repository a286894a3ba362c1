// Package catalog turns a generated product table (markdown or JSON) into
// validated product records.
package catalog

import (
	"github.com/joseph-ayodele/catalog-extractor/constants"
)

// Product is a validated product with normalized pricing.
type Product struct {
	ProductName string                `json:"productName"`
	Brand       string                `json:"brand"`
	Category    string                `json:"category"`
	SKU         string                `json:"sku"`
	Unit        string                `json:"unit"`
	HSNCode     string                `json:"hsnCode"`
	GSTRate     int                   `json:"gstRate"`
	PricingMode constants.PricingMode `json:"pricingMode"`
	BasePrice   *float64              `json:"basePrice"`
	MRP         *float64              `json:"mrp"`
	CostPrice   *float64              `json:"costPrice"`
	TaxAmount   *float64              `json:"taxAmount"`
}

// Row is one tentative table row: trimmed cells in canonical column order.
type Row []string

// Cell returns column i or "" when the row is short.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}
