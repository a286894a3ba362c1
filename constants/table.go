package constants

import "strings"

// TableColumns is the canonical column order of a generated product table.
var TableColumns = []string{
	"Product Name",
	"Brand",
	"Category",
	"SKU",
	"Unit",
	"HSN",
	"GST(%)",
	"Pricing Mode",
	"Base Price",
	"MRP",
	"Cost",
}

// Column positions inside a table row.
const (
	ColProductName = iota
	ColBrand
	ColCategory
	ColSKU
	ColUnit
	ColHSN
	ColGST
	ColPricingMode
	ColBasePrice
	ColMRP
	ColCost

	TableColumnCount
)

// HeaderLine renders TableColumns as a pipe-delimited markdown header.
func HeaderLine() string {
	return "| " + strings.Join(TableColumns, " | ") + " |"
}

// SeparatorLine renders the markdown separator row under HeaderLine.
func SeparatorLine() string {
	return "|" + strings.Repeat("---|", len(TableColumns))
}
