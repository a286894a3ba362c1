package catalog

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/common"
)

// reHeader matches the canonical 11-column header anywhere in the text.
var reHeader = regexp.MustCompile(`(?i)product\s*name\s*\|\s*brand\s*\|\s*category\s*\|\s*sku\s*\|\s*unit\s*\|\s*hsn\s*\|\s*gst\s*\(\s*%\s*\)\s*\|\s*pricing\s*mode\s*\|\s*base\s*price\s*\|\s*mrp\s*\|\s*cost`)

// reArray is greedy: first '[' through last ']'.
var reArray = regexp.MustCompile(`(?s)\[.*\]`)

// fieldAliases lists accepted JSON keys per canonical column, first match wins.
var fieldAliases = [constants.TableColumnCount][]string{
	constants.ColProductName: {"productName", "product_name", "ProductName", "Product Name", "name", "Name"},
	constants.ColBrand:       {"brand", "Brand", "brandName", "brand_name"},
	constants.ColCategory:    {"category", "Category"},
	constants.ColSKU:         {"sku", "SKU", "Sku"},
	constants.ColUnit:        {"unit", "Unit", "uom", "UOM"},
	constants.ColHSN:         {"hsn", "HSN", "hsnCode", "hsn_code", "HSN Code"},
	constants.ColGST:         {"gst", "GST", "gstRate", "gst_rate", "GST(%)", "gstPercent"},
	constants.ColPricingMode: {"pricingMode", "pricing_mode", "PricingMode", "Pricing Mode"},
	constants.ColBasePrice:   {"basePrice", "base_price", "BasePrice", "Base Price"},
	constants.ColMRP:         {"mrp", "MRP", "Mrp"},
	constants.ColCost:        {"cost", "Cost", "costPrice", "cost_price", "CostPrice"},
}

// HasHeader reports whether text contains the canonical table header.
func HasHeader(text string) bool {
	return reHeader.MatchString(text)
}

// ParseTable returns table text in the canonical markdown shape. Text that
// already carries the header is returned unchanged; otherwise a JSON array of
// records is recovered and rendered as a table. common.ErrParse when neither.
func ParseTable(clean string) (string, error) {
	if HasHeader(clean) {
		return clean, nil
	}
	records, ok := recoverArray(clean)
	if !ok {
		return "", common.NewAppError(common.CodeParse, "reply holds neither a product table nor a JSON array", common.ErrParse)
	}
	return renderTable(records), nil
}

func recoverArray(text string) ([]map[string]any, bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil || raw == nil {
		sub := reArray.FindString(text)
		if sub == "" {
			return nil, false
		}
		if err := json.Unmarshal([]byte(sub), &raw); err != nil {
			return nil, false
		}
	}
	records := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		var m map[string]any
		if err := json.Unmarshal(el, &m); err != nil || m == nil {
			continue
		}
		records = append(records, m)
	}
	return records, true
}

func renderTable(records []map[string]any) string {
	var b strings.Builder
	b.WriteString(constants.HeaderLine())
	b.WriteString("\n")
	b.WriteString(constants.SeparatorLine())
	for _, rec := range records {
		b.WriteString("\n|")
		for _, cell := range project(rec) {
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(" |")
		}
	}
	return b.String()
}

// project maps one JSON record onto the canonical columns.
func project(rec map[string]any) Row {
	row := make(Row, constants.TableColumnCount)
	for col, aliases := range fieldAliases {
		row[col] = lookup(rec, aliases)
	}
	if row[constants.ColPricingMode] == "" {
		row[constants.ColPricingMode] = string(constants.PricingMRPInclusive)
	}
	return row
}

func lookup(rec map[string]any, aliases []string) string {
	for _, k := range aliases {
		if v, ok := rec[k]; ok && v != nil {
			return cellText(v)
		}
	}
	return ""
}

// cellText renders a JSON value as table cell text. Pipes and newlines would
// break the row, so they are flattened.
func cellText(v any) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		s = string(b)
	}
	s = strings.NewReplacer("|", "/", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
