package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/pricing"
)

var (
	reSeparator  = regexp.MustCompile(`^[\s|:\-]+$`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reUnderBold  = regexp.MustCompile(`__(.+?)__`)
	reItalic     = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	emphasisMark = "*"
)

// Reasons a row is dropped.
const (
	RejectShortRow        = "short_row"
	RejectResidualMarkup  = "residual_markup"
	RejectMissingIdentity = "missing_identity"
)

// RowError describes one dropped row. It never fails a mapping.
type RowError struct {
	Line   int // 1-based, counted from the header line
	Reason string
	Cells  int
	Text   string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d dropped (%s, %d cells): %s", e.Line, e.Reason, e.Cells, e.Text)
}

// Mapping is the outcome of MapRows.
type Mapping struct {
	Products []Product
	Rejected []RowError
	// Inconsistent lists SKUs whose stated base/MRP pair disagrees with the GST slab.
	Inconsistent []string
}

// MapRows reads table text from the first canonical header onwards and returns
// the rows that survive validation, with pricing normalized.
func MapRows(tableText string) Mapping {
	var out Mapping
	loc := reHeader.FindStringIndex(tableText)
	if loc == nil {
		return out
	}
	start := strings.LastIndex(tableText[:loc[0]], "\n") + 1

	for i, line := range strings.Split(tableText[start:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || reSeparator.MatchString(line) || HasHeader(line) {
			continue
		}
		row, ok := splitRow(line)
		if len(row) < constants.TableColumnCount {
			out.Rejected = append(out.Rejected, RowError{Line: i + 1, Reason: RejectShortRow, Cells: len(row), Text: line})
			continue
		}
		if !ok {
			out.Rejected = append(out.Rejected, RowError{Line: i + 1, Reason: RejectResidualMarkup, Cells: len(row), Text: line})
			continue
		}

		p, consistent := toProduct(row)
		if p.ProductName == "" || p.SKU == "" {
			out.Rejected = append(out.Rejected, RowError{Line: i + 1, Reason: RejectMissingIdentity, Cells: len(row), Text: line})
			continue
		}
		if !consistent {
			out.Inconsistent = append(out.Inconsistent, p.SKU)
		}
		out.Products = append(out.Products, p)
	}
	return out
}

// splitRow strips the outer pipes, splits, trims and removes emphasis spans.
// ok is false when an emphasis marker survives, a sign of a truncated row.
func splitRow(line string) (Row, bool) {
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	parts := strings.Split(line, "|")
	row := make(Row, len(parts))
	ok := true
	for i, p := range parts {
		c := stripEmphasis(strings.TrimSpace(p))
		if strings.Contains(c, emphasisMark) {
			ok = false
		}
		row[i] = c
	}
	return row, ok
}

func stripEmphasis(s string) string {
	s = reBold.ReplaceAllString(s, "$1")
	s = reUnderBold.ReplaceAllString(s, "$1")
	s = reItalic.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

func toProduct(row Row) (Product, bool) {
	pr := pricing.Compute(pricing.Input{
		GST:         row.Cell(constants.ColGST),
		PricingMode: row.Cell(constants.ColPricingMode),
		BasePrice:   row.Cell(constants.ColBasePrice),
		MRP:         row.Cell(constants.ColMRP),
	})
	return Product{
		ProductName: row.Cell(constants.ColProductName),
		Brand:       row.Cell(constants.ColBrand),
		Category:    row.Cell(constants.ColCategory),
		SKU:         row.Cell(constants.ColSKU),
		Unit:        row.Cell(constants.ColUnit),
		HSNCode:     row.Cell(constants.ColHSN),
		GSTRate:     pr.GSTRate,
		PricingMode: pr.PricingMode,
		BasePrice:   pricing.Float(pr.BasePrice),
		MRP:         pricing.Float(pr.MRP),
		CostPrice:   pricing.Float(pricing.ToNum(row.Cell(constants.ColCost))),
		TaxAmount:   pricing.Float(pr.TaxAmount),
	}, pr.Consistent
}
