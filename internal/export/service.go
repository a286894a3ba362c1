package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/catalog-extractor/constants"
	"github.com/joseph-ayodele/catalog-extractor/internal/catalog"
)

// SheetName is the worksheet holding the product rows.
const SheetName = "Products"

// ContentType is the media type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service renders generated product lists as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ProductsXLSX returns a workbook with one header row in canonical column
// order, then one row per product. Missing prices are left blank.
func (s *Service) ProductsXLSX(products []catalog.Product) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(activeIndex)

	for i, h := range constants.TableColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(SheetName, 1, 1, style)
	}

	for i, p := range products {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		writeMoney := func(col int, v *float64) {
			if v != nil {
				write(col, *v)
			}
		}

		write(constants.ColProductName, p.ProductName)
		write(constants.ColBrand, p.Brand)
		write(constants.ColCategory, p.Category)
		write(constants.ColSKU, p.SKU)
		write(constants.ColUnit, p.Unit)
		write(constants.ColHSN, p.HSNCode)
		write(constants.ColGST, p.GSTRate)
		write(constants.ColPricingMode, string(p.PricingMode))
		writeMoney(constants.ColBasePrice, p.BasePrice)
		writeMoney(constants.ColMRP, p.MRP)
		writeMoney(constants.ColCost, p.CostPrice)
	}

	_ = f.SetColWidth(SheetName, "A", "A", 36) // name
	_ = f.SetColWidth(SheetName, "B", "C", 18)
	_ = f.SetColWidth(SheetName, "D", "D", 16) // sku
	_ = f.SetColWidth(SheetName, "H", "H", 16) // pricing mode
	_ = f.SetColWidth(SheetName, "I", "K", 12) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(products),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
