package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ProductRow is one parsed data row from a product import sheet
type ProductRow struct {
	Name      string
	Unit      string
	UnitPrice *float64
	StockQty  float64
}

// column headers recognized in the first row, matched case-insensitively
var productColumns = map[string]string{
	"name":       "name",
	"product":    "name",
	"unit":       "unit",
	"price":      "unit_price",
	"unit price": "unit_price",
	"unit_price": "unit_price",
	"stock":      "stock_qty",
	"stock qty":  "stock_qty",
	"stock_qty":  "stock_qty",
	"quantity":   "stock_qty",
}

// ParseProductSheet reads the first sheet of an uploaded XLSX workbook into
// product rows. The first row must be a header naming at least the product
// name column; unrecognized columns are ignored. Parse errors on numeric
// cells fail the whole sheet so a typo cannot silently import as zero.
func ParseProductSheet(r io.Reader) ([]ProductRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	fields := make(map[int]string)
	for col, header := range rows[0] {
		if field, ok := productColumns[strings.ToLower(strings.TrimSpace(header))]; ok {
			fields[col] = field
		}
	}
	hasName := false
	for _, field := range fields {
		if field == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("sheet %q is missing a name column", sheet)
	}

	parsed := make([]ProductRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		product := ProductRow{}
		empty := true
		for col, cell := range row {
			field, ok := fields[col]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			empty = false
			switch field {
			case "name":
				product.Name = cell
			case "unit":
				product.Unit = cell
			case "unit_price":
				price, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid unit price %q", rowNum, cell)
				}
				product.UnitPrice = &price
			case "stock_qty":
				qty, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid stock quantity %q", rowNum, cell)
				}
				product.StockQty = qty
			}
		}
		if empty {
			continue
		}
		parsed = append(parsed, product)
	}
	return parsed, nil
}
