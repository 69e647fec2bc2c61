package excel

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestParseProductSheet(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"Name", "Unit", "Unit Price", "Stock"},
		{"Cement 50kg", "bag", 8.5, 120},
		{"Rebar 12mm", "pc", "", 40},
		{"", "", "", ""},
		{"Sand", "m3", 15, ""},
	})

	rows, err := ParseProductSheet(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3 (empty row skipped)", len(rows))
	}

	if rows[0].Name != "Cement 50kg" || rows[0].Unit != "bag" {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[0].UnitPrice == nil || *rows[0].UnitPrice != 8.5 {
		t.Errorf("row 0 price = %v, want 8.5", rows[0].UnitPrice)
	}
	if rows[0].StockQty != 120 {
		t.Errorf("row 0 stock = %v, want 120", rows[0].StockQty)
	}

	// blank price cell stays nil rather than becoming zero
	if rows[1].UnitPrice != nil {
		t.Errorf("row 1 price = %v, want nil", *rows[1].UnitPrice)
	}
}

func TestParseProductSheetHeaderAliases(t *testing.T) {
	buf := buildSheet(t, [][]interface{}{
		{"product", "UNIT", "price", "quantity"},
		{"Gravel", "m3", 12, 7},
	})

	rows, err := ParseProductSheet(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].Name != "Gravel" || rows[0].StockQty != 7 {
		t.Errorf("row = %+v", rows[0])
	}
}

func TestParseProductSheetErrors(t *testing.T) {
	t.Run("missing name column", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"Unit", "Price"},
			{"bag", 8},
		})
		if _, err := ParseProductSheet(buf); err == nil {
			t.Fatal("expected an error for a sheet without a name column")
		}
	})

	t.Run("numeric typo fails the sheet", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"Name", "Price"},
			{"Cement", "eight"},
		})
		if _, err := ParseProductSheet(buf); err == nil {
			t.Fatal("expected an error for a non-numeric price")
		}
	})

	t.Run("header only", func(t *testing.T) {
		buf := buildSheet(t, [][]interface{}{
			{"Name", "Price"},
		})
		if _, err := ParseProductSheet(buf); err == nil {
			t.Fatal("expected an error for a sheet with no data rows")
		}
	})

	t.Run("not a workbook", func(t *testing.T) {
		if _, err := ParseProductSheet(bytes.NewBufferString("plain text")); err == nil {
			t.Fatal("expected an error for a non-xlsx payload")
		}
	})
}
