package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReader_CSV_CommaDelimited(t *testing.T) {
	reader := NewReader()

	csvData := "Codigo Tango,Cantidad,Unidad\nA1,10,MT\nB2,5,PZA\n"
	rows, err := reader.Read(strings.NewReader(csvData), "retazos.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Codigo Tango"] != "A1" || rows[0]["Cantidad"] != "10" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1]["Unidad"] != "PZA" {
		t.Errorf("unexpected second row: %v", rows[1])
	}
}

func TestReader_CSV_SemicolonDelimited(t *testing.T) {
	reader := NewReader()

	csvData := "Codigo Tango;Cantidad;Unidad\nA1;10;MT\n"
	rows, err := reader.Read(strings.NewReader(csvData), "retazos.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["Cantidad"] != "10" {
		t.Errorf("expected delimiter sniffing to split fields, got %v", rows[0])
	}
}

func TestReader_CSV_Windows1252Fallback(t *testing.T) {
	reader := NewReader()

	// Encode a header containing "Ubicación" as Windows-1252.
	utf8Data := "Ubicación,Cantidad\nEST-01,3\n"
	encoded, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(utf8Data))
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}

	rows, err := reader.Read(bytes.NewReader(encoded), "retazos.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["Ubicación"] != "EST-01" {
		t.Errorf("expected the legacy-encoded header to decode, got %v", rows[0])
	}
}

func TestReader_CSV_SkipsEmptyRows(t *testing.T) {
	reader := NewReader()

	csvData := "Codigo Tango,Cantidad\nA1,10\n,\n  ,  \nB2,5\n"
	rows, err := reader.Read(strings.NewReader(csvData), "retazos.csv")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 2 {
		t.Errorf("expected empty rows to be skipped, got %d rows", len(rows))
	}
}

func TestReader_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]any{
		"A1": "Codigo Tango", "B1": "Cantidad", "C1": "Medida", "D1": "Unidad",
		"A2": "A1", "B2": 10, "C2": 500, "D2": "MT",
		"A3": "B2", "B3": 5, "C3": 0, "D3": "PZA",
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			t.Fatalf("failed to build workbook: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}

	reader := NewReader()
	rows, err := reader.Read(bytes.NewReader(buf.Bytes()), "retazos.xlsx")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["Codigo Tango"] != "A1" || rows[0]["Unidad"] != "MT" {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1]["Cantidad"] != "5" {
		t.Errorf("unexpected second row: %v", rows[1])
	}
}

func TestReader_UnsupportedExtension(t *testing.T) {
	reader := NewReader()

	if _, err := reader.Read(strings.NewReader("data"), "retazos.pdf"); err == nil {
		t.Error("expected error for unsupported file format")
	}
}
