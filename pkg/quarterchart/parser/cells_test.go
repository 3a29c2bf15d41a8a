package parser

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadRows(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "B2", "Quartal")
	f.SetCellValue(sheetName, "C2", "Kategorie")
	f.SetCellValue(sheetName, "D2", "Anzahl Anschlüsse")
	f.SetCellValue(sheetName, "B3", "2020-Q1")
	f.SetCellValue(sheetName, "C3", "Glasfaser")
	f.SetCellValue(sheetName, "D3", 100)
	f.SetCellValue(sheetName, "B5", "2020-Q2")
	f.SetCellValue(sheetName, "C5", "Kabel")
	f.SetCellValue(sheetName, "D5", "1'234")
	f.SetCellValue(sheetName, "B6", "2020-Q3")
	f.SetCellValue(sheetName, "D6", 12.5)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	sheet, err := ReadRows(f2, sheetName)
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}

	if sheet.Range != "B2:D6" {
		t.Errorf("Expected range B2:D6, got %q", sheet.Range)
	}
	// Blank row 4 is skipped
	if len(sheet.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(sheet.Rows))
	}

	first := sheet.Rows[0]
	if first["Quartal"] != "2020-Q1" {
		t.Errorf("Expected '2020-Q1', got %v", first["Quartal"])
	}
	if first["Anzahl Anschlüsse"] != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", first["Anzahl Anschlüsse"], first["Anzahl Anschlüsse"])
	}
	if sheet.Rows[1]["Anzahl Anschlüsse"] != "1'234" {
		t.Errorf("Expected string \"1'234\", got %v", sheet.Rows[1]["Anzahl Anschlüsse"])
	}

	third := sheet.Rows[2]
	if v, ok := third["Kategorie"]; !ok || v != nil {
		t.Errorf("Expected nil Kategorie, got %v (present: %v)", v, ok)
	}
	if third["Anzahl Anschlüsse"] != 12.5 {
		t.Errorf("Expected 12.5, got %v", third["Anzahl Anschlüsse"])
	}
}

func TestReadRowsEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet, err := ReadRows(f, "Sheet1")
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if len(sheet.Rows) != 0 || sheet.Range != "" || sheet.Header != nil {
		t.Errorf("Expected empty result, got %+v", sheet)
	}
}

func TestReadRowsMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := ReadRows(f, "Nope"); err == nil {
		t.Error("Expected error for missing sheet")
	}
}

func TestHeaderNames(t *testing.T) {
	got := headerNames([]string{"A", " A ", "", "B", "", "A"}, 6)
	expected := []string{"A", "A_1", "__EMPTY", "B", "__EMPTY_1", "A_2", "__EMPTY_2"}

	if len(got) != len(expected) {
		t.Fatalf("headerNames returned %d names, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("headerNames()[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestFindDataBounds(t *testing.T) {
	rows := [][]string{
		{},
		{"", "x", ""},
		{"", "", "", "y"},
	}
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow != 1 || maxRow != 2 || minCol != 1 || maxCol != 3 {
		t.Errorf("findDataBounds = (%d, %d, %d, %d), expected (1, 2, 1, 3)", minRow, maxRow, minCol, maxCol)
	}

	minRow, _, _, _ = findDataBounds([][]string{{""}})
	if minRow != -1 {
		t.Errorf("Expected -1 for empty grid, got %d", minRow)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"1'234", "1'234"},
		{"hello", "hello"},
		{"", ""},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}
