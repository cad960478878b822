package parser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
)

func saveFile(t *testing.T, f *excelize.File) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func openFile(t *testing.T, path string) *Workbook {
	t.Helper()
	wb, err := Open(path, Options{Locale: "en-US"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { wb.Close() })
	return wb
}

func newStyle(t *testing.T, f *excelize.File, style *excelize.Style) int {
	t.Helper()
	id, err := f.NewStyle(style)
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}
	return id
}

func TestCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header")
	f.SetCellValue(sheetName, "B1", 100)
	f.SetCellValue(sheetName, "C1", 200.5)
	f.SetCellValue(sheetName, "A2", true)
	f.SetCellValue(sheetName, "B2", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC))

	dateCode := "yyyy/mm/dd"
	f.SetCellValue(sheetName, "C2", 44994)
	f.SetCellStyle(sheetName, "C2", "C2", newStyle(t, f, &excelize.Style{CustomNumFmt: &dateCode}))

	longDate := "[$-F800]dddd, mmmm dd, yyyy"
	f.SetCellValue(sheetName, "D2", 44994)
	f.SetCellStyle(sheetName, "D2", "D2", newStyle(t, f, &excelize.Style{CustomNumFmt: &longDate}))

	if err := f.AddComment(sheetName, excelize.Comment{
		Cell:      "A1",
		Author:    "tester",
		Paragraph: []excelize.RichTextRun{{Text: "Hello, "}, {Text: "world"}},
	}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if err := f.AddComment(sheetName, excelize.Comment{Cell: "E3", Author: "tester", Text: "note"}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	wb := openFile(t, saveFile(t, f))
	cells, err := wb.Cells(sheetName)
	if err != nil {
		t.Fatalf("Cells failed: %v", err)
	}

	expectedAddrs := []string{"A1", "B1", "C1", "A2", "B2", "C2", "D2", "E3"}
	if len(cells) != len(expectedAddrs) {
		t.Fatalf("Expected %d cells, got %d", len(expectedAddrs), len(cells))
	}
	for i, addr := range expectedAddrs {
		if cells[i].Address != addr {
			t.Errorf("cell %d address = %s, expected %s", i, cells[i].Address, addr)
		}
	}

	byAddr := make(map[string]models.RawCell)
	for _, c := range cells {
		byAddr[c.Address] = c
	}

	if c := byAddr["A1"]; c.Type != models.TypeText || c.Text != "Header" || c.Value.String() != "Header" {
		t.Errorf("A1 = %+v", c)
	}
	if c := byAddr["A1"]; c.Comment != "Hello, world" || c.Row != 1 || c.Column != 1 {
		t.Errorf("A1 comment/position = %q (%d,%d)", c.Comment, c.Row, c.Column)
	}
	if c := byAddr["B1"]; c.Type != models.TypeNumber || c.Text != "100" {
		t.Errorf("B1 = %+v", c)
	}
	if n, ok := byAddr["C1"].Value.Number(); !ok || n != 200.5 {
		t.Errorf("C1 value = %v, %v", n, ok)
	}
	if c := byAddr["A2"]; c.Type != models.TypeBoolean || c.Text != "TRUE" || c.Value.String() != "TRUE" {
		t.Errorf("A2 = %+v", c)
	}

	b2 := byAddr["B2"]
	if b2.Type != models.TypeDateTime {
		t.Errorf("B2 type = %s, expected DateTime", b2.Type)
	}
	if n, _ := b2.Value.Number(); n != 44994 {
		t.Errorf("B2 serial = %v, expected 44994", n)
	}
	if b2.FormatID != 14 || b2.FormatString != "" {
		t.Errorf("B2 format = (%d, %q), expected (14, \"\")", b2.FormatID, b2.FormatString)
	}

	c2 := byAddr["C2"]
	if c2.Type != models.TypeDateTime || c2.FormatString != dateCode || c2.FormatID < 164 {
		t.Errorf("C2 = %+v", c2)
	}

	d2 := byAddr["D2"]
	if d2.Type != models.TypeNumber || d2.FormatString != longDate {
		t.Errorf("D2 = %+v, expected Number with %q", d2, longDate)
	}

	e3 := byAddr["E3"]
	if e3.Comment != "note" || e3.Value.Kind() != models.KindBlank || e3.Row != 3 || e3.Column != 5 {
		t.Errorf("E3 = %+v", e3)
	}
}

func TestCellsDate1904(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	date1904 := true
	if err := f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &date1904}); err != nil {
		t.Fatalf("SetWorkbookProps failed: %v", err)
	}
	f.SetCellValue("Sheet1", "A1", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC))

	wb := openFile(t, saveFile(t, f))
	cells, err := wb.Cells("Sheet1")
	if err != nil {
		t.Fatalf("Cells failed: %v", err)
	}
	if len(cells) != 1 {
		t.Fatalf("Expected 1 cell, got %d", len(cells))
	}
	if n, _ := cells[0].Value.Number(); n != 43532 || !cells[0].Date1904 {
		t.Errorf("A1 = %v (1904: %v), expected 43532", n, cells[0].Date1904)
	}
}

func TestCellsEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	wb := openFile(t, saveFile(t, f))
	cells, err := wb.Cells("Sheet1")
	if err != nil {
		t.Fatalf("Cells failed: %v", err)
	}
	if len(cells) != 0 {
		t.Errorf("Expected no cells, got %d", len(cells))
	}
	if _, err := wb.Cells("Missing"); err == nil {
		t.Error("expected error for a missing sheet")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		typ       excelize.CellType
		raw       string
		id        int
		code      string
		date1904  bool
		kind      models.ValueKind
		cellType  models.CellType
		valueText string
	}{
		{"bool true", excelize.CellTypeBool, "1", 0, "", false, models.KindBoolean, models.TypeBoolean, "TRUE"},
		{"bool false", excelize.CellTypeBool, "0", 0, "", false, models.KindBoolean, models.TypeBoolean, "FALSE"},
		{"error", excelize.CellTypeError, "#DIV/0!", 0, "", false, models.KindError, models.TypeError, "#DIV/0!"},
		{"shared string", excelize.CellTypeSharedString, "abc", 0, "", false, models.KindText, models.TypeText, "abc"},
		{"inline string", excelize.CellTypeInlineString, "123", 0, "", false, models.KindText, models.TypeText, "123"},
		{"formula string", excelize.CellTypeFormula, "x", 0, "", false, models.KindText, models.TypeText, "x"},
		{"number", excelize.CellTypeUnset, "1.5", 0, "", false, models.KindNumber, models.TypeNumber, "1.5"},
		{"explicit number", excelize.CellTypeNumber, "-3", 2, "", false, models.KindNumber, models.TypeNumber, "-3"},
		{"built-in date", excelize.CellTypeUnset, "44994", 14, "", false, models.KindNumber, models.TypeDateTime, "44994"},
		{"custom date", excelize.CellTypeUnset, "44994", 164, "yyyy/m/d", false, models.KindNumber, models.TypeDateTime, "44994"},
		{"custom numeric", excelize.CellTypeUnset, "44994", 164, "#,##0", false, models.KindNumber, models.TypeNumber, "44994"},
		{"locale marker", excelize.CellTypeUnset, "44994", 165, "[$-F800]dddd", false, models.KindNumber, models.TypeNumber, "44994"},
		{"iso date", excelize.CellTypeDate, "2023-03-09T12:00:00Z", 0, "", false, models.KindNumber, models.TypeDateTime, "44994.5"},
		{"iso date 1904", excelize.CellTypeDate, "2023-03-09", 0, "", true, models.KindNumber, models.TypeDateTime, "43532"},
		{"bad iso date", excelize.CellTypeDate, "yesterday", 0, "", false, models.KindText, models.TypeText, "yesterday"},
		{"not a number", excelize.CellTypeUnset, "abc", 0, "", false, models.KindText, models.TypeText, "abc"},
		{"nan", excelize.CellTypeUnset, "NaN", 0, "", false, models.KindText, models.TypeText, "NaN"},
		{"blank", excelize.CellTypeUnset, "", 0, "", false, models.KindBlank, models.TypeText, ""},
	}

	for _, tt := range tests {
		v, typ := classify(tt.typ, tt.raw, tt.id, tt.code, tt.date1904)
		if v.Kind() != tt.kind || typ != tt.cellType || v.String() != tt.valueText {
			t.Errorf("%s: classify() = (%v %q, %s), expected (%v %q, %s)",
				tt.name, v.Kind(), v.String(), typ, tt.kind, tt.valueText, tt.cellType)
		}
	}
}
