package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/xuri/excelize/v2"
)

// isolate keeps the user's config file and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"LC_ALL", "LANG",
		"S2J_LOCALE", "S2J_INDENT", "S2J_ENCODE", "S2J_OBJECT_FORMAT", "S2J_OVERRIDES_FILE",
	} {
		t.Setenv(key, "")
	}
	color.NoColor = true
}

func createTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "日付")
	f.SetCellValue("Sheet1", "B1", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC))
	f.SetCellValue("Sheet1", "C1", 42)
	if _, err := f.NewSheet("Second"); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}
	f.SetCellValue("Second", "A1", true)

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

type arrayDoc struct {
	Properties *struct{ Path string }
	Workbook   struct {
		Sheets []struct {
			Name  string
			Cells []struct {
				Address string
				Text    string
				Type    string
				Value   any
			}
		}
	}
	Tool struct{ Name, Version string }
}

func TestExecuteStdout(t *testing.T) {
	isolate(t)
	path := createTestWorkbook(t)

	var stdout, stderr bytes.Buffer
	code := execute([]string{path, "--locale", "ja-JP", "--no-indent", "--no-properties", "--sheets", "sheet1"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}

	out := stdout.Bytes()
	if !bytes.HasSuffix(out, []byte("}\n")) || bytes.Count(out, []byte("\n")) != 1 {
		t.Errorf("expected compact JSON with one trailing newline, got %q", out)
	}
	if !bytes.Contains(out, []byte(`\u65E5\u4ED8`)) {
		t.Errorf("expected escaped non-ASCII text, got %s", out)
	}

	var doc arrayDoc
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.Properties != nil {
		t.Errorf("Properties = %+v, expected none", doc.Properties)
	}
	if doc.Tool.Name != "Spreadsheet to Json" {
		t.Errorf("Tool.Name = %q", doc.Tool.Name)
	}
	if len(doc.Workbook.Sheets) != 1 || doc.Workbook.Sheets[0].Name != "Sheet1" {
		t.Fatalf("Sheets = %+v, expected only Sheet1", doc.Workbook.Sheets)
	}

	cells := doc.Workbook.Sheets[0].Cells
	if len(cells) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(cells))
	}
	if cells[0].Text != "日付" || cells[0].Type != "Text" {
		t.Errorf("A1 = %+v", cells[0])
	}
	if cells[1].Text != "2023/3/9" || cells[1].Type != "DateTime" || cells[1].Value != 44994.0 {
		t.Errorf("B1 = %+v", cells[1])
	}
}

func TestExecuteOutputFile(t *testing.T) {
	isolate(t)
	path := createTestWorkbook(t)
	outPath := filepath.Join(t.TempDir(), "out.json")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-i", path, "-o", outPath, "--object-format", "--no-encode", "--locale", "ja-JP"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Contains(data, []byte("日付")) {
		t.Errorf("expected raw UTF-8 text with --no-encode")
	}
	if !bytes.Contains(data, []byte("\n  \"Workbook\"")) {
		t.Errorf("expected indented JSON, got %s", data)
	}

	var doc struct {
		Properties struct{ Path string }
		Workbook   struct {
			Sheets map[string]struct {
				Cells map[string]struct {
					Text string
					Type string
				}
			}
		}
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	abs, _ := filepath.Abs(path)
	if doc.Properties.Path != abs {
		t.Errorf("Properties.Path = %q, expected %q", doc.Properties.Path, abs)
	}
	second, ok := doc.Workbook.Sheets["Second"]
	if !ok {
		t.Fatalf("Second missing from %v", doc.Workbook.Sheets)
	}
	if a1 := second.Cells["A1"]; a1.Text != "TRUE" || a1.Type != "Boolean" {
		t.Errorf("Second!A1 = %+v", a1)
	}
}

func TestExecuteConfigOverrides(t *testing.T) {
	isolate(t)
	path := createTestWorkbook(t)
	dir := t.TempDir()

	overrides := filepath.Join(dir, "overrides.yaml")
	if err := os.WriteFile(overrides, []byte("locales:\n  en-GB:\n    overrides:\n      14: {pattern: 'dd/mm/yyyy', type: DateTime}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("locale: en-GB\nindent: false\noverrides_file: %s\n", overrides)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := execute([]string{path, "--config", cfgPath, "--sheets", "Sheet1"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if bytes.Count(stdout.Bytes(), []byte("\n")) != 1 {
		t.Errorf("expected compact JSON from config, got %s", stdout.String())
	}

	var doc arrayDoc
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	b1 := doc.Workbook.Sheets[0].Cells[1]
	if b1.Address != "B1" || b1.Text != "09/03/2023" {
		t.Errorf("B1 = %+v, expected 09/03/2023", b1)
	}
}

func TestExecuteErrors(t *testing.T) {
	isolate(t)
	path := createTestWorkbook(t)
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"no input", nil, "no input file given"},
		{"missing file", []string{filepath.Join(dir, "missing.xlsx")}, "file not found"},
		{"not a workbook", []string{dir}, "invalid"},
		{"two inputs", []string{"-i", path, filepath.Join(dir, "other.xlsx")}, "input given twice"},
		{"missing config", []string{path, "--config", filepath.Join(dir, "none.yaml")}, "read config"},
		{"unknown flag", []string{path, "--pretty"}, "unknown flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := execute(tt.args, &stdout, &stderr)
			if code != 1 {
				t.Errorf("exit code = %d, expected 1", code)
			}
			if stdout.Len() != 0 {
				t.Errorf("expected no output, got %q", stdout.String())
			}
			msg := stderr.String()
			if !strings.HasPrefix(msg, "Error: ") || !strings.Contains(strings.ToLower(msg), tt.expected) {
				t.Errorf("stderr = %q, expected error containing %q", msg, tt.expected)
			}
		})
	}
}

func TestPrintErrorDebug(t *testing.T) {
	color.NoColor = true
	base := errors.New("zip: not a valid zip file")
	err := fmt.Errorf("open book.xlsx: %w", base)

	var buf bytes.Buffer
	printError(&buf, err, false)
	if buf.String() != "Error: open book.xlsx: zip: not a valid zip file\n" {
		t.Errorf("plain error = %q", buf.String())
	}

	buf.Reset()
	printError(&buf, err, true)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	expected := []string{
		"Error: open book.xlsx: zip: not a valid zip file",
		"  *fmt.wrapError: open book.xlsx: zip: not a valid zip file",
		"    *errors.errorString: zip: not a valid zip file",
	}
	if strings.Join(lines, "\n") != strings.Join(expected, "\n") {
		t.Errorf("debug error =\n%s\nexpected\n%s", buf.String(), strings.Join(expected, "\n"))
	}
}
