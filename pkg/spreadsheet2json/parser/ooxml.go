package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
)

// Package parts read directly from the archive.
const (
	partWorkbook     = "xl/workbook.xml"
	partWorkbookRels = "xl/_rels/workbook.xml.rels"
	partStyles       = "xl/styles.xml"
)

// sheetEntry is one <sheet> element of the workbook part.
type sheetEntry struct {
	Name  string
	RID   string
	State string // "", "visible", "hidden" or "veryHidden"
}

// sheetMeta holds the worksheet part attributes excelize does not expose.
type sheetMeta struct {
	Protected         bool
	PasswordProtected bool
	TabSelected       bool
}

// styleSheet maps cell format (xf) indexes to number formats.
type styleSheet struct {
	xfNumFmt []int
	codes    map[int]string
}

// numFmt returns the number format id and custom format code of a cell
// style index. Built-in formats have an empty code.
func (s styleSheet) numFmt(xf int) (int, string) {
	if xf < 0 || xf >= len(s.xfNumFmt) {
		return 0, ""
	}
	id := s.xfNumFmt[xf]
	return id, s.codes[id]
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	return baseDir + "/" + target
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func xmlBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

// parseWorkbookSheets returns the sheets of the workbook part in order.
func parseWorkbookSheets(data []byte) []sheetEntry {
	var result []sheetEntry
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			entry := sheetEntry{
				Name:  attr(se, "name"),
				RID:   attr(se, "id"),
				State: attr(se, "state"),
			}
			if entry.Name != "" {
				result = append(result, entry)
			}
		}
	}

	return result
}

// parseWorkbookRels maps relationship ids to worksheet part paths.
func parseWorkbookRels(data []byte) map[string]string {
	result := make(map[string]string) // rId -> part path
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			rID, target := attr(se, "Id"), attr(se, "Target")
			if rID != "" && strings.Contains(strings.ToLower(target), "worksheet") {
				result[rID] = resolveRelativePath(target, "xl")
			}
		}
	}

	return result
}

// parseSheetMeta reads sheet protection and the selection state of the
// first sheet view. Cell data is skipped.
func parseSheetMeta(data []byte) sheetMeta {
	var meta sheetMeta
	decoder := xml.NewDecoder(bytes.NewReader(data))
	views := 0

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "sheetData":
			if err := decoder.Skip(); err != nil {
				return meta
			}
		case "sheetView":
			if views == 0 {
				meta.TabSelected = xmlBool(attr(se, "tabSelected"))
			}
			views++
		case "sheetProtection":
			meta.Protected = xmlBool(attr(se, "sheet"))
			meta.PasswordProtected = attr(se, "password") != "" || attr(se, "hashValue") != ""
		}
	}

	return meta
}

// parseStyles reads the numFmtId of every cellXfs entry and the custom
// number format codes.
func parseStyles(data []byte) styleSheet {
	styles := styleSheet{codes: make(map[int]string)}
	decoder := xml.NewDecoder(bytes.NewReader(data))
	inCellXfs := false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "numFmt":
				if id, err := strconv.Atoi(attr(t, "numFmtId")); err == nil {
					styles.codes[id] = attr(t, "formatCode")
				}
			case "cellXfs":
				inCellXfs = true
			case "xf":
				if inCellXfs {
					id, _ := strconv.Atoi(attr(t, "numFmtId"))
					styles.xfNumFmt = append(styles.xfNumFmt, id)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "cellXfs" {
				inCellXfs = false
			}
		}
	}

	return styles
}
