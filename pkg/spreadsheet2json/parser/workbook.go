// Package parser reads xlsx workbooks into raw cells and sheet metadata.
package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
)

// Options configures how a workbook is opened.
type Options struct {
	// Locale selects the culture excelize uses to render built-in
	// date/time formats.
	Locale string
}

// Workbook is an open xlsx workbook.
type Workbook struct {
	f        *excelize.File
	zr       *zip.Reader
	sheets   []sheetEntry
	parts    map[string]string // rId -> worksheet part
	styles   styleSheet
	date1904 bool
}

// Open reads the workbook at path.
func Open(path string, opts Options) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data, opts)
}

// OpenBytes reads a workbook from its file contents.
func OpenBytes(data []byte, opts Options) (*Workbook, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{
		CultureInfo: cultureName(opts.Locale),
	})
	if err != nil {
		return nil, err
	}

	wb := &Workbook{f: f, zr: zr}
	if err := wb.load(); err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

func (w *Workbook) load() error {
	workbookXML, err := readZipFile(w.zr, partWorkbook)
	if err != nil {
		return fmt.Errorf("read %s: %w", partWorkbook, err)
	}
	w.sheets = parseWorkbookSheets(workbookXML)

	relsXML, err := readZipFile(w.zr, partWorkbookRels)
	if err != nil {
		return fmt.Errorf("read %s: %w", partWorkbookRels, err)
	}
	w.parts = parseWorkbookRels(relsXML)

	stylesXML, err := readZipFile(w.zr, partStyles)
	if err != nil {
		return fmt.Errorf("read %s: %w", partStyles, err)
	}
	w.styles = parseStyles(stylesXML)

	props, err := w.f.GetWorkbookProps()
	if err != nil {
		return fmt.Errorf("workbook properties: %w", err)
	}
	w.date1904 = props.Date1904 != nil && *props.Date1904
	return nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Properties returns the document core and application properties. Path is
// left to the caller.
func (w *Workbook) Properties() (models.Properties, error) {
	core, err := w.f.GetDocProps()
	if err != nil {
		return models.Properties{}, fmt.Errorf("core properties: %w", err)
	}
	app, err := w.f.GetAppProps()
	if err != nil {
		return models.Properties{}, fmt.Errorf("app properties: %w", err)
	}
	return models.Properties{
		Author:         core.Creator,
		LastModifiedBy: core.LastModifiedBy,
		Company:        app.Company,
	}, nil
}

// SheetInfo returns protection, visibility and view state of a sheet.
func (w *Workbook) SheetInfo(sheet string) (models.SheetInfo, error) {
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return models.SheetInfo{}, err
	}
	if idx < 0 {
		return models.SheetInfo{}, excelize.ErrSheetNotExist{SheetName: sheet}
	}

	info := models.SheetInfo{
		Visible:    true,
		Visibility: models.VisibilityVisible,
		Active:     w.f.GetActiveSheetIndex() == idx,
		ZoomScale:  100,
	}

	var entry sheetEntry
	for _, e := range w.sheets {
		if e.Name == sheet {
			entry = e
			break
		}
	}
	switch entry.State {
	case "hidden":
		info.Visible, info.Visibility = false, models.VisibilityHidden
	case "veryHidden":
		info.Visible, info.Visibility = false, models.VisibilityVeryHidden
	}

	if part, ok := w.parts[entry.RID]; ok {
		data, err := readZipFile(w.zr, part)
		if err != nil {
			return info, fmt.Errorf("read %s: %w", part, err)
		}
		meta := parseSheetMeta(data)
		info.Protected = meta.Protected
		info.PasswordProtected = meta.PasswordProtected
		info.Selected = meta.TabSelected
	}

	if view, err := w.f.GetSheetView(sheet, 0); err == nil && view.ZoomScale != nil && *view.ZoomScale > 0 {
		info.ZoomScale = int(math.Round(*view.ZoomScale))
	}

	return info, nil
}

// cultureName maps a locale id to the excelize culture used for built-in
// date/time formats.
func cultureName(locale string) excelize.CultureName {
	name := numfmt.CanonicalLocale(locale)
	if name == "" {
		return excelize.CultureNameUnknown
	}
	tag, err := language.Parse(name)
	if err != nil {
		return excelize.CultureNameUnknown
	}
	base, _ := tag.Base()
	switch base.String() {
	case "en":
		if region, _ := tag.Region(); region.String() == "US" {
			return excelize.CultureNameEnUS
		}
	case "ja":
		return excelize.CultureNameJaJP
	case "ko":
		return excelize.CultureNameKoKR
	case "zh":
		if script, _ := tag.Script(); script.String() == "Hant" {
			return excelize.CultureNameZhTW
		}
		return excelize.CultureNameZhCN
	}
	return excelize.CultureNameUnknown
}
