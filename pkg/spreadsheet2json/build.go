package spreadsheet2json

import (
	"log/slog"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/resolver"
)

// ToolName is reported in the Tool section of every document.
const ToolName = "Spreadsheet to Json"

// Version is the tool version, set at build time with
// -ldflags "-X github.com/mas3/spreadsheet2json/pkg/spreadsheet2json.Version=...".
var Version = "dev"

// Workbook is the read side of a workbook. Sheets are addressed by name.
type Workbook interface {
	Properties() (models.Properties, error)
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	SheetInfo(sheet string) (models.SheetInfo, error)
	// Cells returns the used cells of a sheet in row-major order.
	Cells(sheet string) ([]models.RawCell, error)
}

// Converter builds documents from workbooks.
type Converter struct {
	resolver *resolver.Resolver
	logger   *slog.Logger
}

// ConverterOption configures a Converter.
type ConverterOption func(*Converter)

// WithTable resolves cells against table instead of the built-in one.
func WithTable(table *numfmt.Table) ConverterOption {
	return func(c *Converter) {
		c.resolver = resolver.New(table)
	}
}

// WithResolver sets the cell resolver.
func WithResolver(r *resolver.Resolver) ConverterOption {
	return func(c *Converter) {
		c.resolver = r
	}
}

// WithLogger sets the logger for progress messages.
func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = l
	}
}

// NewConverter creates a Converter using the built-in locale table.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(c)
	}
	if c.resolver == nil {
		c.resolver = resolver.New(nil)
	}
	return c
}

// Build assembles the document for wb.
func (c *Converter) Build(wb Workbook, opts Options) (*models.Document, error) {
	doc := &models.Document{
		Tool: models.Tool{Name: ToolName, Version: Version},
	}

	if opts.ShouldIncludeProperties() {
		props, err := wb.Properties()
		if err != nil {
			return nil, NewExtractionError("", "properties", err)
		}
		props.Path = opts.InputPath
		doc.Properties = &props
	}

	locale := opts.EffectiveLocale()
	sheets := models.NewCollection[models.Sheet](opts.ObjectShape)
	for _, name := range wb.SheetNames() {
		if !opts.MatchSheet(name) {
			c.logger.Debug("sheet skipped by filter", "sheet", name)
			continue
		}
		sheet, err := c.buildSheet(wb, name, locale, opts)
		if err != nil {
			return nil, err
		}
		sheets.Add(name, sheet)
	}
	doc.Workbook.Sheets = sheets
	c.logger.Debug("document built", "sheets", sheets.Len(), "locale", locale)

	return doc, nil
}

func (c *Converter) buildSheet(wb Workbook, name, locale string, opts Options) (models.Sheet, error) {
	sheet := models.Sheet{Name: name}

	if opts.IncludeSheetInfo {
		info, err := wb.SheetInfo(name)
		if err != nil {
			return sheet, NewExtractionError(name, "sheet_info", err)
		}
		sheet.SheetInfo = &info
	}

	if !opts.ShouldIncludeCellData() {
		return sheet, nil
	}

	raws, err := wb.Cells(name)
	if err != nil {
		return sheet, NewExtractionError(name, "cells", err)
	}
	cells := models.NewCollection[models.Cell](opts.ObjectShape)
	for _, raw := range raws {
		cells.Add(raw.Address, c.buildCell(raw, locale, opts))
	}
	sheet.Cells = cells
	c.logger.Debug("sheet built", "sheet", name, "cells", cells.Len())

	return sheet, nil
}

func (c *Converter) buildCell(raw models.RawCell, locale string, opts Options) models.Cell {
	res := c.resolver.Resolve(raw, locale)
	cell := models.Cell{
		Address: raw.Address,
		Text:    res.Text,
		Type:    res.Type,
		Formula: raw.Formula,
		Value:   cellValue(raw.Value, res.Type),
		Memo:    raw.Comment,
	}
	if opts.IncludeCellRowColumn {
		row, col := raw.Row, raw.Column
		cell.Row, cell.Column = &row, &col
	}
	if opts.IncludeCellFormat {
		code, id := raw.FormatString, raw.FormatID
		cell.NumberFormatFormat, cell.NumberFormatID = &code, &id
	}
	return cell
}

// cellValue returns the unified number for Number and DateTime cells and
// the string form of the value otherwise.
func cellValue(v models.Value, typ models.CellType) any {
	if typ == models.TypeNumber || typ == models.TypeDateTime {
		if n, ok := v.Number(); ok {
			return n
		}
	}
	return v.String()
}
