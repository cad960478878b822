package parser

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
)

// isoDateLayouts are the layouts of t="d" cell values.
var isoDateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

type cellPos struct {
	col, row int
	raw      string
}

// Cells returns the used cells of a sheet in row-major order. A cell is used
// when it holds a value or a comment.
func (w *Workbook) Cells(sheet string) ([]models.RawCell, error) {
	rows, err := w.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	memos, err := w.comments(sheet)
	if err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}

	var positions []cellPos
	seen := make(map[string]bool)
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return nil, err
			}
			seen[name] = true
			positions = append(positions, cellPos{col: colIdx + 1, row: rowIdx + 1, raw: value})
		}
	}
	for name := range memos {
		if seen[name] {
			continue
		}
		col, row, err := excelize.CellNameToCoordinates(name)
		if err != nil {
			return nil, err
		}
		positions = append(positions, cellPos{col: col, row: row})
	}
	slices.SortFunc(positions, func(a, b cellPos) int {
		return cmp.Or(cmp.Compare(a.row, b.row), cmp.Compare(a.col, b.col))
	})

	result := make([]models.RawCell, 0, len(positions))
	for _, pos := range positions {
		cell, err := w.readCell(sheet, pos)
		if err != nil {
			return nil, err
		}
		cell.Comment = memos[cell.Address]
		result = append(result, cell)
	}

	return result, nil
}

func (w *Workbook) readCell(sheet string, pos cellPos) (models.RawCell, error) {
	name, err := excelize.CoordinatesToCellName(pos.col, pos.row)
	if err != nil {
		return models.RawCell{}, err
	}
	cell := models.RawCell{
		Address:  name,
		Row:      pos.row,
		Column:   pos.col,
		Date1904: w.date1904,
	}

	typ, err := w.f.GetCellType(sheet, name)
	if err != nil {
		return cell, fmt.Errorf("%s: type: %w", name, err)
	}
	if cell.Text, err = w.f.GetCellValue(sheet, name); err != nil {
		return cell, fmt.Errorf("%s: value: %w", name, err)
	}
	if cell.Formula, err = w.f.GetCellFormula(sheet, name); err != nil {
		return cell, fmt.Errorf("%s: formula: %w", name, err)
	}
	style, err := w.f.GetCellStyle(sheet, name)
	if err != nil {
		return cell, fmt.Errorf("%s: style: %w", name, err)
	}
	cell.FormatID, cell.FormatString = w.styles.numFmt(style)
	cell.Value, cell.Type = classify(typ, pos.raw, cell.FormatID, cell.FormatString, w.date1904)

	return cell, nil
}

// comments returns the comment text of each commented cell. Rich text runs
// are concatenated.
func (w *Workbook) comments(sheet string) (map[string]string, error) {
	list, err := w.f.GetComments(sheet)
	if err != nil {
		return nil, err
	}
	result := make(map[string]string, len(list))
	for _, c := range list {
		var sb strings.Builder
		sb.WriteString(c.Text)
		for _, run := range c.Paragraph {
			sb.WriteString(run.Text)
		}
		if sb.Len() > 0 {
			result[c.Cell] = sb.String()
		}
	}
	return result, nil
}

// classify turns the stored value of a cell into a typed value and the
// reader's naive type. Numbers are DateTime when their format displays a
// date or time; codes with a [$-xxxx] marker stay Number.
func classify(typ excelize.CellType, raw string, formatID int, formatCode string, date1904 bool) (models.Value, models.CellType) {
	switch typ {
	case excelize.CellTypeBool:
		return models.BoolValue(raw == "1" || strings.EqualFold(raw, "true")), models.TypeBoolean
	case excelize.CellTypeError:
		return models.ErrorValue(raw), models.TypeError
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return models.TextValue(raw), models.TypeText
	case excelize.CellTypeDate:
		if t, ok := parseISODate(raw); ok {
			return models.NumberValue(numfmt.TimeToSerial(t, date1904)), models.TypeDateTime
		}
		return models.TextValue(raw), models.TypeText
	}

	if raw == "" {
		return models.BlankValue(), models.TypeText
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return models.TextValue(raw), models.TypeText
	}
	if numfmt.IsDateFormat(formatID, formatCode) {
		return models.NumberValue(n), models.TypeDateTime
	}
	return models.NumberValue(n), models.TypeNumber
}

func parseISODate(s string) (time.Time, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
