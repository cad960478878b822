// Package models defines data structures for spreadsheet to JSON conversion.
package models

import "fmt"

// CellType is the semantic type reported for a cell.
type CellType string

const (
	// TypeNumber is a plain numeric value.
	TypeNumber CellType = "Number"
	// TypeDateTime is a numeric serial displayed as a date and/or time.
	TypeDateTime CellType = "DateTime"
	// TypeText is a string value.
	TypeText CellType = "Text"
	// TypeBoolean is a TRUE/FALSE value.
	TypeBoolean CellType = "Boolean"
	// TypeError is a spreadsheet error value such as #DIV/0!.
	TypeError CellType = "Error"
)

// ParseCellType converts a type name into a CellType.
func ParseCellType(s string) (CellType, error) {
	switch t := CellType(s); t {
	case TypeNumber, TypeDateTime, TypeText, TypeBoolean, TypeError:
		return t, nil
	}
	return "", fmt.Errorf("unknown cell type %q", s)
}

// Cell represents a single cell in the output document.
type Cell struct {
	// Address is the A1-style cell reference.
	Address string `json:"Address"`
	// Row is the 1-based row number (only with row/column output enabled).
	Row *int `json:"Row,omitempty"`
	// Column is the 1-based column number (only with row/column output enabled).
	Column *int `json:"Column,omitempty"`
	// Text is the display string.
	Text string `json:"Text"`
	// Type is the semantic type.
	Type CellType `json:"Type"`
	// Formula is the A1-style formula without the leading '='.
	Formula string `json:"Formula,omitempty"`
	// Value is a JSON number for Number and DateTime cells, a string otherwise.
	Value any `json:"Value"`
	// Memo is the cell comment text.
	Memo string `json:"Memo,omitempty"`
	// NumberFormatFormat is the raw number format code (only with format output enabled).
	NumberFormatFormat *string `json:"NumberFormat_Format,omitempty"`
	// NumberFormatID is the number format id (only with format output enabled).
	NumberFormatID *int `json:"NumberFormat_Id,omitempty"`
}

// ResolvedCell is the outcome of type and text resolution for one cell.
type ResolvedCell struct {
	// Text is the display string.
	Text string
	// Type is the semantic type.
	Type CellType
}
