package models

import "strconv"

// ValueKind identifies which variant a Value holds.
type ValueKind uint8

const (
	KindBlank ValueKind = iota
	KindNumber
	KindText
	KindBoolean
	KindError
)

// Value is the stored value of a cell. Exactly one variant is populated,
// selected by Kind.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	b    bool
}

// NumberValue returns a numeric value. Date/time cells store their serial here.
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// TextValue returns a string value.
func TextValue(s string) Value { return Value{kind: KindText, str: s} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: KindBoolean, b: b} }

// ErrorValue returns an error value holding the error code, e.g. "#DIV/0!".
func ErrorValue(code string) Value { return Value{kind: KindError, str: code} }

// BlankValue returns an empty value.
func BlankValue() Value { return Value{} }

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// Number returns the unified number and true when v is numeric.
func (v Value) Number() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders the value the way it appears in the JSON "Value" field of
// non-numeric cells.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText, KindError:
		return v.str
	case KindBoolean:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	}
	return ""
}

// RawCell is the snapshot of one used cell as read from the workbook, before
// resolution.
type RawCell struct {
	// Address is the A1-style cell reference.
	Address string
	// Row is the 1-based row number.
	Row int
	// Column is the 1-based column number.
	Column int
	// Value is the stored value.
	Value Value
	// Type is the classification made by the workbook reader.
	Type CellType
	// Text is the display string rendered by the workbook reader.
	Text string
	// FormatID is the number format id of the cell style.
	FormatID int
	// FormatString is the custom number format code; empty for built-in ids.
	FormatString string
	// Formula is the cell formula, if any.
	Formula string
	// Comment is the cell comment text, if any.
	Comment string
	// Date1904 reports whether serials use the 1904 date system.
	Date1904 bool
}
