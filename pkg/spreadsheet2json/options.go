// Package spreadsheet2json converts spreadsheet workbooks into JSON documents.
package spreadsheet2json

import "strings"

// DefaultLocale is used when Options.Locale is empty.
const DefaultLocale = "en-US"

// Options configures document building.
type Options struct {
	// IncludeProperties specifies whether to include workbook properties.
	// If nil, defaults to true.
	IncludeProperties *bool
	// IncludeSheetInfo specifies whether to include sheet protection,
	// visibility and view state.
	IncludeSheetInfo bool
	// IncludeCellData specifies whether to include the cells of each sheet.
	// If nil, defaults to true.
	IncludeCellData *bool
	// IncludeCellFormat specifies whether to include the number format code
	// and id of each cell.
	IncludeCellFormat bool
	// IncludeCellRowColumn specifies whether to include numeric row and
	// column next to the cell address.
	IncludeCellRowColumn bool
	// ObjectShape renders sheets and cells as objects keyed by sheet name
	// and cell address instead of arrays.
	ObjectShape bool
	// SheetFilter lists the sheet names to include, matched
	// case-insensitively. Empty means all sheets.
	SheetFilter []string
	// Locale selects locale-specific format overrides and long date/time
	// patterns. Defaults to DefaultLocale.
	Locale string
	// InputPath is reported as Properties.Path.
	InputPath string
}

// DefaultOptions returns default build options.
func DefaultOptions() Options {
	return Options{Locale: DefaultLocale}
}

// ShouldIncludeProperties returns whether to include workbook properties.
func (o Options) ShouldIncludeProperties() bool {
	if o.IncludeProperties != nil {
		return *o.IncludeProperties
	}
	return true
}

// ShouldIncludeCellData returns whether to include cell data.
func (o Options) ShouldIncludeCellData() bool {
	if o.IncludeCellData != nil {
		return *o.IncludeCellData
	}
	return true
}

// EffectiveLocale returns the locale used for resolution.
func (o Options) EffectiveLocale() string {
	if o.Locale == "" {
		return DefaultLocale
	}
	return o.Locale
}

// MatchSheet reports whether the sheet passes the sheet filter.
func (o Options) MatchSheet(name string) bool {
	if len(o.SheetFilter) == 0 {
		return true
	}
	for _, s := range o.SheetFilter {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// ParseSheetFilter splits a colon-separated list of sheet names.
// Surrounding spaces and empty names are dropped.
func ParseSheetFilter(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ":") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
