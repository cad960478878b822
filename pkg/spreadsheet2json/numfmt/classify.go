// Package numfmt resolves the date/time side of spreadsheet number formats:
// it classifies format codes, converts date serials and renders date/time
// patterns with per-locale data.
//
// Format codes are tokenized with [github.com/xuri/nfp] for classification;
// rendering covers only the date/time placeholders documented on [Compile].
package numfmt

import (
	"strings"

	"github.com/xuri/nfp"
)

// IsBuiltInDateID reports whether id is a built-in numFmtId that represents
// a date, time or datetime format.
//
//	14–22   date and time formats (18–21 are time-only)
//	27–36   locale-specific CJK date formats
//	45–47   elapsed-time / seconds formats
//	50–58   locale-specific CJK date formats (variant set)
func IsBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// HasLocaleMarker reports whether code carries a [$-xxxx] locale or calendar
// marker.
func HasLocaleMarker(code string) bool {
	return strings.Contains(code, "[$-")
}

// IsDateFormat reports whether a numeric cell with this format displays as a
// date or time. An empty code means the built-in format for id.
//
// Codes with a locale marker are reported as non-date: their rendering
// depends on the target locale and is left to the cell resolver.
func IsDateFormat(id int, code string) bool {
	if code == "" {
		return IsBuiltInDateID(id)
	}
	if HasLocaleMarker(code) {
		return false
	}
	ps := nfp.NumberFormatParser()
	for _, sec := range ps.Parse(code) {
		for _, tok := range sec.Items {
			switch tok.TType {
			case nfp.TokenTypeDateTimes, nfp.TokenTypeElapsedDateTimes:
				return true
			}
		}
	}
	return false
}
