// Package resolver decides the semantic type and display text of a cell.
package resolver

import (
	"strings"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/numfmt"
)

// Rendering selects how a marker rule produces the display text.
type Rendering uint8

const (
	// KeepText keeps the text rendered by the workbook reader.
	KeepText Rendering = iota
	// LongTime renders the value with the long time pattern of the locale.
	LongTime
	// LongDate renders the value with the long date pattern of the locale.
	LongDate
)

// Rule reclassifies a numeric cell whose format code contains Marker as a
// date/time.
type Rule struct {
	Marker    string
	Rendering Rendering
}

// DefaultRules are evaluated in order; the first marker found in the format
// code wins.
var DefaultRules = []Rule{
	{Marker: "[$-F400]", Rendering: LongTime},
	{Marker: "[$-409]", Rendering: KeepText},
	// TODO: render [$-411] codes with the Japanese imperial calendar (ggge).
	{Marker: "[$-411]", Rendering: KeepText},
	{Marker: "[$-F800]", Rendering: LongDate},
}

// Resolver maps raw cells to resolved cells. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	table *numfmt.Table
	rules []Rule
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRules replaces the marker rules.
func WithRules(rules []Rule) Option {
	return func(r *Resolver) {
		r.rules = append([]Rule(nil), rules...)
	}
}

// New creates a Resolver backed by table. A nil table means the built-in
// table.
func New(table *numfmt.Table, opts ...Option) *Resolver {
	if table == nil {
		table = numfmt.DefaultTable()
	}
	r := &Resolver{table: table, rules: DefaultRules}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the type and text to report for cell under locale.
//
// A locale override for the format id is applied first. Otherwise numeric
// cells the reader typed as Number are checked against the marker rules in
// order. Cells matching neither keep the reader's type and text. Only
// numeric values are ever reinterpreted.
func (r *Resolver) Resolve(cell models.RawCell, locale string) models.ResolvedCell {
	fallback := models.ResolvedCell{Text: cell.Text, Type: cell.Type}

	serial, ok := cell.Value.Number()
	if !ok {
		return fallback
	}

	// Overrides render with invariant names.
	if o, ok := r.table.Lookup(locale, cell.FormatID); ok {
		return models.ResolvedCell{
			Text: o.Pattern.FormatSerial(serial, nil, cell.Date1904),
			Type: o.Type,
		}
	}

	if cell.Type != models.TypeNumber || cell.FormatString == "" {
		return fallback
	}
	for _, rule := range r.rules {
		if !strings.Contains(cell.FormatString, rule.Marker) {
			continue
		}
		text := cell.Text
		switch rule.Rendering {
		case LongTime:
			loc := r.table.Locale(locale)
			text = loc.LongTime.FormatSerial(serial, loc, cell.Date1904)
		case LongDate:
			loc := r.table.Locale(locale)
			text = loc.LongDate.FormatSerial(serial, loc, cell.Date1904)
		}
		return models.ResolvedCell{Text: text, Type: models.TypeDateTime}
	}
	return fallback
}
