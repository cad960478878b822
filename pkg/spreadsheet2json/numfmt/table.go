package numfmt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mas3/spreadsheet2json/pkg/spreadsheet2json/models"
)

//go:embed locales.yaml
var localesYAML []byte

// Override replaces the rendering of a built-in format id for one locale.
type Override struct {
	// Pattern is the date/time pattern rendered in place of the built-in format.
	Pattern Pattern
	// Type is the semantic type reported for cells using the format id.
	Type models.CellType
}

// Locale holds host date/time formatting data for one locale.
type Locale struct {
	// Name is the canonical locale id, empty for the invariant locale.
	Name string
	// LongDate is the long date pattern used for [$-F800] formats.
	LongDate Pattern
	// LongTime is the long time pattern used for [$-F400] formats.
	LongTime Pattern
	MonthNames []string
	MonthAbbr  []string
	DayNames   []string
	DayAbbr    []string
	AM, PM     string

	overrides map[int]Override
}

func (l *Locale) designator(t time.Time) string {
	if t.Hour() < 12 {
		return l.AM
	}
	return l.PM
}

var invariantLocale = sync.OnceValue(func() *Locale {
	return &Locale{
		LongDate:   Compile("dddd, dd mmmm yyyy"),
		LongTime:   Compile("hh:mm:ss"),
		MonthNames: []string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
		MonthAbbr:  []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
		DayNames:   []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		DayAbbr:    []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		AM:         "AM",
		PM:         "PM",
	}
})

// Table maps locales to their format overrides and host formatting data.
// A Table is immutable once built and safe for concurrent use.
type Table struct {
	src     tableFile
	locales map[string]*Locale
	names   []string
	matcher language.Matcher
}

type tableFile struct {
	Locales map[string]localeEntry `yaml:"locales"`
}

type localeEntry struct {
	LongDate   string                `yaml:"long_date"`
	LongTime   string                `yaml:"long_time"`
	AMPM       []string              `yaml:"am_pm"`
	MonthNames []string              `yaml:"month_names"`
	MonthAbbr  []string              `yaml:"month_abbr"`
	DayNames   []string              `yaml:"day_names"`
	DayAbbr    []string              `yaml:"day_abbr"`
	Overrides  map[int]overrideEntry `yaml:"overrides"`
}

type overrideEntry struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
}

// DefaultTable returns the built-in table. It is decoded on first use.
var DefaultTable = sync.OnceValue(func() *Table {
	t, err := LoadTable(bytes.NewReader(localesYAML))
	if err != nil {
		panic(fmt.Sprintf("numfmt: built-in locale table: %v", err))
	}
	return t
})

// LoadTable decodes a YAML locale table. An empty document yields an empty
// table.
func LoadTable(r io.Reader) (*Table, error) {
	var f tableFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode locale table: %w", err)
	}
	return newTable(f)
}

func newTable(f tableFile) (*Table, error) {
	t := &Table{src: f, locales: make(map[string]*Locale, len(f.Locales))}
	var tags []language.Tag
	for _, key := range slices.Sorted(maps.Keys(f.Locales)) {
		name := CanonicalLocale(key)
		if name == "" {
			return nil, fmt.Errorf("locale %q: invalid locale id", key)
		}
		if _, dup := t.locales[name]; dup {
			return nil, fmt.Errorf("locale %q: duplicate of %s", key, name)
		}
		loc, err := newLocale(name, f.Locales[key])
		if err != nil {
			return nil, fmt.Errorf("locale %q: %w", key, err)
		}
		t.locales[name] = loc
		t.names = append(t.names, name)
		tags = append(tags, language.MustParse(name))
	}
	if len(tags) > 0 {
		t.matcher = language.NewMatcher(tags)
	}
	return t, nil
}

func newLocale(name string, e localeEntry) (*Locale, error) {
	inv := invariantLocale()
	loc := &Locale{
		Name:       name,
		LongDate:   inv.LongDate,
		LongTime:   inv.LongTime,
		MonthNames: inv.MonthNames,
		MonthAbbr:  inv.MonthAbbr,
		DayNames:   inv.DayNames,
		DayAbbr:    inv.DayAbbr,
		AM:         inv.AM,
		PM:         inv.PM,
		overrides:  make(map[int]Override, len(e.Overrides)),
	}
	if e.LongDate != "" {
		loc.LongDate = Compile(e.LongDate)
	}
	if e.LongTime != "" {
		loc.LongTime = Compile(e.LongTime)
	}
	lists := []struct {
		field string
		src   []string
		dst   *[]string
		n     int
	}{
		{"month_names", e.MonthNames, &loc.MonthNames, 12},
		{"month_abbr", e.MonthAbbr, &loc.MonthAbbr, 12},
		{"day_names", e.DayNames, &loc.DayNames, 7},
		{"day_abbr", e.DayAbbr, &loc.DayAbbr, 7},
	}
	for _, l := range lists {
		if l.src == nil {
			continue
		}
		if len(l.src) != l.n {
			return nil, fmt.Errorf("%s: expected %d entries, got %d", l.field, l.n, len(l.src))
		}
		*l.dst = l.src
	}
	if e.AMPM != nil {
		if len(e.AMPM) != 2 {
			return nil, fmt.Errorf("am_pm: expected 2 entries, got %d", len(e.AMPM))
		}
		loc.AM, loc.PM = e.AMPM[0], e.AMPM[1]
	}
	for id, o := range e.Overrides {
		typ, err := models.ParseCellType(o.Type)
		if err != nil {
			return nil, fmt.Errorf("override %d: %w", id, err)
		}
		if typ != models.TypeDateTime && typ != models.TypeNumber {
			return nil, fmt.Errorf("override %d: type must be DateTime or Number, got %s", id, typ)
		}
		if o.Pattern == "" {
			return nil, fmt.Errorf("override %d: empty pattern", id)
		}
		loc.overrides[id] = Override{Pattern: Compile(o.Pattern), Type: typ}
	}
	return loc, nil
}

// With returns a new table holding the entries of t and extra. Fields set in
// extra win; override ids are merged per locale.
func (t *Table) With(extra *Table) (*Table, error) {
	merged := tableFile{Locales: make(map[string]localeEntry)}
	for _, src := range []*Table{t, extra} {
		for key, e := range src.src.Locales {
			name := CanonicalLocale(key)
			merged.Locales[name] = mergeEntry(merged.Locales[name], e)
		}
	}
	return newTable(merged)
}

func mergeEntry(base, e localeEntry) localeEntry {
	if e.LongDate != "" {
		base.LongDate = e.LongDate
	}
	if e.LongTime != "" {
		base.LongTime = e.LongTime
	}
	if e.AMPM != nil {
		base.AMPM = e.AMPM
	}
	if e.MonthNames != nil {
		base.MonthNames = e.MonthNames
	}
	if e.MonthAbbr != nil {
		base.MonthAbbr = e.MonthAbbr
	}
	if e.DayNames != nil {
		base.DayNames = e.DayNames
	}
	if e.DayAbbr != nil {
		base.DayAbbr = e.DayAbbr
	}
	if len(e.Overrides) > 0 {
		overrides := maps.Clone(base.Overrides)
		if overrides == nil {
			overrides = make(map[int]overrideEntry, len(e.Overrides))
		}
		maps.Copy(overrides, e.Overrides)
		base.Overrides = overrides
	}
	return base
}

// Lookup returns the override for formatID in locale. Only an exact locale
// match has overrides; related locales are not consulted.
func (t *Table) Lookup(locale string, formatID int) (Override, bool) {
	loc, ok := t.exact(locale)
	if !ok {
		return Override{}, false
	}
	o, ok := loc.overrides[formatID]
	return o, ok
}

// Locale returns the host formatting data for locale: the exact entry, else
// the closest entry matched with high confidence, else the invariant locale.
func (t *Table) Locale(locale string) *Locale {
	if loc, ok := t.exact(locale); ok {
		return loc
	}
	name := CanonicalLocale(locale)
	if name == "" || t.matcher == nil {
		return invariantLocale()
	}
	tag, err := language.Parse(name)
	if err != nil {
		return invariantLocale()
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf < language.High {
		return invariantLocale()
	}
	return t.locales[t.names[idx]]
}

// Locales returns the canonical ids of all locales in the table, sorted.
func (t *Table) Locales() []string { return slices.Clone(t.names) }

func (t *Table) exact(locale string) (*Locale, bool) {
	if loc, ok := t.locales[locale]; ok {
		return loc, true
	}
	loc, ok := t.locales[CanonicalLocale(locale)]
	return loc, ok
}

// CanonicalLocale normalizes a locale id such as "ja_JP.UTF-8" or "ja-jp"
// to its BCP 47 form ("ja-JP"). It returns "" for empty, POSIX and
// unparsable ids.
func CanonicalLocale(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || strings.EqualFold(s, "C") || strings.EqualFold(s, "POSIX") {
		return ""
	}
	tag, err := language.Parse(s)
	if err != nil {
		return ""
	}
	return tag.String()
}
