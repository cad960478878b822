package numfmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokYear
	tokMonth
	tokMinute
	tokDay
	tokHour
	tokSecond
	tokAMPM
	tokAP
)

type token struct {
	kind  tokenKind
	n     int
	lit   string
	lower bool
}

// Pattern is a compiled date/time format code. The zero value renders
// nothing.
type Pattern struct {
	src    string
	tokens []token
	hour12 bool
}

// Compile tokenizes a date/time format code.
//
// Runs of one placeholder letter (y, m, d, h, s; case-insensitive) form a
// single token whose length selects the rendering. AM/PM and A/P switch
// hours to the 12-hour clock. Quoted text, backslash escapes and any other
// character are literal. Bracketed sections such as [$-F800] are dropped.
func Compile(src string) Pattern {
	p := Pattern{src: src}
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '"':
			j := i + 1
			for j < len(rs) && rs[j] != '"' {
				j++
			}
			p.literal(string(rs[i+1 : j]))
			i = j + 1
		case r == '\\' && i+1 < len(rs):
			p.literal(string(rs[i+1]))
			i += 2
		case r == '_' && i+1 < len(rs):
			p.literal(" ")
			i += 2
		case r == '*' && i+1 < len(rs):
			i += 2
		case r == '[':
			j := i + 1
			for j < len(rs) && rs[j] != ']' {
				j++
			}
			i = j + 1
		case hasPrefixFold(rs[i:], "am/pm"):
			p.tokens = append(p.tokens, token{kind: tokAMPM})
			p.hour12 = true
			i += len("am/pm")
		case hasPrefixFold(rs[i:], "a/p"):
			p.tokens = append(p.tokens, token{kind: tokAP, lower: r == 'a'})
			p.hour12 = true
			i += len("a/p")
		default:
			kind, ok := placeholder(r)
			if !ok {
				p.literal(string(r))
				i++
				continue
			}
			j := i + 1
			for j < len(rs) && unicode.ToLower(rs[j]) == unicode.ToLower(r) {
				j++
			}
			p.tokens = append(p.tokens, token{kind: kind, n: j - i})
			i = j
		}
	}
	p.markMinutes()
	return p
}

// String returns the source format code.
func (p Pattern) String() string { return p.src }

// Format renders t. Digits are always ASCII; month and day names and the
// AM/PM designators come from loc, or from the invariant locale when loc is
// nil.
func (p Pattern) Format(t time.Time, loc *Locale) string {
	if loc == nil {
		loc = invariantLocale()
	}
	var sb strings.Builder
	for _, tok := range p.tokens {
		switch tok.kind {
		case tokLiteral:
			sb.WriteString(tok.lit)
		case tokYear:
			if tok.n <= 2 {
				sb.WriteString(pad2(t.Year() % 100))
			} else {
				fmt.Fprintf(&sb, "%04d", t.Year())
			}
		case tokMonth:
			m := int(t.Month()) - 1
			switch tok.n {
			case 1:
				sb.WriteString(strconv.Itoa(m + 1))
			case 2:
				sb.WriteString(pad2(m + 1))
			case 3:
				sb.WriteString(loc.MonthAbbr[m])
			case 5:
				r, _ := utf8.DecodeRuneInString(loc.MonthNames[m])
				sb.WriteRune(r)
			default:
				sb.WriteString(loc.MonthNames[m])
			}
		case tokMinute:
			sb.WriteString(number(t.Minute(), tok.n))
		case tokDay:
			d := int(t.Weekday())
			switch tok.n {
			case 1, 2:
				sb.WriteString(number(t.Day(), tok.n))
			case 3:
				sb.WriteString(loc.DayAbbr[d])
			default:
				sb.WriteString(loc.DayNames[d])
			}
		case tokHour:
			h := t.Hour()
			if p.hour12 {
				h %= 12
				if h == 0 {
					h = 12
				}
			}
			sb.WriteString(number(h, tok.n))
		case tokSecond:
			sb.WriteString(number(t.Second(), tok.n))
		case tokAMPM:
			sb.WriteString(loc.designator(t))
		case tokAP:
			r, _ := utf8.DecodeRuneInString(loc.designator(t))
			if tok.lower {
				r = unicode.ToLower(r)
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FormatSerial renders a date serial. Serials that cannot be converted, and
// patterns that produce no output, fall back to the General rendering so the
// value is never dropped.
func (p Pattern) FormatSerial(serial float64, loc *Locale, date1904 bool) string {
	t, err := SerialToTime(serial, date1904)
	if err != nil {
		return RenderGeneral(serial)
	}
	if s := p.Format(t, loc); s != "" {
		return s
	}
	return RenderGeneral(serial)
}

// FormatSerial compiles pattern and renders serial with it.
func FormatSerial(pattern string, serial float64, loc *Locale, date1904 bool) string {
	return Compile(pattern).FormatSerial(serial, loc, date1904)
}

func (p *Pattern) literal(s string) {
	if s == "" {
		return
	}
	if n := len(p.tokens); n > 0 && p.tokens[n-1].kind == tokLiteral {
		p.tokens[n-1].lit += s
		return
	}
	p.tokens = append(p.tokens, token{kind: tokLiteral, lit: s})
}

// markMinutes turns m and mm into minutes when they follow an hour or
// precede a seconds token, ignoring literals in between.
func (p *Pattern) markMinutes() {
	for i := range p.tokens {
		tok := &p.tokens[i]
		if tok.kind != tokMonth || tok.n > 2 {
			continue
		}
		if prev := p.neighbour(i, -1); prev == tokHour {
			tok.kind = tokMinute
		} else if next := p.neighbour(i, 1); next == tokSecond {
			tok.kind = tokMinute
		}
	}
}

func (p *Pattern) neighbour(i, step int) tokenKind {
	for j := i + step; j >= 0 && j < len(p.tokens); j += step {
		if k := p.tokens[j].kind; k != tokLiteral {
			return k
		}
	}
	return tokLiteral
}

func placeholder(r rune) (tokenKind, bool) {
	switch unicode.ToLower(r) {
	case 'y':
		return tokYear, true
	case 'm':
		return tokMonth, true
	case 'd':
		return tokDay, true
	case 'h':
		return tokHour, true
	case 's':
		return tokSecond, true
	}
	return tokLiteral, false
}

func hasPrefixFold(rs []rune, prefix string) bool {
	if len(rs) < len(prefix) {
		return false
	}
	return strings.EqualFold(string(rs[:len(prefix)]), prefix)
}

func number(v, width int) string {
	if width >= 2 {
		return pad2(v)
	}
	return strconv.Itoa(v)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}
