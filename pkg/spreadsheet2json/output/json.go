// Package output writes converted documents as JSON.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"
)

// Exit codes for consistent error reporting.
const (
	ExitOK        = 0 // success
	ExitUserError = 1 // missing input, unreadable workbook, bad flags
)

// Options controls JSON formatting.
type Options struct {
	// Indent pretty-prints with two-space indentation.
	Indent bool
	// EscapeNonASCII writes every non-ASCII character as a \uXXXX escape
	// and escapes <, > and & for safe embedding in HTML.
	EscapeNonASCII bool
}

// ToJSON encodes v without a trailing newline.
func ToJSON(v any, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(opts.EscapeNonASCII)
	if opts.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode JSON: %w", err)
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if opts.EscapeNonASCII {
		out = escapeNonASCII(out)
	}
	return out, nil
}

// Write encodes v to w followed by a newline.
func Write(w io.Writer, v any, opts Options) error {
	out, err := ToJSON(v, opts)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// escapeNonASCII rewrites non-ASCII runes as \uXXXX escapes, using
// surrogate pairs above the BMP. Encoded JSON only carries such runes
// inside strings, so the result stays valid.
func escapeNonASCII(data []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			buf.WriteByte(byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			fmt.Fprintf(&buf, `\u%04X\u%04X`, r1, r2)
			continue
		}
		fmt.Fprintf(&buf, `\u%04X`, r)
	}
	return buf.Bytes()
}
