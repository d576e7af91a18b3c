package caret

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Render formats err against the source it came from:
//
//	error: undefined symbol
//	(abc 1 2 3)
//	 ^~~
//
// The caret sits under the first column of the error span and
// tildes cover the rest of it, measured in display columns so
// that wide characters line up. Errors that carry no span are
// rendered on a single line.
func Render(err error, src *Source) string {
	var se SpannedError
	if !errors.As(err, &se) {
		return "error: " + err.Error() + "\n"
	}
	span := se.Spanned()

	text := src.String()
	lo, hi := int(span.Lo), int(span.Hi)
	if lo > len(text) {
		lo = len(text)
	}
	line, start := src.LineAt(lo)
	if end := start + len(line); hi > end {
		// only underline the first line of a multi-line span
		hi = end
	}
	if hi < lo {
		hi = lo
	}

	var b strings.Builder
	b.WriteString("error: ")
	b.WriteString(se.Message())
	b.WriteByte('\n')
	b.WriteString(line)
	b.WriteByte('\n')
	b.WriteString(padding(text[start:lo]))
	b.WriteByte('^')
	if w := runewidth.StringWidth(text[lo:hi]); w > 1 {
		b.WriteString(strings.Repeat("~", w-1))
	}
	b.WriteByte('\n')
	return b.String()
}

// padding lines up the caret under prefix: tabs are kept so
// the terminal expands them the same way on both lines.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}
