package caret

import (
	"fmt"
	"strings"
)

// Span is a half-open byte range [Lo, Hi) into one Source.
type Span struct {
	Lo uint32
	Hi uint32
}

func NewSpan(lo, hi int) Span {
	if lo < 0 || hi < lo {
		panic(fmt.Sprintf("invalid span [%d,%d)", lo, hi))
	}
	return Span{Lo: uint32(lo), Hi: uint32(hi)}
}

func (sp Span) Len() int {
	return int(sp.Hi - sp.Lo)
}

func (sp Span) String() string {
	return fmt.Sprintf("[%d,%d)", sp.Lo, sp.Hi)
}

// Source is the immutable text that spans index into.
// A Source is usually one REPL line, but script files
// hold many lines.
type Source struct {
	text string
}

func NewSource(text string) *Source {
	return &Source{text: text}
}

func (src *Source) String() string {
	return src.text
}

func (src *Source) Len() int {
	return len(src.text)
}

// Slice returns the text covered by sp. It panics if sp
// does not lie within the source.
func (src *Source) Slice(sp Span) string {
	if int(sp.Hi) > len(src.text) || sp.Lo > sp.Hi {
		panic(fmt.Sprintf("span %v out of range for source of length %d", sp, len(src.text)))
	}
	return src.text[sp.Lo:sp.Hi]
}

// LineAt returns the line that contains byte offset pos,
// without its newline, and the offset where that line begins.
func (src *Source) LineAt(pos int) (line string, start int) {
	if pos > len(src.text) {
		pos = len(src.text)
	}
	start = strings.LastIndexByte(src.text[:pos], '\n') + 1
	end := strings.IndexByte(src.text[start:], '\n')
	if end < 0 {
		return strings.TrimSuffix(src.text[start:], "\r"), start
	}
	return strings.TrimSuffix(src.text[start:start+end], "\r"), start
}
