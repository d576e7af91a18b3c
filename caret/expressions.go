package caret

import (
	"strconv"
	"strings"
)

type ExprKind int

const (
	ExprBool ExprKind = iota
	ExprInteger
	ExprKeyword
	ExprList
	ExprNil
	ExprOperator
	ExprString
	ExprSymbol
	ExprVector
)

var exprKindNames = []string{"Bool", "Integer", "Keyword", "List", "Nil",
	"Operator", "String", "Symbol", "Vector"}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "ExprKind(" + strconv.Itoa(int(k)) + ")"
}

// Operator is a special form. Operators are positional: only
// the head of a list is parsed as one.
type Operator int

const (
	OpDef Operator = iota
	OpIf
	OpLet
)

var operatorNames = map[string]Operator{
	"def!": OpDef,
	"if":   OpIf,
	"let*": OpLet,
}

func LookupOperator(name string) (Operator, bool) {
	op, ok := operatorNames[name]
	return op, ok
}

func (op Operator) String() string {
	switch op {
	case OpDef:
		return "def!"
	case OpIf:
		return "if"
	case OpLet:
		return "let*"
	}
	return "Operator(" + strconv.Itoa(int(op)) + ")"
}

// Expr is one node of the syntax tree. Which payload field
// is meaningful depends on Kind. Strings keep no payload:
// their text is read back out of the Source.
type Expr struct {
	Kind  ExprKind
	Span  Span
	Bool  bool
	Int   int64
	Sym   Symbol
	Op    Operator
	Elems []*Expr
}

// StringText returns the contents of a string literal,
// without the quotes. No escapes are decoded.
func (e *Expr) StringText(src *Source) string {
	raw := src.Slice(e.Span)
	return raw[1 : len(raw)-1]
}

// SexpString prints the expression in canonical form: single
// spaces between elements and no commas.
func (e *Expr) SexpString(src *Source) string {
	var b strings.Builder
	e.writeTo(&b, src)
	return b.String()
}

func (e *Expr) writeTo(b *strings.Builder, src *Source) {
	switch e.Kind {
	case ExprBool:
		b.WriteString(strconv.FormatBool(e.Bool))
	case ExprInteger:
		b.WriteString(strconv.FormatInt(e.Int, 10))
	case ExprNil:
		b.WriteString("nil")
	case ExprList:
		b.WriteByte('(')
		writeSeq(b, e.Elems, src)
		b.WriteByte(')')
	case ExprVector:
		b.WriteByte('[')
		writeSeq(b, e.Elems, src)
		b.WriteByte(']')
	case ExprKeyword, ExprOperator, ExprString, ExprSymbol:
		b.WriteString(src.Slice(e.Span))
	}
}

func writeSeq(b *strings.Builder, exprs []*Expr, src *Source) {
	for i, x := range exprs {
		if i > 0 {
			b.WriteByte(' ')
		}
		x.writeTo(b, src)
	}
}
