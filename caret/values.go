package caret

import (
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValNil ValueKind = iota
	ValBool
	ValFunction
	ValInteger
	ValKeyword
	ValString
	ValVector
)

var valueKindNames = []string{"nil", "bool", "function", "integer", "keyword",
	"string", "vector"}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "ValueKind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the result of evaluation. Values are plain data:
// a vector holds already evaluated values and a function is
// an index into the builtin table, so no cycles can form.
// The zero Value is nil.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
	Sym  Symbol
	Fn   int
	Vec  []Value
}

var SexpNull = Value{Kind: ValNil}

func MakeBool(b bool) Value          { return Value{Kind: ValBool, Bool: b} }
func MakeInt(i int64) Value          { return Value{Kind: ValInteger, Int: i} }
func MakeString(s string) Value      { return Value{Kind: ValString, Str: s} }
func MakeKeyword(sym Symbol) Value   { return Value{Kind: ValKeyword, Sym: sym} }
func MakeFunction(index int) Value   { return Value{Kind: ValFunction, Fn: index} }
func MakeVector(elems []Value) Value { return Value{Kind: ValVector, Vec: elems} }

// IsTruthy: everything except false and nil.
func (v Value) IsTruthy() bool {
	switch v.Kind {
	case ValNil:
		return false
	case ValBool:
		return v.Bool
	}
	return true
}

// SexpString renders v for the repl. The interner is needed
// to spell keywords. Strings print raw, without quotes.
func (v Value) SexpString(in *Interner) string {
	var b strings.Builder
	v.writeTo(&b, in)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder, in *Interner) {
	switch v.Kind {
	case ValNil:
		b.WriteString("nil")
	case ValBool:
		b.WriteString(strconv.FormatBool(v.Bool))
	case ValInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case ValString:
		b.WriteString(v.Str)
	case ValKeyword:
		b.WriteByte(':')
		b.WriteString(in.Resolve(v.Sym))
	case ValFunction:
		b.WriteString("<function ")
		b.WriteString(BuiltinName(v.Fn))
		b.WriteByte('>')
	case ValVector:
		b.WriteByte('[')
		for i, elem := range v.Vec {
			if i > 0 {
				b.WriteByte(' ')
			}
			elem.writeTo(b, in)
		}
		b.WriteByte(']')
	}
}
