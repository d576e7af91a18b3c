package caret

import (
	"fmt"
)

// SpannedError is satisfied by both error taxonomies:
// *SyntaxError from the lexer and parser, and
// *EvalError from the evaluator.
type SpannedError interface {
	error
	Spanned() Span
	Message() string
}

type SyntaxErrorKind int

const (
	// `(+ 1 2) 3`: only one expression per line
	ExpectedEndOfLine SyntaxErrorKind = iota
	// `(+ 1 2]`
	IncorrectCloseDelimiter
	// the literal does not fit in 64 bits
	IntegerTooLarge
	// `(+ 1 2`
	UnclosedDelimiter
	// no token starts with this character
	UnknownStartOfToken
	// `"hello`
	UnterminatedString
	// `)` with nothing open
	UnmatchedCloseDelimiter
	// `{`; maps are not part of the language
	UnsupportedDelimiter
	NestingTooDeep
)

var syntaxMessages = map[SyntaxErrorKind]string{
	ExpectedEndOfLine:       "expected end of line",
	IncorrectCloseDelimiter: "incorrect close delimiter",
	IntegerTooLarge:         "integer literal is too large",
	UnclosedDelimiter:       "un-closed delimiter",
	UnknownStartOfToken:     "unknown start of token",
	UnterminatedString:      "unterminated string literal",
	UnmatchedCloseDelimiter: "unmatched close delimiter",
	UnsupportedDelimiter:    "unsupported delimiter",
	NestingTooDeep:          "nesting too deep",
}

func (k SyntaxErrorKind) String() string {
	if msg, ok := syntaxMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("SyntaxErrorKind(%d)", int(k))
}

type SyntaxError struct {
	Kind SyntaxErrorKind
	Span Span
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s at %v", e.Kind, e.Span)
}

func (e *SyntaxError) Spanned() Span   { return e.Span }
func (e *SyntaxError) Message() string { return e.Kind.String() }

type EvalErrorKind int

const (
	// `()`
	EmptyList EvalErrorKind = iota
	// `(a 1 2)` where a is bound to 2
	ExpectedFunction
	// `(1 2 3)`
	ExpectedSymbol
	// `(foo 1 2)` with foo unbound
	UndefinedSymbol
	// `(+ 1)`
	UnsupportedOperation
	DepthExceeded
)

var evalMessages = map[EvalErrorKind]string{
	EmptyList:            "empty list",
	ExpectedFunction:     "expected function",
	ExpectedSymbol:       "expected symbol",
	UndefinedSymbol:      "undefined symbol",
	UnsupportedOperation: "unsupported operation",
	DepthExceeded:        "recursion depth exceeded",
}

func (k EvalErrorKind) String() string {
	if msg, ok := evalMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("EvalErrorKind(%d)", int(k))
}

type EvalError struct {
	Kind EvalErrorKind
	Span Span
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval error: %s at %v", e.Kind, e.Span)
}

func (e *EvalError) Spanned() Span   { return e.Span }
func (e *EvalError) Message() string { return e.Kind.String() }

func syntaxErr(kind SyntaxErrorKind, sp Span) *SyntaxError {
	return &SyntaxError{Kind: kind, Span: sp}
}

func evalErr(kind EvalErrorKind, sp Span) *EvalError {
	return &EvalError{Kind: kind, Span: sp}
}
