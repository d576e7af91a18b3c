package caret

import (
	"io"
	"unicode/utf8"
)

type TokenType int

const (
	TokenTypeEmpty TokenType = iota
	TokenOpen
	TokenClose
	TokenInteger
	TokenString
	TokenSymbol
	TokenWhitespace
	TokenEnd
)

type Delim int

const (
	DelimParen Delim = iota
	DelimBracket
	DelimBrace
)

func (d Delim) Open() string {
	switch d {
	case DelimParen:
		return "("
	case DelimBracket:
		return "["
	}
	return "{"
}

func (d Delim) Close() string {
	switch d {
	case DelimParen:
		return ")"
	case DelimBracket:
		return "]"
	}
	return "}"
}

// Token records its kind and where it sits in the Source;
// the text itself is recovered from the span on demand.
type Token struct {
	typ   TokenType
	delim Delim
	span  Span
}

var EndTk = Token{typ: TokenEnd}

func (t Token) Type() TokenType { return t.typ }
func (t Token) Delim() Delim    { return t.delim }
func (t Token) Span() Span      { return t.span }

func (t Token) String() string {
	switch t.typ {
	case TokenOpen:
		return "Open" + t.delim.Open()
	case TokenClose:
		return "Close" + t.delim.Close()
	case TokenInteger:
		return "Integer" + t.span.String()
	case TokenString:
		return "String" + t.span.String()
	case TokenSymbol:
		return "Symbol" + t.span.String()
	case TokenWhitespace:
		return "Whitespace" + t.span.String()
	case TokenEnd:
		return "End"
	}
	return "Empty"
}

// Lexer is a single pass cursor over a Source. Once it
// has reported an error it keeps reporting that error;
// a fresh Lexer is needed to start over.
type Lexer struct {
	src   *Source
	input string
	pos   int
	err   error
}

func NewLexer(src *Source) *Lexer {
	return &Lexer{
		src:   src,
		input: src.String(),
	}
}

// GetNextToken returns the next token, or io.EOF when
// the input is exhausted.
func (lexer *Lexer) GetNextToken() (Token, error) {
	if lexer.err != nil {
		return EndTk, lexer.err
	}
	if lexer.pos >= len(lexer.input) {
		return EndTk, io.EOF
	}

	lo := lexer.pos
	r := lexer.nextRune()

	switch r {
	case '"':
		return lexer.lexString(lo)
	case '(':
		return lexer.token(lo, TokenOpen, DelimParen), nil
	case ')':
		return lexer.token(lo, TokenClose, DelimParen), nil
	case '[':
		return lexer.token(lo, TokenOpen, DelimBracket), nil
	case ']':
		return lexer.token(lo, TokenClose, DelimBracket), nil
	case '{':
		return lexer.token(lo, TokenOpen, DelimBrace), nil
	case '}':
		return lexer.token(lo, TokenClose, DelimBrace), nil
	}

	switch {
	case isPartOfInteger(r):
		lexer.advanceWhile(isPartOfInteger)
		return lexer.token(lo, TokenInteger, 0), nil
	case isStartOfSymbol(r):
		lexer.advanceWhile(isPartOfSymbol)
		return lexer.token(lo, TokenSymbol, 0), nil
	case isWhitespace(r):
		lexer.advanceWhile(isWhitespace)
		return lexer.token(lo, TokenWhitespace, 0), nil
	}
	return lexer.fail(lo, UnknownStartOfToken)
}

// Tokens drains the lexer. Used by tests and the .tokens
// repl command.
func (lexer *Lexer) Tokens() ([]Token, error) {
	var toks []Token
	for {
		tok, err := lexer.GetNextToken()
		if err == io.EOF {
			return toks, nil
		}
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
	}
}

func (lexer *Lexer) lexString(lo int) (Token, error) {
	for lexer.pos < len(lexer.input) {
		if lexer.nextRune() == '"' {
			return lexer.token(lo, TokenString, 0), nil
		}
	}
	return lexer.fail(lo, UnterminatedString)
}

func (lexer *Lexer) nextRune() rune {
	r, size := utf8.DecodeRuneInString(lexer.input[lexer.pos:])
	lexer.pos += size
	return r
}

func (lexer *Lexer) advanceWhile(pred func(rune) bool) {
	for lexer.pos < len(lexer.input) {
		r, size := utf8.DecodeRuneInString(lexer.input[lexer.pos:])
		if !pred(r) {
			return
		}
		lexer.pos += size
	}
}

// the span runs from lo to the first byte not consumed.
func (lexer *Lexer) token(lo int, typ TokenType, delim Delim) Token {
	return Token{
		typ:   typ,
		delim: delim,
		span:  NewSpan(lo, lexer.pos),
	}
}

func (lexer *Lexer) fail(lo int, kind SyntaxErrorKind) (Token, error) {
	lexer.err = syntaxErr(kind, NewSpan(lo, lexer.pos))
	return EndTk, lexer.err
}

func isDelim(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func isPartOfInteger(r rune) bool {
	return r >= '0' && r <= '9'
}

func isPartOfSymbol(r rune) bool {
	switch r {
	case '"', ';', '\'', '\\':
		return false
	}
	return !isDelim(r) && !isWhitespace(r)
}

func isStartOfSymbol(r rune) bool {
	return !isPartOfInteger(r) && isPartOfSymbol(r)
}

// commas are whitespace, as in Clojure.
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', ',', '\n', '\r':
		return true
	}
	return false
}
