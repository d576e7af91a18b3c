package caret

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultMaxDepth bounds list nesting in the parser and
// expression nesting in the evaluator.
const DefaultMaxDepth = 10000

// Parser is a recursive descent parser holding one token
// of lookahead over a Lexer.
type Parser struct {
	lexer    *Lexer
	src      *Source
	interner *Interner

	peeked  Token
	peekErr error
	hasPeek bool

	maxDepth int
	recur    int
}

func NewParser(src *Source, in *Interner) *Parser {
	return &Parser{
		lexer:    NewLexer(src),
		src:      src,
		interner: in,
		maxDepth: DefaultMaxDepth,
	}
}

// SetMaxDepth sets the nesting limit; zero or less disables it.
func (p *Parser) SetMaxDepth(depth int) {
	p.maxDepth = depth
}

// Parse reads exactly one expression from src. Blank input
// parses as nil; anything after the first expression is an
// ExpectedEndOfLine error.
func Parse(src *Source, in *Interner) (*Expr, error) {
	return NewParser(src, in).ParseLine()
}

// ParseAll reads every expression in src, in order.
func ParseAll(src *Source, in *Interner) ([]*Expr, error) {
	return NewParser(src, in).ParseAll()
}

func (p *Parser) PeekNextToken() (Token, error) {
	if !p.hasPeek {
		p.peeked, p.peekErr = p.lexer.GetNextToken()
		p.hasPeek = true
	}
	return p.peeked, p.peekErr
}

func (p *Parser) GetNextToken() (Token, error) {
	tok, err := p.PeekNextToken()
	p.hasPeek = false
	return tok, err
}

func (p *Parser) skipWhitespace() (Token, error) {
	for {
		tok, err := p.PeekNextToken()
		if err != nil || tok.typ != TokenWhitespace {
			return tok, err
		}
		p.GetNextToken()
	}
}

func (p *Parser) ParseLine() (*Expr, error) {
	tok, err := p.skipWhitespace()
	if err == io.EOF {
		end := p.src.Len()
		return &Expr{Kind: ExprNil, Span: NewSpan(end, end)}, nil
	}
	if err != nil {
		return nil, err
	}
	p.GetNextToken()

	expr, err := p.parseExpr(tok)
	if err != nil {
		return nil, err
	}

	tok, err = p.skipWhitespace()
	switch {
	case err == io.EOF:
		return expr, nil
	case err != nil:
		// trailing garbage that does not even lex
		var serr *SyntaxError
		if errors.As(err, &serr) {
			return nil, syntaxErr(ExpectedEndOfLine, serr.Span)
		}
		return nil, err
	}
	return nil, syntaxErr(ExpectedEndOfLine, tok.span)
}

func (p *Parser) ParseAll() ([]*Expr, error) {
	var exprs []*Expr
	for {
		tok, err := p.skipWhitespace()
		if err == io.EOF {
			return exprs, nil
		}
		if err != nil {
			return nil, err
		}
		p.GetNextToken()

		expr, err := p.parseExpr(tok)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

func (p *Parser) text(tok Token) string {
	return p.src.Slice(tok.span)
}

// parseExpr builds the expression that starts with tok,
// which has already been consumed.
func (p *Parser) parseExpr(tok Token) (*Expr, error) {
	switch tok.typ {
	case TokenInteger:
		return p.parseInteger(tok)
	case TokenString:
		return &Expr{Kind: ExprString, Span: tok.span}, nil
	case TokenSymbol:
		return p.parseSymbol(tok), nil
	case TokenOpen:
		switch tok.delim {
		case DelimParen:
			return p.parseSeq(tok, ExprList, true)
		case DelimBracket:
			return p.parseSeq(tok, ExprVector, false)
		}
		return nil, syntaxErr(UnsupportedDelimiter, tok.span)
	case TokenClose:
		return nil, syntaxErr(UnmatchedCloseDelimiter, tok.span)
	}
	panic(fmt.Sprintf("parseExpr called with token %v", tok))
}

func (p *Parser) parseInteger(tok Token) (*Expr, error) {
	i, err := strconv.ParseInt(p.text(tok), 10, 64)
	if err != nil {
		return nil, syntaxErr(IntegerTooLarge, tok.span)
	}
	return &Expr{Kind: ExprInteger, Span: tok.span, Int: i}, nil
}

func (p *Parser) parseSymbol(tok Token) *Expr {
	name := p.text(tok)
	switch name {
	case "true":
		return &Expr{Kind: ExprBool, Span: tok.span, Bool: true}
	case "false":
		return &Expr{Kind: ExprBool, Span: tok.span, Bool: false}
	case "nil":
		return &Expr{Kind: ExprNil, Span: tok.span}
	}
	if len(name) > 1 && strings.HasPrefix(name, ":") {
		return &Expr{Kind: ExprKeyword, Span: tok.span, Sym: p.interner.Intern(name[1:])}
	}
	return &Expr{Kind: ExprSymbol, Span: tok.span, Sym: p.interner.Intern(name)}
}

// parseSeq reads elements up to the delimiter that closes
// open. When acceptOp is set, an operator name in first
// position becomes an ExprOperator.
func (p *Parser) parseSeq(open Token, kind ExprKind, acceptOp bool) (*Expr, error) {
	p.recur++
	defer func() { p.recur-- }()
	if p.maxDepth > 0 && p.recur > p.maxDepth {
		return nil, syntaxErr(NestingTooDeep, open.span)
	}

	seq := &Expr{Kind: kind}
	for {
		tok, err := p.PeekNextToken()
		if err == io.EOF {
			end := p.src.Len()
			return nil, syntaxErr(UnclosedDelimiter, NewSpan(end, end))
		}
		if err != nil {
			return nil, err
		}
		p.GetNextToken()

		switch {
		case tok.typ == TokenClose:
			if tok.delim != open.delim {
				return nil, syntaxErr(IncorrectCloseDelimiter, tok.span)
			}
			seq.Span = NewSpan(int(open.span.Lo), int(tok.span.Hi))
			return seq, nil
		case tok.typ == TokenWhitespace:
			continue
		case acceptOp && len(seq.Elems) == 0 && tok.typ == TokenSymbol:
			name := p.text(tok)
			if op, ok := LookupOperator(name); ok {
				p.interner.Intern(name)
				seq.Elems = append(seq.Elems, &Expr{Kind: ExprOperator, Span: tok.span, Op: op})
				continue
			}
		}

		elem, err := p.parseExpr(tok)
		if err != nil {
			return nil, err
		}
		seq.Elems = append(seq.Elems, elem)
	}
}
