// Package lexer turns NexLang source text into an ordered token stream.
//
// Tokenizing is total: unrecognized characters and unterminated string
// literals become [token.Unknown] tokens instead of failing the pass.
package lexer

import (
	"strings"

	"github.com/nexlang/nex/lang/token"
)

// Lexer scans a single source text.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New returns a lexer over the given source text.
func New(source string) *Lexer {
	return &Lexer{src: source, line: 1, col: 1}
}

// Tokenize scans the entire source and returns the token stream, terminated
// by exactly one [token.EndOfFile] token.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token

	for !l.atEnd() {
		l.skipWhitespace()

		if l.atEnd() {
			break
		}

		line, col := l.line, l.col
		c := l.peek()

		switch {
		case c == '/' && l.peekNext() == '/':
			tokens = append(tokens, l.scanComment(line, col))

		case c == '"':
			tokens = append(tokens, l.scanString(line, col))

		case isDigit(c):
			tokens = append(tokens, l.scanNumber(line, col))

		case isAlpha(c) || c == '_' || c == '#':
			tokens = append(tokens, l.scanIdentifierOrKeyword(line, col))

		default:
			if op, ok := l.matchOperator(); ok {
				tokens = append(tokens, l.make(token.Operator, op, line, col))
			} else if token.IsSymbol(c) {
				tokens = append(tokens, l.make(token.Symbol, string(l.advance()), line, col))
			} else {
				tokens = append(tokens, l.make(token.Unknown, string(l.advance()), line, col))
			}
		}
	}

	tokens = append(tokens, l.make(token.EndOfFile, "", l.line, l.col))

	return tokens
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.atEnd() {
		return 0
	}

	return l.src[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}

	return l.src[l.pos+1]
}

// advance consumes one byte, tracking line and column.
func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++

	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return c
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isSpace(l.peek()) {
		l.advance()
	}
}

// scanComment consumes a // line comment to end-of-line. The comment token is
// retained in the stream so downstream passes skip it explicitly.
func (l *Lexer) scanComment(line, col int) token.Token {
	l.advance()
	l.advance()

	var lex strings.Builder

	for !l.atEnd() && l.peek() != '\n' {
		lex.WriteByte(l.advance())
	}

	return l.make(token.Comment, lex.String(), line, col)
}

func (l *Lexer) scanIdentifierOrKeyword(line, col int) token.Token {
	var lex strings.Builder

	for !l.atEnd() {
		c := l.peek()
		if !isAlphaNum(c) && c != '_' && c != '#' {
			break
		}

		lex.WriteByte(l.advance())
	}

	if token.IsKeyword(lex.String()) {
		return l.make(token.Keyword, lex.String(), line, col)
	}

	return l.make(token.Identifier, lex.String(), line, col)
}

// scanNumber consumes an unsigned integer digit run. No decimal point, sign,
// or exponent: float interpretation happens later from the lexeme.
func (l *Lexer) scanNumber(line, col int) token.Token {
	var lex strings.Builder

	for !l.atEnd() && isDigit(l.peek()) {
		lex.WriteByte(l.advance())
	}

	return l.make(token.Number, lex.String(), line, col)
}

// scanString consumes a double-quoted string literal. An unterminated string
// (newline or end-of-input before the closing quote) yields a [token.Unknown]
// token holding the partial text.
func (l *Lexer) scanString(line, col int) token.Token {
	l.advance() // opening quote

	var lex strings.Builder

	for !l.atEnd() {
		c := l.advance()
		if c == '"' {
			return l.make(token.String, lex.String(), line, col)
		}

		if c == '\n' {
			break
		}

		lex.WriteByte(c)
	}

	return l.make(token.Unknown, lex.String(), line, col)
}

// matchOperator matches the fixed operator list by longest prefix at the
// current position, so multi-character operators are never split.
func (l *Lexer) matchOperator() (string, bool) {
	for _, op := range token.Operators {
		if strings.HasPrefix(l.src[l.pos:], op) {
			for range len(op) {
				l.advance()
			}

			return op, true
		}
	}

	return "", false
}

func (l *Lexer) make(kind token.Kind, lexeme string, line, col int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNum(c byte) bool { return isAlpha(c) || isDigit(c) }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}

	return false
}
