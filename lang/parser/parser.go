// Package parser builds a NexLang abstract syntax tree from a token stream.
//
// The parser is recursive descent with one token of lookahead. The two
// ambiguous statement starts (identifier assignment and identifier
// increment) use explicit backtracking: on failed lookahead the position is
// restored and parsing falls through to the next alternative.
package parser

import (
	"strconv"
	"strings"

	"github.com/nexlang/nex/lang/ast"
	"github.com/nexlang/nex/lang/token"
)

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New returns a parser over the given token stream. The stream must be
// terminated by an EndOfFile token.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Kind: token.EndOfFile, Line: 1, Column: 1}}
	}

	return &Parser{tokens: tokens}
}

// ParseProgram parses a complete program block.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	if err := p.expect(token.Keyword, "#START_BLOCK"); err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, "("); err != nil {
		return nil, err
	}

	blockID, err := p.expectInt()
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, ")"); err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, ";"); err != nil {
		return nil, err
	}

	program := &ast.Program{BlockID: blockID}

	for {
		p.skipTrivia()

		t := p.peek()
		if t.Kind == token.EndOfFile ||
			t.Is(token.Keyword, "#END_BLOCK") ||
			t.Is(token.Keyword, "#EXECUTE_BLOCK") {
			break
		}

		section, err := p.parseSection()
		if err != nil {
			return nil, err
		}

		program.Sections = append(program.Sections, section)
	}

	if p.match(token.Keyword, "#EXECUTE_BLOCK") {
		exec, err := p.parseExecuteDirective()
		if err != nil {
			return nil, err
		}

		program.Execute = exec
	}

	if err := p.expect(token.Keyword, "#END_BLOCK"); err != nil {
		return nil, err
	}

	return program, p.expect(token.Symbol, ";")
}

// ParseStatement parses a single statement, used by the REPL. A trailing
// semicolon is accepted but not required.
func (p *Parser) ParseStatement() (ast.Statement, error) {
	p.skipTrivia()

	stmt, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}

	p.match(token.Symbol, ";")

	return stmt, nil
}

func (p *Parser) parseSection() (ast.Section, error) {
	switch t := p.peek(); t.Lexeme {
	case "DATA":
		return p.parseData()
	case "OPERATION":
		return p.parseOperation()
	case "FUNCTION":
		return p.parseFunction()
	case "SYSTEM_CALL":
		return p.parseSystemCall()
	default:
		return nil, &Error{
			Line:   t.Line,
			Column: t.Column,
			Lexeme: t.Lexeme,
			Reason: "unknown section",
			Expected: []string{
				"DATA", "OPERATION", "FUNCTION", "SYSTEM_CALL",
			},
		}
	}
}

func (p *Parser) parseData() (*ast.Data, error) {
	p.advance() // DATA

	if err := p.expect(token.Symbol, "["); err != nil {
		return nil, err
	}

	name := p.advance().Lexeme

	if err := p.expect(token.Symbol, "["); err != nil {
		return nil, err
	}

	id, err := p.expectInt()
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, "]"); err != nil {
		return nil, err
	}

	stmts, err := p.parseSectionBody()
	if err != nil {
		return nil, err
	}

	return &ast.Data{Name: name, ID: id, Statements: stmts}, nil
}

func (p *Parser) parseOperation() (*ast.Operation, error) {
	p.advance() // OPERATION

	name, id, err := p.parseNamedHeader()
	if err != nil {
		return nil, err
	}

	body, err := p.parseSectionBody()
	if err != nil {
		return nil, err
	}

	return &ast.Operation{Name: name, ID: id, Body: body}, nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	p.advance() // FUNCTION

	name, id, err := p.parseNamedHeader()
	if err != nil {
		return nil, err
	}

	body, err := p.parseSectionBody()
	if err != nil {
		return nil, err
	}

	return &ast.Function{Name: name, ID: id, Body: body}, nil
}

// parseNamedHeader parses `[ creator ( name ) [ id ]` shared by OPERATION and
// FUNCTION sections. The creator token (Create_operation / create_function)
// is consumed without inspection, as in the reference grammar.
func (p *Parser) parseNamedHeader() (string, int, error) {
	if err := p.expect(token.Symbol, "["); err != nil {
		return "", 0, err
	}

	p.advance() // Create_operation / create_function

	if err := p.expect(token.Symbol, "("); err != nil {
		return "", 0, err
	}

	name := p.advance().Lexeme

	if err := p.expect(token.Symbol, ")"); err != nil {
		return "", 0, err
	}

	if err := p.expect(token.Symbol, "["); err != nil {
		return "", 0, err
	}

	id, err := p.expectInt()
	if err != nil {
		return "", 0, err
	}

	return name, id, p.expect(token.Symbol, "]")
}

func (p *Parser) parseSystemCall() (*ast.SystemCall, error) {
	p.advance() // SYSTEM_CALL

	if err := p.expect(token.Symbol, "["); err != nil {
		return nil, err
	}

	body, err := p.parseSectionBody()
	if err != nil {
		return nil, err
	}

	return &ast.SystemCall{Body: body}, nil
}

// parseSectionBody parses `{ Stmt* } ; ]` with stray semicolons between
// statements tolerated.
func (p *Parser) parseSectionBody() ([]ast.Statement, error) {
	if err := p.expect(token.Symbol, "{"); err != nil {
		return nil, err
	}

	var stmts []ast.Statement

	for {
		p.skipTrivia()

		if p.match(token.Symbol, "}") {
			break
		}

		if p.match(token.Symbol, ";") {
			continue
		}

		if p.peek().Kind == token.EndOfFile {
			return nil, p.errExpected("}")
		}

		stmt, err := p.parseStatement(true)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	if err := p.expect(token.Symbol, ";"); err != nil {
		return nil, err
	}

	return stmts, p.expect(token.Symbol, "]")
}

func (p *Parser) parseExecuteDirective() (*ast.ExecuteDirective, error) {
	if err := p.expect(token.Symbol, "("); err != nil {
		return nil, err
	}

	blockID, err := p.expectInt()
	if err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, ")"); err != nil {
		return nil, err
	}

	if err := p.expect(token.Operator, "=>"); err != nil {
		return nil, err
	}

	exec := &ast.ExecuteDirective{BlockID: blockID}

	for p.matchLexeme("*") {
		out, err := p.parseOutputDirective()
		if err != nil {
			return nil, err
		}

		exec.Outputs = append(exec.Outputs, out)
	}

	// Trailing semicolon after the directive list is optional.
	p.match(token.Symbol, ";")

	return exec, nil
}

func (p *Parser) parseOutputDirective() (ast.Output, error) {
	verb := p.advance()

	switch verb.Lexeme {
	case "store":
		if err := p.expectWords("program", "output", "in"); err != nil {
			return ast.Output{}, err
		}

		return ast.Output{Kind: ast.OutputStore, Target: p.advance().Lexeme}, nil

	case "show":
		if err := p.expectWords("program", "output", "in"); err != nil {
			return ast.Output{}, err
		}

		target := ""
		if p.match(token.Symbol, "@") {
			target = "@" + p.advance().Lexeme
		} else {
			target = p.advance().Lexeme
		}

		return ast.Output{Kind: ast.OutputShow, Target: target}, nil

	case "give":
		if err := p.expectWords("program", "output", "to", "BLOCK"); err != nil {
			return ast.Output{}, err
		}

		if err := p.expect(token.Symbol, "("); err != nil {
			return ast.Output{}, err
		}

		id, err := p.expectInt()
		if err != nil {
			return ast.Output{}, err
		}

		return ast.Output{Kind: ast.OutputGive, BlockID: id},
			p.expect(token.Symbol, ")")

	default:
		return ast.Output{}, &Error{
			Line:     verb.Line,
			Column:   verb.Column,
			Lexeme:   verb.Lexeme,
			Reason:   "unknown output directive",
			Expected: []string{"store", "show", "give"},
		}
	}
}

// parseStatement parses one statement. terminated selects the
// semicolon-bearing form used at the top level of a section block; the
// semicolon-free form is used for single-statement bodies introduced by =>
// and for brace blocks nested one level deep.
func (p *Parser) parseStatement(terminated bool) (ast.Statement, error) {
	if p.match(token.Keyword, "Let") {
		name := p.advance().Lexeme

		if err := p.expect(token.Operator, "="); err != nil {
			return nil, err
		}

		value := p.arg(p.advance())

		return &ast.Let{Name: name, Value: value}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "Say") {
		msg := p.arg(p.advance())

		return &ast.Say{Message: msg}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "Run") {
		p.advance() // operation

		if err := p.expect(token.Symbol, "["); err != nil {
			return nil, err
		}

		id, err := p.expectInt()
		if err != nil {
			return nil, err
		}

		if err := p.expect(token.Symbol, "]"); err != nil {
			return nil, err
		}

		return &ast.Run{OperationID: id}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "If") {
		return p.parseIf()
	}

	if p.match(token.Keyword, "While") {
		return p.parseWhile()
	}

	if p.match(token.Keyword, "open") {
		path := p.arg(p.advance())

		return &ast.Open{Path: path}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "Read") {
		path := p.arg(p.advance())

		return &ast.Read{Path: path}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "Write") {
		content := p.arg(p.advance())

		if err := p.expect(token.Keyword, "in_file"); err != nil {
			return nil, err
		}

		path := p.arg(p.advance())

		if err := p.expect(token.Keyword, "at_Location"); err != nil {
			return nil, err
		}

		location := p.arg(p.advance())

		return &ast.Write{Content: content, Path: path, Location: location},
			p.terminator(terminated)
	}

	if p.match(token.Keyword, "NOW") {
		body, err := p.parseBraceBody()
		if err != nil {
			return nil, err
		}

		return &ast.Now{Body: body}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "DO") {
		var (
			body []ast.Statement
			err  error
		)

		if p.peek().Is(token.Symbol, "{") {
			body, err = p.parseBraceBody()
			if err != nil {
				return nil, err
			}
		}

		return &ast.Do{Body: body}, p.terminator(terminated)
	}

	if p.match(token.Keyword, "Until") {
		if err := p.expect(token.Symbol, "{"); err != nil {
			return nil, err
		}

		cond := p.conditionUntil("}")

		if err := p.expect(token.Symbol, "}"); err != nil {
			return nil, err
		}

		return &ast.Until{Condition: cond}, p.terminator(terminated)
	}

	// Ambiguous identifier starts: try assignment, then increment, restoring
	// the position on failed lookahead.
	if p.peek().Kind == token.Identifier {
		mark := p.pos
		name := p.advance().Lexeme

		if p.match(token.Operator, "=") {
			value := p.arg(p.advance())

			return &ast.Assignment{Name: name, Value: value},
				p.terminator(terminated)
		}

		p.pos = mark
	}

	if p.peek().Kind == token.Identifier {
		mark := p.pos
		name := p.advance().Lexeme

		if p.match(token.Operator, "++") {
			return &ast.Increment{Name: name}, p.terminator(terminated)
		}

		if p.match(token.Operator, "--") {
			return &ast.Increment{Name: name, Decrement: true},
				p.terminator(terminated)
		}

		p.pos = mark
	}

	t := p.peek()

	return nil, &Error{
		Line:   t.Line,
		Column: t.Column,
		Lexeme: t.Lexeme,
		Reason: "unknown statement",
	}
}

// parseIf parses `=> {cond} => stmt [Else => stmt]` after the If keyword.
func (p *Parser) parseIf() (ast.Statement, error) {
	if err := p.expect(token.Operator, "=>"); err != nil {
		return nil, err
	}

	if err := p.expect(token.Symbol, "{"); err != nil {
		return nil, err
	}

	cond := p.conditionUntil("}")

	if err := p.expect(token.Symbol, "}"); err != nil {
		return nil, err
	}

	stmt := &ast.If{Condition: cond}

	if p.match(token.Operator, "=>") {
		then, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}

		stmt.Then = append(stmt.Then, then)
	}

	if p.match(token.Keyword, "Else") {
		if err := p.expect(token.Operator, "=>"); err != nil {
			return nil, err
		}

		alt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}

		stmt.Else = append(stmt.Else, alt)
	}

	return stmt, nil
}

// parseWhile parses `=> cond => stmt` after the While keyword.
func (p *Parser) parseWhile() (ast.Statement, error) {
	if err := p.expect(token.Operator, "=>"); err != nil {
		return nil, err
	}

	cond := p.conditionUntil("=>")

	if err := p.expect(token.Operator, "=>"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement(false)
	if err != nil {
		return nil, err
	}

	return &ast.While{Condition: cond, Body: []ast.Statement{body}}, nil
}

// parseBraceBody parses `{ stmt* }` where the statements use the
// semicolon-free form.
func (p *Parser) parseBraceBody() ([]ast.Statement, error) {
	if err := p.expect(token.Symbol, "{"); err != nil {
		return nil, err
	}

	var body []ast.Statement

	for {
		p.skipTrivia()

		t := p.peek()
		if t.Kind == token.EndOfFile || t.Is(token.Symbol, "}") {
			break
		}

		if p.match(token.Symbol, ";") {
			continue
		}

		stmt, err := p.parseStatement(false)
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return body, p.expect(token.Symbol, "}")
}

// conditionUntil captures a raw token span up to (not including) the stop
// lexeme, joined by single spaces. Conditions are not sub-parsed; they are
// re-interpreted at evaluation time as a variable name or a non-empty-string
// truth test.
func (p *Parser) conditionUntil(stop string) string {
	var parts []string

	for {
		t := p.peek()
		if t.Kind == token.EndOfFile || t.Lexeme == stop {
			break
		}

		parts = append(parts, p.advance().Lexeme)
	}

	return strings.Join(parts, " ")
}

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}

	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.peek()

	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

// skipTrivia consumes comment and unknown tokens, which are retained by the
// lexer but carry no syntax.
func (p *Parser) skipTrivia() {
	for {
		switch p.peek().Kind {
		case token.Comment, token.Unknown:
			p.advance()
		default:
			return
		}
	}
}

func (p *Parser) match(kind token.Kind, lexeme string) bool {
	if !p.peek().Is(kind, lexeme) {
		return false
	}

	p.advance()

	return true
}

// matchLexeme matches by lexeme alone, accepting either symbol or operator
// kind. Needed for `*`, which the lexer emits as an operator.
func (p *Parser) matchLexeme(lexeme string) bool {
	t := p.peek()
	if (t.Kind != token.Symbol && t.Kind != token.Operator) || t.Lexeme != lexeme {
		return false
	}

	p.advance()

	return true
}

func (p *Parser) expect(kind token.Kind, lexeme string) error {
	if p.match(kind, lexeme) {
		return nil
	}

	expected := lexeme
	if expected == "" {
		expected = kind.String()
	}

	return p.errExpected(expected)
}

// expectWords consumes a run of fixed word tokens (identifiers or keywords)
// inside an output directive.
func (p *Parser) expectWords(words ...string) error {
	for _, word := range words {
		t := p.advance()
		if t.Lexeme != word {
			return &Error{
				Line:     t.Line,
				Column:   t.Column,
				Lexeme:   t.Lexeme,
				Expected: []string{word},
			}
		}
	}

	return nil
}

func (p *Parser) expectInt() (int, error) {
	t := p.peek()
	if t.Kind != token.Number {
		return 0, p.errExpected("integer")
	}

	p.advance()

	n, err := strconv.Atoi(t.Lexeme)
	if err != nil {
		return 0, p.errExpected("integer")
	}

	return n, nil
}

// terminator expects the statement-terminating semicolon when parsing the
// terminated statement form.
func (p *Parser) terminator(terminated bool) error {
	if !terminated {
		return nil
	}

	return p.expect(token.Symbol, ";")
}

func (p *Parser) errExpected(expected ...string) error {
	t := p.peek()

	return &Error{
		Line:     t.Line,
		Column:   t.Column,
		Lexeme:   t.Lexeme,
		Expected: expected,
	}
}

func (p *Parser) arg(t token.Token) ast.Arg {
	return ast.Arg{Text: t.Lexeme, Quoted: t.Kind == token.String}
}
