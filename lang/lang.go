// Package lang implements the language front end and interpreter: lexer,
// parser, semantic analysis, builtin registry, and the block engine that
// executes programs.
package lang

import (
	"errors"

	"github.com/nexlang/nex/lang/ast"
	"github.com/nexlang/nex/lang/lexer"
	"github.com/nexlang/nex/lang/parser"
	"github.com/nexlang/nex/lang/token"
)

// Tokenize scans source into its full token stream, comments included.
func Tokenize(source string) []token.Token {
	return lexer.New(source).Tokenize()
}

// Parse scans and parses source into a program AST. Parse failures carry the
// source so the error renders the offending line with a column marker.
func Parse(source string) (*ast.Program, error) {
	program, err := parser.New(Tokenize(source)).ParseProgram()
	if err != nil {
		perr := &parser.Error{}
		if errors.As(err, &perr) {
			return nil, NewParseError(perr, source)
		}

		return nil, err
	}

	return program, nil
}

// Run interprets source end to end: one scan, one parse, one analysis pass,
// one execution. The analyzer and the engine each own a separate symbol
// table, so analysis cannot leak bindings into execution.
func Run(source string, opts ...EngineOption) (Result, error) {
	program, err := Parse(source)
	if err != nil {
		return Result{}, err
	}

	engine := NewEngine(opts...)

	analyzer := NewAnalyzer(NewSymbolTable(), engine.logger)
	if err := analyzer.Analyze(program); err != nil {
		return Result{}, err
	}

	return engine.Execute(program)
}
