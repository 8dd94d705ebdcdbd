package lang

import (
	"errors"

	"github.com/nexlang/nex/lang/ast"
	"github.com/nexlang/nex/lang/lexer"
	"github.com/nexlang/nex/lang/parser"
	"github.com/nexlang/nex/lang/token"
)

// Session is a persistent interactive interpreter: one engine whose root
// scope survives across inputs, so bindings from earlier lines stay visible.
type Session struct {
	engine *Engine
	lastDo *ast.Do
	read   int
}

// NewSession returns a session over a fresh engine.
func NewSession(opts ...EngineOption) *Session {
	return &Session{engine: NewEngine(opts...)}
}

// Exec parses and executes one statement line, returning the output it
// produced. Bindings persist into subsequent calls. A DO block on one line
// pairs with an Until on a later line, matching in-program pairing.
func (s *Session) Exec(line string) (string, error) {
	stmt, err := parser.New(lexer.New(line).Tokenize()).ParseStatement()
	if err != nil {
		perr := &parser.Error{}
		if errors.As(err, &perr) {
			return "", NewParseError(perr, line)
		}

		return "", err
	}

	switch t := stmt.(type) {
	case *ast.Until:
		err = s.engine.execUntil(t, s.lastDo)

	case *ast.Do:
		s.lastDo = t
		err = s.engine.execStatement(stmt)

	default:
		err = s.engine.execStatement(stmt)
	}

	out := s.engine.output.String()[s.read:]
	s.read = s.engine.output.Len()

	return out, err
}

// Words returns the completion vocabulary: every keyword plus every
// registered builtin name.
func (s *Session) Words() []string {
	words := token.Keywords()

	return append(words, s.engine.registry.Names()...)
}
