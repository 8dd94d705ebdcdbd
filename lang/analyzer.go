package lang

import (
	"log/slog"

	"github.com/nexlang/nex/lang/ast"
	"github.com/nexlang/nex/log"
)

// Analyzer walks the AST once before execution, opening and closing scopes
// to mirror the engine's nesting and registering declarations.
//
// The pass is deliberately permissive: it builds the symbol skeleton but does
// not reject undefined variable references, unresolved operation calls, or
// malformed conditions. Those stay soft for the current feature set.
type Analyzer struct {
	symbols *SymbolTable
	logger  log.Logger
}

// NewAnalyzer returns an analyzer over its own symbol table instance.
func NewAnalyzer(symbols *SymbolTable, logger log.Logger) *Analyzer {
	return &Analyzer{symbols: symbols, logger: logger}
}

// Analyze registers declarations from the program, entering and exiting a
// scope for every block and every control-construct body.
func (a *Analyzer) Analyze(program *ast.Program) error {
	a.symbols.EnterScope()
	defer a.symbols.ExitScope()

	a.symbols.DefineBlock("BLOCK", program.BlockID)

	for _, section := range program.Sections {
		switch s := section.(type) {
		case *ast.Data:
			a.walkBody(s.Statements)

		case *ast.Operation:
			a.symbols.DefineOperation(s.Name, nil)
			a.walkBody(s.Body)

		case *ast.Function:
			a.symbols.DefineFunction(s.Name, nil)
			a.walkBody(s.Body)

		case *ast.SystemCall:
			a.walkBody(s.Body)
		}
	}

	return nil
}

// walkBody analyzes a statement sequence inside its own scope.
func (a *Analyzer) walkBody(stmts []ast.Statement) {
	a.symbols.EnterScope()
	defer a.symbols.ExitScope()

	for _, stmt := range stmts {
		a.walkStatement(stmt)
	}
}

func (a *Analyzer) walkStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Let:
		a.symbols.DefineVariable(s.Name, ParseValue(s.Value.Text, s.Value.Quoted), true)

	case *ast.Say:
		// A message resolving to no binding is a literal, which is valid.

	case *ast.Run:
		// Operation resolution is checked at execution time, when all
		// sections have been indexed.
		a.logger.Trace("run reference", slog.Int("operation", s.OperationID))

	case *ast.If:
		a.symbols.EnterScope()

		for _, t := range s.Then {
			a.walkStatement(t)
		}

		for _, e := range s.Else {
			a.walkStatement(e)
		}

		a.symbols.ExitScope()

	case *ast.While:
		a.walkBody(s.Body)

	case *ast.Now:
		a.walkBody(s.Body)

	case *ast.Do:
		a.walkBody(s.Body)

	case *ast.Until:
		a.walkBody(s.Body)

	case *ast.Open, *ast.Read, *ast.Write:
		// File paths are validated by the builtins at execution time.

	case *ast.Assignment, *ast.Increment:
		// Mutation targets are resolved at execution time; analysis does not
		// reject names that only exist in the engine's scope shape.
	}
}
