package lang

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nexlang/nex/lang/ast"
	"github.com/nexlang/nex/log"
)

// DefaultLoopLimit is the default iteration safety cap for While and
// DO … Until loops. Conditions are static name references, so a body that
// never mutates its condition variable would otherwise spin forever.
const DefaultLoopLimit = 10000

// Result is the outcome of one program run.
type Result struct {
	// Output is the accumulated program output.
	Output string

	// Forwarded maps destination block ids to the output given to them by
	// *give directives, for block chaining.
	Forwarded map[int]string
}

// Engine executes an analyzed program by walking the AST depth-first. One
// engine owns one run: its scope chain and output buffer are never shared.
type Engine struct {
	symbols   *SymbolTable
	registry  *Registry
	logger    log.Logger
	stdout    io.Writer
	loopLimit int

	output     strings.Builder
	operations map[int]*ast.Operation
	forwarded  map[int]string
}

// EngineOption configures an engine.
type EngineOption func(*Engine)

// WithStdout sets the writer receiving terminal-routed output.
func WithStdout(w io.Writer) EngineOption {
	return func(e *Engine) { e.stdout = w }
}

// WithLoopLimit sets the loop iteration safety cap.
func WithLoopLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.loopLimit = n
		}
	}
}

// WithLogger sets the engine's structured logger.
func WithLogger(l log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithRegistry injects the builtin registry. The registry is never global, so
// tests can substitute custom instances.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) { e.registry = r }
}

// NewEngine returns an engine. Without WithRegistry it executes against the
// standard builtin set bound to the engine's stdout writer.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		symbols:    NewSymbolTable(),
		stdout:     os.Stdout,
		loopLimit:  DefaultLoopLimit,
		operations: map[int]*ast.Operation{},
		forwarded:  map[int]string{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = StdRegistry(e.stdout)
	}

	return e
}

// Execute runs the program sections top to bottom, then applies the execute
// directive's output routing. Without a directive the accumulated output is
// flushed to the stdout writer, preserving direct-print behavior.
func (e *Engine) Execute(program *ast.Program) (Result, error) {
	e.symbols.EnterScope()
	defer e.symbols.ExitScope()

	e.symbols.DefineBlock("BLOCK", program.BlockID)

	// Pre-index operations by id so Run resolves forward references.
	for _, section := range program.Sections {
		if op, ok := section.(*ast.Operation); ok {
			e.operations[op.ID] = op
		}
	}

	for _, section := range program.Sections {
		if err := e.execSection(section); err != nil {
			return Result{}, err
		}
	}

	if program.Execute != nil {
		if err := e.applyOutputs(program.Execute); err != nil {
			return Result{}, err
		}
	} else if e.output.Len() > 0 {
		fmt.Fprint(e.stdout, e.output.String())
	}

	return Result{Output: e.output.String(), Forwarded: e.forwarded}, nil
}

func (e *Engine) execSection(section ast.Section) error {
	switch s := section.(type) {
	case *ast.Data:
		// Data bindings install into the current scope so later sections
		// can see them.
		return e.execBody(s.Statements)

	case *ast.Operation:
		e.symbols.DefineOperation(s.Name, nil)

		return e.execInChildScope(s.Body)

	case *ast.Function:
		e.symbols.DefineFunction(s.Name, nil)

		return e.execInChildScope(s.Body)

	case *ast.SystemCall:
		return e.execInChildScope(s.Body)

	default:
		return nil
	}
}

// execInChildScope executes a statement sequence in a fresh child scope,
// popped exactly once, including on error paths.
func (e *Engine) execInChildScope(stmts []ast.Statement) error {
	e.symbols.EnterScope()
	defer e.symbols.ExitScope()

	return e.execBody(stmts)
}

// execBody executes a statement sequence, tracking the nearest preceding DO
// so an Until can re-run it as a do-while pair.
func (e *Engine) execBody(stmts []ast.Statement) error {
	var lastDo *ast.Do

	for _, stmt := range stmts {
		if until, ok := stmt.(*ast.Until); ok {
			if err := e.execUntil(until, lastDo); err != nil {
				return err
			}

			continue
		}

		if err := e.execStatement(stmt); err != nil {
			return err
		}

		if do, ok := stmt.(*ast.Do); ok {
			lastDo = do
		}
	}

	return nil
}

func (e *Engine) execStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Let:
		// Always a fresh binding, shadowing any outer one.
		e.symbols.DefineVariable(s.Name, ParseValue(s.Value.Text, s.Value.Quoted), true)

		return nil

	case *ast.Say:
		line := s.Message.Text
		if !s.Message.Quoted {
			if sym := e.symbols.Lookup(s.Message.Text); sym != nil && sym.Kind == SymbolVariable {
				line = sym.Value.String()
			}
		}

		e.say(line)

		return nil

	case *ast.Run:
		return e.execRun(s)

	case *ast.If:
		return e.execIf(s)

	case *ast.While:
		return e.execWhile(s)

	case *ast.Now:
		return e.execInChildScope(s.Body)

	case *ast.Do:
		return e.execInChildScope(s.Body)

	case *ast.Until:
		// An Until with no preceding DO in the same body only re-evaluates
		// its condition.
		return e.execUntil(s, nil)

	case *ast.Assignment:
		value := e.resolveArg(s.Value)

		return e.symbols.UpdateVariable(s.Name, value)

	case *ast.Increment:
		sym := e.symbols.Lookup(s.Name)
		if sym == nil || sym.Kind != SymbolVariable {
			return ErrUndefinedVariable.With(slog.String("name", s.Name))
		}

		delta := 1.0
		if s.Decrement {
			delta = -1.0
		}

		return e.symbols.UpdateVariable(s.Name, FloatValue(sym.Value.Float()+delta))

	case *ast.Open:
		result, err := e.registry.Invoke("open", []Value{StringValue(s.Path.Text)})
		if err != nil {
			return err
		}

		e.logger.Debug("opened file",
			slog.String("path", s.Path.Text),
			slog.String("handle", result.String()),
		)

		return nil

	case *ast.Read:
		result, err := e.registry.Invoke("Read", []Value{StringValue(s.Path.Text)})
		if err != nil {
			return err
		}

		e.logger.Debug("read file",
			slog.String("path", s.Path.Text),
			slog.Int("bytes", len(result.String())),
		)

		return nil

	case *ast.Write:
		result, err := e.registry.Invoke("Write", []Value{
			StringValue(s.Content.Text),
			StringValue(s.Path.Text),
			StringValue(s.Location.Text),
		})
		if err != nil {
			return err
		}

		e.logger.Debug("wrote file",
			slog.String("path", s.Path.Text),
			slog.String("location", s.Location.Text),
			slog.Bool("ok", result.Bool()),
		)

		return nil

	default:
		return nil
	}
}

// execRun resolves an operation by id and invokes its body in a child scope.
func (e *Engine) execRun(s *ast.Run) error {
	op, ok := e.operations[s.OperationID]
	if !ok {
		return ErrUnknownOperation.With(slog.Int("operation", s.OperationID))
	}

	e.logger.Debug("running operation",
		slog.Int("operation", s.OperationID),
		slog.String("name", op.Name),
	)

	return e.execInChildScope(op.Body)
}

func (e *Engine) execIf(s *ast.If) error {
	e.symbols.EnterScope()
	defer e.symbols.ExitScope()

	if e.truthy(s.Condition) {
		return e.execBody(s.Then)
	}

	return e.execBody(s.Else)
}

// execWhile re-evaluates the condition before each iteration, executing the
// single body statement while truthy, bounded by the iteration cap.
func (e *Engine) execWhile(s *ast.While) error {
	iterations := 0

	for e.truthy(s.Condition) {
		iterations++
		if iterations > e.loopLimit {
			return ErrLoopLimit.With(
				slog.String("condition", s.Condition),
				slog.Int("limit", e.loopLimit),
			)
		}

		if err := e.execInChildScope(s.Body); err != nil {
			return err
		}
	}

	return nil
}

// execUntil loops the do-while pair: while the condition is false, re-run
// the nearest preceding DO body, bounded by the iteration cap.
func (e *Engine) execUntil(s *ast.Until, lastDo *ast.Do) error {
	iterations := 0

	for !e.truthy(s.Condition) {
		iterations++
		if iterations > e.loopLimit {
			return ErrLoopLimit.With(
				slog.String("condition", s.Condition),
				slog.Int("limit", e.loopLimit),
			)
		}

		if lastDo != nil {
			if err := e.execInChildScope(lastDo.Body); err != nil {
				return err
			}
		}
	}

	return nil
}

// truthy evaluates a raw condition span: a bound variable converts by its
// bool form, anything else is a non-empty-string truth test.
func (e *Engine) truthy(condition string) bool {
	if sym := e.symbols.Lookup(condition); sym != nil && sym.Kind == SymbolVariable {
		return sym.Value.Bool()
	}

	return condition != ""
}

// resolveArg interprets a statement argument: a bound variable name yields
// its value, otherwise the literal parses as float-or-string.
func (e *Engine) resolveArg(a ast.Arg) Value {
	if !a.Quoted {
		if sym := e.symbols.Lookup(a.Text); sym != nil && sym.Kind == SymbolVariable {
			return sym.Value
		}
	}

	return ParseValue(a.Text, a.Quoted)
}

// say appends one line to the accumulated program output.
func (e *Engine) say(line string) {
	e.output.WriteString(line)
	e.output.WriteString("\n")

	e.logger.Trace("say", slog.String("line", line))
}

// applyOutputs applies each output directive in declaration order.
func (e *Engine) applyOutputs(exec *ast.ExecuteDirective) error {
	for _, out := range exec.Outputs {
		switch out.Kind {
		case ast.OutputStore:
			err := os.WriteFile(out.Target, []byte(e.output.String()), 0o644)
			if err != nil {
				return WrapError(err).
					With(slog.String("path", out.Target))
			}

		case ast.OutputShow:
			fmt.Fprint(e.stdout, e.output.String())

		case ast.OutputGive:
			e.forwarded[out.BlockID] = e.output.String()
		}
	}

	return nil
}
