package lang

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/sahilm/fuzzy"
)

// BuiltinKind tags the side-effect contract of a builtin.
type BuiltinKind int

const (
	BuiltinSay BuiltinKind = iota
	BuiltinFileOpen
	BuiltinFileRead
	BuiltinFileWrite
	BuiltinMathOp
	BuiltinStringOp
	BuiltinExprOp
)

// Variadic marks a builtin accepting any number of arguments.
const Variadic = -1

// BuiltinFunc is the uniform callable signature of a builtin: an ordered
// argument list in, one value out.
type BuiltinFunc func(args []Value) (Value, error)

// Builtin is one registry entry.
type Builtin struct {
	Name  string
	Kind  BuiltinKind
	Arity int // Variadic for variable arguments
	Fn    BuiltinFunc
}

// Registry is a name-indexed table of builtins. It is populated at
// construction and read-only thereafter; the engine receives it by injection
// so tests can substitute custom instances.
type Registry struct {
	builtins map[string]*Builtin
	names    []string
}

// NewRegistry constructs a registry from the given entries.
func NewRegistry(entries ...*Builtin) *Registry {
	r := &Registry{builtins: make(map[string]*Builtin, len(entries))}

	for _, b := range entries {
		r.builtins[b.Name] = b
	}

	r.names = make([]string, 0, len(r.builtins))
	for name := range r.builtins {
		r.names = append(r.names, name)
	}

	sort.Strings(r.names)

	return r
}

// Lookup returns the builtin registered under name, or nil.
func (r *Registry) Lookup(name string) *Builtin {
	return r.builtins[name]
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builtins[name]

	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	return r.names
}

// Suggest returns registered names fuzzy-matching the given name, best first.
func (r *Registry) Suggest(name string) []string {
	matches := fuzzy.Find(name, r.names)

	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
	}

	return suggestions
}

// Invoke calls the builtin registered under name with the given ordered
// arguments. Unregistered names fail with ErrUnknownBuiltin; a declared
// non-variadic arity must match the argument count exactly or the call fails
// with ErrArityMismatch.
func (r *Registry) Invoke(name string, args []Value) (Value, error) {
	b := r.builtins[name]
	if b == nil {
		err := ErrUnknownBuiltin.With(slog.String("name", name))

		if suggestions := r.Suggest(name); len(suggestions) > 0 {
			err = err.With(slog.String("did_you_mean", suggestions[0]))
		}

		return Value{}, err
	}

	if b.Arity >= 0 && len(args) != b.Arity {
		return Value{}, ErrArityMismatch.With(
			slog.String("name", name),
			slog.Int("expected", b.Arity),
			slog.Int("got", len(args)),
		)
	}

	return b.Fn(args)
}

// handleSeq hands out monotonically increasing handle ids for one registry.
type handleSeq struct {
	next int
}

func (s *handleSeq) id() int {
	s.next++

	return s.next
}

// StdRegistry constructs the standard builtin set. Say output goes to out.
func StdRegistry(out io.Writer) *Registry {
	seq := &handleSeq{}

	return NewRegistry(
		&Builtin{Name: "Say", Kind: BuiltinSay, Arity: 1,
			Fn: func(args []Value) (Value, error) {
				fmt.Fprintln(out, args[0].String())

				return Value{}, nil
			}},

		&Builtin{Name: "open", Kind: BuiltinFileOpen, Arity: 1,
			Fn: func(args []Value) (Value, error) {
				// A failed open yields a dead (falsy) handle, not an error.
				h := Handle{Kind: "file", ID: seq.id()}

				if f, err := os.Open(args[0].String()); err == nil {
					h.Ref = f
				}

				return HandleValue(h), nil
			}},

		&Builtin{Name: "Read", Kind: BuiltinFileRead, Arity: 1,
			Fn: func(args []Value) (Value, error) {
				data, err := os.ReadFile(args[0].String())
				if err != nil {
					return Value{}, WrapError(err).
						With(slog.String("path", args[0].String()))
				}

				return StringValue(string(data)), nil
			}},

		&Builtin{Name: "Write", Kind: BuiltinFileWrite, Arity: Variadic,
			Fn: func(args []Value) (Value, error) {
				// Write(content, file, location): location/file receives
				// content. Failure reports as a false result, not an error.
				if len(args) < 3 {
					return BoolValue(false), ErrArityMismatch.With(
						slog.String("name", "Write"),
						slog.Int("expected", 3),
						slog.Int("got", len(args)),
					)
				}

				path := filepath.Join(args[2].String(), args[1].String())

				err := os.WriteFile(path, []byte(args[0].String()), 0o644)
				if err != nil {
					return BoolValue(false), nil
				}

				return BoolValue(true), nil
			}},

		&Builtin{Name: "Add", Kind: BuiltinMathOp, Arity: 2,
			Fn: func(args []Value) (Value, error) {
				return args[0].Add(args[1]), nil
			}},

		&Builtin{Name: "Subtract", Kind: BuiltinMathOp, Arity: 2,
			Fn: func(args []Value) (Value, error) {
				return args[0].Sub(args[1]), nil
			}},

		&Builtin{Name: "Multiply", Kind: BuiltinMathOp, Arity: 2,
			Fn: func(args []Value) (Value, error) {
				return args[0].Mul(args[1]), nil
			}},

		&Builtin{Name: "Divide", Kind: BuiltinMathOp, Arity: 2,
			Fn: func(args []Value) (Value, error) {
				return args[0].Div(args[1])
			}},

		&Builtin{Name: "Concat", Kind: BuiltinStringOp, Arity: 2,
			Fn: func(args []Value) (Value, error) {
				return StringValue(args[0].String() + args[1].String()), nil
			}},

		&Builtin{Name: "Eval", Kind: BuiltinExprOp, Arity: 1,
			Fn: evalExpr},
	)
}

// evalExpr compiles and runs a constant expr-lang expression, converting the
// result into a language value.
func evalExpr(args []Value) (Value, error) {
	source := args[0].String()

	program, err := expr.Compile(source)
	if err != nil {
		return Value{}, ErrExprCompile.Wrap(err).
			With(slog.String("expr", source))
	}

	result, err := expr.Run(program, nil)
	if err != nil {
		return Value{}, ErrExprEvaluate.Wrap(err).
			With(slog.String("expr", source))
	}

	switch v := result.(type) {
	case bool:
		return BoolValue(v), nil
	case int:
		return FloatValue(float64(v)), nil
	case int64:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case string:
		return StringValue(v), nil
	default:
		return StringValue(fmt.Sprint(v)), nil
	}
}
