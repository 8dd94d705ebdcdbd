package lang

import "log/slog"

// SymbolKind classifies a symbol table entry.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolFunction
	SymbolOperation
	SymbolBlock
	SymbolBuiltin
)

// String returns the symbol kind name.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolOperation:
		return "operation"
	case SymbolBlock:
		return "block"
	case SymbolBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Symbol is one binding in a scope.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Value   Value
	Mutable bool     // variables only
	Params  []string // functions and operations
	BlockID int      // blocks only
	Impl    string   // builtins: implementation tag
}

// scope is one frame of the arena. parent indexes the enclosing scope, or -1
// at the root.
type scope struct {
	symbols map[string]*Symbol
	parent  int
}

// SymbolTable is the scope chain, modeled as an arena of scopes addressed by
// index. Entering pushes a new index; exiting truncates back to the parent,
// making scope lifetime explicit without shared ownership.
type SymbolTable struct {
	scopes  []scope
	current int
}

// NewSymbolTable returns a table holding only the root scope, seeded with the
// process-wide builtin name bindings so they resolve like user-defined names
// during analysis.
func NewSymbolTable() *SymbolTable {
	t := &SymbolTable{
		scopes:  []scope{{symbols: map[string]*Symbol{}, parent: -1}},
		current: 0,
	}

	for name, impl := range map[string]string{
		"Say":   "print",
		"open":  "file_open",
		"Read":  "file_read",
		"Write": "file_write",
		"DO":    "execute",
	} {
		t.define(&Symbol{Name: name, Kind: SymbolBuiltin, Impl: impl})
	}

	return t
}

// EnterScope pushes a new child scope of the current scope.
func (t *SymbolTable) EnterScope() {
	t.scopes = append(t.scopes, scope{
		symbols: map[string]*Symbol{},
		parent:  t.current,
	})
	t.current = len(t.scopes) - 1
}

// ExitScope pops back to the parent scope. At the root it is a no-op, never
// an underflow. The arena tail is truncated so exited scopes cannot be
// revived.
func (t *SymbolTable) ExitScope() {
	parent := t.scopes[t.current].parent
	if parent < 0 {
		return
	}

	t.scopes = t.scopes[:t.current]
	t.current = parent
}

// Depth returns the number of open scopes, root included.
func (t *SymbolTable) Depth() int { return len(t.scopes) }

// define installs a symbol in the current scope only, shadowing any outer
// binding of the same name without affecting it.
func (t *SymbolTable) define(sym *Symbol) {
	t.scopes[t.current].symbols[sym.Name] = sym
}

// Lookup walks from the innermost scope outward and returns the nearest
// enclosing binding, or nil.
func (t *SymbolTable) Lookup(name string) *Symbol {
	for i := t.current; i >= 0; i = t.scopes[i].parent {
		if sym, ok := t.scopes[i].symbols[name]; ok {
			return sym
		}
	}

	return nil
}

// DefineVariable binds a variable in the current scope.
func (t *SymbolTable) DefineVariable(name string, value Value, mutable bool) {
	t.define(&Symbol{
		Name:    name,
		Kind:    SymbolVariable,
		Value:   value,
		Mutable: mutable,
	})
}

// DefineFunction binds a function declaration in the current scope.
func (t *SymbolTable) DefineFunction(name string, params []string) {
	t.define(&Symbol{Name: name, Kind: SymbolFunction, Params: params})
}

// DefineOperation binds an operation declaration in the current scope.
func (t *SymbolTable) DefineOperation(name string, params []string) {
	t.define(&Symbol{Name: name, Kind: SymbolOperation, Params: params})
}

// DefineBlock binds a block id in the current scope.
func (t *SymbolTable) DefineBlock(name string, blockID int) {
	t.define(&Symbol{Name: name, Kind: SymbolBlock, BlockID: blockID})
}

// HasVariable reports whether name resolves to a variable binding.
func (t *SymbolTable) HasVariable(name string) bool {
	sym := t.Lookup(name)

	return sym != nil && sym.Kind == SymbolVariable
}

// UpdateVariable rebinds an existing variable's value in place. It never
// creates a binding: an unresolved name fails with ErrUndefinedVariable, and
// a non-mutable binding fails with ErrMutation, leaving all scopes unchanged.
func (t *SymbolTable) UpdateVariable(name string, value Value) error {
	sym := t.Lookup(name)
	if sym == nil || sym.Kind != SymbolVariable {
		return ErrUndefinedVariable.With(slog.String("name", name))
	}

	if !sym.Mutable {
		return ErrMutation.With(slog.String("name", name))
	}

	sym.Value = value

	return nil
}
