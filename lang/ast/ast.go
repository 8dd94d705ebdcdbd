// Package ast defines the NexLang abstract syntax tree.
//
// Node variants are closed: Section and Statement are sealed interfaces with
// unexported marker methods, so the analyzer and engine dispatch over them
// with exhaustive type switches. Ownership is strictly tree-shaped; nodes
// carry no behavior and no back-references.
package ast

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Section is a top-level program section.
type Section interface {
	Node
	section()
}

// Statement is an executable statement inside a section or body block.
type Statement interface {
	Node
	stmt()
}

// Arg is a literal or identifier argument as written in source. Quoted
// records whether the lexeme came from a string literal, which the formatter
// needs to reproduce the original spelling.
type Arg struct {
	Text   string
	Quoted bool
}

// Program is the root node: a numbered block holding top-level sections in
// source order, plus at most one execute directive after all sections.
type Program struct {
	BlockID  int
	Sections []Section
	Execute  *ExecuteDirective
}

func (*Program) node() {}

// Data is a DATA section: named, numbered, holding variable bindings.
type Data struct {
	Name       string
	ID         int
	Statements []Statement
}

// Operation is an OPERATION section.
type Operation struct {
	Name string
	ID   int
	Body []Statement
}

// Function is a FUNCTION section.
type Function struct {
	Name string
	ID   int
	Body []Statement
}

// SystemCall is a SYSTEM_CALL section.
type SystemCall struct {
	Body []Statement
}

func (*Data) node()       {}
func (*Operation) node()  {}
func (*Function) node()   {}
func (*SystemCall) node() {}

func (*Data) section()       {}
func (*Operation) section()  {}
func (*Function) section()   {}
func (*SystemCall) section() {}

// OutputKind selects one of the three execute-directive output routes.
type OutputKind int

const (
	// OutputStore writes the program output to a file path.
	OutputStore OutputKind = iota

	// OutputShow writes the program output to the terminal.
	OutputShow

	// OutputGive forwards the program output as input to another block.
	OutputGive
)

// String returns the directive verb.
func (k OutputKind) String() string {
	switch k {
	case OutputStore:
		return "store"
	case OutputShow:
		return "show"
	case OutputGive:
		return "give"
	default:
		return "output"
	}
}

// Output is a single output directive inside an execute directive.
// Target holds the file path for store and the display target (e.g.
// "@terminal") for show. BlockID holds the destination block for give.
type Output struct {
	Kind    OutputKind
	Target  string
	BlockID int
}

// ExecuteDirective is the optional #EXECUTE_BLOCK trailer routing the
// accumulated program output. Directives apply in declaration order.
type ExecuteDirective struct {
	BlockID int
	Outputs []Output
}

func (*ExecuteDirective) node() {}

// Let binds a fresh variable in the current scope.
type Let struct {
	Name  string
	Value Arg
}

// Say resolves its message against the scope chain and emits the bound
// value's string form, or the message verbatim when unbound.
type Say struct {
	Message Arg
}

// Run invokes an operation body by numeric id.
type Run struct {
	OperationID int
}

// If is a conditional with a raw condition span and single-statement bodies.
type If struct {
	Condition string
	Then      []Statement
	Else      []Statement
}

// While loops its single-statement body while the condition is truthy.
type While struct {
	Condition string
	Body      []Statement
}

// Open opens a file and yields a handle.
type Open struct {
	Path Arg
}

// Read reads a file's contents.
type Read struct {
	Path Arg
}

// Write writes content to a file at a location.
type Write struct {
	Content  Arg
	Path     Arg
	Location Arg
}

// Now executes its body once, unconditionally, in a child scope.
type Now struct {
	Body []Statement
}

// Do executes its (possibly empty) body once. A following Until statement
// re-runs the nearest preceding Do body while its condition is false.
type Do struct {
	Body []Statement
}

// Until re-evaluates its condition, re-running the nearest preceding Do body
// each time it is false, and stops once true.
type Until struct {
	Condition string
	Body      []Statement
}

// Assignment rebinds an existing mutable variable.
type Assignment struct {
	Name  string
	Value Arg
}

// Increment adjusts a numeric-coercible variable by one.
type Increment struct {
	Name      string
	Decrement bool
}

func (*Let) node()        {}
func (*Say) node()        {}
func (*Run) node()        {}
func (*If) node()         {}
func (*While) node()      {}
func (*Open) node()       {}
func (*Read) node()       {}
func (*Write) node()      {}
func (*Now) node()        {}
func (*Do) node()         {}
func (*Until) node()      {}
func (*Assignment) node() {}
func (*Increment) node()  {}

func (*Let) stmt()        {}
func (*Say) stmt()        {}
func (*Run) stmt()        {}
func (*If) stmt()         {}
func (*While) stmt()      {}
func (*Open) stmt()       {}
func (*Read) stmt()       {}
func (*Write) stmt()      {}
func (*Now) stmt()        {}
func (*Do) stmt()         {}
func (*Until) stmt()      {}
func (*Assignment) stmt() {}
func (*Increment) stmt()  {}
