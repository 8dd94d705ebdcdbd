package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nexlang/nex/lang/parser"
)

// Predefined errors (sentinel values).
var (
	ErrReadSource        = NewError("failed to read source")
	ErrUndefinedVariable = NewError("undefined variable")
	ErrMutation          = NewError("cannot mutate immutable variable")
	ErrUnknownBuiltin    = NewError("unknown builtin")
	ErrArityMismatch     = NewError("builtin arity mismatch")
	ErrDivisionByZero    = NewError("division by zero")
	ErrLoopLimit         = NewError("loop iteration limit exceeded")
	ErrUnknownOperation  = NewError("unknown operation")
	ErrExprCompile       = NewError("expression compilation failed")
	ErrExprEvaluate      = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel, matching by message so
// that attribute-augmented copies still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if !errors.As(target, &te) {
		return false
	}

	return e.msg != "" && e.msg == te.msg
}

// LogValue implements slog.LogValuer for structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// Creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError wraps a parser error together with the source text so it can
// render the offending line with a column marker.
type ParseError struct {
	Err    *parser.Error
	Source string
}

// NewParseError wraps err with the source input for context-rich messages.
func NewParseError(err *parser.Error, source string) *ParseError {
	return &ParseError{Err: err, Source: source}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err == nil {
		return "parse error"
	}

	if e.Source == "" {
		return e.Err.Error()
	}

	var b strings.Builder

	b.WriteString(e.Err.Error())
	b.WriteString("\n")
	b.WriteString(e.snippet())

	return b.String()
}

// Unwrap exposes the underlying parser error.
func (e *ParseError) Unwrap() error { return e.Err }

// snippet renders the offending source line with a caret under the error
// column.
func (e *ParseError) snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Err.Line < 1 || e.Err.Line > len(lines) {
		return ""
	}

	line := lines[e.Err.Line-1]
	num := strconv.Itoa(e.Err.Line)

	var b strings.Builder

	fmt.Fprintf(&b, "  %s | %s\n", num, line)

	// 2 leading spaces + number width + " | " before the caret column.
	padding := strings.Repeat(" ", len(num)+5)
	if e.Err.Column > 0 {
		padding += strings.Repeat(" ", e.Err.Column-1)
	}

	b.WriteString(padding + "^\n")

	return b.String()
}
