package parser

import (
	"fmt"
	"strings"
)

// Error is a fatal parse error carrying the offending token's position and
// lexeme, plus what the parser expected there.
type Error struct {
	Line     int
	Column   int
	Lexeme   string
	Expected []string
	Reason   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "parse error at line %d, column %d", e.Line, e.Column)

	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}

	if e.Lexeme != "" {
		fmt.Fprintf(&b, " near %q", e.Lexeme)
	}

	if len(e.Expected) > 0 {
		b.WriteString(": expected ")
		b.WriteString(strings.Join(e.Expected, ", "))
	}

	return b.String()
}
