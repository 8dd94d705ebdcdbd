package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format writes the program in canonical NexLang source syntax. The output
// re-lexes and re-parses to a structurally identical tree.
func Format(w io.Writer, p *Program) error {
	var b strings.Builder

	fmt.Fprintf(&b, "#START_BLOCK(%d);\n", p.BlockID)

	for _, section := range p.Sections {
		formatSection(&b, section)
	}

	if p.Execute != nil {
		formatExecute(&b, p.Execute)
	}

	b.WriteString("#END_BLOCK;\n")

	_, err := io.WriteString(w, b.String())

	return err
}

func formatSection(b *strings.Builder, section Section) {
	switch s := section.(type) {
	case *Data:
		fmt.Fprintf(b, "DATA[%s[%d]{\n", s.Name, s.ID)
		formatBody(b, s.Statements, 1, true)
		b.WriteString("};]\n")

	case *Operation:
		fmt.Fprintf(b, "OPERATION[Create_operation(%s)[%d]{\n", s.Name, s.ID)
		formatBody(b, s.Body, 1, true)
		b.WriteString("};]\n")

	case *Function:
		fmt.Fprintf(b, "FUNCTION[create_function(%s)[%d]{\n", s.Name, s.ID)
		formatBody(b, s.Body, 1, true)
		b.WriteString("};]\n")

	case *SystemCall:
		b.WriteString("SYSTEM_CALL[{\n")
		formatBody(b, s.Body, 1, true)
		b.WriteString("};]\n")
	}
}

func formatExecute(b *strings.Builder, e *ExecuteDirective) {
	fmt.Fprintf(b, "#EXECUTE_BLOCK(%d) =>", e.BlockID)

	for _, out := range e.Outputs {
		switch out.Kind {
		case OutputStore:
			fmt.Fprintf(b, " *store program output in %q", out.Target)
		case OutputShow:
			fmt.Fprintf(b, " *show program output in %s", out.Target)
		case OutputGive:
			fmt.Fprintf(b, " *give program output to BLOCK(%d)", out.BlockID)
		}
	}

	b.WriteString(";\n")
}

// formatBody writes each statement on its own line. terminated selects the
// semicolon-bearing statement form used at the top level of a section block;
// nested bodies use the semicolon-free form.
func formatBody(b *strings.Builder, stmts []Statement, depth int, terminated bool) {
	for _, stmt := range stmts {
		b.WriteString(strings.Repeat("    ", depth))
		formatStmt(b, stmt, depth, terminated)
		b.WriteString("\n")
	}
}

func formatStmt(b *strings.Builder, stmt Statement, depth int, terminated bool) {
	switch s := stmt.(type) {
	case *Let:
		fmt.Fprintf(b, "Let %s = %s", s.Name, formatArg(s.Value))
		terminate(b, terminated)

	case *Say:
		fmt.Fprintf(b, "Say %s", formatArg(s.Message))
		terminate(b, terminated)

	case *Run:
		fmt.Fprintf(b, "Run operation[%d]", s.OperationID)
		terminate(b, terminated)

	case *If:
		fmt.Fprintf(b, "If => {%s}", s.Condition)

		if len(s.Then) > 0 {
			b.WriteString(" => ")
			formatStmt(b, s.Then[0], depth, false)
		}

		if len(s.Else) > 0 {
			b.WriteString(" Else => ")
			formatStmt(b, s.Else[0], depth, false)
		}

	case *While:
		fmt.Fprintf(b, "While => %s => ", s.Condition)

		if len(s.Body) > 0 {
			formatStmt(b, s.Body[0], depth, false)
		}

	case *Open:
		fmt.Fprintf(b, "open %s", formatArg(s.Path))
		terminate(b, terminated)

	case *Read:
		fmt.Fprintf(b, "Read %s", formatArg(s.Path))
		terminate(b, terminated)

	case *Write:
		fmt.Fprintf(b, "Write %s in_file %s at_Location %s",
			formatArg(s.Content), formatArg(s.Path), formatArg(s.Location))
		terminate(b, terminated)

	case *Now:
		b.WriteString("NOW {\n")
		formatBody(b, s.Body, depth+1, false)
		b.WriteString(strings.Repeat("    ", depth))
		b.WriteString("}")
		terminate(b, terminated)

	case *Do:
		if len(s.Body) == 0 {
			b.WriteString("DO")
			terminate(b, terminated)

			break
		}

		b.WriteString("DO {\n")
		formatBody(b, s.Body, depth+1, false)
		b.WriteString(strings.Repeat("    ", depth))
		b.WriteString("}")
		terminate(b, terminated)

	case *Until:
		fmt.Fprintf(b, "Until {%s}", s.Condition)
		terminate(b, terminated)

	case *Assignment:
		fmt.Fprintf(b, "%s = %s", s.Name, formatArg(s.Value))
		terminate(b, terminated)

	case *Increment:
		op := "++"
		if s.Decrement {
			op = "--"
		}

		fmt.Fprintf(b, "%s%s", s.Name, op)
		terminate(b, terminated)
	}
}

func terminate(b *strings.Builder, terminated bool) {
	if terminated {
		b.WriteString(";")
	}
}

func formatArg(a Arg) string {
	if a.Quoted {
		return strconv.Quote(a.Text)
	}

	return a.Text
}
