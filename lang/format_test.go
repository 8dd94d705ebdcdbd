package lang

import (
	"strings"
	"testing"

	"github.com/nexlang/nex/lang/ast"
)

// formatString renders a program to canonical source text.
func formatString(t *testing.T, program *ast.Program) string {
	t.Helper()

	var b strings.Builder

	if err := ast.Format(&b, program); err != nil {
		t.Fatalf("format error: %v", err)
	}

	return b.String()
}

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name: "data and operation",
			source: `
#START_BLOCK(1);
DATA[config[1]{
    Let x = 42;
    Let msg = "Hello world";
};]
OPERATION[Create_operation(main)[2]{
    Say msg;
    x++;
};]
#END_BLOCK;
`,
		},
		{
			name: "control flow",
			source: `
#START_BLOCK(2);
DATA[state[1]{
    Let y = 3;
    Let flag = "";
};]
OPERATION[Create_operation(loop)[2]{
    While => y => y--;
    If => {flag} => Say "on" Else => Say "off";
    DO {
        y++
    };
    Until {flag};
    NOW {
        Say "now"
    };
};]
#END_BLOCK;
`,
		},
		{
			name: "file statements and directives",
			source: `
#START_BLOCK(3);
FUNCTION[create_function(io)[1]{
    open "in.txt";
    Read "in.txt";
    Write "data" in_file "out.txt" at_Location "/tmp";
};]
SYSTEM_CALL[{
    Run operation[1];
};]
#EXECUTE_BLOCK(3) => *show program output in @terminal *store program output in "out.txt" *give program output to BLOCK(4);
#END_BLOCK;
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program, err := Parse(tt.source)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			first := formatString(t, program)

			reparsed, err := Parse(first)
			if err != nil {
				t.Fatalf("formatted output failed to re-parse: %v\n%s",
					err, first)
			}

			second := formatString(t, reparsed)

			if first != second {
				t.Errorf("format not stable:\nfirst:\n%s\nsecond:\n%s",
					first, second)
			}
		})
	}
}

func TestDump_Shape(t *testing.T) {
	source := `
#START_BLOCK(1);
DATA[config[1]{
    Let x = 42;
};]
#EXECUTE_BLOCK(1) => *give program output to BLOCK(2);
#END_BLOCK;
`

	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	m := ast.Dump(program)

	if m["kind"] != "program" || m["block"] != 1 {
		t.Errorf("unexpected program node: %v", m)
	}

	sections, ok := m["sections"].([]any)
	if !ok || len(sections) != 1 {
		t.Fatalf("expected one section, got %v", m["sections"])
	}

	data, ok := sections[0].(map[string]any)
	if !ok || data["kind"] != "data" || data["name"] != "config" {
		t.Errorf("unexpected data node: %v", sections[0])
	}

	exec, ok := m["execute"].(map[string]any)
	if !ok {
		t.Fatal("expected execute node")
	}

	outputs, ok := exec["outputs"].([]any)
	if !ok || len(outputs) != 1 {
		t.Fatalf("expected one output, got %v", exec["outputs"])
	}

	give, ok := outputs[0].(map[string]any)
	if !ok || give["kind"] != "give" || give["block"] != 2 {
		t.Errorf("unexpected give node: %v", outputs[0])
	}
}
