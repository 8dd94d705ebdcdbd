package lang

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_HelloWorld(t *testing.T) {
	source := `
#START_BLOCK(1);
DATA[config[1]{
    Let msg = "Hello world";
};]
OPERATION[Create_operation(main)[2]{
    Say msg;
};]
#EXECUTE_BLOCK(1) => *show program output in @terminal;
#END_BLOCK;
`

	var out strings.Builder

	result, err := Run(source, WithStdout(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Output != "Hello world\n" {
		t.Errorf("expected output %q, got %q", "Hello world\n", result.Output)
	}

	if out.String() != "Hello world\n" {
		t.Errorf("expected terminal %q, got %q", "Hello world\n", out.String())
	}
}

func TestRun_NoDirectiveFlushesOutput(t *testing.T) {
	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    Say "direct";
};]
#END_BLOCK;
`

	var out strings.Builder

	result, err := Run(source, WithStdout(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "direct\n" {
		t.Errorf("expected flushed output %q, got %q", "direct\n", out.String())
	}

	if result.Output != "direct\n" {
		t.Errorf("expected result output %q, got %q", "direct\n", result.Output)
	}
}

func TestRun_SayLiteralWhenUnbound(t *testing.T) {
	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    Say nothing_bound;
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "nothing_bound\n" {
		t.Errorf("unbound message must echo verbatim, got %q", out.String())
	}
}

func TestRun_DataBindingsVisibleAcrossSections(t *testing.T) {
	// A DATA section binds into the program scope, so every later section
	// reads and mutates the same variables.
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let y = 5;
};]
OPERATION[Create_operation(countdown)[2]{
    While => y => y--;
    Say y;
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "0.000000\n" {
		t.Errorf("expected countdown to end at 0.000000, got %q", out.String())
	}
}

func TestRun_LoopLimit(t *testing.T) {
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let x = 1;
};]
OPERATION[Create_operation(spin)[2]{
    While => x => Say x;
};]
#END_BLOCK;
`

	var out strings.Builder

	_, err := Run(source, WithStdout(&out), WithLoopLimit(25))
	if !errors.Is(err, ErrLoopLimit) {
		t.Fatalf("expected ErrLoopLimit, got %v", err)
	}
}

func TestRun_DoUntil(t *testing.T) {
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let y = 3;
    Let flag = "";
};]
OPERATION[Create_operation(drain)[2]{
    DO {
        y--
        If => {y} => Say tick Else => flag = done
    };
    Until {flag};
    Say y;
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The DO body runs once on its own, then twice more re-run by Until:
	// y walks 3 -> 2 -> 1 -> 0, printing tick while y stays truthy.
	want := "tick\ntick\n0.000000\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRun_UntilWithoutDo(t *testing.T) {
	// An Until with no preceding DO only re-evaluates its condition; a truthy
	// condition exits immediately.
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let ready = 1;
};]
OPERATION[Create_operation(main)[2]{
    Until {ready};
    Say "after";
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "after\n" {
		t.Errorf("expected %q, got %q", "after\n", out.String())
	}
}

func TestRun_OperationByID(t *testing.T) {
	source := `
#START_BLOCK(1);
SYSTEM_CALL[{
    Run operation[2];
    Run operation[2];
};]
OPERATION[Create_operation(emit)[2]{
    Say "ran";
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The operation section body runs once on its own, plus twice via Run.
	// Pre-indexing makes the forward reference from SYSTEM_CALL resolve.
	want := "ran\nran\nran\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRun_UnknownOperation(t *testing.T) {
	source := `
#START_BLOCK(1);
SYSTEM_CALL[{
    Run operation[99];
};]
#END_BLOCK;
`

	_, err := Run(source, WithStdout(new(strings.Builder)))
	if !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestRun_GiveDirective(t *testing.T) {
	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    Say "payload";
};]
#EXECUTE_BLOCK(1) => *give program output to BLOCK(7);
#END_BLOCK;
`

	var out strings.Builder

	result, err := Run(source, WithStdout(&out))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := result.Forwarded[7]; got != "payload\n" {
		t.Errorf("expected forwarded %q, got %q", "payload\n", got)
	}

	// give routes to another block, not the terminal.
	if out.String() != "" {
		t.Errorf("expected no terminal output, got %q", out.String())
	}
}

func TestRun_StoreDirective(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    Say "stored";
};]
#EXECUTE_BLOCK(1) => *store program output in "` + path + `";
#END_BLOCK;
`

	if _, err := Run(source, WithStdout(new(strings.Builder))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read stored output: %v", err)
	}

	if string(data) != "stored\n" {
		t.Errorf("expected file content %q, got %q", "stored\n", string(data))
	}
}

func TestRun_IfElse(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{"truthy takes then", "Let x = 1;", "yes\n"},
		{"falsy takes else", "Let x = 0;", "no\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := `
#START_BLOCK(1);
DATA[state[1]{
    ` + tt.seed + `
};]
OPERATION[Create_operation(main)[2]{
    If => {x} => Say "yes" Else => Say "no";
};]
#END_BLOCK;
`

			var out strings.Builder

			if _, err := Run(source, WithStdout(&out)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, out.String())
			}
		})
	}
}

func TestRun_AssignmentResolvesVariables(t *testing.T) {
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let a = 3;
    Let b = 0;
};]
OPERATION[Create_operation(main)[2]{
    b = a;
    b++;
    Say b;
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.String() != "4.000000\n" {
		t.Errorf("expected %q, got %q", "4.000000\n", out.String())
	}
}

func TestRun_AssignmentToUndefined(t *testing.T) {
	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    ghost = 1;
};]
#END_BLOCK;
`

	_, err := Run(source, WithStdout(new(strings.Builder)))
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
}

func TestRun_IncrementUndefined(t *testing.T) {
	source := `
#START_BLOCK(1);
OPERATION[Create_operation(main)[1]{
    ghost++;
};]
#END_BLOCK;
`

	_, err := Run(source, WithStdout(new(strings.Builder)))
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected ErrUndefinedVariable, got %v", err)
	}
}

func TestRun_NowBlockScoping(t *testing.T) {
	// A Let inside NOW shadows in a child scope and vanishes when the block
	// exits, so the outer binding survives.
	source := `
#START_BLOCK(1);
DATA[state[1]{
    Let x = 1;
};]
OPERATION[Create_operation(main)[2]{
    NOW {
        Let x = 99
        Say x
    };
    Say x;
};]
#END_BLOCK;
`

	var out strings.Builder

	if _, err := Run(source, WithStdout(&out)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "99.000000\n1.000000\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestRun_ParseErrorHasSnippet(t *testing.T) {
	_, err := Run("#START_BLOCK(1);\nBOGUS\n#END_BLOCK;")
	if err == nil {
		t.Fatal("expected parse error")
	}

	perr := &ParseError{}
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}

	msg := err.Error()
	if !strings.Contains(msg, "BOGUS") || !strings.Contains(msg, "^") {
		t.Errorf("expected source snippet with caret, got %q", msg)
	}
}

func TestNewEngine_Defaults(t *testing.T) {
	e := NewEngine()

	if e.registry == nil {
		t.Fatal("expected default registry")
	}

	if e.loopLimit != DefaultLoopLimit {
		t.Errorf("expected loop limit %d, got %d", DefaultLoopLimit, e.loopLimit)
	}

	t.Run("non-positive limit ignored", func(t *testing.T) {
		e := NewEngine(WithLoopLimit(0), WithLoopLimit(-5))

		if e.loopLimit != DefaultLoopLimit {
			t.Errorf("expected default limit kept, got %d", e.loopLimit)
		}
	})

	t.Run("injected registry wins", func(t *testing.T) {
		reg := NewRegistry()
		e := NewEngine(WithRegistry(reg))

		if e.registry != reg {
			t.Error("expected injected registry")
		}
	})
}
