package lang

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistry_Invoke(t *testing.T) {
	var out strings.Builder

	reg := StdRegistry(&out)

	t.Run("say writes line to out", func(t *testing.T) {
		out.Reset()

		_, err := reg.Invoke("Say", []Value{StringValue("hello")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := out.String(); got != "hello\n" {
			t.Errorf("expected %q, got %q", "hello\n", got)
		}
	})

	t.Run("unknown builtin", func(t *testing.T) {
		_, err := reg.Invoke("Frobnicate", nil)
		if !errors.Is(err, ErrUnknownBuiltin) {
			t.Errorf("expected ErrUnknownBuiltin, got %v", err)
		}
	})

	t.Run("near-miss carries suggestion", func(t *testing.T) {
		_, err := reg.Invoke("Sy", []Value{StringValue("x")})
		if !errors.Is(err, ErrUnknownBuiltin) {
			t.Fatalf("expected ErrUnknownBuiltin, got %v", err)
		}

		ee := &Error{}
		if !errors.As(err, &ee) {
			t.Fatalf("expected *Error, got %T", err)
		}

		found := false

		for _, attr := range ee.LogValue().Group() {
			if attr.Key == "did_you_mean" && attr.Value.String() == "Say" {
				found = true
			}
		}

		if !found {
			t.Errorf("expected did_you_mean=Say attribute: %v", ee.LogValue())
		}
	})

	t.Run("arity mismatch", func(t *testing.T) {
		_, err := reg.Invoke("Add", []Value{FloatValue(1)})
		if !errors.Is(err, ErrArityMismatch) {
			t.Errorf("expected ErrArityMismatch, got %v", err)
		}
	})
}

func TestRegistry_MathBuiltins(t *testing.T) {
	reg := StdRegistry(os.Stderr)

	tests := []struct {
		name string
		args []Value
		want string
	}{
		{"Add", []Value{FloatValue(2), FloatValue(3)}, "5.000000"},
		{"Subtract", []Value{FloatValue(5), FloatValue(2)}, "3.000000"},
		{"Multiply", []Value{FloatValue(4), FloatValue(2.5)}, "10.000000"},
		{"Divide", []Value{FloatValue(9), FloatValue(2)}, "4.500000"},
		{"Concat", []Value{StringValue("a"), FloatValue(1)}, "a1.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Invoke(tt.name, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
		})
	}

	t.Run("Divide by zero", func(t *testing.T) {
		_, err := reg.Invoke("Divide", []Value{FloatValue(1), FloatValue(0)})
		if !errors.Is(err, ErrDivisionByZero) {
			t.Errorf("expected ErrDivisionByZero, got %v", err)
		}
	})
}

func TestRegistry_Eval(t *testing.T) {
	reg := StdRegistry(os.Stderr)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"arithmetic", "1 + 2", "3.000000"},
		{"comparison", "3 > 2", "true"},
		{"string expression", `"a" + "b"`, "ab"},
		{"float math", "10.0 / 4.0", "2.500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reg.Invoke("Eval", []Value{StringValue(tt.expr)})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.String())
			}
		})
	}

	t.Run("compile failure", func(t *testing.T) {
		_, err := reg.Invoke("Eval", []Value{StringValue("1 +")})
		if !errors.Is(err, ErrExprCompile) {
			t.Errorf("expected ErrExprCompile, got %v", err)
		}
	})
}

func TestRegistry_FileBuiltins(t *testing.T) {
	reg := StdRegistry(os.Stderr)
	dir := t.TempDir()

	t.Run("write then read", func(t *testing.T) {
		got, err := reg.Invoke("Write", []Value{
			StringValue("payload"),
			StringValue("note.txt"),
			StringValue(dir),
		})
		if err != nil {
			t.Fatalf("write error: %v", err)
		}

		if !got.Bool() {
			t.Fatal("expected write to report success")
		}

		path := filepath.Join(dir, "note.txt")

		read, err := reg.Invoke("Read", []Value{StringValue(path)})
		if err != nil {
			t.Fatalf("read error: %v", err)
		}

		if read.String() != "payload" {
			t.Errorf("expected %q, got %q", "payload", read.String())
		}
	})

	t.Run("write requires three arguments", func(t *testing.T) {
		_, err := reg.Invoke("Write", []Value{StringValue("x")})
		if !errors.Is(err, ErrArityMismatch) {
			t.Errorf("expected ErrArityMismatch, got %v", err)
		}
	})

	t.Run("open missing file yields dead handle", func(t *testing.T) {
		got, err := reg.Invoke("open", []Value{
			StringValue(filepath.Join(dir, "absent.txt")),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got.Kind() != KindHandle {
			t.Fatalf("expected handle, got %v", got.Kind())
		}

		if got.Bool() {
			t.Error("missing file must yield a falsy handle")
		}
	})

	t.Run("open existing file yields live handle", func(t *testing.T) {
		path := filepath.Join(dir, "exists.txt")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}

		got, err := reg.Invoke("open", []Value{StringValue(path)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !got.Bool() {
			t.Error("existing file must yield a truthy handle")
		}

		if f, ok := got.Handle().Ref.(*os.File); ok {
			f.Close()
		}
	})

	t.Run("read missing file fails", func(t *testing.T) {
		_, err := reg.Invoke("Read", []Value{
			StringValue(filepath.Join(dir, "absent.txt")),
		})
		if err == nil {
			t.Error("expected error reading missing file")
		}
	})
}

func TestRegistry_NamesAndSuggest(t *testing.T) {
	reg := StdRegistry(os.Stderr)

	names := reg.Names()
	if len(names) == 0 {
		t.Fatal("expected registered names")
	}

	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}

	if !reg.Has("Say") || reg.Lookup("Say") == nil {
		t.Error("Say must be registered")
	}

	suggestions := reg.Suggest("divde")
	if len(suggestions) == 0 || suggestions[0] != "Divide" {
		t.Errorf("expected Divide suggested first, got %v", suggestions)
	}
}

func TestRegistry_CustomEntries(t *testing.T) {
	called := false

	reg := NewRegistry(&Builtin{
		Name:  "probe",
		Arity: Variadic,
		Fn: func(args []Value) (Value, error) {
			called = true

			return FloatValue(float64(len(args))), nil
		},
	})

	got, err := reg.Invoke("probe", []Value{StringValue("a"), StringValue("b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !called || got.Float() != 2 {
		t.Errorf("expected variadic call with 2 args, got %v", got)
	}
}

func TestError_Attributes(t *testing.T) {
	err := ErrLoopLimit.With(slog.Int("limit", 10))

	if !errors.Is(err, ErrLoopLimit) {
		t.Error("attribute-augmented copy must match its sentinel")
	}

	if errors.Is(err, ErrDivisionByZero) {
		t.Error("distinct sentinels must not match")
	}
}
