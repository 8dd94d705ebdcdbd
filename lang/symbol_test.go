package lang

import (
	"errors"
	"testing"
)

func TestSymbolTable_BuiltinsSeeded(t *testing.T) {
	table := NewSymbolTable()

	for _, name := range []string{"Say", "open", "Read", "Write", "DO"} {
		sym := table.Lookup(name)
		if sym == nil {
			t.Errorf("builtin %q not seeded", name)

			continue
		}

		if sym.Kind != SymbolBuiltin {
			t.Errorf("builtin %q: expected kind builtin, got %v", name, sym.Kind)
		}
	}
}

func TestSymbolTable_LookupWalksOutward(t *testing.T) {
	table := NewSymbolTable()
	table.DefineVariable("x", FloatValue(1), true)

	table.EnterScope()
	table.EnterScope()

	sym := table.Lookup("x")
	if sym == nil {
		t.Fatal("expected outer binding to resolve from inner scope")
	}

	if sym.Value.Float() != 1 {
		t.Errorf("expected 1, got %v", sym.Value.Float())
	}
}

func TestSymbolTable_Shadowing(t *testing.T) {
	table := NewSymbolTable()
	table.DefineVariable("x", FloatValue(1), true)

	table.EnterScope()
	table.DefineVariable("x", FloatValue(2), true)

	if got := table.Lookup("x").Value.Float(); got != 2 {
		t.Errorf("inner scope: expected shadow value 2, got %v", got)
	}

	table.ExitScope()

	if got := table.Lookup("x").Value.Float(); got != 1 {
		t.Errorf("after exit: expected outer value 1, got %v", got)
	}
}

func TestSymbolTable_ExitScopeTruncatesArena(t *testing.T) {
	table := NewSymbolTable()

	if table.Depth() != 1 {
		t.Fatalf("expected depth 1 at root, got %d", table.Depth())
	}

	table.EnterScope()
	table.EnterScope()

	if table.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", table.Depth())
	}

	table.ExitScope()

	if table.Depth() != 2 {
		t.Errorf("expected depth 2 after exit, got %d", table.Depth())
	}

	table.ExitScope()

	if table.Depth() != 1 {
		t.Errorf("expected depth 1 after exit, got %d", table.Depth())
	}
}

func TestSymbolTable_ExitScopeAtRootIsNoOp(t *testing.T) {
	table := NewSymbolTable()

	table.ExitScope()
	table.ExitScope()

	if table.Depth() != 1 {
		t.Errorf("expected root to survive repeated exits, got depth %d",
			table.Depth())
	}

	// The root scope must still function.
	table.DefineVariable("x", FloatValue(1), true)

	if table.Lookup("x") == nil {
		t.Error("root scope unusable after exit attempts")
	}
}

func TestSymbolTable_UpdateVariable(t *testing.T) {
	t.Run("updates nearest binding in place", func(t *testing.T) {
		table := NewSymbolTable()
		table.DefineVariable("x", FloatValue(1), true)
		table.EnterScope()

		if err := table.UpdateVariable("x", FloatValue(9)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		table.ExitScope()

		if got := table.Lookup("x").Value.Float(); got != 9 {
			t.Errorf("expected outer binding updated to 9, got %v", got)
		}
	})

	t.Run("never creates a binding", func(t *testing.T) {
		table := NewSymbolTable()

		err := table.UpdateVariable("missing", FloatValue(1))
		if !errors.Is(err, ErrUndefinedVariable) {
			t.Fatalf("expected ErrUndefinedVariable, got %v", err)
		}

		if table.Lookup("missing") != nil {
			t.Error("failed update must leave scopes unchanged")
		}
	})

	t.Run("rejects non-variable target", func(t *testing.T) {
		table := NewSymbolTable()

		err := table.UpdateVariable("Say", FloatValue(1))
		if !errors.Is(err, ErrUndefinedVariable) {
			t.Errorf("expected ErrUndefinedVariable, got %v", err)
		}
	})

	t.Run("rejects immutable binding", func(t *testing.T) {
		table := NewSymbolTable()
		table.DefineVariable("k", FloatValue(1), false)

		err := table.UpdateVariable("k", FloatValue(2))
		if !errors.Is(err, ErrMutation) {
			t.Fatalf("expected ErrMutation, got %v", err)
		}

		if got := table.Lookup("k").Value.Float(); got != 1 {
			t.Errorf("failed update must not change the value, got %v", got)
		}
	})
}

func TestSymbolTable_Declarations(t *testing.T) {
	table := NewSymbolTable()

	table.DefineOperation("main", nil)
	table.DefineFunction("helper", nil)
	table.DefineBlock("BLOCK", 7)

	if sym := table.Lookup("main"); sym == nil || sym.Kind != SymbolOperation {
		t.Errorf("unexpected operation symbol: %+v", sym)
	}

	if sym := table.Lookup("helper"); sym == nil || sym.Kind != SymbolFunction {
		t.Errorf("unexpected function symbol: %+v", sym)
	}

	sym := table.Lookup("BLOCK")
	if sym == nil || sym.Kind != SymbolBlock || sym.BlockID != 7 {
		t.Errorf("unexpected block symbol: %+v", sym)
	}

	if table.HasVariable("main") {
		t.Error("operation must not report as variable")
	}
}
