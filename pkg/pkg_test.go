package pkg

import "testing"

func TestName(t *testing.T) {
	expected := "nex"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestVersion(t *testing.T) {
	// Version is overridable at link time, so only its presence is fixed.
	if Version == "" {
		t.Error("Expected Version to be non-empty")
	}
}

func TestPrefix(t *testing.T) {
	expected := "NEX"
	if Prefix() != expected {
		t.Errorf("Expected Prefix to be %q, got %q", expected, Prefix())
	}
}
