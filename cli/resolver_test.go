package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, resolver kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	val, err := resolver.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve %s failed: %v", name, err)
	}

	return val
}

func TestResolveYAML_FlatMapping(t *testing.T) {
	input := `
log_level: debug
log_format: text
log_pretty: true
loop_limit: 50000
`

	resolver, err := resolveYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	if got := resolveFlag(t, resolver, "log_level"); got != "debug" {
		t.Errorf("expected log_level=debug, got %v", got)
	}

	if got := resolveFlag(t, resolver, "log_pretty"); got != true {
		t.Errorf("expected log_pretty=true, got %v", got)
	}

	// Numbers resolve as strings so Kong can parse them into typed flags.
	if got := resolveFlag(t, resolver, "loop_limit"); got != "50000" {
		t.Errorf("expected loop_limit=%q, got %v", "50000", got)
	}
}

func TestResolveYAML_HyphenUnderscoreMapping(t *testing.T) {
	input := `log_level: debug`

	resolver, err := resolveYAML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	// Kong flag names use hyphens; the file stores underscores.
	if got := resolveFlag(t, resolver, "log-level"); got != "debug" {
		t.Errorf("expected log-level=debug via underscore key, got %v", got)
	}

	if got := resolveFlag(t, resolver, "log_level"); got != "debug" {
		t.Errorf("expected log_level=debug, got %v", got)
	}
}

func TestResolveYAML_MissingKeyDefersToKong(t *testing.T) {
	resolver, err := resolveYAML(strings.NewReader(`log_level: debug`))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	if got := resolveFlag(t, resolver, "absent"); got != nil {
		t.Errorf("expected nil for missing key, got %v", got)
	}
}

func TestResolveYAML_InvalidYAMLYieldsEmptyConfig(t *testing.T) {
	resolver, err := resolveYAML(strings.NewReader("{{ not: yaml"))
	if err != nil {
		t.Fatalf("expected soft failure, got %v", err)
	}

	if got := resolveFlag(t, resolver, "log-level"); got != nil {
		t.Errorf("expected empty config, got %v", got)
	}
}

func TestResolveYAML_EmptyFile(t *testing.T) {
	resolver, err := resolveYAML(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolveYAML failed: %v", err)
	}

	if got := resolveFlag(t, resolver, "log-level"); got != nil {
		t.Errorf("expected nil from empty file, got %v", got)
	}
}

func TestResolveYAML_ReadError(t *testing.T) {
	if _, err := resolveYAML(&errorReader{err: bytes.ErrTooLarge}); err == nil {
		t.Error("expected read error to propagate")
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read([]byte) (int, error) {
	return 0, e.err
}
