package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/nexlang/nex/lang"
)

// contextKey stores a [kong.Context] value in a [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// scriptPathKey stores the script search path in a [context.Context].
type scriptPathKey struct{}

// WithScriptPath returns a new context.Context carrying the ordered list of
// directories searched when resolving a script by name.
func WithScriptPath(ctx context.Context, dirs []string) context.Context {
	return context.WithValue(ctx, scriptPathKey{}, dirs)
}

func scriptPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(scriptPathKey{}).([]string)

	return dirs
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// readSource loads script source text: stdin for "-", the literal path if it
// exists, otherwise each search path directory in order. Names without an
// extension also try with the .nex suffix appended.
func readSource(ctx context.Context, name string) (string, error) {
	if name == stdinSource {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", lang.ErrReadSource.Wrap(err).
				With(slog.String("source", "stdin"))
		}

		return string(data), nil
	}

	path, err := findScript(ctx, name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", lang.ErrReadSource.Wrap(err).
			With(slog.String("path", path))
	}

	return string(data), nil
}

// findScript resolves a script name against the search path.
func findScript(ctx context.Context, name string) (string, error) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".nex")
	}

	// A path that resolves as given wins over the search path.
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	if !filepath.IsAbs(name) {
		for _, dir := range scriptPathFrom(ctx) {
			for _, c := range candidates {
				path := filepath.Join(dir, c)
				if info, err := os.Stat(path); err == nil && !info.IsDir() {
					return path, nil
				}
			}
		}
	}

	return "", lang.ErrReadSource.
		With(slog.String("script", name))
}
