package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/nexlang/nex/lang"
	"github.com/nexlang/nex/lang/ast"
)

// Fmt parses a script and renders it in the chosen representation.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
}

// Native reformats a script into canonical source form.
type Native struct {
	Script string `arg:"" default:"-" help:"Script file, name on NEXPATH, or '-' for stdin." name:"script"`
}

// Run executes the native subcommand.
func (n *Native) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := parseScript(ctx, n.Script)
	if err != nil {
		return err
	}

	return ast.Format(os.Stdout, program)
}

// JSON renders a script's syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Script string `arg:"" default:"-" help:"Script file, name on NEXPATH, or '-' for stdin." name:"script"`
}

// Run executes the json subcommand.
func (j *JSON) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := parseScript(ctx, j.Script)
	if err != nil {
		return err
	}

	indent := make([]byte, j.Indent)
	for i := range indent {
		indent[i] = ' '
	}

	data, err := json.MarshalIndent(ast.Dump(program), "", string(indent))
	if err != nil {
		return ErrJSONMarshal.Wrap(err).
			With(slog.String("script", j.Script))
	}

	_, err = fmt.Fprintln(os.Stdout, string(data))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// YAML renders a script's syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Script string `arg:"" default:"-" help:"Script file, name on NEXPATH, or '-' for stdin." name:"script"`
}

// Run executes the yaml subcommand.
func (y *YAML) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	program, err := parseScript(ctx, y.Script)
	if err != nil {
		return err
	}

	data, err := yaml.MarshalWithOptions(
		ast.Dump(program),
		yaml.Indent(y.Indent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err).
			With(slog.String("script", y.Script))
	}

	_, err = os.Stdout.Write(data)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// parseScript loads and parses a script without executing it.
func parseScript(ctx context.Context, script string) (*ast.Program, error) {
	source, err := readSource(ctx, script)
	if err != nil {
		return nil, err
	}

	return lang.Parse(source)
}
