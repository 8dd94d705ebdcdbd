package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/nexlang/nex/lang"
	"github.com/nexlang/nex/log"
)

// Run executes a script: one scan, one parse, one analysis pass, and one
// evaluation of the program's block.
type Run struct {
	Tokens    bool `help:"Dump the token stream instead of executing."`
	LoopLimit int  `default:"10000" help:"Loop iteration safety cap." name:"loop-limit"`

	Script string `arg:"" default:"-" help:"Script file, name on NEXPATH, or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := readSource(ctx, r.Script)
	if err != nil {
		return err
	}

	if r.Tokens {
		return dumpTokens(source)
	}

	result, err := lang.Run(source,
		lang.WithLoopLimit(r.LoopLimit),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	for id, output := range result.Forwarded {
		log.Default().DebugContext(ctx, "output forwarded",
			slog.Int("block", id),
			slog.Int("bytes", len(output)),
		)
	}

	return nil
}

// dumpTokens writes the token stream as an aligned table.
func dumpTokens(source string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for _, t := range lang.Tokenize(source) {
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Line, t.Column, t.Kind, t.Lexeme)
	}

	return w.Flush()
}
