package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/nexlang/nex/pkg"
)

// Version prints the program name and version.
type Version struct{}

// Run executes the version command.
func (Version) Run(context.Context) error {
	_, err := fmt.Fprintf(os.Stdout, "%s %s\n", pkg.Name, pkg.Version)

	return err
}
