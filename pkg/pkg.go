// Package pkg defines the program identity shared by the CLI and build
// tooling.
package pkg

import "strings"

// Name is the canonical program name.
const Name = "nex"

// Description is the one-line program description shown in CLI help.
const Description = "Interpreter for the NexLang block-structured scripting language"

// Version is the semantic version of this build.
// Overridden at link time via -ldflags "-X github.com/nexlang/nex/pkg.Version=...".
var Version = "0.1.0"

// Prefix returns the uppercased program name used for environment variables,
// e.g. NEX_LOG_LEVEL.
func Prefix() string {
	return strings.ToUpper(Name)
}
