// Package cli defines the command-line interface for the nex interpreter.
//
// The interface is declared as a struct tree parsed by
// [github.com/alecthomas/kong]. Flag groups for logging and profiling embed
// into every command, and defaults may be supplied by a YAML configuration
// file resolved from the user's config directory.
package cli
