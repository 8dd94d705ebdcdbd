// Package cmd implements the nex CLI commands.
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the user's cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the user's configuration file.
	ConfigIdentifier = "config"
)
