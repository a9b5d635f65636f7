// Package cmd implements the subcommands of the bv command line: eval,
// fmt, check, init, and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the configuration document. Its top-level field of the same name
	// holds the flag defaults.
	ConfigIdentifier = "config"
)
