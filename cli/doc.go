// Package cli contains the command line interface for bv.
//
// # Usage
//
// Without a subcommand, bv evaluates a document and prints the result:
//
//	bv sheet.bv
//	bv -p totals.sum -f json sheet.bv
//	echo '@struct { @bind a { x } }' | bv -p a
//
// The remaining subcommands are:
//
//   - fmt: print a document in canonical form, its syntax tree, or its tokens
//   - check: evaluate every field and report each error found
//   - init: write the current flag values to the configuration file
//   - repl: explore a document interactively
//
// # Libraries
//
// Documents given with --lib NAME=FILE are parsed up front and made
// available to every evaluation under @lib.NAME.
//
// # Configuration Loader
//
// Flag defaults are read from the config field of a bv document in the
// user configuration directory ([resolve]). The field must evaluate to a
// structure whose fields are named after flags.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o bv .
//
// Then:
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/bv/pprof)
//
// # Examples
//
//	# Debug logging with CPU profiling
//	bv --log-level=debug --pprof-mode=cpu sheet.bv
//
//	# Check several documents with text logs
//	bv --log-format=text check a.bv b.bv
package cli
