// Package profile provides optional runtime profiling for bv.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] for file-based profiling.
// Profiling must be enabled at build time with the "pprof" build tag:
//
//	go build -tags pprof -o bv .
//
// Without the tag, [Profiler.Start] is a no-op.
//
// # Modes
//
// The following modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// Use [Modes] to retrieve the list programmatically.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Dir: "/tmp/profiles"}
//	defer p.Start().Stop()
//
// Profile files are written to Dir with names matching the mode (e.g.,
// cpu.pprof, mem.pprof). The bv command exposes the same settings as flags:
//
//	bv --pprof-mode=cpu --pprof-dir=./profiles check *.bv
//
// # Labels
//
// [Do] attaches the running command and the document being evaluated to
// every sample taken while evaluating it. Samples from a check over several
// documents can then be split per document:
//
//	go tool pprof -tagfocus=source=sheet.bv bv cpu.pprof
//
// Labels are set in every build; they cost nothing unless a profile is
// being collected.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
