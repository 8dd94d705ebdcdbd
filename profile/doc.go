// Package profile provides optional runtime profiling for the nex
// interpreter.
//
// Profiling integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Default builds compile every operation to a no-op with zero runtime
// overhead; builds tagged pprof expose the full mode set (cpu, heap, allocs,
// block, mutex, goroutine, thread, trace, clock, mem) and register the
// [net/http/pprof] HTTP handlers.
//
// Usage:
//
//	stop := profile.Config(func() (string, string, bool) {
//		return "cpu", "/tmp/profiles", false
//	}).Start()
//	defer stop.Stop()
//
// Profile files are written to the configured directory with names matching
// the mode (cpu.pprof, heap.pprof, ...), ready for go tool pprof.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
