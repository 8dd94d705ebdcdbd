//go:build !pprof

package profile

// Modes returns no modes when profiling support is compiled out.
var Modes = func() []string { return nil }

// start is a no-op without the pprof build tag.
func start(string, string, bool) interface{ Stop() } {
	return ignore{}
}
