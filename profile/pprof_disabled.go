//go:build !pprof

package profile

// Modes is empty when built without pprof tag.
func Modes() []string { return nil }

func start(Profiler) interface{ Stop() } { return ignore{} }
