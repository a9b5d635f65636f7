package profile

import (
	"context"
	"runtime/pprof"
)

// Profiler describes a single profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Dir is the output directory. Empty uses the current directory.
	Dir string
	// Quiet suppresses the profiler's own log output.
	Quiet bool
}

// Start begins profiling and returns a handle for stopping it.
//
// If build tag pprof or p.Mode are unset, then Start returns a no-op
// implementation. Both Start and Stop are always safely callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Do calls fn with profiler labels naming command and source.
func Do(ctx context.Context, command, source string, fn func(context.Context)) {
	pprof.Do(ctx, pprof.Labels("command", command, "source", source), fn)
}

type ignore struct{}

func (ignore) Stop() {}
