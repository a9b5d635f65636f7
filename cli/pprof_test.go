//go:build pprof

package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestPprofConfigStart(t *testing.T) {
	dir := t.TempDir()

	pprofConfig{Mode: "cpu", Dir: dir}.start(t.Context())()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("cpu profile not written: %v", err)
	}
}

func TestPprofConfigStartDisabled(t *testing.T) {
	dir := t.TempDir()

	pprofConfig{Dir: dir}.start(t.Context())()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 0 {
		t.Errorf("profiling without a mode wrote %d files", len(entries))
	}
}

func TestPprofConfigVars(t *testing.T) {
	vars := pprofConfig{}.vars()

	modes := strings.Split(vars["pprofModeEnum"], ",")
	for _, want := range []string{"cpu", "mem", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("pprofModeEnum %q missing %q", vars["pprofModeEnum"], want)
		}
	}

	if vars["pprofDir"] == "" {
		t.Error("pprofDir is empty")
	}
}
