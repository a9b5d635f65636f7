package lang

import (
	"context"
	"os"
	"runtime"
	"strings"
)

func registerEnv(r *Registry) {
	r.Register("env.get", envGet)
	r.RegisterValue("platform", platformValue(getPlatform()))
	r.RegisterValue("target", platformValue(getTarget()))
}

func envGet(_ context.Context, call *Call) Value {
	name, fail, ok := call.TextArg("name")
	if !ok {
		return fail
	}

	return TextValue(call.Environment().processEnv[name])
}

type target struct {
	OS   string
	Arch string
}

func platformValue(t target) Value {
	st := NewStruct()
	st.Set("os", ValueCell(TextValue(t.OS)))
	st.Set("arch", ValueCell(TextValue(t.Arch)))

	return SheetValue(st)
}

// getTarget returns the host target using GNU naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		arm, ok := os.LookupEnv("GOARM")
		if ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	var (
		o, a string
		ok   bool
	)

	if o, ok = os.LookupEnv("GOHOSTOS"); !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = runtime.GOOS
		}
	}

	if a, ok = os.LookupEnv("GOHOSTARCH"); !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = runtime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

// buildProcessEnvMap converts a "KEY=VALUE" string slice to a map.
// If envList is nil, os.Environ() is used.
func buildProcessEnvMap(envList []string) map[string]string {
	if envList == nil {
		envList = os.Environ()
	}

	result := make(map[string]string, len(envList))

	for _, entry := range envList {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

// envFunc returns the env() function given to expr-lang programs.
func envFunc(processEnv map[string]string) func(string) string {
	return func(key string) string {
		return processEnv[key]
	}
}
