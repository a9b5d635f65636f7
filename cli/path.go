package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/bv/pkg"
)

// baseConfig is the base name of the configuration file and the name of the
// field it is read from.
const baseConfig = "config"

var defaultDirMode os.FileMode = 0o700

// executablePrefix rewrites the executable's base name into the program
// identity that names the configuration and cache directories.
var executablePrefix = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d+$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},                   // leading dot(s)
	{regexp.MustCompile(`^$`), pkg.Name},               // nothing left
}

// basePrefix returns the executable's base name with executablePrefix
// rewrites applied.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		return prefixOf(id)
	},
)

func prefixOf(path string) string {
	id := filepath.Base(path)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, r := range executablePrefix {
		id = r.rex.ReplaceAllString(id, r.rep)
	}

	return id
}

// envPrefix returns the prefix of environment variables that set flags,
// e.g. BV for BV_LOG_LEVEL.
func envPrefix() string {
	return strings.ToUpper(
		strings.Map(func(r rune) rune {
			if r == '-' || r == '.' {
				return '_'
			}

			return r
		}, basePrefix()),
	)
}

// userDir joins basePrefix to the directory returned by user, falling back
// to fallback under the home directory and then to the working directory.
func userDir(user func() (string, error), fallback string) string {
	dir, err := user()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string {
		return userDir(os.UserConfigDir, ".config")
	})
	cacheDir = sync.OnceValue(func() string {
		return userDir(os.UserCacheDir, ".cache")
	})
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
