package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write their
// results to w instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// EvalConfig holds the evaluation settings shared by every command.
type EvalConfig struct {
	// Libraries maps @lib field names to document paths, as name=path.
	Libraries []string
	// MaxDepth limits nested cell evaluations. Zero uses the default.
	MaxDepth int
	// Env replaces the process environment seen by @sys.env.get when
	// non-nil.
	Env []string
}

type evalConfigKey struct{}

// WithEvalConfig returns a new context.Context carrying conf.
func WithEvalConfig(ctx context.Context, conf EvalConfig) context.Context {
	return context.WithValue(ctx, evalConfigKey{}, conf)
}

func evalConfigFrom(ctx context.Context) EvalConfig {
	conf, _ := ctx.Value(evalConfigKey{}).(EvalConfig)

	return conf
}

// langOptions builds the evaluation options for ctx, parsing every
// configured library document.
func langOptions(ctx context.Context) ([]lang.Option, error) {
	conf := evalConfigFrom(ctx)

	opts := []lang.Option{lang.WithLogger(log.Default())}

	if conf.MaxDepth > 0 {
		opts = append(opts, lang.WithMaxDepth(conf.MaxDepth))
	}

	if conf.Env != nil {
		opts = append(opts, lang.WithProcessEnv(conf.Env))
	}

	for _, spec := range conf.Libraries {
		name, path, ok := strings.Cut(spec, "=")
		if !ok || name == "" || path == "" {
			return nil, ErrLibrary.With(slog.String("library", spec))
		}

		expr, err := parseSource(ctx, path, opts...)
		if err != nil {
			return nil, ErrLibrary.
				With(slog.String("name", name)).
				Wrap(err)
		}

		opts = append(opts, lang.WithLibrary(name, expr))
	}

	return opts, nil
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

func openSource(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

// parseSource reads and parses the document at path. A document containing
// syntax errors is reported as an error.
func parseSource(
	ctx context.Context,
	path string,
	opts ...lang.Option,
) (*ast.Expr, error) {
	r, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	expr, err := lang.ParseReader(ctx, r, opts...)
	if err != nil {
		return nil, err
	}

	if err := lang.SyntaxError(expr); err != nil {
		return nil, lang.WrapError(err).With(slog.String("source", path))
	}

	return expr, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniqueSources removes paths that name a file already listed, comparing
// resolved device and inode pairs. All occurrences of "-" collapse into one.
// Paths that cannot be resolved are kept so that opening them reports the
// failure.
func uniqueSources(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})
	stdin := false

	for _, path := range paths {
		if path == stdinSource {
			if !stdin {
				out = append(out, path)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if !ok {
			out = append(out, path)

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, path)
	}

	return out
}

// resolveFileKey resolves symlinks in path and returns its device and inode.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
