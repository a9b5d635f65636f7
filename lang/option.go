package lang

import (
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
)

// DefaultMaxDepth is the default limit on nested cell evaluations.
// Users may modify this before creating an [Environment].
var DefaultMaxDepth = 1000

// options holds parse and evaluation configuration.
type options struct {
	logger     log.Logger
	maxDepth   int
	processEnv []string
	registry   *Registry
	library    []libEntry
}

type libEntry struct {
	name string
	expr *ast.Expr
}

// Option configures parsing or evaluation behavior.
type Option func(*options)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxDepth sets the maximum number of nested cell evaluations. Deeper
// chains evaluate to an error value.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithProcessEnv sets the variables visible to @sys.env.get and to
// @sys.expr.eval programs. The format is []string{"KEY=VALUE", ...}.
// If nil, os.Environ() is used.
func WithProcessEnv(env []string) Option {
	return func(o *options) {
		o.processEnv = env
	}
}

// WithLibrary adds a document to @lib under name. Library documents are
// evaluated lazily, outside of any enclosing structure.
func WithLibrary(name string, expr *ast.Expr) Option {
	return func(o *options) {
		o.library = append(o.library, libEntry{name: name, expr: expr})
	}
}

// WithRegistry replaces the native functions available through @sys.
// The default is [DefaultRegistry].
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	if o.registry == nil {
		o.registry = builtins()
	}

	return o
}
