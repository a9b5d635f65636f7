package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/bv/lang/ast"
)

// globalCache stores parsed trees keyed by the hash of their source.
// Trees are never modified after parsing, so they are shared freely.
var globalCache sync.Map

// state tracks the parse of one source.
type state struct {
	once sync.Once
	expr *ast.Expr
}

// ParseReader reads all of r and parses it. The tree is cached by content,
// so reading the same document again does not parse it twice.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*ast.Expr, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	o := makeOptions(opts...)
	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...), nil
}

// ParseString parses source, returning a cached tree when the same source
// was parsed before. Syntax errors are Error nodes in the tree; use
// [SyntaxError] to collect them.
func ParseString(ctx context.Context, source string, opts ...Option) *ast.Expr {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(source)
	sourceKey := strconv.FormatUint(sourceHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(state))
	entry := value.(*state)

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", sourceKey),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.expr = ast.ParseString(source)

		o.logger.TraceContext(
			ctx,
			"parsed",
			slog.Int("source_length", len(source)),
			slog.Int("errors", len(ast.Errors(entry.expr))),
		)
	})

	return entry.expr
}

// ClearCache removes all cached trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
