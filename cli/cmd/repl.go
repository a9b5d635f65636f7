package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/bv/cli/cmd/repl"
	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
)

// Repl starts an interactive session over a document.
type Repl struct {
	Source string `arg:"" help:"Document to explore, or '-' for stdin. Starts empty if omitted." name:"source" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts, err := langOptions(ctx)
	if err != nil {
		return err
	}

	doc := ast.Str()

	if r.Source != "" {
		doc, err = parseSource(ctx, r.Source, opts...)
		if err != nil {
			return lang.WrapError(err).With(slog.String("command", "repl"))
		}
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, doc, cacheDir, log.Default(), opts...)
}
