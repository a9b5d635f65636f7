package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
	"github.com/ardnew/bv/profile"
)

// Check parses and fully evaluates documents, reporting every syntax error
// and every field that evaluates to an error.
type Check struct {
	Jobs int `help:"Number of documents checked concurrently" short:"j"`

	Sources []string `arg:"" default:"-" help:"Source input files or '-' for default stdin." name:"sources"`
}

// checkResult holds the report of one document.
type checkResult struct {
	source string
	lines  []string
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	opts, err := langOptions(ctx)
	if err != nil {
		return err
	}

	sources := uniqueSources(c.Sources)
	results := make([]checkResult, len(sources))

	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group

	g.SetLimit(jobs)

	for i, source := range sources {
		g.Go(func() error {
			profile.Do(ctx, "check", source, func(ctx context.Context) {
				results[i] = checkSource(ctx, source, opts)
			})

			return nil
		})
	}

	_ = g.Wait()

	w := outputFrom(ctx)
	failed := 0

	for _, r := range results {
		if len(r.lines) == 0 {
			fmt.Fprintf(w, "%s: ok\n", r.source)

			continue
		}

		failed++

		for _, line := range r.lines {
			fmt.Fprintf(w, "%s: %s\n", r.source, line)
		}
	}

	if failed > 0 {
		return ErrCheck.With(
			slog.Int("failed", failed),
			slog.Int("checked", len(sources)),
		)
	}

	return nil
}

// checkSource reports the problems of one document. Each document gets its
// own environment, so memoized cells are never shared across goroutines.
func checkSource(
	ctx context.Context,
	source string,
	opts []lang.Option,
) checkResult {
	r := checkResult{source: source}

	src, err := readSource(source)
	if err != nil {
		r.lines = append(r.lines, err.Error())

		return r
	}

	expr := lang.ParseString(ctx, src, opts...)

	for _, d := range ast.Errors(expr) {
		r.lines = append(r.lines, "syntax: "+d.String())
	}

	if len(r.lines) > 0 {
		return r
	}

	env := lang.NewEnvironment(expr, opts...)

	for _, p := range env.Problems(ctx) {
		r.lines = append(r.lines, p.String())
	}

	log.DebugContext(
		ctx,
		"checked document",
		slog.String("source", source),
		slog.Int("problems", len(r.lines)),
	)

	return r
}
