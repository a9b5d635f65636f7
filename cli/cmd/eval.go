package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/profile"
)

// Output formats accepted by [Eval].
const (
	FormatNative = "native"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// Eval evaluates a document and prints its value.
type Eval struct {
	Format string `default:"native" enum:"native,json,yaml" help:"Output format (${enum})"                   short:"f"`
	Indent int    `default:"2"                              help:"Indent width, 0 prints on one line"         short:"i"`
	Path   string `                                         help:"Dotted field path to print instead of the document" short:"p"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	opts, err := langOptions(ctx)
	if err != nil {
		return err
	}

	expr, err := parseSource(ctx, e.Source, opts...)
	if err != nil {
		return lang.WrapError(err).With(slog.String("command", "eval"))
	}

	env := lang.NewEnvironment(expr, opts...)

	var path []string
	if e.Path != "" {
		path = strings.Split(e.Path, ".")
	}

	var v lang.Value

	profile.Do(ctx, "eval", e.Source, func(ctx context.Context) {
		v = env.Resolve(ctx, path...)
	})

	if err := writeValue(ctx, env, v, e.Format, e.Indent); err != nil {
		return err
	}

	if v.IsError() {
		return ErrEvaluation.
			With(slog.String("source", e.Source), slog.String("path", e.Path)).
			Wrap(v.Err())
	}

	return nil
}

// writeValue prints v to the command output in the named format.
func writeValue(
	ctx context.Context,
	env *lang.Environment,
	v lang.Value,
	format string,
	indent int,
) error {
	w := outputFrom(ctx)

	switch format {
	case FormatNative, "":
		return env.Format(ctx, w, v, indent)

	case FormatJSON:
		return env.FormatJSON(ctx, w, v, indent)

	case FormatYAML:
		return env.FormatYAML(ctx, w, v, indent)
	}

	return ErrInvalidFormat.With(slog.String("format", format))
}
