package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/lang/lexer"
)

// Fmt reads a document and prints it without evaluating it.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native bv syntax (default)."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
	Tokens Tokens `cmd:""                    help:"Print the token stream."`
}

// Native formats input as native bv syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	expr, err := parseSource(ctx, f.Source)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", "native"))
	}

	return expr.Format(outputFrom(ctx), f.Indent)
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command. Syntax errors are printed as part of the
// tree rather than reported.
func (a *AST) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := readSource(a.Source)
	if err != nil {
		return err
	}

	return lang.ParseString(ctx, src).Print(outputFrom(ctx))
}

// Tokens prints the tokens of the input, one per line.
type Tokens struct {
	All bool `help:"Include whitespace and comments" short:"a"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	src, err := readSource(t.Source)
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	var opts []lexer.Option
	if t.All {
		opts = append(opts, lexer.WithWhitespace(true), lexer.WithComments(true))
	}

	for tok := range lexer.Tokens(src, opts...) {
		if _, err := fmt.Fprintln(w, tok.Pos, tok); err != nil {
			return err
		}
	}

	return nil
}

func readSource(path string) (string, error) {
	r, err := openSource(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", lang.ErrReadInput.Wrap(err).With(slog.String("source", path))
	}

	return string(data), nil
}
