package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bv/lang/ast"
	"github.com/ardnew/bv/log"
	"github.com/ardnew/bv/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config namespace undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = i.buildDocument(ctx).Format(file, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildDocument constructs the config document from current flag values:
// a structure whose config field holds one field per flag.
func (i *Init) buildDocument(ctx context.Context) *ast.Expr {
	ktx := kongContextFrom(ctx)

	var binds []*ast.Bind

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			binds = append(binds, ast.B(flag.Name, val))
		}
	}

	return ast.Str(ast.B(ConfigIdentifier, ast.Str(binds...)))
}

// flagValue returns the document value for a CLI flag, or nil if unset.
// Lists become columns.
func flagValue(ktx *kong.Context, flag *kong.Flag) *ast.Expr {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool:
		return ast.Lit(strconv.FormatBool(v))

	case string:
		if v == "" {
			return nil
		}

		return ast.Lit(v)

	case []string:
		return column(v, func(s string) string { return s })

	case []int:
		return column(v, strconv.Itoa)

	case []int64:
		return column(v, func(n int64) string { return strconv.FormatInt(n, 10) })

	case []float64:
		return column(v, func(f float64) string { return fmt.Sprint(f) })

	case []bool:
		return column(v, strconv.FormatBool)

	default:
		return ast.Lit(fmt.Sprint(v))
	}
}

func column[T any](items []T, text func(T) string) *ast.Expr {
	if len(items) == 0 {
		return nil
	}

	lits := make([]*ast.Expr, len(items))
	for i, item := range items {
		lits[i] = ast.Lit(text(item))
	}

	return ast.Col(lits...)
}
