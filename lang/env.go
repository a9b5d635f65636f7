package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/bv/lang/ast"
)

// Environment holds everything visible to one document: the built-in @sys
// structure, the @lib structure, and the cell of the document itself.
//
// Cells are memoized across calls, so evaluating the same field twice
// computes it once. An Environment is not safe for concurrent use.
type Environment struct {
	sys        *Struct
	lib        *Struct
	top        *Cell
	opts       options
	processEnv map[string]string
}

// NewEnvironment returns an environment for the document top. Nothing is
// evaluated until a value is requested.
func NewEnvironment(top *ast.Expr, opts ...Option) *Environment {
	o := makeOptions(opts...)

	env := &Environment{
		sys:        o.registry.structure(),
		lib:        NewStruct(),
		top:        newCell(top, nil),
		opts:       o,
		processEnv: buildProcessEnvMap(o.processEnv),
	}

	for _, l := range o.library {
		env.lib.Set(l.name, newCell(l.expr, nil))
	}

	return env
}

// EvaluateString parses src and evaluates it in a new environment.
// Syntax errors appear as error values inside the result.
func EvaluateString(
	ctx context.Context,
	src string,
	opts ...Option,
) (*Environment, Value) {
	env := NewEnvironment(ParseString(ctx, src, opts...), opts...)

	return env, env.Evaluate(ctx)
}

// Sys returns the structure of built-in natives.
func (env *Environment) Sys() *Struct { return env.sys }

// Lib returns the structure of library documents.
func (env *Environment) Lib() *Struct { return env.lib }

// Top returns the cell of the document.
func (env *Environment) Top() *Cell { return env.top }

func (env *Environment) evaluator(ctx context.Context) *evaluator {
	return &evaluator{ctx: ctx, env: env}
}

// Evaluate returns the value of the document.
func (env *Environment) Evaluate(ctx context.Context) Value {
	return env.evaluator(ctx).cell(env.top)
}

// Cell forces c, which may belong to any structure reachable from env.
func (env *Environment) Cell(ctx context.Context, c *Cell) Value {
	return env.evaluator(ctx).cell(c)
}

// Resolve evaluates the document and follows path through its fields. A
// failing step yields an error value.
func (env *Environment) Resolve(ctx context.Context, path ...string) Value {
	ev := env.evaluator(ctx)
	v := ev.cell(env.top)

	for _, name := range path {
		v = ev.field(v, name)
	}

	return v
}

// Lookup follows path through the fields of v, returning a Go error when a
// step is not a structure or lacks the field. Error values found along
// the way are returned as values, not errors.
func (env *Environment) Lookup(
	ctx context.Context,
	v Value,
	path ...string,
) (Value, error) {
	ev := env.evaluator(ctx)

	for i, name := range path {
		if v.IsError() {
			return v, nil
		}

		if v.Kind != KindSheet {
			return v, ErrNotStructure.With(
				slog.String("path", strings.Join(path[:i], ".")),
				slog.String("kind", v.Kind.String()),
			)
		}

		c, ok := v.Sheet.Get(name)
		if !ok {
			return v, ErrFieldNotFound.With(
				slog.String("path", strings.Join(path[:i], ".")),
				slog.String("field", name),
			)
		}

		v = ev.cell(c)
	}

	return v, nil
}

// EvaluateIn evaluates e as if it appeared directly inside the document's
// top-level structure, so @my refers to that structure. Cells reached
// from e share memoized values with the document.
func (env *Environment) EvaluateIn(ctx context.Context, e *ast.Expr) Value {
	ev := env.evaluator(ctx)

	var sc scope
	if top := ev.cell(env.top); top.Kind == KindSheet {
		sc = sc.push(top.Sheet)
	}

	return ev.expr(e, sc)
}

// Problem is an error value found while walking a document.
type Problem struct {
	Path    []string
	Message string
}

func (p Problem) String() string {
	if len(p.Path) == 0 {
		return "(root): " + p.Message
	}

	return strings.Join(p.Path, ".") + ": " + p.Message
}

// Problems evaluates every field reachable from the document and returns
// the error values found, in display order. Column elements are named by
// their index. Each structure is walked once.
func (env *Environment) Problems(ctx context.Context) []Problem {
	w := problemWalker{
		ev:   env.evaluator(ctx),
		seen: make(map[*Struct]bool),
	}

	w.walk(w.ev.cell(env.top), nil)

	return w.found
}

type problemWalker struct {
	ev    *evaluator
	seen  map[*Struct]bool
	found []Problem
}

func (w *problemWalker) walk(v Value, path []string) {
	switch v.Kind {
	case KindError:
		w.found = append(w.found, Problem{
			Path:    append([]string(nil), path...),
			Message: v.Text,
		})

	case KindColumn:
		for i, item := range v.Items {
			w.walk(item, append(path, strconv.Itoa(i)))
		}

	case KindSheet:
		if v.Sheet == nil || w.seen[v.Sheet] || v.Sheet == w.ev.env.sys {
			return
		}

		w.seen[v.Sheet] = true

		for name, c := range v.Sheet.All() {
			w.walk(w.ev.cell(c), append(path, name))
		}
	}
}
