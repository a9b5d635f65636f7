package lang

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/bv/lang/ast"
)

// evaluator carries the state of one evaluation request.
type evaluator struct {
	ctx   context.Context
	env   *Environment
	depth int
}

// cell forces c, memoizing its value.
//
// A cell found InProgress is part of a cycle and yields an error without
// being modified; the cell that started the cycle is the one that records
// the error. A cell whose evaluation ends after ctx is canceled returns to
// Pending, as do the cells enclosing it, so a later request may evaluate
// them. The depth limit leaves only the cell at the limit Pending; cells
// enclosing it memoize the error.
func (ev *evaluator) cell(c *Cell) Value {
	switch c.progress {
	case Done:
		return c.value
	case InProgress:
		ev.trace("circular reference", c)

		return ErrorValue("Circular reference")
	}

	if err := context.Cause(ev.ctx); err != nil {
		return ErrorValue(err.Error())
	}

	if ev.depth >= ev.env.opts.maxDepth {
		ev.trace("depth limit", c, slog.Int("depth", ev.depth))

		return ErrorValue(ErrMaxDepthExceeded.Error())
	}

	ev.depth++
	c.progress = InProgress

	v := ev.expr(c.expr, c.scope)

	ev.depth--

	if context.Cause(ev.ctx) != nil {
		c.progress = Pending

		ev.trace("cell canceled", c)

		return v
	}

	c.value, c.progress = v, Done

	ev.trace("cell done", c, slog.String("kind", v.Kind.String()))

	return v
}

func (ev *evaluator) trace(msg string, c *Cell, attrs ...slog.Attr) {
	if !ev.env.opts.logger.Tracing(ev.ctx) {
		return
	}

	if c.expr != nil {
		attrs = append(attrs,
			slog.String("pos", c.expr.Pos.String()),
			slog.String("expr", c.expr.Kind.String()),
		)
	}

	ev.env.opts.logger.TraceContext(ev.ctx, msg, attrs...)
}

// expr evaluates e in the scope path sc.
func (ev *evaluator) expr(e *ast.Expr, sc scope) Value {
	if e == nil {
		return ErrorValue("missing expression")
	}

	switch e.Kind {
	case ast.Literal:
		return TextValue(e.Text)

	case ast.Error:
		return ErrorValue(e.Text)

	case ast.Column:
		items := make([]Value, len(e.Items))
		for i, item := range e.Items {
			items[i] = ev.expr(item, sc)
		}

		return ColumnValue(items...)

	case ast.Struct:
		return SheetValue(ev.structure(e.Binds, sc))

	case ast.KeyRoot:
		return ev.cell(ev.env.top)

	case ast.KeySys:
		return SheetValue(ev.env.sys)

	case ast.KeyLib:
		return SheetValue(ev.env.lib)

	case ast.KeyMy:
		if st, ok := sc.my(); ok {
			return SheetValue(st)
		}

		return ErrorValue("@my outside of any structure")

	case ast.KeyUp:
		if st, ok := sc.up(); ok {
			return SheetValue(st)
		}

		return ErrorValue("@up at document root")

	case ast.From:
		return ev.from(e, sc)

	case ast.Call:
		return ev.call(e, sc)

	case ast.Field:
		return ev.field(ev.expr(e.Target, sc), e.Text)
	}

	return ErrorValue("cannot evaluate " + e.Kind.String())
}

// structure creates the cells of a new structure. Its bindings see the
// structure itself as @my.
func (ev *evaluator) structure(binds []*ast.Bind, sc scope) *Struct {
	st := NewStruct()
	inner := sc.push(st)

	for _, b := range binds {
		st.Set(b.Name, newCell(b.Value, inner))
	}

	return st
}

// from merges the structures of a @from expression, later fields replacing
// earlier ones. Inherited cells keep the scope they were defined in. The
// first part that is not a structure decides the result; an Error part is
// returned as is.
func (ev *evaluator) from(e *ast.Expr, sc scope) Value {
	if len(e.Items) == 0 {
		return ErrorValue("@from requires a base")
	}

	parts := make([]*Struct, 0, len(e.Items))

	for _, item := range e.Items {
		v := ev.expr(item, sc)

		switch v.Kind {
		case KindError:
			return v
		case KindSheet:
			parts = append(parts, v.Sheet)
		default:
			return ErrorValue("@from requires structures")
		}
	}

	return SheetValue(parts[0].merge(parts[1:]...))
}

// call invokes a native. The arguments form a structure whose cells are
// evaluated only if the native asks for them.
func (ev *evaluator) call(e *ast.Expr, sc scope) (v Value) {
	fn := ev.expr(e.Target, sc)

	switch fn.Kind {
	case KindError:
		return fn
	case KindFunction:
	default:
		return ErrorValue("not callable")
	}

	native, ok := ev.env.opts.registry.Lookup(fn.Text)
	if !ok {
		return ErrorValue("unknown function '" + fn.Text + "'")
	}

	call := &Call{ev: ev, id: fn.Text, args: ev.structure(e.Binds, sc)}
	depth := ev.depth

	defer func() {
		if r := recover(); r != nil {
			ev.depth = depth
			v = call.Fail(fmt.Sprintf("panicked: %v", r))
		}
	}()

	if ev.env.opts.logger.Tracing(ev.ctx) {
		ev.env.opts.logger.TraceContext(ev.ctx, "native call",
			slog.String("id", fn.Text),
			slog.Any("args", call.Names()),
		)
	}

	return native(ev.ctx, call)
}

func (ev *evaluator) field(base Value, name string) Value {
	switch base.Kind {
	case KindError:
		return base
	case KindSheet:
	default:
		return ErrorValue(
			"cannot access field '" + name + "' of " + base.Kind.String(),
		)
	}

	c, ok := base.Sheet.Get(name)
	if !ok {
		return ErrorValue("field '" + name + "' not found")
	}

	return ev.cell(c)
}
