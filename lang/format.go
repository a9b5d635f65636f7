package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/bv/lang/ast"
)

// cycleMessage marks a structure that contains itself.
const cycleMessage = "cycle"

// Expr converts v to an expression that evaluates to an equal value,
// evaluating every field of every structure reached. A structure reached
// again while it is being converted becomes an error node.
func (env *Environment) Expr(ctx context.Context, v Value) *ast.Expr {
	q := quoter{ev: env.evaluator(ctx), active: make(map[*Struct]bool)}

	return q.expr(v)
}

type quoter struct {
	ev     *evaluator
	active map[*Struct]bool
}

func (q *quoter) expr(v Value) *ast.Expr {
	switch v.Kind {
	case KindText:
		return ast.Lit(v.Text)

	case KindError:
		return ast.Err(v.Text)

	case KindFunction:
		return ast.FieldOf(ast.Sys(), strings.Split(v.Text, ".")...)

	case KindColumn:
		items := make([]*ast.Expr, len(v.Items))
		for i, item := range v.Items {
			items[i] = q.expr(item)
		}

		return ast.Col(items...)

	case KindSheet:
		if q.active[v.Sheet] {
			return ast.Err(cycleMessage)
		}

		q.active[v.Sheet] = true
		defer delete(q.active, v.Sheet)

		binds := make([]*ast.Bind, 0, v.Sheet.Len())
		for name, c := range v.Sheet.All() {
			binds = append(binds, ast.B(name, q.expr(q.ev.cell(c))))
		}

		return ast.Str(binds...)
	}

	return ast.Err("unknown value kind " + v.Kind.String())
}

// Format writes v in native syntax, one part per line when indent is
// positive.
func (env *Environment) Format(
	ctx context.Context,
	w io.Writer,
	v Value,
	indent int,
) error {
	return env.Expr(ctx, v).Format(w, indent)
}

// ToNative converts v to plain Go data: text becomes string, a column
// []any, and a structure an ordered yaml.MapSlice. Errors become
// {error: message} and functions {function: id}.
func (env *Environment) ToNative(ctx context.Context, v Value) any {
	q := quoter{ev: env.evaluator(ctx), active: make(map[*Struct]bool)}

	return q.native(v)
}

func (q *quoter) native(v Value) any {
	switch v.Kind {
	case KindText:
		return v.Text

	case KindError:
		return yaml.MapSlice{{Key: "error", Value: v.Text}}

	case KindFunction:
		return yaml.MapSlice{{Key: "function", Value: v.Text}}

	case KindColumn:
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = q.native(item)
		}

		return items

	case KindSheet:
		if q.active[v.Sheet] {
			return yaml.MapSlice{{Key: "error", Value: cycleMessage}}
		}

		q.active[v.Sheet] = true
		defer delete(q.active, v.Sheet)

		m := make(yaml.MapSlice, 0, v.Sheet.Len())
		for name, c := range v.Sheet.All() {
			m = append(m, yaml.MapItem{Key: name, Value: q.native(q.ev.cell(c))})
		}

		return m
	}

	return nil
}

// FormatJSON writes v as JSON, keeping the field order of structures.
func (env *Environment) FormatJSON(
	ctx context.Context,
	w io.Writer,
	v Value,
	indent int,
) error {
	var (
		jsonData []byte
		err      error
	)

	native := jsonOrdered(env.ToNative(ctx, v))

	if indent > 0 {
		jsonData, err = json.MarshalIndent(native, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(native)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes v as YAML, in flow style when indent is zero.
func (env *Environment) FormatYAML(
	ctx context.Context,
	w io.Writer,
	v Value,
	indent int,
) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, env.ToNative(ctx, v), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// orderedObject marshals a yaml.MapSlice as a JSON object in slice order.
type orderedObject yaml.MapSlice

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(fmt.Sprint(item.Key))
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func jsonOrdered(v any) any {
	switch v := v.(type) {
	case yaml.MapSlice:
		out := make(orderedObject, len(v))
		for i, item := range v {
			out[i] = yaml.MapItem{Key: item.Key, Value: jsonOrdered(item.Value)}
		}

		return out

	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonOrdered(item)
		}

		return out
	}

	return v
}
