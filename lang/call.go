package lang

import "context"

// Call gives a native access to its arguments.
//
// Arguments are evaluated on demand, so a native that ignores an argument
// never forces it.
type Call struct {
	ev   *evaluator
	id   string
	args *Struct
}

// ID returns the registry identifier of the native being called.
func (c *Call) ID() string { return c.id }

// Environment returns the environment the call is evaluated in.
func (c *Call) Environment() *Environment { return c.ev.env }

// Context returns the context of the evaluation.
func (c *Call) Context() context.Context { return c.ev.ctx }

// Names returns the argument names in the order they were bound.
func (c *Call) Names() []string { return c.args.Names() }

// Has reports whether an argument named name was bound.
func (c *Call) Has(name string) bool {
	_, ok := c.args.Get(name)

	return ok
}

// Arg evaluates and returns the argument named name.
func (c *Call) Arg(name string) (Value, bool) {
	cell, ok := c.args.Get(name)
	if !ok {
		return Value{}, false
	}

	return c.ev.cell(cell), true
}

// Fail returns an error value attributed to the native.
func (c *Call) Fail(msg string) Value {
	return ErrorValue("@sys." + c.id + " " + msg)
}

// TextArg evaluates the argument named name and requires it to be text.
// When ok is false, fail is the error value the native should return.
func (c *Call) TextArg(name string) (s string, fail Value, ok bool) {
	v, found := c.Arg(name)

	switch {
	case !found:
		return "", c.Fail("expects argument '" + name + "'"), false
	case v.IsError():
		return "", v, false
	case v.Kind != KindText:
		return "", c.Fail("expects text argument"), false
	}

	return v.Text, Value{}, true
}

// OptionalTextArg is like [Call.TextArg] but returns def when the argument
// is not bound.
func (c *Call) OptionalTextArg(name, def string) (string, Value, bool) {
	if !c.Has(name) {
		return def, Value{}, true
	}

	return c.TextArg(name)
}

// ColumnArg evaluates the argument named name and requires it to be a
// column.
func (c *Call) ColumnArg(name string) (items []Value, fail Value, ok bool) {
	v, found := c.Arg(name)

	switch {
	case !found:
		return nil, c.Fail("expects argument '" + name + "'"), false
	case v.IsError():
		return nil, v, false
	case v.Kind != KindColumn:
		return nil, c.Fail("expects column argument"), false
	}

	return v.Items, Value{}, true
}

// TextItems converts the elements of a column to strings. The first error
// element is returned as fail; any other non-text element fails the call.
func (c *Call) TextItems(items []Value) (texts []string, fail Value, ok bool) {
	texts = make([]string, 0, len(items))

	for _, item := range items {
		switch item.Kind {
		case KindText:
			texts = append(texts, item.Text)
		case KindError:
			return nil, item, false
		default:
			return nil, c.Fail("expects column of text"), false
		}
	}

	return texts, Value{}, true
}
