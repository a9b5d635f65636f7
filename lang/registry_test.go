package lang

import (
	"context"
	"slices"
	"testing"
)

func TestRegistry_Structure(t *testing.T) {
	r := NewRegistry()
	r.Register("a.b", func(context.Context, *Call) Value { return TextValue("b") })
	r.Register("a.b.c", func(context.Context, *Call) Value { return TextValue("c") })
	r.Register("top", func(context.Context, *Call) Value { return TextValue("top") })
	r.RegisterValue("k.v", TextValue("const"))

	env := newEnv(t, "@sys", WithRegistry(r))
	ctx := t.Context()

	if v := env.Resolve(ctx, "a", "b"); v.Kind != KindSheet {
		t.Errorf("@sys.a.b = %v, want structure", v)
	}

	if v := newEnv(t, "@sys.a.b.c", WithRegistry(r)).Evaluate(ctx); !v.Equal(FunctionValue("a.b.c")) {
		t.Errorf("@sys.a.b.c = %v", v)
	}

	wantText(t, env.Resolve(ctx, "k", "v"), "const")

	if got := env.Sys().Names(); !slices.Equal(got, []string{"a", "k", "top"}) {
		t.Errorf("@sys names = %v", got)
	}
}

func TestRegistry_Clone(t *testing.T) {
	r := DefaultRegistry()
	r.Register("text.reverse", func(context.Context, *Call) Value { return TextValue("shadowed") })

	if _, ok := builtins().Lookup("text.reverse"); !ok {
		t.Fatal("builtin text.reverse missing")
	}

	v := newEnv(t, "@call @sys.text.reverse { @bind a { ab } }").Evaluate(t.Context())
	wantText(t, v, "ba")

	v = newEnv(t, "@call @sys.text.reverse { @bind a { ab } }", WithRegistry(r)).Evaluate(t.Context())
	wantText(t, v, "shadowed")
}

func TestRegistry_IDs(t *testing.T) {
	ids := DefaultRegistry().IDs()

	for _, want := range []string{"text.reverse", "expr.eval", "path.prefix", "env.get", "platform"} {
		if !slices.Contains(ids, want) {
			t.Errorf("IDs() missing %q", want)
		}
	}

	if !slices.IsSorted(ids) {
		t.Error("IDs() not sorted")
	}
}
