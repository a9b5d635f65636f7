package lang

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/bv/lang/ast"
)

func newEnv(t *testing.T, src string, opts ...Option) *Environment {
	t.Helper()

	e := ast.ParseString(src)
	if err := SyntaxError(e); err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return NewEnvironment(e, opts...)
}

func wantText(t *testing.T, v Value, want string) {
	t.Helper()

	if v.Kind != KindText || v.Text != want {
		t.Errorf("got %v, want text %q", v, want)
	}
}

func wantError(t *testing.T, v Value, want string) {
	t.Helper()

	if v.Kind != KindError || v.Text != want {
		t.Errorf("got %v, want error %q", v, want)
	}
}

func TestEvaluate_Literal(t *testing.T) {
	env := newEnv(t, "hello")

	wantText(t, env.Evaluate(t.Context()), "hello")

	if env.Top().Progress() != Done {
		t.Errorf("top progress = %v, want done", env.Top().Progress())
	}
}

func TestEvaluate_StructIsLazy(t *testing.T) {
	env := newEnv(t, "@struct { @bind a { @my.missing } @bind b { ok } }")

	v := env.Evaluate(t.Context())
	if v.Kind != KindSheet {
		t.Fatalf("got %v, want structure", v)
	}

	if got := v.Sheet.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("names = %v", got)
	}

	for name, c := range v.Sheet.All() {
		if c.Progress() != Pending {
			t.Errorf("%s progress = %v, want pending", name, c.Progress())
		}
	}
}

func TestEvaluate_Memoization(t *testing.T) {
	calls := 0

	r := DefaultRegistry()
	r.Register("test.count", func(context.Context, *Call) Value {
		calls++

		return TextValue("counted")
	})

	env := newEnv(t, `@struct {
		@bind a { @call @sys.test.count { } }
		@bind b { @my.a }
		@bind c { @column { @my.a @my.b } }
	}`, WithRegistry(r))

	ctx := t.Context()

	wantText(t, env.Resolve(ctx, "b"), "counted")
	wantText(t, env.Resolve(ctx, "a"), "counted")

	c := env.Resolve(ctx, "c")
	if c.Kind != KindColumn || len(c.Items) != 2 {
		t.Fatalf("c = %v", c)
	}

	if calls != 1 {
		t.Errorf("native called %d times, want 1", calls)
	}
}

func TestEvaluate_Cycle(t *testing.T) {
	env := newEnv(t, `@struct {
		@bind a { @my.b }
		@bind b { @my.a }
		@bind c { fine }
		@bind self { @my.self }
	}`)

	ctx := t.Context()

	wantError(t, env.Resolve(ctx, "a"), "Circular reference")
	wantError(t, env.Resolve(ctx, "b"), "Circular reference")
	wantError(t, env.Resolve(ctx, "self"), "Circular reference")
	wantText(t, env.Resolve(ctx, "c"), "fine")

	top := env.Evaluate(ctx)
	for name, c := range top.Sheet.All() {
		if c.Progress() != Done {
			t.Errorf("%s progress = %v, want done", name, c.Progress())
		}
	}
}

func TestEvaluate_ScopeKeywords(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path []string
		text string
		err  string
	}{
		{
			name: "my sibling",
			src:  "@struct { @bind x { @my.y } @bind y { 1 } }",
			path: []string{"x"},
			text: "1",
		},
		{
			name: "up from nested",
			src: `@struct {
				@bind v { outer }
				@bind s { @struct { @bind v { inner } @bind w { @up.v } } }
			}`,
			path: []string{"s", "w"},
			text: "outer",
		},
		{
			name: "my in nested",
			src: `@struct {
				@bind v { outer }
				@bind s { @struct { @bind v { inner } @bind w { @my.v } } }
			}`,
			path: []string{"s", "w"},
			text: "inner",
		},
		{
			name: "root from nested",
			src:  "@struct { @bind a { 1 } @bind s { @struct { @bind b { @root.a } } } }",
			path: []string{"s", "b"},
			text: "1",
		},
		{
			name: "up at document root",
			src:  "@struct { @bind a { @up } }",
			path: []string{"a"},
			err:  "@up at document root",
		},
		{
			name: "my outside structure",
			src:  "@my",
			err:  "@my outside of any structure",
		},
		{
			name: "column shares scope",
			src:  "@struct { @bind n { 7 } @bind c { @column { @my.n } } }",
			path: []string{"c"},
		},
		{
			name: "call argument sees caller through up",
			src: `@struct {
				@bind n { abc }
				@bind r { @call @sys.text.reverse { @bind a { @up.n } } }
			}`,
			path: []string{"r"},
			text: "cba",
		},
		{
			name: "call argument my is the arguments",
			src: `@struct {
				@bind n { abc }
				@bind r { @call @sys.text.reverse { @bind a { @my.n } } }
			}`,
			path: []string{"r"},
			err:  "field 'n' not found",
		},
		{
			name: "call arguments see each other",
			src: `@struct {
				@bind r { @call @sys.text.concat { @bind a { x } @bind b { @my.a } } }
			}`,
			path: []string{"r"},
			text: "xx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, tt.src)
			v := env.Resolve(t.Context(), tt.path...)

			switch {
			case tt.err != "":
				wantError(t, v, tt.err)
			case tt.text != "":
				wantText(t, v, tt.text)
			case v.IsError():
				t.Errorf("unexpected error %v", v)
			}
		})
	}
}

func TestEvaluate_From(t *testing.T) {
	env := newEnv(t, `@struct {
		@bind base { @struct { @bind a { 1 } @bind b { 2 } @bind c { @my.b } } }
		@bind d { @from @my.base { @struct { @bind b { 3 } @bind e { 4 } } } }
	}`)

	ctx := t.Context()

	d := env.Resolve(ctx, "d")
	if d.Kind != KindSheet {
		t.Fatalf("d = %v", d)
	}

	if got := d.Sheet.Names(); !slices.Equal(got, []string{"a", "b", "c", "e"}) {
		t.Errorf("names = %v", got)
	}

	wantText(t, env.Resolve(ctx, "d", "a"), "1")
	wantText(t, env.Resolve(ctx, "d", "b"), "3")
	wantText(t, env.Resolve(ctx, "d", "e"), "4")
	// Inherited cells keep the scope they were written in.
	wantText(t, env.Resolve(ctx, "d", "c"), "2")
	wantText(t, env.Resolve(ctx, "base", "b"), "2")
}

func TestEvaluate_FromLastWriteWins(t *testing.T) {
	env := newEnv(t, `@from @struct { @bind k { 1 } } {
		@struct { @bind k { 2 } }
		@struct { @bind k { 3 } }
	}`)

	wantText(t, env.Resolve(t.Context(), "k"), "3")
}

func TestEvaluate_FromErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"text base", "@from a { }", "@from requires structures"},
		{"text part", "@from @struct { } { b }", "@from requires structures"},
		{"error part", "@from @struct { } { @sys.missing }", "field 'missing' not found"},
		{"error base", "@from @sys.missing { @struct { } }", "field 'missing' not found"},
		{"error before text", "@from @struct { } { @sys.missing b }", "field 'missing' not found"},
		{"text before error", "@from @struct { } { b @sys.missing }", "@from requires structures"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, newEnv(t, tt.src).Evaluate(t.Context()), tt.err)
		})
	}
}

func TestEvaluate_ColumnIndependence(t *testing.T) {
	env := newEnv(t, "@struct { @bind c { @column { a @my.nope b } } }")

	c := env.Resolve(t.Context(), "c")
	if c.Kind != KindColumn || len(c.Items) != 3 {
		t.Fatalf("c = %v", c)
	}

	wantText(t, c.Items[0], "a")
	wantError(t, c.Items[1], "field 'nope' not found")
	wantText(t, c.Items[2], "b")
}

func TestEvaluate_FieldErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  string
	}{
		{"missing", "@struct { } .x", "field 'x' not found"},
		{"text", "a.x", "cannot access field 'x' of text"},
		{"column", "@column { }.x", "cannot access field 'x' of column"},
		{"function", "@sys.text.reverse.x", "cannot access field 'x' of function"},
		{"propagates", "@struct { } .x.y.z", "field 'x' not found"},
		{"syntax error node", "@struct { @bind a { @bogus } }.a", "Unknown keyword @bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ast.ParseString(tt.src)
			env := NewEnvironment(e)

			wantError(t, env.Evaluate(t.Context()), tt.err)
		})
	}
}

func TestEvaluate_CallErrors(t *testing.T) {
	r := NewRegistry().RegisterValue("alias", FunctionValue("gone"))

	tests := []struct {
		name string
		src  string
		opts []Option
		err  string
	}{
		{name: "text", src: "@call a { }", err: "not callable"},
		{name: "structure", src: "@call @struct { } { }", err: "not callable"},
		{name: "error target", src: "@call @sys.nope { }", err: "field 'nope' not found"},
		{
			name: "unknown id",
			src:  "@call @sys.alias { }",
			opts: []Option{WithRegistry(r)},
			err:  "unknown function 'gone'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantError(t, newEnv(t, tt.src, tt.opts...).Evaluate(t.Context()), tt.err)
		})
	}
}

func TestEvaluate_CallArgumentsOnDemand(t *testing.T) {
	r := DefaultRegistry()
	r.Register("test.first", func(_ context.Context, call *Call) Value {
		v, _ := call.Arg("a")
		again, _ := call.Arg("a")

		if !v.Equal(again) {
			return call.Fail("argument changed")
		}

		return v
	})

	env := newEnv(t, `@call @sys.test.first {
		@bind a { kept }
		@bind b { @my.b }
	}`, WithRegistry(r))

	wantText(t, env.Evaluate(t.Context()), "kept")
}

func TestEvaluate_NativePanic(t *testing.T) {
	r := NewRegistry()
	r.Register("test.boom", func(context.Context, *Call) Value {
		panic("bad")
	})

	env := newEnv(t, "@call @sys.test.boom { }", WithRegistry(r))

	wantError(t, env.Evaluate(t.Context()), "@sys.test.boom panicked: bad")
}

func TestEvaluate_Library(t *testing.T) {
	util := ast.ParseString(`@struct {
		@bind greet { hi }
		@bind user { @root.name }
	}`)

	env := newEnv(t, `@struct {
		@bind name { bv }
		@bind a { @lib.util.greet }
		@bind b { @lib.util.user }
		@bind c { @lib.other }
	}`, WithLibrary("util", util), WithLibrary("other", ast.My()))

	ctx := t.Context()

	wantText(t, env.Resolve(ctx, "a"), "hi")
	wantText(t, env.Resolve(ctx, "b"), "bv")
	wantError(t, env.Resolve(ctx, "c"), "@my outside of any structure")
}

func TestEvaluate_MaxDepth(t *testing.T) {
	env := newEnv(t, `@struct {
		@bind a { @my.b }
		@bind b { @my.c }
		@bind c { @my.d }
		@bind d { x }
	}`, WithMaxDepth(3))

	ctx := t.Context()

	wantError(t, env.Resolve(ctx, "a"), ErrMaxDepthExceeded.Error())

	top := env.Evaluate(ctx)

	d, _ := top.Sheet.Get("d")
	if d.Progress() != Pending {
		t.Errorf("d progress = %v, want pending", d.Progress())
	}

	// A shallower request can still evaluate the cell that hit the limit.
	wantText(t, env.Resolve(ctx, "d"), "x")
}

func TestEvaluate_Canceled(t *testing.T) {
	env := newEnv(t, "@struct { }")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	wantError(t, env.Evaluate(ctx), context.Canceled.Error())

	if env.Top().Progress() != Pending {
		t.Errorf("top progress = %v, want pending", env.Top().Progress())
	}

	if v := env.Evaluate(t.Context()); v.Kind != KindSheet {
		t.Errorf("got %v after cancel, want structure", v)
	}
}

func TestEvaluate_CanceledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0

	r := DefaultRegistry()
	r.Register("test.stop", func(context.Context, *Call) Value {
		calls++
		cancel()

		return TextValue("stopped")
	})

	env := newEnv(t, `@struct {
		@bind a { @call @sys.test.stop { } }
		@bind b { @my.a }
	}`, WithRegistry(r))

	env.Resolve(ctx, "b")

	top := env.Evaluate(t.Context())
	if top.Kind != KindSheet {
		t.Fatalf("got %v, want structure", top)
	}

	for _, name := range []string{"a", "b"} {
		c, _ := top.Sheet.Get(name)
		if c.Progress() != Pending {
			t.Errorf("%s progress = %v, want pending", name, c.Progress())
		}
	}

	wantText(t, env.Resolve(t.Context(), "b"), "stopped")

	if calls != 2 {
		t.Errorf("native called %d times, want 2", calls)
	}

	if b, _ := top.Sheet.Get("b"); b.Progress() != Done {
		t.Errorf("b progress = %v, want done", b.Progress())
	}
}

func TestEnvironment_Problems(t *testing.T) {
	env := newEnv(t, `@struct {
		@bind a { ok }
		@bind b { @my.zz }
		@bind c { @column { x @my.q } }
		@bind s { @struct { @bind self { @my } @bind f { @sys.text.reverse } } }
	}`)

	got := env.Problems(t.Context())

	want := []string{
		"b: field 'zz' not found",
		"c.1: field 'q' not found",
	}

	if len(got) != len(want) {
		t.Fatalf("got %d problems %v, want %d", len(got), got, len(want))
	}

	for i, p := range got {
		if p.String() != want[i] {
			t.Errorf("problem %d = %q, want %q", i, p.String(), want[i])
		}
	}
}

func TestEnvironment_ProblemsAtRoot(t *testing.T) {
	got := newEnv(t, "@my").Problems(t.Context())

	if len(got) != 1 || got[0].String() != "(root): @my outside of any structure" {
		t.Errorf("got %v", got)
	}
}

func TestEnvironment_Lookup(t *testing.T) {
	env := newEnv(t, "@struct { @bind a { text } @bind e { @my.nope } }")
	ctx := t.Context()
	top := env.Evaluate(ctx)

	v, err := env.Lookup(ctx, top, "a")
	if err != nil {
		t.Fatalf("Lookup(a): %v", err)
	}

	wantText(t, v, "text")

	v, err = env.Lookup(ctx, top, "e")
	if err != nil {
		t.Fatalf("Lookup(e): %v", err)
	}

	wantError(t, v, "field 'nope' not found")

	v, err = env.Lookup(ctx, top, "e", "deeper", "still")
	if err != nil {
		t.Fatalf("Lookup(e.deeper.still): %v", err)
	}

	wantError(t, v, "field 'nope' not found")

	if _, err := env.Lookup(ctx, top, "nope"); !errors.Is(err, ErrFieldNotFound) {
		t.Errorf("Lookup(nope) error = %v, want ErrFieldNotFound", err)
	}

	if _, err := env.Lookup(ctx, top, "a", "b"); !errors.Is(err, ErrNotStructure) {
		t.Errorf("Lookup(a.b) error = %v, want ErrNotStructure", err)
	}
}

func TestEnvironment_EvaluateIn(t *testing.T) {
	env := newEnv(t, "@struct { @bind a { one } @bind b { @my.a } }")
	ctx := t.Context()

	wantText(t, env.EvaluateIn(ctx, ast.ParseString("@my.b")), "one")
	wantText(t, env.EvaluateIn(ctx, ast.ParseString("@root.a")), "one")
	wantError(t, env.EvaluateIn(ctx, ast.ParseString("@up")), "@up at document root")

	b, _ := env.Evaluate(ctx).Sheet.Get("b")
	if b.Progress() != Done {
		t.Errorf("b progress = %v, want done", b.Progress())
	}
}

func TestEvaluateString(t *testing.T) {
	ClearCache()

	_, v := EvaluateString(t.Context(), "@call @sys.text.upper { @bind a { bv } }")

	wantText(t, v, "BV")
}

func TestValue_Err(t *testing.T) {
	if err := TextValue("x").Err(); err != nil {
		t.Errorf("text Err() = %v", err)
	}

	err := ErrorValue("boom").Err()
	if !errors.Is(err, ErrEvaluation) {
		t.Errorf("Err() = %v, want ErrEvaluation", err)
	}

	if err.Error() != "evaluation failed: boom" {
		t.Errorf("Err().Error() = %q", err.Error())
	}
}
