package ast

import (
	"strings"
	"testing"

	"github.com/ardnew/bv/lang/token"
)

func TestParseString_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  Kind
	}{
		{"literal", `hello`, Literal},
		{"quoted literal", `'a b'`, Literal},
		{"struct", `@struct { @bind x { a } @bind y { 'b c' } }`, Struct},
		{"empty struct", `@struct {}`, Struct},
		{"column", `@column { a @column { b } }`, Column},
		{"from", `@from @root.base { @struct { @bind x { 1 } } }`, From},
		{"call", `@call @sys.text.reverse { @bind a { abc } }`, Call},
		{"field chain", `@my.x.y`, Field},
		{"up", `@up`, KeyUp},
		{"lib field", `@lib.util`, Field},
		{"quoted field", `'a b'.c`, Field},
		{"quoted field name", `@root.'odd name'`, Field},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ParseString(tt.input)

			if errs := Errors(e); len(errs) > 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}

			if e.Kind != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, e.Kind)
			}

			if got := e.String(); got != tt.input {
				t.Errorf("expected canonical form %q, got %q", tt.input, got)
			}
		})
	}
}

func TestParseString_Shape(t *testing.T) {
	e := ParseString(`@from @my.base { @struct { @bind k { v } } extra }`)
	if e.Kind != From || len(e.Items) != 3 {
		t.Fatalf("expected From with 3 items, got %v with %d", e.Kind, len(e.Items))
	}

	base := e.Items[0]
	if base.Kind != Field || base.Text != "base" || base.Target.Kind != KeyMy {
		t.Errorf("unexpected base %s", base)
	}

	if v := e.Items[1].Lookup("k"); v == nil || v.Text != "v" {
		t.Errorf("expected field k = v, got %v", v)
	}

	if e.Items[2].Kind != Literal || e.Items[2].Text != "extra" {
		t.Errorf("unexpected last part %s", e.Items[2])
	}

	call := ParseString(`@call f { @bind a { 1 } @bind b { 2 } }`)
	if call.Target.Text != "f" || len(call.Binds) != 2 || call.Binds[1].Name != "b" {
		t.Errorf("unexpected call %s", call)
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", ``, "Expected Expr, got EOF"},
		{"only comment", "# nothing\n", "Expected Expr, got EOF"},
		{"column without brace", `@column a`, "@column must be followed by '{'"},
		{"column unterminated", `@column { a`, "Column must end with '}'"},
		{"column bad terminator", `@column { a @bind }`, "Column must end with '}'"},
		{"struct with expression", `@struct { a }`, "Struct must end with '}'"},
		{"struct without brace", `@struct @bind`, "@struct must be followed by '{'"},
		{"bind without name", `@struct { @bind { a } }`, "@bind must be followed by a name"},
		{"bind without brace", `@struct { @bind x a }`, "@bind must be followed by '{'"},
		{"bind with two values", `@struct { @bind x { a b } }`, "Bind must end with '}'"},
		{"from without brace", `@from a b`, "@from must be followed by '{'"},
		{"from unterminated", `@from a { b`, "From must end with '}'"},
		{"call without brace", `@call f x`, "@call must be followed by '{'"},
		{"call with expression", `@call f { x }`, "Call must end with '}'"},
		{"stray brace", `}`, "Unexpected token '}'"},
		{"stray bind", `@bind`, "Unexpected token '@bind'"},
		{"trailing tokens", `a b`, "Unexpected token after document"},
		{"dangling dot", `a.`, "'.' must be followed by a field name"},
		{"lexical error", `@nope`, "Unknown keyword @nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Errors(ParseString(tt.input))
			if len(errs) == 0 {
				t.Fatalf("expected error %q, got none", tt.want)
			}

			for _, d := range errs {
				if d.Msg == tt.want {
					return
				}
			}

			t.Errorf("expected error %q, got %v", tt.want, errs)
		})
	}
}

func TestParseString_ErrorsInsideContainers(t *testing.T) {
	e := ParseString(`@column { a $ b }`)
	if e.Kind != Column || len(e.Items) != 3 {
		t.Fatalf("expected Column of 3, got %s", e)
	}

	if e.Items[1].Kind != Error || e.Items[1].Text != "Unknown character '$'" {
		t.Errorf("expected error element, got %s", e.Items[1])
	}

	if e.Items[0].Text != "a" || e.Items[2].Text != "b" {
		t.Errorf("siblings of an error should parse normally, got %s", e)
	}
}

func TestParseString_ErrorPosition(t *testing.T) {
	errs := Errors(ParseString("@struct {\n  @bind x { $ }\n}"))
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}

	want := token.Pos{Offset: 22, Line: 2, Column: 13}
	if errs[0].Pos != want {
		t.Errorf("expected position %v, got %v", want, errs[0].Pos)
	}

	if !strings.HasPrefix(errs[0].String(), "2:13: ") {
		t.Errorf("unexpected diagnostic %q", errs[0].String())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		expr *Expr
		want string
	}{
		{CallOf(FieldOf(Sys(), "text", "reverse"), B("a", Lit("abc"))), "@call @sys.text.reverse { @bind a { abc } }"},
		{FromOf(FieldOf(Root(), "base"), Str(B("x", Lit("1")))), "@from @root.base { @struct { @bind x { 1 } } }"},
		{Col(My(), Up(), Lib(), Err("bad")), "@column { @my @up @lib @error 'bad' }"},
		{Str(), "@struct {}"},
	}

	for _, tt := range tests {
		if got := tt.expr.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestInspect_SkipsChildren(t *testing.T) {
	e := ParseString(`@column { a @column { b c } d }`)

	var lits []string

	Inspect(e, func(x *Expr) bool {
		if x.Kind == Literal {
			lits = append(lits, x.Text)
		}

		return x == e || x.Kind != Column
	})

	if strings.Join(lits, ",") != "a,d" {
		t.Errorf("expected a,d, got %v", lits)
	}
}

func TestParseString_UnterminatedKeepsParsedChildren(t *testing.T) {
	tests := []struct {
		name  string
		input string
		items []string
		binds []string
	}{
		{"struct", `@struct { @bind a { x } @bind b { y }`, nil, []string{"a", "b"}},
		{"struct bad bind", `@struct { @bind a { x } @bind b { y z`, nil, []string{"a", "b"}},
		{"column", `@column { p q`, []string{"p", "q"}, nil},
		{"from", `@from base { p`, []string{"base", "p"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ParseString(tt.input)
			if e.Kind != Error {
				t.Fatalf("expected Error, got %s", e)
			}

			var items, binds []string
			for _, x := range e.Items {
				items = append(items, x.Text)
			}

			for _, b := range e.Binds {
				binds = append(binds, b.Name)
			}

			if strings.Join(items, ",") != strings.Join(tt.items, ",") {
				t.Errorf("expected items %v, got %v", tt.items, items)
			}

			if strings.Join(binds, ",") != strings.Join(tt.binds, ",") {
				t.Errorf("expected binds %v, got %v", tt.binds, binds)
			}
		})
	}
}

func TestParseString_UnterminatedCallKeepsTarget(t *testing.T) {
	e := ParseString(`@call f { @bind a { x }`)
	if e.Kind != Error || e.Target == nil || e.Target.Text != "f" {
		t.Fatalf("expected Error targeting f, got %s", e)
	}

	if len(e.Binds) != 1 || e.Binds[0].Name != "a" || e.Binds[0].Value.Text != "x" {
		t.Errorf("expected bind a, got %v", e.Binds)
	}
}
