package ast

import (
	"strings"
	"testing"
)

func TestFormat_Flat(t *testing.T) {
	e := ParseString("@struct {\n  @bind x {   a }\n\n  @bind y { @column {b c} }\n}")

	var b strings.Builder
	if err := e.Format(&b, 0); err != nil {
		t.Fatalf("format: %v", err)
	}

	want := "@struct { @bind x { a } @bind y { @column { b c } } }\n"
	if b.String() != want {
		t.Errorf("expected %q, got %q", want, b.String())
	}
}

func TestFormat_Indented(t *testing.T) {
	e := Str(
		B("description", Lit("a fairly long piece of text")),
		B("items", Col(Lit("a"), Lit("b"))),
	)

	var b strings.Builder
	if err := e.Format(&b, 2); err != nil {
		t.Fatalf("format: %v", err)
	}

	want := `@struct {
  @bind description { 'a fairly long piece of text' }
  @bind items { @column { a b } }
}
`
	if b.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, b.String())
	}

	again := ParseString(b.String())
	if errs := Errors(again); len(errs) > 0 {
		t.Fatalf("indented output does not parse: %v", errs)
	}

	if again.String() != e.String() {
		t.Errorf("round trip changed the tree: %q != %q", again.String(), e.String())
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		`@struct { @bind 'with space' { T"tab\there" } @bind q { Tc"it's" } }`,
		`@column { '' 'dotted.name' @root.x.'y z' }`,
		`@from @lib.base { @struct { @bind n { @call @sys.text.upper { @bind a { @my.n } } } } }`,
	}

	for _, in := range inputs {
		first := ParseString(in)
		if errs := Errors(first); len(errs) > 0 {
			t.Fatalf("%q: unexpected errors %v", in, errs)
		}

		second := ParseString(first.String())
		if errs := Errors(second); len(errs) > 0 {
			t.Fatalf("%q: formatted output does not parse: %v", first.String(), errs)
		}

		if first.String() != second.String() {
			t.Errorf("round trip mismatch:\n%s\n%s", first.String(), second.String())
		}
	}
}

func TestFormatName(t *testing.T) {
	tests := map[string]string{
		"ok-1":  "ok-1",
		"x y":   "'x y'",
		"":      "''",
		"a.b":   "'a.b'",
		"it's":  `Tc"it's"`,
		"@root": "'@root'",
	}

	for in, want := range tests {
		if got := FormatName(in); got != want {
			t.Errorf("FormatName(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestPrint(t *testing.T) {
	var b strings.Builder
	if err := ParseString(`@column { a @struct { @bind k { v } } }`).Print(&b); err != nil {
		t.Fatalf("print: %v", err)
	}

	want := `Column @1:1
  Literal "a" @1:11
  Struct @1:13
    Bind "k" @1:23
      Literal "v" @1:33
`
	if b.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, b.String())
	}
}
