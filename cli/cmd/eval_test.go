package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/bv/lang"
)

const evalDoc = `@struct {
	@bind name { world }
	@bind greeting { @call @sys.text.concat { @bind a { 'hello ' } @bind b { @root.name } } }
	@bind list { @column { a b } }
	@bind broken { @my.missing }
}`

func TestEvalRun(t *testing.T) {
	tests := []struct {
		name    string
		eval    Eval
		want    string
		wantErr error
	}{
		{
			name: "field path",
			eval: Eval{Path: "greeting"},
			want: "'hello world'\n",
		},
		{
			name: "nested json",
			eval: Eval{Path: "list", Format: FormatJSON},
			want: "[\"a\",\"b\"]\n",
		},
		{
			name: "yaml flow",
			eval: Eval{Path: "name", Format: FormatYAML},
			want: "world\n",
		},
		{
			name:    "error value",
			eval:    Eval{Path: "broken"},
			want:    "@error Tc\"field 'missing' not found\"\n",
			wantErr: ErrEvaluation,
		},
		{
			name:    "missing path",
			eval:    Eval{Path: "nope.deeper"},
			wantErr: ErrEvaluation,
		},
		{
			name:    "bad format",
			eval:    Eval{Path: "name", Format: "toml"},
			wantErr: ErrInvalidFormat,
		},
	}

	path := writeFile(t, t.TempDir(), "doc.bv", evalDoc)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			e := tt.eval
			e.Source = path

			err := e.Run(WithOutput(t.Context(), &out))

			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("Eval.Run() error = %v", err)
			case tt.wantErr != nil && !errors.Is(err, tt.wantErr):
				t.Fatalf("Eval.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.want != "" && out.String() != tt.want {
				t.Errorf("got  %q\nwant %q", out.String(), tt.want)
			}
		})
	}
}

func TestEvalLibrary(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "util.bv", "@struct { @bind shout { @call @sys.text.upper { @bind a { hey } } } }")
	doc := writeFile(t, dir, "doc.bv", "@lib.util.shout")

	ctx := WithEvalConfig(t.Context(), EvalConfig{Libraries: []string{"util=" + lib}})

	var out bytes.Buffer

	if err := (&Eval{Source: doc}).Run(WithOutput(ctx, &out)); err != nil {
		t.Fatal(err)
	}

	if out.String() != "HEY\n" {
		t.Errorf("got %q, want %q", out.String(), "HEY\n")
	}
}

func TestEvalMaxDepth(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.bv",
		"@struct { @bind a { @my.b } @bind b { @my.c } @bind c { @my.d } @bind d { x } }")

	ctx := WithEvalConfig(t.Context(), EvalConfig{MaxDepth: 2})

	var out bytes.Buffer

	err := (&Eval{Source: doc, Path: "a"}).Run(WithOutput(ctx, &out))
	if !errors.Is(err, ErrEvaluation) {
		t.Fatalf("Eval.Run() error = %v, want evaluation error", err)
	}

	if !strings.Contains(out.String(), lang.ErrMaxDepthExceeded.Error()) {
		t.Errorf("output %q lacks depth error", out.String())
	}
}

func TestEvalSyntaxError(t *testing.T) {
	doc := writeFile(t, t.TempDir(), "doc.bv", "@struct { @bind a }")

	err := (&Eval{Source: doc}).Run(WithOutput(t.Context(), &bytes.Buffer{}))
	if !errors.Is(err, lang.ErrSyntax) {
		t.Errorf("Eval.Run() error = %v, want syntax error", err)
	}
}
