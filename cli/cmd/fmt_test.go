package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/bv/lang"
)

func TestNativeFmt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		indent  int
		want    string
		wantErr bool
	}{
		{
			name:  "flat",
			input: "@struct{@bind a{x}   @bind b {@column{ 'y z' }}}",
			want:  "@struct { @bind a { x } @bind b { @column { 'y z' } } }\n",
		},
		{
			name:  "field chain",
			input: "@root . a .b",
			want:  "@root.a.b\n",
		},
		{
			name:    "unterminated structure",
			input:   "@struct { @bind a { x }",
			wantErr: true,
		},
		{
			name:    "unknown keyword",
			input:   "@nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "doc.bv", tt.input)

			var out bytes.Buffer

			ctx := WithOutput(t.Context(), &out)

			err := (&Native{Indent: tt.indent, Source: path}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Native.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if !errors.Is(err, lang.ErrSyntax) {
					t.Errorf("Native.Run() error = %v, want syntax error", err)
				}

				return
			}

			if out.String() != tt.want {
				t.Errorf("got  %q\nwant %q", out.String(), tt.want)
			}
		})
	}
}

func TestNativeFmtIndent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.bv", "@struct { @bind a { x } @bind b { y } }")

	var out bytes.Buffer

	if err := (&Native{Indent: 2, Source: path}).Run(WithOutput(t.Context(), &out)); err != nil {
		t.Fatal(err)
	}

	// Re-formatting the output must be stable.
	again := writeFile(t, t.TempDir(), "again.bv", out.String())

	var second bytes.Buffer

	if err := (&Native{Indent: 2, Source: again}).Run(WithOutput(t.Context(), &second)); err != nil {
		t.Fatal(err)
	}

	if out.String() != second.String() {
		t.Errorf("formatting is not stable:\n%s\n%s", out.String(), second.String())
	}
}

func TestASTFmt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.bv", "@struct { @bind a { x }")

	var out bytes.Buffer

	if err := (&AST{Source: path}).Run(WithOutput(t.Context(), &out)); err != nil {
		t.Fatalf("AST.Run() error = %v", err)
	}

	for _, want := range []string{`Bind "a"`, `Literal "x"`, "Error"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("AST output missing %q:\n%s", want, out.String())
		}
	}
}

func TestTokensFmt(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.bv", "abc # note\n'd e'")

	var out bytes.Buffer

	if err := (&Tokens{Source: path}).Run(WithOutput(t.Context(), &out)); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || lines[0] != "1:1 q abc" || lines[1] != "2:1 q d e" {
		t.Errorf("tokens = %q", lines)
	}

	out.Reset()

	if err := (&Tokens{All: true, Source: path}).Run(WithOutput(t.Context(), &out)); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "Comment") {
		t.Errorf("tokens with --all lack the comment:\n%s", out.String())
	}
}

func TestFmtMissingFile(t *testing.T) {
	err := (&Native{Source: "/nonexistent/doc.bv"}).Run(t.Context())
	if err == nil {
		t.Error("Native.Run() on a missing file succeeded")
	}
}
