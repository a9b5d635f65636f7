package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCheckRun(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.bv", "@struct { @bind a { x } @bind b { @my.a } }")
	bad := writeFile(t, dir, "bad.bv", "@struct { @bind a { @my.nope } @bind l { @column { ok @up } } }")
	broken := writeFile(t, dir, "broken.bv", "@struct { @bind a { x }")

	tests := []struct {
		name    string
		sources []string
		want    []string
		wantErr bool
	}{
		{
			name:    "clean",
			sources: []string{good},
			want:    []string{good + ": ok"},
		},
		{
			name:    "problems",
			sources: []string{good, bad},
			want: []string{
				good + ": ok",
				bad + ": a: field 'nope' not found",
				bad + ": l.1: @up at document root",
			},
			wantErr: true,
		},
		{
			name:    "syntax",
			sources: []string{broken},
			want:    []string{broken + ": syntax: "},
			wantErr: true,
		},
		{
			name:    "duplicates checked once",
			sources: []string{good, good},
			want:    []string{good + ": ok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			err := (&Check{Jobs: 2, Sources: tt.sources}).Run(WithOutput(t.Context(), &out))

			if tt.wantErr != errors.Is(err, ErrCheck) {
				t.Fatalf("Check.Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), out.String())
			}

			for i, want := range tt.want {
				if !strings.HasPrefix(lines[i], want) {
					t.Errorf("line %d = %q, want prefix %q", i, lines[i], want)
				}
			}
		})
	}
}
