package cli

import (
	"testing"
)

func TestLogConfigScan(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"--log-level", "debug", "--log-format", "json", "a.bv"},
			want: logConfig{Level: "debug", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"check", "--log-level=error", "--log-caller"},
			want: logConfig{Level: "error", Caller: true, Pretty: true},
		},
		{
			name: "negated toggles",
			args: []string{"--no-log-pretty", "--no-log-caller=false"},
			want: logConfig{Caller: true},
		},
		{
			name: "explicit toggle value",
			args: []string{"--log-pretty=false", "--log-caller=maybe"},
			want: logConfig{},
		},
		{
			name: "flag-like value not consumed",
			args: []string{"--log-level", "--log-format=json"},
			want: logConfig{Format: "json", Pretty: true},
		},
		{
			name: "stops at terminator",
			args: []string{"--", "--log-level=debug"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}
