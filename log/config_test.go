package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"Info":    LevelInfo,
		" warn ":  LevelWarn,
		"error":   LevelError,
		"bogus":   DefaultLevel,
		"debug+4": LevelInfo,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"json":  FormatJSON,
		"TEXT":  FormatText,
		"other": DefaultFormat,
	}

	for in, want := range tests {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("unexpected levels %v", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"json", "text"}) {
		t.Errorf("unexpected formats %v", got)
	}

	for name := range Levels() {
		if ParseLevel(name).String() != name {
			t.Errorf("level %q does not round trip", name)
		}
	}

	if Level(3).String() != "Level(3)" || Format(9).String() != "Format(9)" {
		t.Error("unexpected names for undefined values")
	}
}

func TestConfig_formatTime(t *testing.T) {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-05T14:07:09Z"},
		{"rfc-3339", "2024-03-05T14:07:09Z"},
		{"Kitchen", "2:07PM"},
		{"DateTime", "2024-03-05 14:07:09"},
		{"2006", "2024"},
		{"", ""},
		{"none", ""},
	}

	for _, tt := range tests {
		if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
			t.Errorf("layout %q: expected %q, got %q", tt.layout, tt.want, got)
		}
	}
}

func TestConfig_Options(t *testing.T) {
	c := makeConfig(nil, WithLevel(LevelWarn), WithFormat(FormatText), WithCaller(true), WithPretty(false))

	if c.level != LevelWarn || c.format != FormatText || !c.caller || c.pretty {
		t.Errorf("options not applied: %+v", c)
	}

	if c.output == nil {
		t.Error("nil writer should be replaced with io.Discard")
	}

	d := c.clone(WithLevel(LevelDebug))
	if d.mutex == c.mutex {
		t.Error("clone should not share the mutex")
	}

	if c.level != LevelWarn || d.level != LevelDebug {
		t.Errorf("clone changed the original: %v %v", c.level, d.level)
	}
}
