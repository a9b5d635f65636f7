package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bv/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so errors reported while Kong is still parsing
// already use the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"debug,info,warn,error" help:"Set log level."`
	Format     logFormat `default:"text"    enum:"json,text"             help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                              help:"Set timestamp format."`
	Caller     bool      `default:"false"                                help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                 help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logger flags found in args before Kong parses them, so the
// logger is configured regardless of flag position. Level and format are
// also applied by their TextUnmarshaler during parsing; the boolean flags
// are not.
func (f *logConfig) scan(args []string) {
	valued := map[string]func(string){
		"level":  func(s string) { _ = f.Level.UnmarshalText([]byte(s)) },
		"format": func(s string) { _ = f.Format.UnmarshalText([]byte(s)) },
	}

	toggles := map[string]func(bool){
		"pretty": func(v bool) { f.Pretty = v; log.Config(log.WithPretty(v)) },
		"caller": func(v bool) { f.Caller = v; log.Config(log.WithCaller(v)) },
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		negate := false

		name, ok := strings.CutPrefix(arg, "--log-")
		if !ok {
			if name, ok = strings.CutPrefix(arg, "--no-log-"); !ok {
				continue
			}

			negate = true
		}

		name, value, assigned := strings.Cut(name, "=")

		if set, ok := valued[name]; ok && !negate {
			// Consume the next arg as the value unless it looks like a flag.
			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				args[i+1][0] != '-' {
				value = args[i+1]
				i++
			}

			set(value)

			continue
		}

		if set, ok := toggles[name]; ok {
			v := true

			if assigned {
				var err error
				if v, err = strconv.ParseBool(value); err != nil {
					continue
				}
			}

			set(v != negate)
		}
	}
}
