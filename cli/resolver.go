package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/bv/lang"
	"github.com/ardnew/bv/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a bv document and
// takes flag defaults from its top-level field name.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, "config"), "/path/to/config.bv")
//
// The named field must be a structure. Each of its fields sets the flag of
// the same name; hyphens in flag names may be written as underscores. Text
// becomes the flag's string form and a column becomes a list. Fields that
// evaluate to an error are skipped with a warning, and a document that does
// not parse yields no defaults.
//
// Example config file:
//
//	@struct {
//	  @bind config {
//	    @struct {
//	      @bind log-level { debug }
//	      @bind log_format { text }
//	      @bind lib { @column { 'util=/etc/bv/util.bv' } }
//	    }
//	  }
//	}
//
// Command-line flags override config file values.
func resolve(
	ctx context.Context,
	name string,
) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		logger := log.Default()

		doc, err := lang.ParseReader(ctx, r, lang.WithLogger(logger))
		if err != nil || lang.SyntaxError(doc) != nil {
			return config{}, nil
		}

		env := lang.NewEnvironment(doc, lang.WithLogger(logger))

		v := env.Resolve(ctx, name)
		if v.Kind != lang.KindSheet {
			return config{}, nil
		}

		conf := make(config, v.Sheet.Len())

		for key, c := range v.Sheet.All() {
			val := env.Cell(ctx, c)
			if val.IsError() {
				logger.WarnContext(ctx, "ignoring configuration field",
					slog.String("field", key),
					slog.String("error", val.Text),
				)

				continue
			}

			conf[key] = plain(env.ToNative(ctx, val))
		}

		return conf, nil
	}
}

// plain replaces the ordered maps produced by [lang.Environment.ToNative]
// with Go maps.
func plain(v any) any {
	switch v := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]any, len(v))
		for _, item := range v {
			if key, ok := item.Key.(string); ok {
				m[key] = plain(item.Value)
			}
		}

		return m

	case []any:
		for i, item := range v {
			v[i] = plain(item)
		}

		return v
	}

	return v
}

// config implements [kong.Resolver] for bv documents.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but config fields may use
	// underscores. Try both forms.
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
