package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records, either as key=value pairs on one
// line or as an indented JSON-like object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	json   bool
	attrs  []slog.Attr
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
		json: json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))
	attrs = append(attrs, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.qualify(a))

		return true
	})

	buf := new(bytes.Buffer)

	if h.json {
		buf.WriteString("{\n")
	}

	n := 0

	for _, a := range attrs {
		// Levels keep their slog.Level value so they can be colored.
		if h.opts.ReplaceAttr != nil && a.Key != slog.LevelKey &&
			a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Equal(slog.Attr{}) {
			continue
		}

		h.writeAttr(buf, a, n)
		n++
	}

	if h.json {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// qualify prefixes the key of a with the handler's open groups.
func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}

	return a
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, n int) {
	if h.json {
		if n > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteString(": ")
	} else {
		if n > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
	}

	writeValue(buf, a.Value.Resolve())
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(colorGray)
			buf.WriteString(a.Key)
			buf.WriteString(colorReset)
			buf.WriteByte('=')
			writeValue(buf, a.Value.Resolve())
		}

		buf.WriteByte('}')

		return

	default:
		if level, ok := v.Any().(slog.Level); ok {
			switch {
			case level >= slog.LevelError:
				color = colorRed
			case level >= slog.LevelWarn:
				color = colorYellow
			case level >= slog.LevelInfo:
				color = colorGreen
			default:
				color = colorBlue
			}

			text = strings.ToUpper(Level(level).String())
		} else {
			text = v.String()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}
