package lang

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/bv/lang/ast"
)

// Predefined errors (sentinel values).
//
// These describe failures of the Go API. Failures inside a document are
// reported as [KindError] values instead.
var (
	ErrReadInput        = NewError("failed to read input")
	ErrSyntax           = NewError("syntax error")
	ErrMaxDepthExceeded = NewError("maximum evaluation depth exceeded")
	ErrFieldNotFound    = NewError("field not found")
	ErrNotStructure     = NewError("not a structure")
	ErrEvaluation       = NewError("evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface, joining the message and the
// wrapped error with ": ".
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// SyntaxError returns an error describing every Error node in the tree
// rooted at e, or nil if there are none. The first diagnostic is the
// cause; all of them are attached as attributes.
func SyntaxError(e *ast.Expr) error {
	diags := ast.Errors(e)
	if len(diags) == 0 {
		return nil
	}

	attrs := make([]slog.Attr, 0, len(diags))
	for _, d := range diags {
		attrs = append(attrs, slog.String(d.Pos.String(), d.Msg))
	}

	return ErrSyntax.Wrap(errors.New(diags[0].String())).
		With(slog.Int("count", len(diags))).
		With(slog.Group("diagnostics", anyAttrs(attrs)...))
}

func anyAttrs(attrs []slog.Attr) []any {
	out := make([]any, len(attrs))
	for i, a := range attrs {
		out[i] = a
	}

	return out
}
