package ast

import (
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/bv/lang/token"
)

// lineWidth is the widest flat rendering of a container before Format
// breaks it across lines.
const lineWidth = 72

// Format writes e in canonical bv syntax followed by a newline. With
// indent 0 the whole document is written on one line; otherwise nested
// containers that do not fit on a line are indented by indent spaces per
// level.
//
// Error nodes are written as "@error 'message'", which does not parse.
func (e *Expr) Format(w io.Writer, indent int) error {
	f := formatter{indent: indent}

	_, err := io.WriteString(w, f.expr(e, 0)+"\n")

	return err
}

// String returns e in canonical bv syntax on a single line.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}

	return (&formatter{}).expr(e, 0)
}

type formatter struct {
	indent int
}

func (f *formatter) expr(e *Expr, depth int) string {
	if e == nil {
		return "@error 'missing expression'"
	}

	switch e.Kind {
	case Literal:
		return FormatName(e.Text)
	case Error:
		return "@error " + token.Quote(e.Text)
	case KeyRoot:
		return "@root"
	case KeySys:
		return "@sys"
	case KeyLib:
		return "@lib"
	case KeyMy:
		return "@my"
	case KeyUp:
		return "@up"
	case Field:
		return f.expr(e.Target, depth) + "." + FormatName(e.Text)
	case Column:
		return f.block("@column", f.exprs(e.Items, depth+1), depth)
	case Struct:
		return f.block("@struct", f.binds(e.Binds, depth+1), depth)
	case From:
		if len(e.Items) == 0 {
			return "@from @error 'missing base' {}"
		}

		head := "@from " + f.expr(e.Items[0], depth)

		return f.block(head, f.exprs(e.Items[1:], depth+1), depth)
	case Call:
		head := "@call " + f.expr(e.Target, depth)

		return f.block(head, f.binds(e.Binds, depth+1), depth)
	}

	return "@error " + token.Quote("unknown expression "+e.Kind.String())
}

func (f *formatter) exprs(items []*Expr, depth int) []string {
	out := make([]string, len(items))
	for i, x := range items {
		out[i] = f.expr(x, depth)
	}

	return out
}

func (f *formatter) binds(binds []*Bind, depth int) []string {
	out := make([]string, len(binds))
	for i, b := range binds {
		out[i] = "@bind " + FormatName(b.Name) + " { " + f.expr(b.Value, depth) + " }"
	}

	return out
}

// block writes head followed by a braced list of parts, flat if it fits.
func (f *formatter) block(head string, parts []string, depth int) string {
	if len(parts) == 0 {
		return head + " {}"
	}

	flat := head + " { " + strings.Join(parts, " ") + " }"

	fits := len(flat)+depth*f.indent <= lineWidth && !strings.Contains(flat, "\n")
	if f.indent == 0 || fits {
		return flat
	}

	pad := strings.Repeat(" ", (depth+1)*f.indent)

	var b strings.Builder

	b.WriteString(head + " {\n")

	for _, part := range parts {
		b.WriteString(pad + part + "\n")
	}

	b.WriteString(strings.Repeat(" ", depth*f.indent) + "}")

	return b.String()
}

// FormatName returns text as it would be written in source: bare when it
// is a plain word, quoted otherwise.
func FormatName(text string) string {
	if isBare(text) {
		return text
	}

	return token.Quote(text)
}

func isBare(text string) bool {
	if text == "" {
		return false
	}

	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return false
		}
	}

	return true
}

// Print writes an indented dump of the tree rooted at e, one node per
// line, with source positions where known.
func (e *Expr) Print(w io.Writer) error {
	var b strings.Builder

	printExpr(&b, e, 0)

	_, err := io.WriteString(w, b.String())

	return err
}

func printExpr(b *strings.Builder, e *Expr, depth int) {
	b.WriteString(strings.Repeat("  ", depth))

	if e == nil {
		b.WriteString("<nil>\n")

		return
	}

	b.WriteString(e.Kind.String())

	switch e.Kind {
	case Literal, Field, Error:
		b.WriteString(" " + strconv.Quote(e.Text))
	}

	printPos(b, e.Pos)

	if e.Target != nil {
		printExpr(b, e.Target, depth+1)
	}

	for _, x := range e.Items {
		printExpr(b, x, depth+1)
	}

	for _, bind := range e.Binds {
		b.WriteString(strings.Repeat("  ", depth+1) + "Bind " + strconv.Quote(bind.Name))
		printPos(b, bind.Pos)
		printExpr(b, bind.Value, depth+2)
	}
}

func printPos(b *strings.Builder, pos token.Pos) {
	if pos.IsValid() {
		b.WriteString(" @" + pos.String())
	}

	b.WriteByte('\n')
}
