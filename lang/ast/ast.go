// Package ast defines the expression tree of the bv language, a parser
// producing it from tokens, and printers writing it back out.
package ast

import (
	"strconv"

	"github.com/ardnew/bv/lang/token"
)

// Kind identifies the variant of an [Expr].
type Kind int

const (
	// Error is a syntax or lexical error carried in the tree. Text holds
	// the message.
	Error Kind = iota
	// Literal is text. Text holds the decoded value.
	Literal
	// Column is an ordered list of expressions held in Items.
	Column
	// Struct is a list of named fields held in Binds.
	Struct
	KeyRoot
	KeySys
	KeyLib
	KeyMy
	KeyUp
	// From extends the structure Items[0] with Items[1:], left to right.
	From
	// Call invokes Target with the named arguments in Binds.
	Call
	// Field selects the field Text of Target.
	Field
)

var kindName = [...]string{
	Error:   "Error",
	Literal: "Literal",
	Column:  "Column",
	Struct:  "Struct",
	KeyRoot: "Root",
	KeySys:  "Sys",
	KeyLib:  "Lib",
	KeyMy:   "My",
	KeyUp:   "Up",
	From:    "From",
	Call:    "Call",
	Field:   "Field",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Expr is a node of the expression tree. Which fields are meaningful
// depends on Kind.
type Expr struct {
	Kind   Kind
	Pos    token.Pos
	Text   string
	Items  []*Expr
	Binds  []*Bind
	Target *Expr
}

// Bind associates a field name with an expression.
type Bind struct {
	Name  string
	Value *Expr
	Pos   token.Pos
}

// Lit returns a Literal.
func Lit(text string) *Expr { return &Expr{Kind: Literal, Text: text} }

// Err returns an Error with message msg.
func Err(msg string) *Expr { return &Expr{Kind: Error, Text: msg} }

// Col returns a Column of items.
func Col(items ...*Expr) *Expr { return &Expr{Kind: Column, Items: items} }

// Str returns a Struct of binds.
func Str(binds ...*Bind) *Expr { return &Expr{Kind: Struct, Binds: binds} }

// B returns a Bind of name to value.
func B(name string, value *Expr) *Bind { return &Bind{Name: name, Value: value} }

// FromOf returns a From extending base with parts.
func FromOf(base *Expr, parts ...*Expr) *Expr {
	return &Expr{Kind: From, Items: append([]*Expr{base}, parts...)}
}

// CallOf returns a Call of fn with args.
func CallOf(fn *Expr, args ...*Bind) *Expr {
	return &Expr{Kind: Call, Target: fn, Binds: args}
}

// FieldOf returns the chain of Field selections base.names[0].names[1]...
func FieldOf(base *Expr, names ...string) *Expr {
	for _, name := range names {
		base = &Expr{Kind: Field, Target: base, Text: name}
	}

	return base
}

func Root() *Expr { return &Expr{Kind: KeyRoot} }
func Sys() *Expr  { return &Expr{Kind: KeySys} }
func Lib() *Expr  { return &Expr{Kind: KeyLib} }
func My() *Expr   { return &Expr{Kind: KeyMy} }
func Up() *Expr   { return &Expr{Kind: KeyUp} }

// Lookup returns the value bound to name in a Struct, or nil.
func (e *Expr) Lookup(name string) *Expr {
	if e == nil || e.Kind != Struct {
		return nil
	}

	for _, b := range e.Binds {
		if b.Name == name {
			return b.Value
		}
	}

	return nil
}

// Children returns the direct subexpressions of e in source order.
func (e *Expr) Children() []*Expr {
	if e == nil {
		return nil
	}

	var out []*Expr

	if e.Target != nil {
		out = append(out, e.Target)
	}

	out = append(out, e.Items...)

	for _, b := range e.Binds {
		out = append(out, b.Value)
	}

	return out
}

// Inspect traverses the tree rooted at e in depth-first order. If f
// returns false, the children of that node are skipped.
func Inspect(e *Expr, f func(*Expr) bool) {
	if e == nil || !f(e) {
		return
	}

	for _, c := range e.Children() {
		Inspect(c, f)
	}
}

// Diagnostic is an Error node located in source.
type Diagnostic struct {
	Pos token.Pos
	Msg string
}

func (d Diagnostic) String() string { return d.Pos.String() + ": " + d.Msg }

// Errors returns every Error node in the tree rooted at e.
func Errors(e *Expr) []Diagnostic {
	var out []Diagnostic

	Inspect(e, func(x *Expr) bool {
		if x.Kind == Error {
			out = append(out, Diagnostic{Pos: x.Pos, Msg: x.Text})
		}

		return true
	})

	return out
}
