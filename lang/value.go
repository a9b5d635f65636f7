package lang

import (
	"strconv"
	"strings"
)

// Kind identifies the variant of a [Value].
type Kind int

const (
	KindError Kind = iota
	KindText
	KindColumn
	KindSheet
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindText:
		return "text"
	case KindColumn:
		return "column"
	case KindSheet:
		return "structure"
	case KindFunction:
		return "function"
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the result of evaluating an expression.
//
// Text holds the string of a text value, the message of an error value, or
// the registry id of a function value. Items holds the elements of a
// column, and Sheet the structure of a sheet.
type Value struct {
	Kind  Kind
	Text  string
	Items []Value
	Sheet *Struct
}

// TextValue returns a text value.
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

// ErrorValue returns an error value carrying msg.
func ErrorValue(msg string) Value { return Value{Kind: KindError, Text: msg} }

// ColumnValue returns a column of items.
func ColumnValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{Kind: KindColumn, Items: items}
}

// SheetValue returns a value wrapping the structure s.
func SheetValue(s *Struct) Value { return Value{Kind: KindSheet, Sheet: s} }

// FunctionValue returns a reference to the native registered as id.
func FunctionValue(id string) Value { return Value{Kind: KindFunction, Text: id} }

// IsError reports whether v is an error value.
func (v Value) IsError() bool { return v.Kind == KindError }

// Err returns nil unless v is an error value, in which case it returns an
// [ErrEvaluation] carrying the message.
func (v Value) Err() error {
	if v.Kind != KindError {
		return nil
	}

	return ErrEvaluation.Wrap(valueError(v.Text))
}

type valueError string

func (e valueError) Error() string { return string(e) }

// String returns a short single-line description of v. Structures are not
// evaluated; use [Environment.Format] to render a value in full.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return strconv.Quote(v.Text)
	case KindError:
		return "error(" + strconv.Quote(v.Text) + ")"
	case KindFunction:
		return "function(" + v.Text + ")"
	case KindColumn:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.String()
		}

		return "[" + strings.Join(parts, " ") + "]"
	case KindSheet:
		if v.Sheet == nil {
			return "{}"
		}

		return "{" + strings.Join(v.Sheet.Names(), " ") + "}"
	}

	return v.Kind.String()
}

// Equal reports whether v and w are the same value. Columns are compared
// element-wise; sheets are equal only if they are the same structure.
func (v Value) Equal(w Value) bool {
	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case KindColumn:
		if len(v.Items) != len(w.Items) {
			return false
		}

		for i := range v.Items {
			if !v.Items[i].Equal(w.Items[i]) {
				return false
			}
		}

		return true
	case KindSheet:
		return v.Sheet == w.Sheet
	}

	return v.Text == w.Text
}
