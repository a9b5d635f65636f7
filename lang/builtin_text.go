package lang

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

func registerText(r *Registry) {
	r.Register("text.reverse", textReverse)
	r.Register("text.upper", textMap(strings.ToUpper))
	r.Register("text.lower", textMap(strings.ToLower))
	r.Register("text.trim", textMap(strings.TrimSpace))
	r.Register("text.length", textLength)
	r.Register("text.concat", textConcat)
	r.Register("text.join", textJoin)
}

// textReverse reverses argument a by code point.
func textReverse(_ context.Context, call *Call) Value {
	a, fail, ok := call.TextArg("a")
	if !ok {
		return fail
	}

	runes := []rune(a)
	slices.Reverse(runes)

	return TextValue(string(runes))
}

func textMap(fn func(string) string) Native {
	return func(_ context.Context, call *Call) Value {
		a, fail, ok := call.TextArg("a")
		if !ok {
			return fail
		}

		return TextValue(fn(a))
	}
}

func textLength(_ context.Context, call *Call) Value {
	a, fail, ok := call.TextArg("a")
	if !ok {
		return fail
	}

	return TextValue(strconv.Itoa(utf8.RuneCountInString(a)))
}

func textConcat(_ context.Context, call *Call) Value {
	a, fail, ok := call.TextArg("a")
	if !ok {
		return fail
	}

	b, fail, ok := call.TextArg("b")
	if !ok {
		return fail
	}

	return TextValue(a + b)
}

func textJoin(_ context.Context, call *Call) Value {
	items, fail, ok := call.ColumnArg("items")
	if !ok {
		return fail
	}

	sep, fail, ok := call.OptionalTextArg("sep", "")
	if !ok {
		return fail
	}

	texts, fail, ok := call.TextItems(items)
	if !ok {
		return fail
	}

	return TextValue(strings.Join(texts, sep))
}
