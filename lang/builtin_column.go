package lang

import (
	"context"
	"strconv"
)

func registerColumn(r *Registry) {
	r.Register("column.count", columnCount)
	r.Register("column.at", columnAt)
}

func columnCount(_ context.Context, call *Call) Value {
	items, fail, ok := call.ColumnArg("items")
	if !ok {
		return fail
	}

	return TextValue(strconv.Itoa(len(items)))
}

// columnAt returns the element at a zero-based decimal index.
func columnAt(_ context.Context, call *Call) Value {
	items, fail, ok := call.ColumnArg("items")
	if !ok {
		return fail
	}

	index, fail, ok := call.TextArg("index")
	if !ok {
		return fail
	}

	i, err := strconv.Atoi(index)
	if err != nil {
		return call.Fail("expects decimal argument 'index'")
	}

	if i < 0 || i >= len(items) {
		return call.Fail("index out of range")
	}

	return items[i]
}
