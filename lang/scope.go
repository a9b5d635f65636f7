package lang

import "slices"

// scope is the stack of structures enclosing an expression, innermost last.
// It is never modified in place; push returns a new path.
type scope []*Struct

func (s scope) push(st *Struct) scope {
	return append(slices.Clip(s), st)
}

// my returns the innermost enclosing structure.
func (s scope) my() (*Struct, bool) {
	if len(s) == 0 {
		return nil, false
	}

	return s[len(s)-1], true
}

// up returns the structure enclosing the innermost one.
func (s scope) up() (*Struct, bool) {
	if len(s) < 2 {
		return nil, false
	}

	return s[len(s)-2], true
}
