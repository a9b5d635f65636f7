package lang

import (
	"iter"
	"slices"
)

// Struct is an ordered mapping of unique field names to cells.
//
// Names keep the order in which they were first set, which is the order
// used for display. Setting an existing name replaces its cell in place.
type Struct struct {
	names []string
	cells map[string]*Cell
}

// NewStruct returns an empty structure.
func NewStruct() *Struct {
	return &Struct{cells: make(map[string]*Cell)}
}

// Set binds name to c.
func (s *Struct) Set(name string, c *Cell) {
	if _, ok := s.cells[name]; !ok {
		s.names = append(s.names, name)
	}

	s.cells[name] = c
}

// Get returns the cell bound to name.
func (s *Struct) Get(name string) (*Cell, bool) {
	if s == nil {
		return nil, false
	}

	c, ok := s.cells[name]

	return c, ok
}

// Len returns the number of fields.
func (s *Struct) Len() int {
	if s == nil {
		return 0
	}

	return len(s.names)
}

// Names returns the field names in display order.
func (s *Struct) Names() []string {
	if s == nil {
		return nil
	}

	return slices.Clone(s.names)
}

// All returns an iterator over the fields in display order.
func (s *Struct) All() iter.Seq2[string, *Cell] {
	return func(yield func(string, *Cell) bool) {
		if s == nil {
			return
		}

		for _, name := range s.names {
			if !yield(name, s.cells[name]) {
				return
			}
		}
	}
}

// merge returns a new structure holding the fields of s followed by those
// of each of others, later bindings replacing earlier ones. Cells are
// shared, not copied.
func (s *Struct) merge(others ...*Struct) *Struct {
	out := &Struct{
		names: slices.Clone(s.names),
		cells: make(map[string]*Cell, len(s.cells)),
	}

	for name, c := range s.cells {
		out.cells[name] = c
	}

	for _, o := range others {
		for name, c := range o.All() {
			out.Set(name, c)
		}
	}

	return out
}
