package lang

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Native is a function implemented in Go and reachable through @sys.
//
// Natives receive their arguments unevaluated and must report failures as
// error values. A native that panics produces an error value.
type Native func(ctx context.Context, call *Call) Value

// Registry maps dotted identifiers such as "text.reverse" to natives and
// constant values. Each identifier becomes a path below @sys.
type Registry struct {
	mu      sync.RWMutex
	natives map[string]Native
	values  map[string]Value
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		natives: make(map[string]Native),
		values:  make(map[string]Value),
	}
}

// Register binds id to fn, replacing any previous binding.
func (r *Registry) Register(id string, fn Native) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, id)
	r.natives[id] = fn

	return r
}

// RegisterValue binds id to a constant value.
func (r *Registry) RegisterValue(id string, v Value) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.natives, id)
	r.values[id] = v

	return r
}

// Lookup returns the native bound to id.
func (r *Registry) Lookup(id string) (Native, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.natives[id]

	return fn, ok
}

// IDs returns every registered identifier in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := slices.Collect(maps.Keys(r.natives))
	ids = slices.AppendSeq(ids, maps.Keys(r.values))
	slices.Sort(ids)

	return ids
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return &Registry{
		natives: maps.Clone(r.natives),
		values:  maps.Clone(r.values),
	}
}

// structure builds the @sys tree. Every identifier segment except the last
// names a nested structure; the last holds a function or constant value.
// An identifier that is also a prefix of another loses to the structure.
func (r *Registry) structure() *Struct {
	root := NewStruct()

	for _, id := range r.IDs() {
		parts := strings.Split(id, ".")
		st := root

		for _, name := range parts[:len(parts)-1] {
			st = childStruct(st, name)
		}

		leaf := parts[len(parts)-1]
		if c, ok := st.Get(leaf); ok && isStructCell(c) {
			continue
		}

		r.mu.RLock()
		v, isValue := r.values[id]
		r.mu.RUnlock()

		if !isValue {
			v = FunctionValue(id)
		}

		st.Set(leaf, ValueCell(v))
	}

	return root
}

func childStruct(parent *Struct, name string) *Struct {
	if c, ok := parent.Get(name); ok && isStructCell(c) {
		return c.value.Sheet
	}

	child := NewStruct()
	parent.Set(name, ValueCell(SheetValue(child)))

	return child
}

func isStructCell(c *Cell) bool {
	v, ok := c.Peek()

	return ok && v.Kind == KindSheet
}

// builtins is the shared registry of standard natives. It is never modified
// after construction.
var builtins = sync.OnceValue(func() *Registry {
	r := NewRegistry()

	registerText(r)
	registerColumn(r)
	registerExpr(r)
	registerPath(r)
	registerEnv(r)

	return r
})

// DefaultRegistry returns a copy of the standard natives, suitable for
// extending with [Registry.Register] and passing to [WithRegistry].
func DefaultRegistry() *Registry { return builtins().Clone() }
