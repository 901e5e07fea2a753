package design

import (
	"github.com/syssam/lowcode"
)

// Named is implemented by everything stored in a Registry.
type Named interface {
	Name() string
}

// Registry is an insertion-ordered collection keyed by name. Order matters:
// it drives the order of generated output.
type Registry[T Named] struct {
	scope string
	kind  string
	items []T
	index map[string]int
}

// NewRegistry returns an empty registry. Scope and kind only feed error
// messages, e.g. scope "crm/Customer" and kind "method".
func NewRegistry[T Named](scope, kind string) *Registry[T] {
	return &Registry[T]{
		scope: scope,
		kind:  kind,
		index: make(map[string]int),
	}
}

// Check reports a *lowcode.DuplicateNameError if name is taken. It never
// mutates the registry.
func (r *Registry[T]) Check(name string) error {
	if _, ok := r.index[name]; ok {
		return &lowcode.DuplicateNameError{Scope: r.scope, Kind: r.kind, Name: name}
	}
	return nil
}

// Insert appends v, or fails with a *lowcode.DuplicateNameError and leaves
// the registry unchanged.
func (r *Registry[T]) Insert(v T) error {
	if err := r.Check(v.Name()); err != nil {
		return err
	}
	r.add(v)
	return nil
}

// add appends v without checking. Callers run Check first.
func (r *Registry[T]) add(v T) {
	r.index[v.Name()] = len(r.items)
	r.items = append(r.items, v)
}

// Lookup returns the value registered under name.
func (r *Registry[T]) Lookup(name string) (T, bool) {
	i, ok := r.index[name]
	if !ok {
		var zero T
		return zero, false
	}
	return r.items[i], true
}

// All returns the values in insertion order. The returned slice is a copy.
func (r *Registry[T]) All() []T {
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Names returns the registered names in insertion order.
func (r *Registry[T]) Names() []string {
	names := make([]string, len(r.items))
	for i, v := range r.items {
		names[i] = v.Name()
	}
	return names
}

// Len returns the number of registered values.
func (r *Registry[T]) Len() int { return len(r.items) }
