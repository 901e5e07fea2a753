package design

import (
	"io"
	"slices"
)

// State is the lifecycle state of a property instance.
type State uint8

// Property states, in lifecycle order.
const (
	StateUnattached State = iota
	StateAttached
	StateResolved
	StateFinalized
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAttached:
		return "attached"
	case StateResolved:
		return "resolved"
	case StateFinalized:
		return "finalized"
	default:
		return "invalid"
	}
}

// Property is a reusable, named unit of composition. A property instance
// belongs to exactly one object.
//
// Concrete properties embed PropertyBase and implement Resolve:
//
//	type Audited struct {
//	    design.PropertyBase
//	}
//
//	func NewAudited() *Audited {
//	    return &Audited{PropertyBase: design.NewPropertyBase("AUDITED", "STOREDOBJECT")}
//	}
//
//	func (p *Audited) Resolve(r *design.Resolution) error {
//	    r.AddElement(design.NewElement("UPDATED", argument.Int("UPDATED"), design.Display{}))
//	    return nil
//	}
type Property interface {
	// Name of the property, unique on its object.
	Name() string
	// Requires lists the properties that must be resolved on the same object
	// before this one resolves.
	Requires() []string
	// Base returns the shared state of the property.
	Base() *PropertyBase
	// Resolve stages the property contributions. The object commits them
	// only if the whole staging is valid.
	Resolve(r *Resolution) error
	// Finalize runs once every property of the object is resolved.
	Finalize() error
	// ExtraImports lists import paths the generated code of the property needs.
	ExtraImports() []string
	// WriteDependentClass writes the body of the class generated for the
	// property, if any.
	WriteDependentClass(w io.Writer) error
}

// PropertyBase holds the lifecycle state and the contributions of a property.
// It provides no-op defaults for the optional Property methods.
type PropertyBase struct {
	name     string
	requires []string
	site     Site
	object   *Object
	state    State

	elements []*StoredElement
	indexes  []*Index
	methods  []*DataAccessMethod
	hooks    []*AdditionalProcessing
}

// NewPropertyBase returns the base of a property with its name and the
// names of the properties it requires.
func NewPropertyBase(name string, requires ...string) PropertyBase {
	return PropertyBase{name: name, requires: slices.Clone(requires)}
}

// Name returns the property name.
func (b *PropertyBase) Name() string { return b.name }

// Requires returns the names of the required properties.
func (b *PropertyBase) Requires() []string { return slices.Clone(b.requires) }

// Base returns b.
func (b *PropertyBase) Base() *PropertyBase { return b }

// Finalize does nothing.
func (b *PropertyBase) Finalize() error { return nil }

// ExtraImports returns nil.
func (b *PropertyBase) ExtraImports() []string { return nil }

// WriteDependentClass writes nothing.
func (b *PropertyBase) WriteDependentClass(io.Writer) error { return nil }

// SetSite records where the property was declared.
func (b *PropertyBase) SetSite(site Site) { b.site = site }

// Site returns where the property was declared.
func (b *PropertyBase) Site() Site { return b.site }

// Object returns the owning object, or nil before attachment.
func (b *PropertyBase) Object() *Object { return b.object }

// State returns the lifecycle state.
func (b *PropertyBase) State() State { return b.state }

// Elements returns the stored elements the property contributed.
func (b *PropertyBase) Elements() []*StoredElement { return slices.Clone(b.elements) }

// Indexes returns the indexes the property contributed.
func (b *PropertyBase) Indexes() []*Index { return slices.Clone(b.indexes) }

// Methods returns the data access methods the property contributed.
func (b *PropertyBase) Methods() []*DataAccessMethod { return slices.Clone(b.methods) }

// Hooks returns the hooks the property injected into methods of other properties.
func (b *PropertyBase) Hooks() []*AdditionalProcessing { return slices.Clone(b.hooks) }

// Lookup returns the resolved property called name on o with its concrete
// type. It fails if the property is absent, not resolved yet, or of another type.
func Lookup[T Property](o *Object, name string) (T, bool) {
	var zero T
	p, ok := o.ResolvedProperty(name)
	if !ok {
		return zero, false
	}
	t, ok := p.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
