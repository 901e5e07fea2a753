package design

import (
	"fmt"
	"slices"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/schema/argument"
)

// Resolution stages the contributions of one property while it resolves.
// Staging never touches the object: the object checks the whole staging and
// commits it only if every check passes.
type Resolution struct {
	object   *Object
	property Property

	elements []*StoredElement
	indexes  []*Index
	methods  []*DataAccessMethod
	hooks    []hookRequest
}

type hookRequest struct {
	target Property
	method string
	timing Timing
}

func newResolution(o *Object, p Property) *Resolution {
	return &Resolution{object: o, property: p}
}

// Object returns the object being composed.
func (r *Resolution) Object() *Object { return r.object }

// Property returns the property being resolved.
func (r *Resolution) Property() Property { return r.property }

// AddElement stages a stored element.
func (r *Resolution) AddElement(e *StoredElement) {
	r.elements = append(r.elements, e)
}

// AddIndex stages an index. Its elements must be declared on the object or
// staged by the same property.
func (r *Resolution) AddIndex(i *Index) {
	r.indexes = append(r.indexes, i)
}

// AddMethod stages a data access method.
func (r *Resolution) AddMethod(m *DataAccessMethod) {
	r.methods = append(r.methods, m)
}

// InjectHook stages a hook on the method called method declared by target.
// target must be one of the properties the resolving property requires.
func (r *Resolution) InjectHook(target Property, method string, timing Timing) {
	r.hooks = append(r.hooks, hookRequest{target: target, method: method, timing: timing})
}

// check validates the staging against the object. It never mutates anything.
func (r *Resolution) check() error {
	o, p := r.object, r.property
	scope := o.QualifiedName()
	site := string(p.Base().site)

	elements := NewRegistry[*StoredElement](scope, "element")
	for _, e := range r.elements {
		if e == nil {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: "nil stored element", Site: site}
		}
		if e.content == nil {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: fmt.Sprintf("element %s has no type", e.name), Site: site}
		}
		if !argument.Bound(e.content) {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: fmt.Sprintf("element %s references no object", e.name), Site: site}
		}
		if err := r.unowned(e.owner, "element", e.name); err != nil {
			return err
		}
		if err := o.elements.Check(e.name); err != nil {
			return err
		}
		if err := elements.Insert(e); err != nil {
			return err
		}
	}

	indexes := NewRegistry[*Index](scope, "index")
	for _, idx := range r.indexes {
		if idx == nil {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: "nil index", Site: site}
		}
		if err := r.unowned(idx.owner, "index", idx.name); err != nil {
			return err
		}
		if err := o.indexes.Check(idx.name); err != nil {
			return err
		}
		if err := indexes.Insert(idx); err != nil {
			return err
		}
		if len(idx.elements) == 0 {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: fmt.Sprintf("index %s has no element", idx.name), Site: site}
		}
		for _, e := range idx.elements {
			if !r.declares(elements, e) {
				return &lowcode.MissingDependencyError{Object: scope, Property: p.Name(), Element: elementName(e), Site: site}
			}
		}
	}

	methods := NewRegistry[*DataAccessMethod](scope, "method")
	for _, m := range r.methods {
		if m == nil {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: "nil method", Site: site}
		}
		if err := r.unowned(m.owner, "method", m.name); err != nil {
			return err
		}
		if m.returns != nil && !argument.Bound(m.returns) {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Method: m.name, Message: "result references no object", Site: site}
		}
		if err := o.methods.Check(m.name); err != nil {
			return err
		}
		if err := methods.Insert(m); err != nil {
			return err
		}
	}

	for _, h := range r.hooks {
		if h.timing != Before && h.timing != After {
			return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Method: h.method, Message: "hook timing must be before or after", Site: site}
		}
		if h.target == nil {
			return &lowcode.MissingDependencyError{Object: scope, Property: p.Name(), Method: h.method, Site: site}
		}
		missing := &lowcode.MissingDependencyError{Object: scope, Property: p.Name(), Dependency: h.target.Name(), Method: h.method, Site: site}
		if !slices.Contains(p.Requires(), h.target.Name()) {
			return missing
		}
		m, ok := o.methods.Lookup(h.method)
		if !ok || m.owner != h.target {
			return missing
		}
	}
	return nil
}

// commit applies a checked staging to the object and records provenance.
func (r *Resolution) commit() {
	o, p := r.object, r.property
	b := p.Base()
	for _, e := range r.elements {
		e.owner = p
		o.elements.add(e)
	}
	for _, idx := range r.indexes {
		idx.owner = p
		o.indexes.add(idx)
	}
	for _, m := range r.methods {
		m.owner = p
		o.methods.add(m)
	}
	for _, h := range r.hooks {
		m, _ := o.methods.Lookup(h.method)
		ap := &AdditionalProcessing{Timing: h.timing, Target: m, InjectedBy: p, Site: b.site}
		m.hooks = append(m.hooks, ap)
		b.hooks = append(b.hooks, ap)
	}
	b.elements = append(b.elements, r.elements...)
	b.indexes = append(b.indexes, r.indexes...)
	b.methods = append(b.methods, r.methods...)
}

// unowned rejects a value already committed by some property.
func (r *Resolution) unowned(owner Property, kind, name string) error {
	if owner == nil {
		return nil
	}
	return &lowcode.LifecycleError{
		Object:   r.object.QualifiedName(),
		Property: r.property.Name(),
		Op:       fmt.Sprintf("contribute %s %s already contributed by %s", kind, name, owner.Name()),
		State:    r.property.Base().state.String(),
	}
}

// declares reports whether e is declared on the object or in the staging.
func (r *Resolution) declares(staged *Registry[*StoredElement], e *StoredElement) bool {
	if e == nil {
		return false
	}
	if own, ok := r.object.elements.Lookup(e.name); ok && own == e {
		return true
	}
	if st, ok := staged.Lookup(e.name); ok && st == e {
		return true
	}
	return false
}

func elementName(e *StoredElement) string {
	if e == nil {
		return "<nil>"
	}
	return e.name
}
