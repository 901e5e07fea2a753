package design

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/schema/argument"
)

// Object is a business object composed from properties. It owns the
// registries the properties populate while they resolve.
type Object struct {
	name   string
	module *Module
	site   Site
	sealed bool

	properties *Registry[Property]
	elements   *Registry[*StoredElement]
	indexes    *Registry[*Index]
	methods    *Registry[*DataAccessMethod]
	bands      [bandCount]*Registry[*Action]
}

var _ argument.Object = (*Object)(nil)

func newObject(m *Module, name string, site Site) *Object {
	o := &Object{name: name, module: m, site: site}
	scope := o.QualifiedName()
	o.properties = NewRegistry[Property](scope, "property")
	o.elements = NewRegistry[*StoredElement](scope, "element")
	o.indexes = NewRegistry[*Index](scope, "index")
	o.methods = NewRegistry[*DataAccessMethod](scope, "method")
	for b := range o.bands {
		o.bands[b] = NewRegistry[*Action](scope+"/"+Band(b).String(), "action")
	}
	return o
}

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// Module returns the owning module.
func (o *Object) Module() *Module { return o.module }

// ModuleName returns the name of the owning module.
func (o *Object) ModuleName() string { return o.module.name }

// QualifiedName returns the object name qualified by its module, e.g. "crm/Customer".
func (o *Object) QualifiedName() string { return o.module.name + "/" + o.name }

// ImportPath returns the import path of the package generated for the object.
func (o *Object) ImportPath() string { return o.module.path }

// Site returns where the object was declared.
func (o *Object) Site() Site { return o.site }

// Sealed reports whether the object is finalized.
func (o *Object) Sealed() bool { return o.sealed }

// String implements fmt.Stringer.
func (o *Object) String() string {
	if o.site == "" {
		return o.QualifiedName()
	}
	return o.QualifiedName() + "@" + string(o.site)
}

// Attach appends p to the properties of the object. Attachment order is the
// resolution order.
func (o *Object) Attach(p Property) error {
	if p == nil {
		return fmt.Errorf("design: object %s: attach nil property", o.QualifiedName())
	}
	b := p.Base()
	if o.sealed {
		return &lowcode.LifecycleError{Object: o.QualifiedName(), Property: p.Name(), Op: "attach", State: StateFinalized.String()}
	}
	if b.state != StateUnattached {
		return &lowcode.LifecycleError{Object: o.QualifiedName(), Property: p.Name(), Op: "attach", State: b.state.String()}
	}
	if err := ValidName(p.Name()); err != nil {
		return fmt.Errorf("design: object %s: %w", o.QualifiedName(), err)
	}
	if err := o.properties.Insert(p); err != nil {
		return err
	}
	b.object = o
	b.state = StateAttached
	o.module.logger.Debug("property attached", "object", o.QualifiedName(), "property", p.Name(), "site", b.site)
	return nil
}

// Resolve resolves the attached property called name.
func (o *Object) Resolve(name string) error {
	p, ok := o.properties.Lookup(name)
	if !ok {
		return &lowcode.MissingDependencyError{Object: o.QualifiedName(), Dependency: name}
	}
	return o.resolve(p)
}

// ResolveAll resolves every property still attached, in attachment order,
// and stops at the first failure. Properties already resolved are skipped.
func (o *Object) ResolveAll() error {
	for _, p := range o.properties.All() {
		if p.Base().state != StateAttached {
			continue
		}
		if err := o.resolve(p); err != nil {
			return err
		}
	}
	return nil
}

func (o *Object) resolve(p Property) error {
	b := p.Base()
	if o.sealed || b.state != StateAttached {
		return &lowcode.LifecycleError{Object: o.QualifiedName(), Property: p.Name(), Op: "resolve", State: b.state.String()}
	}
	for _, req := range p.Requires() {
		dep, ok := o.properties.Lookup(req)
		if !ok || dep.Base().state < StateResolved {
			return &lowcode.MissingDependencyError{
				Object:     o.QualifiedName(),
				Property:   p.Name(),
				Dependency: req,
				Site:       string(b.site),
			}
		}
	}
	r := newResolution(o, p)
	if err := p.Resolve(r); err != nil {
		return err
	}
	if err := r.check(); err != nil {
		return err
	}
	r.commit()
	b.state = StateResolved
	o.module.logger.Debug("property resolved",
		"object", o.QualifiedName(),
		"property", p.Name(),
		"elements", len(r.elements),
		"indexes", len(r.indexes),
		"methods", len(r.methods),
		"hooks", len(r.hooks),
	)
	return nil
}

// FinalizeSettings runs Finalize on every property in attachment order and
// seals the object. Every property must be resolved.
func (o *Object) FinalizeSettings() error {
	if o.sealed {
		return &lowcode.LifecycleError{Object: o.QualifiedName(), Op: "finalize", State: StateFinalized.String()}
	}
	props := o.properties.All()
	for _, p := range props {
		if s := p.Base().state; s != StateResolved {
			return &lowcode.LifecycleError{Object: o.QualifiedName(), Property: p.Name(), Op: "finalize", State: s.String()}
		}
	}
	for _, p := range props {
		if err := p.Finalize(); err != nil {
			return fmt.Errorf("design: finalize %s on %s: %w", p.Name(), o.QualifiedName(), err)
		}
		p.Base().state = StateFinalized
	}
	o.sealed = true
	o.module.logger.Debug("object finalized", "object", o.QualifiedName(), "properties", len(props))
	return nil
}

// Properties returns the attached properties in attachment order.
func (o *Object) Properties() []Property { return o.properties.All() }

// Property returns the attached property called name, whatever its state.
func (o *Object) Property(name string) (Property, bool) { return o.properties.Lookup(name) }

// ResolvedProperty returns the property called name if it is resolved.
func (o *Object) ResolvedProperty(name string) (Property, bool) {
	p, ok := o.properties.Lookup(name)
	if !ok || p.Base().state < StateResolved {
		return nil, false
	}
	return p, true
}

// Elements returns the stored elements in contribution order.
func (o *Object) Elements() []*StoredElement { return o.elements.All() }

// Element returns the stored element called name.
func (o *Object) Element(name string) (*StoredElement, bool) { return o.elements.Lookup(name) }

// Indexes returns the indexes in contribution order.
func (o *Object) Indexes() []*Index { return o.indexes.All() }

// Methods returns the data access methods in contribution order.
func (o *Object) Methods() []*DataAccessMethod { return o.methods.All() }

// Method returns the data access method called name.
func (o *Object) Method(name string) (*DataAccessMethod, bool) { return o.methods.Lookup(name) }

// Actions returns the object-id actions of band in attachment order.
func (o *Object) Actions(band Band) []*Action {
	if !band.valid() {
		return nil
	}
	return o.bands[band].All()
}

// References returns the other objects referenced by the method signatures
// and the stored elements of o, in first-reference order.
func (o *Object) References() []argument.Object {
	var (
		refs []argument.Object
		seen = map[string]bool{o.QualifiedName(): true}
	)
	add := func(c argument.Content) {
		if c == nil {
			return
		}
		owner := c.Owner()
		if owner == nil || seen[owner.QualifiedName()] {
			return
		}
		seen[owner.QualifiedName()] = true
		refs = append(refs, owner)
	}
	for _, e := range o.elements.All() {
		add(e.content)
	}
	for _, m := range o.methods.All() {
		add(m.returns)
		for _, a := range m.args.All() {
			add(a.content)
		}
	}
	return refs
}

// Emit hands every property of a finalized object to sink, in attachment
// order: first its imports, then its dependent class body if it writes one.
func (o *Object) Emit(sink Sink) error {
	if !o.sealed {
		return &lowcode.LifecycleError{Object: o.QualifiedName(), Op: "emit", State: "unsealed"}
	}
	for _, p := range o.properties.All() {
		if err := sink.Imports(o, p, propertyImports(p)); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := p.WriteDependentClass(&buf); err != nil {
			return fmt.Errorf("design: write dependent class of %s on %s: %w", p.Name(), o.QualifiedName(), err)
		}
		if buf.Len() == 0 {
			continue
		}
		if err := sink.DependentClass(o, p, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// propertyImports merges the imports declared by p with those of the
// argument types it contributed, without duplicates.
func propertyImports(p Property) []string {
	var imports []string
	add := func(paths ...string) {
		for _, path := range paths {
			if path != "" && !slices.Contains(imports, path) {
				imports = append(imports, path)
			}
		}
	}
	add(p.ExtraImports()...)
	b := p.Base()
	for _, e := range b.elements {
		add(e.content.ExtraImports()...)
	}
	for _, m := range b.methods {
		if m.returns != nil {
			add(m.returns.ExtraImports()...)
		}
		for _, a := range m.args.All() {
			add(a.content.ExtraImports()...)
		}
	}
	return imports
}
