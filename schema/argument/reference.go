package argument

import (
	"github.com/dave/jennifer/jen"
)

// Reference is an argument holding a full object.
type Reference struct {
	descriptor
	object Object
}

// Ref returns an argument referencing a full object. An argument built
// with a nil object is unbound, see Bound.
func Ref(name string, object Object, opts ...Option) *Reference {
	return &Reference{descriptor: newDescriptor(name, opts), object: object}
}

// Security implements Content.
func (*Reference) Security() bool { return true }

// Kind implements Content.
func (*Reference) Kind() Kind { return KindReference }

// TypeTag implements Content.
func (a *Reference) TypeTag() Tag { return objectTag(CategoryObject, a.object) }

// ElementBinding implements Content.
func (*Reference) ElementBinding() string { return "ObjectDataElt" }

// PreciseElementBinding implements Content.
func (a *Reference) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: "ObjectDataEltType"}
}

// NeedsDefinitionForInit implements Content.
func (*Reference) NeedsDefinitionForInit() bool { return true }

// BlankLiteral implements Content.
func (*Reference) BlankLiteral() string { return jen.Nil().GoString() }

// ExtraImports implements Content.
func (a *Reference) ExtraImports() []string { return objectImports(a.object) }

// CopyWithRename implements Content.
func (a *Reference) CopyWithRename(name string) (Content, error) {
	return &Reference{descriptor: a.renamed(name), object: a.object}, nil
}

// Owner implements Content.
func (a *Reference) Owner() Object { return a.object }

// ObjectID is an argument holding the technical id of an object.
type ObjectID struct {
	descriptor
	object Object
}

// ID returns an argument holding the id of the given object. An argument
// built with a nil object is unbound, see Bound.
func ID(name string, object Object, opts ...Option) *ObjectID {
	return &ObjectID{descriptor: newDescriptor(name, opts), object: object}
}

// Security implements Content.
func (*ObjectID) Security() bool { return true }

// Kind implements Content.
func (*ObjectID) Kind() Kind { return KindObjectID }

// TypeTag implements Content.
func (a *ObjectID) TypeTag() Tag { return objectTag(CategoryObjectID, a.object) }

// ElementBinding implements Content.
func (*ObjectID) ElementBinding() string { return "ObjectIdDataElt" }

// PreciseElementBinding implements Content.
func (a *ObjectID) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: "ObjectIdDataEltType"}
}

// NeedsDefinitionForInit implements Content.
func (*ObjectID) NeedsDefinitionForInit() bool { return true }

// BlankLiteral implements Content. Unbound ids have no type parameter.
func (a *ObjectID) BlankLiteral() string {
	if a.object == nil {
		return jen.Id("ID").Values().GoString()
	}
	return jen.Id("ID").Types(jen.Id(a.object.Name())).Values().GoString()
}

// ExtraImports implements Content.
func (a *ObjectID) ExtraImports() []string { return objectImports(a.object) }

// CopyWithRename implements Content.
func (a *ObjectID) CopyWithRename(name string) (Content, error) {
	return &ObjectID{descriptor: a.renamed(name), object: a.object}, nil
}

// Owner implements Content.
func (a *ObjectID) Owner() Object { return a.object }

// Array is an ordered collection of another argument. It carries the name of
// its element.
type Array struct {
	descriptor
	elem Content
}

// ArrayOf returns an array of the given element.
func ArrayOf(elem Content, opts ...Option) *Array {
	d := descriptor{name: elem.Name(), label: elem.Label()}
	for _, opt := range opts {
		opt(&d)
	}
	return &Array{descriptor: d, elem: elem}
}

// Elem returns the element argument.
func (a *Array) Elem() Content { return a.elem }

// Security implements Content.
func (a *Array) Security() bool { return a.elem.Security() }

// Kind implements Content.
func (*Array) Kind() Kind { return KindArray }

// TypeTag implements Content.
func (a *Array) TypeTag() Tag {
	elem := a.elem.TypeTag()
	return Tag{Category: CategoryArray, Name: elem.Name, Path: elem.Path, Elem: &elem}
}

// ElementBinding implements Content.
func (*Array) ElementBinding() string { return "ArrayDataElt" }

// PreciseElementBinding implements Content.
func (a *Array) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: a.elem.PreciseElementBinding().Type}
}

// NeedsDefinitionForInit implements Content.
func (a *Array) NeedsDefinitionForInit() bool { return a.elem.NeedsDefinitionForInit() }

// BlankLiteral implements Content.
func (*Array) BlankLiteral() string { return jen.Nil().GoString() }

// ExtraImports implements Content.
func (a *Array) ExtraImports() []string { return a.elem.ExtraImports() }

// CopyWithRename copies the element under the new name. Copy failures of
// the element are returned unchanged.
func (a *Array) CopyWithRename(name string) (Content, error) {
	elem, err := a.elem.CopyWithRename(name)
	if err != nil {
		return nil, err
	}
	d := a.renamed(name)
	if a.label == a.elem.Label() {
		d.label = elem.Label()
	}
	return &Array{descriptor: d, elem: elem}, nil
}

// Owner implements Content.
func (a *Array) Owner() Object { return a.elem.Owner() }

// Bound reports whether every object c refers to is set. Text and integer
// arguments are always bound.
func Bound(c Content) bool {
	return Match[bool](c, bound{})
}

type bound struct{}

func (bound) Text(*Text) bool             { return true }
func (bound) Integer(*Integer) bool       { return true }
func (bound) Reference(a *Reference) bool { return a.object != nil }
func (bound) ObjectID(a *ObjectID) bool   { return a.object != nil }
func (b bound) Array(a *Array) bool       { return Match[bool](a.elem, b) }
func (bound) FaultyText(*FaultyText) bool { return true }

func objectTag(c Category, o Object) Tag {
	if o == nil {
		return Tag{Category: c}
	}
	return Tag{Category: c, Name: o.Name(), Path: o.ImportPath()}
}

func objectImports(o Object) []string {
	if o == nil || o.ImportPath() == "" {
		return nil
	}
	return []string{o.ImportPath()}
}
