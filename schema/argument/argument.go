package argument

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies the variant of an argument. The set is closed: every value
// below has exactly one implementation of Content in this package.
type Kind uint8

// Argument kinds.
const (
	KindInvalid Kind = iota
	KindText
	KindInteger
	KindReference
	KindObjectID
	KindArray
	KindFaultyText
)

var kindNames = [...]string{
	KindInvalid:    "invalid",
	KindText:       "text",
	KindInteger:    "integer",
	KindReference:  "reference",
	KindObjectID:   "object-id",
	KindArray:      "array",
	KindFaultyText: "faulty-text",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// Category is the scalar/class category a value maps to.
type Category uint8

// Type categories.
const (
	CategoryScalar Category = iota + 1
	CategoryObject
	CategoryObjectID
	CategoryArray
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryScalar:
		return "scalar"
	case CategoryObject:
		return "object"
	case CategoryObjectID:
		return "object-id"
	case CategoryArray:
		return "array"
	default:
		return "invalid"
	}
}

// Tag describes the type a value maps to in generated code.
type Tag struct {
	Category Category
	// Name is the scalar Go type, or the referenced object name.
	Name string
	// Path is the import path of the referenced object's package.
	Path string
	// Elem is the element tag of arrays.
	Elem *Tag
}

// String returns the Go spelling of the tag, without package qualifiers.
func (t Tag) String() string {
	switch t.Category {
	case CategoryObject:
		return "*" + t.Name
	case CategoryObjectID:
		return "ID[" + t.Name + "]"
	case CategoryArray:
		if t.Elem == nil {
			return "[]"
		}
		return "[]" + t.Elem.String()
	default:
		return t.Name
	}
}

// Binding names the data element kind backing a persisted argument.
type Binding struct {
	Element string // e.g. TextDataElt
	Type    string // e.g. TextDataEltType
}

// Object is the view of a design object that reference-like arguments hold.
// It is implemented by *design.Object.
type Object interface {
	Name() string
	ModuleName() string
	QualifiedName() string
	ImportPath() string
}

// Content describes one value slot of a method signature or stored element.
// Contents are immutable; CopyWithRename is the only way to derive one.
type Content interface {
	// Name of the argument.
	Name() string
	// Label is the plain-language label of the argument.
	Label() string
	// Security reports whether the argument may be used as a security argument.
	Security() bool
	// Kind returns the variant.
	Kind() Kind
	// TypeTag returns the type the value maps to.
	TypeTag() Tag
	// ElementBinding returns the generic data element backing the argument.
	ElementBinding() string
	// PreciseElementBinding returns the exact data element and its type.
	PreciseElementBinding() Binding
	// NeedsDefinitionForInit reports whether the argument needs model context
	// (its object definition) before it can be default-initialized.
	NeedsDefinitionForInit() bool
	// BlankLiteral returns the Go expression of a blank value.
	BlankLiteral() string
	// ExtraImports returns the import paths generated code needs for the argument.
	ExtraImports() []string
	// CopyWithRename returns the same argument under a new name, or an
	// *lowcode.UnsupportedOperationError for variants that cannot be copied.
	CopyWithRename(name string) (Content, error)
	// Owner returns the referenced object, or nil for scalar arguments.
	Owner() Object

	content()
}

// Option configures an argument at construction.
type Option func(*descriptor)

// WithLabel sets the plain-language label of the argument.
func WithLabel(label string) Option {
	return func(d *descriptor) {
		d.label = label
	}
}

// descriptor holds the attributes shared by every variant.
type descriptor struct {
	name  string
	label string
}

func newDescriptor(name string, opts []Option) descriptor {
	d := descriptor{name: name}
	for _, opt := range opts {
		opt(&d)
	}
	if d.label == "" {
		d.label = defaultLabel(name)
	}
	return d
}

// Name returns the argument name.
func (d descriptor) Name() string { return d.name }

// Label returns the argument label.
func (d descriptor) Label() string { return d.label }

func (descriptor) content() {}

// renamed returns a copy of the descriptor under a new name. A label derived
// from the old name follows the rename, an explicit label is kept.
func (d descriptor) renamed(name string) descriptor {
	if d.label == defaultLabel(d.name) {
		return descriptor{name: name, label: defaultLabel(name)}
	}
	return descriptor{name: name, label: d.label}
}

// defaultLabel turns a model name such as "READ_SEVERAL" into "Read Several".
func defaultLabel(name string) string {
	words := strings.ToLower(strings.ReplaceAll(name, "_", " "))
	return cases.Title(language.English).String(words)
}
