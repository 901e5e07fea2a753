package argument

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/lowcode"
)

// Text is a string argument with a maximum length.
type Text struct {
	descriptor
	maxLen int
}

// String returns a text argument. Text arguments cannot be security arguments.
func String(name string, maxLen int, opts ...Option) *Text {
	return &Text{descriptor: newDescriptor(name, opts), maxLen: maxLen}
}

// MaxLength returns the maximum length of the text.
func (a *Text) MaxLength() int { return a.maxLen }

// Security implements Content.
func (*Text) Security() bool { return false }

// Kind implements Content.
func (*Text) Kind() Kind { return KindText }

// TypeTag implements Content.
func (*Text) TypeTag() Tag { return Tag{Category: CategoryScalar, Name: "string"} }

// ElementBinding implements Content.
func (*Text) ElementBinding() string { return "TextDataElt" }

// PreciseElementBinding implements Content.
func (a *Text) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: "TextDataEltType"}
}

// NeedsDefinitionForInit implements Content.
func (*Text) NeedsDefinitionForInit() bool { return false }

// BlankLiteral implements Content.
func (*Text) BlankLiteral() string { return jen.Lit("").GoString() }

// ExtraImports implements Content.
func (*Text) ExtraImports() []string { return nil }

// CopyWithRename implements Content.
func (a *Text) CopyWithRename(name string) (Content, error) {
	return &Text{descriptor: a.renamed(name), maxLen: a.maxLen}, nil
}

// Owner implements Content.
func (*Text) Owner() Object { return nil }

// Integer is a 64-bit integer argument.
type Integer struct {
	descriptor
}

// Int returns an integer argument.
func Int(name string, opts ...Option) *Integer {
	return &Integer{descriptor: newDescriptor(name, opts)}
}

// Security implements Content.
func (*Integer) Security() bool { return false }

// Kind implements Content.
func (*Integer) Kind() Kind { return KindInteger }

// TypeTag implements Content.
func (*Integer) TypeTag() Tag { return Tag{Category: CategoryScalar, Name: "int64"} }

// ElementBinding implements Content.
func (*Integer) ElementBinding() string { return "IntegerDataElt" }

// PreciseElementBinding implements Content.
func (a *Integer) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: "IntegerDataEltType"}
}

// NeedsDefinitionForInit implements Content.
func (*Integer) NeedsDefinitionForInit() bool { return false }

// BlankLiteral implements Content.
func (*Integer) BlankLiteral() string { return jen.Lit(0).GoString() }

// ExtraImports implements Content.
func (*Integer) ExtraImports() []string { return nil }

// CopyWithRename implements Content.
func (a *Integer) CopyWithRename(name string) (Content, error) {
	return &Integer{descriptor: a.renamed(name)}, nil
}

// Owner implements Content.
func (*Integer) Owner() Object { return nil }

// FaultyText is a text argument that generates failing code on purpose. It is
// used to exercise error handling of the generated server, and it refuses to
// be copied.
type FaultyText struct {
	descriptor
	maxLen int
}

// FaultyString returns a faulty text argument.
func FaultyString(name string, maxLen int, opts ...Option) *FaultyText {
	return &FaultyText{descriptor: newDescriptor(name, opts), maxLen: maxLen}
}

// MaxLength returns the maximum length of the text.
func (a *FaultyText) MaxLength() int { return a.maxLen }

// Security implements Content.
func (*FaultyText) Security() bool { return false }

// Kind implements Content.
func (*FaultyText) Kind() Kind { return KindFaultyText }

// TypeTag implements Content.
func (*FaultyText) TypeTag() Tag { return Tag{Category: CategoryScalar, Name: "string"} }

// ElementBinding implements Content.
func (*FaultyText) ElementBinding() string { return "FaultyTextDataElt" }

// PreciseElementBinding implements Content. The precise element is the
// generic one.
func (a *FaultyText) PreciseElementBinding() Binding {
	return Binding{Element: a.ElementBinding(), Type: "FaultyTextDataEltType"}
}

// NeedsDefinitionForInit implements Content.
func (*FaultyText) NeedsDefinitionForInit() bool { return false }

// BlankLiteral implements Content.
func (*FaultyText) BlankLiteral() string { return jen.Lit("").GoString() }

// ExtraImports implements Content.
func (*FaultyText) ExtraImports() []string { return nil }

// CopyWithRename always fails: faulty arguments declare copying unsupported.
func (a *FaultyText) CopyWithRename(string) (Content, error) {
	return nil, &lowcode.UnsupportedOperationError{
		Variant:  a.Kind().String(),
		Argument: a.name,
		Op:       "copy-with-rename",
	}
}

// Owner implements Content.
func (*FaultyText) Owner() Object { return nil }
