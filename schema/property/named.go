package property

import (
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// NameLength is the maximum length of the NAME element.
const NameLength = 80

// Named gives an identified object a display name.
type Named struct {
	design.PropertyBase
}

var _ design.Property = (*Named)(nil)

// NewNamed returns an unattached NAMED property.
func NewNamed() *Named {
	return &Named{PropertyBase: design.NewPropertyBase(KindNamed, KindUniqueIdentified)}
}

// UniqueIdentified returns the UNIQUEIDENTIFIED property p depends on, or nil
// before it is resolved on the object.
func (p *Named) UniqueIdentified() *UniqueIdentified {
	o := p.Object()
	if o == nil {
		return nil
	}
	u, _ := design.Lookup[*UniqueIdentified](o, KindUniqueIdentified)
	return u
}

// Resolve contributes the NAME element, its index and RENAME, and checks
// the name before every UPDATE.
func (p *Named) Resolve(r *design.Resolution) error {
	o := r.Object()
	name := argument.String("NAME", NameLength)
	element := design.NewElement("NAME", name, design.Display{
		Visibility: design.VisibilityTitle,
		Priority:   -40,
		Width:      NameLength / 2,
	})
	r.AddElement(element)
	r.AddIndex(design.NewIndex("NAME", false, element))

	rename, err := onObject("RENAME", o, design.Mutation())
	if err != nil {
		return err
	}
	if err := rename.AddArgument("NAME", name); err != nil {
		return err
	}
	r.AddMethod(rename)

	if u := p.UniqueIdentified(); u != nil {
		r.InjectHook(u, "UPDATE", design.Before)
	}
	return nil
}

// WriteDependentClass writes the DisplayName accessor of the object. Objects
// without a name are displayed by id.
func (p *Named) WriteDependentClass(w io.Writer) error {
	o := p.Object()
	field, id := design.GoName("NAME"), design.GoName("ID")
	return jen.Comment("DisplayName returns the name the "+o.Name()+" is displayed with.").Line().
		Func().Params(jen.Id("o").Op("*").Id(o.Name())).Id("DisplayName").Params().String().Block(
		jen.If(jen.Id("o").Dot(field).Op("==").Lit("")).Block(
			jen.Return(jen.Qual("fmt", "Sprint").Call(jen.Id("o").Dot(id))),
		),
		jen.Return(jen.Id("o").Dot(field)),
	).Render(w)
}
