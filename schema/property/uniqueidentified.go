package property

import (
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// UniqueIdentified gives a stored object a technical identifier, the unique
// index over it and the methods reading and writing an object by id.
type UniqueIdentified struct {
	design.PropertyBase
}

var _ design.Property = (*UniqueIdentified)(nil)

// NewUniqueIdentified returns an unattached UNIQUEIDENTIFIED property.
func NewUniqueIdentified() *UniqueIdentified {
	return &UniqueIdentified{PropertyBase: design.NewPropertyBase(KindUniqueIdentified, KindStoredObject)}
}

// StoredObject returns the STOREDOBJECT property p depends on, or nil before
// it is resolved on the object.
func (p *UniqueIdentified) StoredObject() *StoredObject {
	o := p.Object()
	if o == nil {
		return nil
	}
	s, _ := design.Lookup[*StoredObject](o, KindStoredObject)
	return s
}

// Resolve contributes the ID element and index, the read and write methods,
// and hooks the allocation of the id after INSERT.
func (p *UniqueIdentified) Resolve(r *design.Resolution) error {
	o := r.Object()
	ref, id := self(o)

	element := design.NewElement("ID", id, design.Display{
		Label:      "Id",
		Help:       "technical identification",
		Visibility: design.VisibilityNormal,
		Priority:   -50,
		Width:      25,
	})
	r.AddElement(element)
	r.AddIndex(design.NewIndex("ID", true, element))

	readOne := design.NewMethod("READONE", ref)
	if err := readOne.AddArgument("ID", id); err != nil {
		return err
	}
	readSeveral := design.NewMethod("READSEVERAL", argument.ArrayOf(ref))
	if err := readSeveral.AddArgument("ID", argument.ArrayOf(id)); err != nil {
		return err
	}
	r.AddMethod(readOne)
	r.AddMethod(readSeveral)
	for _, m := range []struct {
		name string
		opts []design.MethodOption
	}{
		{name: "DELETE", opts: []design.MethodOption{design.Mutation()}},
		{name: "UPDATE", opts: []design.MethodOption{design.Mutation()}},
		{name: "REFRESH"},
	} {
		method, err := onObject(m.name, o, m.opts...)
		if err != nil {
			return err
		}
		r.AddMethod(method)
	}

	if s := p.StoredObject(); s != nil {
		r.InjectHook(s, "INSERT", design.After)
	}
	return nil
}

// AddActionOnObjectID attaches a to the primary action band of the object.
func (p *UniqueIdentified) AddActionOnObjectID(a *design.Action) error {
	return p.AddActionOnObjectIDInBand(a, false)
}

// AddActionOnObjectIDInBand attaches a to the manage band of the object if
// manage is set, to the primary band otherwise. The action must take the id
// of the object as its only input.
func (p *UniqueIdentified) AddActionOnObjectIDInBand(a *design.Action, manage bool) error {
	band := design.BandPrimary
	if manage {
		band = design.BandManage
	}
	return design.AttachActionOnID(p, a, band)
}
