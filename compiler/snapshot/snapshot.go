// Package snapshot records the finalized design of a module as plain data.
//
// A snapshot is what a runtime or a later build needs to know about a module
// without loading its model files: objects, the properties composing them in
// resolution order, stored elements, indexes, data access methods with their
// hooks, and actions per band. Snapshots are encoded with msgpack.
package snapshot

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// Snapshot is the design of one module.
type Snapshot struct {
	BuildID string   `msgpack:"build_id"`
	Module  string   `msgpack:"module"`
	Path    string   `msgpack:"path"`
	Objects []Object `msgpack:"objects"`
}

// Object is a finalized object.
type Object struct {
	Name       string     `msgpack:"name"`
	Site       string     `msgpack:"site,omitempty"`
	Properties []Property `msgpack:"properties"`
	Elements   []Element  `msgpack:"elements,omitempty"`
	Indexes    []Index    `msgpack:"indexes,omitempty"`
	Methods    []Method   `msgpack:"methods,omitempty"`
	Actions    []Action   `msgpack:"actions,omitempty"`
}

// Property is a property attached to an object.
type Property struct {
	Name     string   `msgpack:"name"`
	Requires []string `msgpack:"requires,omitempty"`
	Site     string   `msgpack:"site,omitempty"`
}

// Argument is an argument type.
type Argument struct {
	Name      string `msgpack:"name"`
	Label     string `msgpack:"label"`
	Kind      string `msgpack:"kind"`
	Type      string `msgpack:"type"`
	Object    string `msgpack:"object,omitempty"`
	MaxLength int    `msgpack:"max_length,omitempty"`
	Security  bool   `msgpack:"security,omitempty"`
}

// Element is a stored element with its display metadata.
type Element struct {
	Name       string   `msgpack:"name"`
	Property   string   `msgpack:"property"`
	Type       Argument `msgpack:"type"`
	Label      string   `msgpack:"label"`
	Help       string   `msgpack:"help,omitempty"`
	Visibility string   `msgpack:"visibility"`
	Priority   int      `msgpack:"priority,omitempty"`
	Width      int      `msgpack:"width,omitempty"`
}

// Index is a named group of stored elements.
type Index struct {
	Name     string   `msgpack:"name"`
	Property string   `msgpack:"property"`
	Unique   bool     `msgpack:"unique,omitempty"`
	Elements []string `msgpack:"elements"`
}

// Method is a data access method.
type Method struct {
	Name      string     `msgpack:"name"`
	Property  string     `msgpack:"property"`
	Returns   *Argument  `msgpack:"returns,omitempty"`
	Arguments []Argument `msgpack:"arguments,omitempty"`
	Mutation  bool       `msgpack:"mutation,omitempty"`
	Static    bool       `msgpack:"static,omitempty"`
	Hooks     []Hook     `msgpack:"hooks,omitempty"`
}

// Hook is additional processing injected into a method.
type Hook struct {
	Timing     string `msgpack:"timing"`
	InjectedBy string `msgpack:"injected_by"`
	Site       string `msgpack:"site,omitempty"`
}

// Action is an action attached on the object id.
type Action struct {
	Name   string     `msgpack:"name"`
	Band   string     `msgpack:"band"`
	Site   string     `msgpack:"site,omitempty"`
	Inputs []Argument `msgpack:"inputs"`
}

// Take copies the design of m. Every object of m must be finalized.
func Take(m *design.Module) (*Snapshot, error) {
	s := &Snapshot{
		BuildID: uuid.NewString(),
		Module:  m.Name(),
		Path:    m.Path(),
	}
	for _, o := range m.Objects() {
		if !o.Sealed() {
			return nil, &lowcode.LifecycleError{Object: o.QualifiedName(), Op: "snapshot", State: "unsealed"}
		}
		s.Objects = append(s.Objects, object(o))
	}
	return s, nil
}

// Object returns the object with the given name.
func (s *Snapshot) Object(name string) (Object, bool) {
	for _, o := range s.Objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}

// Encode returns the msgpack encoding of s.
func (s *Snapshot) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot: encode module %s: %w", s.Module, err)
	}
	return b, nil
}

// Decode decodes a snapshot encoded by Encode.
func Decode(b []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := msgpack.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if _, err := uuid.Parse(s.BuildID); err != nil {
		return nil, fmt.Errorf("snapshot: decode: invalid build id %q: %w", s.BuildID, err)
	}
	return s, nil
}

func object(o *design.Object) Object {
	v := Object{Name: o.Name(), Site: o.Site().String()}
	for _, p := range o.Properties() {
		v.Properties = append(v.Properties, Property{
			Name:     p.Name(),
			Requires: p.Requires(),
			Site:     p.Base().Site().String(),
		})
	}
	for _, e := range o.Elements() {
		d := e.Display()
		v.Elements = append(v.Elements, Element{
			Name:       e.Name(),
			Property:   e.Owner().Name(),
			Type:       arg(e.Content()),
			Label:      d.Label,
			Help:       d.Help,
			Visibility: d.Visibility.String(),
			Priority:   d.Priority,
			Width:      d.Width,
		})
	}
	for _, i := range o.Indexes() {
		idx := Index{Name: i.Name(), Property: i.Owner().Name(), Unique: i.Unique()}
		for _, e := range i.Elements() {
			idx.Elements = append(idx.Elements, e.Name())
		}
		v.Indexes = append(v.Indexes, idx)
	}
	for _, m := range o.Methods() {
		method := Method{
			Name:     m.Name(),
			Property: m.Owner().Name(),
			Mutation: m.IsMutation(),
			Static:   m.IsStatic(),
		}
		if r := m.Returns(); r != nil {
			a := arg(r)
			method.Returns = &a
		}
		for _, a := range m.Arguments() {
			sa := arg(a.Content())
			sa.Name = a.Name()
			method.Arguments = append(method.Arguments, sa)
		}
		for _, h := range m.Hooks() {
			method.Hooks = append(method.Hooks, Hook{
				Timing:     h.Timing.String(),
				InjectedBy: h.InjectedBy.Name(),
				Site:       h.Site.String(),
			})
		}
		v.Methods = append(v.Methods, method)
	}
	for _, band := range []design.Band{design.BandPrimary, design.BandManage} {
		for _, a := range o.Actions(band) {
			action := Action{Name: a.Name(), Band: band.String(), Site: a.Site().String()}
			for _, in := range a.Inputs() {
				action.Inputs = append(action.Inputs, arg(in))
			}
			v.Actions = append(v.Actions, action)
		}
	}
	return v
}

func arg(c argument.Content) Argument {
	a := Argument{
		Name:      c.Name(),
		Label:     c.Label(),
		Kind:      c.Kind().String(),
		Type:      c.TypeTag().String(),
		MaxLength: argument.Match[int](c, maxLength{}),
		Security:  c.Security(),
	}
	if o := c.Owner(); o != nil {
		a.Object = o.QualifiedName()
	}
	return a
}

// maxLength returns the maximum length of text arguments, and of the
// elements of text arrays.
type maxLength struct{}

func (maxLength) Text(a *argument.Text) int             { return a.MaxLength() }
func (maxLength) Integer(*argument.Integer) int         { return 0 }
func (maxLength) Reference(*argument.Reference) int     { return 0 }
func (maxLength) ObjectID(*argument.ObjectID) int       { return 0 }
func (m maxLength) Array(a *argument.Array) int         { return argument.Match[int](a.Elem(), m) }
func (maxLength) FaultyText(a *argument.FaultyText) int { return a.MaxLength() }
