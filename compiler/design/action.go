package design

import (
	"fmt"
	"slices"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/schema/argument"
)

// Band selects one of the two ordered action lists of an object.
type Band uint8

// Action bands.
const (
	BandPrimary Band = iota
	BandManage

	bandCount
)

// String returns the band name.
func (b Band) String() string {
	switch b {
	case BandPrimary:
		return "primary"
	case BandManage:
		return "manage"
	default:
		return "invalid"
	}
}

func (b Band) valid() bool { return b < bandCount }

// Action is an author-defined operation exposed on an object.
type Action struct {
	name   string
	site   Site
	inputs []argument.Content
}

// NewAction returns an action with the given inputs.
func NewAction(name string, site Site, inputs ...argument.Content) *Action {
	return &Action{name: name, site: site, inputs: slices.Clone(inputs)}
}

// Name returns the action name.
func (a *Action) Name() string { return a.name }

// Site returns where the action was declared.
func (a *Action) Site() Site { return a.site }

// Inputs returns the input arguments in order.
func (a *Action) Inputs() []argument.Content { return slices.Clone(a.inputs) }

// AttachActionOnID attaches a to the band of the object owning p. The action
// must take exactly one input: an object-id of that same object. A rejected
// action leaves both bands unchanged.
func AttachActionOnID(p Property, a *Action, band Band) error {
	b := p.Base()
	o := b.object
	if o == nil {
		return &lowcode.LifecycleError{Property: p.Name(), Op: "attach action to", State: b.state.String()}
	}
	scope := o.QualifiedName()
	if o.sealed {
		return &lowcode.LifecycleError{Object: scope, Property: p.Name(), Op: "attach action to", State: b.state.String()}
	}
	if a == nil {
		return &lowcode.ArgumentShapeError{Object: scope, Property: p.Name(), Message: "nil action"}
	}
	shape := func(format string, args ...any) error {
		return &lowcode.ArgumentShapeError{
			Object:   scope,
			Property: p.Name(),
			Method:   a.name,
			Message:  fmt.Sprintf(format, args...),
			Site:     string(a.site),
		}
	}
	if !band.valid() {
		return shape("unknown action band %d", band)
	}
	if n := len(a.inputs); n != 1 {
		return shape("expected 1 input argument, got %d", n)
	}
	in := a.inputs[0]
	if in == nil {
		return shape("input argument has no type")
	}
	id := argument.Match[*argument.ObjectID](in, objectIDOnly{})
	if id == nil {
		return shape("expected an object-id argument, got %s argument %s", in.Kind(), in.Name())
	}
	if owner := id.Owner(); owner != argument.Object(o) {
		return shape("object mismatch: argument references %s, action is attached to %s", qualifiedName(owner), scope)
	}
	if err := o.bands[band].Insert(a); err != nil {
		return err
	}
	o.module.logger.Debug("action attached", "object", scope, "action", a.name, "band", band, "site", a.site)
	return nil
}

func qualifiedName(o argument.Object) string {
	if o == nil {
		return "<nil>"
	}
	return o.QualifiedName()
}

// objectIDOnly keeps object-id arguments and maps every other variant to nil.
type objectIDOnly struct{}

func (objectIDOnly) Text(*argument.Text) *argument.ObjectID             { return nil }
func (objectIDOnly) Integer(*argument.Integer) *argument.ObjectID       { return nil }
func (objectIDOnly) Reference(*argument.Reference) *argument.ObjectID   { return nil }
func (objectIDOnly) ObjectID(v *argument.ObjectID) *argument.ObjectID   { return v }
func (objectIDOnly) Array(*argument.Array) *argument.ObjectID           { return nil }
func (objectIDOnly) FaultyText(*argument.FaultyText) *argument.ObjectID { return nil }
