package design

import (
	"slices"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/schema/argument"
)

// MethodArgument is a named input of a data access method.
type MethodArgument struct {
	name    string
	content argument.Content
}

// Name returns the argument name.
func (a *MethodArgument) Name() string { return a.name }

// Content returns the argument type.
func (a *MethodArgument) Content() argument.Content { return a.content }

// Timing tells whether a hook runs before or after its target method.
type Timing uint8

// Hook timings.
const (
	Before Timing = iota + 1
	After
)

// String returns the timing name.
func (t Timing) String() string {
	switch t {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return "invalid"
	}
}

// AdditionalProcessing is a hook a property injected into a method declared
// by another property.
type AdditionalProcessing struct {
	Timing     Timing
	Target     *DataAccessMethod
	InjectedBy Property
	Site       Site
}

// DataAccessMethod is a named operation of an object with a typed signature.
type DataAccessMethod struct {
	name     string
	returns  argument.Content
	args     *Registry[*MethodArgument]
	mutation bool
	static   bool
	owner    Property
	hooks    []*AdditionalProcessing
}

// MethodOption configures a data access method.
type MethodOption func(*DataAccessMethod)

// Mutation flags the method as a structural mutation of the object.
func Mutation() MethodOption {
	return func(m *DataAccessMethod) { m.mutation = true }
}

// Static flags the method as static: it is not called on an object instance.
func Static() MethodOption {
	return func(m *DataAccessMethod) { m.static = true }
}

// NewMethod returns a method with no input. returns is nil for methods
// returning nothing.
func NewMethod(name string, returns argument.Content, opts ...MethodOption) *DataAccessMethod {
	m := &DataAccessMethod{
		name:    name,
		returns: returns,
		args:    NewRegistry[*MethodArgument](name, "argument"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddArgument appends an input argument. Names are unique within the method,
// and the signature is frozen once the method is committed to an object.
func (m *DataAccessMethod) AddArgument(name string, content argument.Content) error {
	if m.owner != nil {
		return &lowcode.LifecycleError{Property: m.owner.Name(), Op: "add argument " + name + " to method " + m.name, State: StateResolved.String()}
	}
	if content == nil {
		return &lowcode.ArgumentShapeError{Method: m.name, Message: "argument " + name + " has no type"}
	}
	if !argument.Bound(content) {
		return &lowcode.ArgumentShapeError{Method: m.name, Message: "argument " + name + " references no object"}
	}
	return m.args.Insert(&MethodArgument{name: name, content: content})
}

// Name returns the method name.
func (m *DataAccessMethod) Name() string { return m.name }

// Returns returns the result type, or nil.
func (m *DataAccessMethod) Returns() argument.Content { return m.returns }

// Arguments returns the input arguments in declaration order.
func (m *DataAccessMethod) Arguments() []*MethodArgument { return m.args.All() }

// Argument returns the input argument with the given name.
func (m *DataAccessMethod) Argument(name string) (*MethodArgument, bool) {
	return m.args.Lookup(name)
}

// IsMutation reports whether the method structurally mutates the object.
func (m *DataAccessMethod) IsMutation() bool { return m.mutation }

// IsStatic reports whether the method is static.
func (m *DataAccessMethod) IsStatic() bool { return m.static }

// Owner returns the property that declared the method, nil until committed.
func (m *DataAccessMethod) Owner() Property { return m.owner }

// Hooks returns the hooks injected into the method, in injection order.
func (m *DataAccessMethod) Hooks() []*AdditionalProcessing { return slices.Clone(m.hooks) }
