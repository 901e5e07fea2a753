package property

import (
	"fmt"
	"sort"
	"strings"

	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// Names of the built-in properties.
const (
	KindStoredObject     = "STOREDOBJECT"
	KindUniqueIdentified = "UNIQUEIDENTIFIED"
	KindNamed            = "NAMED"
)

// StorageRuntime is the import path of the persistence runtime the code
// generated for stored objects depends on.
const StorageRuntime = "github.com/syssam/lowcode/runtime/store"

var factories = map[string]func() design.Property{
	KindStoredObject:     func() design.Property { return NewStoredObject() },
	KindUniqueIdentified: func() design.Property { return NewUniqueIdentified() },
	KindNamed:            func() design.Property { return NewNamed() },
}

// New returns a new instance of the built-in property called kind. Kind
// names are case-insensitive.
func New(kind string) (design.Property, error) {
	f, ok := factories[strings.ToUpper(kind)]
	if !ok {
		return nil, fmt.Errorf("property: unknown property %q (expect one of: %s)", kind, strings.Join(Kinds(), ", "))
	}
	return f(), nil
}

// Kinds returns the names of the built-in properties, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// self returns the reference and object-id arguments of o.
func self(o *design.Object) (*argument.Reference, *argument.ObjectID) {
	return argument.Ref("OBJECT", o), argument.ID("ID", o)
}

// onObject returns a method whose only input is the object itself.
func onObject(name string, o *design.Object, opts ...design.MethodOption) (*design.DataAccessMethod, error) {
	m := design.NewMethod(name, nil, opts...)
	ref, _ := self(o)
	if err := m.AddArgument("OBJECT", ref); err != nil {
		return nil, err
	}
	return m, nil
}
