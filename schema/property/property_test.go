package property_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
	"github.com/syssam/lowcode/schema/property"
)

func newObject(t *testing.T, names ...string) []*design.Object {
	t.Helper()
	m, err := design.NewModule("crm",
		design.WithPath("example.com/crm"),
		design.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	objects := make([]*design.Object, len(names))
	for i, name := range names {
		objects[i], err = m.NewObject(name, "")
		require.NoError(t, err)
	}
	return objects
}

func methodNames(o *design.Object) []string {
	var names []string
	for _, m := range o.Methods() {
		names = append(names, m.Name())
	}
	return names
}

func TestNew(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind string
		want any
	}{
		{kind: "STOREDOBJECT", want: &property.StoredObject{}},
		{kind: "uniqueidentified", want: &property.UniqueIdentified{}},
		{kind: "Named", want: &property.Named{}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			t.Parallel()
			p, err := property.New(tt.kind)
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
			assert.Equal(t, design.StateUnattached, p.Base().State())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		_, err := property.New("versioned")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NAMED, STOREDOBJECT, UNIQUEIDENTIFIED")
	})

	t.Run("fresh instances", func(t *testing.T) {
		t.Parallel()
		a, _ := property.New("STOREDOBJECT")
		b, _ := property.New("STOREDOBJECT")
		assert.NotSame(t, a, b)
	})
}

func TestStoredObject(t *testing.T) {
	t.Parallel()
	customer := newObject(t, "Customer")[0]
	p := property.NewStoredObject()
	assert.Empty(t, p.Requires())
	require.NoError(t, customer.Attach(p))
	require.NoError(t, customer.ResolveAll())

	insert, ok := customer.Method("INSERT")
	require.True(t, ok)
	assert.True(t, insert.IsMutation())
	assert.Nil(t, insert.Returns())
	args := insert.Arguments()
	require.Len(t, args, 1)
	assert.Equal(t, "OBJECT", args[0].Name())
	assert.Equal(t, argument.KindReference, args[0].Content().Kind())
	assert.Same(t, customer, args[0].Content().Owner())
	assert.Equal(t, []string{property.StorageRuntime}, p.ExtraImports())
}

func TestUniqueIdentified(t *testing.T) {
	t.Parallel()

	t.Run("customer", func(t *testing.T) {
		t.Parallel()
		customer := newObject(t, "Customer")[0]
		store, id := property.NewStoredObject(), property.NewUniqueIdentified()
		assert.Nil(t, id.StoredObject())
		require.NoError(t, customer.Attach(store))
		require.NoError(t, customer.Attach(id))
		require.NoError(t, customer.ResolveAll())

		assert.Same(t, store, id.StoredObject())

		elements := customer.Elements()
		require.Len(t, elements, 1)
		assert.Equal(t, "ID", elements[0].Name())
		assert.Equal(t, argument.KindObjectID, elements[0].Content().Kind())
		assert.Equal(t, design.Display{Label: "Id", Help: "technical identification", Priority: -50, Width: 25}, elements[0].Display())
		assert.Same(t, id, elements[0].Owner())

		indexes := customer.Indexes()
		require.Len(t, indexes, 1)
		assert.Equal(t, "ID", indexes[0].Name())
		assert.True(t, indexes[0].Unique())
		assert.Equal(t, elements, indexes[0].Elements())

		assert.Equal(t, []string{"INSERT", "READONE", "READSEVERAL", "DELETE", "UPDATE", "REFRESH"}, methodNames(customer))

		readOne, _ := customer.Method("READONE")
		assert.Equal(t, argument.KindReference, readOne.Returns().Kind())
		assert.Equal(t, argument.KindObjectID, readOne.Arguments()[0].Content().Kind())
		assert.False(t, readOne.IsStatic())
		assert.False(t, readOne.IsMutation())

		readSeveral, _ := customer.Method("READSEVERAL")
		assert.Equal(t, "[]*Customer", readSeveral.Returns().TypeTag().String())
		assert.False(t, readSeveral.IsStatic())
		require.Len(t, readSeveral.Arguments(), 1)
		assert.Equal(t, "ID", readSeveral.Arguments()[0].Name())
		assert.Equal(t, "[]ID[Customer]", readSeveral.Arguments()[0].Content().TypeTag().String())

		for name, mutation := range map[string]bool{"DELETE": true, "UPDATE": true, "REFRESH": false} {
			m, ok := customer.Method(name)
			require.True(t, ok, name)
			assert.Equal(t, mutation, m.IsMutation(), name)
			assert.Nil(t, m.Returns(), name)
			assert.Len(t, m.Arguments(), 1, name)
		}

		insert, _ := customer.Method("INSERT")
		hooks := insert.Hooks()
		require.Len(t, hooks, 1)
		assert.Equal(t, design.After, hooks[0].Timing)
		assert.Same(t, id, hooks[0].InjectedBy)
	})

	t.Run("order without storage", func(t *testing.T) {
		t.Parallel()
		order := newObject(t, "Order")[0]
		require.NoError(t, order.Attach(property.NewUniqueIdentified()))
		err := order.ResolveAll()
		var missing *lowcode.MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, property.KindStoredObject, missing.Dependency)
		assert.Empty(t, order.Methods())
	})

	t.Run("actions", func(t *testing.T) {
		t.Parallel()
		objects := newObject(t, "Customer", "Order")
		customer, order := objects[0], objects[1]
		id := property.NewUniqueIdentified()
		require.NoError(t, customer.Attach(property.NewStoredObject()))
		require.NoError(t, customer.Attach(id))
		require.NoError(t, customer.ResolveAll())

		err := id.AddActionOnObjectID(design.NewAction("Archive", "",
			argument.ID("CUSTOMER", customer), argument.ID("OTHER", customer)))
		var shape *lowcode.ArgumentShapeError
		require.ErrorAs(t, err, &shape)
		assert.Contains(t, shape.Error(), "expected 1 input argument, got 2")

		err = id.AddActionOnObjectIDInBand(design.NewAction("Delete", "", argument.ID("ORDER", order)), true)
		require.ErrorAs(t, err, &shape)
		assert.Contains(t, shape.Error(), "crm/Order")
		assert.Contains(t, shape.Error(), "crm/Customer")
		assert.Empty(t, customer.Actions(design.BandPrimary))
		assert.Empty(t, customer.Actions(design.BandManage))

		open := design.NewAction("Open", "", argument.ID("CUSTOMER", customer))
		archive := design.NewAction("Archive", "", argument.ID("CUSTOMER", customer))
		require.NoError(t, id.AddActionOnObjectID(open))
		require.NoError(t, id.AddActionOnObjectIDInBand(archive, true))
		assert.Equal(t, []*design.Action{open}, customer.Actions(design.BandPrimary))
		assert.Equal(t, []*design.Action{archive}, customer.Actions(design.BandManage))
	})
}

func TestNamed(t *testing.T) {
	t.Parallel()

	t.Run("chain", func(t *testing.T) {
		t.Parallel()
		customer := newObject(t, "Customer")[0]
		named := property.NewNamed()
		id := property.NewUniqueIdentified()
		for _, p := range []design.Property{property.NewStoredObject(), id, named} {
			require.NoError(t, customer.Attach(p))
		}
		require.NoError(t, customer.ResolveAll())
		require.NoError(t, customer.FinalizeSettings())

		assert.Same(t, id, named.UniqueIdentified())
		assert.Equal(t, []string{"INSERT", "READONE", "READSEVERAL", "DELETE", "UPDATE", "REFRESH", "RENAME"}, methodNames(customer))

		name, ok := customer.Element("NAME")
		require.True(t, ok)
		assert.Equal(t, "Name", name.Display().Label)
		assert.Equal(t, design.VisibilityTitle, name.Display().Visibility)
		text, ok := name.Content().(*argument.Text)
		require.True(t, ok)
		assert.Equal(t, property.NameLength, text.MaxLength())

		indexes := customer.Indexes()
		require.Len(t, indexes, 2)
		assert.False(t, indexes[1].Unique())

		update, _ := customer.Method("UPDATE")
		hooks := update.Hooks()
		require.Len(t, hooks, 1)
		assert.Equal(t, design.Before, hooks[0].Timing)
		assert.Same(t, named, hooks[0].InjectedBy)

		rename, _ := customer.Method("RENAME")
		assert.True(t, rename.IsMutation())
		require.Len(t, rename.Arguments(), 2)
		assert.Equal(t, "NAME", rename.Arguments()[1].Name())

		var buf bytes.Buffer
		require.NoError(t, named.WriteDependentClass(&buf))
		body := buf.String()
		assert.Contains(t, body, "func (o *Customer) DisplayName() string")
		assert.Contains(t, body, "fmt.Sprint(o.ID)")
		assert.Contains(t, body, "return o.Name")
	})

	t.Run("declared before its dependency", func(t *testing.T) {
		t.Parallel()
		customer := newObject(t, "Customer")[0]
		for _, p := range []design.Property{property.NewStoredObject(), property.NewNamed(), property.NewUniqueIdentified()} {
			require.NoError(t, customer.Attach(p))
		}
		err := customer.ResolveAll()
		var missing *lowcode.MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, property.KindNamed, missing.Property)
		assert.Equal(t, property.KindUniqueIdentified, missing.Dependency)
		assert.Equal(t, []string{"INSERT"}, methodNames(customer))
	})
}
