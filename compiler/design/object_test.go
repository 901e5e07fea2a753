package design_test

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lowcode"
	"github.com/syssam/lowcode/compiler/design"
	"github.com/syssam/lowcode/schema/argument"
)

// testProperty is a property whose contributions are supplied by a closure.
type testProperty struct {
	design.PropertyBase
	resolve  func(r *design.Resolution) error
	finalize func() error
	imports  []string
	body     string
}

func (p *testProperty) Resolve(r *design.Resolution) error {
	if p.resolve == nil {
		return nil
	}
	return p.resolve(r)
}

func (p *testProperty) Finalize() error {
	if p.finalize == nil {
		return nil
	}
	return p.finalize()
}

func (p *testProperty) ExtraImports() []string { return p.imports }

func (p *testProperty) WriteDependentClass(w io.Writer) error {
	_, err := io.WriteString(w, p.body)
	return err
}

func storage() *testProperty {
	return &testProperty{
		PropertyBase: design.NewPropertyBase("STOREDOBJECT"),
		imports:      []string{"example.com/runtime/store"},
		resolve: func(r *design.Resolution) error {
			insert := design.NewMethod("INSERT", nil, design.Mutation())
			if err := insert.AddArgument("OBJECT", argument.Ref("OBJECT", r.Object())); err != nil {
				return err
			}
			r.AddMethod(insert)
			return nil
		},
	}
}

func identity() *testProperty {
	return &testProperty{
		PropertyBase: design.NewPropertyBase("UNIQUEIDENTIFIED", "STOREDOBJECT"),
		resolve: func(r *design.Resolution) error {
			o := r.Object()
			store, _ := o.ResolvedProperty("STOREDOBJECT")
			r.InjectHook(store, "INSERT", design.After)

			id := design.NewElement("ID", argument.ID("ID", o), design.Display{Label: "Id", Priority: -50, Width: 25})
			r.AddElement(id)
			r.AddIndex(design.NewIndex("ID", true, id))

			readOne := design.NewMethod("READONE", argument.Ref("OBJECT", o))
			readSeveral := design.NewMethod("READSEVERAL", argument.ArrayOf(argument.Ref("OBJECT", o)))
			del := design.NewMethod("DELETE", nil, design.Mutation())
			update := design.NewMethod("UPDATE", nil, design.Mutation())
			refresh := design.NewMethod("REFRESH", nil)
			for _, err := range []error{
				readOne.AddArgument("ID", argument.ID("ID", o)),
				readSeveral.AddArgument("IDS", argument.ArrayOf(argument.ID("ID", o))),
				del.AddArgument("OBJECT", argument.Ref("OBJECT", o)),
				update.AddArgument("OBJECT", argument.Ref("OBJECT", o)),
				refresh.AddArgument("OBJECT", argument.Ref("OBJECT", o)),
			} {
				if err != nil {
					return err
				}
			}
			for _, m := range []*design.DataAccessMethod{readOne, readSeveral, del, update, refresh} {
				r.AddMethod(m)
			}
			return nil
		},
	}
}

func newModule(t *testing.T) *design.Module {
	t.Helper()
	m, err := design.NewModule("crm",
		design.WithPath("example.com/crm"),
		design.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	return m
}

func newObject(t *testing.T, m *design.Module, name string) *design.Object {
	t.Helper()
	o, err := m.NewObject(name, design.Site("crm.hcl:1,1"))
	require.NoError(t, err)
	return o
}

func names[T design.Named](items []T) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[i] = v.Name()
	}
	return out
}

func TestModule(t *testing.T) {
	t.Parallel()

	t.Run("objects", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		customer := newObject(t, m, "Customer")
		newObject(t, m, "Order")

		assert.Equal(t, "crm", m.Name())
		assert.Equal(t, "example.com/crm", m.Path())
		assert.Equal(t, []string{"Customer", "Order"}, names(m.Objects()))
		got, ok := m.Object("Customer")
		assert.True(t, ok)
		assert.Same(t, customer, got)

		assert.Equal(t, "Customer", customer.Name())
		assert.Equal(t, "crm", customer.ModuleName())
		assert.Equal(t, "crm/Customer", customer.QualifiedName())
		assert.Equal(t, "example.com/crm", customer.ImportPath())
		assert.Equal(t, "crm/Customer@crm.hcl:1,1", customer.String())
	})

	t.Run("duplicate object", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		newObject(t, m, "Customer")
		_, err := m.NewObject("Customer", "")
		assert.True(t, lowcode.IsDuplicateName(err))
		assert.Len(t, m.Objects(), 1)
	})

	t.Run("invalid names", func(t *testing.T) {
		t.Parallel()
		_, err := design.NewModule("1crm")
		assert.Error(t, err)
		_, err = design.NewModule("crm", design.WithPath(""))
		assert.Error(t, err)
		_, err = design.NewModule("crm", design.WithLogger(nil))
		assert.Error(t, err)
		m := newModule(t)
		_, err = m.NewObject("Customer Order", "")
		assert.Error(t, err)
	})

	t.Run("default path", func(t *testing.T) {
		t.Parallel()
		m, err := design.NewModule("crm")
		require.NoError(t, err)
		assert.Equal(t, "crm", m.Path())
		assert.NotNil(t, m.Logger())
	})

	t.Run("resolve failures are collected", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		customer := newObject(t, m, "Customer")
		note := newObject(t, m, "Note")
		order := newObject(t, m, "Order")
		require.NoError(t, customer.Attach(identity()))
		require.NoError(t, note.Attach(storage()))
		require.NoError(t, order.Attach(identity()))

		err := m.ResolveAll()
		var agg *lowcode.AggregateError
		require.ErrorAs(t, err, &agg)
		require.Len(t, agg.Errors, 2)
		assert.ErrorContains(t, agg.Errors[0], "crm/Customer")
		assert.ErrorContains(t, agg.Errors[1], "crm/Order")
		assert.True(t, lowcode.IsMissingDependency(err))
		assert.Equal(t, []string{"INSERT"}, names(note.Methods()))
	})
}

func TestResolveAll(t *testing.T) {
	t.Parallel()

	t.Run("storage then identity", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		customer := newObject(t, m, "Customer")
		store, ident := storage(), identity()
		require.NoError(t, customer.Attach(store))
		require.NoError(t, customer.Attach(ident))
		require.NoError(t, customer.ResolveAll())

		assert.Equal(t, []string{"ID"}, names(customer.Elements()))
		indexes := customer.Indexes()
		require.Len(t, indexes, 1)
		assert.True(t, indexes[0].Unique())
		assert.Equal(t, []string{"ID"}, names(indexes[0].Elements()))
		assert.Equal(t, []string{"INSERT", "READONE", "READSEVERAL", "DELETE", "UPDATE", "REFRESH"}, names(customer.Methods()))

		insert, ok := customer.Method("INSERT")
		require.True(t, ok)
		assert.Same(t, store, insert.Owner())
		hooks := insert.Hooks()
		require.Len(t, hooks, 1)
		assert.Equal(t, design.After, hooks[0].Timing)
		assert.Same(t, insert, hooks[0].Target)
		assert.Same(t, ident, hooks[0].InjectedBy)
		assert.Equal(t, hooks, ident.Hooks())

		del, _ := customer.Method("DELETE")
		assert.True(t, del.IsMutation())
		refresh, _ := customer.Method("REFRESH")
		assert.False(t, refresh.IsMutation())

		assert.Equal(t, design.StateResolved, store.State())
		assert.Equal(t, design.StateResolved, ident.State())
		assert.Same(t, customer, ident.Object())
	})

	t.Run("missing storage", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		order := newObject(t, m, "Order")
		ident := identity()
		require.NoError(t, order.Attach(ident))

		err := order.ResolveAll()
		require.Error(t, err)
		assert.ErrorIs(t, err, lowcode.ErrMissingDependency)
		var missing *lowcode.MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "crm/Order", missing.Object)
		assert.Equal(t, "UNIQUEIDENTIFIED", missing.Property)
		assert.Equal(t, "STOREDOBJECT", missing.Dependency)

		assert.Empty(t, order.Elements())
		assert.Empty(t, order.Indexes())
		assert.Empty(t, order.Methods())
		assert.Equal(t, design.StateAttached, ident.State())
	})

	t.Run("dependency declared later", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(identity()))
		require.NoError(t, o.Attach(storage()))

		assert.True(t, lowcode.IsMissingDependency(o.ResolveAll()))
		require.NoError(t, o.Resolve("STOREDOBJECT"))
		require.NoError(t, o.ResolveAll())
		assert.Equal(t, []string{"INSERT", "READONE", "READSEVERAL", "DELETE", "UPDATE", "REFRESH"}, names(o.Methods()))
	})

	t.Run("resolve twice", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		require.NoError(t, o.Resolve("STOREDOBJECT"))
		err := o.Resolve("STOREDOBJECT")
		assert.ErrorIs(t, err, lowcode.ErrLifecycle)
		require.NoError(t, o.ResolveAll())
		assert.Len(t, o.Methods(), 1)
	})

	t.Run("unknown property", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		assert.True(t, lowcode.IsMissingDependency(o.Resolve("NAMED")))
	})

	t.Run("module resolves every object", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		for _, name := range []string{"Customer", "Order"} {
			o := newObject(t, m, name)
			require.NoError(t, o.Attach(storage()))
			require.NoError(t, o.Attach(identity()))
		}
		require.NoError(t, m.ResolveAll())
		require.NoError(t, m.FinalizeSettings())
		for _, o := range m.Objects() {
			assert.True(t, o.Sealed())
			assert.Len(t, o.Methods(), 6)
		}
	})
}

func TestResolveValidation(t *testing.T) {
	t.Parallel()

	text := argument.String("TEXT", 10)
	tests := []struct {
		name    string
		resolve func(r *design.Resolution) error
		target  error
	}{
		{
			name: "duplicate element in staging",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				return nil
			},
			target: lowcode.ErrDuplicateName,
		},
		{
			name: "element already on object",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				r.AddElement(design.NewElement("ID", text, design.Display{}))
				return nil
			},
			target: lowcode.ErrDuplicateName,
		},
		{
			name: "method already on object",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				r.AddMethod(design.NewMethod("READONE", nil))
				return nil
			},
			target: lowcode.ErrDuplicateName,
		},
		{
			name: "index already on object",
			resolve: func(r *design.Resolution) error {
				code := design.NewElement("CODE", text, design.Display{})
				r.AddElement(code)
				r.AddIndex(design.NewIndex("ID", false, code))
				return nil
			},
			target: lowcode.ErrDuplicateName,
		},
		{
			name: "index over undeclared element",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				r.AddIndex(design.NewIndex("BY_OTHER", false, design.NewElement("OTHER", text, design.Display{})))
				return nil
			},
			target: lowcode.ErrMissingDependency,
		},
		{
			name: "empty index",
			resolve: func(r *design.Resolution) error {
				r.AddIndex(design.NewIndex("EMPTY", false))
				return nil
			},
			target: lowcode.ErrArgumentShape,
		},
		{
			name: "element without type",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", nil, design.Display{}))
				return nil
			},
			target: lowcode.ErrArgumentShape,
		},
		{
			name: "element referencing no object",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("OWNER", argument.Ref("OWNER", nil), design.Display{}))
				return nil
			},
			target: lowcode.ErrArgumentShape,
		},
		{
			name: "result referencing no object",
			resolve: func(r *design.Resolution) error {
				r.AddMethod(design.NewMethod("READALL", argument.ArrayOf(argument.Ref("OBJECT", nil))))
				return nil
			},
			target: lowcode.ErrArgumentShape,
		},
		{
			name: "hook on unknown method",
			resolve: func(r *design.Resolution) error {
				store, _ := r.Object().ResolvedProperty("STOREDOBJECT")
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				r.InjectHook(store, "UPSERT", design.Before)
				return nil
			},
			target: lowcode.ErrMissingDependency,
		},
		{
			name: "hook on method of another property",
			resolve: func(r *design.Resolution) error {
				store, _ := r.Object().ResolvedProperty("STOREDOBJECT")
				r.InjectHook(store, "READONE", design.Before)
				return nil
			},
			target: lowcode.ErrMissingDependency,
		},
		{
			name: "hook on property not required",
			resolve: func(r *design.Resolution) error {
				ident, _ := r.Object().ResolvedProperty("UNIQUEIDENTIFIED")
				r.InjectHook(ident, "READONE", design.Before)
				return nil
			},
			target: lowcode.ErrMissingDependency,
		},
		{
			name: "invalid hook timing",
			resolve: func(r *design.Resolution) error {
				store, _ := r.Object().ResolvedProperty("STOREDOBJECT")
				r.InjectHook(store, "INSERT", design.Timing(0))
				return nil
			},
			target: lowcode.ErrArgumentShape,
		},
		{
			name: "error from resolve",
			resolve: func(r *design.Resolution) error {
				r.AddElement(design.NewElement("CODE", text, design.Display{}))
				return lowcode.ErrUnsupportedOperation
			},
			target: lowcode.ErrUnsupportedOperation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newModule(t)
			o := newObject(t, m, "Customer")
			require.NoError(t, o.Attach(storage()))
			require.NoError(t, o.Attach(identity()))
			require.NoError(t, o.ResolveAll())

			elements, indexes, methods := o.Elements(), o.Indexes(), o.Methods()
			insert, _ := o.Method("INSERT")
			hooks := insert.Hooks()

			p := &testProperty{PropertyBase: design.NewPropertyBase("EXTRA", "STOREDOBJECT"), resolve: tt.resolve}
			require.NoError(t, o.Attach(p))
			err := o.Resolve("EXTRA")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)

			assert.Equal(t, elements, o.Elements())
			assert.Equal(t, indexes, o.Indexes())
			assert.Equal(t, methods, o.Methods())
			assert.Equal(t, hooks, insert.Hooks())
			assert.Equal(t, design.StateAttached, p.State())
			assert.Empty(t, p.Elements())
		})
	}
}

func TestAttach(t *testing.T) {
	t.Parallel()

	t.Run("duplicate property", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		assert.True(t, lowcode.IsDuplicateName(o.Attach(storage())))
		assert.Len(t, o.Properties(), 1)
	})

	t.Run("property shared by two objects", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		customer, order := newObject(t, m, "Customer"), newObject(t, m, "Order")
		p := storage()
		require.NoError(t, customer.Attach(p))
		err := order.Attach(p)
		assert.ErrorIs(t, err, lowcode.ErrLifecycle)
		assert.Empty(t, order.Properties())
		assert.Same(t, customer, p.Object())
	})

	t.Run("invalid property name", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		assert.Error(t, o.Attach(&testProperty{PropertyBase: design.NewPropertyBase("")}))
		assert.Error(t, o.Attach(nil))
	})

	t.Run("after finalize", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		require.NoError(t, o.ResolveAll())
		require.NoError(t, o.FinalizeSettings())
		err := o.Attach(identity())
		assert.ErrorIs(t, err, lowcode.ErrLifecycle)
	})
}

func TestFinalizeSettings(t *testing.T) {
	t.Parallel()

	t.Run("requires resolution", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		err := o.FinalizeSettings()
		var lc *lowcode.LifecycleError
		require.ErrorAs(t, err, &lc)
		assert.Equal(t, "finalize", lc.Op)
		assert.Equal(t, "attached", lc.State)
		assert.False(t, o.Sealed())
	})

	t.Run("runs in order and seals", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		var order []string
		for _, name := range []string{"FIRST", "SECOND"} {
			require.NoError(t, o.Attach(&testProperty{
				PropertyBase: design.NewPropertyBase(name),
				finalize: func() error {
					order = append(order, name)
					return nil
				},
			}))
		}
		require.NoError(t, o.ResolveAll())
		require.NoError(t, o.FinalizeSettings())
		assert.Equal(t, []string{"FIRST", "SECOND"}, order)
		assert.True(t, o.Sealed())
		for _, p := range o.Properties() {
			assert.Equal(t, design.StateFinalized, p.Base().State())
		}
		assert.ErrorIs(t, o.FinalizeSettings(), lowcode.ErrLifecycle)
		assert.NoError(t, o.ResolveAll())
	})

	t.Run("finalize error", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		boom := errors.New("boom")
		require.NoError(t, o.Attach(&testProperty{
			PropertyBase: design.NewPropertyBase("BROKEN"),
			finalize:     func() error { return boom },
		}))
		require.NoError(t, o.ResolveAll())
		err := o.FinalizeSettings()
		assert.ErrorIs(t, err, boom)
		assert.False(t, o.Sealed())
	})
}

func TestLookup(t *testing.T) {
	t.Parallel()
	m := newModule(t)
	o := newObject(t, m, "Customer")
	store := storage()
	require.NoError(t, o.Attach(store))

	_, ok := design.Lookup[*testProperty](o, "STOREDOBJECT")
	assert.False(t, ok, "attached but not resolved")

	require.NoError(t, o.ResolveAll())
	got, ok := design.Lookup[*testProperty](o, "STOREDOBJECT")
	assert.True(t, ok)
	assert.Same(t, store, got)

	_, ok = design.Lookup[*testProperty](o, "UNIQUEIDENTIFIED")
	assert.False(t, ok)
}

func TestReferences(t *testing.T) {
	t.Parallel()
	m := newModule(t)
	customer := newObject(t, m, "Customer")
	order := newObject(t, m, "Order")
	require.NoError(t, customer.Attach(storage()))
	require.NoError(t, customer.Attach(&testProperty{
		PropertyBase: design.NewPropertyBase("ORDERS", "STOREDOBJECT"),
		resolve: func(r *design.Resolution) error {
			r.AddElement(design.NewElement("LAST_ORDER", argument.ID("LAST_ORDER", order), design.Display{}))
			list := design.NewMethod("ORDERS", argument.ArrayOf(argument.Ref("ORDER", order)))
			if err := list.AddArgument("OBJECT", argument.Ref("OBJECT", customer)); err != nil {
				return err
			}
			r.AddMethod(list)
			return nil
		},
	}))
	require.NoError(t, customer.ResolveAll())

	refs := customer.References()
	require.Len(t, refs, 1)
	assert.Equal(t, "crm/Order", refs[0].QualifiedName())
	assert.Empty(t, order.References())
}

type recordingSink struct {
	imports map[string][]string
	bodies  map[string]string
	fail    error
}

func (s *recordingSink) Imports(o *design.Object, p design.Property, imports []string) error {
	if s.fail != nil {
		return s.fail
	}
	s.imports[p.Name()] = imports
	return nil
}

func (s *recordingSink) DependentClass(o *design.Object, p design.Property, body []byte) error {
	s.bodies[p.Name()] = string(body)
	return nil
}

func TestEmit(t *testing.T) {
	t.Parallel()

	newSink := func() *recordingSink {
		return &recordingSink{imports: map[string][]string{}, bodies: map[string]string{}}
	}

	t.Run("requires finalized object", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		require.NoError(t, o.ResolveAll())
		assert.ErrorIs(t, o.Emit(newSink()), lowcode.ErrLifecycle)
	})

	t.Run("imports and bodies", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		order := newObject(t, m, "Order")
		store := storage()
		store.body = "func (c *Customer) Stored() bool { return true }\n"
		require.NoError(t, o.Attach(store))
		require.NoError(t, o.Attach(&testProperty{
			PropertyBase: design.NewPropertyBase("ORDERS"),
			imports:      []string{"example.com/sales"},
			resolve: func(r *design.Resolution) error {
				r.AddMethod(design.NewMethod("LAST_ORDER", argument.Ref("ORDER", order)))
				return nil
			},
		}))
		require.NoError(t, o.ResolveAll())
		require.NoError(t, o.FinalizeSettings())

		sink := newSink()
		require.NoError(t, o.Emit(sink))
		assert.Equal(t, []string{"example.com/runtime/store", "example.com/crm"}, sink.imports["STOREDOBJECT"])
		assert.Equal(t, []string{"example.com/sales", "example.com/crm"}, sink.imports["ORDERS"])
		assert.Equal(t, store.body, sink.bodies["STOREDOBJECT"])
		_, ok := sink.bodies["ORDERS"]
		assert.False(t, ok)
	})

	t.Run("sink error", func(t *testing.T) {
		t.Parallel()
		m := newModule(t)
		o := newObject(t, m, "Customer")
		require.NoError(t, o.Attach(storage()))
		require.NoError(t, o.ResolveAll())
		require.NoError(t, o.FinalizeSettings())
		sink := newSink()
		sink.fail = fmt.Errorf("disk full")
		assert.EqualError(t, o.Emit(sink), "disk full")
	})
}

func TestMethodArguments(t *testing.T) {
	t.Parallel()
	m := design.NewMethod("RENAME", nil, design.Mutation(), design.Static())
	require.NoError(t, m.AddArgument("OBJECT", argument.String("OBJECT", 10)))
	require.NoError(t, m.AddArgument("NAME", argument.String("NAME", 80)))

	err := m.AddArgument("NAME", argument.Int("NAME"))
	assert.True(t, lowcode.IsDuplicateName(err))
	assert.True(t, lowcode.IsArgumentShape(m.AddArgument("EMPTY", nil)))
	err = m.AddArgument("OWNER", argument.ID("OWNER", nil))
	assert.ErrorContains(t, err, "argument OWNER references no object")
	assert.Equal(t, []string{"OBJECT", "NAME"}, names(m.Arguments()))

	arg, ok := m.Argument("NAME")
	require.True(t, ok)
	assert.Equal(t, argument.KindText, arg.Content().Kind())
	assert.True(t, m.IsMutation())
	assert.True(t, m.IsStatic())
	assert.Nil(t, m.Returns())
}
