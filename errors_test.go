package lowcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/lowcode"
)

func TestMissingDependencyError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &lowcode.MissingDependencyError{Object: "crm/Order", Property: "UNIQUEIDENTIFIED", Dependency: "STOREDOBJECT"}
		assert.Equal(t, "lowcode: object crm/Order: property UNIQUEIDENTIFIED requires STOREDOBJECT, which is not resolved on the object", err.Error())
	})

	t.Run("Method and site", func(t *testing.T) {
		err := &lowcode.MissingDependencyError{
			Object:     "crm/Order",
			Property:   "UNIQUEIDENTIFIED",
			Dependency: "STOREDOBJECT",
			Method:     "INSERT",
			Site:       "crm.hcl:4,5",
		}
		assert.Contains(t, err.Error(), "targets method INSERT of STOREDOBJECT")
		assert.Contains(t, err.Error(), "(at crm.hcl:4,5)")
	})

	t.Run("Element", func(t *testing.T) {
		err := &lowcode.MissingDependencyError{Object: "crm/Order", Property: "NAMED", Element: "NAME"}
		assert.Contains(t, err.Error(), "references element NAME")
	})

	t.Run("IsMissingDependency", func(t *testing.T) {
		err := &lowcode.MissingDependencyError{Object: "crm/Order"}
		assert.True(t, errors.Is(err, lowcode.ErrMissingDependency))
		assert.True(t, lowcode.IsMissingDependency(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, lowcode.IsMissingDependency(errors.New("other error")))
		assert.False(t, lowcode.IsMissingDependency(nil))
	})
}

func TestArgumentShapeError(t *testing.T) {
	t.Run("Error with all fields", func(t *testing.T) {
		err := &lowcode.ArgumentShapeError{
			Object:   "crm/Customer",
			Property: "UNIQUEIDENTIFIED",
			Method:   "Archive",
			Message:  "expected 1 input argument, got 2",
		}
		assert.Equal(t, "lowcode: invalid argument shape on object crm/Customer property UNIQUEIDENTIFIED for Archive: expected 1 input argument, got 2", err.Error())
	})

	t.Run("Error with message only", func(t *testing.T) {
		err := &lowcode.ArgumentShapeError{Message: "nil content"}
		assert.Equal(t, "lowcode: invalid argument shape: nil content", err.Error())
	})

	t.Run("IsArgumentShape", func(t *testing.T) {
		err := &lowcode.ArgumentShapeError{}
		assert.True(t, errors.Is(err, lowcode.ErrArgumentShape))
		assert.True(t, lowcode.IsArgumentShape(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, lowcode.IsArgumentShape(nil))
	})
}

func TestDuplicateNameError(t *testing.T) {
	err := &lowcode.DuplicateNameError{Scope: "crm/Customer", Kind: "method", Name: "READONE"}
	assert.Equal(t, `lowcode: duplicate method "READONE" in crm/Customer`, err.Error())
	assert.True(t, errors.Is(err, lowcode.ErrDuplicateName))
	assert.True(t, lowcode.IsDuplicateName(err))

	unscoped := &lowcode.DuplicateNameError{Kind: "object", Name: "Customer"}
	assert.Equal(t, `lowcode: duplicate object "Customer"`, unscoped.Error())
}

func TestUnsupportedOperationError(t *testing.T) {
	err := &lowcode.UnsupportedOperationError{Variant: "faulty-text", Argument: "COMMENT", Op: "copy-with-rename"}
	assert.Equal(t, "lowcode: copy-with-rename is not supported by faulty-text argument COMMENT", err.Error())
	assert.True(t, errors.Is(err, lowcode.ErrUnsupportedOperation))
	assert.True(t, lowcode.IsUnsupportedOperation(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, lowcode.IsUnsupportedOperation(errors.New("other")))
}

func TestLifecycleError(t *testing.T) {
	tests := []struct {
		name string
		err  *lowcode.LifecycleError
		want string
	}{
		{
			name: "object",
			err:  &lowcode.LifecycleError{Object: "crm/Customer", Op: "emit", State: "open"},
			want: "lowcode: cannot emit object crm/Customer in state open",
		},
		{
			name: "detached property",
			err:  &lowcode.LifecycleError{Property: "NAMED", Op: "resolve", State: "unattached"},
			want: "lowcode: cannot resolve property NAMED in state unattached",
		},
		{
			name: "attached property",
			err:  &lowcode.LifecycleError{Object: "crm/Customer", Property: "NAMED", Op: "resolve", State: "resolved"},
			want: "lowcode: cannot resolve property NAMED of object crm/Customer in state resolved",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.True(t, errors.Is(tt.err, lowcode.ErrLifecycle))
			assert.True(t, lowcode.IsLifecycle(tt.err))
		})
	}
}

func TestAggregateError(t *testing.T) {
	t.Run("nil when empty", func(t *testing.T) {
		assert.NoError(t, lowcode.NewAggregateError(nil, nil))
	})

	t.Run("single error passes through", func(t *testing.T) {
		want := errors.New("boom")
		assert.Equal(t, want, lowcode.NewAggregateError(nil, want))
	})

	t.Run("multiple errors", func(t *testing.T) {
		dup := &lowcode.DuplicateNameError{Kind: "object", Name: "Customer"}
		err := lowcode.NewAggregateError(errors.New("first"), dup)
		require.Error(t, err)
		assert.Equal(t, "lowcode: 2 errors:\n\t- first\n\t- "+dup.Error(), err.Error())
		assert.True(t, lowcode.IsDuplicateName(err))
	})

	t.Run("nested aggregates are flattened", func(t *testing.T) {
		inner := lowcode.NewAggregateError(errors.New("first"), errors.New("second"))
		err := lowcode.NewAggregateError(inner, errors.New("third"))
		var agg *lowcode.AggregateError
		require.ErrorAs(t, err, &agg)
		assert.Len(t, agg.Errors, 3)
	})
}
