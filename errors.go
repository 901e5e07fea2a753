package lowcode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the model-build failure kinds. Every typed error below
// matches its sentinel through errors.Is.
var (
	// ErrMissingDependency is returned when a property requires another
	// property (or a method of it) that is absent or not yet resolved.
	ErrMissingDependency = errors.New("lowcode: missing dependency")

	// ErrArgumentShape is returned when a method or action signature breaks a
	// structural contract.
	ErrArgumentShape = errors.New("lowcode: invalid argument shape")

	// ErrDuplicateName is returned when a registry insert collides with an
	// existing name.
	ErrDuplicateName = errors.New("lowcode: duplicate name")

	// ErrUnsupportedOperation is returned when an argument variant is asked to
	// perform an operation it declares unsupported.
	ErrUnsupportedOperation = errors.New("lowcode: unsupported operation")

	// ErrLifecycle is returned when a property or object is driven through its
	// lifecycle out of order, e.g. resolved twice.
	ErrLifecycle = errors.New("lowcode: lifecycle violation")
)

// MissingDependencyError reports a dependency that is not resolved on the
// object when a property needs it.
type MissingDependencyError struct {
	Object     string // Qualified object name
	Property   string // Property being resolved
	Dependency string // Required property name
	Method     string // Method of the dependency (hook targets only)
	Element    string // Element name (index definitions only)
	Site       string // Provenance of the failing declaration, if known
}

// Error returns the error string.
func (e *MissingDependencyError) Error() string {
	var b strings.Builder
	b.WriteString("lowcode: object ")
	b.WriteString(e.Object)
	if e.Property != "" {
		fmt.Fprintf(&b, ": property %s", e.Property)
	}
	switch {
	case e.Element != "":
		fmt.Fprintf(&b, " references element %s, which is not declared on the object", e.Element)
	case e.Method != "":
		fmt.Fprintf(&b, " targets method %s of %s, which is not available", e.Method, e.Dependency)
	default:
		fmt.Fprintf(&b, " requires %s, which is not resolved on the object", e.Dependency)
	}
	if e.Site != "" {
		fmt.Fprintf(&b, " (at %s)", e.Site)
	}
	return b.String()
}

// Is reports whether the target error matches ErrMissingDependency.
func (e *MissingDependencyError) Is(err error) bool {
	return err == ErrMissingDependency
}

// IsMissingDependency returns true if the error is a MissingDependencyError.
func IsMissingDependency(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingDependencyError
	return errors.As(err, &e)
}

// ArgumentShapeError reports a signature that violates a structural contract.
type ArgumentShapeError struct {
	Object   string // Qualified object name
	Property string // Property performing the check, if any
	Method   string // Method or action name
	Message  string
	Site     string
}

// Error returns the error string.
func (e *ArgumentShapeError) Error() string {
	var b strings.Builder
	b.WriteString("lowcode: invalid argument shape")
	if e.Object != "" {
		b.WriteString(" on object ")
		b.WriteString(e.Object)
	}
	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}
	if e.Method != "" {
		b.WriteString(" for ")
		b.WriteString(e.Method)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Site != "" {
		fmt.Fprintf(&b, " (at %s)", e.Site)
	}
	return b.String()
}

// Is reports whether the target error matches ErrArgumentShape.
func (e *ArgumentShapeError) Is(err error) bool {
	return err == ErrArgumentShape
}

// IsArgumentShape returns true if the error is an ArgumentShapeError.
func IsArgumentShape(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentShapeError
	return errors.As(err, &e)
}

// DuplicateNameError reports a name collision in a registry.
type DuplicateNameError struct {
	Scope string // Owner of the registry, e.g. "crm/Customer" or "crm/Customer.READONE"
	Kind  string // Registry kind: element, index, method, argument, action, object, property
	Name  string
}

// Error returns the error string.
func (e *DuplicateNameError) Error() string {
	if e.Scope == "" {
		return fmt.Sprintf("lowcode: duplicate %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("lowcode: duplicate %s %q in %s", e.Kind, e.Name, e.Scope)
}

// Is reports whether the target error matches ErrDuplicateName.
func (e *DuplicateNameError) Is(err error) bool {
	return err == ErrDuplicateName
}

// IsDuplicateName returns true if the error is a DuplicateNameError.
func IsDuplicateName(err error) bool {
	if err == nil {
		return false
	}
	var e *DuplicateNameError
	return errors.As(err, &e)
}

// UnsupportedOperationError reports an operation an argument variant declares
// unsupported.
type UnsupportedOperationError struct {
	Variant  string // Argument kind, e.g. "faulty-text"
	Argument string // Argument name
	Op       string // Operation, e.g. "copy-with-rename"
}

// Error returns the error string.
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("lowcode: %s is not supported by %s argument %s", e.Op, e.Variant, e.Argument)
}

// Is reports whether the target error matches ErrUnsupportedOperation.
func (e *UnsupportedOperationError) Is(err error) bool {
	return err == ErrUnsupportedOperation
}

// IsUnsupportedOperation returns true if the error is an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedOperationError
	return errors.As(err, &e)
}

// LifecycleError reports a lifecycle step performed in the wrong state.
type LifecycleError struct {
	Object   string
	Property string
	Op       string // attach, resolve, finalize, emit, attach-action
	State    string // State observed when the step was attempted
}

// Error returns the error string.
func (e *LifecycleError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("lowcode: cannot %s object %s in state %s", e.Op, e.Object, e.State)
	}
	if e.Object == "" {
		return fmt.Sprintf("lowcode: cannot %s property %s in state %s", e.Op, e.Property, e.State)
	}
	return fmt.Sprintf("lowcode: cannot %s property %s of object %s in state %s", e.Op, e.Property, e.Object, e.State)
}

// Is reports whether the target error matches ErrLifecycle.
func (e *LifecycleError) Is(err error) bool {
	return err == ErrLifecycle
}

// IsLifecycle returns true if the error is a LifecycleError.
func IsLifecycle(err error) bool {
	if err == nil {
		return false
	}
	var e *LifecycleError
	return errors.As(err, &e)
}

// AggregateError collects the failures of independent resolution passes,
// one per object or module, in declaration order.
type AggregateError struct {
	Errors []error
}

// Error lists the collected errors, one per line.
func (e *AggregateError) Error() string {
	lines := make([]string, 0, len(e.Errors)+1)
	lines = append(lines, fmt.Sprintf("lowcode: %d errors:", len(e.Errors)))
	for _, err := range e.Errors {
		lines = append(lines, "\t- "+err.Error())
	}
	return strings.Join(lines, "\n")
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError drops nil errors and flattens nested aggregates. It
// returns nil when nothing is left, the error itself when one is left, and an
// AggregateError otherwise.
func NewAggregateError(errs ...error) error {
	var kept []error
	for _, err := range errs {
		if agg, ok := err.(*AggregateError); ok {
			kept = append(kept, agg.Errors...)
		} else if err != nil {
			kept = append(kept, err)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &AggregateError{Errors: kept}
}
