package design

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/syssam/lowcode"
)

// Site identifies where a model declaration was made, e.g. "crm.hcl:12,3".
// It is supplied by the builder; an empty site means unknown.
type Site string

// String returns the site.
func (s Site) String() string { return string(s) }

var validName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidName reports an error if name cannot be used for a module, an object
// or a property.
func ValidName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("design: invalid name %q: must start with a letter and contain only letters, digits and underscores", name)
	}
	return nil
}

// Module is the namespace owning a set of objects, unique by name.
type Module struct {
	name    string
	path    string
	logger  *slog.Logger
	objects *Registry[*Object]
}

// Option configures a module.
type Option func(*Module) error

// WithPath sets the import path of the package generated for the module.
// It defaults to the module name.
func WithPath(path string) Option {
	return func(m *Module) error {
		if path == "" {
			return fmt.Errorf("design: module %s: path cannot be empty", m.name)
		}
		m.path = path
		return nil
	}
}

// WithLogger sets the logger used to trace resolution passes.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Module) error {
		if logger == nil {
			return fmt.Errorf("design: module %s: logger cannot be nil", m.name)
		}
		m.logger = logger
		return nil
	}
}

// NewModule creates an empty module.
func NewModule(name string, opts ...Option) (*Module, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	m := &Module{
		name:    name,
		path:    name,
		logger:  slog.Default(),
		objects: NewRegistry[*Object](name, "object"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Path returns the import path of the module package.
func (m *Module) Path() string { return m.path }

// Logger returns the module logger.
func (m *Module) Logger() *slog.Logger { return m.logger }

// NewObject creates an empty object in the module. Object names are unique
// within a module.
func (m *Module) NewObject(name string, site Site) (*Object, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	o := newObject(m, name, site)
	if err := m.objects.Insert(o); err != nil {
		return nil, err
	}
	m.logger.Debug("object created", "object", o.QualifiedName(), "site", site)
	return o, nil
}

// Object returns the object with the given name.
func (m *Module) Object(name string) (*Object, bool) {
	return m.objects.Lookup(name)
}

// Objects returns the objects in declaration order.
func (m *Module) Objects() []*Object {
	return m.objects.All()
}

// ResolveAll resolves every object in declaration order. Objects resolve
// independently, so a failing object does not stop the others; the failures
// are returned together.
func (m *Module) ResolveAll() error {
	var errs []error
	for _, o := range m.objects.All() {
		errs = append(errs, o.ResolveAll())
	}
	return lowcode.NewAggregateError(errs...)
}

// FinalizeSettings finalizes every object in declaration order.
func (m *Module) FinalizeSettings() error {
	for _, o := range m.objects.All() {
		if err := o.FinalizeSettings(); err != nil {
			return err
		}
	}
	return nil
}
