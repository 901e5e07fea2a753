package design

// Sink receives a finalized object from Object.Emit. It is implemented by
// emission backends; the design graph never writes files itself.
type Sink interface {
	// Imports receives the import paths the generated code of p needs.
	Imports(o *Object, p Property, imports []string) error
	// DependentClass receives the body written by p.WriteDependentClass.
	DependentClass(o *Object, p Property, body []byte) error
}
