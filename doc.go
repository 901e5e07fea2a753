// Package lowcode is the design-time metamodel of a low-code generator.
//
// Model authors compose business objects from reusable properties. Each
// property contributes stored elements, indexes and data access methods to
// its object, and the metamodel validates the composition before any source is
// emitted:
//
//	m, _ := design.NewModule("crm", design.WithPath("example.com/crm"))
//	customer, _ := m.NewObject("Customer", "")
//	_ = customer.Attach(property.NewStoredObject())
//	_ = customer.Attach(property.NewUniqueIdentified())
//	if err := customer.ResolveAll(); err != nil {
//	    // lowcode.IsMissingDependency(err), lowcode.IsDuplicateName(err), ...
//	}
//
// This package holds the error taxonomy shared by every layer. The argument
// type system lives in schema/argument, the composition graph in
// compiler/design, concrete properties in schema/property, and the HCL loader,
// emission backend and snapshot format under compiler/.
package lowcode
