// Package design holds the composition graph of a low-code model: modules,
// objects, the properties composing them and the registries they populate.
//
// An object is built in passes, each run once:
//
//	m, _ := design.NewModule("crm", design.WithPath("example.com/crm"))
//	customer, _ := m.NewObject("Customer", "crm.hcl:3,3")
//	_ = customer.Attach(property.NewStoredObject())
//	_ = customer.Attach(property.NewUniqueIdentified())
//	if err := m.ResolveAll(); err != nil {
//	    // MissingDependencyError, DuplicateNameError, ...
//	}
//	if err := m.FinalizeSettings(); err != nil {
//	    ...
//	}
//
// A property resolves only once every property it requires is resolved on
// the same object, so attachment order must already be a dependency order.
// Contributions are staged on a Resolution and committed only when the whole
// staging is valid.
package design
