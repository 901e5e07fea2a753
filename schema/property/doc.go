// Package property provides the built-in properties objects are composed from.
//
// A property contributes stored elements, indexes and data access methods to
// the object it is attached to, and may depend on other properties of the
// same object.
//
// # Built-in Properties
//
//	// STOREDOBJECT: the object is persisted; contributes INSERT
//	property.NewStoredObject()
//
//	// UNIQUEIDENTIFIED: requires STOREDOBJECT; contributes the ID element,
//	// its unique index and READONE, READSEVERAL, DELETE, UPDATE, REFRESH
//	property.NewUniqueIdentified()
//
//	// NAMED: requires UNIQUEIDENTIFIED; contributes the NAME element and RENAME
//	property.NewNamed()
//
// # Composing an Object
//
// Properties are attached in dependency order and resolved in that order:
//
//	customer, _ := m.NewObject("Customer", "")
//	_ = customer.Attach(property.NewStoredObject())
//	id := property.NewUniqueIdentified()
//	_ = customer.Attach(id)
//	_ = customer.ResolveAll()
//
//	// Actions on the object id are attached through the identity property.
//	_ = id.AddActionOnObjectIDInBand(
//	    design.NewAction("Archive", "", argument.ID("CUSTOMER", customer)),
//	    true,
//	)
//
// # Creating Custom Properties
//
// Custom properties embed design.PropertyBase and implement Resolve:
//
//	type Audited struct {
//	    design.PropertyBase
//	}
//
//	func (p *Audited) Resolve(r *design.Resolution) error {
//	    r.AddElement(design.NewElement("UPDATED", argument.Int("UPDATED"), design.Display{}))
//	    return nil
//	}
package property
