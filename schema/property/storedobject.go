package property

import "github.com/syssam/lowcode/compiler/design"

// StoredObject marks an object as persisted. It contributes the INSERT
// mutation other properties hook into.
type StoredObject struct {
	design.PropertyBase
}

var _ design.Property = (*StoredObject)(nil)

// NewStoredObject returns an unattached STOREDOBJECT property.
func NewStoredObject() *StoredObject {
	return &StoredObject{PropertyBase: design.NewPropertyBase(KindStoredObject)}
}

// Resolve contributes INSERT(OBJECT).
func (p *StoredObject) Resolve(r *design.Resolution) error {
	insert, err := onObject("INSERT", r.Object(), design.Mutation())
	if err != nil {
		return err
	}
	r.AddMethod(insert)
	return nil
}

// ExtraImports returns the storage runtime.
func (p *StoredObject) ExtraImports() []string {
	return []string{StorageRuntime}
}
