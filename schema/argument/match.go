package argument

import "fmt"

// Matcher handles every argument variant. Adding a variant to the package adds
// a method here, so every matcher in the code base stops compiling until it
// handles the new variant.
type Matcher[R any] interface {
	Text(*Text) R
	Integer(*Integer) R
	Reference(*Reference) R
	ObjectID(*ObjectID) R
	Array(*Array) R
	FaultyText(*FaultyText) R
}

// Match dispatches c to the matcher method of its variant.
func Match[R any](c Content, m Matcher[R]) R {
	switch v := c.(type) {
	case *Text:
		return m.Text(v)
	case *Integer:
		return m.Integer(v)
	case *Reference:
		return m.Reference(v)
	case *ObjectID:
		return m.ObjectID(v)
	case *Array:
		return m.Array(v)
	case *FaultyText:
		return m.FaultyText(v)
	}
	// Content is sealed by an unexported method, so only nil gets here.
	panic(fmt.Sprintf("argument: unexpected content %T", c))
}
