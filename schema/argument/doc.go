// Package argument provides the closed set of argument descriptors used in
// data access method signatures, action inputs and stored elements.
//
// Variants:
//
//   - String: text with a maximum length
//   - Int: 64-bit integer
//   - Ref: a full object of the model
//   - ID: the technical id of an object of the model
//   - ArrayOf: an ordered collection of another argument
//   - FaultyString: text that generates failing code, used to test error
//     handling downstream; it refuses CopyWithRename
//
// Every variant implements the whole Content interface. Operations a variant
// cannot perform return a *lowcode.UnsupportedOperationError instead of being
// left out.
//
// Code that needs to know the concrete variant uses Match with a Matcher, which
// has one method per variant:
//
//	type isObjectID struct{}
//
//	func (isObjectID) Text(*argument.Text) bool             { return false }
//	func (isObjectID) Integer(*argument.Integer) bool       { return false }
//	func (isObjectID) Reference(*argument.Reference) bool   { return false }
//	func (isObjectID) ObjectID(*argument.ObjectID) bool     { return true }
//	func (isObjectID) Array(*argument.Array) bool           { return false }
//	func (isObjectID) FaultyText(*argument.FaultyText) bool { return false }
//
//	ok := argument.Match[bool](c, isObjectID{})
package argument
