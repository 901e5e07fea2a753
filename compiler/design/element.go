package design

import (
	"slices"

	"github.com/syssam/lowcode/schema/argument"
)

// Visibility is the display tier of a stored element.
type Visibility uint8

// Display tiers.
const (
	VisibilityNormal Visibility = iota
	VisibilityTitle
	VisibilityHidden
)

// String returns the tier name.
func (v Visibility) String() string {
	switch v {
	case VisibilityNormal:
		return "normal"
	case VisibilityTitle:
		return "title"
	case VisibilityHidden:
		return "hidden"
	default:
		return "invalid"
	}
}

// Display holds the display metadata of a stored element.
type Display struct {
	Label      string
	Help       string
	Visibility Visibility
	// Priority orders elements on display; lower comes first.
	Priority int
	// Width is the display width in characters, 0 for the default.
	Width int
}

// StoredElement is a persisted field contributed by exactly one property.
type StoredElement struct {
	name    string
	content argument.Content
	display Display
	owner   Property
}

// NewElement returns a stored element holding values of content. An empty
// display label defaults to the label of content.
func NewElement(name string, content argument.Content, display Display) *StoredElement {
	if display.Label == "" && content != nil {
		display.Label = content.Label()
	}
	return &StoredElement{name: name, content: content, display: display}
}

// Name returns the element name.
func (e *StoredElement) Name() string { return e.name }

// Content returns the argument describing the element values.
func (e *StoredElement) Content() argument.Content { return e.content }

// Display returns the display metadata.
func (e *StoredElement) Display() Display { return e.display }

// Owner returns the property that contributed the element, nil until committed.
func (e *StoredElement) Owner() Property { return e.owner }

// Index is a named lookup key over stored elements of one object.
type Index struct {
	name     string
	unique   bool
	elements []*StoredElement
	owner    Property
}

// NewIndex returns an index over the given elements.
func NewIndex(name string, unique bool, elements ...*StoredElement) *Index {
	return &Index{name: name, unique: unique, elements: slices.Clone(elements)}
}

// Name returns the index name.
func (i *Index) Name() string { return i.name }

// Unique reports whether the index is a uniqueness constraint.
func (i *Index) Unique() bool { return i.unique }

// Elements returns the indexed elements in key order.
func (i *Index) Elements() []*StoredElement { return slices.Clone(i.elements) }

// Owner returns the property that contributed the index, nil until committed.
func (i *Index) Owner() Property { return i.owner }
