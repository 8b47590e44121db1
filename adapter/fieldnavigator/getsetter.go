package fieldnavigator

import "github.com/lackofbrilliance/mingo/domain"

// ListGetSetter is a [domain.GetSetter] that can read and write a specific
// index in a slice of [any].
type ListGetSetter struct {
	List  []any
	Index int
}

// NewGetSetterWithArrayIndex returns a new implementation of
// [domain.GetSetter] that represents a value from a slice of [any].
func NewGetSetterWithArrayIndex(list []any, index int) domain.GetSetter {
	return &ListGetSetter{List: list, Index: index}
}

// Get implements [domain.GetSetter].
func (l *ListGetSetter) Get() (value any, defined bool) {
	if l.Index >= 0 && l.Index < len(l.List) {
		return l.List[l.Index], true
	}
	return nil, false
}

// Set implements [domain.GetSetter].
func (l *ListGetSetter) Set(value any) {
	if l.Index >= 0 && l.Index < len(l.List) {
		l.List[l.Index] = value
	}
}

// Unset implements [domain.GetSetter].
func (l *ListGetSetter) Unset() {
	if l.Index >= 0 && l.Index < len(l.List) {
		l.List[l.Index] = nil
	}
}

// MapGetSetter is a [domain.GetSetter] that can read and write a specific key
// in a document map.
type MapGetSetter struct {
	Doc map[string]any
	Key string
}

// NewGetSetterWithMap returns a new implementation of [domain.GetSetter] that
// represents a value from a document map.
func NewGetSetterWithMap(doc map[string]any, key string) domain.GetSetter {
	return &MapGetSetter{Doc: doc, Key: key}
}

// Get implements [domain.GetSetter].
func (d *MapGetSetter) Get() (value any, defined bool) {
	value, defined = d.Doc[d.Key]
	return value, defined
}

// Set implements [domain.GetSetter].
func (d *MapGetSetter) Set(value any) {
	d.Doc[d.Key] = value
}

// Unset implements [domain.GetSetter].
func (d *MapGetSetter) Unset() {
	delete(d.Doc, d.Key)
}

// ReadOnlyGetSetter is a [domain.GetSetter] that can only read.
// [domain.GetSetter.Set] and [domain.GetSetter.Unset] are no-op.
type ReadOnlyGetSetter struct {
	V any
}

// NewReadOnlyGetSetter returns a new implementation of [domain.GetSetter]
// that can be read but not modified.
func NewReadOnlyGetSetter(v any) domain.GetSetter {
	return &ReadOnlyGetSetter{V: v}
}

// Get implements [domain.GetSetter].
func (r *ReadOnlyGetSetter) Get() (value any, defined bool) {
	return r.V, true
}

// Set implements [domain.GetSetter].
func (r *ReadOnlyGetSetter) Set(any) {}

// Unset implements [domain.GetSetter].
func (r *ReadOnlyGetSetter) Unset() {}

// EmptyGetSetter is the [domain.GetSetter] of an undefined value.
type EmptyGetSetter struct{}

// NewGetSetterEmpty returns a new [domain.GetSetter] of an undefined value.
func NewGetSetterEmpty() domain.GetSetter {
	return &EmptyGetSetter{}
}

// Get implements [domain.GetSetter].
func (gs *EmptyGetSetter) Get() (any, bool) { return nil, false }

// Set implements [domain.GetSetter].
func (gs *EmptyGetSetter) Set(any) {}

// Unset implements [domain.GetSetter].
func (gs *EmptyGetSetter) Unset() {}
