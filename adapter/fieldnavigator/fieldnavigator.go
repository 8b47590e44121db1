// Package fieldnavigator contains the default [domain.FieldNavigator]
// implementation: dot-path traversal over document maps with array broadcast.
package fieldnavigator

import (
	"strconv"
	"strings"

	"github.com/lackofbrilliance/mingo/domain"
)

// FieldNavigator implements [domain.FieldNavigator].
type FieldNavigator struct{}

// NewFieldNavigator returns a new instance of [domain.FieldNavigator].
func NewFieldNavigator() domain.FieldNavigator {
	return &FieldNavigator{}
}

// GetAddress implements [domain.FieldNavigator].
func (fn *FieldNavigator) GetAddress(field string) ([]string, error) {
	return strings.Split(field, "."), nil
}

// GetField implements [domain.FieldNavigator].
//
// A non-index segment reaching an array broadcasts into every element and the
// expanded flag is reported to the caller. Elements produced by a broadcast
// do not broadcast again for the same segment, so consecutive array-valued
// keys resolve the way a single level of traversal would.
func (fn *FieldNavigator) GetField(obj any, fieldParts ...string) ([]domain.GetSetter, bool, error) {
	return fn.getField(obj, fieldParts, false)
}

// EnsureField implements [domain.FieldNavigator]. Missing intermediate
// documents are created on the way to the terminal segment.
func (fn *FieldNavigator) EnsureField(obj any, fieldParts ...string) ([]domain.GetSetter, error) {
	res, _, err := fn.getField(obj, fieldParts, true)
	return res, err
}

type walker struct {
	ensure   bool
	expanded bool
}

func (fn *FieldNavigator) getField(obj any, fieldParts []string, ensure bool) ([]domain.GetSetter, bool, error) {
	invalid := []domain.GetSetter{NewGetSetterEmpty()}
	if obj == nil || len(fieldParts) == 0 {
		return invalid, false, nil
	}
	w := &walker{ensure: ensure}
	res := w.walk(obj, nil, fieldParts, true)
	if len(res) == 0 {
		return invalid, w.expanded, nil
	}
	return res, w.expanded, nil
}

// walk resolves parts against v. gs addresses v inside its parent container,
// nil at the root. expandable is false for values produced by a broadcast,
// which must not broadcast again for the current segment.
func (w *walker) walk(v any, gs domain.GetSetter, parts []string, expandable bool) []domain.GetSetter {
	if len(parts) == 0 {
		if gs == nil {
			return []domain.GetSetter{NewReadOnlyGetSetter(v)}
		}
		return []domain.GetSetter{gs}
	}

	part := parts[0]
	switch t := v.(type) {
	case map[string]any:
		if _, ok := t[part]; !ok {
			if !w.ensure {
				return []domain.GetSetter{NewGetSetterEmpty()}
			}
			if len(parts) > 1 {
				t[part] = map[string]any{}
			} else {
				t[part] = nil
			}
		}
		return w.walk(t[part], NewGetSetterWithMap(t, part), parts[1:], true)
	case []any:
		i, err := strconv.Atoi(part)
		if err != nil {
			return w.broadcast(t, parts, expandable)
		}
		if i < 0 || i >= len(t) {
			if !w.ensure || i < 0 {
				return []domain.GetSetter{NewGetSetterEmpty()}
			}
			grown := make([]any, i+1)
			copy(grown, t)
			if gs == nil {
				return []domain.GetSetter{NewGetSetterEmpty()}
			}
			gs.Set(grown)
			t = grown
		}
		return w.walk(t[i], NewGetSetterWithArrayIndex(t, i), parts[1:], true)
	default:
		return []domain.GetSetter{NewGetSetterEmpty()}
	}
}

func (w *walker) broadcast(t []any, parts []string, expandable bool) []domain.GetSetter {
	if !expandable {
		// element of an already-broadcast array; a second broadcast
		// for the same segment is never performed
		return []domain.GetSetter{NewGetSetterEmpty()}
	}
	w.expanded = true
	res := make([]domain.GetSetter, 0, len(t))
	for n := range t {
		res = append(res, w.walk(t[n], NewGetSetterWithArrayIndex(t, n), parts, false)...)
	}
	return res
}
