// Package comparer contains the default [domain.Comparer] implementation. It
// imposes a total order over document values: Missing < null < numbers <
// strings < booleans < dates < arrays < objects < regexps. NaN compares equal
// to NaN and below every other number.
package comparer

import (
	"cmp"
	"regexp"
	"slices"
	"time"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// Comparer implements domain.Comparer.
type Comparer struct{}

// NewComparer returns a new implementation of domain.Comparer.
func NewComparer() domain.Comparer {
	return &Comparer{}
}

// Comparable implements domain.Comparer.
func (c *Comparer) Comparable(a, b any) bool {
	if !c.isSet(a) || !c.isSet(b) {
		return false
	}
	a, b = c.getVal(a), c.getVal(b)

	if structure.IsNumber(a) {
		return structure.IsNumber(b)
	}
	equal := false
	switch a.(type) {
	case string:
		_, equal = b.(string)
	case bool:
		_, equal = b.(bool)
	case time.Time:
		_, equal = b.(time.Time)
	default:
		return false
	}
	return equal
}

// Compare implements domain.Comparer.
func (c *Comparer) Compare(a any, b any) (int, error) {
	// Missing (equivalent to js undefined)
	if c, ok := c.checkUndefined(a, b); ok {
		return c, nil
	}

	a, b = c.getVal(a), c.getVal(b)

	if c, ok := c.checkNil(a, b); ok {
		return c, nil
	}
	if c, ok := c.checkNumbers(a, b); ok {
		return c, nil
	}
	if c, ok := c.checkStrings(a, b); ok {
		return c, nil
	}
	if c, ok := c.checkBooleans(a, b); ok {
		return c, nil
	}
	if c, ok := c.checkTime(a, b); ok {
		return c, nil
	}
	if c, ok, err := c.checkArrays(a, b); err != nil || ok {
		return c, err
	}
	if c, ok, err := c.checkObjects(a, b); err != nil || ok {
		return c, err
	}
	if c, ok := c.checkRegexps(a, b); ok {
		return c, nil
	}
	return 0, domain.ErrOperandType{Operator: "compare", Want: "document value", Actual: a}
}

func (c *Comparer) isSet(a any) bool {
	if domain.IsMissing(a) {
		return false
	}
	if g, ok := a.(domain.Getter); ok {
		_, set := g.Get()
		return set
	}
	return true
}

func (c *Comparer) getVal(a any) any {
	for {
		g, ok := a.(domain.Getter)
		if !ok {
			return a
		}
		if a, ok = g.Get(); !ok {
			return domain.Missing
		}
	}
}

func (c *Comparer) checkUndefined(a, b any) (int, bool) {
	if !c.isSet(a) {
		if !c.isSet(b) {
			return 0, true
		}
		return -1, true
	}
	if !c.isSet(b) {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) checkNil(a, b any) (int, bool) {
	if a == nil {
		if b == nil {
			return 0, true
		}
		return -1, true
	}
	if b == nil {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) checkNumbers(a, b any) (int, bool) {
	fa, aok := structure.AsFloat(a)
	fb, bok := structure.AsFloat(b)
	if aok && bok {
		return c.compareFloats(fa, fb), true
	}
	if aok {
		return -1, true
	}
	if bok {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) compareFloats(a, b float64) int {
	// cmp.Compare sorts NaN equal to itself and below every other number
	return cmp.Compare(a, b)
}

func (c *Comparer) checkStrings(a, b any) (int, bool) {
	if a, ok := a.(string); ok {
		if b, ok := b.(string); ok {
			return cmp.Compare(a, b), true
		}
		return -1, true
	}
	if _, ok := b.(string); ok {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) checkBooleans(a, b any) (int, bool) {
	if a, ok := a.(bool); ok {
		if b, ok := b.(bool); ok {
			if a == b {
				return 0, true
			}
			if !a {
				return -1, true
			}
			return 1, true
		}
		return -1, true
	}
	if _, ok := b.(bool); ok {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) checkTime(a, b any) (int, bool) {
	if a, ok := a.(time.Time); ok {
		if b, ok := b.(time.Time); ok {
			return a.Compare(b), true
		}
		return -1, true
	}
	if _, ok := b.(time.Time); ok {
		return 1, true
	}
	return 0, false
}

func (c *Comparer) checkArrays(a, b any) (int, bool, error) {
	aArr, aok := a.([]any)
	bArr, bok := b.([]any)
	if aok && bok {
		for n := range min(len(aArr), len(bArr)) {
			comp, err := c.Compare(aArr[n], bArr[n])
			if err != nil || comp != 0 {
				return comp, true, err
			}
		}
		return cmp.Compare(len(aArr), len(bArr)), true, nil
	}
	if aok {
		return -1, true, nil
	}
	if bok {
		return 1, true, nil
	}
	return 0, false, nil
}

func (c *Comparer) checkObjects(a, b any) (int, bool, error) {
	aDoc, aok := c.asObject(a)
	bDoc, bok := c.asObject(b)
	if aok && bok {
		return c.compareObjects(aDoc, bDoc)
	}
	if aok {
		return -1, true, nil
	}
	if bok {
		return 1, true, nil
	}
	return 0, false, nil
}

func (c *Comparer) asObject(a any) (map[string]any, bool) {
	switch t := a.(type) {
	case map[string]any:
		return t, true
	case domain.D:
		res := make(map[string]any, len(t))
		for _, e := range t {
			res[e.Key] = e.Value
		}
		return res, true
	default:
		return nil, false
	}
}

func (c *Comparer) compareObjects(a, b map[string]any) (int, bool, error) {
	aKeys := slices.Sorted(func(yield func(string) bool) {
		for k := range a {
			if !yield(k) {
				return
			}
		}
	})
	bKeys := slices.Sorted(func(yield func(string) bool) {
		for k := range b {
			if !yield(k) {
				return
			}
		}
	})
	for n := range min(len(aKeys), len(bKeys)) {
		if comp := cmp.Compare(aKeys[n], bKeys[n]); comp != 0 {
			return comp, true, nil
		}
		comp, err := c.Compare(a[aKeys[n]], b[bKeys[n]])
		if err != nil || comp != 0 {
			return comp, true, err
		}
	}
	return cmp.Compare(len(aKeys), len(bKeys)), true, nil
}

func (c *Comparer) checkRegexps(a, b any) (int, bool) {
	if a, ok := a.(*regexp.Regexp); ok {
		if b, ok := b.(*regexp.Regexp); ok {
			return cmp.Compare(a.String(), b.String()), true
		}
		return -1, true
	}
	if _, ok := b.(*regexp.Regexp); ok {
		return 1, true
	}
	return 0, false
}
