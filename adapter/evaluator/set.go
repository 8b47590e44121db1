package evaluator

import (
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// hashSet is an insertion-ordered set keyed by the hasher's structural
// identity.
type hashSet struct {
	seen  map[uint64]struct{}
	items []any
}

func (e *Evaluator) newSet(values []any) (*hashSet, error) {
	s := &hashSet{seen: make(map[uint64]struct{}, len(values))}
	for _, v := range values {
		if _, err := s.add(e, v); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *hashSet) add(e *Evaluator, v any) (bool, error) {
	h, err := e.hasher.Hash(v)
	if err != nil {
		return false, err
	}
	if _, ok := s.seen[h]; ok {
		return false, nil
	}
	s.seen[h] = struct{}{}
	s.items = append(s.items, v)
	return true, nil
}

func (s *hashSet) has(e *Evaluator, v any) (bool, error) {
	h, err := e.hasher.Hash(v)
	if err != nil {
		return false, err
	}
	_, ok := s.seen[h]
	return ok, nil
}

// Unique collapses a list to its hash-distinct elements, preserving first
// occurrence order.
func (e *Evaluator) Unique(values []any) ([]any, error) {
	s, err := e.newSet(values)
	if err != nil {
		return nil, err
	}
	return s.items, nil
}

// setLists evaluates the operand as a list of lists.
func (e *Evaluator) setLists(obj, expr any, opt *computeOpts, name string, arity int) ([][]any, error) {
	args, err := e.operandList(obj, expr, opt, name, arity)
	if err != nil {
		return nil, err
	}
	res := make([][]any, len(args))
	for n, arg := range args {
		arr, ok := arg.([]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: name, Want: "list of lists", Actual: arg}
		}
		res[n] = arr
	}
	return res, nil
}

func opSetEquals(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$setEquals", -1)
	if err != nil {
		return nil, err
	}
	if len(lists) < 2 {
		return nil, domain.ErrOperandType{Operator: "$setEquals", Want: "at least two lists", Actual: expr}
	}
	first, err := e.newSet(lists[0])
	if err != nil {
		return nil, err
	}
	for _, list := range lists[1:] {
		other, err := e.newSet(list)
		if err != nil {
			return nil, err
		}
		if len(other.items) != len(first.items) {
			return false, nil
		}
		for _, item := range other.items {
			ok, err := first.has(e, item)
			if err != nil {
				return nil, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

func opSetIntersection(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$setIntersection", -1)
	if err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return []any{}, nil
	}
	res, err := e.newSet(lists[0])
	if err != nil {
		return nil, err
	}
	for _, list := range lists[1:] {
		other, err := e.newSet(list)
		if err != nil {
			return nil, err
		}
		kept := &hashSet{seen: make(map[uint64]struct{}, len(res.items))}
		for _, item := range res.items {
			ok, err := other.has(e, item)
			if err != nil {
				return nil, err
			}
			if ok {
				if _, err := kept.add(e, item); err != nil {
					return nil, err
				}
			}
		}
		res = kept
	}
	return res.items, nil
}

func opSetUnion(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$setUnion", -1)
	if err != nil {
		return nil, err
	}
	res := &hashSet{seen: make(map[uint64]struct{})}
	for _, list := range lists {
		for _, item := range list {
			if _, err := res.add(e, item); err != nil {
				return nil, err
			}
		}
	}
	return res.items, nil
}

func opSetDifference(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$setDifference", 2)
	if err != nil {
		return nil, err
	}
	other, err := e.newSet(lists[1])
	if err != nil {
		return nil, err
	}
	res := &hashSet{seen: make(map[uint64]struct{}, len(lists[0]))}
	for _, item := range lists[0] {
		ok, err := other.has(e, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			if _, err := res.add(e, item); err != nil {
				return nil, err
			}
		}
	}
	return res.items, nil
}

func opSetIsSubset(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$setIsSubset", 2)
	if err != nil {
		return nil, err
	}
	super, err := e.newSet(lists[1])
	if err != nil {
		return nil, err
	}
	for _, item := range lists[0] {
		ok, err := super.has(e, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func opAllElementsTrue(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$allElementsTrue", 1)
	if err != nil {
		return nil, err
	}
	for _, item := range lists[0] {
		if !structure.Truthy(item) {
			return false, nil
		}
	}
	return true, nil
}

func opAnyElementTrue(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	lists, err := e.setLists(obj, expr, opt, "$anyElementTrue", 1)
	if err != nil {
		return nil, err
	}
	for _, item := range lists[0] {
		if structure.Truthy(item) {
			return true, nil
		}
	}
	return false, nil
}
