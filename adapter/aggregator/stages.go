package aggregator

import (
	"math/rand/v2"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

func (a *Aggregator) limit(docs []any, operand any) ([]any, error) {
	n, ok := structure.AsInteger(operand)
	if !ok || n < 0 {
		return nil, domain.ErrOperandType{Operator: "$limit", Want: "non-negative integer", Actual: operand}
	}
	return docs[:min(n, len(docs))], nil
}

func (a *Aggregator) skip(docs []any, operand any) ([]any, error) {
	n, ok := structure.AsInteger(operand)
	if !ok || n < 0 {
		return nil, domain.ErrOperandType{Operator: "$skip", Want: "non-negative integer", Actual: operand}
	}
	return docs[min(n, len(docs)):], nil
}

func (a *Aggregator) count(docs []any, operand any) ([]any, error) {
	name, ok := operand.(string)
	if !ok || name == "" {
		return nil, domain.ErrOperandType{Operator: "$count", Want: "non-empty field name", Actual: operand}
	}
	return []any{map[string]any{name: len(docs)}}, nil
}

// sample picks size documents uniformly, with replacement.
func (a *Aggregator) sample(docs []any, operand any) ([]any, error) {
	spec, ok := operand.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$sample", Want: "document with size", Actual: operand}
	}
	size, ok := structure.AsInteger(spec["size"])
	if !ok || size < 0 {
		return nil, domain.ErrOperandType{Operator: "$sample", Want: "non-negative size", Actual: spec["size"]}
	}
	if len(docs) == 0 {
		return []any{}, nil
	}
	res := make([]any, size)
	for n := range res {
		res[n] = docs[rand.IntN(len(docs))]
	}
	return res, nil
}

// unwind emits one document per element of the target array, replacing the
// array with the element.
func (a *Aggregator) unwind(docs []any, operand any) ([]any, error) {
	path, ok := operand.(string)
	if !ok || len(path) < 2 || path[0] != '$' {
		return nil, domain.ErrOperandType{Operator: "$unwind", Want: "dollar-prefixed field path", Actual: operand}
	}
	parts, err := a.nav.GetAddress(path[1:])
	if err != nil {
		return nil, err
	}

	res := make([]any, 0, len(docs))
	for _, doc := range docs {
		values, _, err := a.nav.GetField(doc, parts...)
		if err != nil {
			return nil, err
		}
		value, defined := values[0].Get()
		if !defined {
			return nil, domain.ErrOperandType{Operator: "$unwind", Want: "array-valued field", Actual: nil}
		}
		arr, ok := value.([]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$unwind", Want: "array-valued field", Actual: value}
		}
		for _, elem := range arr {
			clone := structure.Clone(doc)
			created, err := a.nav.EnsureField(clone, parts...)
			if err != nil {
				return nil, err
			}
			for _, c := range created {
				c.Set(elem)
			}
			res = append(res, clone)
		}
	}
	return res, nil
}

// addFields evaluates every target expression and inserts the result,
// creating missing intermediate documents.
func (a *Aggregator) addFields(docs []any, operand any) ([]any, error) {
	entries, _, err := structure.Seq2(operand)
	if err != nil {
		return nil, domain.ErrOperandType{Operator: "$addFields", Want: "document", Actual: operand}
	}

	res := make([]any, len(docs))
	for n, doc := range docs {
		clone := structure.Clone(doc)
		for key, expr := range entries {
			v, err := a.ev.Compute(doc, expr, "")
			if err != nil {
				return nil, err
			}
			if domain.IsMissing(v) {
				continue
			}
			parts, err := a.nav.GetAddress(key)
			if err != nil {
				return nil, err
			}
			created, err := a.nav.EnsureField(clone, parts...)
			if err != nil {
				return nil, err
			}
			for _, c := range created {
				c.Set(v)
			}
		}
		res[n] = clone
	}
	return res, nil
}

func (a *Aggregator) replaceRoot(docs []any, operand any) ([]any, error) {
	spec, ok := operand.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$replaceRoot", Want: "document with newRoot", Actual: operand}
	}
	expr, ok := spec["newRoot"]
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$replaceRoot", Want: "document with newRoot", Actual: operand}
	}
	res := make([]any, len(docs))
	for n, doc := range docs {
		v, err := a.ev.Compute(doc, expr, "")
		if err != nil {
			return nil, err
		}
		root, ok := v.(map[string]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$replaceRoot", Want: "object-valued newRoot", Actual: v}
		}
		res[n] = root
	}
	return res, nil
}

// sortByCount is sugar for a $group on the expression with a count, followed
// by a descending $sort on the count.
func (a *Aggregator) sortByCount(docs []any, operand any) ([]any, error) {
	grouped, err := a.group(docs, domain.D{
		{Key: a.config.IDKey, Value: operand},
		{Key: "count", Value: map[string]any{"$sum": 1}},
	})
	if err != nil {
		return nil, err
	}
	return a.sort(grouped, domain.D{{Key: "count", Value: -1}})
}
