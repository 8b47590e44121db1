package aggregator

import (
	"strings"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// group partitions the stream by the computed identity expression and emits
// one document per partition with every accumulator applied. The caller's
// group specification is never modified.
func (a *Aggregator) group(docs []any, operand any) ([]any, error) {
	entries, _, err := structure.Seq2(operand)
	if err != nil {
		return nil, domain.ErrOperandType{Operator: "$group", Want: "document", Actual: operand}
	}

	idKey := a.config.IDKey
	idExpr := any(domain.Missing)
	accs := make(domain.D, 0)
	for key, value := range entries {
		if key == idKey {
			idExpr = value
			continue
		}
		accs = append(accs, domain.E{Key: key, Value: value})
	}

	keys, partitions, err := a.partition(docs, idExpr)
	if err != nil {
		return nil, err
	}

	res := make([]any, len(partitions))
	for n, part := range partitions {
		out := make(map[string]any, len(accs)+1)
		if !domain.IsMissing(keys[n]) {
			out[idKey] = keys[n]
		}
		for _, acc := range accs {
			v, err := a.accumulate(part, acc.Key, acc.Value)
			if err != nil {
				return nil, err
			}
			if domain.IsMissing(v) {
				continue
			}
			out[acc.Key] = v
		}
		res[n] = out
	}
	return res, nil
}

// partition splits docs by the hash of their computed key, preserving first
// seen order of both partitions and their members.
func (a *Aggregator) partition(docs []any, idExpr any) ([]any, [][]any, error) {
	if domain.IsMissing(idExpr) {
		if len(docs) == 0 {
			return nil, nil, nil
		}
		return []any{domain.Missing}, [][]any{docs}, nil
	}

	index := make(map[uint64]int)
	keys := make([]any, 0)
	partitions := make([][]any, 0)

	for _, doc := range docs {
		key, err := a.ev.Compute(doc, idExpr, "")
		if err != nil {
			return nil, nil, err
		}
		h, err := a.hasher.Hash(key)
		if err != nil {
			return nil, nil, err
		}
		n, ok := index[h]
		if !ok {
			n = len(partitions)
			index[h] = n
			keys = append(keys, key)
			partitions = append(partitions, nil)
		}
		partitions[n] = append(partitions[n], doc)
	}
	return keys, partitions, nil
}

// accumulate recognizes a single accumulator application, either bare or
// one level nested, and rejects anything else.
func (a *Aggregator) accumulate(docs []any, name string, spec any) (any, error) {
	entries, l, err := structure.Seq2(spec)
	if err != nil || l != 1 {
		return nil, domain.ErrOperandType{Operator: name, Want: "single accumulator document", Actual: spec}
	}
	for accName, expr := range entries {
		if !strings.HasPrefix(accName, "$") {
			return nil, domain.ErrOperandType{Operator: name, Want: "accumulator operator", Actual: accName}
		}
		return a.ev.Accumulate(docs, accName, expr)
	}
	return nil, domain.ErrOperandType{Operator: name, Want: "single accumulator document", Actual: spec}
}
