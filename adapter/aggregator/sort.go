package aggregator

import (
	"slices"
	"sort"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// sort orders the stream by the sort specification. Keys are applied in
// reverse declaration order, each pass stable, so ties under a key keep the
// order established by later keys and, ultimately, the input order. Use a
// [domain.D] for multi-key specifications; plain maps iterate in sorted key
// order.
func (a *Aggregator) sort(docs []any, operand any) ([]any, error) {
	entries, l, err := structure.Seq2(operand)
	if err != nil || l == 0 {
		return nil, domain.ErrOperandType{Operator: "$sort", Want: "document of keys and directions", Actual: operand}
	}

	spec := make(domain.D, 0, l)
	for key, dir := range entries {
		d, ok := structure.AsInteger(dir)
		if !ok || (d != 1 && d != -1) {
			return nil, domain.ErrOperandType{Operator: "$sort", Want: "direction 1 or -1", Actual: dir}
		}
		spec = append(spec, domain.E{Key: key, Value: d})
	}

	res := slices.Clone(docs)
	var sortErr error
	for n := len(spec) - 1; n >= 0; n-- {
		key, dir := spec[n].Key, spec[n].Value.(int)
		parts, err := a.nav.GetAddress(key)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(res, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			c, err := a.compareAt(res[i], res[j], parts)
			if err != nil {
				sortErr = err
				return false
			}
			return c*dir < 0
		})
		if sortErr != nil {
			return nil, sortErr
		}
	}
	return res, nil
}

func (a *Aggregator) compareAt(x, y any, parts []string) (int, error) {
	xv, err := a.valueAt(x, parts)
	if err != nil {
		return 0, err
	}
	yv, err := a.valueAt(y, parts)
	if err != nil {
		return 0, err
	}
	return a.comparer.Compare(xv, yv)
}

func (a *Aggregator) valueAt(doc any, parts []string) (any, error) {
	values, _, err := a.nav.GetField(doc, parts...)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].Get()
	if !ok {
		return domain.Missing, nil
	}
	return v, nil
}
