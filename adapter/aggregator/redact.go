package aggregator

import (
	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// redactAction is the typed rendering of a redact sentinel at the stage
// boundary.
type redactAction uint8

const (
	redactValue redactAction = iota
	redactKeep
	redactPrune
	redactDescend
)

func actionOf(v any) redactAction {
	switch v {
	case evaluator.SentinelKeep:
		return redactKeep
	case evaluator.SentinelPrune:
		return redactPrune
	case evaluator.SentinelDescend:
		return redactDescend
	default:
		return redactValue
	}
}

// redact evaluates the expression per document; sentinel results are
// interpreted as actions, anything else replaces the document.
func (a *Aggregator) redact(docs []any, expr any) ([]any, error) {
	res := make([]any, 0, len(docs))
	for _, doc := range docs {
		v, err := a.redactDoc(doc, expr)
		if err != nil {
			return nil, err
		}
		if domain.IsMissing(v) {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

func (a *Aggregator) redactDoc(doc any, expr any) (any, error) {
	v, err := a.ev.Compute(doc, expr, "")
	if err != nil {
		return nil, err
	}
	switch actionOf(v) {
	case redactKeep:
		return doc, nil
	case redactPrune:
		return domain.Missing, nil
	case redactDescend:
		if !hasCond(expr) {
			return doc, nil
		}
		return a.descend(doc, expr)
	default:
		return v, nil
	}
}

// descend recurses into every sub-document and array element of a cloned
// document, pruning the ones that redact away.
func (a *Aggregator) descend(doc any, expr any) (any, error) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc, nil
	}
	clone := structure.Clone(obj).(map[string]any)
	for key, value := range clone {
		switch t := value.(type) {
		case map[string]any:
			v, err := a.redactDoc(t, expr)
			if err != nil {
				return nil, err
			}
			if domain.IsMissing(v) {
				delete(clone, key)
				continue
			}
			clone[key] = v
		case []any:
			kept := make([]any, 0, len(t))
			for _, elem := range t {
				sub, ok := elem.(map[string]any)
				if !ok {
					kept = append(kept, elem)
					continue
				}
				v, err := a.redactDoc(sub, expr)
				if err != nil {
					return nil, err
				}
				if domain.IsMissing(v) {
					continue
				}
				kept = append(kept, v)
			}
			clone[key] = kept
		}
	}
	return clone, nil
}

// hasCond reports whether the expression tree contains a $cond application,
// the precondition for descending.
func hasCond(expr any) bool {
	switch t := expr.(type) {
	case map[string]any:
		for k, v := range t {
			if k == "$cond" || hasCond(v) {
				return true
			}
		}
	case domain.D:
		for _, e := range t {
			if e.Key == "$cond" || hasCond(e.Value) {
				return true
			}
		}
	case []any:
		for _, v := range t {
			if hasCond(v) {
				return true
			}
		}
	}
	return false
}
