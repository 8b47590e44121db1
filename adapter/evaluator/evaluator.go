// Package evaluator contains the expression evaluator: recursive
// interpretation of aggregation expression trees with field paths, system
// variables and operator dispatch.
package evaluator

import (
	"strings"

	"github.com/lackofbrilliance/mingo/adapter/comparer"
	"github.com/lackofbrilliance/mingo/adapter/fieldnavigator"
	"github.com/lackofbrilliance/mingo/adapter/hasher"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// System variables and redact sentinels.
const (
	VarRoot    = "$$ROOT"
	VarCurrent = "$$CURRENT"

	SentinelKeep    = "$$KEEP"
	SentinelPrune   = "$$PRUNE"
	SentinelDescend = "$$DESCEND"
)

// Evaluator interprets expression trees. It implements [domain.Evaluator].
type Evaluator struct {
	comparer domain.Comparer
	hasher   domain.Hasher
	nav      domain.FieldNavigator
	registry *registry.Registry
}

// NewEvaluator returns a new expression evaluator.
func NewEvaluator(options ...Option) *Evaluator {
	e := &Evaluator{
		comparer: comparer.NewComparer(),
		hasher:   hasher.NewHasher(),
		nav:      fieldnavigator.NewFieldNavigator(),
		registry: registry.Default,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// computeOpts carries per-evaluation state: the root document captured on the
// outermost call and the variable environment built up by $let, $map, $filter
// and $reduce. Documents are never written during evaluation.
type computeOpts struct {
	root any
	env  map[string]any
}

func (o *computeOpts) withVar(name string, value any) *computeOpts {
	env := make(map[string]any, len(o.env)+1)
	for k, v := range o.env {
		env[k] = v
	}
	env[name] = value
	return &computeOpts{root: o.root, env: env}
}

// Compute implements [domain.Evaluator]. The field parameter carries the key
// under which expr appeared, which is significant for operator dispatch; pass
// an empty string otherwise.
func (e *Evaluator) Compute(obj, expr any, field string) (any, error) {
	return e.compute(obj, expr, field, &computeOpts{root: obj})
}

// ComputeRooted is Compute with an explicit root for `$$ROOT`, for evaluating
// sub-expressions against a document derived from that root.
func (e *Evaluator) ComputeRooted(root, obj, expr any, field string) (any, error) {
	return e.compute(obj, expr, field, &computeOpts{root: root})
}

func (e *Evaluator) compute(obj, expr any, field string, opt *computeOpts) (any, error) {
	if field != "" && strings.HasPrefix(field, "$") {
		if v, handled, err := e.dispatch(obj, expr, field, opt); handled {
			return v, err
		}
	}

	switch t := expr.(type) {
	case string:
		if strings.HasPrefix(t, "$") {
			return e.resolveExpr(obj, t, opt)
		}
		return t, nil
	case []any:
		res := make([]any, len(t))
		for n, elem := range t {
			v, err := e.compute(obj, elem, "", opt)
			if err != nil {
				return nil, err
			}
			res[n] = v
		}
		return res, nil
	case map[string]any:
		return e.computeObject(obj, t, len(t), opt)
	case domain.D:
		return e.computeObject(obj, t, len(t), opt)
	default:
		return structure.Clone(expr), nil
	}
}

// dispatch routes an operator application: aggregate operators receive the
// raw operand, group operators receive their fully evaluated operand, which
// must be a list.
func (e *Evaluator) dispatch(obj, expr any, field string, opt *computeOpts) (any, bool, error) {
	if fn, ok := aggregateOps[field]; ok {
		v, err := fn(e, obj, expr, opt)
		return v, true, err
	}
	if fn, ok := groupOps[field]; ok {
		arr, err := e.groupOperand(obj, expr, field, opt)
		if err != nil {
			return nil, true, err
		}
		v, err := fn(e, arr)
		return v, true, err
	}
	if ext, ok := e.registry.Lookup(domain.ClassAggregate, field); ok && ext != nil {
		v, err := ext.(domain.AggregateOperator)(e, obj, expr)
		return v, true, err
	}
	if ext, ok := e.registry.Lookup(domain.ClassGroup, field); ok && ext != nil {
		arr, err := e.groupOperand(obj, expr, field, opt)
		if err != nil {
			return nil, true, err
		}
		v, err := ext.(domain.GroupOperator)(e, arr, nil)
		return v, true, err
	}
	return nil, false, nil
}

func (e *Evaluator) groupOperand(obj, expr any, field string, opt *computeOpts) ([]any, error) {
	v, err := e.compute(obj, expr, "", opt)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: field, Want: "list", Actual: v}
	}
	return arr, nil
}

// computeObject evaluates a document-shaped expression: either an operator
// application (exactly one dollar key) or a record of sub-expressions.
func (e *Evaluator) computeObject(obj, expr any, size int, opt *computeOpts) (any, error) {
	entries, _, err := structure.Seq2(expr)
	if err != nil {
		return nil, err
	}

	for k := range entries {
		if e.isOperator(k) {
			if size != 1 {
				return nil, domain.ErrOperatorApplication{Operator: k, Keys: size}
			}
			break
		}
	}

	res := make(map[string]any, size)
	for k, v := range entries {
		if e.isOperator(k) {
			return e.compute(obj, v, k, opt)
		}
		computed, err := e.compute(obj, v, k, opt)
		if err != nil {
			return nil, err
		}
		if domain.IsMissing(computed) {
			continue
		}
		res[k] = computed
	}
	return res, nil
}

func (e *Evaluator) isOperator(name string) bool {
	if !strings.HasPrefix(name, "$") {
		return false
	}
	if _, ok := aggregateOps[name]; ok {
		return true
	}
	if _, ok := groupOps[name]; ok {
		return true
	}
	if ext, ok := e.registry.Lookup(domain.ClassAggregate, name); ok && ext != nil {
		return true
	}
	if ext, ok := e.registry.Lookup(domain.ClassGroup, name); ok && ext != nil {
		return true
	}
	return false
}

// resolveExpr interprets a dollar-prefixed string: a system variable, a
// redact sentinel, a bound variable or a field path.
func (e *Evaluator) resolveExpr(obj any, s string, opt *computeOpts) (any, error) {
	switch s {
	case VarRoot:
		return opt.root, nil
	case VarCurrent:
		return obj, nil
	case SentinelKeep, SentinelPrune, SentinelDescend:
		return s, nil
	}
	if rest, ok := strings.CutPrefix(s, VarRoot+"."); ok {
		return e.resolvePath(opt.root, rest)
	}
	if rest, ok := strings.CutPrefix(s, VarCurrent+"."); ok {
		return e.resolvePath(obj, rest)
	}
	if strings.HasPrefix(s, "$$") {
		// user variables may be spelled $$name as well as $name
		if v, ok, err := e.resolveVar(s[2:], opt); ok {
			return v, err
		}
		return nil, domain.ErrOperandType{Operator: s, Want: "system variable", Actual: s}
	}

	path := s[1:]
	if v, ok, err := e.resolveVar(path, opt); ok {
		return v, err
	}
	return e.resolvePath(obj, path)
}

// resolveVar resolves a path whose head is a bound variable name.
func (e *Evaluator) resolveVar(path string, opt *computeOpts) (any, bool, error) {
	head, rest, cut := strings.Cut(path, ".")
	bound, ok := opt.env[head]
	if !ok {
		return nil, false, nil
	}
	if !cut {
		return bound, true, nil
	}
	v, err := e.resolvePath(bound, rest)
	return v, true, err
}

// resolvePath resolves a dot path, broadcasting over arrays and unwrapping
// unit-length broadcast results. Unresolved paths yield Missing.
func (e *Evaluator) resolvePath(obj any, path string) (any, error) {
	parts, err := e.nav.GetAddress(path)
	if err != nil {
		return nil, err
	}
	values, expanded, err := e.nav.GetField(obj, parts...)
	if err != nil {
		return nil, err
	}
	if !expanded {
		v, ok := values[0].Get()
		if !ok {
			return domain.Missing, nil
		}
		return v, nil
	}
	res := make([]any, 0, len(values))
	for _, value := range values {
		v, ok := value.Get()
		if !ok {
			res = append(res, domain.Missing)
			continue
		}
		res = append(res, v)
	}
	if len(res) == 1 {
		return res[0], nil
	}
	return res, nil
}
