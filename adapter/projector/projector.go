// Package projector contains the `$project` implementation: validation of
// inclusion/exclusion shapes, expression projections, and the projection
// operators `$elemMatch`, `$slice`, `$stdDevPop` and `$stdDevSamp`.
package projector

import (
	"errors"
	"strings"

	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/adapter/fieldnavigator"
	"github.com/lackofbrilliance/mingo/adapter/matcher"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

var (
	// ErrMixOmitType is returned when a projection document mixes
	// inclusions and exclusions for fields other than the identity field.
	ErrMixOmitType = errors.New("cannot both keep and omit fields except for the identity field")
)

var builtins = []string{"$elemMatch", "$slice", "$stdDevPop", "$stdDevSamp"}

func init() {
	registry.Default.Reserve(domain.ClassProjection, builtins...)
}

// Projector implements projection over document streams.
type Projector struct {
	nav      domain.FieldNavigator
	ev       *evaluator.Evaluator
	registry *registry.Registry
	config   domain.Config
}

// NewProjector returns a new projector.
func NewProjector(options ...Option) *Projector {
	p := &Projector{
		nav:      fieldnavigator.NewFieldNavigator(),
		registry: registry.Default,
		config:   domain.DefaultConfig(),
	}
	for _, option := range options {
		option(p)
	}
	if p.ev == nil {
		p.ev = evaluator.NewEvaluator(
			evaluator.WithFieldNavigator(p.nav),
			evaluator.WithRegistry(p.registry),
		)
	}
	return p
}

// field is one compiled projection entry.
type field struct {
	name string
	addr []string
	spec any
	kind uint8
}

const (
	kindInclude uint8 = iota
	kindExclude
	kindCompute
	kindOperator
)

// Project applies the projection to every document.
func (p *Projector) Project(docs []any, proj any) ([]any, error) {
	fields, exclude, err := p.compile(proj)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return docs, nil
	}

	res := make([]any, len(docs))
	for n, item := range docs {
		doc, ok := item.(map[string]any)
		if !ok {
			res[n] = item
			continue
		}
		if exclude {
			res[n], err = p.negativeProject(doc, fields)
		} else {
			res[n], err = p.positiveProject(doc, fields)
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// compile validates the projection shape: all non-identity keys must agree
// on inclusion or exclusion, with the identity field free to be excluded
// alongside inclusions.
func (p *Projector) compile(proj any) ([]field, bool, error) {
	if proj == nil {
		return nil, false, nil
	}
	entries, l, err := structure.Seq2(proj)
	if err != nil {
		return nil, false, domain.ErrOperandType{Operator: "$project", Want: "document", Actual: proj}
	}
	if l == 0 {
		return nil, false, nil
	}

	idKey := p.config.IDKey
	idMentioned := false
	idIncluded := true
	fields := make([]field, 0, l)
	includes, excludes := 0, 0

	for key, spec := range entries {
		f := field{name: key, spec: spec}
		if f.addr, err = p.nav.GetAddress(key); err != nil {
			return nil, false, err
		}
		f.kind = p.kindOf(spec)

		if key == idKey {
			idMentioned = true
			idIncluded = f.kind != kindExclude
			if f.kind == kindInclude || f.kind == kindExclude {
				continue
			}
		}
		switch f.kind {
		case kindExclude:
			excludes++
		default:
			includes++
		}
		if includes > 0 && excludes > 0 {
			return nil, false, ErrMixOmitType
		}
		fields = append(fields, f)
	}

	if excludes > 0 || (idMentioned && !idIncluded && len(fields) == 0) {
		// pure exclusion, possibly of the identity field alone
		if idMentioned && !idIncluded {
			fields = append(fields, field{name: idKey, addr: []string{idKey}, kind: kindExclude})
		}
		return fields, true, nil
	}

	// inclusion mode carries the identity field unless excluded
	if !idMentioned || idIncluded {
		fields = append(fields, field{name: idKey, addr: []string{idKey}, kind: kindInclude})
	}
	return fields, false, nil
}

func (p *Projector) kindOf(spec any) uint8 {
	switch t := spec.(type) {
	case bool:
		if t {
			return kindInclude
		}
		return kindExclude
	case string:
		return kindCompute
	case map[string]any:
		if len(t) == 1 {
			for k := range t {
				if p.isProjectionOperator(k) {
					return kindOperator
				}
			}
		}
		return kindCompute
	default:
		if n, ok := structure.AsFloat(t); ok {
			if n == 0 {
				return kindExclude
			}
			return kindInclude
		}
		return kindCompute
	}
}

func (p *Projector) isProjectionOperator(name string) bool {
	if !strings.HasPrefix(name, "$") {
		return false
	}
	for _, b := range builtins {
		if name == b {
			return true
		}
	}
	ext, ok := p.registry.Lookup(domain.ClassProjection, name)
	return ok && ext != nil
}

func (p *Projector) negativeProject(doc map[string]any, fields []field) (map[string]any, error) {
	res := structure.Clone(doc).(map[string]any)
	for _, f := range fields {
		values, _, err := p.nav.GetField(res, f.addr...)
		if err != nil {
			return nil, err
		}
		for _, value := range values {
			value.Unset()
		}
	}
	return res, nil
}

func (p *Projector) positiveProject(doc map[string]any, fields []field) (map[string]any, error) {
	res := make(map[string]any, len(fields))
	for _, f := range fields {
		switch f.kind {
		case kindInclude:
			if err := p.copyField(doc, res, f); err != nil {
				return nil, err
			}
		case kindCompute:
			v, err := p.ev.Compute(doc, f.spec, f.name)
			if err != nil {
				return nil, err
			}
			if err := p.setField(res, f, v); err != nil {
				return nil, err
			}
		case kindOperator:
			v, err := p.operator(doc, f)
			if err != nil {
				return nil, err
			}
			if err := p.setField(res, f, v); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// copyField rebuilds the minimal subtree containing the resolved value, so
// nesting survives the projection.
func (p *Projector) copyField(doc, res map[string]any, f field) error {
	values, expanded, err := p.nav.GetField(doc, f.addr...)
	if err != nil {
		return err
	}
	v, ok := p.readFields(values, expanded)
	if !ok {
		return nil
	}
	return p.setField(res, f, v)
}

func (p *Projector) readFields(values []domain.GetSetter, expanded bool) (any, bool) {
	if !expanded {
		return values[0].Get()
	}
	res := make([]any, len(values))
	for n, value := range values {
		v, _ := value.Get()
		res[n] = v
	}
	return res, true
}

func (p *Projector) setField(res map[string]any, f field, v any) error {
	if domain.IsMissing(v) {
		return nil
	}
	created, err := p.nav.EnsureField(res, f.addr...)
	if err != nil {
		return err
	}
	for _, c := range created {
		c.Set(v)
	}
	return nil
}

// operator dispatches a single-key projection operator document.
func (p *Projector) operator(doc map[string]any, f field) (any, error) {
	spec := f.spec.(map[string]any)
	var name string
	var operand any
	for k, v := range spec {
		name, operand = k, v
	}

	switch name {
	case "$elemMatch":
		return p.elemMatch(doc, f, operand)
	case "$slice":
		return p.slice(doc, f, operand)
	case "$stdDevPop", "$stdDevSamp":
		return p.ev.Compute(doc, operand, name)
	}

	ext, ok := p.registry.Lookup(domain.ClassProjection, name)
	if !ok || ext == nil {
		return nil, domain.ErrUnknownOperator{Class: domain.ClassProjection, Operator: name}
	}
	fn, ok := ext.(domain.ProjectionOperator)
	if !ok {
		return nil, domain.ErrOperatorType{Class: domain.ClassProjection, Name: name, Value: ext}
	}
	resolved, _ := p.resolve(doc, f)
	return fn(f.name, resolved, operand)
}

func (p *Projector) resolve(doc map[string]any, f field) (any, bool) {
	values, expanded, err := p.nav.GetField(doc, f.addr...)
	if err != nil {
		return nil, false
	}
	return p.readFields(values, expanded)
}

// elemMatch keeps the first element of the resolved array matching the
// criteria.
func (p *Projector) elemMatch(doc map[string]any, f field, criteria any) (any, error) {
	resolved, ok := p.resolve(doc, f)
	if !ok {
		return domain.Missing, nil
	}
	arr, ok := resolved.([]any)
	if !ok {
		return domain.Missing, nil
	}
	m := matcher.NewMatcher(matcher.WithRegistry(p.registry))
	if err := m.SetQuery(criteria); err != nil {
		return nil, err
	}
	for _, elem := range arr {
		matches, err := m.Test(elem)
		if err != nil {
			return nil, err
		}
		if matches {
			return []any{elem}, nil
		}
	}
	return domain.Missing, nil
}

// slice disambiguates the projection form (all-numeric operand applied to
// the resolved array) from the aggregation form.
func (p *Projector) slice(doc map[string]any, f field, operand any) (any, error) {
	if args, ok := operand.([]any); ok {
		for _, arg := range args {
			if !structure.IsNumber(arg) {
				return p.ev.Compute(doc, operand, "$slice")
			}
		}
		resolved, ok := p.resolve(doc, f)
		if !ok {
			return domain.Missing, nil
		}
		arr, ok := resolved.([]any)
		if !ok {
			return domain.Missing, nil
		}
		return evaluator.SliceArray(arr, args)
	}
	n, ok := structure.AsInteger(operand)
	if !ok {
		return p.ev.Compute(doc, operand, "$slice")
	}
	resolved, rok := p.resolve(doc, f)
	if !rok {
		return domain.Missing, nil
	}
	arr, aok := resolved.([]any)
	if !aok {
		return domain.Missing, nil
	}
	return evaluator.SliceArray(arr, []any{n})
}
