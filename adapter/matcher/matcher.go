// Package matcher contains the query matcher: compilation of MongoDB-style
// criteria documents into a conjunction of per-field predicates, and their
// evaluation against candidate documents with array-traversal semantics.
package matcher

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/lackofbrilliance/mingo/adapter/comparer"
	"github.com/lackofbrilliance/mingo/adapter/fieldnavigator"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

var (
	// ErrMixedOperators is returned when a predicate document mixes
	// operator keys with normal fields.
	ErrMixedOperators = errors.New("cannot mix operators and normal fields")
)

// selfKey is the synthetic field under which a bare value is wrapped when a
// predicate-only query (such as an $elemMatch operand) is matched against a
// non-document value.
const selfKey = "\x00self"

// builtin operator names, reserved against extension collisions.
var builtins = []string{
	"$and", "$or", "$nor", "$where",
	"$eq", "$ne", "$in", "$nin", "$lt", "$lte", "$gt", "$gte",
	"$mod", "$regex", "$options", "$exists", "$all", "$size",
	"$elemMatch", "$type", "$not",
}

func init() {
	registry.Default.Reserve(domain.ClassQuery, builtins...)
}

// ErrWhereType is returned when a $where operand is neither a predicate
// function nor an expression string.
type ErrWhereType struct {
	Actual any
}

// Error implements [error].
func (e ErrWhereType) Error() string {
	return fmt.Sprintf("$where operand should be a predicate function or expression string, got %T", e.Actual)
}

// Matcher compiles and evaluates criteria. It implements [domain.Tester]
// once a query has been set.
type Matcher struct {
	comparer domain.Comparer
	nav      domain.FieldNavigator
	registry *registry.Registry
	query    Query
}

// NewMatcher returns a new matcher.
func NewMatcher(options ...Option) *Matcher {
	m := &Matcher{
		comparer: comparer.NewComparer(),
		nav:      fieldnavigator.NewFieldNavigator(),
		registry: registry.Default,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// SetQuery compiles the criteria. Compilation happens once; Test runs the
// compiled conjunction.
func (m *Matcher) SetQuery(criteria any) error {
	qry, err := m.makeQuery(criteria)
	if err == nil {
		m.query = qry
	}
	return err
}

func (m *Matcher) makeQuery(criteria any) (qry Query, err error) {
	if criteria == nil {
		return qry, nil
	}
	entries, _, err := structure.Seq2(criteria)
	if err != nil {
		// a bare value is a predicate over the wrapped self key, as
		// produced by $elemMatch over primitives
		qry = Query{Sub: true, Lo: []LogicOp{
			{Type: And, Rules: []FieldRule{
				{Addr: []string{selfKey}, Conds: []Cond{
					{Op: Eq, Val: criteria, Name: "$eq"},
				}},
			}},
		}}
		return qry, nil
	}

	lo := LogicOp{Type: And}
	for key, value := range entries {
		if strings.HasPrefix(key, "$") {
			if m.isPredicateOperator(key) {
				// dollar operators at the root apply to the
				// wrapped self key
				rule, err := m.makeDollarRule(selfKey, []string{selfKey}, criteria)
				if err != nil {
					return qry, err
				}
				return Query{Sub: true, Lo: []LogicOp{
					{Type: And, Rules: []FieldRule{rule}},
				}}, nil
			}
			compound, err := m.makeCompound(key, value)
			if err != nil {
				return qry, err
			}
			lo.Sub = append(lo.Sub, compound)
			continue
		}
		rule, err := m.makeFieldRule(key, value)
		if err != nil {
			return qry, err
		}
		lo.Rules = append(lo.Rules, rule)
	}
	return Query{Lo: []LogicOp{lo}}, nil
}

// isPredicateOperator reports whether a root-level dollar key turns the whole
// criteria into a predicate over the bare value, which happens for
// $elemMatch operands like {$gt: 5}.
func (m *Matcher) isPredicateOperator(key string) bool {
	switch key {
	case "$and", "$or", "$nor", "$where":
		return false
	default:
		return true
	}
}

func (m *Matcher) makeCompound(name string, value any) (LogicOp, error) {
	switch name {
	case "$and":
		return m.makeLogicOp(And, "$and", value)
	case "$or":
		return m.makeLogicOp(Or, "$or", value)
	case "$nor":
		return m.makeLogicOp(Nor, "$nor", value)
	case "$where":
		where, err := m.makeWhere(value)
		if err != nil {
			return LogicOp{}, err
		}
		return LogicOp{Type: Where, Where: &where}, nil
	default:
		return LogicOp{}, domain.ErrUnknownOperator{Class: domain.ClassQuery, Operator: name}
	}
}

func (m *Matcher) makeLogicOp(typ uint8, name string, v any) (LogicOp, error) {
	lo := LogicOp{Type: typ}
	items, l, err := structure.Seq(v)
	if err != nil {
		return lo, fmt.Errorf("%w: %w", domain.ErrOperandType{Operator: name, Want: "list", Actual: v}, err)
	}
	if l == 0 {
		return lo, nil
	}
	lo.Sub = make([]LogicOp, 0, l)
	for item := range items {
		qry, err := m.makeQuery(item)
		if err != nil {
			return lo, err
		}
		lo.Sub = append(lo.Sub, qry.Lo...)
	}
	return lo, nil
}

func (m *Matcher) makeWhere(value any) (func(any) (bool, error), error) {
	switch t := value.(type) {
	case func(any) (bool, error):
		return t, nil
	case func(any) bool:
		return func(v any) (bool, error) { return t(v), nil }, nil
	case string:
		return compileWhere(t)
	default:
		return nil, ErrWhereType{Actual: value}
	}
}

func (m *Matcher) makeFieldRule(field string, obj any) (fr FieldRule, err error) {
	addr, err := m.nav.GetAddress(field)
	if err != nil {
		return fr, err
	}

	switch t := obj.(type) {
	case *regexp.Regexp:
		return FieldRule{Field: field, Addr: addr, Conds: []Cond{{Op: Regex, Val: t, Name: "$regex"}}}, nil
	case time.Time:
		return FieldRule{Field: field, Addr: addr, Conds: []Cond{{Op: Eq, Val: t, Name: "$eq"}}}, nil
	}

	entries, l, err := structure.Seq2(obj)
	if err != nil {
		return FieldRule{Field: field, Addr: addr, Conds: []Cond{{Op: Eq, Val: obj, Name: "$eq"}}}, nil
	}
	if l == 0 {
		return FieldRule{Field: field, Addr: addr, Conds: []Cond{{Op: Eq, Val: obj, Name: "$eq"}}}, nil
	}

	mapping, dollar, err := m.ensureNotMixed(entries, l)
	if err != nil {
		return fr, err
	}
	if dollar > 0 {
		return m.makeDollarRule(field, addr, mapping)
	}
	return FieldRule{Field: field, Addr: addr, Conds: []Cond{{Op: Eq, Val: obj, Name: "$eq"}}}, nil
}

func (m *Matcher) ensureNotMixed(entries func(func(string, any) bool), l int) (map[string]any, int, error) {
	mapping := make(map[string]any, l)
	var dollar, total int
	for k, v := range entries {
		total++
		if strings.HasPrefix(k, "$") {
			dollar++
		}
		mapping[k] = v
	}
	if dollar > 0 && dollar != total {
		return nil, dollar, ErrMixedOperators
	}
	return mapping, dollar, nil
}

func (m *Matcher) makeDollarRule(field string, addr []string, operand any) (fr FieldRule, err error) {
	entries, l, err := structure.Seq2(operand)
	if err != nil {
		return fr, err
	}
	mapping := make(map[string]any, l)
	for k, v := range entries {
		mapping[k] = v
	}

	rule := FieldRule{
		Field: field,
		Addr:  addr,
		Conds: make([]Cond, 0, len(mapping)),
	}

	// $options belongs to $regex and is consumed with it
	options, hasOptions := mapping["$options"].(string)
	delete(mapping, "$options")

	for key, value := range mapping {
		if key == "$regex" {
			cond, err := m.makeRegex(value, options)
			if err != nil {
				return fr, err
			}
			rule.Conds = append(rule.Conds, cond)
			hasOptions = false
			continue
		}
		cond, err := m.makeCond(field, key, value)
		if err != nil {
			return fr, err
		}
		rule.Conds = append(rule.Conds, cond)
	}
	if hasOptions {
		return fr, domain.ErrOperandType{Operator: "$options", Want: "accompanying $regex", Actual: options}
	}
	return rule, nil
}

func (m *Matcher) makeCond(field, k string, v any) (cond Cond, err error) {
	switch k {
	case "$eq":
		return Cond{Op: Eq, Val: v, Name: k}, nil
	case "$ne":
		return Cond{Op: Ne, Val: v, Name: k}, nil
	case "$lt":
		return Cond{Op: Lt, Val: v, Name: k}, nil
	case "$lte":
		return Cond{Op: Lte, Val: v, Name: k}, nil
	case "$gt":
		return Cond{Op: Gt, Val: v, Name: k}, nil
	case "$gte":
		return Cond{Op: Gte, Val: v, Name: k}, nil
	case "$in":
		return m.makeList(In, k, v)
	case "$nin":
		return m.makeList(Nin, k, v)
	case "$exists":
		return Cond{Op: Exists, Val: structure.Truthy(v), Name: k}, nil
	case "$size":
		return m.makeSize(v)
	case "$elemMatch":
		return m.makeElemMatch(v)
	case "$mod":
		return m.makeMod(v)
	case "$all":
		return m.makeAll(v)
	case "$type":
		return m.makeType(v)
	case "$not":
		return m.makeNot(field, v)
	case "$regex":
		return m.makeRegex(v, "")
	default:
		if ext, ok := m.registry.Lookup(domain.ClassQuery, k); ok && ext != nil {
			return Cond{Op: Extension, Val: v, Fn: ext, Name: k}, nil
		}
		return cond, domain.ErrUnknownOperator{Class: domain.ClassQuery, Operator: k}
	}
}

func (m *Matcher) makeList(op uint8, name string, v any) (Cond, error) {
	arr, ok := structure.List(v)
	if !ok {
		return Cond{}, domain.ErrOperandType{Operator: name, Want: "list", Actual: v}
	}
	return Cond{Op: op, Val: arr, Name: name}, nil
}

func (m *Matcher) makeSize(v any) (Cond, error) {
	i, ok := structure.AsInteger(v)
	if !ok {
		return Cond{}, domain.ErrOperandType{Operator: "$size", Want: "integer", Actual: v}
	}
	return Cond{Op: Size, Val: i, Name: "$size"}, nil
}

func (m *Matcher) makeElemMatch(v any) (Cond, error) {
	qry, err := m.makeQuery(v)
	if err != nil {
		return Cond{}, err
	}
	return Cond{Op: ElemMatch, Val: qry, Name: "$elemMatch"}, nil
}

func (m *Matcher) makeMod(v any) (Cond, error) {
	arr, ok := structure.List(v)
	if !ok || len(arr) != 2 {
		return Cond{}, domain.ErrOperandType{Operator: "$mod", Want: "[divisor, remainder]", Actual: v}
	}
	div, dok := structure.AsFloat(arr[0])
	rem, rok := structure.AsFloat(arr[1])
	if !dok || !rok || div == 0 {
		return Cond{}, domain.ErrOperandType{Operator: "$mod", Want: "two numbers with non-zero divisor", Actual: v}
	}
	return Cond{Op: Mod, Val: [2]float64{div, rem}, Name: "$mod"}, nil
}

// allCond carries the two $all forms: a set of $elemMatch queries, or a
// plain subset check.
type allCond struct {
	queries []Query
	values  []any
}

func (m *Matcher) makeAll(v any) (Cond, error) {
	arr, ok := structure.List(v)
	if !ok {
		return Cond{}, domain.ErrOperandType{Operator: "$all", Want: "list", Actual: v}
	}
	var ac allCond
	for _, item := range arr {
		em, ok := m.elemMatchOperand(item)
		if !ok {
			ac.values = append(ac.values, item)
			continue
		}
		qry, err := m.makeQuery(em)
		if err != nil {
			return Cond{}, err
		}
		ac.queries = append(ac.queries, qry)
	}
	if len(ac.queries) > 0 && len(ac.values) > 0 {
		return Cond{}, domain.ErrOperandType{Operator: "$all", Want: "only $elemMatch documents or only values", Actual: v}
	}
	return Cond{Op: All, Val: ac, Name: "$all"}, nil
}

func (m *Matcher) elemMatchOperand(item any) (any, bool) {
	doc, ok := item.(map[string]any)
	if !ok || len(doc) != 1 {
		return nil, false
	}
	em, ok := doc["$elemMatch"]
	return em, ok
}

func (m *Matcher) makeType(v any) (Cond, error) {
	code, ok := structure.AsInteger(v)
	if !ok {
		return Cond{}, domain.ErrOperandType{Operator: "$type", Want: "numeric type code", Actual: v}
	}
	return Cond{Op: Type, Val: code, Name: "$type"}, nil
}

// makeNot compiles a field-level $not: the operand predicate is wrapped in a
// nested rule and negated.
func (m *Matcher) makeNot(field string, v any) (Cond, error) {
	var sub FieldRule
	var err error
	switch t := v.(type) {
	case *regexp.Regexp:
		sub = FieldRule{Field: field, Conds: []Cond{{Op: Regex, Val: t, Name: "$regex"}}}
	default:
		sub, err = m.makeDollarRule(field, nil, t)
		if err != nil {
			return Cond{}, err
		}
	}
	return Cond{Op: Not, Val: sub, Name: "$not"}, nil
}

func (m *Matcher) makeRegex(v any, options string) (Cond, error) {
	switch t := v.(type) {
	case *regexp.Regexp:
		rgx, err := combineRegex(t.String(), options)
		if err != nil {
			return Cond{}, err
		}
		return Cond{Op: Regex, Val: rgx, Name: "$regex"}, nil
	case string:
		rgx, err := combineRegex(t, options)
		if err != nil {
			return Cond{}, err
		}
		return Cond{Op: Regex, Val: rgx, Name: "$regex"}, nil
	default:
		return Cond{}, domain.ErrOperandType{Operator: "$regex", Want: "regex or pattern string", Actual: v}
	}
}

// combineRegex merges $options flags into the pattern.
func combineRegex(pattern, options string) (*regexp.Regexp, error) {
	var flags strings.Builder
	for _, f := range options {
		switch f {
		case 'i', 'm', 's':
			_, _ = flags.WriteRune(f)
		case 'x':
			// extended mode has no Go equivalent and is ignored
		default:
			return nil, domain.ErrOperandType{Operator: "$options", Want: "imsx flags", Actual: options}
		}
	}
	if flags.Len() > 0 {
		pattern = "(?" + flags.String() + ")" + pattern
	}
	rgx, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOperandType{Operator: "$regex", Want: "valid pattern", Actual: pattern}, err)
	}
	return rgx, nil
}

// Test implements [domain.Tester].
func (m *Matcher) Test(value any) (bool, error) {
	return m.matchQuery(value, m.query)
}

func (m *Matcher) matchQuery(value any, query Query) (bool, error) {
	doc, ok := value.(map[string]any)
	if !ok || query.Sub {
		doc = map[string]any{selfKey: value}
	}

	for _, lo := range query.Lo {
		matches, err := m.matchLogicOp(doc, lo)
		if err != nil || !matches {
			return matches, err
		}
	}
	return true, nil
}

func (m *Matcher) matchLogicOp(doc map[string]any, lo LogicOp) (bool, error) {
	switch lo.Type {
	case And:
		for _, sub := range lo.Sub {
			matches, err := m.matchLogicOp(doc, sub)
			if err != nil || !matches {
				return matches, err
			}
		}
		for _, rule := range lo.Rules {
			matches, err := m.matchRule(doc, rule)
			if err != nil || !matches {
				return matches, err
			}
		}
		return true, nil
	case Or:
		for _, sub := range lo.Sub {
			matches, err := m.matchLogicOp(doc, sub)
			if err != nil || matches {
				return matches, err
			}
		}
		return false, nil
	case Nor:
		for _, sub := range lo.Sub {
			matches, err := m.matchLogicOp(doc, sub)
			if err != nil {
				return false, err
			}
			if matches {
				return false, nil
			}
		}
		return true, nil
	case Where:
		return (*lo.Where)(doc)
	default:
		return false, nil
	}
}

func (m *Matcher) matchRule(doc map[string]any, rule FieldRule) (bool, error) {
	values, expanded, err := m.nav.GetField(doc, rule.Addr...)
	if err != nil {
		return false, err
	}
	for n := range rule.Conds {
		matches, err := m.matchCond(doc, rule, values, expanded, &rule.Conds[n])
		if err != nil || !matches {
			return matches, err
		}
	}
	return true, nil
}

func (m *Matcher) matchCond(doc map[string]any, rule FieldRule, values []domain.GetSetter, expanded bool, cond *Cond) (bool, error) {
	switch cond.Op {
	case Eq:
		return m.eq(values, cond.Val)
	case Ne:
		ok, err := m.eq(values, cond.Val)
		return !ok, err
	case Lt:
		return m.compareAny(values, cond.Val, func(c int) bool { return c < 0 })
	case Lte:
		return m.compareAny(values, cond.Val, func(c int) bool { return c <= 0 })
	case Gt:
		return m.compareAny(values, cond.Val, func(c int) bool { return c > 0 })
	case Gte:
		return m.compareAny(values, cond.Val, func(c int) bool { return c >= 0 })
	case In:
		return m.in(values, cond.Val.([]any))
	case Nin:
		ok, err := m.in(values, cond.Val.([]any))
		return !ok, err
	case Exists:
		return m.exists(values, cond.Val.(bool))
	case Size:
		return m.size(values, expanded, cond.Val.(int))
	case ElemMatch:
		return m.elemMatch(values, cond.Val.(Query))
	case Regex:
		return m.regex(values, cond.Val.(*regexp.Regexp))
	case Mod:
		return m.mod(values, cond.Val.([2]float64))
	case All:
		return m.all(values, cond.Val.(allCond))
	case Type:
		return m.typeCode(values, cond.Val.(int))
	case Not:
		sub := cond.Val.(FieldRule)
		for n := range sub.Conds {
			matches, err := m.matchCond(doc, rule, values, expanded, &sub.Conds[n])
			if err != nil {
				return false, err
			}
			if !matches {
				return true, nil
			}
		}
		return false, nil
	case Extension:
		return m.extension(doc, rule, values, expanded, cond)
	default:
		return false, nil
	}
}

// concrete unwraps a GetSetter, reporting whether the value is defined.
func (m *Matcher) concrete(v any) (any, bool) {
	for {
		g, ok := v.(domain.Getter)
		if !ok {
			return v, true
		}
		if v, ok = g.Get(); !ok {
			return nil, false
		}
	}
}

// eq reports whether any resolved value, or any element of a resolved array,
// equals the operand.
func (m *Matcher) eq(values []domain.GetSetter, operand any) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if arr, isArr := actual.([]any); isArr {
			contains, err := structure.Contains(arr, operand, m.equal)
			if err != nil || contains {
				return contains, err
			}
		}
		c, err := m.comparer.Compare(actual, operand)
		if err != nil {
			return false, err
		}
		if c == 0 {
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) equal(a, b any) (bool, error) {
	c, err := m.comparer.Compare(a, b)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

// compareAny reports whether any resolved value, or any element of a
// resolved array, is comparable with the operand and satisfies accept.
func (m *Matcher) compareAny(values []domain.GetSetter, operand any, accept func(int) bool) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if arr, isArr := actual.([]any); isArr {
			for _, item := range arr {
				if !m.comparer.Comparable(item, operand) {
					continue
				}
				c, err := m.comparer.Compare(item, operand)
				if err != nil {
					return false, err
				}
				if accept(c) {
					return true, nil
				}
			}
			continue
		}
		if !m.comparer.Comparable(actual, operand) {
			continue
		}
		c, err := m.comparer.Compare(actual, operand)
		if err != nil {
			return false, err
		}
		if accept(c) {
			return true, nil
		}
	}
	return false, nil
}

// in reports whether any resolved value is contained in the operand list;
// array values match on non-empty intersection.
func (m *Matcher) in(values []domain.GetSetter, operand []any) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if arr, isArr := actual.([]any); isArr {
			for _, item := range arr {
				contains, err := structure.Contains(operand, item, m.equal)
				if err != nil || contains {
					return contains, err
				}
			}
		}
		contains, err := structure.Contains(operand, actual, m.equal)
		if err != nil || contains {
			return contains, err
		}
	}
	return false, nil
}

func (m *Matcher) exists(values []domain.GetSetter, want bool) (bool, error) {
	exists := false
	for _, value := range values {
		if _, ok := value.Get(); ok {
			exists = true
			break
		}
	}
	return exists == want, nil
}

func (m *Matcher) size(values []domain.GetSetter, expanded bool, size int) (bool, error) {
	if expanded {
		return len(values) == size, nil
	}
	actual, ok := m.concrete(values[0])
	if !ok {
		return false, nil
	}
	arr, ok := actual.([]any)
	if !ok {
		return false, nil
	}
	return len(arr) == size, nil
}

func (m *Matcher) elemMatch(values []domain.GetSetter, query Query) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		arr, ok := actual.([]any)
		if !ok {
			arr = []any{actual}
		}
		for _, elem := range arr {
			matches, err := m.matchQuery(elem, query)
			if err != nil || matches {
				return matches, err
			}
		}
	}
	return false, nil
}

// regex reports whether any resolved string value, or string element of a
// resolved array, matches.
func (m *Matcher) regex(values []domain.GetSetter, rgx *regexp.Regexp) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if arr, isArr := actual.([]any); isArr {
			for _, item := range arr {
				if s, ok := item.(string); ok && rgx.MatchString(s) {
					return true, nil
				}
			}
			continue
		}
		if s, ok := actual.(string); ok && rgx.MatchString(s) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Matcher) mod(values []domain.GetSetter, divRem [2]float64) (bool, error) {
	match := func(v any) bool {
		f, ok := structure.AsFloat(v)
		return ok && math.Mod(f, divRem[0]) == divRem[1]
	}
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if arr, isArr := actual.([]any); isArr {
			for _, item := range arr {
				if match(item) {
					return true, nil
				}
			}
			continue
		}
		if match(actual) {
			return true, nil
		}
	}
	return false, nil
}

// all checks the two $all forms: every $elemMatch query matches some element,
// or the operand values are a subset of the resolved array.
func (m *Matcher) all(values []domain.GetSetter, ac allCond) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		arr, ok := actual.([]any)
		if !ok {
			continue
		}
		matches, err := m.allIn(arr, ac)
		if err != nil || matches {
			return matches, err
		}
	}
	return false, nil
}

func (m *Matcher) allIn(arr []any, ac allCond) (bool, error) {
	for _, qry := range ac.queries {
		found := false
		for _, elem := range arr {
			matches, err := m.matchQuery(elem, qry)
			if err != nil {
				return false, err
			}
			if matches {
				found = true
				break
			}
		}
		if !found {
			return false, nil
		}
	}
	for _, want := range ac.values {
		contains, err := structure.Contains(arr, want, m.equal)
		if err != nil {
			return false, err
		}
		if !contains {
			return false, nil
		}
	}
	return true, nil
}

// MongoDB numeric type codes.
const (
	typeDouble = 1
	typeString = 2
	typeObject = 3
	typeArray  = 4
	typeBinary = 5
	typeBool   = 8
	typeDate   = 9
	typeNull   = 10
	typeRegex  = 11
	typeInt32  = 16
	typeInt64  = 18
)

func typeOf(v any) int {
	switch v.(type) {
	case float32, float64:
		return typeDouble
	case string:
		return typeString
	case map[string]any, domain.D:
		return typeObject
	case []any:
		return typeArray
	case []byte:
		return typeBinary
	case bool:
		return typeBool
	case time.Time:
		return typeDate
	case nil:
		return typeNull
	case *regexp.Regexp:
		return typeRegex
	case int64:
		return typeInt64
	case int, int8, int16, int32, uint, uint8, uint16, uint32, uint64:
		return typeInt32
	default:
		return 0
	}
}

func (m *Matcher) typeCode(values []domain.GetSetter, code int) (bool, error) {
	for _, value := range values {
		actual, ok := m.concrete(value)
		if !ok {
			continue
		}
		if typeOf(actual) == code {
			return true, nil
		}
		if arr, isArr := actual.([]any); isArr {
			for _, item := range arr {
				if typeOf(item) == code {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// extension resolves the selector and hands the value to the user operator,
// validating the result as a bool or a nested [domain.Tester].
func (m *Matcher) extension(doc map[string]any, rule FieldRule, values []domain.GetSetter, expanded bool, cond *Cond) (bool, error) {
	fn, ok := cond.Fn.(domain.QueryOperator)
	if !ok {
		return false, domain.ErrOperatorType{Class: domain.ClassQuery, Name: cond.Name, Value: cond.Fn}
	}

	var resolved any = domain.Missing
	if expanded {
		arr := make([]any, 0, len(values))
		for _, value := range values {
			v, ok := m.concrete(value)
			if !ok {
				continue
			}
			arr = append(arr, v)
		}
		resolved = arr
	} else if v, ok := m.concrete(values[0]); ok {
		resolved = v
	}

	res, err := fn(rule.Field, resolved, cond.Val)
	if err != nil {
		return false, err
	}
	switch t := res.(type) {
	case bool:
		return t, nil
	case domain.Tester:
		return t.Test(doc)
	default:
		return false, domain.ErrOperatorType{Class: domain.ClassQuery, Name: cond.Name, Value: res}
	}
}
