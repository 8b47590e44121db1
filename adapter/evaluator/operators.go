package evaluator

import (
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

type aggFn func(e *Evaluator, obj, expr any, opt *computeOpts) (any, error)

type groupFn func(e *Evaluator, values []any) (any, error)

// aggregateOps is the builtin aggregate operator table. Handlers receive the
// raw operand and evaluate it themselves, so conditionals and variable
// binders can control evaluation order.
//
// Populated in init below rather than in this declaration: the handlers call
// back into operand evaluation, which dispatches through this table, and a
// literal initializer here would create a package initialization cycle.
var aggregateOps map[string]aggFn

func buildAggregateOps() map[string]aggFn {
	return map[string]aggFn{
		// arithmetic
		"$abs":      opAbs,
		"$add":      opAdd,
		"$ceil":     opCeil,
		"$divide":   opDivide,
		"$exp":      opExp,
		"$floor":    opFloor,
		"$ln":       opLn,
		"$log":      opLog,
		"$log10":    opLog10,
		"$mod":      opModExpr,
		"$multiply": opMultiply,
		"$pow":      opPow,
		"$sqrt":     opSqrt,
		"$subtract": opSubtract,
		"$trunc":    opTrunc,

		// string
		"$concat":       opConcat,
		"$indexOfBytes": opIndexOfBytes,
		"$split":        opSplit,
		"$strcasecmp":   opStrcasecmp,
		"$substr":       opSubstr,
		"$toLower":      opToLower,
		"$toUpper":      opToUpper,

		// date
		"$dayOfYear":    opDayOfYear,
		"$dayOfMonth":   opDayOfMonth,
		"$dayOfWeek":    opDayOfWeek,
		"$year":         opYear,
		"$month":        opMonth,
		"$week":         opWeek,
		"$hour":         opHour,
		"$minute":       opMinute,
		"$second":       opSecond,
		"$millisecond":  opMillisecond,
		"$dateToString": opDateToString,

		// array
		"$arrayElemAt":  opArrayElemAt,
		"$concatArrays": opConcatArrays,
		"$filter":       opFilter,
		"$indexOfArray": opIndexOfArray,
		"$isArray":      opIsArray,
		"$range":        opRange,
		"$reverseArray": opReverseArray,
		"$reduce":       opReduce,
		"$size":         opSizeExpr,
		"$slice":        opSliceExpr,
		"$zip":          opZip,

		// set
		"$setEquals":       opSetEquals,
		"$setIntersection": opSetIntersection,
		"$setDifference":   opSetDifference,
		"$setUnion":        opSetUnion,
		"$setIsSubset":     opSetIsSubset,
		"$allElementsTrue": opAllElementsTrue,
		"$anyElementTrue":  opAnyElementTrue,

		// boolean
		"$and": opAndExpr,
		"$or":  opOrExpr,
		"$not": opNotExpr,

		// comparison
		"$cmp": opCmp,
		"$eq":  opEqExpr,
		"$ne":  opNeExpr,
		"$gt":  opGtExpr,
		"$gte": opGteExpr,
		"$lt":  opLtExpr,
		"$lte": opLteExpr,

		// conditional
		"$cond":   opCond,
		"$ifNull": opIfNull,
		"$switch": opSwitch,

		// variable
		"$let": opLet,
		"$map": opMap,

		// literal
		"$literal": opLiteral,
	}
}

// groupOps is the builtin accumulator table. Handlers reduce an already
// evaluated list of values.
var groupOps map[string]groupFn

func buildGroupOps() map[string]groupFn {
	return map[string]groupFn{
		"$sum":        accSum,
		"$avg":        accAvg,
		"$min":        accMin,
		"$max":        accMax,
		"$push":       accPush,
		"$addToSet":   accAddToSet,
		"$first":      accFirst,
		"$last":       accLast,
		"$stdDevPop":  accStdDevPop,
		"$stdDevSamp": accStdDevSamp,
	}
}

func init() {
	aggregateOps = buildAggregateOps()
	groupOps = buildGroupOps()

	names := make([]string, 0, len(aggregateOps))
	for name := range aggregateOps {
		names = append(names, name)
	}
	registry.Default.Reserve(domain.ClassAggregate, names...)

	names = names[:0]
	for name := range groupOps {
		names = append(names, name)
	}
	registry.Default.Reserve(domain.ClassGroup, names...)
}

// AggregateNames returns the builtin aggregate operator names.
func AggregateNames() []string {
	names := make([]string, 0, len(aggregateOps))
	for name := range aggregateOps {
		names = append(names, name)
	}
	return names
}

// GroupNames returns the builtin accumulator names.
func GroupNames() []string {
	names := make([]string, 0, len(groupOps))
	for name := range groupOps {
		names = append(names, name)
	}
	return names
}

// Accumulate reduces a partition by evaluating expr against every document
// and handing the values to the named accumulator. Used by `$group`.
func (e *Evaluator) Accumulate(docs []any, name string, expr any) (any, error) {
	fn, ok := groupOps[name]
	if !ok {
		if ext, found := e.registry.Lookup(domain.ClassGroup, name); found && ext != nil {
			return ext.(domain.GroupOperator)(e, docs, expr)
		}
		return nil, domain.ErrUnknownOperator{Class: domain.ClassGroup, Operator: name}
	}
	values := make([]any, len(docs))
	for n, doc := range docs {
		v, err := e.Compute(doc, expr, "")
		if err != nil {
			return nil, err
		}
		values[n] = v
	}
	return fn(e, values)
}

// IsAccumulator reports whether name is a registered accumulator.
func (e *Evaluator) IsAccumulator(name string) bool {
	if _, ok := groupOps[name]; ok {
		return true
	}
	ext, found := e.registry.Lookup(domain.ClassGroup, name)
	return found && ext != nil
}

// operand evaluates an operator's operand.
func (e *Evaluator) operand(obj, expr any, opt *computeOpts) (any, error) {
	return e.compute(obj, expr, "", opt)
}

// operandList evaluates an operand that must be a list; arity < 0 accepts
// any length.
func (e *Evaluator) operandList(obj, expr any, opt *computeOpts, name string, arity int) ([]any, error) {
	v, err := e.operand(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: name, Want: "list", Actual: v}
	}
	if arity >= 0 && len(arr) != arity {
		return nil, domain.ErrOperandType{Operator: name, Want: "list of fixed arity", Actual: arr}
	}
	return arr, nil
}

// unary evaluates an operand that may be given bare or as a one-element
// list.
func (e *Evaluator) unary(obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.operand(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	if arr, ok := v.([]any); ok && len(arr) == 1 {
		return arr[0], nil
	}
	return v, nil
}

// truthy evaluates expr and reports its truthiness.
func (e *Evaluator) truthy(obj, expr any, opt *computeOpts) (bool, error) {
	v, err := e.operand(obj, expr, opt)
	if err != nil {
		return false, err
	}
	return structure.Truthy(v), nil
}
