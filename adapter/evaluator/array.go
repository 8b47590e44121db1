package evaluator

import (
	"slices"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

func opArrayElemAt(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$arrayElemAt", 2)
	if err != nil {
		return nil, err
	}
	arr, ok := args[0].([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$arrayElemAt", Want: "list", Actual: args[0]}
	}
	idx, ok := structure.AsInteger(args[1])
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$arrayElemAt", Want: "integer index", Actual: args[1]}
	}
	if idx < 0 {
		idx += len(arr)
	}
	if idx < 0 || idx >= len(arr) {
		return domain.Missing, nil
	}
	return arr[idx], nil
}

func opConcatArrays(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$concatArrays", -1)
	if err != nil {
		return nil, err
	}
	res := make([]any, 0, len(args))
	for _, arg := range args {
		if structure.IsNil(arg) {
			return nil, nil
		}
		arr, ok := arg.([]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$concatArrays", Want: "list", Actual: arg}
		}
		res = append(res, arr...)
	}
	return res, nil
}

func opIndexOfArray(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$indexOfArray", -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 4 {
		return nil, domain.ErrOperandType{Operator: "$indexOfArray", Want: "2 to 4 arguments", Actual: args}
	}
	if structure.IsNil(args[0]) {
		return nil, nil
	}
	arr, ok := args[0].([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$indexOfArray", Want: "list", Actual: args[0]}
	}

	start, end := 0, len(arr)
	if len(args) > 2 {
		n, ok := structure.AsInteger(args[2])
		if !ok || n < 0 {
			return nil, domain.ErrOperandType{Operator: "$indexOfArray", Want: "non-negative start", Actual: args[2]}
		}
		start = min(n, len(arr))
	}
	if len(args) > 3 {
		n, ok := structure.AsInteger(args[3])
		if !ok || n < 0 {
			return nil, domain.ErrOperandType{Operator: "$indexOfArray", Want: "non-negative end", Actual: args[3]}
		}
		end = min(n, len(arr))
	}
	for n := start; n < end; n++ {
		c, err := e.comparer.Compare(arr[n], args[1])
		if err == nil && c == 0 {
			return n, nil
		}
	}
	return -1, nil
}

func opIsArray(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	_, ok := v.([]any)
	return ok, nil
}

func opRange(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$range", -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, domain.ErrOperandType{Operator: "$range", Want: "[start, end, step?]", Actual: args}
	}
	start, sok := structure.AsInteger(args[0])
	end, eok := structure.AsInteger(args[1])
	step := 1
	if len(args) == 3 {
		var ok bool
		if step, ok = structure.AsInteger(args[2]); !ok || step == 0 {
			return nil, domain.ErrOperandType{Operator: "$range", Want: "non-zero integer step", Actual: args[2]}
		}
	}
	if !sok || !eok {
		return nil, domain.ErrOperandType{Operator: "$range", Want: "integer bounds", Actual: args}
	}
	res := make([]any, 0)
	if step > 0 {
		for n := start; n < end; n += step {
			res = append(res, n)
		}
	} else {
		for n := start; n > end; n += step {
			res = append(res, n)
		}
	}
	return res, nil
}

func opReverseArray(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	if structure.IsNil(v) {
		return nil, nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$reverseArray", Want: "list", Actual: v}
	}
	res := slices.Clone(arr)
	slices.Reverse(res)
	return res, nil
}

func opSizeExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$size", Want: "list", Actual: v}
	}
	return len(arr), nil
}

// opSliceExpr implements the aggregation form of $slice: [arr, n] takes the
// first n elements (the last |n| when n is negative); [arr, skip, limit]
// skips then takes.
func opSliceExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$slice", -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, domain.ErrOperandType{Operator: "$slice", Want: "[array, n] or [array, skip, limit]", Actual: args}
	}
	if structure.IsNil(args[0]) {
		return nil, nil
	}
	arr, ok := args[0].([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$slice", Want: "list", Actual: args[0]}
	}
	return SliceArray(arr, args[1:])
}

// SliceArray applies the one- and two-argument slice semantics shared by the
// aggregation operator and the projection operator.
func SliceArray(arr []any, args []any) (any, error) {
	first, ok := structure.AsInteger(args[0])
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$slice", Want: "integer", Actual: args[0]}
	}
	if len(args) == 1 {
		if first < 0 {
			start := max(0, len(arr)+first)
			return slices.Clone(arr[start:]), nil
		}
		return slices.Clone(arr[:min(first, len(arr))]), nil
	}
	limit, ok := structure.AsInteger(args[1])
	if !ok || limit <= 0 {
		return nil, domain.ErrOperandType{Operator: "$slice", Want: "positive limit", Actual: args[1]}
	}
	skip := first
	if skip < 0 {
		skip = max(0, len(arr)+skip)
	}
	if skip >= len(arr) {
		return []any{}, nil
	}
	return slices.Clone(arr[skip:min(skip+limit, len(arr))]), nil
}

func opFilter(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$filter", Want: "document with input, as and cond", Actual: expr}
	}
	input, err := e.operand(obj, spec["input"], opt)
	if err != nil {
		return nil, err
	}
	arr, ok := input.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$filter", Want: "list input", Actual: input}
	}
	name := "this"
	if as, ok := spec["as"].(string); ok && as != "" {
		name = as
	}
	res := make([]any, 0, len(arr))
	for _, elem := range arr {
		keep, err := e.truthy(obj, spec["cond"], opt.withVar(name, elem))
		if err != nil {
			return nil, err
		}
		if keep {
			res = append(res, elem)
		}
	}
	return res, nil
}

func opReduce(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$reduce", Want: "document with input, initialValue and in", Actual: expr}
	}
	input, err := e.operand(obj, spec["input"], opt)
	if err != nil {
		return nil, err
	}
	if structure.IsNil(input) {
		return nil, nil
	}
	arr, ok := input.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$reduce", Want: "list input", Actual: input}
	}
	acc, err := e.operand(obj, spec["initialValue"], opt)
	if err != nil {
		return nil, err
	}
	for _, elem := range arr {
		acc, err = e.operand(obj, spec["in"], opt.withVar("value", acc).withVar("this", elem))
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func opZip(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$zip", Want: "document with inputs", Actual: expr}
	}
	inputsVal, err := e.operand(obj, spec["inputs"], opt)
	if err != nil {
		return nil, err
	}
	inputsArr, ok := inputsVal.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$zip", Want: "list of lists", Actual: inputsVal}
	}

	useLongest, _ := spec["useLongestLength"].(bool)
	var defaults []any
	if d, ok := spec["defaults"]; ok && d != nil {
		if !useLongest {
			return nil, domain.ErrOperandType{Operator: "$zip", Want: "defaults only with useLongestLength", Actual: d}
		}
		dv, err := e.operand(obj, d, opt)
		if err != nil {
			return nil, err
		}
		if defaults, ok = dv.([]any); !ok {
			return nil, domain.ErrOperandType{Operator: "$zip", Want: "list of defaults", Actual: dv}
		}
	}

	lists := make([][]any, len(inputsArr))
	length := -1
	for n, input := range inputsArr {
		if structure.IsNil(input) {
			return nil, nil
		}
		arr, ok := input.([]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$zip", Want: "list of lists", Actual: input}
		}
		lists[n] = arr
		if useLongest {
			length = max(length, len(arr))
			continue
		}
		if length < 0 {
			length = len(arr)
		} else {
			length = min(length, len(arr))
		}
	}
	if length < 0 {
		length = 0
	}

	res := make([]any, length)
	for i := range length {
		row := make([]any, len(lists))
		for n, arr := range lists {
			switch {
			case i < len(arr):
				row[n] = arr[i]
			case n < len(defaults):
				row[n] = defaults[n]
			default:
				row[n] = nil
			}
		}
		res[i] = row
	}
	return res, nil
}

func opMap(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$map", Want: "document with input, as and in", Actual: expr}
	}
	input, err := e.operand(obj, spec["input"], opt)
	if err != nil {
		return nil, err
	}
	arr, ok := input.([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$map", Want: "list input", Actual: input}
	}
	name := "this"
	if as, ok := spec["as"].(string); ok && as != "" {
		name = as
	}
	res := make([]any, len(arr))
	for n, elem := range arr {
		v, err := e.operand(obj, spec["in"], opt.withVar(name, elem))
		if err != nil {
			return nil, err
		}
		res[n] = v
	}
	return res, nil
}
