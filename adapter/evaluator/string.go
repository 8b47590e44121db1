package evaluator

import (
	"strings"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

func opConcat(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$concat", -1)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, arg := range args {
		if structure.IsNil(arg) {
			return nil, nil
		}
		s, ok := arg.(string)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$concat", Want: "string", Actual: arg}
		}
		_, _ = b.WriteString(s)
	}
	return b.String(), nil
}

func opToLower(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	s, err := e.stringOperand(obj, expr, opt, "$toLower")
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

func opToUpper(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	s, err := e.stringOperand(obj, expr, opt, "$toUpper")
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

// stringOperand evaluates a single string operand; null and Missing coerce
// to the empty string.
func (e *Evaluator) stringOperand(obj, expr any, opt *computeOpts, name string) (string, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return "", err
	}
	if structure.IsNil(v) {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", domain.ErrOperandType{Operator: name, Want: "string", Actual: v}
	}
	return s, nil
}

func opStrcasecmp(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$strcasecmp", 2)
	if err != nil {
		return nil, err
	}
	a, aok := args[0].(string)
	b, bok := args[1].(string)
	if !aok || !bok {
		return nil, domain.ErrOperandType{Operator: "$strcasecmp", Want: "two strings", Actual: args}
	}
	a, b = strings.ToUpper(a), strings.ToUpper(b)
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	default:
		return 0, nil
	}
}

func opSplit(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$split", 2)
	if err != nil {
		return nil, err
	}
	if structure.IsNil(args[0]) {
		return nil, nil
	}
	s, sok := args[0].(string)
	sep, dok := args[1].(string)
	if !sok || !dok {
		return nil, domain.ErrOperandType{Operator: "$split", Want: "two strings", Actual: args}
	}
	parts := strings.Split(s, sep)
	res := make([]any, len(parts))
	for n, p := range parts {
		res[n] = p
	}
	return res, nil
}

func opSubstr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$substr", 3)
	if err != nil {
		return nil, err
	}
	s, ok := args[0].(string)
	if !ok {
		if structure.IsNil(args[0]) {
			return "", nil
		}
		return nil, domain.ErrOperandType{Operator: "$substr", Want: "string", Actual: args[0]}
	}
	start, sok := structure.AsInteger(args[1])
	count, cok := structure.AsInteger(args[2])
	if !sok || !cok {
		return nil, domain.ErrOperandType{Operator: "$substr", Want: "numeric start and length", Actual: args}
	}
	if start < 0 {
		return "", nil
	}
	if start > len(s) {
		return "", nil
	}
	if count < 0 || start+count > len(s) {
		return s[start:], nil
	}
	return s[start : start+count], nil
}

func opIndexOfBytes(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$indexOfBytes", -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 4 {
		return nil, domain.ErrOperandType{Operator: "$indexOfBytes", Want: "2 to 4 arguments", Actual: args}
	}
	if structure.IsNil(args[0]) {
		return nil, nil
	}
	s, sok := args[0].(string)
	search, qok := args[1].(string)
	if !sok || !qok {
		return nil, domain.ErrOperandType{Operator: "$indexOfBytes", Want: "string haystack and needle", Actual: args}
	}

	start, end := 0, len(s)
	if len(args) > 2 {
		n, ok := structure.AsInteger(args[2])
		if !ok || n < 0 {
			return nil, domain.ErrOperandType{Operator: "$indexOfBytes", Want: "non-negative start", Actual: args[2]}
		}
		start = min(n, len(s))
	}
	if len(args) > 3 {
		n, ok := structure.AsInteger(args[3])
		if !ok || n < 0 {
			return nil, domain.ErrOperandType{Operator: "$indexOfBytes", Want: "non-negative end", Actual: args[3]}
		}
		end = min(n, len(s))
	}
	if start > end {
		return -1, nil
	}
	idx := strings.Index(s[start:end], search)
	if idx < 0 {
		return -1, nil
	}
	return start + idx, nil
}
