package evaluator

import "github.com/lackofbrilliance/mingo/pkg/structure"

func opAndExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$and", -1)
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		if !structure.Truthy(arg) {
			return false, nil
		}
	}
	return true, nil
}

func opOrExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$or", -1)
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		if structure.Truthy(arg) {
			return true, nil
		}
	}
	return false, nil
}

func opNotExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return nil, err
	}
	return !structure.Truthy(v), nil
}
