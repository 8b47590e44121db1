package evaluator

func comparison(name string, accept func(int) bool) aggFn {
	return func(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
		args, err := e.operandList(obj, expr, opt, name, 2)
		if err != nil {
			return nil, err
		}
		c, err := e.comparer.Compare(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return accept(c), nil
	}
}

func opEqExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$eq", func(c int) bool { return c == 0 })(e, obj, expr, opt)
}

func opNeExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$ne", func(c int) bool { return c != 0 })(e, obj, expr, opt)
}

func opGtExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$gt", func(c int) bool { return c > 0 })(e, obj, expr, opt)
}

func opGteExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$gte", func(c int) bool { return c >= 0 })(e, obj, expr, opt)
}

func opLtExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$lt", func(c int) bool { return c < 0 })(e, obj, expr, opt)
}

func opLteExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return comparison("$lte", func(c int) bool { return c <= 0 })(e, obj, expr, opt)
}

func opCmp(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$cmp", 2)
	if err != nil {
		return nil, err
	}
	return e.comparer.Compare(args[0], args[1])
}
