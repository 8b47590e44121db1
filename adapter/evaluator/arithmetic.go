package evaluator

import (
	"math"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// number coerces an evaluated arithmetic operand. The ok flag is false when
// the operand is null or Missing, in which case the operator short-circuits
// to null.
func number(name string, v any) (float64, bool, error) {
	if structure.IsNil(v) {
		return 0, false, nil
	}
	f, ok := structure.AsFloat(v)
	if !ok {
		return 0, false, domain.ErrOperandType{Operator: name, Want: "number", Actual: v}
	}
	return f, true, nil
}

// unaryNumber evaluates a single numeric operand, handling the soft-null and
// NaN cases uniformly.
func (e *Evaluator) unaryNumber(obj, expr any, opt *computeOpts, name string) (float64, bool, error) {
	v, err := e.unary(obj, expr, opt)
	if err != nil {
		return 0, false, err
	}
	return number(name, v)
}

func opAbs(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$abs")
	if err != nil || !ok {
		return nil, err
	}
	return math.Abs(f), nil
}

func opCeil(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$ceil")
	if err != nil || !ok {
		return nil, err
	}
	return math.Ceil(f), nil
}

func opFloor(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$floor")
	if err != nil || !ok {
		return nil, err
	}
	return math.Floor(f), nil
}

func opExp(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$exp")
	if err != nil || !ok {
		return nil, err
	}
	return math.Exp(f), nil
}

func opLn(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$ln")
	if err != nil || !ok {
		return nil, err
	}
	return math.Log(f), nil
}

func opLog10(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$log10")
	if err != nil || !ok {
		return nil, err
	}
	return math.Log10(f), nil
}

func opSqrt(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$sqrt")
	if err != nil || !ok {
		return nil, err
	}
	if f < 0 {
		return nil, domain.ErrOperandType{Operator: "$sqrt", Want: "non-negative number", Actual: f}
	}
	return math.Sqrt(f), nil
}

func opTrunc(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	f, ok, err := e.unaryNumber(obj, expr, opt, "$trunc")
	if err != nil || !ok {
		return nil, err
	}
	return math.Trunc(f), nil
}

func opAdd(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$add", -1)
	if err != nil {
		return nil, err
	}
	var sum float64
	for _, arg := range args {
		f, ok, err := number("$add", arg)
		if err != nil || !ok {
			return nil, err
		}
		sum += f
	}
	return sum, nil
}

func opMultiply(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, err := e.operandList(obj, expr, opt, "$multiply", -1)
	if err != nil {
		return nil, err
	}
	product := 1.0
	for _, arg := range args {
		f, ok, err := number("$multiply", arg)
		if err != nil || !ok {
			return nil, err
		}
		product *= f
	}
	return product, nil
}

// binaryNumbers evaluates a two-element numeric operand list.
func (e *Evaluator) binaryNumbers(obj, expr any, opt *computeOpts, name string) (a, b float64, ok bool, err error) {
	args, err := e.operandList(obj, expr, opt, name, 2)
	if err != nil {
		return 0, 0, false, err
	}
	a, ok, err = number(name, args[0])
	if err != nil || !ok {
		return 0, 0, false, err
	}
	b, ok, err = number(name, args[1])
	if err != nil || !ok {
		return 0, 0, false, err
	}
	return a, b, true, nil
}

func opSubtract(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	a, b, ok, err := e.binaryNumbers(obj, expr, opt, "$subtract")
	if err != nil || !ok {
		return nil, err
	}
	return a - b, nil
}

func opDivide(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	a, b, ok, err := e.binaryNumbers(obj, expr, opt, "$divide")
	if err != nil || !ok {
		return nil, err
	}
	return a / b, nil
}

func opModExpr(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	a, b, ok, err := e.binaryNumbers(obj, expr, opt, "$mod")
	if err != nil || !ok {
		return nil, err
	}
	return math.Mod(a, b), nil
}

func opPow(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	a, b, ok, err := e.binaryNumbers(obj, expr, opt, "$pow")
	if err != nil || !ok {
		return nil, err
	}
	if a == 0 && b < 0 {
		return nil, domain.ErrOperandType{Operator: "$pow", Want: "non-negative exponent for zero base", Actual: b}
	}
	return math.Pow(a, b), nil
}

func opLog(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	a, b, ok, err := e.binaryNumbers(obj, expr, opt, "$log")
	if err != nil || !ok {
		return nil, err
	}
	return math.Log(a) / math.Log(b), nil
}
