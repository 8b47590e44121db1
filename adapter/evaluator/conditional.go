package evaluator

import (
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// opCond accepts both the [if, then, else] and the {if, then, else} forms.
// Only the selected branch is evaluated.
func opCond(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	var condExpr, thenExpr, elseExpr any
	switch t := expr.(type) {
	case []any:
		if len(t) != 3 {
			return nil, domain.ErrOperandType{Operator: "$cond", Want: "[if, then, else]", Actual: t}
		}
		condExpr, thenExpr, elseExpr = t[0], t[1], t[2]
	case map[string]any:
		var iok, tok, eok bool
		condExpr, iok = t["if"]
		thenExpr, tok = t["then"]
		elseExpr, eok = t["else"]
		if !iok || !tok || !eok {
			return nil, domain.ErrOperandType{Operator: "$cond", Want: "document with if, then and else", Actual: t}
		}
	default:
		return nil, domain.ErrOperandType{Operator: "$cond", Want: "list or document", Actual: expr}
	}
	ok, err := e.truthy(obj, condExpr, opt)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.operand(obj, thenExpr, opt)
	}
	return e.operand(obj, elseExpr, opt)
}

func opIfNull(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	args, ok := expr.([]any)
	if !ok || len(args) != 2 {
		return nil, domain.ErrOperandType{Operator: "$ifNull", Want: "[expression, replacement]", Actual: expr}
	}
	v, err := e.operand(obj, args[0], opt)
	if err != nil {
		return nil, err
	}
	if !structure.IsNil(v) {
		return v, nil
	}
	return e.operand(obj, args[1], opt)
}

func opSwitch(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$switch", Want: "document with branches", Actual: expr}
	}
	branches, ok := spec["branches"].([]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$switch", Want: "list of branches", Actual: spec["branches"]}
	}
	for _, b := range branches {
		branch, ok := b.(map[string]any)
		if !ok {
			return nil, domain.ErrOperandType{Operator: "$switch", Want: "branch document with case and then", Actual: b}
		}
		hit, err := e.truthy(obj, branch["case"], opt)
		if err != nil {
			return nil, err
		}
		if hit {
			return e.operand(obj, branch["then"], opt)
		}
	}
	dflt, ok := spec["default"]
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$switch", Want: "matching branch or default", Actual: expr}
	}
	return e.operand(obj, dflt, opt)
}

// opLet binds vars into the evaluation environment for the duration of the
// in expression. Documents are never written.
func opLet(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	spec, ok := expr.(map[string]any)
	if !ok {
		return nil, domain.ErrOperandType{Operator: "$let", Want: "document with vars and in", Actual: expr}
	}
	vars, _, err := structure.Seq2(spec["vars"])
	if err != nil {
		return nil, domain.ErrOperandType{Operator: "$let", Want: "vars document", Actual: spec["vars"]}
	}
	scoped := opt
	for name, varExpr := range vars {
		v, err := e.operand(obj, varExpr, opt)
		if err != nil {
			return nil, err
		}
		scoped = scoped.withVar(name, v)
	}
	return e.operand(obj, spec["in"], scoped)
}

func opLiteral(e *Evaluator, obj, expr any, opt *computeOpts) (any, error) {
	return structure.Clone(expr), nil
}
