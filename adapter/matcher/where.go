package matcher

import (
	"fmt"

	"github.com/google/cel-go/cel"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lackofbrilliance/mingo/domain"
)

// whereEnv declares the candidate document as `this` for $where expression
// strings.
var whereEnv = func() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("this", cel.DynType),
	)
	if err != nil {
		panic(err)
	}
	return env
}()

// programs caches compiled $where programs by source text. The same
// expression string tends to recur across queries, and CEL compilation is
// the expensive part.
var programs = func() *lru.Cache[string, cel.Program] {
	cache, err := lru.New[string, cel.Program](256)
	if err != nil {
		panic(err)
	}
	return cache
}()

// compileWhere compiles a $where expression string into a predicate over the
// candidate document.
func compileWhere(expression string) (func(any) (bool, error), error) {
	prg, ok := programs.Get(expression)
	if !ok {
		ast, issues := whereEnv.Compile(expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("%w: %w",
				domain.ErrOperandType{Operator: "$where", Want: "valid expression", Actual: expression},
				issues.Err(),
			)
		}
		var err error
		prg, err = whereEnv.Program(ast)
		if err != nil {
			return nil, err
		}
		programs.Add(expression, prg)
	}

	return func(doc any) (bool, error) {
		out, _, err := prg.Eval(map[string]any{"this": doc})
		if err != nil {
			return false, err
		}
		res, ok := out.Value().(bool)
		if !ok {
			return false, domain.ErrOperandType{Operator: "$where", Want: "boolean result", Actual: out.Value()}
		}
		return res, nil
	}, nil
}
