package evaluator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	doc := M{"a": 10, "b": 4}
	for name, tc := range map[string]struct {
		expr any
		want any
	}{
		"add":      {M{"$add": A{"$a", "$b", 1}}, 15.0},
		"subtract": {M{"$subtract": A{"$a", "$b"}}, 6.0},
		"multiply": {M{"$multiply": A{"$a", "$b"}}, 40.0},
		"divide":   {M{"$divide": A{"$a", "$b"}}, 2.5},
		"mod":      {M{"$mod": A{"$a", "$b"}}, 2.0},
		"abs":      {M{"$abs": -7}, 7.0},
		"ceil":     {M{"$ceil": 1.2}, 2.0},
		"floor":    {M{"$floor": 1.8}, 1.0},
		"trunc":    {M{"$trunc": -1.9}, -1.0},
		"sqrt":     {M{"$sqrt": 16}, 4.0},
		"sqrtZero": {M{"$sqrt": 0}, 0.0},
		"exp":      {M{"$exp": 0}, 1.0},
		"ln":       {M{"$ln": 1}, 0.0},
		"pow":      {M{"$pow": A{2, 10}}, 1024.0},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, compute(t, doc, tc.expr))
		})
	}

	t.Run("log", func(t *testing.T) {
		got := compute(t, doc, M{"$log": A{8, 2}})
		assert.InDelta(t, 3.0, got, 1e-9)
	})
	t.Run("log10", func(t *testing.T) {
		got := compute(t, doc, M{"$log10": 1000})
		assert.InDelta(t, 3.0, got, 1e-9)
	})
}

func TestArithmeticSoftNull(t *testing.T) {
	assert.Nil(t, compute(t, M{}, M{"$add": A{1, nil}}))
	assert.Nil(t, compute(t, M{}, M{"$abs": "$missing"}))
	assert.Nil(t, compute(t, M{}, M{"$subtract": A{nil, 3}}))
}

func TestArithmeticNaNPropagates(t *testing.T) {
	got := compute(t, M{}, M{"$add": A{1, math.NaN()}})
	require.IsType(t, 0.0, got)
	assert.True(t, math.IsNaN(got.(float64)))
}

func TestArithmeticTypeErrors(t *testing.T) {
	ev := NewEvaluator()
	for name, expr := range map[string]any{
		"non-numeric add":  M{"$add": A{1, "two"}},
		"pow zero to neg":  M{"$pow": A{0, -2}},
		"sqrt of negative": M{"$sqrt": -4},
		"log arity":        M{"$log": A{8}},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ev.Compute(M{}, expr, "")
			assert.Error(t, err)
		})
	}
}
