package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func accumulate(t *testing.T, docs []any, name string, expr any) any {
	t.Helper()
	v, err := NewEvaluator().Accumulate(docs, name, expr)
	require.NoError(t, err)
	return v
}

func TestAccumulators(t *testing.T) {
	docs := A{
		M{"n": 1, "tag": "a"},
		M{"n": 2, "tag": "b"},
		M{"n": 3, "tag": "a"},
		M{"n": 4},
	}

	assert.Equal(t, 10.0, accumulate(t, docs, "$sum", "$n"))
	assert.Equal(t, 2.5, accumulate(t, docs, "$avg", "$n"))
	assert.Equal(t, 1, accumulate(t, docs, "$min", "$n"))
	assert.Equal(t, 4, accumulate(t, docs, "$max", "$n"))
	assert.Equal(t, 1, accumulate(t, docs, "$first", "$n"))
	assert.Equal(t, 4, accumulate(t, docs, "$last", "$n"))
	assert.Equal(t, A{1, 2, 3, 4}, accumulate(t, docs, "$push", "$n"))
	// $push skips documents where the expression is missing
	assert.Equal(t, A{"a", "b", "a"}, accumulate(t, docs, "$push", "$tag"))
	assert.Equal(t, A{"a", "b"}, accumulate(t, docs, "$addToSet", "$tag"))
}

func TestSumCountsOnlyNumbers(t *testing.T) {
	docs := A{M{"n": 1}, M{"n": "two"}, M{"n": 3}}
	assert.Equal(t, 4.0, accumulate(t, docs, "$sum", "$n"))
	assert.Equal(t, 2.0, accumulate(t, docs, "$avg", "$n"))
}

func TestSumOfConstantCountsDocuments(t *testing.T) {
	docs := A{M{}, M{}, M{}}
	assert.Equal(t, 3.0, accumulate(t, docs, "$sum", 1))
}

func TestStdDev(t *testing.T) {
	docs := A{M{"n": 2}, M{"n": 4}, M{"n": 4}, M{"n": 4}, M{"n": 5}, M{"n": 5}, M{"n": 7}, M{"n": 9}}

	pop := accumulate(t, docs, "$stdDevPop", "$n")
	assert.InDelta(t, 2.0, pop, 1e-9)

	samp := accumulate(t, docs, "$stdDevSamp", "$n")
	assert.InDelta(t, 2.13809, samp, 1e-4)
}

func TestStdDevDegenerateCases(t *testing.T) {
	assert.Nil(t, accumulate(t, A{}, "$stdDevPop", "$n"))
	assert.Nil(t, accumulate(t, A{M{"n": 1}}, "$stdDevSamp", "$n"))
	assert.Equal(t, 0.0, accumulate(t, A{M{"n": 1}}, "$stdDevPop", "$n"))
}

func TestAvgOfNoNumbersIsNull(t *testing.T) {
	assert.Nil(t, accumulate(t, A{M{"n": "x"}}, "$avg", "$n"))
}
