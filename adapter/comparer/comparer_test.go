package comparer

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

type M = map[string]any

type A = []any

func compare(t *testing.T, a, b any) int {
	t.Helper()
	c, err := NewComparer().Compare(a, b)
	require.NoError(t, err)
	return c
}

func TestCompareNumbers(t *testing.T) {
	assert.Equal(t, 0, compare(t, 1, 1.0))
	assert.Equal(t, -1, compare(t, 1, 2))
	assert.Equal(t, 1, compare(t, int64(3), 2.5))
	// large int64 values survive the float comparison
	assert.Equal(t, 0, compare(t, int64(1<<60), int64(1<<60)))
}

func TestCompareNaN(t *testing.T) {
	assert.Equal(t, 0, compare(t, math.NaN(), math.NaN()))
	assert.Equal(t, -1, compare(t, math.NaN(), 0))
	assert.Equal(t, 1, compare(t, 0, math.NaN()))
}

func TestCompareAcrossTypes(t *testing.T) {
	// Missing < nil < numbers < strings < booleans < dates < arrays <
	// objects < regexps
	assert.Equal(t, -1, compare(t, domain.Missing, nil))
	assert.Equal(t, -1, compare(t, nil, 0))
	assert.Equal(t, -1, compare(t, 99, "a"))
	assert.Equal(t, -1, compare(t, "z", false))
	assert.Equal(t, -1, compare(t, true, time.Now()))
	assert.Equal(t, -1, compare(t, time.Now(), A{}))
	assert.Equal(t, -1, compare(t, A{"big"}, M{}))
	assert.Equal(t, -1, compare(t, M{"a": 1}, regexp.MustCompile("x")))
}

func TestCompareStringsAndBooleans(t *testing.T) {
	assert.Equal(t, -1, compare(t, "abc", "abd"))
	assert.Equal(t, 0, compare(t, "abc", "abc"))
	assert.Equal(t, -1, compare(t, false, true))
	assert.Equal(t, 0, compare(t, true, true))
}

func TestCompareDates(t *testing.T) {
	early := time.Date(2014, 1, 9, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)
	assert.Equal(t, -1, compare(t, early, late))
	assert.Equal(t, 0, compare(t, early, early))
}

func TestCompareArrays(t *testing.T) {
	assert.Equal(t, 0, compare(t, A{1, 2}, A{1, 2}))
	assert.Equal(t, -1, compare(t, A{1, 2}, A{1, 3}))
	assert.Equal(t, -1, compare(t, A{1}, A{1, 0}))
}

func TestCompareObjects(t *testing.T) {
	assert.Equal(t, 0, compare(t, M{"a": 1, "b": 2}, M{"b": 2, "a": 1}))
	assert.Equal(t, -1, compare(t, M{"a": 1}, M{"a": 2}))
	assert.Equal(t, -1, compare(t, M{"a": 1}, M{"a": 1, "b": 0}))
}

func TestCloneRoundTrip(t *testing.T) {
	// isEqual(clone(v), v) for every non-function value
	values := A{
		nil, true, 3, 4.5, "s",
		time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC),
		A{1, A{2, 3}, M{"k": "v"}},
		M{"a": A{1, 2}, "b": M{"c": nil}},
	}
	for _, v := range values {
		assert.Equal(t, 0, compare(t, structure.Clone(v), v), "%v", v)
	}
}

func TestComparable(t *testing.T) {
	c := NewComparer()
	assert.True(t, c.Comparable(1, 2.5))
	assert.True(t, c.Comparable("a", "b"))
	assert.False(t, c.Comparable(1, "1"))
	assert.False(t, c.Comparable(domain.Missing, 1))
	assert.False(t, c.Comparable(A{}, A{}))
}
