package hasher

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type M = map[string]any

type A = []any

func hash(t *testing.T, v any) uint64 {
	t.Helper()
	h, err := NewHasher().Hash(v)
	require.NoError(t, err)
	return h
}

func TestHashKeyOrderIndependence(t *testing.T) {
	a := hash(t, M{"x": 1, "y": A{"a", "b"}})
	b := hash(t, M{"y": A{"a", "b"}, "x": 1})
	assert.Equal(t, a, b)
}

func TestHashNumericIdentity(t *testing.T) {
	// ints and equal floats share an identity
	assert.Equal(t, hash(t, 1), hash(t, 1.0))
	assert.Equal(t, hash(t, int64(7)), hash(t, 7))
	assert.NotEqual(t, hash(t, 1), hash(t, 2))
}

func TestHashDistinguishesTypes(t *testing.T) {
	assert.NotEqual(t, hash(t, "1"), hash(t, 1))
	assert.NotEqual(t, hash(t, nil), hash(t, "null"))
	assert.NotEqual(t, hash(t, A{1}), hash(t, 1))
}

func TestHashSpecialValues(t *testing.T) {
	assert.Equal(t, hash(t, math.NaN()), hash(t, math.NaN()))
	assert.NotEqual(t, hash(t, math.Inf(1)), hash(t, math.Inf(-1)))

	now := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	assert.Equal(t, hash(t, now), hash(t, now.In(time.FixedZone("x", 3600))))

	assert.Equal(t, hash(t, regexp.MustCompile("a+")), hash(t, regexp.MustCompile("a+")))
	assert.NotEqual(t, hash(t, regexp.MustCompile("a+")), hash(t, "a+"))
}

func TestHashNestedEquality(t *testing.T) {
	a := M{"a": A{M{"b": 1}, M{"c": A{2, 3}}}}
	b := M{"a": A{M{"b": 1}, M{"c": A{2, 3}}}}
	assert.Equal(t, hash(t, a), hash(t, b))

	c := M{"a": A{M{"c": A{2, 3}}, M{"b": 1}}}
	assert.NotEqual(t, hash(t, a), hash(t, c), "array order is significant")
}
