package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lackofbrilliance/mingo/domain"
)

func TestArrayOperators(t *testing.T) {
	doc := M{"xs": A{1, 2, 3, 4}, "names": A{"a", "b"}}
	for name, tc := range map[string]struct {
		expr any
		want any
	}{
		"arrayElemAt":     {M{"$arrayElemAt": A{"$xs", 1}}, 2},
		"arrayElemAt neg": {M{"$arrayElemAt": A{"$xs", -1}}, 4},
		"concatArrays":    {M{"$concatArrays": A{"$xs", "$names"}}, A{1, 2, 3, 4, "a", "b"}},
		"concat null":     {M{"$concatArrays": A{"$xs", nil}}, nil},
		"indexOfArray":    {M{"$indexOfArray": A{"$names", "b"}}, 1},
		"indexOf absent":  {M{"$indexOfArray": A{"$names", "z"}}, -1},
		"isArray yes":     {M{"$isArray": "$xs"}, true},
		"isArray no":      {M{"$isArray": "nope"}, false},
		"range":           {M{"$range": A{0, 6, 2}}, A{0, 2, 4}},
		"range down":      {M{"$range": A{4, 0, -1}}, A{4, 3, 2, 1}},
		"range empty":     {M{"$range": A{3, 0}}, A{}},
		"reverseArray":    {M{"$reverseArray": "$xs"}, A{4, 3, 2, 1}},
		"size":            {M{"$size": "$xs"}, 4},
		"slice first":     {M{"$slice": A{"$xs", 2}}, A{1, 2}},
		"slice last":      {M{"$slice": A{"$xs", -2}}, A{3, 4}},
		"slice skip":      {M{"$slice": A{"$xs", 1, 2}}, A{2, 3}},
		"slice neg skip":  {M{"$slice": A{"$xs", -3, 2}}, A{2, 3}},
		"filter":          {M{"$filter": M{"input": "$xs", "as": "x", "cond": M{"$gt": A{"$x", 2}}}}, A{3, 4}},
		"map":             {M{"$map": M{"input": "$xs", "as": "x", "in": M{"$multiply": A{"$x", 2}}}}, A{2.0, 4.0, 6.0, 8.0}},
		"map identity":    {M{"$map": M{"input": "$xs", "in": "$this"}}, A{1, 2, 3, 4}},
		"map dollar var":  {M{"$map": M{"input": "$xs", "in": "$$this"}}, A{1, 2, 3, 4}},
		"reduce":          {M{"$reduce": M{"input": "$xs", "initialValue": 0, "in": M{"$add": A{"$value", "$this"}}}}, 10.0},
		"reduce null":     {M{"$reduce": M{"input": nil, "initialValue": 0, "in": "$value"}}, nil},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, compute(t, doc, tc.expr))
		})
	}
}

func TestArrayElemAtOutOfRange(t *testing.T) {
	got := compute(t, M{"xs": A{1}}, M{"$arrayElemAt": A{"$xs", 5}})
	assert.True(t, domain.IsMissing(got))
}

func TestZip(t *testing.T) {
	doc := M{"a": A{1, 2, 3}, "b": A{"x", "y"}}

	got := compute(t, doc, M{"$zip": M{"inputs": A{"$a", "$b"}}})
	assert.Equal(t, A{A{1, "x"}, A{2, "y"}}, got)

	got = compute(t, doc, M{"$zip": M{
		"inputs":           A{"$a", "$b"},
		"useLongestLength": true,
	}})
	assert.Equal(t, A{A{1, "x"}, A{2, "y"}, A{3, nil}}, got)

	got = compute(t, doc, M{"$zip": M{
		"inputs":           A{"$a", "$b"},
		"useLongestLength": true,
		"defaults":         A{0, "pad"},
	}})
	assert.Equal(t, A{A{1, "x"}, A{2, "y"}, A{3, "pad"}}, got)

	_, err := NewEvaluator().Compute(doc, M{"$zip": M{
		"inputs":   A{"$a", "$b"},
		"defaults": A{0, "pad"},
	}}, "")
	assert.Error(t, err, "defaults require useLongestLength")
}

func TestLet(t *testing.T) {
	got := compute(t, M{"price": 10}, M{"$let": M{
		"vars": M{"discount": 0.1},
		"in":   M{"$multiply": A{"$price", "$discount"}},
	}})
	assert.Equal(t, 1.0, got)
}
