package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOperators(t *testing.T) {
	doc := M{"name": "Ada", "job": "programmer"}
	for name, tc := range map[string]struct {
		expr any
		want any
	}{
		"concat":             {M{"$concat": A{"$name", " the ", "$job"}}, "Ada the programmer"},
		"concat null":        {M{"$concat": A{"a", nil}}, nil},
		"concat missing":     {M{"$concat": A{"a", "$nope"}}, nil},
		"toLower":            {M{"$toLower": "$name"}, "ada"},
		"toUpper":            {M{"$toUpper": "$name"}, "ADA"},
		"toLower null":       {M{"$toLower": nil}, ""},
		"strcasecmp equal":   {M{"$strcasecmp": A{"ADA", "ada"}}, 0},
		"strcasecmp less":    {M{"$strcasecmp": A{"abc", "abd"}}, -1},
		"strcasecmp greater": {M{"$strcasecmp": A{"b", "A"}}, 1},
		"split":              {M{"$split": A{"a,b,c", ","}}, A{"a", "b", "c"}},
		"split null":         {M{"$split": A{nil, ","}}, nil},
		"substr":             {M{"$substr": A{"hello", 1, 3}}, "ell"},
		"substr neg start":   {M{"$substr": A{"hello", -1, 3}}, ""},
		"substr neg count":   {M{"$substr": A{"hello", 2, -1}}, "llo"},
		"indexOfBytes":       {M{"$indexOfBytes": A{"cafeteria", "e"}}, 3},
		"indexOfBytes start": {M{"$indexOfBytes": A{"cafeteria", "e", 4}}, 5},
		"indexOfBytes none":  {M{"$indexOfBytes": A{"cafeteria", "x"}}, -1},
		"indexOfBytes range": {M{"$indexOfBytes": A{"cafeteria", "t", 0, 4}}, -1},
		"indexOfBytes null":  {M{"$indexOfBytes": A{nil, "e"}}, nil},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, compute(t, doc, tc.expr))
		})
	}
}

func TestIndexOfBytesStartPastEnd(t *testing.T) {
	// clamped start beyond a clamped end reports no match
	assert.Equal(t, -1, compute(t, M{}, M{"$indexOfBytes": A{"abc", "c", 2, 1}}))
}
