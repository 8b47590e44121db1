package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOperators(t *testing.T) {
	doc := M{"a": A{1, 2, 2, 3}, "b": A{3, 4}, "c": A{3, 2, 1}}
	for name, tc := range map[string]struct {
		expr any
		want any
	}{
		"setEquals yes":    {M{"$setEquals": A{"$a", "$c"}}, true},
		"setEquals no":     {M{"$setEquals": A{"$a", "$b"}}, false},
		"intersection":     {M{"$setIntersection": A{"$a", "$b"}}, A{3}},
		"union":            {M{"$setUnion": A{"$a", "$b"}}, A{1, 2, 3, 4}},
		"difference":       {M{"$setDifference": A{"$a", "$b"}}, A{1, 2}},
		"subset yes":       {M{"$setIsSubset": A{"$b", A{2, 3, 4}}}, true},
		"subset no":        {M{"$setIsSubset": A{"$a", "$b"}}, false},
		"allElements yes":  {M{"$allElementsTrue": A{A{1, true, "x"}}}, true},
		"allElements no":   {M{"$allElementsTrue": A{A{1, 0}}}, false},
		"anyElement yes":   {M{"$anyElementTrue": A{A{0, false, 2}}}, true},
		"anyElement no":    {M{"$anyElementTrue": A{A{0, false}}}, false},
		"equal as multiset": {M{"$setEquals": A{A{1, 1}, A{1}}}, true},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, compute(t, doc, tc.expr))
		})
	}
}

func TestSetIdentityIsStructural(t *testing.T) {
	got := compute(t, M{}, M{"$setUnion": A{
		A{M{"x": 1, "y": 2}},
		A{M{"y": 2, "x": 1}, M{"z": 3}},
	}})
	assert.Equal(t, A{M{"x": 1, "y": 2}, M{"z": 3}}, got)
}
