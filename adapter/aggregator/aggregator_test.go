package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/lackofbrilliance/mingo/domain"
)

type M = map[string]any

type A = []any

type AggregatorTestSuite struct {
	suite.Suite
}

func (s *AggregatorTestSuite) run(docs A, pipeline A) A {
	res, err := NewAggregator(pipeline).Run(docs)
	s.Require().NoError(err)
	return res
}

func (s *AggregatorTestSuite) TestMatch() {
	docs := A{M{"a": 1}, M{"a": 2}, M{"a": 3}}
	got := s.run(docs, A{M{"$match": M{"a": M{"$gt": 1}}}})
	s.Equal(A{M{"a": 2}, M{"a": 3}}, got)
}

func (s *AggregatorTestSuite) TestConsecutiveMatchesEqualAnd() {
	docs := A{M{"a": 1, "b": 1}, M{"a": 2, "b": 2}, M{"a": 2, "b": 3}}
	c1 := M{"a": 2}
	c2 := M{"b": M{"$gt": 2}}

	separate := s.run(docs, A{M{"$match": c1}, M{"$match": c2}})
	combined := s.run(docs, A{M{"$match": M{"$and": A{c1, c2}}}})
	s.Equal(separate, combined)
}

func (s *AggregatorTestSuite) TestGroupSum() {
	docs := A{M{"n": 1}, M{"n": 2}, M{"n": 3}, M{"n": 4}}
	got := s.run(docs, A{M{"$group": M{"_id": nil, "s": M{"$sum": "$n"}}}})
	s.Equal(A{M{"_id": nil, "s": 10.0}}, got)
}

func (s *AggregatorTestSuite) TestGroupByKey() {
	docs := A{
		M{"k": "a", "n": 1},
		M{"k": "b", "n": 2},
		M{"k": "a", "n": 3},
	}
	got := s.run(docs, A{M{"$group": M{"_id": "$k", "total": M{"$sum": "$n"}}}})
	s.Equal(A{
		M{"_id": "a", "total": 4.0},
		M{"_id": "b", "total": 2.0},
	}, got)
}

func (s *AggregatorTestSuite) TestGroupOmitsMissingIdentity() {
	docs := A{M{"n": 1}, M{"n": 2}}
	got := s.run(docs, A{M{"$group": M{"c": M{"$sum": 1}}}})
	s.Equal(A{M{"c": 2.0}}, got)
}

func (s *AggregatorTestSuite) TestGroupDoesNotMutateSpec() {
	spec := M{"_id": "$k", "c": M{"$sum": 1}}
	_ = s.run(A{M{"k": 1}}, A{M{"$group": spec}})
	s.Equal(M{"_id": "$k", "c": M{"$sum": 1}}, spec)
}

func (s *AggregatorTestSuite) TestSortStableMultiKey() {
	docs := A{
		M{"x": 1, "y": 1},
		M{"x": 1, "y": 2},
		M{"x": 2, "y": 3},
	}
	got := s.run(docs, A{M{"$sort": domain.D{
		{Key: "x", Value: 1},
		{Key: "y", Value: -1},
	}}})
	ys := make(A, 0, len(got))
	for _, doc := range got {
		ys = append(ys, doc.(M)["y"])
	}
	s.Equal(A{2, 1, 3}, ys)
}

func (s *AggregatorTestSuite) TestSortIdempotent() {
	docs := A{M{"a": 3}, M{"a": 1}, M{"a": 2}}
	spec := M{"$sort": M{"a": 1}}
	once := s.run(docs, A{spec})
	twice := s.run(docs, A{spec, spec})
	s.Equal(once, twice)
}

func (s *AggregatorTestSuite) TestSortStability() {
	docs := A{
		M{"k": 1, "pos": 0},
		M{"k": 0, "pos": 1},
		M{"k": 1, "pos": 2},
		M{"k": 1, "pos": 3},
	}
	got := s.run(docs, A{M{"$sort": M{"k": 1}}})
	s.Equal(A{
		M{"k": 0, "pos": 1},
		M{"k": 1, "pos": 0},
		M{"k": 1, "pos": 2},
		M{"k": 1, "pos": 3},
	}, got)
}

func (s *AggregatorTestSuite) TestUnwind() {
	docs := A{M{"a": A{1, 2, 3}}}
	got := s.run(docs, A{M{"$unwind": "$a"}})
	s.Equal(A{M{"a": 1}, M{"a": 2}, M{"a": 3}}, got)
}

func (s *AggregatorTestSuite) TestUnwindNonArrayFails() {
	_, err := NewAggregator(A{M{"$unwind": "$a"}}).Run(A{M{"a": 1}})
	s.Error(err)
}

func (s *AggregatorTestSuite) TestSkipLimit() {
	docs := A{M{"n": 1}, M{"n": 2}, M{"n": 3}, M{"n": 4}}
	s.Equal(A{M{"n": 3}}, s.run(docs, A{M{"$skip": 2}, M{"$limit": 1}}))
}

func (s *AggregatorTestSuite) TestConsecutiveSkipsAdd() {
	docs := A{M{"n": 1}, M{"n": 2}, M{"n": 3}, M{"n": 4}}
	split := s.run(docs, A{M{"$skip": 1}, M{"$skip": 2}})
	joined := s.run(docs, A{M{"$skip": 3}})
	s.Equal(joined, split)
}

func (s *AggregatorTestSuite) TestCount() {
	docs := A{M{}, M{}, M{}}
	s.Equal(A{M{"total": 3}}, s.run(docs, A{M{"$count": "total"}}))
}

func (s *AggregatorTestSuite) TestSample() {
	docs := A{M{"n": 1}, M{"n": 2}, M{"n": 3}}
	got := s.run(docs, A{M{"$sample": M{"size": 5}}})
	s.Len(got, 5)
	for _, doc := range got {
		s.Contains(docs, doc)
	}
}

func (s *AggregatorTestSuite) TestAddFields() {
	docs := A{M{"a": 2, "b": 3}}
	got := s.run(docs, A{M{"$addFields": M{
		"sum":         M{"$add": A{"$a", "$b"}},
		"nested.flag": true,
	}}})
	s.Equal(A{M{"a": 2, "b": 3, "sum": 5.0, "nested": M{"flag": true}}}, got)
}

func (s *AggregatorTestSuite) TestAddFieldsDoesNotMutateInput() {
	doc := M{"a": 1}
	_ = s.run(A{doc}, A{M{"$addFields": M{"b": 2}}})
	s.Equal(M{"a": 1}, doc)
}

func (s *AggregatorTestSuite) TestReplaceRoot() {
	docs := A{M{"name": "x", "sub": M{"a": 1}}}
	got := s.run(docs, A{M{"$replaceRoot": M{"newRoot": "$sub"}}})
	s.Equal(A{M{"a": 1}}, got)

	_, err := NewAggregator(A{M{"$replaceRoot": M{"newRoot": "$name"}}}).Run(docs)
	s.Error(err)
}

func (s *AggregatorTestSuite) TestSortByCount() {
	docs := A{
		M{"tag": "go"},
		M{"tag": "js"},
		M{"tag": "go"},
		M{"tag": "go"},
		M{"tag": "rb"},
		M{"tag": "js"},
	}
	got := s.run(docs, A{M{"$sortByCount": "$tag"}})
	s.Equal(A{
		M{"_id": "go", "count": 3.0},
		M{"_id": "js", "count": 2.0},
		M{"_id": "rb", "count": 1.0},
	}, got)
}

func (s *AggregatorTestSuite) TestRedactKeepPrune() {
	docs := A{
		M{"level": 1, "data": "open"},
		M{"level": 5, "data": "secret"},
	}
	got := s.run(docs, A{M{"$redact": M{"$cond": A{
		M{"$lte": A{"$level", 3}},
		"$$KEEP",
		"$$PRUNE",
	}}}})
	s.Equal(A{M{"level": 1, "data": "open"}}, got)
}

func (s *AggregatorTestSuite) TestRedactDescend() {
	docs := A{M{
		"level": 1,
		"items": A{
			M{"level": 1, "v": "a"},
			M{"level": 5, "v": "b"},
		},
	}}
	got := s.run(docs, A{M{"$redact": M{"$cond": A{
		M{"$lte": A{"$level", 3}},
		"$$DESCEND",
		"$$PRUNE",
	}}}})
	s.Equal(A{M{
		"level": 1,
		"items": A{M{"level": 1, "v": "a"}},
	}}, got)
}

func (s *AggregatorTestSuite) TestUnknownStage() {
	_, err := NewAggregator(A{M{"$teleport": 1}}).Run(A{})
	var unknown domain.ErrUnknownOperator
	s.ErrorAs(err, &unknown)
}

func (s *AggregatorTestSuite) TestStageMustBeSingleKey() {
	_, err := NewAggregator(A{M{"$skip": 1, "$limit": 2}}).Run(A{})
	s.Error(err)
}

func (s *AggregatorTestSuite) TestGroupByDate() {
	day1 := time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 1, 2, 10, 0, 0, 0, time.UTC)
	docs := A{M{"at": day1}, M{"at": day2}, M{"at": day1}}
	got := s.run(docs, A{M{"$group": M{"_id": "$at", "c": M{"$sum": 1}}}})
	s.Equal(A{
		M{"_id": day1, "c": 2.0},
		M{"_id": day2, "c": 1.0},
	}, got)
}

func TestAggregatorTestSuite(t *testing.T) {
	suite.Run(t, new(AggregatorTestSuite))
}
