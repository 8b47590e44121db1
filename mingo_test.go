package mingo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lackofbrilliance/mingo/domain"
)

func TestFind(t *testing.T) {
	docs := A{M{"a": 1}, M{"a": 2}, M{"a": 3}}

	c, err := Find(docs, M{"a": M{"$gt": 1}})
	require.NoError(t, err)

	all, err := c.All()
	require.NoError(t, err)
	assert.Equal(t, A{M{"a": 2}, M{"a": 3}}, all)
}

func TestFindArrayTraversal(t *testing.T) {
	docs := A{M{"tags": A{"x", "y"}}, M{"tags": A{"z"}}}

	c, err := Find(docs, M{"tags": "x"})
	require.NoError(t, err)

	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueryTestMatchesFindCount(t *testing.T) {
	// Q.test(D) == (Q.find([D]).count() == 1)
	docs := A{
		M{"a": 1, "b": A{1, 2}},
		M{"a": 2},
		M{"c": "x"},
	}
	criteria := []any{
		M{"a": 1},
		M{"b": 2},
		M{"a": M{"$exists": false}},
		M{"$or": A{M{"a": 2}, M{"c": "x"}}},
	}
	for _, crit := range criteria {
		q, err := NewQuery(crit)
		require.NoError(t, err)
		for _, doc := range docs {
			matched, err := q.Test(doc)
			require.NoError(t, err)

			c, err := q.Find(A{doc})
			require.NoError(t, err)
			count, err := c.Count()
			require.NoError(t, err)
			assert.Equal(t, matched, count == 1, "%v vs %v", crit, doc)
		}
	}
}

func TestMatchStageEqualsQueryFind(t *testing.T) {
	docs := A{M{"n": 1}, M{"n": 5}, M{"n": 9}}
	criteria := M{"n": M{"$gte": 5}}

	staged, err := Aggregate(docs, A{M{"$match": criteria}})
	require.NoError(t, err)

	q, err := NewQuery(criteria)
	require.NoError(t, err)
	c, err := q.Find(docs)
	require.NoError(t, err)
	found, err := c.All()
	require.NoError(t, err)

	assert.Equal(t, found, staged)
}

func TestRemove(t *testing.T) {
	docs := A{M{"a": 1}, M{"a": 2}, M{"a": 3}}
	rest, err := Remove(docs, M{"a": M{"$lt": 3}})
	require.NoError(t, err)
	assert.Equal(t, A{M{"a": 3}}, rest)
}

func TestAggregateGroup(t *testing.T) {
	docs := A{M{"n": 1}, M{"n": 2}, M{"n": 3}, M{"n": 4}}
	got, err := Aggregate(docs, A{M{"$group": M{"_id": nil, "s": M{"$sum": "$n"}}}})
	require.NoError(t, err)
	assert.Equal(t, A{M{"_id": nil, "s": 10.0}}, got)
}

func TestAggregateUnwind(t *testing.T) {
	got, err := Aggregate(A{M{"a": A{1, 2, 3}}}, A{M{"$unwind": "$a"}})
	require.NoError(t, err)
	assert.Equal(t, A{M{"a": 1}, M{"a": 2}, M{"a": 3}}, got)
}

func TestAggregateSortScenario(t *testing.T) {
	docs := A{
		M{"x": 1, "y": 1},
		M{"x": 1, "y": 2},
		M{"x": 2, "y": 3},
	}
	got, err := Aggregate(docs, A{M{"$sort": D{
		{Key: "x", Value: 1},
		{Key: "y", Value: -1},
	}}})
	require.NoError(t, err)

	ys := make(A, 0, len(got))
	for _, doc := range got {
		ys = append(ys, doc.(M)["y"])
	}
	assert.Equal(t, A{2, 1, 3}, ys)
}

func TestSetupRenamesIdentityField(t *testing.T) {
	Setup(WithIDKey("key"))
	defer Setup(WithIDKey("_id"))

	docs := A{M{"g": "a"}, M{"g": "b"}, M{"g": "a"}}
	got, err := Aggregate(docs, A{M{"$group": M{"key": "$g", "c": M{"$sum": 1}}}})
	require.NoError(t, err)
	assert.Equal(t, A{
		M{"key": "a", "c": 2.0},
		M{"key": "b", "c": 1.0},
	}, got)
}

func TestAddQueryOperator(t *testing.T) {
	err := AddOperators(OpQuery, func() map[string]any {
		return map[string]any{
			"$between": func(selector string, value, operand any) (any, error) {
				bounds := operand.(A)
				n, ok := value.(int)
				if !ok {
					return false, nil
				}
				return n >= bounds[0].(int) && n <= bounds[1].(int), nil
			},
		}
	})
	require.NoError(t, err)

	c, err := Find(A{M{"n": 4}, M{"n": 10}}, M{"n": M{"$between": A{2, 5}}})
	require.NoError(t, err)
	all, err := c.All()
	require.NoError(t, err)
	assert.Equal(t, A{M{"n": 4}}, all)
}

func TestAddOperatorCollision(t *testing.T) {
	err := AddOperators(OpQuery, func() map[string]any {
		return map[string]any{"$eq": domain.QueryOperator(func(string, any, any) (any, error) {
			return true, nil
		})}
	})
	var exists ErrOperatorExists
	assert.ErrorAs(t, err, &exists)
}

func TestAddOperatorInvalidName(t *testing.T) {
	err := AddOperators(OpGroup, func() map[string]any {
		return map[string]any{"noDollar": domain.GroupOperator(func(domain.Evaluator, []any, any) (any, error) {
			return nil, nil
		})}
	})
	var nameErr ErrOperatorName
	assert.ErrorAs(t, err, &nameErr)
}

func TestAddPipelineOperator(t *testing.T) {
	err := AddOperators(OpPipeline, func() map[string]any {
		return map[string]any{
			"$reverse": func(ev domain.Evaluator, collection []any, operand any) ([]any, error) {
				res := make([]any, len(collection))
				for n, doc := range collection {
					res[len(collection)-1-n] = doc
				}
				return res, nil
			},
		}
	})
	require.NoError(t, err)

	got, err := Aggregate(A{M{"n": 1}, M{"n": 2}}, A{M{"$reverse": nil}})
	require.NoError(t, err)
	assert.Equal(t, A{M{"n": 2}, M{"n": 1}}, got)
}

func TestCursorChaining(t *testing.T) {
	docs := A{M{"n": 4}, M{"n": 2}, M{"n": 3}, M{"n": 1}}
	c, err := Find(docs, nil)
	require.NoError(t, err)

	all, err := c.Sort(M{"n": -1}).Skip(1).Limit(2).All()
	require.NoError(t, err)
	assert.Equal(t, A{M{"n": 3}, M{"n": 2}}, all)
}

func TestInputValidation(t *testing.T) {
	_, err := Find(A{}, 42)
	assert.ErrorIs(t, err, ErrCriteriaType)

	_, err = Find("not a collection", M{})
	assert.ErrorIs(t, err, ErrCollectionType)

	_, err = Aggregate(A{}, "not a pipeline")
	assert.ErrorIs(t, err, ErrPipelineType)
}

func TestTypedCollectionsAreAccepted(t *testing.T) {
	docs := []M{{"a": 1}, {"a": 2}}
	c, err := Find(docs, M{"a": 2})
	require.NoError(t, err)
	count, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindWithProjection(t *testing.T) {
	docs := A{M{"_id": 1, "a": "x", "b": "y"}}
	c, err := Find(docs, nil, M{"a": 1, "_id": 0})
	require.NoError(t, err)

	all, err := c.All()
	require.NoError(t, err)
	assert.Equal(t, A{M{"a": "x"}}, all)
}
