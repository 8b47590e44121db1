package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/lackofbrilliance/mingo/domain"
)

type M = map[string]any

type A = []any

type CursorTestSuite struct {
	suite.Suite
	docs A
}

func (s *CursorTestSuite) SetupTest() {
	s.docs = A{
		M{"_id": 1, "n": 30},
		M{"_id": 2, "n": 10},
		M{"_id": 3, "n": 20},
		M{"_id": 4, "n": 40},
	}
}

func (s *CursorTestSuite) TestAll() {
	all, err := NewCursor(s.docs, nil, nil).All()
	s.Require().NoError(err)
	s.Equal(s.docs, all)
}

func (s *CursorTestSuite) TestFilter() {
	test := func(doc any) (bool, error) {
		return doc.(M)["n"].(int) > 15, nil
	}
	count, err := NewCursor(s.docs, test, nil).Count()
	s.Require().NoError(err)
	s.Equal(3, count)
}

func (s *CursorTestSuite) TestOperatorOrderIsFixed() {
	// materialization applies sort, skip, limit, projection in that
	// order no matter how the caller chained them
	c := NewCursor(s.docs, nil, M{"n": 1, "_id": 0})
	c.Limit(2).Skip(1).Sort(M{"n": 1})

	all, err := c.All()
	s.Require().NoError(err)
	s.Equal(A{M{"n": 20}, M{"n": 30}}, all)
}

func (s *CursorTestSuite) TestFirstLast() {
	c := NewCursor(s.docs, nil, nil)
	c.Sort(M{"n": 1})

	first, err := c.First()
	s.Require().NoError(err)
	s.Equal(M{"_id": 2, "n": 10}, first)

	last, err := c.Last()
	s.Require().NoError(err)
	s.Equal(M{"_id": 4, "n": 40}, last)
}

func (s *CursorTestSuite) TestFirstOnEmpty() {
	first, err := NewCursor(A{}, nil, nil).First()
	s.Require().NoError(err)
	s.True(domain.IsMissing(first))
}

func (s *CursorTestSuite) TestNextScan() {
	type row struct {
		N int `mingo:"n"`
	}
	c := NewCursor(s.docs, nil, nil)
	c.Sort(M{"n": 1})

	var seen []int
	for c.Next() {
		var r row
		s.Require().NoError(c.Scan(&r))
		seen = append(seen, r.N)
	}
	s.Equal([]int{10, 20, 30, 40}, seen)
	s.False(c.HasNext())
}

func (s *CursorTestSuite) TestScanBeforeNext() {
	var target M
	err := NewCursor(s.docs, nil, nil).Scan(&target)
	s.ErrorIs(err, domain.ErrScanBeforeNext)
}

func (s *CursorTestSuite) TestMapForEach() {
	c := NewCursor(s.docs, nil, nil)
	doubled, err := c.Map(func(doc any) any {
		return doc.(M)["n"].(int) * 2
	})
	s.Require().NoError(err)
	s.Equal(A{60, 20, 40, 80}, doubled)

	total := 0
	s.Require().NoError(c.ForEach(func(doc any) {
		total += doc.(M)["n"].(int)
	}))
	s.Equal(100, total)
}

func (s *CursorTestSuite) TestMinMax() {
	c := NewCursor(s.docs, nil, nil)

	minN, err := c.Min("$n")
	s.Require().NoError(err)
	s.Equal(10, minN)

	maxN, err := c.Max("$n")
	s.Require().NoError(err)
	s.Equal(40, maxN)
}

func TestCursorTestSuite(t *testing.T) {
	suite.Run(t, new(CursorTestSuite))
}

func TestCursorTestPropertyMatchesCount(t *testing.T) {
	// Q.test(D) equals Q.find([D]).count() == 1 for the cursor side
	doc := M{"a": 1}
	test := func(d any) (bool, error) { return d.(M)["a"] == 1, nil }

	count, err := NewCursor(A{doc}, test, nil).Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
