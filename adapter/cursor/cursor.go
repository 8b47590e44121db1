// Package cursor contains the default [domain.Cursor] implementation:
// deferred materialization of a filter plus accumulated sort, skip, limit
// and projection operators.
package cursor

import (
	"github.com/lackofbrilliance/mingo/adapter/aggregator"
	"github.com/lackofbrilliance/mingo/adapter/comparer"
	"github.com/lackofbrilliance/mingo/adapter/decoder"
	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Cursor implements [domain.Cursor].
type Cursor struct {
	source     []any
	test       func(any) (bool, error)
	projection any

	sortSpec any
	skip     int
	limit    int
	hasSkip  bool
	hasLimit bool

	comparer domain.Comparer
	dec      domain.Decoder
	registry *registry.Registry
	config   domain.Config

	data  []any
	done  bool
	err   error
	index int
}

// NewCursor returns a cursor over the collection. test may be nil to accept
// every document; projection may be nil.
func NewCursor(collection []any, test func(any) (bool, error), projection any, options ...Option) *Cursor {
	c := &Cursor{
		source:     collection,
		test:       test,
		projection: projection,
		comparer:   comparer.NewComparer(),
		dec:        decoder.NewDecoder(),
		registry:   registry.Default,
		config:     domain.DefaultConfig(),
		index:      -1,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Skip implements [domain.Cursor].
func (c *Cursor) Skip(n int) domain.Cursor {
	c.skip, c.hasSkip = n, true
	return c
}

// Limit implements [domain.Cursor].
func (c *Cursor) Limit(n int) domain.Cursor {
	c.limit, c.hasLimit = n, true
	return c
}

// Sort implements [domain.Cursor].
func (c *Cursor) Sort(spec any) domain.Cursor {
	c.sortSpec = spec
	return c
}

// materialize filters the source and composes the accumulated operators into
// a pipeline, always in sort, skip, limit, projection order regardless of
// the order the caller invoked them in.
func (c *Cursor) materialize() error {
	if c.done {
		return c.err
	}
	c.done = true

	filtered := c.source
	if c.test != nil {
		filtered = make([]any, 0, len(c.source))
		for _, doc := range c.source {
			matches, err := c.test(doc)
			if err != nil {
				c.err = err
				return err
			}
			if matches {
				filtered = append(filtered, doc)
			}
		}
	}

	pipeline := make([]any, 0, 4)
	if c.sortSpec != nil {
		pipeline = append(pipeline, map[string]any{"$sort": c.sortSpec})
	}
	if c.hasSkip {
		pipeline = append(pipeline, map[string]any{"$skip": c.skip})
	}
	if c.hasLimit {
		pipeline = append(pipeline, map[string]any{"$limit": c.limit})
	}
	if c.projection != nil {
		pipeline = append(pipeline, map[string]any{"$project": c.projection})
	}
	if len(pipeline) == 0 {
		c.data = filtered
		return nil
	}

	agg := aggregator.NewAggregator(pipeline,
		aggregator.WithComparer(c.comparer),
		aggregator.WithRegistry(c.registry),
		aggregator.WithConfig(c.config),
	)
	c.data, c.err = agg.Run(filtered)
	return c.err
}

// All implements [domain.Cursor].
func (c *Cursor) All() ([]any, error) {
	if err := c.materialize(); err != nil {
		return nil, err
	}
	return c.data, nil
}

// First implements [domain.Cursor].
func (c *Cursor) First() (any, error) {
	if err := c.materialize(); err != nil {
		return nil, err
	}
	if len(c.data) == 0 {
		return domain.Missing, nil
	}
	return c.data[0], nil
}

// Last implements [domain.Cursor].
func (c *Cursor) Last() (any, error) {
	if err := c.materialize(); err != nil {
		return nil, err
	}
	if len(c.data) == 0 {
		return domain.Missing, nil
	}
	return c.data[len(c.data)-1], nil
}

// Count implements [domain.Cursor].
func (c *Cursor) Count() (int, error) {
	if err := c.materialize(); err != nil {
		return 0, err
	}
	return len(c.data), nil
}

// Next implements [domain.Cursor].
func (c *Cursor) Next() bool {
	if err := c.materialize(); err != nil {
		return false
	}
	if c.index+1 < len(c.data) {
		c.index++
		return true
	}
	return false
}

// HasNext implements [domain.Cursor].
func (c *Cursor) HasNext() bool {
	if err := c.materialize(); err != nil {
		return false
	}
	return c.index+1 < len(c.data)
}

// Scan implements [domain.Cursor].
func (c *Cursor) Scan(target any) error {
	if err := c.materialize(); err != nil {
		return err
	}
	if c.index < 0 {
		return domain.ErrScanBeforeNext
	}
	return c.dec.Decode(c.data[c.index], target)
}

// Err implements [domain.Cursor].
func (c *Cursor) Err() error {
	return c.err
}

// Map implements [domain.Cursor].
func (c *Cursor) Map(fn func(any) any) ([]any, error) {
	if err := c.materialize(); err != nil {
		return nil, err
	}
	res := make([]any, len(c.data))
	for n, doc := range c.data {
		res[n] = fn(doc)
	}
	return res, nil
}

// ForEach implements [domain.Cursor].
func (c *Cursor) ForEach(fn func(any)) error {
	if err := c.materialize(); err != nil {
		return err
	}
	for _, doc := range c.data {
		fn(doc)
	}
	return nil
}

// Min implements [domain.Cursor].
func (c *Cursor) Min(expr any) (any, error) {
	return c.extreme(expr, -1)
}

// Max implements [domain.Cursor].
func (c *Cursor) Max(expr any) (any, error) {
	return c.extreme(expr, 1)
}

func (c *Cursor) extreme(expr any, sign int) (any, error) {
	if err := c.materialize(); err != nil {
		return nil, err
	}
	ev := evaluator.NewEvaluator(
		evaluator.WithComparer(c.comparer),
		evaluator.WithRegistry(c.registry),
	)
	var best any = domain.Missing
	for _, doc := range c.data {
		v, err := ev.Compute(doc, expr, "")
		if err != nil {
			return nil, err
		}
		if domain.IsMissing(v) {
			continue
		}
		if domain.IsMissing(best) {
			best = v
			continue
		}
		cmp, err := c.comparer.Compare(v, best)
		if err != nil {
			return nil, err
		}
		if cmp*sign > 0 {
			best = v
		}
	}
	if domain.IsMissing(best) {
		return nil, nil
	}
	return best, nil
}
