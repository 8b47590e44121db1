// Package mingo provides an in-memory MongoDB query and aggregation engine
// for Go.
//
// It evaluates MongoDB-style criteria documents and aggregation pipelines
// over in-memory collections of JSON-shaped documents, without any database
// backend. The basic usage starts with [Find], [Remove] or [Aggregate], or
// with the reusable [Query] and [Aggregator] values.
package mingo

import (
	"fmt"

	"github.com/lackofbrilliance/mingo/adapter/aggregator"
	"github.com/lackofbrilliance/mingo/adapter/cursor"
	"github.com/lackofbrilliance/mingo/adapter/matcher"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// M is a document.
type M = map[string]any

// A is a list of values.
type A = []any

// D is an ordered document, used where key declaration order matters, such
// as multi-key $sort specifications.
type D = domain.D

// E is a single entry of a [D].
type E = domain.E

// Cursor provides deferred iteration over query results.
type Cursor = domain.Cursor

// Operator classes accepted by [AddOperators].
const (
	OpQuery      = domain.ClassQuery
	OpProjection = domain.ClassProjection
	OpGroup      = domain.ClassGroup
	OpPipeline   = domain.ClassPipeline
	OpAggregate  = domain.ClassAggregate
)

// Re-exported errors. The engine reports every failure as a synchronous
// validation error; no partial results are returned.
var (
	// ErrCollectionType is returned when a value that is not a list is
	// passed where a collection of documents is expected.
	ErrCollectionType = domain.ErrCollectionType
	// ErrPipelineType is returned when an aggregation pipeline is not a
	// list of stages.
	ErrPipelineType = domain.ErrPipelineType
	// ErrCriteriaType is returned when query criteria is not a document.
	ErrCriteriaType = domain.ErrCriteriaType
	// ErrScanBeforeNext is returned when calling [Cursor.Scan] before
	// calling [Cursor.Next].
	ErrScanBeforeNext = domain.ErrScanBeforeNext
	// ErrMixedOperators is returned when a predicate document mixes
	// operator keys with normal fields.
	ErrMixedOperators = matcher.ErrMixedOperators
)

// ErrUnknownOperator is returned when an unregistered dollar-prefixed name
// is used as an operator.
type ErrUnknownOperator = domain.ErrUnknownOperator

// ErrOperandType is returned when an operator is applied to an operand of
// the wrong shape.
type ErrOperandType = domain.ErrOperandType

// ErrOperatorName is returned when an extension operator is registered under
// an invalid name.
type ErrOperatorName = domain.ErrOperatorName

// ErrOperatorExists is returned when an extension operator collides with a
// registered name.
type ErrOperatorExists = domain.ErrOperatorExists

// config is the process-wide default configuration, adjusted by [Setup]. It is
// read by [NewQuery] when a query is built and by [Aggregator.Run] each time a
// pipeline runs. Components can be scoped to a
// different configuration through their adapter options instead.
var config = domain.DefaultConfig()

// Setup adjusts the process-wide configuration. It is expected to be called
// once, before queries run:
//
//	mingo.Setup(mingo.WithIDKey("id"))
func Setup(options ...domain.ConfigOption) {
	for _, option := range options {
		option(&config)
	}
}

// WithIDKey renames the identity field distinguished by $group, $project and
// cursor identity logic.
func WithIDKey(key string) domain.ConfigOption {
	return domain.WithIDKey(key)
}

// AddOperators registers extension operators of the given class. Names must
// be dollar-prefixed words and must not collide with registered or builtin
// names.
func AddOperators(class domain.OperatorClass, factory func() map[string]any) error {
	return registry.Default.Register(class, factory)
}

// Query is a compiled criteria document, reusable across collections.
type Query struct {
	matcher    *matcher.Matcher
	projection any
	config     domain.Config
}

// NewQuery compiles criteria into a reusable query. An optional projection
// is applied by the cursors it produces.
func NewQuery(criteria any, projection ...any) (*Query, error) {
	switch criteria.(type) {
	case nil, M, D:
	default:
		return nil, fmt.Errorf("%w: got %T", ErrCriteriaType, criteria)
	}
	q := &Query{
		matcher: matcher.NewMatcher(),
		config:  config,
	}
	if len(projection) > 0 {
		q.projection = projection[0]
	}
	if err := q.matcher.SetQuery(criteria); err != nil {
		return nil, err
	}
	return q, nil
}

// Test implements [domain.Tester]: it runs the compiled conjunction against
// a single document.
func (q *Query) Test(doc any) (bool, error) {
	return q.matcher.Test(doc)
}

// Find returns a cursor over the matching documents. A projection given here
// overrides the one the query was built with.
func (q *Query) Find(collection any, projection ...any) (Cursor, error) {
	docs, ok := structure.List(collection)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrCollectionType, collection)
	}
	proj := q.projection
	if len(projection) > 0 {
		proj = projection[0]
	}
	return cursor.NewCursor(docs, q.matcher.Test, proj,
		cursor.WithConfig(q.config),
	), nil
}

// Remove returns the complement: every document that does not match.
func (q *Query) Remove(collection any) ([]any, error) {
	docs, ok := structure.List(collection)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrCollectionType, collection)
	}
	res := make([]any, 0, len(docs))
	for _, doc := range docs {
		matches, err := q.matcher.Test(doc)
		if err != nil {
			return nil, err
		}
		if !matches {
			res = append(res, doc)
		}
	}
	return res, nil
}

// Aggregator is a reusable aggregation pipeline.
type Aggregator struct {
	pipeline []any
}

// NewAggregator returns an aggregator for the pipeline, a list of single-key
// stage documents.
func NewAggregator(pipeline []any) *Aggregator {
	return &Aggregator{pipeline: pipeline}
}

// Run feeds the collection through the pipeline stages in order.
func (a *Aggregator) Run(collection any) ([]any, error) {
	docs, ok := structure.List(collection)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrCollectionType, collection)
	}
	agg := aggregator.NewAggregator(a.pipeline,
		aggregator.WithConfig(config),
	)
	return agg.Run(docs)
}

// Find matches criteria against the collection and returns a cursor over the
// results.
func Find(collection any, criteria any, projection ...any) (Cursor, error) {
	q, err := NewQuery(criteria, projection...)
	if err != nil {
		return nil, err
	}
	return q.Find(collection)
}

// Remove returns the documents that do not match the criteria.
func Remove(collection any, criteria any) ([]any, error) {
	q, err := NewQuery(criteria)
	if err != nil {
		return nil, err
	}
	return q.Remove(collection)
}

// Aggregate runs the pipeline over the collection.
func Aggregate(collection any, pipeline any) ([]any, error) {
	stages, ok := structure.List(pipeline)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrPipelineType, pipeline)
	}
	return NewAggregator(stages).Run(collection)
}
