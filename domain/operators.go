package domain

// OperatorClass identifies which operator table a name belongs to.
type OperatorClass uint8

// The five operator classes.
const (
	ClassQuery OperatorClass = iota
	ClassProjection
	ClassGroup
	ClassPipeline
	ClassAggregate
)

// String implements [fmt.Stringer].
func (c OperatorClass) String() string {
	switch c {
	case ClassQuery:
		return "query"
	case ClassProjection:
		return "projection"
	case ClassGroup:
		return "group"
	case ClassPipeline:
		return "pipeline"
	case ClassAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// QueryOperator is the signature of a user-supplied query operator. It
// receives the field selector, the value resolved at that selector and the
// raw operand from the criteria. It must return a bool or a [Tester].
type QueryOperator func(selector string, value, operand any) (any, error)

// ProjectionOperator is the signature of a user-supplied projection operator.
// It receives the field selector, the value resolved at that selector and the
// raw operand from the projection.
type ProjectionOperator func(selector string, value, operand any) (any, error)

// AggregateOperator is the signature of a user-supplied aggregate expression
// operator. It receives the current document and its raw operand; ev can be
// used to evaluate sub-expressions.
type AggregateOperator func(ev Evaluator, obj, operand any) (any, error)

// GroupOperator is the signature of a user-supplied accumulator. It receives
// the partition's documents and the accumulator expression; ev can be used to
// evaluate the expression per document.
type GroupOperator func(ev Evaluator, docs []any, expr any) (any, error)

// PipelineOperator is the signature of a user-supplied pipeline stage. It
// receives the incoming document stream and the raw stage operand.
type PipelineOperator func(ev Evaluator, collection []any, operand any) ([]any, error)
