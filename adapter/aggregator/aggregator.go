// Package aggregator contains the pipeline runtime: stage dispatch and the
// stage operators themselves. Stages are methods on the aggregator so one
// stage can invoke another without re-entering the public API, which is how
// `$sortByCount` composes `$group` and `$sort`.
package aggregator

import (
	"strings"

	"github.com/lackofbrilliance/mingo/adapter/comparer"
	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/adapter/fieldnavigator"
	"github.com/lackofbrilliance/mingo/adapter/hasher"
	"github.com/lackofbrilliance/mingo/adapter/matcher"
	"github.com/lackofbrilliance/mingo/adapter/projector"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

var builtins = []string{
	"$match", "$project", "$group", "$sort", "$unwind", "$redact",
	"$replaceRoot", "$addFields", "$sortByCount", "$sample", "$count",
	"$limit", "$skip",
}

func init() {
	registry.Default.Reserve(domain.ClassPipeline, builtins...)
}

// Aggregator runs an aggregation pipeline over document streams.
type Aggregator struct {
	pipeline  []any
	ev        *evaluator.Evaluator
	comparer  domain.Comparer
	hasher    domain.Hasher
	nav       domain.FieldNavigator
	registry  *registry.Registry
	config    domain.Config
	projector *projector.Projector
}

// NewAggregator returns an aggregator for the given pipeline. The pipeline
// is a list of single-key stage documents.
func NewAggregator(pipeline []any, options ...Option) *Aggregator {
	a := &Aggregator{
		pipeline: pipeline,
		comparer: comparer.NewComparer(),
		hasher:   hasher.NewHasher(),
		nav:      fieldnavigator.NewFieldNavigator(),
		registry: registry.Default,
		config:   domain.DefaultConfig(),
	}
	for _, option := range options {
		option(a)
	}
	if a.ev == nil {
		a.ev = evaluator.NewEvaluator(
			evaluator.WithComparer(a.comparer),
			evaluator.WithHasher(a.hasher),
			evaluator.WithFieldNavigator(a.nav),
			evaluator.WithRegistry(a.registry),
		)
	}
	if a.projector == nil {
		a.projector = projector.NewProjector(
			projector.WithFieldNavigator(a.nav),
			projector.WithEvaluator(a.ev),
			projector.WithRegistry(a.registry),
			projector.WithConfig(a.config),
		)
	}
	return a
}

// Run iterates the pipeline stages in order, each receiving the previous
// stage's output.
func (a *Aggregator) Run(collection []any) ([]any, error) {
	docs := collection
	for _, stage := range a.pipeline {
		name, operand, err := a.stageOf(stage)
		if err != nil {
			return nil, err
		}
		docs, err = a.runStage(docs, name, operand)
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func (a *Aggregator) stageOf(stage any) (string, any, error) {
	entries, l, err := structure.Seq2(stage)
	if err != nil || l != 1 {
		return "", nil, domain.ErrOperandType{Operator: "aggregate", Want: "single-key stage document", Actual: stage}
	}
	for name, operand := range entries {
		if !strings.HasPrefix(name, "$") {
			break
		}
		return name, operand, nil
	}
	return "", nil, domain.ErrOperandType{Operator: "aggregate", Want: "dollar-prefixed stage name", Actual: stage}
}

func (a *Aggregator) runStage(docs []any, name string, operand any) ([]any, error) {
	switch name {
	case "$match":
		return a.match(docs, operand)
	case "$project":
		return a.projector.Project(docs, operand)
	case "$group":
		return a.group(docs, operand)
	case "$sort":
		return a.sort(docs, operand)
	case "$unwind":
		return a.unwind(docs, operand)
	case "$redact":
		return a.redact(docs, operand)
	case "$replaceRoot":
		return a.replaceRoot(docs, operand)
	case "$addFields":
		return a.addFields(docs, operand)
	case "$sortByCount":
		return a.sortByCount(docs, operand)
	case "$sample":
		return a.sample(docs, operand)
	case "$count":
		return a.count(docs, operand)
	case "$limit":
		return a.limit(docs, operand)
	case "$skip":
		return a.skip(docs, operand)
	}
	if ext, ok := a.registry.Lookup(domain.ClassPipeline, name); ok && ext != nil {
		fn, ok := ext.(domain.PipelineOperator)
		if !ok {
			return nil, domain.ErrOperatorType{Class: domain.ClassPipeline, Name: name, Value: ext}
		}
		return fn(a.ev, docs, operand)
	}
	return nil, domain.ErrUnknownOperator{Class: domain.ClassPipeline, Operator: name}
}

func (a *Aggregator) match(docs []any, criteria any) ([]any, error) {
	m := matcher.NewMatcher(
		matcher.WithComparer(a.comparer),
		matcher.WithFieldNavigator(a.nav),
		matcher.WithRegistry(a.registry),
	)
	if err := m.SetQuery(criteria); err != nil {
		return nil, err
	}
	res := make([]any, 0, len(docs))
	for _, doc := range docs {
		matches, err := m.Test(doc)
		if err != nil {
			return nil, err
		}
		if matches {
			res = append(res, doc)
		}
	}
	return res, nil
}
