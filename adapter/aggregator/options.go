package aggregator

import (
	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/adapter/projector"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Option configures aggregator behavior through the functional options
// pattern.
type Option func(*Aggregator)

// WithComparer sets the comparer used by `$sort` and the accumulators.
func WithComparer(c domain.Comparer) Option {
	return func(a *Aggregator) {
		a.comparer = c
	}
}

// WithHasher sets the hasher used by `$group` partitioning.
func WithHasher(h domain.Hasher) Option {
	return func(a *Aggregator) {
		a.hasher = h
	}
}

// WithFieldNavigator sets the field navigator used by path-based stages.
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(a *Aggregator) {
		a.nav = fn
	}
}

// WithEvaluator sets the expression evaluator shared by the stages.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(a *Aggregator) {
		a.ev = ev
	}
}

// WithProjector sets the `$project` implementation.
func WithProjector(p *projector.Projector) Option {
	return func(a *Aggregator) {
		a.projector = p
	}
}

// WithRegistry sets the registry consulted for extension pipeline operators.
func WithRegistry(r *registry.Registry) Option {
	return func(a *Aggregator) {
		a.registry = r
	}
}

// WithConfig sets the engine configuration, including the identity field
// name used by `$group`.
func WithConfig(c domain.Config) Option {
	return func(a *Aggregator) {
		a.config = c
	}
}
