package projector

import (
	"github.com/lackofbrilliance/mingo/adapter/evaluator"
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Option configures projector behavior through the functional options
// pattern.
type Option func(*Projector)

// WithFieldNavigator sets the field navigator used to resolve and rebuild
// projected fields.
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(p *Projector) {
		p.nav = fn
	}
}

// WithEvaluator sets the expression evaluator used for computed projections.
func WithEvaluator(ev *evaluator.Evaluator) Option {
	return func(p *Projector) {
		p.ev = ev
	}
}

// WithRegistry sets the registry consulted for extension projection
// operators.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Projector) {
		p.registry = r
	}
}

// WithConfig sets the engine configuration, including the identity field
// name.
func WithConfig(c domain.Config) Option {
	return func(p *Projector) {
		p.config = c
	}
}
