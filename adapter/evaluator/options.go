package evaluator

import (
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Option configures evaluator behavior through the functional options
// pattern.
type Option func(*Evaluator)

// WithComparer sets the comparer implementation used by comparison and
// accumulator operators.
func WithComparer(c domain.Comparer) Option {
	return func(e *Evaluator) {
		e.comparer = c
	}
}

// WithHasher sets the hasher used by set operators and `$addToSet`.
func WithHasher(h domain.Hasher) Option {
	return func(e *Evaluator) {
		e.hasher = h
	}
}

// WithFieldNavigator sets the field navigator used to resolve path
// expressions.
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(e *Evaluator) {
		e.nav = fn
	}
}

// WithRegistry sets the registry consulted for extension operators.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Evaluator) {
		e.registry = r
	}
}
