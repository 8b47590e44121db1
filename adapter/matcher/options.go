package matcher

import (
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Option configures matcher behavior through the functional options pattern.
type Option func(*Matcher)

// WithComparer sets the comparer implementation for value comparisons during
// matching.
func WithComparer(c domain.Comparer) Option {
	return func(m *Matcher) {
		m.comparer = c
	}
}

// WithFieldNavigator sets the field navigator for resolving document fields
// during matching.
func WithFieldNavigator(fn domain.FieldNavigator) Option {
	return func(m *Matcher) {
		m.nav = fn
	}
}

// WithRegistry sets the registry consulted for extension query operators.
func WithRegistry(r *registry.Registry) Option {
	return func(m *Matcher) {
		m.registry = r
	}
}
