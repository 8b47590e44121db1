package cursor

import (
	"github.com/lackofbrilliance/mingo/adapter/registry"
	"github.com/lackofbrilliance/mingo/domain"
)

// Option configures cursor behavior through the functional options pattern.
type Option func(*Cursor)

// WithComparer sets the comparer used by Sort, Min and Max.
func WithComparer(c domain.Comparer) Option {
	return func(cur *Cursor) {
		cur.comparer = c
	}
}

// WithDecoder sets the decoder used by Scan.
func WithDecoder(d domain.Decoder) Option {
	return func(cur *Cursor) {
		cur.dec = d
	}
}

// WithRegistry sets the registry used when materializing the internal
// pipeline.
func WithRegistry(r *registry.Registry) Option {
	return func(cur *Cursor) {
		cur.registry = r
	}
}

// WithConfig sets the engine configuration, including the identity field
// name.
func WithConfig(c domain.Config) Option {
	return func(cur *Cursor) {
		cur.config = c
	}
}
