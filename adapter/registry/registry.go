// Package registry contains the operator registry. Builtin operators live in
// the adapter packages that implement them and reserve their names here;
// extension operators are registered with [Registry.Register] and looked up
// by the matcher, the projector, the evaluator and the aggregator.
package registry

import (
	"regexp"
	"sync"

	"github.com/lackofbrilliance/mingo/domain"
)

var nameRE = regexp.MustCompile(`^\$\w+$`)

// Factory produces the operators to register, keyed by name. The value type
// must match the class: [domain.QueryOperator], [domain.ProjectionOperator],
// [domain.GroupOperator], [domain.PipelineOperator] or
// [domain.AggregateOperator].
type Factory func() map[string]any

// Registry holds the per-class operator tables.
type Registry struct {
	mu      sync.RWMutex
	classes map[domain.OperatorClass]map[string]any
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[domain.OperatorClass]map[string]any),
	}
}

// Default is the registry consulted by engine components when no
// WithRegistry option overrides it.
var Default = NewRegistry()

// Reserve claims builtin names for a class so extensions cannot shadow them.
// Reserved names resolve to nil handlers; dispatch for them stays inside the
// owning adapter.
func (r *Registry) Reserve(class domain.OperatorClass, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table := r.table(class)
	for _, name := range names {
		if _, ok := table[name]; !ok {
			table[name] = nil
		}
	}
}

// Register validates and installs the operators produced by the factory.
func (r *Registry) Register(class domain.OperatorClass, factory Factory) error {
	ops := factory()

	r.mu.Lock()
	defer r.mu.Unlock()
	table := r.table(class)

	normalized := make(map[string]any, len(ops))
	for name, fn := range ops {
		if !nameRE.MatchString(name) {
			return domain.ErrOperatorName{Name: name}
		}
		if _, ok := table[name]; ok {
			return domain.ErrOperatorExists{Class: class, Name: name}
		}
		handler, ok := normalize(class, fn)
		if !ok {
			return domain.ErrOperatorType{Class: class, Name: name, Value: fn}
		}
		normalized[name] = handler
	}
	for name, fn := range normalized {
		table[name] = fn
	}
	return nil
}

// normalize converts plain function literals to the named handler type of
// the class.
func normalize(class domain.OperatorClass, fn any) (any, bool) {
	switch class {
	case domain.ClassQuery:
		switch t := fn.(type) {
		case domain.QueryOperator:
			return t, true
		case func(string, any, any) (any, error):
			return domain.QueryOperator(t), true
		}
	case domain.ClassProjection:
		switch t := fn.(type) {
		case domain.ProjectionOperator:
			return t, true
		case func(string, any, any) (any, error):
			return domain.ProjectionOperator(t), true
		}
	case domain.ClassGroup:
		switch t := fn.(type) {
		case domain.GroupOperator:
			return t, true
		case func(domain.Evaluator, []any, any) (any, error):
			return domain.GroupOperator(t), true
		}
	case domain.ClassPipeline:
		switch t := fn.(type) {
		case domain.PipelineOperator:
			return t, true
		case func(domain.Evaluator, []any, any) ([]any, error):
			return domain.PipelineOperator(t), true
		}
	case domain.ClassAggregate:
		switch t := fn.(type) {
		case domain.AggregateOperator:
			return t, true
		case func(domain.Evaluator, any, any) (any, error):
			return domain.AggregateOperator(t), true
		}
	}
	return nil, false
}

// Lookup returns the extension handler registered for the name. Reserved
// builtin names return (nil, true).
func (r *Registry) Lookup(class domain.OperatorClass, name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.classes[class][name]
	return fn, ok
}

func (r *Registry) table(class domain.OperatorClass) map[string]any {
	table, ok := r.classes[class]
	if !ok {
		table = make(map[string]any)
		r.classes[class] = table
	}
	return table
}
