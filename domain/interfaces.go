// Package domain contains domain-specific interfaces, error types and option
// types for the mingo query engine.
//
// This package defines the core interfaces that must be implemented by
// adapters, as well as functional options for configuring components like
// matchers, evaluators, aggregators and cursors.
package domain

// Comparer provides ordering and comparison operations for different data
// types. The order is total: Missing < nil < numbers < strings < booleans <
// dates < arrays < objects < regexps. NaN compares equal to NaN.
type Comparer interface {
	// Compare returns -1, 0, or 1 based on the comparison of two values.
	Compare(any, any) (int, error)
	// Comparable returns true if two values are of mutually ordered types.
	Comparable(any, any) bool
}

// Hasher generates identity hashes used by set operators, `$group`
// partitioning and `$addToSet` deduplication.
type Hasher interface {
	// Hash generates a hash value for the given data.
	Hash(any) (uint64, error)
}

// Getter represents a value that can be treated as undefined. If an address
// points to an unset key in a document, an out of bounds index in an array or
// any address within a primitive value, it counts as undefined. An explicit
// nil does not count as undefined.
type Getter interface {
	// Get returns the value and a flag that reports whether the value
	// counts as defined.
	Get() (value any, defined bool)
}

// GetSetter represents a value inside a document. It is returned by
// [FieldNavigator] so identifying unset values and writing nested fields
// becomes easier. Undefined values can neither be set nor unset.
type GetSetter interface {
	Getter
	// Set writes a new value at the address.
	Set(any)
	// Unset removes the value from the parent container.
	Unset()
}

// FieldNavigator provides field access operations with dot notation support.
type FieldNavigator interface {
	// GetField extracts values from nested documents, following path
	// parts. The second return reports whether the path broadcast over an
	// array along the way.
	GetField(any, ...string) ([]GetSetter, bool, error)
	// EnsureField walks to the terminal segment, creating missing
	// intermediate documents.
	EnsureField(any, ...string) ([]GetSetter, error)
	// GetAddress splits the string address into path segments.
	GetAddress(field string) ([]string, error)
}

// Decoder converts result documents into user-defined types.
type Decoder interface {
	// Decode converts from one data representation to another.
	Decode(any, any) error
}

// Tester evaluates whether a document matches compiled query criteria.
// Implemented by the matcher's Query and accepted as a return value from
// user-supplied query operators.
type Tester interface {
	// Test returns true if the document matches.
	Test(any) (bool, error)
}

// Evaluator interprets an aggregation expression against a document. The
// field parameter carries the key under which the expression appeared, which
// is significant for operator dispatch; pass an empty string otherwise.
type Evaluator interface {
	// Compute evaluates expr against obj.
	Compute(obj, expr any, field string) (any, error)
}

// Cursor provides deferred iteration over query results. Modifier methods
// accumulate until the first materializing call; materialization always
// applies sort, skip, limit and projection in that order, regardless of call
// order.
type Cursor interface {
	// Skip drops the first n results.
	Skip(n int) Cursor
	// Limit caps the number of results at n.
	Limit(n int) Cursor
	// Sort orders the results by the given sort specification.
	Sort(spec any) Cursor

	// All materializes and returns every result.
	All() ([]any, error)
	// First returns the first result, or Missing if there is none.
	First() (any, error)
	// Last returns the last result, or Missing if there is none.
	Last() (any, error)
	// Count returns the number of results.
	Count() (int, error)
	// Next advances the cursor, returning true while a document is
	// available.
	Next() bool
	// HasNext reports whether another document is available without
	// advancing.
	HasNext() bool
	// Scan decodes the current document into target.
	Scan(target any) error
	// Err returns any error that occurred during materialization.
	Err() error
	// Map applies fn to every result.
	Map(fn func(any) any) ([]any, error)
	// ForEach calls fn for every result.
	ForEach(fn func(any)) error
	// Min evaluates expr over the results and returns the smallest value.
	Min(expr any) (any, error)
	// Max evaluates expr over the results and returns the largest value.
	Max(expr any) (any, error)
}

type missing struct{}

// Missing is the result of resolving a path that does not exist in a
// document. It is distinct from an explicit nil: `$group` omits the identity
// field when the key evaluates to Missing, projections and `$addFields` skip
// Missing values, and arithmetic operators treat Missing like null.
var Missing missing

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missing)
	return ok
}
