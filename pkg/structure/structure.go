// Package structure contains type-related operations, such as iterating over
// a value of type any, converting numbers, deep-cloning and flattening
// document trees.
package structure

import (
	"errors"
	"iter"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-reflect"

	"github.com/lackofbrilliance/mingo/domain"
)

var (
	// ErrNilObj may be returned by [Seq] or [Seq2] when a nil value is
	// passed as argument.
	ErrNilObj = errors.New("nil object")
	// ErrNonObject is returned by [Seq2] when a value that is neither a
	// map, a [domain.D] nor a struct is passed as argument.
	ErrNonObject = errors.New("not an object")
	// ErrNonList is returned by [Seq] when a value that is neither a
	// slice nor an array is passed as argument.
	ErrNonList = errors.New("not a list")
)

// TagName is the struct tag read when normalizing struct inputs.
const TagName = "mingo"

// Seq2 returns an ordered iterator over the entries of an object-like value:
// a [domain.D] (declaration order), a string-keyed map (sorted key order for
// determinism) or a struct (field order, honoring the mingo tag).
func Seq2(obj any) (iter.Seq2[string, any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	switch t := obj.(type) {
	case domain.D:
		return iterD(t), len(t), nil
	case map[string]any:
		return iterMap(t), len(t), nil
	case map[string]string:
		return iterMap(t), len(t), nil
	case map[string]bool:
		return iterMap(t), len(t), nil
	case map[string]int:
		return iterMap(t), len(t), nil
	case map[string]int64:
		return iterMap(t), len(t), nil
	case map[string]float64:
		return iterMap(t), len(t), nil
	case string, bool, []byte, time.Time, *regexp.Regexp,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return nil, 0, ErrNonObject
	}
	return iterReflect(obj)
}

func iterD(d domain.D) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, e := range d {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

func iterMap[T any](m map[string]T) iter.Seq2[string, any] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

func iterReflect(obj any) (iter.Seq2[string, any], int, error) {
	v := reflect.ValueNoEscapeOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, 0, ErrNilObj
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, 0, ErrNonObject
		}
		pairs := make(map[string]any, v.Len())
		for _, key := range v.MapKeys() {
			pairs[key.String()] = v.MapIndex(key).Interface()
		}
		return iterMap(pairs), len(pairs), nil
	case reflect.Struct:
		return iterStruct(v)
	}
	return nil, 0, ErrNonObject
}

func iterStruct(v reflect.Value) (iter.Seq2[string, any], int, error) {
	typ := v.Type()
	d := make(domain.D, 0, typ.NumField())
	for n := range typ.NumField() {
		field := typ.Field(n)
		if field.PkgPath != "" {
			continue
		}
		name := field.Name
		if tag, ok := field.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		d = append(d, domain.E{Key: name, Value: v.Field(n).Interface()})
	}
	return iterD(d), len(d), nil
}

// Seq returns an iterator over a slice or array of any element type.
func Seq(obj any) (iter.Seq[any], int, error) {
	if obj == nil {
		return nil, 0, ErrNilObj
	}
	switch t := obj.(type) {
	case []any:
		return iterSlice(t), len(t), nil
	case []string:
		return iterSlice(t), len(t), nil
	case []int:
		return iterSlice(t), len(t), nil
	case []int64:
		return iterSlice(t), len(t), nil
	case []float64:
		return iterSlice(t), len(t), nil
	case []bool:
		return iterSlice(t), len(t), nil
	case string, []byte, time.Time, *regexp.Regexp:
		return nil, 0, ErrNonList
	}
	v := reflect.ValueNoEscapeOf(obj)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, 0, ErrNonList
	}
	items := make([]any, v.Len())
	for n := range items {
		items[n] = v.Index(n).Interface()
	}
	return iterSlice(items), len(items), nil
}

func iterSlice[T any](s []T) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

// List normalizes a slice or array of any element type to []any.
func List(obj any) ([]any, bool) {
	if t, ok := obj.([]any); ok {
		return t, true
	}
	i, l, err := Seq(obj)
	if err != nil {
		return nil, false
	}
	res := make([]any, 0, l)
	res = slices.AppendSeq(res, i)
	return res, true
}

// AsInteger converts any built-in number to int and reports whether the value
// was an integral number. Floats with a fractional part do not convert.
func AsInteger(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int8:
		return int(t), true
	case int16:
		return int(t), true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case uint:
		return int(t), true
	case uint8:
		return int(t), true
	case uint16:
		return int(t), true
	case uint32:
		return int(t), true
	case uint64:
		return int(t), true
	case float32:
		if float32(int(t)) == t {
			return int(t), true
		}
	case float64:
		if float64(int(t)) == t {
			return int(t), true
		}
	}
	return 0, false
}

// AsFloat converts any built-in number to float64.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// IsNumber reports whether v is a built-in number.
func IsNumber(v any) bool {
	_, ok := AsFloat(v)
	return ok
}

// IsNil reports whether v is nil or the Missing sentinel. Operators with
// soft-null semantics short-circuit on these.
func IsNil(v any) bool {
	return v == nil || domain.IsMissing(v)
}

// Truthy reports whether v counts as true in conditional contexts: false,
// nil, Missing, zero and NaN are falsy, everything else is truthy.
func Truthy(v any) bool {
	if IsNil(v) {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if f, ok := AsFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Contains reports whether s has an element equal to t under fn.
func Contains[T any, S ~[]T](s S, t T, fn func(a, b T) (bool, error)) (bool, error) {
	for _, item := range s {
		eq, err := fn(item, t)
		if err != nil || eq {
			return eq, err
		}
	}
	return false, nil
}

// Clone returns a recursive structural copy of maps, ordered documents and
// lists. Primitives, times and regexps are returned as-is.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(t))
		for k, item := range t {
			res[k] = Clone(item)
		}
		return res
	case domain.D:
		res := make(domain.D, len(t))
		for n, e := range t {
			res[n] = domain.E{Key: e.Key, Value: Clone(e.Value)}
		}
		return res
	case []any:
		res := make([]any, len(t))
		for n, item := range t {
			res[n] = Clone(item)
		}
		return res
	default:
		return v
	}
}

// Flatten concatenates nested lists up to the given depth. A negative depth
// flattens without bound.
func Flatten(xs []any, depth int) []any {
	res := make([]any, 0, len(xs))
	for _, v := range xs {
		sub, ok := v.([]any)
		if ok && depth != 0 {
			res = append(res, Flatten(sub, depth-1)...)
			continue
		}
		res = append(res, v)
	}
	return res
}
