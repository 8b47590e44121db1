// Package hasher contains a canonical-JSON based implementation of
// [domain.Hasher]. Identity is structural: two values hash equal when their
// sorted-key JSON forms coincide, which is what the set operators, `$group`
// partitioning and `$addToSet` rely on. Values JSON cannot carry (NaN,
// infinities, regexps, Missing) are canonicalized to tagged strings first.
package hasher

import (
	"bytes"
	"encoding/json"
	"hash/fnv"
	"math"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// Hasher implements [domain.Hasher].
type Hasher struct{}

// NewHasher returns a new implementation of [domain.Hasher].
func NewHasher() domain.Hasher {
	return &Hasher{}
}

// Hash implements domain.Hasher.
func (h *Hasher) Hash(value any) (uint64, error) {
	canonical := h.canonicalize(value)

	b, err := json.Marshal(canonical)
	if err != nil {
		return 0, err
	}

	hasher := fnv.New64a()

	_, _ = hasher.Write(b) // fnv.sum64a.Write never returns error

	return hasher.Sum64(), nil
}

func (h *Hasher) canonicalize(a any) any {
	if domain.IsMissing(a) {
		return "\x00missing"
	}
	switch t := a.(type) {
	case nil, bool, string:
		return a
	case time.Time:
		return "\x00date:" + t.UTC().Format(time.RFC3339Nano)
	case *regexp.Regexp:
		return "\x00regex:" + t.String()
	case map[string]any:
		pairs := make(object, 0, len(t))
		for k, v := range t {
			pairs = append(pairs, keyValuePair{key: k, val: h.canonicalize(v)})
		}
		return pairs
	case domain.D:
		pairs := make(object, 0, len(t))
		for _, e := range t {
			pairs = append(pairs, keyValuePair{key: e.Key, val: h.canonicalize(e.Value)})
		}
		return pairs
	case []any:
		res := make([]any, len(t))
		for n, v := range t {
			res[n] = h.canonicalize(v)
		}
		return res
	}
	if f, ok := structure.AsFloat(a); ok {
		switch {
		case math.IsNaN(f):
			return "\x00nan"
		case math.IsInf(f, 1):
			return "\x00+inf"
		case math.IsInf(f, -1):
			return "\x00-inf"
		}
		// ints and equal floats must share an identity; json.Number keeps the
		// value a JSON number so it never collides with a string of its digits
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return nil
}

type keyValuePair struct {
	key string
	val any
}

type object []keyValuePair

// MarshalJSON writes the object with its keys in sorted order so that key
// insertion order never changes the hash.
func (o object) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(append(make([]byte, 0, 1024), '{'))

	keys := make([]string, len(o))
	kvals := make(map[string]any, len(o))

	for n, item := range o {
		keys[n] = item.key
		kvals[item.key] = item.val
	}
	slices.Sort(keys)

	for n, key := range keys {
		b, _ := json.Marshal(key)
		_, _ = buf.Write(b)
		_ = buf.WriteByte(':')
		v, err := json.Marshal(kvals[key])
		if err != nil {
			return nil, err
		}
		_, _ = buf.Write(v)

		if n < len(keys)-1 {
			_ = buf.WriteByte(',')
		}
	}
	_ = buf.WriteByte('}')

	return buf.Bytes(), nil
}
