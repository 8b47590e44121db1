// Package decoder contains the default [domain.Decoder] implementation,
// converting result documents into user-defined types.
package decoder

import (
	"fmt"

	"github.com/goccy/go-reflect"
	"github.com/mitchellh/mapstructure"

	"github.com/lackofbrilliance/mingo/domain"
	"github.com/lackofbrilliance/mingo/pkg/structure"
)

// Decoder implements domain.Decoder.
type Decoder struct{}

// NewDecoder returns a new implementation of domain.Decoder.
func NewDecoder() domain.Decoder {
	return &Decoder{}
}

// Decode implements domain.Decoder.
func (d *Decoder) Decode(source any, target any) error {
	if target == nil {
		return domain.ErrTargetNil
	}

	value := reflect.ValueNoEscapeOf(target)
	if value.Kind() != reflect.Ptr {
		return domain.ErrNonPointer
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: structure.TagName,
		Result:  target,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(d.adjust(source)); err != nil {
		errDec := domain.ErrDecode{Source: source, Target: target}
		return fmt.Errorf("%w: %w", errDec, err)
	}
	return nil
}

// adjust strips engine-internal values the target type cannot carry.
func (d *Decoder) adjust(value any) any {
	switch t := value.(type) {
	case map[string]any:
		doc := make(map[string]any, len(t))
		for k, v := range t {
			if domain.IsMissing(v) {
				continue
			}
			doc[k] = d.adjust(v)
		}
		return doc
	case domain.D:
		doc := make(map[string]any, len(t))
		for _, e := range t {
			if domain.IsMissing(e.Value) {
				continue
			}
			doc[e.Key] = d.adjust(e.Value)
		}
		return doc
	case []any:
		lst := make([]any, len(t))
		for n, v := range t {
			lst[n] = d.adjust(v)
		}
		return lst
	default:
		return value
	}
}
