/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package strategy

import (
	"reflect"
	"sync"

	"dirpx.dev/acx/apis"
	uref "dirpx.dev/acx/utils/reflect"
)

// NewFieldStrategy creates an apis.Strategy that exposes struct fields directly.
func NewFieldStrategy() apis.Strategy {
	return &fieldStrategy{}
}

// fieldStrategy is the universal fallback: every visible field of T becomes a
// read/write member. Promoted fields of embedded structs are included up to
// MaxEmbedDepth; embedded structs themselves are not members.
type fieldStrategy struct {
	// memo caches accessors by (type, config knobs).
	memo sync.Map // map[fieldKey][]apis.Accessor
}

// Ensure fieldStrategy implements apis.Strategy.
var _ apis.Strategy = (*fieldStrategy)(nil)

// fieldKey ensures memoization respects all config knobs that affect discovery.
type fieldKey struct {
	t          reflect.Type
	unexported bool
	maxEmbed   int16
}

// Name returns SourceField.
func (*fieldStrategy) Name() string { return SourceField }

// TryAccessors returns the visible fields of t in declaration order.
func (s *fieldStrategy) TryAccessors(t reflect.Type, cfg apis.Config) ([]apis.Accessor, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, nil
	}
	key := fieldKey{t: t, unexported: cfg.IncludeUnexported, maxEmbed: int16(cfg.MaxEmbedDepth)}
	if v, ok := s.memo.Load(key); ok {
		return v.([]apis.Accessor), nil
	}

	var out []apis.Accessor
	for _, f := range reflect.VisibleFields(t) {
		if len(f.Index)-1 > cfg.MaxEmbedDepth {
			continue
		}
		if f.Anonymous && isStruct(f.Type) {
			continue
		}
		if !f.IsExported() && !cfg.IncludeUnexported {
			continue
		}
		out = append(out, fieldAccessor(t, f))
	}

	s.memo.Store(key, out)
	return out, nil
}

// fieldAccessor captures f's index path once so that calls never look up by name.
func fieldAccessor(owner reflect.Type, f reflect.StructField) apis.Accessor {
	index := f.Index
	zero := reflect.Zero(f.Type)
	return apis.Accessor{
		Descriptor: apis.Descriptor{
			Owner:  owner,
			Name:   uref.CanonicalName(f.Name),
			Type:   f.Type,
			Access: apis.ReadWrite,
			Source: SourceField,
		},
		Get: func(o reflect.Value) reflect.Value {
			v, ok := walk(o, index, false)
			if !ok {
				// A nil embedded pointer on the path reads as the zero value.
				return zero
			}
			return uref.Readable(v)
		},
		Set: func(o, x reflect.Value) {
			v, _ := walk(o, index, true)
			uref.Settable(v).Set(x)
		},
	}
}

// walk follows index from the owner o (T or *T). Nil embedded pointers are
// allocated when alloc is set; otherwise walk reports false.
func walk(o reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	v := o
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				uref.Settable(v).Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
