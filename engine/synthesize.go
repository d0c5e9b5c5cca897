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

package engine

import (
	"errors"
	"reflect"

	"dirpx.dev/acx/apis"
	"dirpx.dev/acx/cache"
	uref "dirpx.dev/acx/utils/reflect"
)

// entry is the cached form of one (O, V, member) synthesis. Halves that do
// not apply are nil and carry the error that explains why.
type entry[O, V any] struct {
	pair   Pair[O, V]
	getErr error
	setErr error
}

func (en *entry[O, V]) descriptor() apis.Descriptor { return en.pair.Descriptor }

// described is implemented by every entry instantiation.
type described interface {
	descriptor() apis.Descriptor
}

// SynthesizeGetter returns a func(O) V reading the named member.
// O must be the member's owner struct T or *T and V its exact value type.
func SynthesizeGetter[O, V any](e *Engine, name string) (Getter[O, V], error) {
	en, err := lookup[O, V](e, name)
	if err != nil {
		return nil, err
	}
	if en.getErr != nil {
		return nil, en.getErr
	}
	return en.pair.Get, nil
}

// SynthesizeSetter returns a func(O, V) writing the named member.
// O must be *T for the member's owner struct T.
func SynthesizeSetter[O, V any](e *Engine, name string) (Setter[O, V], error) {
	en, err := lookup[O, V](e, name)
	if err != nil {
		return nil, err
	}
	if en.setErr != nil {
		return nil, en.setErr
	}
	return en.pair.Set, nil
}

// SynthesizePair returns both halves of the named member and fails if
// either cannot be synthesized.
func SynthesizePair[O, V any](e *Engine, name string) (Pair[O, V], error) {
	en, err := lookup[O, V](e, name)
	if err != nil {
		return Pair[O, V]{}, err
	}
	if en.getErr != nil {
		return Pair[O, V]{}, en.getErr
	}
	if en.setErr != nil {
		return Pair[O, V]{}, en.setErr
	}
	return en.pair, nil
}

// LookupOrSynthesize returns the cached pair for the named member,
// synthesizing it on first use. The pair may lack one half; it fails only
// when neither half is available.
func LookupOrSynthesize[O, V any](e *Engine, name string) (Pair[O, V], error) {
	en, err := lookup[O, V](e, name)
	if err != nil {
		return Pair[O, V]{}, err
	}
	if en.pair.Get == nil && en.pair.Set == nil {
		return Pair[O, V]{}, errors.Join(en.getErr, en.setErr)
	}
	return en.pair, nil
}

// Bind returns a supplier that reads the member of one fixed owner.
func Bind[O, V any](get Getter[O, V], owner O) func() V {
	return func() V { return get(owner) }
}

// lookup serves the entry for (O, name) from the cache, or synthesizes it
// when caching is disabled.
func lookup[O, V any](e *Engine, name string) (*entry[O, V], error) {
	k := cache.Key{Owner: reflect.TypeFor[O](), Name: uref.CanonicalName(name)}
	create := func() (any, error) {
		en, err := synthesize[O, V](e, k)
		if err != nil {
			return nil, err
		}
		return en, nil
	}

	var v any
	var err error
	if e.cfg.Cache == apis.CacheNone {
		e.log.Debug("accessor cache bypassed", "owner", k.Owner.String(), "member", k.Name)
		v, err = e.cache.Create(create)
	} else {
		v, err = e.cache.LoadOrCreate(k, create)
	}
	if err != nil {
		return nil, err
	}

	en, ok := v.(*entry[O, V])
	if !ok {
		me := &MismatchError{Reason: ReasonCachedType, Owner: k.Owner, Name: k.Name, Got: reflect.TypeFor[V]()}
		if d, ok := v.(described); ok {
			me.Want = d.descriptor().Type
		}
		return nil, me
	}
	return en, nil
}

// synthesize resolves the raw accessor and performs every type check once.
func synthesize[O, V any](e *Engine, k cache.Key) (*entry[O, V], error) {
	vt := reflect.TypeFor[V]()
	mismatch := func(reason MismatchReason, want reflect.Type, err error) *MismatchError {
		return &MismatchError{Reason: reason, Owner: k.Owner, Name: k.Name, Want: want, Got: vt, Err: err}
	}

	acc, err := e.ins.Accessor(k.Owner, k.Name, e.cfg)
	if err != nil {
		if errors.Is(err, uref.ErrReflectNilType) || errors.Is(err, uref.ErrReflectNotStruct) {
			return nil, mismatch(ReasonOwnerType, nil, err)
		}
		return nil, mismatch(ReasonUnknownMember, nil, err)
	}
	if acc.Type != vt {
		return nil, mismatch(ReasonValueType, acc.Type, nil)
	}

	en := &entry[O, V]{pair: Pair[O, V]{Descriptor: acc.Descriptor}}
	var typedGet, typedSet bool
	switch {
	case !acc.Access.CanRead() || acc.Get == nil:
		en.getErr = mismatch(ReasonWriteOnly, acc.Type, nil)
	default:
		en.pair.Get, typedGet = getter[O, V](acc)
	}
	switch {
	case !acc.Access.CanWrite() || acc.Set == nil:
		en.setErr = mismatch(ReasonReadOnly, acc.Type, nil)
	case k.Owner.Kind() != reflect.Ptr:
		en.setErr = mismatch(ReasonValueOwner, acc.Type, nil)
	default:
		en.pair.Set, typedSet = setter[O, V](acc)
	}

	e.log.Debug("accessor synthesized",
		"owner", k.Owner.String(),
		"member", k.Name,
		"source", acc.Source,
		"access", acc.Access.String(),
		"typed_get", typedGet,
		"typed_set", typedSet,
	)
	return en, nil
}

// getter prefers a typed candidate and otherwise wraps the erased invoker.
// The boolean reports whether a typed candidate was used.
func getter[O, V any](acc apis.Accessor) (Getter[O, V], bool) {
	for _, f := range acc.Funcs {
		if g, ok := f.(func(O) V); ok {
			return g, true
		}
	}
	get := acc.Get
	return func(o O) V {
		out := get(reflect.ValueOf(&o).Elem())
		var v V
		reflect.ValueOf(&v).Elem().Set(out)
		return v
	}, false
}

// setter prefers a typed candidate and otherwise wraps the erased invoker.
func setter[O, V any](acc apis.Accessor) (Setter[O, V], bool) {
	for _, f := range acc.Funcs {
		if s, ok := f.(func(O, V)); ok {
			return s, true
		}
	}
	set := acc.Set
	return func(o O, v V) {
		set(reflect.ValueOf(&o).Elem(), reflect.ValueOf(&v).Elem())
	}, false
}
