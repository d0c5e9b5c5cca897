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
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"dirpx.dev/acx/apis"
	uref "dirpx.dev/acx/utils/reflect"
)

// NewMethodStrategy creates an apis.Strategy that pairs GetX/SetX methods.
func NewMethodStrategy() apis.Strategy {
	return &methodStrategy{}
}

// methodStrategy groups the methods of *T by the member name that follows the
// configured getter/setter prefixes. A getter is a method with no arguments
// and one result; a setter takes one argument and returns nothing.
type methodStrategy struct {
	// memo caches accessors by (type, prefixes).
	memo sync.Map // map[methodKey][]apis.Accessor
}

// Ensure methodStrategy implements apis.Strategy.
var _ apis.Strategy = (*methodStrategy)(nil)

// methodKey ensures memoization respects all config knobs that affect discovery.
type methodKey struct {
	t      reflect.Type
	getter string
	setter string
}

// Name returns SourceMethod.
func (*methodStrategy) Name() string { return SourceMethod }

// TryAccessors returns one accessor per member name, sorted by name.
func (s *methodStrategy) TryAccessors(t reflect.Type, cfg apis.Config) ([]apis.Accessor, error) {
	if t == nil {
		return nil, nil
	}
	key := methodKey{t: t, getter: cfg.GetterPrefix, setter: cfg.SetterPrefix}
	if v, ok := s.memo.Load(key); ok {
		return v.([]apis.Accessor), nil
	}

	pt := reflect.PointerTo(t)
	getters := map[string]reflect.Method{}
	setters := map[string]reflect.Method{}
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		ft := m.Func.Type()
		switch {
		case ft.NumIn() == 1 && ft.NumOut() == 1:
			if name, ok := member(m.Name, cfg.GetterPrefix); ok {
				getters[name] = m
			}
		case ft.NumIn() == 2 && ft.NumOut() == 0 && !ft.IsVariadic():
			if cfg.SetterPrefix == "" {
				continue
			}
			if name, ok := member(m.Name, cfg.SetterPrefix); ok {
				setters[name] = m
			}
		}
	}

	names := make([]string, 0, len(getters)+len(setters))
	for name := range getters {
		names = append(names, name)
	}
	for name := range setters {
		if _, dup := getters[name]; !dup {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]apis.Accessor, 0, len(names))
	for _, name := range names {
		var get, set reflect.Value
		var extra []any
		if g, ok := getters[name]; ok {
			get = g.Func
			// Value-receiver getters are also reachable as func(T) V.
			if vm, ok := t.MethodByName(g.Name); ok {
				extra = append(extra, vm.Func.Interface())
			}
		}
		if st, ok := setters[name]; ok {
			set = st.Func
			if get.IsValid() && get.Type().Out(0) != set.Type().In(1) {
				// Mismatched pair: expose the getter only.
				set = reflect.Value{}
			}
		}
		out = append(out, funcAccessor(t, name, SourceMethod, get, set, extra...))
	}

	s.memo.Store(key, out)
	return out, nil
}

// member strips prefix from a method name and returns the canonical member
// name. The remainder must start with an upper-case letter, so "Getaway"
// is not the getter of "away".
func member(method, prefix string) (string, bool) {
	if !strings.HasPrefix(method, prefix) {
		return "", false
	}
	rest := method[len(prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if rest == "" || !unicode.IsUpper(r) {
		return "", false
	}
	return uref.CanonicalName(rest), true
}
