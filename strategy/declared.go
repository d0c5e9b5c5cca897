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
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/acx/apis"
)

// NewDeclaredStrategy creates an apis.Strategy that uses apis.Declarer.
func NewDeclaredStrategy() apis.Strategy {
	return &declaredStrategy{}
}

// declaredStrategy is the explicit fast path: if *T implements apis.Declarer,
// its declarations are used ahead of every convention-based strategy.
type declaredStrategy struct {
	// memo caches accessors per owner type.
	memo sync.Map // map[reflect.Type][]apis.Accessor
}

// Ensure declaredStrategy implements apis.Strategy.
var _ apis.Strategy = (*declaredStrategy)(nil)

var declarerType = reflect.TypeFor[apis.Declarer]()

// Name returns SourceDeclared.
func (*declaredStrategy) Name() string { return SourceDeclared }

// TryAccessors asks a zero *T for its declarations.
// The declarations must not depend on instance state.
func (s *declaredStrategy) TryAccessors(t reflect.Type, _ apis.Config) ([]apis.Accessor, error) {
	if t == nil || !reflect.PointerTo(t).Implements(declarerType) {
		return nil, nil
	}
	if v, ok := s.memo.Load(t); ok {
		return v.([]apis.Accessor), nil
	}

	decls := reflect.New(t).Interface().(apis.Declarer).AccessorDeclarations()
	out := make([]apis.Accessor, 0, len(decls))
	for _, d := range decls {
		acc, err := declarationAccessor(t, d, SourceDeclared)
		if err != nil {
			return nil, fmt.Errorf("acx(strategy): %s declares %q: %w", t, d.Name, err)
		}
		out = append(out, acc)
	}

	s.memo.Store(t, out)
	return out, nil
}
