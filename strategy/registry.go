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

	"dirpx.dev/acx/apis"
)

// NewRegistryStrategy creates an apis.Strategy that uses an apis.Registry.
func NewRegistryStrategy(reg apis.Registry) apis.Strategy {
	return &registryStrategy{reg: reg}
}

// registryStrategy consults a provided apis.Registry. Results are not memoized
// because the registry may grow at runtime.
type registryStrategy struct {
	reg apis.Registry
}

// Ensure registryStrategy implements apis.Strategy.
var _ apis.Strategy = (*registryStrategy)(nil)

// Name returns SourceRegistry.
func (*registryStrategy) Name() string { return SourceRegistry }

// TryAccessors wraps the declarations registered for t.
func (s *registryStrategy) TryAccessors(t reflect.Type, _ apis.Config) ([]apis.Accessor, error) {
	if t == nil || s.reg == nil {
		return nil, nil
	}
	decls := s.reg.Declarations(t)
	if len(decls) == 0 {
		return nil, nil
	}
	out := make([]apis.Accessor, 0, len(decls))
	for _, d := range decls {
		acc, err := declarationAccessor(t, d, SourceRegistry)
		if err != nil {
			return nil, err
		}
		out = append(out, acc)
	}
	return out, nil
}
