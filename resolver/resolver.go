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

package resolver

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/acx/apis"
	uref "dirpx.dev/acx/utils/reflect"
)

// ErrNoMember is returned when no strategy exposes the requested member.
var ErrNoMember = errors.New("acx(resolver): no such member")

// New constructs an apis.Introspector that consults the given strategies in order.
// Nil strategies are ignored. The returned introspector is safe for concurrent use
// provided strategies themselves are safe for concurrent TryAccessors calls.
func New(strategies ...apis.Strategy) apis.Introspector {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// chain is an immutable, order-preserving introspector over a set of strategies.
// When several strategies expose the same member name, the earliest one wins.
type chain struct {
	strats []apis.Strategy
}

// Ensure chain implements apis.Introspector.
var _ apis.Introspector = chain{}

// Describe merges the members found by every strategy, keeping the first
// occurrence of each name. Order is strategy order, then discovery order.
func (r chain) Describe(t reflect.Type, cfg apis.Config) ([]apis.Descriptor, error) {
	owner, err := uref.Owner(t)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []apis.Descriptor
	for _, s := range r.strats {
		accs, err := s.TryAccessors(owner, cfg)
		if err != nil {
			return nil, err
		}
		for _, a := range accs {
			if _, dup := seen[a.Name]; dup {
				continue
			}
			seen[a.Name] = struct{}{}
			out = append(out, a.Descriptor)
		}
	}
	return out, nil
}

// Accessor returns the accessor for name from the first strategy that has it.
func (r chain) Accessor(t reflect.Type, name string, cfg apis.Config) (apis.Accessor, error) {
	owner, err := uref.Owner(t)
	if err != nil {
		return apis.Accessor{}, err
	}
	name = uref.CanonicalName(name)
	for _, s := range r.strats {
		accs, err := s.TryAccessors(owner, cfg)
		if err != nil {
			return apis.Accessor{}, err
		}
		for _, a := range accs {
			if a.Name == name {
				return a, nil
			}
		}
	}
	return apis.Accessor{}, fmt.Errorf("%w: %s.%s", ErrNoMember, owner, name)
}
