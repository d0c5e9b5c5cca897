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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"dirpx.dev/acx/apis"
	uref "dirpx.dev/acx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("acx(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when a declaration has an empty name.
	ErrEmptyName = errors.New("acx(registry): empty name provided")
	// ErrNotStruct is returned when the owner is not a struct or pointer to struct.
	ErrNotStruct = errors.New("acx(registry): owner is not a struct")
	// ErrBadDeclaration is returned when a declaration's funcs are missing or malformed.
	ErrBadDeclaration = errors.New("acx(registry): malformed accessor declaration")
	// ErrConflictingRegistration indicates an attempt to re-register
	// a member with different accessor funcs.
	ErrConflictingRegistration = errors.New("acx(registry): conflicting accessor registration")
)

// New constructs an empty Registry.
func New() apis.Registry {
	return &registry{}
}

// registry is a Registry implementation backed by sync.Map.
// Each value is an immutable []apis.Declaration replaced on write.
type registry struct {
	// mu guards write-side consistency and counter
	mu sync.Mutex
	// m maps the owner struct type to its declarations.
	m sync.Map // map[reflect.Type][]apis.Declaration
	// count tracks the number of registered declarations.
	count int
}

// Register validates d and associates it with the owner struct of t.
// It is idempotent for the same (type, name, funcs) triple.
func (r *registry) Register(t reflect.Type, d apis.Declaration) error {
	// Validate inputs early.
	if t == nil {
		return ErrNilType
	}
	if d.Name == "" {
		return ErrEmptyName
	}
	owner, err := uref.Owner(t)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotStruct, t)
	}
	if err := Validate(owner, d); err != nil {
		return err
	}
	d.Name = uref.CanonicalName(d.Name)

	// Fast read path: idempotency / conflict check without locking.
	if done, err := check(r.load(owner), d); done {
		return err
	}

	// Write path: guard with a mutex to keep counter consistent and avoid ABA.
	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under lock in case another goroutine stored meanwhile.
	cur := r.load(owner)
	if done, err := check(cur, d); done {
		return err
	}

	next := make([]apis.Declaration, len(cur), len(cur)+1)
	copy(next, cur)
	r.m.Store(owner, append(next, d))
	r.count++
	return nil
}

// Lookup returns the declaration registered for (t, name).
func (r *registry) Lookup(t reflect.Type, name string) (apis.Declaration, bool) {
	owner, err := uref.Owner(t)
	if err != nil {
		return apis.Declaration{}, false
	}
	name = uref.CanonicalName(name)
	for _, d := range r.load(owner) {
		if d.Name == name {
			return d, true
		}
	}
	return apis.Declaration{}, false
}

// Declarations returns the declarations of t in registration order.
func (r *registry) Declarations(t reflect.Type) []apis.Declaration {
	owner, err := uref.Owner(t)
	if err != nil {
		return nil
	}
	cur := r.load(owner)
	if len(cur) == 0 {
		return nil
	}
	out := make([]apis.Declaration, len(cur))
	copy(out, cur)
	return out
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Entry {
	entries := make([]apis.Entry, 0, r.Count())
	r.m.Range(func(key, value any) bool {
		for _, d := range value.([]apis.Declaration) {
			entries = append(entries, apis.Entry{Type: key.(reflect.Type), Declaration: d})
		}
		return true
	})
	return entries
}

// Count returns the number of registered declarations.
func (r *registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Reset clears all registered declarations.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = sync.Map{}
	r.count = 0
}

func (r *registry) load(owner reflect.Type) []apis.Declaration {
	if v, ok := r.m.Load(owner); ok {
		return v.([]apis.Declaration)
	}
	return nil
}

// check reports done=true when d's name is already taken, with a nil error
// for an idempotent re-registration.
func check(cur []apis.Declaration, d apis.Declaration) (done bool, err error) {
	for _, old := range cur {
		if old.Name != d.Name {
			continue
		}
		if sameFunc(old.Getter, d.Getter) && sameFunc(old.Setter, d.Setter) {
			return true, nil
		}
		return true, ErrConflictingRegistration
	}
	return false, nil
}

// sameFunc compares funcs by code pointer. Distinct closures over the same
// literal compare equal, which is acceptable for idempotency checks.
func sameFunc(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// Validate checks that d is a usable accessor declaration for the struct type owner.
func Validate(owner reflect.Type, d apis.Declaration) error {
	if uref.IsNil(d.Getter) && uref.IsNil(d.Setter) {
		return fmt.Errorf("%w: %s.%s declares neither getter nor setter", ErrBadDeclaration, owner, d.Name)
	}
	var gt, st reflect.Type
	var err error
	if !uref.IsNil(d.Getter) {
		if gt, err = uref.GetterType(owner, d.Getter); err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrBadDeclaration, owner, d.Name, err)
		}
	}
	if !uref.IsNil(d.Setter) {
		if st, err = uref.SetterType(owner, d.Setter); err != nil {
			return fmt.Errorf("%w: %s.%s: %w", ErrBadDeclaration, owner, d.Name, err)
		}
	}
	if gt != nil && st != nil && gt != st {
		return fmt.Errorf("%w: %s.%s getter yields %s but setter takes %s", ErrBadDeclaration, owner, d.Name, gt, st)
	}
	return nil
}
