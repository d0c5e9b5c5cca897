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

package apis

import (
	"reflect"
	"strings"
)

// Access describes which directions of a member are reachable.
type Access uint8

const (
	// Read marks a member with a getter.
	Read Access = 1 << iota
	// Write marks a member with a setter.
	Write

	// ReadWrite marks a member with both a getter and a setter.
	ReadWrite = Read | Write
)

// CanRead reports whether a has a read direction.
func (a Access) CanRead() bool { return a&Read != 0 }

// CanWrite reports whether a has a write direction.
func (a Access) CanWrite() bool { return a&Write != 0 }

// String returns "read", "write", "readwrite" or "none".
func (a Access) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "readwrite"
	default:
		return "none"
	}
}

// Descriptor identifies one accessor-bearing member of a struct type.
// Descriptors are discovered by strategies and never mutated afterwards.
type Descriptor struct {
	// Owner is the struct type that declares (or promotes) the member.
	Owner reflect.Type
	// Name is the canonical member name ("Items" for field Items or GetItems/SetItems).
	Name string
	// Type is the member's value type.
	Type reflect.Type
	// Access tells whether the member can be read, written or both.
	Access Access
	// Source names the strategy that discovered the member.
	Source string
}

// String returns "pkg.Owner.Name".
func (d Descriptor) String() string {
	var b strings.Builder
	if d.Owner != nil {
		b.WriteString(d.Owner.String())
		b.WriteByte('.')
	}
	b.WriteString(d.Name)
	return b.String()
}

// Accessor is the raw, type-erased form of a member's getter and setter.
//
// Get and Set accept the owner as either T or *T; Set additionally requires
// the owner to be addressable (a *T). Either may be nil when Access lacks the
// corresponding direction.
//
// Funcs optionally carries accessor functions that are already statically
// typed (method expressions, declared funcs). The engine type-asserts them
// against the requested instantiation and uses a match as-is.
type Accessor struct {
	Descriptor

	// Get returns the member value of owner.
	Get func(owner reflect.Value) reflect.Value
	// Set stores v into the member of owner.
	Set func(owner reflect.Value, v reflect.Value)
	// Funcs lists typed getter/setter candidates, e.g. func(*T) V and func(*T, V).
	Funcs []any
}

// Introspector is the type-description capability the engine is built on.
// Implementations are expected to be safe for concurrent use.
type Introspector interface {
	// Describe enumerates the accessor descriptors of t (T or *T for a struct T).
	Describe(t reflect.Type, cfg Config) ([]Descriptor, error)
	// Accessor fetches the raw accessor for the named member of t.
	Accessor(t reflect.Type, name string, cfg Config) (Accessor, error)
}

// Strategy is a pluggable discovery step. An Introspector can chain multiple
// strategies in order (e.g., Declared -> Registry -> Method -> Field).
type Strategy interface {
	// Name identifies the strategy; it is recorded in Descriptor.Source.
	Name() string
	// TryAccessors returns the accessors this strategy finds on the struct type t,
	// in declaration order. It returns (nil, nil) when it has nothing to offer.
	TryAccessors(t reflect.Type, cfg Config) ([]Accessor, error)
}
