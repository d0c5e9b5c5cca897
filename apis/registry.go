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

import "reflect"

// Declaration is an explicit getter/setter pair for one member.
//
// Getter must be a func(T) V or func(*T) V and Setter a func(*T, V), where T
// is the owner struct type. Either may be nil, but not both.
type Declaration struct {
	// Name is the member name the pair is exposed under.
	Name string
	// Getter reads the member.
	Getter any
	// Setter writes the member.
	Setter any
}

// Declarer is implemented by types that publish their accessors explicitly.
// Declared accessors take priority over registry entries and naming conventions.
type Declarer interface {
	AccessorDeclarations() []Declaration
}

// Registry stores explicit declarations for types that cannot implement Declarer.
// Keep it minimal so implementations can be lock-free or sync.Map-backed.
type Registry interface {
	// Register associates a declaration with the struct type t (or *t).
	// Implementations should be idempotent; conflicting re-registrations fail.
	Register(t reflect.Type, d Declaration) error
	// Lookup returns the declaration registered for (t, name).
	Lookup(t reflect.Type, name string) (Declaration, bool)
	// Declarations returns the declarations of t in registration order.
	Declarations(t reflect.Type) []Declaration
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Entry
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}

// Entry is a single (type, declaration) association in a Registry snapshot.
type Entry struct {
	// Type is the registered struct type.
	Type reflect.Type
	// Declaration is the associated accessor pair.
	Declaration Declaration
}
